package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Summary SummaryConfig `yaml:"summary"`
	LLM     LLMConfig     `yaml:"llm"`
	Upload  UploadConfig  `yaml:"upload"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// SummaryConfig defines chunking, retry and recombination behavior.
type SummaryConfig struct {
	ChunkMaxSize     int           `yaml:"chunkMaxSize"`
	MinInputLen      int           `yaml:"minInputLen"`
	CombineThreshold int           `yaml:"combineThreshold"`
	MaxRetries       int           `yaml:"maxRetries"`
	BaseBackoff      time.Duration `yaml:"baseBackoff"`
	MaxBackoff       time.Duration `yaml:"maxBackoff"`
}

// LLMConfig contains Hugging Face inference settings.
type LLMConfig struct {
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	Temperature    float32       `yaml:"temperature"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// UploadConfig bounds the document upload surface.
type UploadConfig struct {
	MaxFileBytes      int64    `yaml:"maxFileBytes"`
	AllowedExtensions []string `yaml:"allowedExtensions"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("CHUNK_MAX_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Summary.ChunkMaxSize = parsed
		}
	}
	if v := os.Getenv("SUMMARY_MIN_INPUT_LEN"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Summary.MinInputLen = parsed
		}
	}
	if v := os.Getenv("SUMMARY_COMBINE_THRESHOLD"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Summary.CombineThreshold = parsed
		}
	}
	if v := os.Getenv("HF_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Summary.MaxRetries = parsed
		}
	}
	if v := os.Getenv("HF_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Summary.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("HF_RETRY_MAX_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Summary.MaxBackoff = parsed
		}
	}
	if v := os.Getenv("HF_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("HF_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("HF_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("HF_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("HF_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.RequestTimeout = parsed
		}
	}
	if v := os.Getenv("UPLOAD_MAX_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Upload.MaxFileBytes = parsed
		}
	}
	if v := os.Getenv("UPLOAD_ALLOWED_EXTENSIONS"); v != "" {
		cfg.Upload.AllowedExtensions = splitList(v)
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 3 * time.Minute,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Summary: SummaryConfig{
			ChunkMaxSize:     3000,
			MinInputLen:      20,
			CombineThreshold: 800,
			MaxRetries:       3,
			BaseBackoff:      1500 * time.Millisecond,
			MaxBackoff:       10 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:        "https://api-inference.huggingface.co",
			Model:          "facebook/bart-large-cnn",
			Temperature:    0.1,
			RequestTimeout: 60 * time.Second,
		},
		Upload: UploadConfig{
			MaxFileBytes:      5 << 20,
			AllowedExtensions: []string{".txt", ".md"},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Summary.MinInputLen <= 0 {
		return errors.New("summary.minInputLen must be positive")
	}
	if c.Summary.ChunkMaxSize <= c.Summary.MinInputLen {
		return errors.New("summary.chunkMaxSize must exceed summary.minInputLen")
	}
	if c.Summary.CombineThreshold <= 0 {
		return errors.New("summary.combineThreshold must be positive")
	}
	if c.Summary.MaxRetries <= 0 {
		return errors.New("summary.maxRetries must be positive")
	}
	if c.Summary.BaseBackoff <= 0 {
		return errors.New("summary.baseBackoff must be positive")
	}
	if c.Summary.MaxBackoff < c.Summary.BaseBackoff {
		return errors.New("summary.maxBackoff cannot be below summary.baseBackoff")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Temperature < 0 {
		return errors.New("llm.temperature cannot be negative")
	}
	if c.LLM.RequestTimeout <= 0 {
		return errors.New("llm.requestTimeout must be positive")
	}
	if c.Upload.MaxFileBytes <= 0 {
		return errors.New("upload.maxFileBytes must be positive")
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		return errors.New("upload.allowedExtensions cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
