package summary

import (
	"strings"
	"time"

	"github.com/docsum/doc-summarizer/pkg/metrics"
)

// Style names a summary preset controlling output length and format.
type Style string

const (
	StyleBrief    Style = "brief"
	StyleDetailed Style = "detailed"
	StyleBullets  Style = "bullets"
)

// Config configures chunking, retries and recombination.
type Config struct {
	ChunkMaxSize     int
	MinInputLen      int
	CombineThreshold int
	MaxRetries       int
	BaseBackoff      time.Duration
	MaxBackoff       time.Duration
	Temperature      float32
}

// Request represents the incoming summarization payload.
type Request struct {
	Text  string `json:"text"`
	Style string `json:"style,omitempty"`
}

// Response is returned to the HTTP layer.
type Response struct {
	Summary    string              `json:"summary"`
	Style      Style               `json:"style"`
	ChunkCount int                 `json:"chunkCount"`
	Degraded   bool                `json:"degraded,omitempty"`
	DurationMs int64               `json:"durationMs,omitempty"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// GenerationParams are passed to the remote summarization capability.
type GenerationParams struct {
	MaxLength   int
	MinLength   int
	Temperature float32
}

// styleSpec fixes per-style generation bounds and list rendering.
// Length bounds follow the BART summarization presets.
type styleSpec struct {
	maxLength int
	minLength int
	prefix    string
}

var styleTable = map[Style]styleSpec{
	StyleBrief:    {maxLength: 50, minLength: 10},
	StyleDetailed: {maxLength: 120, minLength: 20},
	StyleBullets:  {maxLength: 80, minLength: 15, prefix: "- "},
}

// resolveStyle maps a user supplied tag to a known style. Unrecognized
// tags resolve to detailed; that substitution is never an error.
func resolveStyle(tag string) Style {
	style := Style(strings.ToLower(strings.TrimSpace(tag)))
	if _, ok := styleTable[style]; !ok {
		return StyleDetailed
	}
	return style
}

func (s *service) paramsFor(style Style) GenerationParams {
	spec := styleTable[style]
	return GenerationParams{
		MaxLength:   spec.maxLength,
		MinLength:   spec.minLength,
		Temperature: s.cfg.Temperature,
	}
}
