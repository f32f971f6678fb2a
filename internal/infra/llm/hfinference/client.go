package hfinference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docsum/doc-summarizer/internal/domain/summary"
	apperrors "github.com/docsum/doc-summarizer/pkg/errors"
)

const defaultBaseURL = "https://api-inference.huggingface.co"

// generationPayload is the request body for hosted inference models.
type generationPayload struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
}

type generationParameters struct {
	MaxLength   int     `json:"max_length"`
	MinLength   int     `json:"min_length"`
	Temperature float32 `json:"temperature"`
}

// Client performs HTTP requests against the Hugging Face inference API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs an inference client for one model.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("hf api key cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("hf model cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Generate runs one summarization call. Errors carry the transient_remote or
// fatal_remote code so the caller's retry policy can classify them.
func (c *Client) Generate(ctx context.Context, text string, params summary.GenerationParams) (string, error) {
	payload, err := json.Marshal(generationPayload{
		Inputs: text,
		Parameters: generationParameters{
			MaxLength:   params.MaxLength,
			MinLength:   params.MinLength,
			Temperature: params.Temperature,
		},
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeFatalRemote, "encode generation request", err)
	}

	endpoint := c.baseURL + "/models/" + c.model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeFatalRemote, "build generation request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", apperrors.Wrap(apperrors.CodeFatalRemote, "generation request canceled", err)
		}
		// Timeouts and connection failures are retryable.
		return "", apperrors.Wrap(apperrors.CodeTransientRemote, "generation request failed", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := classifyStatus(resp.StatusCode, body); err != nil {
		return "", err
	}

	out, err := extractGeneration(body)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeFatalRemote, "decode generation response", err)
	}
	return out, nil
}

// Ping issues a minimal generation to probe remote availability.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Generate(ctx, "Hello", summary.GenerationParams{MaxLength: 10, MinLength: 5})
	return err
}

func classifyStatus(status int, body []byte) error {
	switch {
	case status < 300:
		return nil
	case status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable || status >= 500:
		return apperrors.Wrap(apperrors.CodeTransientRemote, fmt.Sprintf("hf inference status %d: %s", status, snippet(body)), nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.Wrap(apperrors.CodeFatalRemote, fmt.Sprintf("hf auth error %d: %s", status, snippet(body)), nil)
	case status == http.StatusGone:
		return apperrors.Wrap(apperrors.CodeFatalRemote, "hf legacy inference endpoint removed", nil)
	default:
		return apperrors.Wrap(apperrors.CodeFatalRemote, fmt.Sprintf("hf inference status %d: %s", status, snippet(body)), nil)
	}
}

// extractGeneration tolerates the response shapes hosted models return: a
// list of objects, a bare object, or a JSON string. Objects are probed for
// the well-known generation keys.
func extractGeneration(body []byte) (string, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		// Some deployments answer with plain text.
		text := strings.TrimSpace(string(body))
		if text == "" {
			return "", errors.New("empty response body")
		}
		return text, nil
	}

	switch v := raw.(type) {
	case []any:
		if len(v) == 0 {
			return "", errors.New("empty generation list")
		}
		if obj, ok := v[0].(map[string]any); ok {
			return firstGenerationKey(obj)
		}
		if s, ok := v[0].(string); ok && s != "" {
			return s, nil
		}
	case map[string]any:
		return firstGenerationKey(v)
	case string:
		if v != "" {
			return v, nil
		}
	}
	return "", errors.New("unrecognized generation shape")
}

var generationKeys = []string{"summary_text", "generated_text", "text", "result", "output"}

func firstGenerationKey(obj map[string]any) (string, error) {
	for _, key := range generationKeys {
		if value, ok := obj[key]; ok {
			if s, ok := value.(string); ok && s != "" {
				return s, nil
			}
		}
	}
	return "", errors.New("no generation field in response")
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
