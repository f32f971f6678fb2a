package hfinference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/docsum/doc-summarizer/internal/domain/summary"
	apperrors "github.com/docsum/doc-summarizer/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient("test-key", srv.URL, "facebook/bart-large-cnn", 5*time.Second)
	require.NoError(t, err)
	return client
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "", "facebook/bart-large-cnn", 0)
	require.Error(t, err)

	_, err = NewClient("key", "", "", 0)
	require.Error(t, err)

	client, err := NewClient("key", "", "facebook/bart-large-cnn", 0)
	require.NoError(t, err)
	require.Equal(t, defaultBaseURL, client.baseURL)
}

func TestGenerateRequestShape(t *testing.T) {
	var (
		gotPath    string
		gotAuth    string
		gotPayload generationPayload
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode([]map[string]string{{"summary_text": "A short digest."}})
	})

	out, err := client.Generate(context.Background(), "Long article body.", summary.GenerationParams{
		MaxLength:   50,
		MinLength:   10,
		Temperature: 0.1,
	})
	require.NoError(t, err)
	require.Equal(t, "A short digest.", out)
	require.Equal(t, "/models/facebook/bart-large-cnn", gotPath)
	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, "Long article body.", gotPayload.Inputs)
	require.Equal(t, 50, gotPayload.Parameters.MaxLength)
	require.Equal(t, 10, gotPayload.Parameters.MinLength)
	require.InDelta(t, 0.1, gotPayload.Parameters.Temperature, 0.001)
}

func TestGenerateResponseShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "list with summary_text", body: `[{"summary_text":"From a list."}]`, want: "From a list."},
		{name: "object with generated_text", body: `{"generated_text":"From an object."}`, want: "From an object."},
		{name: "list of strings", body: `["Bare string item."]`, want: "Bare string item."},
		{name: "json string", body: `"Quoted string body."`, want: "Quoted string body."},
		{name: "plain text body", body: "  Unquoted plain text.\n", want: "Unquoted plain text."},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			out, err := client.Generate(context.Background(), "input", summary.GenerationParams{MaxLength: 50, MinLength: 10})
			require.NoError(t, err)
			require.Equal(t, tt.want, out)
		})
	}
}

func TestGenerateStatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{name: "model loading", status: http.StatusServiceUnavailable, wantCode: apperrors.CodeTransientRemote},
		{name: "rate limited", status: http.StatusTooManyRequests, wantCode: apperrors.CodeTransientRemote},
		{name: "server error", status: http.StatusBadGateway, wantCode: apperrors.CodeTransientRemote},
		{name: "bad credentials", status: http.StatusUnauthorized, wantCode: apperrors.CodeFatalRemote},
		{name: "forbidden", status: http.StatusForbidden, wantCode: apperrors.CodeFatalRemote},
		{name: "endpoint retired", status: http.StatusGone, wantCode: apperrors.CodeFatalRemote},
		{name: "bad request", status: http.StatusBadRequest, wantCode: apperrors.CodeFatalRemote},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			})
			_, err := client.Generate(context.Background(), "input", summary.GenerationParams{MaxLength: 50, MinLength: 10})
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, tt.wantCode), "status %d should map to %s, got %v", tt.status, tt.wantCode, err)
		})
	}
}

func TestGenerateConnectionFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client, err := NewClient("key", srv.URL, "facebook/bart-large-cnn", time.Second)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "input", summary.GenerationParams{MaxLength: 50, MinLength: 10})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeTransientRemote))
}

func TestGenerateCanceledContextIsFatal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, "input", summary.GenerationParams{MaxLength: 50, MinLength: 10})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeFatalRemote))
}

func TestGenerateRejectsEmptyList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	_, err := client.Generate(context.Background(), "input", summary.GenerationParams{MaxLength: 50, MinLength: 10})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeFatalRemote))
}

func TestPingUsesMinimalGeneration(t *testing.T) {
	var gotPayload generationPayload
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode([]map[string]string{{"summary_text": "Hi."}})
	})
	require.NoError(t, client.Ping(context.Background()))
	require.Equal(t, "Hello", gotPayload.Inputs)
	require.Equal(t, 10, gotPayload.Parameters.MaxLength)
}
