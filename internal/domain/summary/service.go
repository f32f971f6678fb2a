package summary

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/docsum/doc-summarizer/pkg/errors"
	"github.com/docsum/doc-summarizer/pkg/metrics"
	"github.com/docsum/doc-summarizer/pkg/util"
)

// Service exposes summarization capabilities.
type Service interface {
	Summarize(ctx context.Context, req Request) (Response, error)
}

// RemoteClient is the remote summarization capability. Implementations must
// classify failures with the transient_remote / fatal_remote error codes.
type RemoteClient interface {
	Generate(ctx context.Context, text string, params GenerationParams) (string, error)
}

// TokenCounter estimates token counts for usage reporting.
type TokenCounter interface {
	Count(text string) int
}

type service struct {
	cfg     Config
	client  RemoteClient
	counter TokenCounter
	logger  *slog.Logger
	sleep   func(time.Duration)
	now     func() time.Time
}

// NewService is a wire provider for the summary domain. counter may be nil.
func NewService(cfg Config, client RemoteClient, counter TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		client:  client,
		counter: counter,
		logger:  logger.With("component", "summary.service"),
		sleep:   time.Sleep,
		now:     util.NowUTC,
	}
}

// Tightened output budget for the single echo retry.
const echoRetryMaxLength = 40

func (s *service) Summarize(ctx context.Context, req Request) (Response, error) {
	start := s.now()

	text := normalizeText(req.Text)
	if len(text) < s.cfg.MinInputLen {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "text too short to summarize", nil)
	}

	style := resolveStyle(req.Style)
	params := s.paramsFor(style)
	chunks := chunkText(text, s.cfg.ChunkMaxSize)

	parts := make([]string, 0, len(chunks))
	degraded := false
	for i, ch := range chunks {
		part, fellBack := s.summarizeChunk(ctx, i, ch.text, style, params)
		degraded = degraded || fellBack
		parts = append(parts, part)
	}

	summary, combineFellBack := s.combine(ctx, parts, style, params)
	degraded = degraded || combineFellBack
	if style == StyleBullets {
		rendered := formatBullets(splitSentences(summary), styleTable[StyleBullets].prefix)
		if rendered == "" {
			// A remote result of bare list markers strips to nothing.
			rendered = fallbackSummary(text, style)
			degraded = true
		}
		summary = rendered
	}

	resp := Response{
		Summary:    summary,
		Style:      style,
		ChunkCount: len(chunks),
		Degraded:   degraded,
		DurationMs: s.now().Sub(start).Milliseconds(),
	}
	if s.counter != nil {
		usage := metrics.TokenUsage{
			PromptTokens:     s.counter.Count(text),
			CompletionTokens: s.counter.Count(summary),
		}
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		resp.TokenUsage = &usage
	}

	s.logger.Info("summary produced", "style", style, "chunks", len(chunks), "degraded", degraded, "duration_ms", resp.DurationMs)
	return resp, nil
}

// summarizeChunk resolves one chunk to usable text. Remote failures and
// persistent echoes degrade to the local fallback instead of failing the
// request; the second return reports that degradation.
func (s *service) summarizeChunk(ctx context.Context, index int, text string, style Style, params GenerationParams) (string, bool) {
	out, err := s.callWithRetry(ctx, text, params)
	if err == nil {
		if !looksLikeEcho(text, out) {
			return strings.TrimSpace(out), false
		}
		s.logger.Warn("echoed result, retrying with tighter budget", "chunk", index)
		tight := params
		if tight.MaxLength > echoRetryMaxLength {
			tight.MaxLength = echoRetryMaxLength
		}
		if tight.MinLength > tight.MaxLength {
			tight.MinLength = tight.MaxLength / 2
		}
		out, err = s.callWithRetry(ctx, text, tight)
		if err == nil && !looksLikeEcho(text, out) {
			return strings.TrimSpace(out), false
		}
	}
	if err != nil {
		s.logger.Warn("remote summarization failed, using local fallback", "chunk", index, "error", err)
	} else {
		s.logger.Warn("echo persisted, using local fallback", "chunk", index)
	}
	return fallbackSummary(text, style), true
}

// callWithRetry retries transient remote failures with exponential backoff.
// Fatal failures propagate immediately.
func (s *service) callWithRetry(ctx context.Context, text string, params GenerationParams) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		out, err := s.client.Generate(ctx, text, params)
		if err == nil {
			return out, nil
		}
		if !apperrors.IsCode(err, apperrors.CodeTransientRemote) {
			return "", err
		}
		lastErr = err
		if attempt < s.cfg.MaxRetries {
			s.sleep(s.backoff(attempt))
		}
	}
	return "", lastErr
}

func (s *service) backoff(attempt int) time.Duration {
	delay := s.cfg.BaseBackoff * time.Duration(1<<(attempt-1))
	if s.cfg.MaxBackoff > 0 && delay > s.cfg.MaxBackoff {
		delay = s.cfg.MaxBackoff
	}
	return delay
}

// combine folds per-chunk results into the final summary. A single part is
// returned verbatim. Multiple parts are joined in chunk order and, when the
// joined text still exceeds the threshold, synthesized once more through the
// remote; if that call fails or echoes, the concatenation stands.
func (s *service) combine(ctx context.Context, parts []string, style Style, params GenerationParams) (string, bool) {
	if len(parts) == 1 {
		return strings.TrimSpace(parts[0]), false
	}
	joined := joinParts(parts, style)
	if len(joined) <= s.cfg.CombineThreshold {
		return joined, false
	}
	synth, err := s.callWithRetry(ctx, joined, params)
	if err != nil {
		s.logger.Warn("synthesis call failed, returning concatenated parts", "error", err)
		return joined, true
	}
	synth = strings.TrimSpace(synth)
	if looksLikeEcho(joined, synth) {
		return joined, true
	}
	return synth, false
}

func joinParts(parts []string, style Style) string {
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	sep := " "
	if style == StyleBullets {
		sep = "\n"
	}
	return strings.Join(cleaned, sep)
}

// looksLikeEcho reports whether out merely reproduces in rather than
// compressing it: exact or containment matches after whitespace collapsing,
// or output at least 90% of the input length for non-trivial inputs.
func looksLikeEcho(in, out string) bool {
	outS := collapseWhitespace(out)
	if outS == "" {
		return true
	}
	inS := collapseWhitespace(in)
	if outS == inS || strings.Contains(outS, inS) || strings.Contains(inS, outS) {
		return true
	}
	if len(inS) > 40 && len(outS)*10 >= len(inS)*9 {
		return true
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
