package main

import (
	"log/slog"

	"github.com/docsum/doc-summarizer/internal/domain/summary"
	"github.com/docsum/doc-summarizer/internal/infra/config"
	"github.com/docsum/doc-summarizer/internal/infra/llm/hfinference"
	"github.com/docsum/doc-summarizer/internal/infra/tokenizer"
)

func provideSummaryConfig(cfg *config.Config) summary.Config {
	return summary.Config{
		ChunkMaxSize:     cfg.Summary.ChunkMaxSize,
		MinInputLen:      cfg.Summary.MinInputLen,
		CombineThreshold: cfg.Summary.CombineThreshold,
		MaxRetries:       cfg.Summary.MaxRetries,
		BaseBackoff:      cfg.Summary.BaseBackoff,
		MaxBackoff:       cfg.Summary.MaxBackoff,
		Temperature:      cfg.LLM.Temperature,
	}
}

func provideHFClient(cfg *config.Config) (*hfinference.Client, error) {
	return hfinference.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.RequestTimeout)
}

func provideTokenCounter(logger *slog.Logger) summary.TokenCounter {
	counter, err := tokenizer.NewCounter()
	if err != nil {
		logger.Warn("token counter unavailable, usage stats disabled", "error", err)
		return nil
	}
	return counter
}
