//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/docsum/doc-summarizer/internal/bootstrap"
	"github.com/docsum/doc-summarizer/internal/domain/summary"
	"github.com/docsum/doc-summarizer/internal/infra/config"
	"github.com/docsum/doc-summarizer/internal/infra/llm/hfinference"
	httpiface "github.com/docsum/doc-summarizer/internal/interface/http"
	"github.com/docsum/doc-summarizer/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideSummaryConfig,
		provideHFClient,
		provideTokenCounter,
		summary.NewService,
		wire.Bind(new(summary.RemoteClient), new(*hfinference.Client)),
		wire.Bind(new(httpiface.HealthChecker), new(*hfinference.Client)),
		httpiface.NewSummaryHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
