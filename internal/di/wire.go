//go:build wireinject
// +build wireinject

package di

import (
	"FinLens/internal/usecase"
	"FinLens/pkg/config"
	"FinLens/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Data source and cache
		ProvideMarketSource,
		ProvideCache,

		// Use cases
		ProvideSettings,
		usecase.NewCharts,

		// HTTP
		ProvideChartsHandler,
		ProvideLimiter,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
