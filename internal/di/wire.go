//go:build wireinject
// +build wireinject

package di

import (
	"SignalScan/pkg/config"
	"SignalScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Market data
		ProvideLimiter,
		ProvideBarProvider,
		ProvideSeriesCache,
		ProvideQuoteStream,

		// Engine
		ProvideScanner,

		// HTTP
		ProvideScanHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
