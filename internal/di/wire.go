//go:build wireinject
// +build wireinject

package di

import (
	"memewatch/pkg/config"
	"memewatch/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Upstream API clients
		ProvideHTTPClient,
		ProvideBirdeye,
		ProvideTokenProviders,
		ProvideAuditor,
		ProvideMarketActivity,
		ProvideVisionAnalyzer,

		// Use cases and command surface
		ProvideResolver,
		ProvideDispatcher,
		ProvideGateway,

		// Ops server and application
		ProvideOpsServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
