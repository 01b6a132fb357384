//go:build wireinject
// +build wireinject

package di

import (
	"PillarSight/pkg/config"
	"PillarSight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideDecisionHistory,
		ProvideDecisionPublisher,
		ProvideSnapshotStream,

		// Engine
		ProvideCalibration,
		ProvideAnalysisEngine,
		ProvideContextSource,

		// Use cases
		ProvideDecisionProcessor,
		ProvideSnapshotCollector,
		ProvideKafkaDecisionsHandler,
		ProvideAnalyticsCache,
		ProvideHistoryUseCase,
		ProvideTimelineUseCase,
		ProvideDriftUseCase,

		// HTTP
		ProvideDecisionsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
