package repository

import (
	"context"
	"time"

	"PillarSight/internal/domain/models"
)

// SnapshotStream delivers market snapshots from the upstream data layer.
type SnapshotStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Snapshot, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// DecisionPublisher publishes finished decision contracts downstream.
type DecisionPublisher interface {
	Publish(ctx context.Context, d *models.Decision) error
	Close() error
}

// DecisionHistory is the append-only archive of past decisions per symbol.
// Entries are never mutated after insert; IsSuperseded is derived at read
// time from the presence of a newer entry for the same symbol. The analysis
// engine itself never reads from this store.
type DecisionHistory interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Save(ctx context.Context, d *models.Decision) (id string, err error)
	GetRecent(ctx context.Context, symbol string, limit int) ([]models.DecisionHistoryEntry, error)
	GetByDateRange(ctx context.Context, symbol string, from, to time.Time) ([]models.DecisionHistoryEntry, error)
	GetBiasDistribution(ctx context.Context, symbol string) (map[models.Bias]int64, error)
	GetLatestTwo(ctx context.Context, symbol string) (previous, current *models.DecisionHistoryEntry, err error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational telemetry for the decision pipeline.
type Metrics interface {
	RecordDecision(symbol string, bias string)
	RecordConviction(symbol string, conviction float64)
	RecordPillarFailure(pillar string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
