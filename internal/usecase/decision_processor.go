package usecase

import (
	"context"
	"fmt"
	"time"

	"PillarSight/internal/domain/models"
	drepo "PillarSight/internal/domain/repository"
)

// DecisionProcessor runs the analysis engine on incoming snapshots and
// routes the resulting contract to the configured backend: "kafka" publishes
// it downstream, "clickhouse" appends it to the history archive directly.
type DecisionProcessor struct {
	engine  *AnalysisEngine
	pub     drepo.DecisionPublisher
	store   drepo.DecisionHistory
	metrics drepo.Metrics
	backend string
	mkt     MarketContextSource
}

// MarketContextSource supplies the market-wide context for a cycle. The
// engine treats the returned value as read-only.
type MarketContextSource interface {
	Current() *models.MarketContext
}

// NewDecisionProcessor creates a processor for the given backend.
func NewDecisionProcessor(
	engine *AnalysisEngine,
	pub drepo.DecisionPublisher,
	store drepo.DecisionHistory,
	metrics drepo.Metrics,
	backend string,
	mkt MarketContextSource,
) *DecisionProcessor {
	return &DecisionProcessor{
		engine:  engine,
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		mkt:     mkt,
	}
}

// Process analyzes one snapshot and routes the decision.
func (p *DecisionProcessor) Process(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("snapshot is nil")
	}

	start := time.Now()
	d := p.engine.Analyze(snap, p.mkt.Current())
	p.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	p.metrics.RecordDecision(d.Symbol, string(d.Bias))
	p.metrics.RecordConviction(d.Symbol, d.Conviction)
	for _, name := range d.Quality.FailedPillars {
		p.metrics.RecordPillarFailure(name)
	}

	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, d)
	case "clickhouse":
		_, err = p.store.Save(ctx, d)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process decision: %w", err)
	}
	return nil
}

// Close releases the processor's backend resources.
func (p *DecisionProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
