package service

import "PillarSight/internal/domain/models"

// PillarResult is one pillar's raw evaluation output before it is weighted
// and wrapped into a contribution.
type PillarResult struct {
	Score   float64 // clamped to [0,100] by the evaluator
	Bias    models.Bias
	Metrics map[string]float64
}

// PillarEvaluator scores one dimension of a snapshot. Implementations must
// be pure: no shared state, no side effects, and identical inputs always
// produce identical outputs. A returned error marks the pillar as failed
// for this cycle; it never aborts the analysis.
type PillarEvaluator interface {
	Name() models.PillarName
	Evaluate(snap *models.Snapshot, mkt *models.MarketContext) (PillarResult, error)
}
