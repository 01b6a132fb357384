package pillars

import (
	"PillarSight/internal/domain/models"
	domsvc "PillarSight/internal/domain/service"
)

// PlaceholderEvaluator stands in for a pillar that is declared but not yet
// implemented in a deployment. It always returns a fixed neutral result so
// that the pillar set stays complete while the quality assessor counts and
// surfaces the gap.
type PlaceholderEvaluator struct {
	name models.PillarName
}

func NewPlaceholderEvaluator(name models.PillarName) *PlaceholderEvaluator {
	return &PlaceholderEvaluator{name: name}
}

func (e *PlaceholderEvaluator) Name() models.PillarName { return e.name }

func (e *PlaceholderEvaluator) Evaluate(_ *models.Snapshot, _ *models.MarketContext) (domsvc.PillarResult, error) {
	return domsvc.PillarResult{
		Score:   50,
		Bias:    models.BiasNeutral,
		Metrics: map[string]float64{"placeholder": 1},
	}, nil
}
