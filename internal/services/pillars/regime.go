package pillars

import (
	"fmt"

	"PillarSight/internal/domain/models"
	domsvc "PillarSight/internal/domain/service"
)

// RegimeEvaluator scores how favorable the broad market regime is, starting
// from a per-regime base and adjusting for the VIX level and percentile.
type RegimeEvaluator struct{}

func NewRegimeEvaluator() *RegimeEvaluator { return &RegimeEvaluator{} }

func (e *RegimeEvaluator) Name() models.PillarName { return models.PillarRegime }

func (e *RegimeEvaluator) Evaluate(_ *models.Snapshot, mkt *models.MarketContext) (domsvc.PillarResult, error) {
	var base float64
	var bias models.Bias
	switch mkt.Regime {
	case models.RegimeBullish:
		base, bias = 85, models.BiasBullish
	case models.RegimeBearish:
		base, bias = 15, models.BiasBearish
	case models.RegimeSideways:
		base, bias = 50, models.BiasNeutral
	case models.RegimeVolatile:
		base, bias = 50, models.BiasVolatile
	default:
		return domsvc.PillarResult{}, fmt.Errorf("regime: unknown market regime %q", mkt.Regime)
	}

	metrics := map[string]float64{"base": base}
	score := base

	trending := mkt.Regime == models.RegimeBullish || mkt.Regime == models.RegimeBearish
	if mkt.Regime == models.RegimeBullish && mkt.VIX >= 25 {
		score -= 10
		metrics["high_vix_discount"] = 10
	} else if trending && mkt.VIX > 0 && mkt.VIX < 15 {
		score += 5
		metrics["low_vix_bonus"] = 5
	}

	// Extreme VIX percentile caps the score regardless of regime.
	if mkt.VIXPercentile > 80 && score > 60 {
		score = 60
		metrics["percentile_capped"] = 1
	}

	return domsvc.PillarResult{Score: clampScore(score), Bias: bias, Metrics: metrics}, nil
}
