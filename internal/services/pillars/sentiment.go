package pillars

import (
	"fmt"

	"PillarSight/internal/domain/models"
	domsvc "PillarSight/internal/domain/service"
)

// highGammaThreshold marks the gamma level past which dealer hedging makes
// directional reads unreliable; the score is haircut 10% above it.
const highGammaThreshold = 0.10

// SentimentEvaluator reads derivatives positioning: starts from a neutral
// 50, moves up to +/-20 on open-interest patterns and +/-15 on directional
// (delta) exposure, then haircuts under high gamma.
type SentimentEvaluator struct{}

func NewSentimentEvaluator() *SentimentEvaluator { return &SentimentEvaluator{} }

func (e *SentimentEvaluator) Name() models.PillarName { return models.PillarSentiment }

func (e *SentimentEvaluator) Evaluate(snap *models.Snapshot, _ *models.MarketContext) (domsvc.PillarResult, error) {
	if snap.OIChangePct == nil && snap.Delta == nil {
		return domsvc.PillarResult{}, fmt.Errorf("sentiment: no derivatives data in snapshot")
	}

	metrics := map[string]float64{}
	score := 50.0

	if snap.OIChangePct != nil {
		adj := oiPatternAdjust(*snap.OIChangePct)
		metrics["oi_adjust"] = adj
		score += adj
	} else {
		metrics["oi_missing"] = 1
	}

	if snap.Delta != nil {
		adj := deltaExposureAdjust(*snap.Delta)
		metrics["delta_adjust"] = adj
		score += adj
	} else {
		metrics["delta_missing"] = 1
	}

	if snap.Gamma != nil && *snap.Gamma >= highGammaThreshold {
		metrics["high_gamma"] = 1
		score *= 0.90
	}

	score = clampScore(score)
	bias := models.BiasNeutral
	switch {
	case score >= 65:
		bias = models.BiasBullish
	case score <= 35:
		bias = models.BiasBearish
	}
	return domsvc.PillarResult{Score: score, Bias: bias, Metrics: metrics}, nil
}

// oiPatternAdjust maps open-interest change (%) into a +/-20 adjustment.
// Building interest supports the move; unwinding interest fades it.
func oiPatternAdjust(oiChangePct float64) float64 {
	switch {
	case oiChangePct >= 10:
		return 20
	case oiChangePct >= 3:
		return 10
	case oiChangePct > -3:
		return 0
	case oiChangePct > -10:
		return -10
	default:
		return -20
	}
}

// deltaExposureAdjust maps aggregate delta into a +/-15 adjustment.
func deltaExposureAdjust(delta float64) float64 {
	switch {
	case delta >= 0.30:
		return 15
	case delta >= 0.10:
		return 8
	case delta > -0.10:
		return 0
	case delta > -0.30:
		return -8
	default:
		return -15
	}
}
