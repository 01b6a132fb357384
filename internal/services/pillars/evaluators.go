package pillars

import (
	"PillarSight/internal/domain/models"
	domsvc "PillarSight/internal/domain/service"
)

// ForCalibration builds the full six-pillar evaluator set in canonical
// order, substituting placeholders for any pillar the calibration declares
// unimplemented. The returned slice always has exactly six entries.
func ForCalibration(cal models.Calibration) []domsvc.PillarEvaluator {
	out := make([]domsvc.PillarEvaluator, 0, len(models.AllPillars()))
	for _, p := range models.AllPillars() {
		if cal.IsPlaceholder(p) {
			out = append(out, NewPlaceholderEvaluator(p))
			continue
		}
		switch p {
		case models.PillarTrend:
			out = append(out, NewTrendEvaluator())
		case models.PillarMomentum:
			out = append(out, NewMomentumEvaluator())
		case models.PillarVolatility:
			out = append(out, NewVolatilityEvaluator())
		case models.PillarLiquidity:
			out = append(out, NewLiquidityEvaluator())
		case models.PillarSentiment:
			out = append(out, NewSentimentEvaluator())
		case models.PillarRegime:
			out = append(out, NewRegimeEvaluator())
		}
	}
	return out
}
