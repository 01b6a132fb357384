package pillars

import (
	"fmt"

	"PillarSight/internal/domain/models"
	domsvc "PillarSight/internal/domain/service"
)

// MomentumEvaluator combines an RSI zone score (0-20) with a MACD cross
// score (0-20), normalized to 0-100. When one oscillator is missing the
// other carries double weight and the gap is flagged in the metrics.
type MomentumEvaluator struct{}

func NewMomentumEvaluator() *MomentumEvaluator { return &MomentumEvaluator{} }

func (e *MomentumEvaluator) Name() models.PillarName { return models.PillarMomentum }

func (e *MomentumEvaluator) Evaluate(snap *models.Snapshot, _ *models.MarketContext) (domsvc.PillarResult, error) {
	hasRSI := snap.RSI14 != nil
	hasMACD := snap.MACD != nil && snap.MACDSignal != nil
	if !hasRSI && !hasMACD {
		return domsvc.PillarResult{}, fmt.Errorf("momentum: neither RSI nor MACD available")
	}

	metrics := map[string]float64{}
	var raw float64
	switch {
	case hasRSI && hasMACD:
		rsi := rsiZoneScore(*snap.RSI14)
		macd := macdCrossScore(*snap.MACD, *snap.MACDSignal)
		metrics["rsi_score"] = rsi
		metrics["macd_score"] = macd
		raw = rsi + macd
	case hasRSI:
		rsi := rsiZoneScore(*snap.RSI14)
		metrics["rsi_score"] = rsi
		metrics["macd_missing"] = 1
		raw = rsi * 2
	default:
		macd := macdCrossScore(*snap.MACD, *snap.MACDSignal)
		metrics["macd_score"] = macd
		metrics["rsi_missing"] = 1
		raw = macd * 2
	}

	score := clampScore(raw / 40 * 100)
	bias := models.BiasNeutral
	switch {
	case score >= 65:
		bias = models.BiasBullish
	case score <= 35:
		bias = models.BiasBearish
	}
	return domsvc.PillarResult{Score: score, Bias: bias, Metrics: metrics}, nil
}

// rsiZoneScore maps RSI into a 0-20 zone score. The 55-70 band scores best:
// confirmed momentum without overbought exhaustion. Deep oversold gets a
// modest mean-reversion credit.
func rsiZoneScore(rsi float64) float64 {
	switch {
	case rsi >= 70:
		return 12
	case rsi >= 55:
		return 20
	case rsi >= 45:
		return 10
	case rsi >= 30:
		return 4
	default:
		return 8
	}
}

// macdCrossScore maps MACD-vs-signal state into a 0-20 score.
func macdCrossScore(macd, signal float64) float64 {
	above := macd > signal
	positive := macd > 0
	switch {
	case above && positive:
		return 20
	case above:
		return 14
	case positive:
		return 6
	default:
		return 0
	}
}
