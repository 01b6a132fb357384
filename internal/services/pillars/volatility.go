package pillars

import (
	"fmt"

	"PillarSight/internal/domain/models"
	domsvc "PillarSight/internal/domain/service"
)

// defaultVIX is assumed when the context carries no usable VIX level; the
// result is flagged as an estimate in the metrics.
const defaultVIX = 15.0

// VolatilityEvaluator composites ATR%-regime, Bollinger-width-regime and
// VIX-regime sub-scores (weights 0.40 / 0.30 / 0.30). Missing inputs
// reweight the survivors and reduce confidence rather than failing the
// pillar outright.
type VolatilityEvaluator struct{}

func NewVolatilityEvaluator() *VolatilityEvaluator { return &VolatilityEvaluator{} }

func (e *VolatilityEvaluator) Name() models.PillarName { return models.PillarVolatility }

func (e *VolatilityEvaluator) Evaluate(snap *models.Snapshot, mkt *models.MarketContext) (domsvc.PillarResult, error) {
	hasATR := snap.ATRPct != nil
	hasBB := snap.BBWidthPct != nil
	if !hasATR && !hasBB {
		return domsvc.PillarResult{}, fmt.Errorf("volatility: neither ATR%% nor Bollinger width available")
	}

	vix := mkt.VIX
	metrics := map[string]float64{}
	if vix <= 0 {
		vix = defaultVIX
		metrics["vix_estimated"] = 1
	}
	vixScore := vixRegimeScore(vix)
	metrics["vix_score"] = vixScore

	var score, confidence float64
	switch {
	case hasATR && hasBB:
		atrScore := atrRegimeScore(*snap.ATRPct)
		bbScore := bbRegimeScore(*snap.BBWidthPct)
		metrics["atr_score"] = atrScore
		metrics["bb_score"] = bbScore
		score = atrScore*0.40 + bbScore*0.30 + vixScore*0.30
		confidence = 1.0
	case hasBB:
		// missing ATR: BB carries 1.5x weight, confidence down 20%
		bbScore := bbRegimeScore(*snap.BBWidthPct)
		metrics["bb_score"] = bbScore
		metrics["atr_missing"] = 1
		score = (bbScore*0.45 + vixScore*0.30) / 0.75
		confidence = 0.80
	default:
		// missing BB: ATR carries 1.5x weight, confidence down 15%
		atrScore := atrRegimeScore(*snap.ATRPct)
		metrics["atr_score"] = atrScore
		metrics["bb_missing"] = 1
		score = (atrScore*0.60 + vixScore*0.30) / 0.90
		confidence = 0.85
	}
	metrics["confidence"] = confidence

	bias := models.BiasNeutral
	if deref(snap.ATRPct, 0) >= 5.0 || deref(snap.BBWidthPct, 0) >= 12.0 || vix >= 25 {
		bias = models.BiasVolatile
	}
	return domsvc.PillarResult{Score: clampScore(score * confidence), Bias: bias, Metrics: metrics}, nil
}

// atrRegimeScore buckets ATR% into a calm-to-chaotic score.
func atrRegimeScore(atrPct float64) float64 {
	switch {
	case atrPct < 1.5:
		return 85
	case atrPct < 3.0:
		return 60
	case atrPct < 5.0:
		return 40
	case atrPct < 8.0:
		return 25
	default:
		return 10
	}
}

// bbRegimeScore buckets Bollinger band width (% of price).
func bbRegimeScore(widthPct float64) float64 {
	switch {
	case widthPct < 4.0:
		return 85
	case widthPct < 8.0:
		return 60
	case widthPct < 12.0:
		return 40
	case widthPct < 20.0:
		return 25
	default:
		return 10
	}
}

// vixRegimeScore buckets the volatility index level.
func vixRegimeScore(vix float64) float64 {
	switch {
	case vix < 15:
		return 85
	case vix < 20:
		return 60
	case vix < 25:
		return 40
	case vix < 35:
		return 25
	default:
		return 10
	}
}
