package pillars

import (
	"fmt"
	"math"

	"PillarSight/internal/domain/models"
	domsvc "PillarSight/internal/domain/service"
)

// LiquidityEvaluator composites spread quality (weight 0.55) and depth-ratio
// quality (weight 0.35), with a volume-pressure adjustment of up to +/-15
// when ADOSC is available. Thin books are penalized hard regardless of the
// composite.
type LiquidityEvaluator struct{}

func NewLiquidityEvaluator() *LiquidityEvaluator { return &LiquidityEvaluator{} }

func (e *LiquidityEvaluator) Name() models.PillarName { return models.PillarLiquidity }

func (e *LiquidityEvaluator) Evaluate(snap *models.Snapshot, _ *models.MarketContext) (domsvc.PillarResult, error) {
	spread, hasSpread := effectiveSpreadPct(snap)
	hasDepth := snap.BidDepth != nil && snap.AskDepth != nil
	if !hasSpread && !hasDepth {
		return domsvc.PillarResult{}, fmt.Errorf("liquidity: no spread or depth data in snapshot")
	}

	metrics := map[string]float64{}

	spreadScore := 50.0 // neutral stand-in when the book gives us no spread
	if hasSpread {
		spreadScore = spreadQualityScore(spread)
		metrics["spread_pct"] = spread
		metrics["spread_score"] = spreadScore
	}

	depthRatio := 1.0
	depthScore := 50.0
	totalDepth := 0.0
	if hasDepth {
		bid, ask := *snap.BidDepth, *snap.AskDepth
		totalDepth = bid + ask
		if ask > 0 {
			depthRatio = bid / ask
		} else {
			depthRatio = math.Inf(1)
		}
		depthScore = depthRatioScore(depthRatio)
		metrics["depth_ratio"] = depthRatio
		metrics["depth_score"] = depthScore
		metrics["total_depth"] = totalDepth
	}

	score := spreadScore*0.55 + depthScore*0.35

	adosc := 0.0
	if snap.ADOSC != nil {
		adosc = *snap.ADOSC
		adj := volumePressureAdjust(adosc)
		metrics["pressure_adjust"] = adj
		score += adj
	}

	// Thin-depth penalties override the composite.
	if hasDepth {
		switch {
		case *snap.BidDepth == 0 || *snap.AskDepth == 0:
			score = 0
		case totalDepth < 100:
			score = 15
		case totalDepth < 1000:
			score *= 0.6
		}
	}

	bias := models.BiasNeutral
	switch {
	case (hasSpread && spread > 0.30) || (hasDepth && totalDepth < 1000):
		bias = models.BiasBearish
	case hasDepth && depthRatio > 1.5 && adosc > 1000:
		bias = models.BiasBullish
	case hasDepth && depthRatio < 0.7 && adosc < -1000:
		bias = models.BiasBearish
	}

	return domsvc.PillarResult{Score: clampScore(score), Bias: bias, Metrics: metrics}, nil
}

// effectiveSpreadPct prefers the precomputed spread and falls back to
// deriving it from the quote when both sides are present.
func effectiveSpreadPct(s *models.Snapshot) (float64, bool) {
	if s.SpreadPct != nil {
		return *s.SpreadPct, true
	}
	if s.BidPrice != nil && s.AskPrice != nil && *s.BidPrice > 0 {
		mid := (*s.BidPrice + *s.AskPrice) / 2
		if mid > 0 {
			return (*s.AskPrice - *s.BidPrice) / mid * 100, true
		}
	}
	return 0, false
}

// spreadQualityScore buckets the quoted spread (% of mid).
func spreadQualityScore(spreadPct float64) float64 {
	switch {
	case spreadPct <= 0.05:
		return 98
	case spreadPct <= 0.10:
		return 92
	case spreadPct <= 0.20:
		return 72
	case spreadPct <= 0.30:
		return 50
	default:
		return 22
	}
}

// depthRatioScore buckets bid/ask depth imbalance into five bands, from
// "heavy ask" (<=0.5) to "heavy bid" (>2.0).
func depthRatioScore(ratio float64) float64 {
	switch {
	case ratio <= 0.5:
		return 22
	case ratio <= 0.7:
		return 38
	case ratio <= 1.5:
		return 60
	case ratio <= 2.0:
		return 75
	default:
		return 85
	}
}

// volumePressureAdjust converts the ADOSC reading into a bounded composite
// adjustment.
func volumePressureAdjust(adosc float64) float64 {
	mag := math.Abs(adosc)
	var adj float64
	switch {
	case mag >= 5000:
		adj = 15
	case mag >= 2000:
		adj = 8
	case mag >= 1000:
		adj = 4
	default:
		return 0
	}
	if adosc < 0 {
		return -adj
	}
	return adj
}
