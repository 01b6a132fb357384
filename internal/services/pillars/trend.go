package pillars

import (
	"fmt"

	"PillarSight/internal/domain/models"
	domsvc "PillarSight/internal/domain/service"
)

// TrendEvaluator scores moving-average stack alignment: up to 30 points from
// the daily stack, up to 30 from weekly confirmation, normalized to 0-100.
type TrendEvaluator struct{}

func NewTrendEvaluator() *TrendEvaluator { return &TrendEvaluator{} }

func (e *TrendEvaluator) Name() models.PillarName { return models.PillarTrend }

func (e *TrendEvaluator) Evaluate(snap *models.Snapshot, _ *models.MarketContext) (domsvc.PillarResult, error) {
	if snap.DailyMA20 == nil && snap.DailyMA50 == nil && snap.DailyMA200 == nil &&
		snap.WeeklyMA10 == nil && snap.WeeklyMA40 == nil {
		return domsvc.PillarResult{}, fmt.Errorf("trend: no moving averages in snapshot")
	}

	daily := dailyStackPoints(snap)   // 0..30
	weekly := weeklyStackPoints(snap) // 0..30
	raw := daily + weekly
	score := clampScore(raw / 60 * 100)

	bias := models.BiasNeutral
	switch {
	case score >= 65:
		bias = models.BiasBullish
	case score <= 35:
		bias = models.BiasBearish
	}

	return domsvc.PillarResult{
		Score: score,
		Bias:  bias,
		Metrics: map[string]float64{
			"daily_points":  daily,
			"weekly_points": weekly,
		},
	}, nil
}

// dailyStackPoints awards 10 points per aligned pair in the daily stack:
// price above MA20, MA20 above MA50, MA50 above MA200.
func dailyStackPoints(s *models.Snapshot) float64 {
	var pts float64
	if s.DailyMA20 != nil && s.LastPrice > *s.DailyMA20 {
		pts += 10
	}
	if s.DailyMA20 != nil && s.DailyMA50 != nil && *s.DailyMA20 > *s.DailyMA50 {
		pts += 10
	}
	if s.DailyMA50 != nil && s.DailyMA200 != nil && *s.DailyMA50 > *s.DailyMA200 {
		pts += 10
	}
	return pts
}

// weeklyStackPoints awards 15 points each for price above the 10-week MA and
// the 10-week above the 40-week.
func weeklyStackPoints(s *models.Snapshot) float64 {
	var pts float64
	if s.WeeklyMA10 != nil && s.LastPrice > *s.WeeklyMA10 {
		pts += 15
	}
	if s.WeeklyMA10 != nil && s.WeeklyMA40 != nil && *s.WeeklyMA10 > *s.WeeklyMA40 {
		pts += 15
	}
	return pts
}
