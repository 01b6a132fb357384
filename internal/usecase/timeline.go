package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"PillarSight/internal/domain/models"
	domrepo "PillarSight/internal/domain/repository"
	"PillarSight/pkg/cache"
)

// trendWindow and trendThreshold define the conviction-trend rule: compare
// the mean of the newest trendWindow points against the mean of the
// trendWindow points before them; a difference beyond +/-trendThreshold
// classifies INCREASING or DECREASING, anything else is STABLE.
const (
	trendWindow    = 3
	trendThreshold = 5.0
)

// TimelineUseCase computes conviction-timeline statistics from the history
// store. Read-only over history; results may be cached briefly.
type TimelineUseCase struct {
	store    domrepo.DecisionHistory
	cache    cache.BytesCache
	cacheTTL time.Duration
}

func NewTimelineUseCase(store domrepo.DecisionHistory, c cache.BytesCache, ttl time.Duration) *TimelineUseCase {
	return &TimelineUseCase{store: store, cache: c, cacheTTL: ttl}
}

// GetConvictionTimeline returns descriptive statistics over the symbol's
// decisions within the trailing day window.
func (uc *TimelineUseCase) GetConvictionTimeline(ctx context.Context, symbol string, days int) (*models.ConvictionTimeline, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if days <= 0 {
		days = 30
	}

	key := fmt.Sprintf("timeline:%s:%d", symbol, days)
	if uc.cache != nil {
		if b, ok, _ := uc.cache.GetBytes(key); ok {
			var tl models.ConvictionTimeline
			if err := json.Unmarshal(b, &tl); err == nil {
				return &tl, nil
			}
		}
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)
	entries, err := uc.store.GetByDateRange(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("timeline history: %w", err)
	}

	tl := ComputeTimeline(symbol, entries)
	tl.WindowDays = days

	if uc.cache != nil && uc.cacheTTL > 0 {
		if b, err := json.Marshal(tl); err == nil {
			_ = uc.cache.SetBytes(key, b, uc.cacheTTL)
		}
	}
	return tl, nil
}

// ComputeTimeline derives the statistics from an ordered (oldest-first)
// entry sequence. Pure and deterministic; descriptive only.
func ComputeTimeline(symbol string, entries []models.DecisionHistoryEntry) *models.ConvictionTimeline {
	points := make([]models.ConvictionDataPoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, models.ConvictionDataPoint{
			Timestamp:  e.Timestamp,
			Conviction: e.Conviction,
			Bias:       e.Bias,
		})
	}

	tl := &models.ConvictionTimeline{
		Symbol:          symbol,
		Points:          points,
		BiasConsistency: 100,
		Trend:           models.TrendStable,
	}
	if len(points) == 0 {
		return tl
	}

	var sum float64
	for _, p := range points {
		sum += p.Conviction
	}
	mean := sum / float64(len(points))
	tl.AverageConviction = round1(mean)

	// Population standard deviation; zero for a single point.
	if len(points) >= 2 {
		var varSum float64
		for _, p := range points {
			d := p.Conviction - mean
			varSum += d * d
		}
		tl.Volatility = round1(math.Sqrt(varSum / float64(len(points))))

		changes := 0
		for i := 1; i < len(points); i++ {
			if points[i].Bias != points[i-1].Bias {
				changes++
			}
		}
		tl.BiasConsistency = round1((1 - float64(changes)/float64(len(points)-1)) * 100)
	}

	// Current streak of the most recent bias.
	last := points[len(points)-1]
	tl.StreakBias = last.Bias
	tl.StreakLength = 1
	for i := len(points) - 2; i >= 0; i-- {
		if points[i].Bias != last.Bias {
			break
		}
		tl.StreakLength++
	}

	tl.Trend = classifyTrend(points)
	return tl
}

// classifyTrend applies the recent-vs-earlier mean rule. Fewer than
// 2*trendWindow points fall back to comparing whatever earlier points exist;
// fewer than trendWindow+1 points are always STABLE.
func classifyTrend(points []models.ConvictionDataPoint) models.ConvictionTrend {
	n := len(points)
	if n < trendWindow+1 {
		return models.TrendStable
	}
	recent := meanConviction(points[n-trendWindow:])
	earlierStart := n - 2*trendWindow
	if earlierStart < 0 {
		earlierStart = 0
	}
	earlier := meanConviction(points[earlierStart : n-trendWindow])

	switch diff := recent - earlier; {
	case diff > trendThreshold:
		return models.TrendIncreasing
	case diff < -trendThreshold:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func meanConviction(points []models.ConvictionDataPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Conviction
	}
	return sum / float64(len(points))
}
