package models

import "time"

// ConvictionDataPoint is a read-only view of one history entry, held only
// for the duration of a timeline query.
type ConvictionDataPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Conviction float64   `json:"conviction"`
	Bias       Bias      `json:"bias"`
}

// ConvictionTimeline holds descriptive statistics over a symbol's decision
// history, oldest point first. Descriptive only: nothing here forecasts.
type ConvictionTimeline struct {
	Symbol             string                `json:"symbol"`
	Points             []ConvictionDataPoint `json:"points"`
	AverageConviction  float64               `json:"average_conviction"`
	Volatility         float64               `json:"volatility"`        // population std dev
	BiasConsistency    float64               `json:"bias_consistency"`  // 0-100
	Trend              ConvictionTrend       `json:"trend"`
	StreakBias         Bias                  `json:"streak_bias"`
	StreakLength       int                   `json:"streak_length"`
	WindowDays         int                   `json:"window_days"`
}
