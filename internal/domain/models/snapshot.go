package models

import "time"

// Snapshot is the per-symbol, per-cycle input to the engine. It is owned by
// the caller and immutable once constructed; evaluators only read it.
// Optional indicators are pointers: nil means "not available this cycle",
// which pillars must degrade around rather than crash on.
type Snapshot struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	LastPrice float64   `json:"last_price"`

	// Moving averages, daily and weekly stacks.
	DailyMA20   *float64 `json:"daily_ma20,omitempty"`
	DailyMA50   *float64 `json:"daily_ma50,omitempty"`
	DailyMA200  *float64 `json:"daily_ma200,omitempty"`
	WeeklyMA10  *float64 `json:"weekly_ma10,omitempty"`
	WeeklyMA40  *float64 `json:"weekly_ma40,omitempty"`

	// Oscillators.
	RSI14      *float64 `json:"rsi14,omitempty"`
	MACD       *float64 `json:"macd,omitempty"`
	MACDSignal *float64 `json:"macd_signal,omitempty"`

	// Volatility measures.
	ATRPct     *float64 `json:"atr_pct,omitempty"`
	BBWidthPct *float64 `json:"bb_width_pct,omitempty"`

	// Liquidity measures.
	BidPrice  *float64 `json:"bid_price,omitempty"`
	AskPrice  *float64 `json:"ask_price,omitempty"`
	BidDepth  *float64 `json:"bid_depth,omitempty"`
	AskDepth  *float64 `json:"ask_depth,omitempty"`
	SpreadPct *float64 `json:"spread_pct,omitempty"`
	ADOSC     *float64 `json:"adosc,omitempty"` // volume-pressure oscillator

	// Derivatives measures.
	OIChangePct *float64 `json:"oi_change_pct,omitempty"`
	Delta       *float64 `json:"delta,omitempty"`
	Gamma       *float64 `json:"gamma,omitempty"`

	DataAgeSecs float64 `json:"data_age_secs"`
}

// HasRequiredData reports whether the snapshot carries the fields the engine
// cannot produce a valid analysis without. Optional indicators are not part
// of this check; pillars degrade around those individually.
func (s *Snapshot) HasRequiredData() bool {
	return s.Symbol != "" && s.LastPrice > 0 && !s.Timestamp.IsZero()
}

// MarketContext is the market-wide input shared read-only across all pillar
// calls within one analysis cycle.
type MarketContext struct {
	Regime        Regime  `json:"regime"`
	VIX           float64 `json:"vix"`
	VIXPercentile float64 `json:"vix_percentile"` // 0-100
	SessionOpen   bool    `json:"session_open"`
	PreMarket     bool    `json:"pre_market"`

	// Transition carries optional regime-transition metadata. The base
	// struct stays fixed so v1.0 consumers never see these fields; additive
	// growth happens here.
	Transition *RegimeTransition `json:"transition,omitempty"`
}

// RegimeTransition is the additive extension block for regime metadata.
type RegimeTransition struct {
	DurationDays    int    `json:"duration_days"`
	PriorRegime     Regime `json:"prior_regime"`
	TransitionCount int    `json:"transition_count"`
}

// HasRequiredData reports whether the context is usable for analysis.
func (c *MarketContext) HasRequiredData() bool {
	return IsValidRegime(c.Regime)
}
