package models

// Bias is the engine's directional opinion. It is never an order instruction.
type Bias string

const (
	BiasBullish  Bias = "BULLISH"
	BiasBearish  Bias = "BEARISH"
	BiasNeutral  Bias = "NEUTRAL"
	BiasVolatile Bias = "VOLATILE" // pillar-level only, never a decision bias
	BiasInvalid  Bias = "INVALID"
)

// IsValidBias reports whether b is a known bias value.
func IsValidBias(b Bias) bool {
	switch b {
	case BiasBullish, BiasBearish, BiasNeutral, BiasVolatile, BiasInvalid:
		return true
	default:
		return false
	}
}

// Regime classifies the broad market state.
type Regime string

const (
	RegimeBullish  Regime = "BULLISH"
	RegimeBearish  Regime = "BEARISH"
	RegimeVolatile Regime = "VOLATILE"
	RegimeSideways Regime = "SIDEWAYS"
)

// IsValidRegime reports whether r is a known regime value.
func IsValidRegime(r Regime) bool {
	switch r {
	case RegimeBullish, RegimeBearish, RegimeVolatile, RegimeSideways:
		return true
	default:
		return false
	}
}

// PillarName identifies one of the six scoring pillars. The set is closed:
// every consumer switches over exactly these values.
type PillarName string

const (
	PillarTrend      PillarName = "trend"
	PillarMomentum   PillarName = "momentum"
	PillarVolatility PillarName = "volatility"
	PillarLiquidity  PillarName = "liquidity"
	PillarSentiment  PillarName = "sentiment"
	PillarRegime     PillarName = "regime"
)

// AllPillars returns the six pillars in canonical evaluation order.
func AllPillars() []PillarName {
	return []PillarName{
		PillarTrend,
		PillarMomentum,
		PillarVolatility,
		PillarLiquidity,
		PillarSentiment,
		PillarRegime,
	}
}

// PillarStatus tags a pillar evaluation outcome.
type PillarStatus string

const (
	StatusActive      PillarStatus = "ACTIVE"
	StatusPlaceholder PillarStatus = "PLACEHOLDER"
	StatusFailed      PillarStatus = "FAILED"
)

// ConvictionTrend labels the direction of a conviction timeline.
type ConvictionTrend string

const (
	TrendIncreasing ConvictionTrend = "INCREASING"
	TrendDecreasing ConvictionTrend = "DECREASING"
	TrendStable     ConvictionTrend = "STABLE"
)

// DriftClass buckets the total pillar drift between two decisions.
type DriftClass string

const (
	DriftStable   DriftClass = "STABLE"
	DriftModerate DriftClass = "MODERATE"
	DriftHigh     DriftClass = "HIGH"
)
