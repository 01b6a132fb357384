package models

import "fmt"

// Calibration is the weight/threshold table in effect for one engine build.
// It is loaded once per process and treated as read-only configuration: a
// change ships as a new immutable version, never as an in-place edit.
type Calibration struct {
	Version string

	// Pillar aggregation weights. Must sum to 1.0.
	Weights map[PillarName]float64

	// Bias resolution thresholds on the aggregated conviction score.
	BullThreshold float64 // conviction >= this (and bull majority) -> BULLISH
	BearThreshold float64 // conviction <= this (and bear majority) -> BEARISH

	// Quality gates.
	MaxPlaceholders  int     // more than this caps conviction and blocks readiness
	PlaceholderCap   float64 // conviction ceiling once MaxPlaceholders is exceeded
	ReadinessFloor   float64 // conviction below this blocks execution readiness
	MaxDataAgeSecs   float64 // snapshots older than this invalidate the analysis

	// Pillars deployed as placeholders (declared, not yet implemented).
	PlaceholderPillars []PillarName
}

// DefaultCalibration returns the v1 production table.
func DefaultCalibration() Calibration {
	return Calibration{
		Version: "cal-2025.1",
		Weights: map[PillarName]float64{
			PillarTrend:      0.30,
			PillarMomentum:   0.20,
			PillarVolatility: 0.10,
			PillarLiquidity:  0.10,
			PillarSentiment:  0.10,
			PillarRegime:     0.20,
		},
		BullThreshold:   65,
		BearThreshold:   35,
		MaxPlaceholders: 2,
		PlaceholderCap:  60,
		ReadinessFloor:  20,
		MaxDataAgeSecs:  300,
	}
}

// Validate checks internal consistency of the table.
func (c Calibration) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("calibration version is required")
	}
	if len(c.Weights) != len(AllPillars()) {
		return fmt.Errorf("calibration must weight all %d pillars, got %d", len(AllPillars()), len(c.Weights))
	}
	var sum float64
	for _, p := range AllPillars() {
		w, ok := c.Weights[p]
		if !ok {
			return fmt.Errorf("missing weight for pillar %q", p)
		}
		if w < 0 {
			return fmt.Errorf("negative weight for pillar %q", p)
		}
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("pillar weights must sum to 1.0, got %.4f", sum)
	}
	if c.BearThreshold >= c.BullThreshold {
		return fmt.Errorf("bear threshold %.1f must be below bull threshold %.1f", c.BearThreshold, c.BullThreshold)
	}
	for _, p := range c.PlaceholderPillars {
		if c.Weights[p] == 0 {
			return fmt.Errorf("placeholder pillar %q is not a known pillar", p)
		}
	}
	return nil
}

// IsPlaceholder reports whether pillar p is deployed as a placeholder.
func (c Calibration) IsPlaceholder(p PillarName) bool {
	for _, q := range c.PlaceholderPillars {
		if p == q {
			return true
		}
	}
	return false
}

// WeightsCopy returns a frozen copy of the weight table keyed by string,
// suitable for embedding into an AnalysisQuality audit record.
func (c Calibration) WeightsCopy() map[string]float64 {
	out := make(map[string]float64, len(c.Weights))
	for p, w := range c.Weights {
		out[string(p)] = w
	}
	return out
}
