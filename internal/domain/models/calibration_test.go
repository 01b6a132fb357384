package models

import (
	"strings"
	"testing"
)

func TestDefaultCalibrationIsValid(t *testing.T) {
	cal := DefaultCalibration()
	if err := cal.Validate(); err != nil {
		t.Fatalf("default calibration invalid: %v", err)
	}
	if cal.Version == "" {
		t.Fatal("default calibration must carry a version")
	}

	var sum float64
	for _, w := range cal.Weights {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("weights sum to %v", sum)
	}
}

func TestCalibrationValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Calibration)
		wantErr string
	}{
		{
			name:    "missing version",
			mutate:  func(c *Calibration) { c.Version = "" },
			wantErr: "version",
		},
		{
			name:    "missing pillar weight",
			mutate:  func(c *Calibration) { delete(c.Weights, PillarRegime) },
			wantErr: "pillars",
		},
		{
			name: "weights do not sum to one",
			mutate: func(c *Calibration) {
				c.Weights[PillarTrend] = 0.50
			},
			wantErr: "sum to 1.0",
		},
		{
			name: "negative weight",
			mutate: func(c *Calibration) {
				c.Weights[PillarTrend] = -0.10
				c.Weights[PillarMomentum] = 0.60
			},
			wantErr: "negative",
		},
		{
			name: "thresholds inverted",
			mutate: func(c *Calibration) {
				c.BullThreshold = 35
				c.BearThreshold = 65
			},
			wantErr: "below bull threshold",
		},
		{
			name: "unknown placeholder pillar",
			mutate: func(c *Calibration) {
				c.PlaceholderPillars = []PillarName{"astrology"}
			},
			wantErr: "not a known pillar",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cal := DefaultCalibration()
			tc.mutate(&cal)
			err := cal.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestCalibrationIsPlaceholder(t *testing.T) {
	cal := DefaultCalibration()
	cal.PlaceholderPillars = []PillarName{PillarSentiment}

	if !cal.IsPlaceholder(PillarSentiment) {
		t.Fatal("sentiment should be a placeholder")
	}
	if cal.IsPlaceholder(PillarTrend) {
		t.Fatal("trend should not be a placeholder")
	}
}

func TestWeightsCopyIsDetached(t *testing.T) {
	cal := DefaultCalibration()
	cp := cal.WeightsCopy()
	cp["trend"] = 0.99

	if cal.Weights[PillarTrend] == 0.99 {
		t.Fatal("WeightsCopy must not alias the calibration table")
	}
}
