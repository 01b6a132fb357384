package models

import (
	"testing"
	"time"
)

func sampleDecision() *Decision {
	return &Decision{
		Symbol:     "SPY",
		Timestamp:  time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
		Bias:       BiasBullish,
		Conviction: 72.4,
		Pillars: []PillarContribution{
			{Name: PillarTrend, Score: 83.3, Bias: BiasBullish, Status: StatusActive, Weight: 0.30},
			{Name: PillarSentiment, Score: 70, Bias: BiasBullish, Status: StatusActive, Weight: 0.10},
		},
		Quality: AnalysisQuality{
			TotalPillars:       6,
			ActivePillars:      5,
			PlaceholderPillars: 1,
			FailedPillars:      []string{"liquidity"},
			CalibrationVersion: "cal-2025.1",
		},
		IsAnalysisValid: true,
		ContractVersion: ContractVersion,
		EngineVersion:   EngineVersion,
	}
}

func TestNewHistoryEntryProjection(t *testing.T) {
	d := sampleDecision()
	e := NewHistoryEntry(d)

	if e.Symbol != d.Symbol || !e.Timestamp.Equal(d.Timestamp) {
		t.Fatalf("identity fields = %s @ %s", e.Symbol, e.Timestamp)
	}
	if e.Bias != BiasBullish || e.Conviction != 72.4 {
		t.Fatalf("outcome fields = %v %v", e.Bias, e.Conviction)
	}
	if e.CalibrationVersion != "cal-2025.1" {
		t.Fatalf("calibration = %q", e.CalibrationVersion)
	}
	if e.ActivePillars != 5 || e.PlaceholderPillars != 1 || e.FailedPillars != 1 {
		t.Fatalf("pillar counts = %d/%d/%d", e.ActivePillars, e.PlaceholderPillars, e.FailedPillars)
	}
	if e.PillarScores["trend"] != 83.3 || e.PillarBiases["sentiment"] != "BULLISH" {
		t.Fatalf("pillar maps = %v / %v", e.PillarScores, e.PillarBiases)
	}
	if e.ContractVersion != ContractVersion || e.EngineVersion != EngineVersion {
		t.Fatal("version stamps not carried over")
	}
	if e.ID != "" {
		t.Fatal("id is assigned by the store, not the projection")
	}
	if e.IsSuperseded {
		t.Fatal("a fresh entry is never superseded")
	}
}

func TestScoreSnapshotRoundTrip(t *testing.T) {
	e := NewHistoryEntry(sampleDecision())
	s := e.ScoreSnapshot()

	if s.Symbol != "SPY" || s.CalibrationVersion != "cal-2025.1" {
		t.Fatalf("snapshot identity = %s / %s", s.Symbol, s.CalibrationVersion)
	}
	if s.Scores[PillarTrend] != 83.3 {
		t.Fatalf("trend score = %v", s.Scores[PillarTrend])
	}
	if s.Biases[PillarSentiment] != BiasBullish {
		t.Fatalf("sentiment bias = %v", s.Biases[PillarSentiment])
	}
	if _, ok := s.Scores[PillarRegime]; ok {
		t.Fatal("snapshot must only carry recorded pillars")
	}
}
