package models

import "time"

// PillarScoreSnapshot is the per-pillar view of one decision used for drift
// comparison. Derived from a history entry; read-only.
type PillarScoreSnapshot struct {
	Symbol             string                 `json:"symbol"`
	Timestamp          time.Time              `json:"timestamp"`
	Scores             map[PillarName]float64 `json:"scores"`
	Biases             map[PillarName]Bias    `json:"biases"`
	CalibrationVersion string                 `json:"calibration_version"`
}

// BiasChange records a pillar whose bias flipped between two snapshots.
type BiasChange struct {
	From Bias `json:"from"`
	To   Bias `json:"to"`
}

// PillarDrift explains what changed between two consecutive decisions for
// the same symbol.
type PillarDrift struct {
	Symbol             string                    `json:"symbol"`
	PreviousTimestamp  time.Time                 `json:"previous_timestamp"`
	CurrentTimestamp   time.Time                 `json:"current_timestamp"`
	ScoreDeltas        map[PillarName]float64    `json:"score_deltas"`
	BiasChanges        map[PillarName]BiasChange `json:"bias_changes,omitempty"`
	MaxDriftPillar     PillarName                `json:"max_drift_pillar"`
	MaxDriftMagnitude  float64                   `json:"max_drift_magnitude"`
	TotalDriftScore    float64                   `json:"total_drift_score"`
	Classification     DriftClass                `json:"classification"`
	TopMovers          []PillarName              `json:"top_movers"`
	Summary            string                    `json:"summary"`
	CalibrationChanged bool                      `json:"calibration_changed"`
}
