package models

import "time"

// DecisionHistoryEntry is the reduced, storable projection of a Decision.
// Entries are append-only: once written they are never edited, only read
// back with IsSuperseded derived from whether a newer entry exists for the
// same symbol.
type DecisionHistoryEntry struct {
	ID                 string             `json:"id"`
	Symbol             string             `json:"symbol"`
	Timestamp          time.Time          `json:"timestamp"`
	Bias               Bias               `json:"bias"`
	Conviction         float64            `json:"conviction"`
	CalibrationVersion string             `json:"calibration_version"`
	ActivePillars      int                `json:"active_pillars"`
	PlaceholderPillars int                `json:"placeholder_pillars"`
	FailedPillars      int                `json:"failed_pillars"`
	PillarScores       map[string]float64 `json:"pillar_scores"`
	PillarBiases       map[string]string  `json:"pillar_biases"`
	EngineVersion      string             `json:"engine_version"`
	ContractVersion    string             `json:"contract_version"`
	IsSuperseded       bool               `json:"is_superseded"`
}

// NewHistoryEntry projects a Decision into its storable form. The id is
// assigned by the store at insert time.
func NewHistoryEntry(d *Decision) DecisionHistoryEntry {
	scores := make(map[string]float64, len(d.Pillars))
	biases := make(map[string]string, len(d.Pillars))
	for _, pc := range d.Pillars {
		scores[string(pc.Name)] = pc.Score
		biases[string(pc.Name)] = string(pc.Bias)
	}
	return DecisionHistoryEntry{
		Symbol:             d.Symbol,
		Timestamp:          d.Timestamp,
		Bias:               d.Bias,
		Conviction:         d.Conviction,
		CalibrationVersion: d.Quality.CalibrationVersion,
		ActivePillars:      d.Quality.ActivePillars,
		PlaceholderPillars: d.Quality.PlaceholderPillars,
		FailedPillars:      len(d.Quality.FailedPillars),
		PillarScores:       scores,
		PillarBiases:       biases,
		EngineVersion:      d.EngineVersion,
		ContractVersion:    d.ContractVersion,
	}
}

// ScoreSnapshot builds the drift-analysis view of an entry.
func (e *DecisionHistoryEntry) ScoreSnapshot() PillarScoreSnapshot {
	scores := make(map[PillarName]float64, len(e.PillarScores))
	biases := make(map[PillarName]Bias, len(e.PillarBiases))
	for k, v := range e.PillarScores {
		scores[PillarName(k)] = v
	}
	for k, v := range e.PillarBiases {
		biases[PillarName(k)] = Bias(v)
	}
	return PillarScoreSnapshot{
		Symbol:             e.Symbol,
		Timestamp:          e.Timestamp,
		Scores:             scores,
		Biases:             biases,
		CalibrationVersion: e.CalibrationVersion,
	}
}
