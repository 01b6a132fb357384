package models

import "time"

// ContractVersion tags the Decision schema. Additive-only changes bump the
// minor version; removing or re-defining a field requires a major bump.
const ContractVersion = "1.1.0"

// EngineVersion identifies the analysis engine build that produced a Decision.
const EngineVersion = "1.4.0"

// PillarContribution is one pillar's output within a Decision. Created once
// per pillar per cycle and never mutated afterwards.
type PillarContribution struct {
	Name          PillarName         `json:"name"`
	Score         float64            `json:"score"` // clamped to [0,100]
	Bias          Bias               `json:"bias"`
	Status        PillarStatus       `json:"status"`
	IsPlaceholder bool               `json:"is_placeholder"`
	Weight        float64            `json:"weight"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
}

// AnalysisQuality describes how complete the analysis behind a Decision was.
type AnalysisQuality struct {
	TotalPillars       int                `json:"total_pillars"`
	ActivePillars      int                `json:"active_pillars"`
	PlaceholderPillars int                `json:"placeholder_pillars"`
	FailedPillars      []string           `json:"failed_pillars,omitempty"`
	DataAgeSecs        float64            `json:"data_age_secs"`
	CalibrationVersion string             `json:"calibration_version,omitempty"`
	WeightsUsed        map[string]float64 `json:"weights_used,omitempty"`
}

// Decision is the versioned analysis contract ("trade intent"). It carries
// an opinion about direction and confidence, never a trading instruction:
// no size, price level, order type, or broker reference may ever be added
// to this struct. Immutable after construction.
type Decision struct {
	Symbol               string               `json:"symbol"`
	Timestamp            time.Time            `json:"timestamp"`
	Bias                 Bias                 `json:"directional_bias"`
	Conviction           float64              `json:"conviction"`
	Pillars              []PillarContribution `json:"pillars"`
	Narrative            string               `json:"narrative"`
	Quality              AnalysisQuality      `json:"quality"`
	IsAnalysisValid      bool                 `json:"is_analysis_valid"`
	IsExecutionReady     bool                 `json:"is_execution_ready"`
	ExecutionBlockReason *string              `json:"execution_block_reason,omitempty"`
	DegradationWarnings  []string             `json:"degradation_warnings,omitempty"`
	ContractVersion      string               `json:"contract_version"`
	EngineVersion        string               `json:"engine_version"`
}

// Pillar returns the contribution for pillar p, if present.
func (d *Decision) Pillar(p PillarName) (PillarContribution, bool) {
	for _, pc := range d.Pillars {
		if pc.Name == p {
			return pc, true
		}
	}
	return PillarContribution{}, false
}
