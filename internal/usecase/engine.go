package usecase

import (
	"fmt"
	"sort"

	"PillarSight/internal/domain/models"
	domsvc "PillarSight/internal/domain/service"
)

// severeFailureCount is the number of failed pillars past which the whole
// analysis is considered invalid rather than merely degraded.
const severeFailureCount = 3

// AnalysisEngine turns a (snapshot, context) pair into an immutable Decision.
// It is pure and synchronous: no shared mutable state, no I/O, identical
// inputs always produce an identical Decision. Per-pillar failures are
// contained here and surfaced as data, never as errors to the caller.
type AnalysisEngine struct {
	cal        models.Calibration
	evaluators []domsvc.PillarEvaluator
}

// NewAnalysisEngine builds an engine bound to one immutable calibration
// table and its evaluator set.
func NewAnalysisEngine(cal models.Calibration, evaluators []domsvc.PillarEvaluator) *AnalysisEngine {
	return &AnalysisEngine{cal: cal, evaluators: evaluators}
}

// Calibration returns the table the engine was built with.
func (e *AnalysisEngine) Calibration() models.Calibration { return e.cal }

// Analyze produces the decision contract for one snapshot. It never returns
// an error: missing required data fails closed into an INVALID decision.
func (e *AnalysisEngine) Analyze(snap *models.Snapshot, mkt *models.MarketContext) *models.Decision {
	contributions := make([]models.PillarContribution, 0, len(e.evaluators))
	var failed []string
	var warnings []string

	for _, ev := range e.evaluators {
		contrib := e.runPillar(ev, snap, mkt)
		switch contrib.Status {
		case models.StatusFailed:
			failed = append(failed, string(contrib.Name))
			warnings = append(warnings, fmt.Sprintf("pillar %s failed and was excluded from scoring", contrib.Name))
		case models.StatusPlaceholder:
			warnings = append(warnings, fmt.Sprintf("pillar %s is a placeholder returning a fixed neutral score", contrib.Name))
		}
		contributions = append(contributions, contrib)
	}

	placeholders := 0
	for _, c := range contributions {
		if c.IsPlaceholder {
			placeholders++
		}
	}
	active := len(contributions) - placeholders - len(failed)

	conviction := e.aggregate(contributions)

	// Placeholder cap applies before bias resolution so a mostly-stubbed
	// deployment can never report high conviction.
	if placeholders > e.cal.MaxPlaceholders && conviction > e.cal.PlaceholderCap {
		conviction = e.cal.PlaceholderCap
	}

	valid := snap.HasRequiredData() && mkt.HasRequiredData() &&
		snap.DataAgeSecs <= e.cal.MaxDataAgeSecs &&
		len(failed) < severeFailureCount

	bias := e.resolveBias(conviction, contributions)
	if !valid {
		bias = models.BiasInvalid
	}

	ready, blockReason := e.assessReadiness(valid, conviction, placeholders, failed)

	quality := models.AnalysisQuality{
		TotalPillars:       len(contributions),
		ActivePillars:      active,
		PlaceholderPillars: placeholders,
		FailedPillars:      failed,
		DataAgeSecs:        snap.DataAgeSecs,
		CalibrationVersion: e.cal.Version,
		WeightsUsed:        e.cal.WeightsCopy(),
	}

	return &models.Decision{
		Symbol:               snap.Symbol,
		Timestamp:            snap.Timestamp,
		Bias:                 bias,
		Conviction:           round1(conviction),
		Pillars:              contributions,
		Narrative:            buildNarrative(snap.Symbol, bias, conviction, contributions, quality),
		Quality:              quality,
		IsAnalysisValid:      valid,
		IsExecutionReady:     ready,
		ExecutionBlockReason: blockReason,
		DegradationWarnings:  warnings,
		ContractVersion:      models.ContractVersion,
		EngineVersion:        models.EngineVersion,
	}
}

// runPillar evaluates one pillar with failure containment: errors and panics
// become a zero-score FAILED contribution instead of propagating.
func (e *AnalysisEngine) runPillar(ev domsvc.PillarEvaluator, snap *models.Snapshot, mkt *models.MarketContext) (contrib models.PillarContribution) {
	name := ev.Name()
	weight := e.cal.Weights[name]
	contrib = models.PillarContribution{
		Name:   name,
		Score:  0,
		Bias:   models.BiasNeutral,
		Status: models.StatusFailed,
		Weight: weight,
	}
	defer func() {
		if r := recover(); r != nil {
			contrib.Status = models.StatusFailed
			contrib.Score = 0
			contrib.Bias = models.BiasNeutral
		}
	}()

	res, err := ev.Evaluate(snap, mkt)
	if err != nil {
		return contrib
	}

	status := models.StatusActive
	placeholder := e.cal.IsPlaceholder(name)
	if placeholder {
		status = models.StatusPlaceholder
	}
	contrib = models.PillarContribution{
		Name:          name,
		Score:         res.Score,
		Bias:          res.Bias,
		Status:        status,
		IsPlaceholder: placeholder,
		Weight:        weight,
		Metrics:       res.Metrics,
	}
	return contrib
}

// aggregate computes the weighted conviction score. Failed pillars carry
// their weight at score zero: losing an input degrades conviction instead
// of silently renormalizing around the gap.
func (e *AnalysisEngine) aggregate(contributions []models.PillarContribution) float64 {
	var sum float64
	for _, c := range contributions {
		if c.Status == models.StatusFailed {
			continue
		}
		sum += c.Score * c.Weight
	}
	return sum
}

// resolveBias applies the threshold-plus-majority rule from the calibration.
func (e *AnalysisEngine) resolveBias(conviction float64, contributions []models.PillarContribution) models.Bias {
	var bulls, bears int
	for _, c := range contributions {
		if c.Status == models.StatusFailed {
			continue
		}
		switch c.Bias {
		case models.BiasBullish:
			bulls++
		case models.BiasBearish:
			bears++
		}
	}
	switch {
	case conviction >= e.cal.BullThreshold && bulls > bears:
		return models.BiasBullish
	case conviction <= e.cal.BearThreshold && bears > bulls:
		return models.BiasBearish
	default:
		return models.BiasNeutral
	}
}

// assessReadiness gates whether the decision is complete enough to be
// displayed as actionable. It never authorizes anything by itself.
func (e *AnalysisEngine) assessReadiness(valid bool, conviction float64, placeholders int, failed []string) (bool, *string) {
	var reason string
	switch {
	case !valid:
		reason = "analysis invalid: required input data missing or stale"
	case len(failed) > 0:
		reason = fmt.Sprintf("%d pillar(s) failed: %v", len(failed), failed)
	case placeholders > e.cal.MaxPlaceholders:
		reason = fmt.Sprintf("%d placeholder pillars exceed the maximum of %d", placeholders, e.cal.MaxPlaceholders)
	case conviction < e.cal.ReadinessFloor:
		reason = fmt.Sprintf("conviction %.1f below readiness floor %.1f", conviction, e.cal.ReadinessFloor)
	default:
		return true, nil
	}
	return false, &reason
}

// buildNarrative renders the deterministic human-readable explanation. The
// pillar order is the canonical evaluation order, so identical inputs yield
// byte-identical narratives.
func buildNarrative(symbol string, bias models.Bias, conviction float64, contributions []models.PillarContribution, q models.AnalysisQuality) string {
	s := fmt.Sprintf("%s bias for %s at conviction %.1f (%d/%d pillars active", bias, symbol, round1(conviction), q.ActivePillars, q.TotalPillars)
	if q.PlaceholderPillars > 0 {
		s += fmt.Sprintf(", %d placeholder", q.PlaceholderPillars)
	}
	if len(q.FailedPillars) > 0 {
		s += fmt.Sprintf(", %d failed", len(q.FailedPillars))
	}
	s += "). "

	// Name the strongest and weakest live pillars.
	live := make([]models.PillarContribution, 0, len(contributions))
	for _, c := range contributions {
		if c.Status == models.StatusActive {
			live = append(live, c)
		}
	}
	if len(live) > 0 {
		sort.SliceStable(live, func(i, j int) bool { return live[i].Score > live[j].Score })
		top, bottom := live[0], live[len(live)-1]
		s += fmt.Sprintf("Strongest pillar: %s %.1f (%s); weakest: %s %.1f (%s).",
			top.Name, round1(top.Score), top.Bias, bottom.Name, round1(bottom.Score), bottom.Bias)
	}
	return s
}

func round1(v float64) float64 {
	if v < 0 {
		return float64(int(v*10-0.5)) / 10
	}
	return float64(int(v*10+0.5)) / 10
}
