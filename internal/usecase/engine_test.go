package usecase

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"PillarSight/internal/domain/models"
	"PillarSight/internal/services/pillars"
)

func fp(v float64) *float64 { return &v }

// fullSnapshot carries every optional indicator so all six pillars run.
func fullSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Symbol:      "SPY",
		Timestamp:   time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
		LastPrice:   110,
		DailyMA20:   fp(105),
		DailyMA50:   fp(100),
		DailyMA200:  fp(95),
		WeeklyMA10:  fp(104),
		WeeklyMA40:  fp(98),
		RSI14:       fp(60),
		MACD:        fp(1.2),
		MACDSignal:  fp(0.8),
		ATRPct:      fp(2.0),
		BBWidthPct:  fp(6.0),
		SpreadPct:   fp(0.08),
		BidDepth:    fp(25000),
		AskDepth:    fp(10000),
		ADOSC:       fp(2500),
		OIChangePct: fp(12),
		Delta:       fp(0.35),
		DataAgeSecs: 10,
	}
}

func bullContext() *models.MarketContext {
	return &models.MarketContext{Regime: models.RegimeBullish, VIX: 14, SessionOpen: true}
}

func newEngine(cal models.Calibration) *AnalysisEngine {
	return NewAnalysisEngine(cal, pillars.ForCalibration(cal))
}

func TestAnalyzeDeterministic(t *testing.T) {
	e := newEngine(models.DefaultCalibration())
	snap := fullSnapshot()
	mkt := bullContext()

	a, errA := json.Marshal(e.Analyze(snap, mkt))
	b, errB := json.Marshal(e.Analyze(snap, mkt))
	if errA != nil || errB != nil {
		t.Fatalf("marshal errors: %v %v", errA, errB)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("identical inputs produced different decisions")
	}
}

func TestAnalyzeFullQuality(t *testing.T) {
	e := newEngine(models.DefaultCalibration())
	d := e.Analyze(fullSnapshot(), bullContext())

	if !d.IsAnalysisValid {
		t.Fatal("expected valid analysis")
	}
	if !d.IsExecutionReady {
		t.Fatalf("expected execution ready, block reason: %v", d.ExecutionBlockReason)
	}
	if d.Bias != models.BiasBullish {
		t.Fatalf("bias = %v, want BULLISH", d.Bias)
	}
	if d.Conviction < 65 || d.Conviction > 100 {
		t.Fatalf("conviction = %v, want >= bull threshold", d.Conviction)
	}
	if d.Quality.ActivePillars != 6 || d.Quality.TotalPillars != 6 {
		t.Fatalf("quality = %+v, want 6/6 active", d.Quality)
	}
	if d.ContractVersion != models.ContractVersion || d.EngineVersion != models.EngineVersion {
		t.Fatal("version stamps missing")
	}
	if d.Narrative == "" {
		t.Fatal("expected narrative")
	}
}

func TestDecisionCarriesNoExecutionFields(t *testing.T) {
	e := newEngine(models.DefaultCalibration())
	b, err := json.Marshal(e.Analyze(fullSnapshot(), bullContext()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, forbidden := range []string{"quantity", "price", "stop_loss", "target_price", "order_type", "broker_id"} {
		if _, ok := m[forbidden]; ok {
			t.Fatalf("decision contract leaked execution field %q", forbidden)
		}
	}
}

func TestPlaceholderCapAppliesBeforeBias(t *testing.T) {
	cal := models.DefaultCalibration()
	cal.PlaceholderPillars = []models.PillarName{
		models.PillarVolatility,
		models.PillarLiquidity,
		models.PillarSentiment,
	}
	e := newEngine(cal)

	d := e.Analyze(fullSnapshot(), bullContext())
	if d.Conviction > cal.PlaceholderCap {
		t.Fatalf("conviction = %v, want capped at %v", d.Conviction, cal.PlaceholderCap)
	}
	// 60 conviction can never clear the 65 bull threshold
	if d.Bias == models.BiasBullish {
		t.Fatal("capped conviction must not resolve BULLISH")
	}
	if d.IsExecutionReady {
		t.Fatal("expected not execution ready")
	}
	if d.ExecutionBlockReason == nil || !strings.Contains(*d.ExecutionBlockReason, "placeholder") {
		t.Fatalf("block reason = %v, want placeholder mention", d.ExecutionBlockReason)
	}
	if d.Quality.PlaceholderPillars != 3 {
		t.Fatalf("placeholder count = %d, want 3", d.Quality.PlaceholderPillars)
	}
}

func TestStaleSnapshotInvalid(t *testing.T) {
	e := newEngine(models.DefaultCalibration())
	snap := fullSnapshot()
	snap.DataAgeSecs = 400

	d := e.Analyze(snap, bullContext())
	if d.IsAnalysisValid {
		t.Fatal("expected invalid analysis for stale snapshot")
	}
	if d.Bias != models.BiasInvalid {
		t.Fatalf("bias = %v, want INVALID", d.Bias)
	}
	if d.IsExecutionReady {
		t.Fatal("invalid analysis must not be execution ready")
	}
}

func TestSevereFailuresInvalidate(t *testing.T) {
	e := newEngine(models.DefaultCalibration())
	// Only ATR present: trend, momentum, liquidity and sentiment all fail.
	snap := &models.Snapshot{
		Symbol:    "SPY",
		Timestamp: time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
		LastPrice: 100,
		ATRPct:    fp(2.0),
	}

	d := e.Analyze(snap, bullContext())
	if len(d.Quality.FailedPillars) != 4 {
		t.Fatalf("failed = %v, want 4 failures", d.Quality.FailedPillars)
	}
	if d.Bias != models.BiasInvalid {
		t.Fatalf("bias = %v, want INVALID", d.Bias)
	}
	if len(d.DegradationWarnings) == 0 {
		t.Fatal("expected degradation warnings")
	}
}

func TestSingleFailureDegradesButStaysValid(t *testing.T) {
	e := newEngine(models.DefaultCalibration())
	snap := fullSnapshot()
	snap.OIChangePct = nil
	snap.Delta = nil // sentiment fails

	d := e.Analyze(snap, bullContext())
	if !d.IsAnalysisValid {
		t.Fatal("one failed pillar must not invalidate the analysis")
	}
	if d.IsExecutionReady {
		t.Fatal("failed pillar must block execution readiness")
	}
	if d.ExecutionBlockReason == nil || !strings.Contains(*d.ExecutionBlockReason, "failed") {
		t.Fatalf("block reason = %v, want failure mention", d.ExecutionBlockReason)
	}
	pc, ok := d.Pillar(models.PillarSentiment)
	if !ok || pc.Status != models.StatusFailed || pc.Score != 0 {
		t.Fatalf("sentiment contribution = %+v, want FAILED at 0", pc)
	}
}

func TestFailedPillarWeightIsNotRenormalized(t *testing.T) {
	e := newEngine(models.DefaultCalibration())
	snap := fullSnapshot()
	full := e.Analyze(snap, bullContext())

	degraded := fullSnapshot()
	degraded.OIChangePct = nil
	degraded.Delta = nil
	d := e.Analyze(degraded, bullContext())

	if d.Conviction >= full.Conviction {
		t.Fatalf("conviction %v with failed pillar, want below full %v", d.Conviction, full.Conviction)
	}
}
