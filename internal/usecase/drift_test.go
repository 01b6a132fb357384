package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"PillarSight/internal/domain/models"
	"PillarSight/pkg/cache"
)

func snapshotWith(ts time.Time, calVersion string, scores map[models.PillarName]float64, biases map[models.PillarName]models.Bias) models.PillarScoreSnapshot {
	return models.PillarScoreSnapshot{
		Symbol:             "SPY",
		Timestamp:          ts,
		Scores:             scores,
		Biases:             biases,
		CalibrationVersion: calVersion,
	}
}

func TestComputeDriftModerateWithBiasFlip(t *testing.T) {
	prevTS := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	currTS := prevTS.Add(time.Hour)
	prev := snapshotWith(prevTS, "cal-2025.1",
		map[models.PillarName]float64{models.PillarTrend: 75, models.PillarSentiment: 55},
		map[models.PillarName]models.Bias{models.PillarTrend: models.BiasBullish, models.PillarSentiment: models.BiasNeutral},
	)
	curr := snapshotWith(currTS, "cal-2025.1",
		map[models.PillarName]float64{models.PillarTrend: 83.3, models.PillarSentiment: 70},
		map[models.PillarName]models.Bias{models.PillarTrend: models.BiasBullish, models.PillarSentiment: models.BiasBullish},
	)

	d := ComputeDrift(prev, curr)

	if d.ScoreDeltas[models.PillarTrend] != 8.3 || d.ScoreDeltas[models.PillarSentiment] != 15.0 {
		t.Fatalf("deltas = %v", d.ScoreDeltas)
	}
	if d.TotalDriftScore != 23.3 {
		t.Fatalf("total = %v, want 23.3", d.TotalDriftScore)
	}
	if d.Classification != models.DriftModerate {
		t.Fatalf("class = %v, want MODERATE", d.Classification)
	}
	if d.MaxDriftPillar != models.PillarSentiment || d.MaxDriftMagnitude != 15.0 {
		t.Fatalf("max mover = %v at %v", d.MaxDriftPillar, d.MaxDriftMagnitude)
	}
	if len(d.TopMovers) != 2 || d.TopMovers[0] != models.PillarSentiment || d.TopMovers[1] != models.PillarTrend {
		t.Fatalf("top movers = %v", d.TopMovers)
	}
	bc, ok := d.BiasChanges[models.PillarSentiment]
	if !ok || bc.From != models.BiasNeutral || bc.To != models.BiasBullish {
		t.Fatalf("bias change = %+v", d.BiasChanges)
	}
	if d.CalibrationChanged {
		t.Fatal("calibration did not change")
	}

	want := "MODERATE drift detected (23.3 total points). Sentiment increased by 15.0 points (NEUTRAL -> BULLISH)."
	if d.Summary != want {
		t.Fatalf("summary = %q\nwant      %q", d.Summary, want)
	}
}

func TestComputeDriftSymmetry(t *testing.T) {
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := snapshotWith(ts, "cal-2025.1",
		map[models.PillarName]float64{
			models.PillarTrend:     75,
			models.PillarMomentum:  40.5,
			models.PillarSentiment: 55,
		},
		nil,
	)
	b := snapshotWith(ts.Add(time.Hour), "cal-2025.1",
		map[models.PillarName]float64{
			models.PillarTrend:     62.2,
			models.PillarMomentum:  58,
			models.PillarSentiment: 70,
		},
		nil,
	)

	fwd := ComputeDrift(a, b)
	rev := ComputeDrift(b, a)
	for _, p := range models.AllPillars() {
		if fwd.ScoreDeltas[p] != -rev.ScoreDeltas[p] {
			t.Fatalf("pillar %s: forward %v, reverse %v", p, fwd.ScoreDeltas[p], rev.ScoreDeltas[p])
		}
	}
	if fwd.TotalDriftScore != rev.TotalDriftScore {
		t.Fatalf("totals differ: %v vs %v", fwd.TotalDriftScore, rev.TotalDriftScore)
	}
}

func TestComputeDriftMissingPillarBaseline(t *testing.T) {
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	prev := snapshotWith(ts, "cal-2025.1",
		map[models.PillarName]float64{models.PillarTrend: 60},
		nil,
	)
	curr := snapshotWith(ts.Add(time.Hour), "cal-2025.1",
		map[models.PillarName]float64{models.PillarTrend: 60, models.PillarVolatility: 62},
		nil,
	)

	d := ComputeDrift(prev, curr)
	// newly lit pillar measured against the 50-point baseline
	if d.ScoreDeltas[models.PillarVolatility] != 12.0 {
		t.Fatalf("volatility delta = %v, want 12.0", d.ScoreDeltas[models.PillarVolatility])
	}
}

func TestComputeDriftClassBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		score float64
		want  models.DriftClass
	}{
		{"below stable boundary", 59.9, models.DriftStable}, // |59.9-50| = 9.9
		{"exactly ten", 60, models.DriftModerate},           // 10 is not < 10
		{"exactly thirty", 80, models.DriftModerate},        // 30 is not > 30
		{"above thirty", 80.5, models.DriftHigh},            // 30.5
	}
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prev := snapshotWith(ts, "v1", map[models.PillarName]float64{models.PillarTrend: 50}, nil)
			curr := snapshotWith(ts.Add(time.Hour), "v1", map[models.PillarName]float64{models.PillarTrend: tc.score}, nil)
			d := ComputeDrift(prev, curr)
			if d.Classification != tc.want {
				t.Fatalf("total %v classified %v, want %v", d.TotalDriftScore, d.Classification, tc.want)
			}
		})
	}
}

func TestComputeDriftCalibrationChanged(t *testing.T) {
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	prev := snapshotWith(ts, "cal-2025.1", map[models.PillarName]float64{models.PillarTrend: 50}, nil)
	curr := snapshotWith(ts.Add(time.Hour), "cal-2025.2", map[models.PillarName]float64{models.PillarTrend: 52}, nil)

	d := ComputeDrift(prev, curr)
	if !d.CalibrationChanged {
		t.Fatal("expected calibration change flag")
	}
	if !strings.Contains(d.Summary, "Calibration version changed") {
		t.Fatalf("summary = %q, want calibration note", d.Summary)
	}
}

func TestGetPillarDriftRequiresTwoEntries(t *testing.T) {
	uc := NewDriftUseCase(&fakeHistory{}, nil, 0)
	if _, err := uc.GetPillarDrift(context.Background(), "SPY"); err == nil {
		t.Fatal("expected error with no history")
	}

	one := &fakeHistory{}
	one.entries = append(one.entries, entryAt(1, 70, models.BiasBullish))
	uc = NewDriftUseCase(one, nil, 0)
	if _, err := uc.GetPillarDrift(context.Background(), "SPY"); err == nil {
		t.Fatal("expected error with a single entry")
	}
}

func TestGetPillarDriftCaches(t *testing.T) {
	store := &fakeHistory{}
	for i, c := range []float64{70, 74} {
		e := entryAt(i+1, c, models.BiasBullish)
		e.PillarScores = map[string]float64{"trend": 60 + float64(i)*8}
		e.PillarBiases = map[string]string{"trend": "BULLISH"}
		store.entries = append(store.entries, e)
	}
	mc := cache.NewMemoryCache()
	defer mc.Close()
	uc := NewDriftUseCase(store, mc, time.Minute)

	if _, err := uc.GetPillarDrift(context.Background(), "SPY"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := uc.GetPillarDrift(context.Background(), "SPY"); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if store.latestCalls != 1 {
		t.Fatalf("store queried %d times, want 1 (cached)", store.latestCalls)
	}
}

func TestGetPillarDriftBetweenValidatesOrder(t *testing.T) {
	uc := NewDriftUseCase(&fakeHistory{}, nil, 0)
	now := time.Now()
	if _, err := uc.GetPillarDriftBetween(context.Background(), "SPY", now, now); err == nil {
		t.Fatal("expected error when timestamps are not ordered")
	}
}
