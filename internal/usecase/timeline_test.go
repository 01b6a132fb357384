package usecase

import (
	"context"
	"testing"
	"time"

	"PillarSight/internal/domain/models"
	"PillarSight/pkg/cache"
)

// fakeHistory is an in-memory DecisionHistory stub for use case tests.
type fakeHistory struct {
	entries     []models.DecisionHistoryEntry
	rangeCalls  int
	latestCalls int
}

func (f *fakeHistory) Init(context.Context) error { return nil }

func (f *fakeHistory) Save(_ context.Context, d *models.Decision) (string, error) {
	e := models.NewHistoryEntry(d)
	e.ID = "fake"
	f.entries = append(f.entries, e)
	return e.ID, nil
}

func (f *fakeHistory) GetRecent(_ context.Context, _ string, limit int) ([]models.DecisionHistoryEntry, error) {
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[len(f.entries)-limit:], nil
}

func (f *fakeHistory) GetByDateRange(_ context.Context, _ string, _, _ time.Time) ([]models.DecisionHistoryEntry, error) {
	f.rangeCalls++
	return f.entries, nil
}

func (f *fakeHistory) GetBiasDistribution(_ context.Context, _ string) (map[models.Bias]int64, error) {
	out := make(map[models.Bias]int64)
	for _, e := range f.entries {
		out[e.Bias]++
	}
	return out, nil
}

func (f *fakeHistory) GetLatestTwo(_ context.Context, _ string) (*models.DecisionHistoryEntry, *models.DecisionHistoryEntry, error) {
	f.latestCalls++
	switch len(f.entries) {
	case 0:
		return nil, nil, nil
	case 1:
		return nil, &f.entries[0], nil
	default:
		return &f.entries[len(f.entries)-2], &f.entries[len(f.entries)-1], nil
	}
}

func (f *fakeHistory) Health(context.Context) error { return nil }
func (f *fakeHistory) Close() error                 { return nil }

func entryAt(day int, conviction float64, bias models.Bias) models.DecisionHistoryEntry {
	return models.DecisionHistoryEntry{
		Symbol:     "SPY",
		Timestamp:  time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		Conviction: conviction,
		Bias:       bias,
	}
}

func TestComputeTimelineEmpty(t *testing.T) {
	tl := ComputeTimeline("SPY", nil)
	if tl.AverageConviction != 0 || tl.Volatility != 0 {
		t.Fatalf("empty timeline stats = %+v", tl)
	}
	if tl.BiasConsistency != 100 {
		t.Fatalf("consistency = %v, want 100 by default", tl.BiasConsistency)
	}
	if tl.Trend != models.TrendStable {
		t.Fatalf("trend = %v, want STABLE", tl.Trend)
	}
}

func TestComputeTimelineSinglePoint(t *testing.T) {
	tl := ComputeTimeline("SPY", []models.DecisionHistoryEntry{entryAt(1, 72, models.BiasBullish)})
	if tl.AverageConviction != 72 {
		t.Fatalf("average = %v, want 72", tl.AverageConviction)
	}
	if tl.Volatility != 0 {
		t.Fatalf("volatility = %v, want 0 for one point", tl.Volatility)
	}
	if tl.BiasConsistency != 100 {
		t.Fatalf("consistency = %v, want 100", tl.BiasConsistency)
	}
	if tl.StreakBias != models.BiasBullish || tl.StreakLength != 1 {
		t.Fatalf("streak = %v x%d", tl.StreakBias, tl.StreakLength)
	}
}

func TestComputeTimelineTrend(t *testing.T) {
	cases := []struct {
		name        string
		convictions []float64
		want        models.ConvictionTrend
	}{
		{"increasing", []float64{50, 50, 50, 60, 60, 60}, models.TrendIncreasing},
		{"decreasing", []float64{60, 60, 60, 50, 50, 50}, models.TrendDecreasing},
		{"flat", []float64{55, 55, 55, 55, 55, 55}, models.TrendStable},
		{"within threshold", []float64{50, 50, 50, 54, 54, 54}, models.TrendStable},
		{"too few points", []float64{50, 60, 70}, models.TrendStable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries := make([]models.DecisionHistoryEntry, 0, len(tc.convictions))
			for i, c := range tc.convictions {
				entries = append(entries, entryAt(i+1, c, models.BiasNeutral))
			}
			tl := ComputeTimeline("SPY", entries)
			if tl.Trend != tc.want {
				t.Fatalf("trend = %v, want %v", tl.Trend, tc.want)
			}
		})
	}
}

func TestComputeTimelineConsistencyAndStreak(t *testing.T) {
	entries := []models.DecisionHistoryEntry{
		entryAt(1, 70, models.BiasBullish),
		entryAt(2, 68, models.BiasBullish),
		entryAt(3, 50, models.BiasNeutral),
		entryAt(4, 52, models.BiasNeutral),
	}
	tl := ComputeTimeline("SPY", entries)

	// one bias change across three transitions
	if tl.BiasConsistency != 66.7 {
		t.Fatalf("consistency = %v, want 66.7", tl.BiasConsistency)
	}
	if tl.StreakBias != models.BiasNeutral || tl.StreakLength != 2 {
		t.Fatalf("streak = %v x%d, want NEUTRAL x2", tl.StreakBias, tl.StreakLength)
	}
	if tl.AverageConviction != 60 {
		t.Fatalf("average = %v, want 60", tl.AverageConviction)
	}
}

func TestGetConvictionTimelineCaches(t *testing.T) {
	store := &fakeHistory{entries: []models.DecisionHistoryEntry{
		entryAt(1, 70, models.BiasBullish),
		entryAt(2, 72, models.BiasBullish),
	}}
	mc := cache.NewMemoryCache()
	defer mc.Close()
	uc := NewTimelineUseCase(store, mc, time.Minute)

	first, err := uc.GetConvictionTimeline(context.Background(), "SPY", 30)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := uc.GetConvictionTimeline(context.Background(), "SPY", 30)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if store.rangeCalls != 1 {
		t.Fatalf("store queried %d times, want 1 (cached)", store.rangeCalls)
	}
	if first.AverageConviction != second.AverageConviction {
		t.Fatal("cached timeline diverged")
	}
	if first.WindowDays != 30 {
		t.Fatalf("window = %d, want 30", first.WindowDays)
	}
}

func TestGetConvictionTimelineRequiresSymbol(t *testing.T) {
	uc := NewTimelineUseCase(&fakeHistory{}, nil, 0)
	if _, err := uc.GetConvictionTimeline(context.Background(), "", 30); err == nil {
		t.Fatal("expected error for empty symbol")
	}
}
