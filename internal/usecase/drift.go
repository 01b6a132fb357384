package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"PillarSight/internal/domain/models"
	domrepo "PillarSight/internal/domain/repository"
	"PillarSight/pkg/cache"
)

// missingPillarScore is assumed for a pillar absent from the previous
// snapshot so that a newly lit pillar still yields a meaningful delta.
const missingPillarScore = 50.0

// DriftUseCase compares consecutive decisions for a symbol and explains
// what moved. Read-only over history.
type DriftUseCase struct {
	store    domrepo.DecisionHistory
	cache    cache.BytesCache
	cacheTTL time.Duration
}

func NewDriftUseCase(store domrepo.DecisionHistory, c cache.BytesCache, ttl time.Duration) *DriftUseCase {
	return &DriftUseCase{store: store, cache: c, cacheTTL: ttl}
}

// GetPillarDrift measures latest-vs-previous drift for the symbol.
func (uc *DriftUseCase) GetPillarDrift(ctx context.Context, symbol string) (*models.PillarDrift, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}

	key := "drift:" + symbol
	if uc.cache != nil {
		if b, ok, _ := uc.cache.GetBytes(key); ok {
			var d models.PillarDrift
			if err := json.Unmarshal(b, &d); err == nil {
				return &d, nil
			}
		}
	}

	prev, curr, err := uc.store.GetLatestTwo(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("drift history: %w", err)
	}
	if curr == nil {
		return nil, fmt.Errorf("no decisions recorded for %s", symbol)
	}
	if prev == nil {
		return nil, fmt.Errorf("only one decision recorded for %s, drift needs two", symbol)
	}

	d := ComputeDrift(prev.ScoreSnapshot(), curr.ScoreSnapshot())
	if uc.cache != nil && uc.cacheTTL > 0 {
		if b, err := json.Marshal(d); err == nil {
			_ = uc.cache.SetBytes(key, b, uc.cacheTTL)
		}
	}
	return d, nil
}

// GetPillarDriftBetween measures drift between two explicitly timestamped
// decisions, located by nearest entry at or before each timestamp.
func (uc *DriftUseCase) GetPillarDriftBetween(ctx context.Context, symbol string, prevTS, currTS time.Time) (*models.PillarDrift, error) {
	if !prevTS.Before(currTS) {
		return nil, fmt.Errorf("previous timestamp must be before current")
	}
	entries, err := uc.store.GetByDateRange(ctx, symbol, prevTS, currTS)
	if err != nil {
		return nil, fmt.Errorf("drift history: %w", err)
	}
	if len(entries) < 2 {
		return nil, fmt.Errorf("need two decisions between %s and %s for %s", prevTS.Format(time.RFC3339), currTS.Format(time.RFC3339), symbol)
	}
	first, last := entries[0], entries[len(entries)-1]
	d := ComputeDrift(first.ScoreSnapshot(), last.ScoreSnapshot())
	return d, nil
}

// ComputeDrift compares two pillar score snapshots. Pure and deterministic;
// ComputeDrift(a,b).ScoreDeltas[p] == -ComputeDrift(b,a).ScoreDeltas[p] for
// every pillar present in both.
func ComputeDrift(prev, curr models.PillarScoreSnapshot) *models.PillarDrift {
	deltas := make(map[models.PillarName]float64, len(curr.Scores))
	biasChanges := make(map[models.PillarName]models.BiasChange)

	var maxPillar models.PillarName
	var maxMag, total float64
	for _, p := range models.AllPillars() {
		cs, ok := curr.Scores[p]
		if !ok {
			continue
		}
		ps, ok := prev.Scores[p]
		if !ok {
			ps = missingPillarScore
		}
		delta := round1(cs - ps)
		deltas[p] = delta
		total += math.Abs(delta)
		if math.Abs(delta) > maxMag {
			maxMag = math.Abs(delta)
			maxPillar = p
		}

		pb, cb := prev.Biases[p], curr.Biases[p]
		if pb != "" && cb != "" && pb != cb {
			biasChanges[p] = models.BiasChange{From: pb, To: cb}
		}
	}
	total = round1(total)

	movers := make([]models.PillarName, 0, len(deltas))
	for p := range deltas {
		movers = append(movers, p)
	}
	sort.SliceStable(movers, func(i, j int) bool {
		di, dj := math.Abs(deltas[movers[i]]), math.Abs(deltas[movers[j]])
		if di != dj {
			return di > dj
		}
		return movers[i] < movers[j] // deterministic tiebreak
	})

	var class models.DriftClass
	switch {
	case total < 10:
		class = models.DriftStable
	case total <= 30:
		class = models.DriftModerate
	default:
		class = models.DriftHigh
	}

	d := &models.PillarDrift{
		Symbol:             curr.Symbol,
		PreviousTimestamp:  prev.Timestamp,
		CurrentTimestamp:   curr.Timestamp,
		ScoreDeltas:        deltas,
		BiasChanges:        biasChanges,
		MaxDriftPillar:     maxPillar,
		MaxDriftMagnitude:  round1(maxMag),
		TotalDriftScore:    total,
		Classification:     class,
		TopMovers:          movers,
		CalibrationChanged: prev.CalibrationVersion != curr.CalibrationVersion,
	}
	d.Summary = driftSummary(d)
	return d
}

// driftSummary renders the deterministic one-line explanation, leading with
// the classification and the biggest mover.
func driftSummary(d *models.PillarDrift) string {
	s := fmt.Sprintf("%s drift detected (%.1f total points).", d.Classification, d.TotalDriftScore)
	if d.MaxDriftPillar != "" {
		delta := d.ScoreDeltas[d.MaxDriftPillar]
		verb := "increased"
		if delta < 0 {
			verb = "decreased"
		}
		s += fmt.Sprintf(" %s %s by %.1f points", pillarLabel(d.MaxDriftPillar), verb, math.Abs(delta))
		if bc, ok := d.BiasChanges[d.MaxDriftPillar]; ok {
			s += fmt.Sprintf(" (%s -> %s)", bc.From, bc.To)
		}
		s += "."
	}
	if d.CalibrationChanged {
		s += " Calibration version changed between decisions."
	}
	return s
}

// pillarLabel capitalizes a pillar name for prose.
func pillarLabel(p models.PillarName) string {
	s := string(p)
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
