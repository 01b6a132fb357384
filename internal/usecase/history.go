package usecase

import (
	"context"
	"fmt"
	"time"

	"PillarSight/internal/domain/models"
	domrepo "PillarSight/internal/domain/repository"
)

// HistoryUseCase serves read queries over the decision archive. It never
// writes: persistence happens in the decision processor.
type HistoryUseCase struct {
	store domrepo.DecisionHistory
}

func NewHistoryUseCase(store domrepo.DecisionHistory) *HistoryUseCase {
	return &HistoryUseCase{store: store}
}

// GetHistory returns entries for a symbol, by date range when both bounds
// are set, otherwise the most recent `limit` entries. Oldest first.
func (uc *HistoryUseCase) GetHistory(ctx context.Context, symbol string, limit int, from, to time.Time) ([]models.DecisionHistoryEntry, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if !from.IsZero() && !to.IsZero() {
		if to.Before(from) {
			return nil, fmt.Errorf("history range: to precedes from")
		}
		return uc.store.GetByDateRange(ctx, symbol, from, to)
	}
	if limit <= 0 {
		limit = 50
	}
	return uc.store.GetRecent(ctx, symbol, limit)
}

// GetBiasDistribution returns how often each bias was decided for a symbol.
func (uc *HistoryUseCase) GetBiasDistribution(ctx context.Context, symbol string) (map[models.Bias]int64, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	return uc.store.GetBiasDistribution(ctx, symbol)
}
