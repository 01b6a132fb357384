package usecase

import (
	"sync/atomic"

	"PillarSight/internal/domain/models"
)

// StaticContextSource holds the current market-wide context as one immutable
// value. Updates swap the whole pointer, so in-flight analyses keep reading
// the context they started with.
type StaticContextSource struct {
	v atomic.Pointer[models.MarketContext]
}

// NewStaticContextSource seeds the source with an initial context.
func NewStaticContextSource(mkt models.MarketContext) *StaticContextSource {
	s := &StaticContextSource{}
	s.v.Store(&mkt)
	return s
}

// Current returns the context in effect. Callers must not mutate it.
func (s *StaticContextSource) Current() *models.MarketContext {
	return s.v.Load()
}

// Update publishes a new context value for subsequent cycles.
func (s *StaticContextSource) Update(mkt models.MarketContext) {
	s.v.Store(&mkt)
}
