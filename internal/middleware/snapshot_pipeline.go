package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PillarSight/internal/domain/models"
	domrepo "PillarSight/internal/domain/repository"
	"PillarSight/internal/service/ratelimit"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, s *models.Snapshot) error
}

// SnapshotPipeline sits between the market stream and the decision
// processor. It validates frames, throttles per symbol, and buffers work
// when the downstream backend is briefly unavailable.
type SnapshotPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	limiter *ratelimit.Limiter
	maxRPS  float64
	bufSize int
	bufCh   chan *models.Snapshot
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*SnapshotPipeline)

// WithMaxRPS sets the max snapshots per second per symbol.
func WithMaxRPS(n float64) PipelineOption {
	return func(p *SnapshotPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the retry buffer size used when downstream fails.
func WithBufferSize(n int) PipelineOption {
	return func(p *SnapshotPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewSnapshotPipeline creates a pipeline with per-symbol token buckets.
func NewSnapshotPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *SnapshotPipeline {
	p := &SnapshotPipeline{
		proc:    proc,
		metrics: metrics,
		limiter: ratelimit.New(),
		maxRPS:  10,
		bufSize: 1000,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.Snapshot, p.bufSize)
	return p
}

// Start launches background flushing of buffered snapshots.
func (p *SnapshotPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case s := <-p.bufCh:
				if s == nil {
					continue
				}
				if err := p.proc.Process(ctx, s); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					select {
					case p.bufCh <- s:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop halts background flushing.
func (p *SnapshotPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and throttles one snapshot, buffering it on downstream
// failure instead of dropping it.
func (p *SnapshotPipeline) Process(ctx context.Context, s *models.Snapshot) error {
	start := time.Now()
	if err := validateSnapshot(s); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.limiter.Allow(s.Symbol, p.maxRPS, p.maxRPS) {
		// throttled frames are dropped silently; the next one supersedes them
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.proc.Process(ctx, s); err != nil {
		p.metrics.RecordError("pipeline_process")
		select {
		case p.bufCh <- s:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateSnapshot(s *models.Snapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot nil")
	}
	if s.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if s.Timestamp.IsZero() {
		return fmt.Errorf("timestamp missing")
	}
	if s.LastPrice < 0 {
		return fmt.Errorf("negative price")
	}
	return nil
}
