package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"PillarSight/internal/domain/models"
)

type fakeProc struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeProc) Process(_ context.Context, _ *models.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeProc) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func newFakeMetrics() *fakeMetrics { return &fakeMetrics{errors: make(map[string]int)} }

func (m *fakeMetrics) RecordDecision(string, string)    {}
func (m *fakeMetrics) RecordConviction(string, float64) {}
func (m *fakeMetrics) RecordPillarFailure(string)       {}
func (m *fakeMetrics) RecordLatency(string, float64)    {}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}

func (m *fakeMetrics) errorCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

func validFrame() *models.Snapshot {
	return &models.Snapshot{
		Symbol:    "SPY",
		Timestamp: time.Now().UTC(),
		LastPrice: 100,
	}
}

func TestValidateSnapshot(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*models.Snapshot) *models.Snapshot
		wantErr bool
	}{
		{"valid", func(s *models.Snapshot) *models.Snapshot { return s }, false},
		{"nil snapshot", func(*models.Snapshot) *models.Snapshot { return nil }, true},
		{"empty symbol", func(s *models.Snapshot) *models.Snapshot { s.Symbol = ""; return s }, true},
		{"zero timestamp", func(s *models.Snapshot) *models.Snapshot { s.Timestamp = time.Time{}; return s }, true},
		{"negative price", func(s *models.Snapshot) *models.Snapshot { s.LastPrice = -1; return s }, true},
		{"zero price allowed", func(s *models.Snapshot) *models.Snapshot { s.LastPrice = 0; return s }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSnapshot(tc.mutate(validFrame()))
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestProcessForwardsValidFrames(t *testing.T) {
	proc := &fakeProc{}
	metrics := newFakeMetrics()
	p := NewSnapshotPipeline(proc, metrics)

	if err := p.Process(context.Background(), validFrame()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("downstream called %d times, want 1", proc.count())
	}
}

func TestProcessRejectsInvalidFrames(t *testing.T) {
	proc := &fakeProc{}
	metrics := newFakeMetrics()
	p := NewSnapshotPipeline(proc, metrics)

	frame := validFrame()
	frame.Symbol = ""
	if err := p.Process(context.Background(), frame); err == nil {
		t.Fatal("expected validation error")
	}
	if proc.count() != 0 {
		t.Fatal("invalid frame must not reach downstream")
	}
	if metrics.errorCount("pipeline_validate") != 1 {
		t.Fatal("validation failure should be recorded")
	}
}

func TestProcessThrottlesPerSymbol(t *testing.T) {
	proc := &fakeProc{}
	metrics := newFakeMetrics()
	p := NewSnapshotPipeline(proc, metrics, WithMaxRPS(1))

	if err := p.Process(context.Background(), validFrame()); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	// same symbol immediately again exhausts the bucket
	if err := p.Process(context.Background(), validFrame()); err != nil {
		t.Fatalf("throttled frame should drop silently, got %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("downstream called %d times, want 1", proc.count())
	}
	if metrics.errorCount("pipeline_throttle") != 1 {
		t.Fatal("throttle should be recorded")
	}

	// a different symbol has its own bucket
	other := validFrame()
	other.Symbol = "QQQ"
	if err := p.Process(context.Background(), other); err != nil {
		t.Fatalf("other symbol: %v", err)
	}
	if proc.count() != 2 {
		t.Fatalf("downstream called %d times, want 2", proc.count())
	}
}

func TestProcessBuffersOnDownstreamFailure(t *testing.T) {
	proc := &fakeProc{err: errors.New("backend down")}
	metrics := newFakeMetrics()
	p := NewSnapshotPipeline(proc, metrics, WithBufferSize(4))

	if err := p.Process(context.Background(), validFrame()); err == nil {
		t.Fatal("expected downstream error to surface")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("buffer holds %d frames, want 1", len(p.bufCh))
	}
	if metrics.errorCount("pipeline_process") != 1 {
		t.Fatal("downstream failure should be recorded")
	}
}

func TestStartFlushesBufferedFrames(t *testing.T) {
	proc := &fakeProc{err: errors.New("backend down")}
	metrics := newFakeMetrics()
	p := NewSnapshotPipeline(proc, metrics, WithBufferSize(4))

	_ = p.Process(context.Background(), validFrame())

	// downstream recovers before the flusher starts
	proc.mu.Lock()
	proc.err = nil
	proc.mu.Unlock()

	p.Start(context.Background())
	defer p.Stop()

	deadline := time.After(2 * time.Second)
	for len(p.bufCh) > 0 {
		select {
		case <-deadline:
			t.Fatal("buffered frame was never flushed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
