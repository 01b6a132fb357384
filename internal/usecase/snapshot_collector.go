package usecase

import (
	"context"

	"PillarSight/internal/domain/models"
	drepo "PillarSight/internal/domain/repository"
	mid "PillarSight/internal/middleware"
)

// SnapshotCollector reads snapshots from the market stream and hands them to
// the decision processor, via the pipeline when one is configured.
type SnapshotCollector struct {
	stream  drepo.SnapshotStream
	proc    *DecisionProcessor
	metrics drepo.Metrics
	pipe    *mid.SnapshotPipeline
}

func NewSnapshotCollector(stream drepo.SnapshotStream, proc *DecisionProcessor, metrics drepo.Metrics, pipe *mid.SnapshotPipeline) *SnapshotCollector {
	return &SnapshotCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected reports the stream connection state.
func (c *SnapshotCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *SnapshotCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	snapCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, snapCh, errCh)
	return nil
}

func (c *SnapshotCollector) consume(ctx context.Context, snapCh <-chan *models.Snapshot, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case s := <-snapCh:
			if s == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, s)
			} else {
				_ = c.proc.Process(ctx, s)
			}
		}
	}
}

// Processor returns the underlying DecisionProcessor for lifecycle management.
func (c *SnapshotCollector) Processor() *DecisionProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *SnapshotCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
