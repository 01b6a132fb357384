package repository

import (
	"context"
	"fmt"

	"PillarSight/internal/domain/models"
	pkgkafka "PillarSight/pkg/kafka"
)

// KafkaDecisionPublisher publishes decision contracts to the decisions
// topic, keyed by symbol so per-symbol ordering is preserved.
type KafkaDecisionPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaDecisionPublisher(producer *pkgkafka.Producer, topic string) *KafkaDecisionPublisher {
	return &KafkaDecisionPublisher{producer: producer, topic: topic}
}

// Publish sends one decision as its contract JSON.
func (p *KafkaDecisionPublisher) Publish(ctx context.Context, d *models.Decision) error {
	if d == nil {
		return fmt.Errorf("decision is nil")
	}
	if err := p.producer.Publish(ctx, p.topic, []byte(d.Symbol), d); err != nil {
		return fmt.Errorf("publish decision: %w", err)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaDecisionPublisher) Close() error {
	return p.producer.Close()
}
