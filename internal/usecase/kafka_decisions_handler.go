package usecase

import (
	"context"
	"encoding/json"
	"time"

	"PillarSight/internal/domain/models"
	domrepo "PillarSight/internal/domain/repository"
	pkgkafka "PillarSight/pkg/kafka"
)

// KafkaDecisionsHandler consumes decision contracts from Kafka and appends
// them to the history archive. This is the storage side of the "kafka"
// backend split: publishers and archivers can scale independently.
type KafkaDecisionsHandler struct {
	topic   string
	store   domrepo.DecisionHistory
	metrics domrepo.Metrics
}

func NewKafkaDecisionsHandler(topic string, store domrepo.DecisionHistory, metrics domrepo.Metrics) *KafkaDecisionsHandler {
	return &KafkaDecisionsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaDecisionsHandler) Topic() string { return h.topic }

// Handle unmarshals one decision contract and archives it.
func (h *KafkaDecisionsHandler) Handle(ctx context.Context, b []byte) error {
	var d models.Decision
	if err := json.Unmarshal(b, &d); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	h.metrics.RecordLatency("decision_e2e_seconds", time.Since(d.Timestamp).Seconds())

	start := time.Now()
	_, err := h.store.Save(ctx, &d)
	h.metrics.RecordLatency("history_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaDecisionsHandler)(nil)
