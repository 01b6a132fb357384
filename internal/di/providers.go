package di

import (
	"context"
	"fmt"
	"time"

	"PillarSight/internal/domain/models"
	"PillarSight/internal/domain/repository"
	"PillarSight/internal/handler/api"
	mid "PillarSight/internal/middleware"
	internalrepo "PillarSight/internal/repository"
	"PillarSight/internal/service/feed"
	"PillarSight/internal/services/pillars"
	"PillarSight/internal/usecase"
	"PillarSight/pkg/cache"
	pkgch "PillarSight/pkg/clickhouse"
	"PillarSight/pkg/config"
	pkgkafka "PillarSight/pkg/kafka"
	applogger "PillarSight/pkg/logger"
	"PillarSight/pkg/metrics"
	"PillarSight/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideDecisionHistory creates the ClickHouse decision archive and
// ensures its schema exists.
func ProvideDecisionHistory(chClient *pkgch.Client, l *applogger.Logger) (repository.DecisionHistory, error) {
	store := internalrepo.NewCHDecisionHistory(chClient)
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("decision history init: %w", err)
	}
	return store, nil
}

// ProvideDecisionPublisher creates the Kafka decision publisher.
func ProvideDecisionPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.DecisionPublisher {
	return internalrepo.NewKafkaDecisionPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSnapshotStream creates the market snapshot WebSocket stream.
func ProvideSnapshotStream(cfg *config.Config) repository.SnapshotStream {
	return feed.New(
		cfg.Feed.APIKey,
		cfg.Feed.WebSocketURL,
		cfg.Feed.Symbols,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
	)
}

// ProvideCalibration builds the calibration table, applying config
// overrides on top of the shipped defaults.
func ProvideCalibration(cfg *config.Config) (models.Calibration, error) {
	cal := models.DefaultCalibration()

	e := cfg.Engine
	if e.CalibrationVersion != "" {
		cal.Version = e.CalibrationVersion
	}
	if len(e.Weights) > 0 {
		w := make(map[models.PillarName]float64, len(e.Weights))
		for name, v := range e.Weights {
			w[models.PillarName(name)] = v
		}
		cal.Weights = w
	}
	if e.BullThreshold != 0 {
		cal.BullThreshold = e.BullThreshold
	}
	if e.BearThreshold != 0 {
		cal.BearThreshold = e.BearThreshold
	}
	if e.MaxPlaceholders != 0 {
		cal.MaxPlaceholders = e.MaxPlaceholders
	}
	if e.PlaceholderCap != 0 {
		cal.PlaceholderCap = e.PlaceholderCap
	}
	if e.ReadinessFloor != 0 {
		cal.ReadinessFloor = e.ReadinessFloor
	}
	if e.MaxDataAgeSecs != 0 {
		cal.MaxDataAgeSecs = e.MaxDataAgeSecs
	}
	for _, p := range e.PlaceholderPillars {
		cal.PlaceholderPillars = append(cal.PlaceholderPillars, models.PillarName(p))
	}

	if err := cal.Validate(); err != nil {
		return models.Calibration{}, fmt.Errorf("calibration: %w", err)
	}
	return cal, nil
}

// ProvideAnalysisEngine creates the engine with its pillar evaluators.
func ProvideAnalysisEngine(cal models.Calibration) *usecase.AnalysisEngine {
	return usecase.NewAnalysisEngine(cal, pillars.ForCalibration(cal))
}

// ProvideContextSource creates the market context holder with a neutral
// boot value. A context feed can swap it at runtime via Update.
func ProvideContextSource() *usecase.StaticContextSource {
	return usecase.NewStaticContextSource(models.MarketContext{
		Regime:      models.RegimeSideways,
		VIX:         16.0,
		SessionOpen: true,
	})
}

// ProvideDecisionProcessor creates the decision processor use case.
func ProvideDecisionProcessor(
	engine *usecase.AnalysisEngine,
	pub repository.DecisionPublisher,
	store repository.DecisionHistory,
	m repository.Metrics,
	ctxSrc *usecase.StaticContextSource,
	cfg *config.Config,
) *usecase.DecisionProcessor {
	return usecase.NewDecisionProcessor(engine, pub, store, m, cfg.Backend.Type, ctxSrc)
}

// ProvideSnapshotCollector creates the snapshot collector with its
// validation/throttle pipeline.
func ProvideSnapshotCollector(
	stream repository.SnapshotStream,
	proc *usecase.DecisionProcessor,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.SnapshotCollector {
	opts := []mid.PipelineOption{}
	if cfg.Pipeline.MaxRPS > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.Pipeline.MaxRPS))
	}
	if cfg.Pipeline.BufferSize > 0 {
		opts = append(opts, mid.WithBufferSize(cfg.Pipeline.BufferSize))
	}
	pipe := mid.NewSnapshotPipeline(proc, m, opts...)
	return usecase.NewSnapshotCollector(stream, proc, m, pipe)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaDecisionsHandler registers the handler for the decisions topic.
func ProvideKafkaDecisionsHandler(store repository.DecisionHistory, m repository.Metrics, cfg *config.Config) *usecase.KafkaDecisionsHandler {
	return usecase.NewKafkaDecisionsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideAnalyticsCache creates the cache behind timeline and drift
// queries: in-memory by default, layered over Redis when enabled.
func ProvideAnalyticsCache(cfg *config.Config) (cache.BytesCache, error) {
	if !cfg.Analytics.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Analytics.Redis.Host),
		cache.WithRedisPort(cfg.Analytics.Redis.Port),
		cache.WithRedisPassword(cfg.Analytics.Redis.Password),
		cache.WithRedisDB(cfg.Analytics.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("analytics cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideHistoryUseCase creates the history query use case.
func ProvideHistoryUseCase(store repository.DecisionHistory) *usecase.HistoryUseCase {
	return usecase.NewHistoryUseCase(store)
}

// ProvideTimelineUseCase creates the conviction timeline use case.
func ProvideTimelineUseCase(store repository.DecisionHistory, c cache.BytesCache, cfg *config.Config) *usecase.TimelineUseCase {
	ttl := cfg.Analytics.CacheTTL.Timeline
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return usecase.NewTimelineUseCase(store, c, ttl)
}

// ProvideDriftUseCase creates the pillar drift use case.
func ProvideDriftUseCase(store repository.DecisionHistory, c cache.BytesCache, cfg *config.Config) *usecase.DriftUseCase {
	ttl := cfg.Analytics.CacheTTL.Drift
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return usecase.NewDriftUseCase(store, c, ttl)
}

// ProvideDecisionsHandler creates the HTTP handler for analysis and
// history queries.
func ProvideDecisionsHandler(
	l *applogger.Logger,
	engine *usecase.AnalysisEngine,
	history *usecase.HistoryUseCase,
	timeline *usecase.TimelineUseCase,
	drift *usecase.DriftUseCase,
	store repository.DecisionHistory,
) *api.DecisionsEchoHandler {
	return api.NewDecisionsEchoHandler(l, engine, history, timeline, drift, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.SnapshotCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaDecisionsHandler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	handler *api.DecisionsEchoHandler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, l, collector, consumer, kh, chClient, producer)
	app.SetHTTPHandler(handler)
	if collector != nil {
		app.Proc = collector.Processor()
	}
	return app
}
