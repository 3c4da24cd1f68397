package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/you-humble/btp-quote/internal/client/storage"
	"github.com/you-humble/btp-quote/internal/config"
	envconfig "github.com/you-humble/btp-quote/internal/config/env"
	"github.com/you-humble/btp-quote/internal/converter"
	"github.com/you-humble/btp-quote/internal/migrator"
	"github.com/you-humble/btp-quote/internal/model"
	"github.com/you-humble/btp-quote/internal/reference"
	"github.com/you-humble/btp-quote/internal/repository/counter"
	"github.com/you-humble/btp-quote/internal/repository/memory"
	quoterepo "github.com/you-humble/btp-quote/internal/repository/quote"
	expiryconsumer "github.com/you-humble/btp-quote/internal/service/consumer/expiry"
	quoteproducer "github.com/you-humble/btp-quote/internal/service/producer/quote"
	service "github.com/you-humble/btp-quote/internal/service/quote"
	"github.com/you-humble/btp-quote/internal/transport/http/health"
	thttp "github.com/you-humble/btp-quote/internal/transport/http/quote/v1"
	"github.com/you-humble/btp-quote/platform/closer"
	"github.com/you-humble/btp-quote/platform/kafka"
	"github.com/you-humble/btp-quote/platform/kafka/consumer"
	"github.com/you-humble/btp-quote/platform/kafka/middleware"
	"github.com/you-humble/btp-quote/platform/kafka/producer"
	"github.com/you-humble/btp-quote/platform/logger"
)

const healthTimeout = 2 * time.Second

type Converter interface {
	quoteproducer.Converter
	expiryconsumer.Converter
}

type ExpiryConsumer interface {
	RunExpiryConsume(ctx context.Context) error
}

type QuoteService interface {
	thttp.QuoteService
	expiryconsumer.Service
}

type QuoteHandler interface {
	Routes(r chi.Router)
}

type DocumentStorage interface {
	service.DocumentStorage
	EnsureBucket(ctx context.Context) error
}

type QuoteRepository interface {
	service.QuoteRepository
	Close(ctx context.Context) error
}

type di struct {
	mongo              *mongo.Client
	quotesCollection   *mongo.Collection
	countersCollection *mongo.Collection
	repository         QuoteRepository

	dbPool   *pgxpool.Pool
	migrator *migrator.Migrator

	counterStore reference.CounterStore
	references   service.ReferenceGenerator

	conv Converter

	syncProducer        sarama.SyncProducer
	quoteEventsProducer kafka.Producer
	quoteProducer       service.EventProducer

	consumerGroup       sarama.ConsumerGroup
	quoteExpiryConsumer kafka.Consumer
	expiryConsumer      ExpiryConsumer

	storage DocumentStorage

	service QuoteService
	handler QuoteHandler

	router *chi.Mux
}

func NewDI() *di { return &di{} }

func (d *di) usesPostgres() bool {
	return config.C().Counter.Backend() == envconfig.CounterPostgres
}

func (d *di) MongoDB(ctx context.Context) *mongo.Client {
	if d.mongo == nil {
		cfg := config.C()

		mongoClient, err := mongo.Connect(
			options.Client().ApplyURI(cfg.Mongo.DSN()),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create mongodb client: %v\n", err))
		}
		closer.AddNamed("Mongo Client",
			func(ctx context.Context) error {
				return mongoClient.Disconnect(ctx)
			})

		if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			panic(fmt.Sprintf("failed to ping database: %v\n", err))
		}

		d.mongo = mongoClient
	}

	return d.mongo
}

func (d *di) QuotesCollection(ctx context.Context) *mongo.Collection {
	if d.quotesCollection == nil {
		d.quotesCollection = d.MongoDB(ctx).
			Database(config.C().Mongo.DatabaseName()).
			Collection(config.C().Mongo.QuotesCollection())
	}

	return d.quotesCollection
}

func (d *di) CountersCollection(ctx context.Context) *mongo.Collection {
	if d.countersCollection == nil {
		d.countersCollection = d.MongoDB(ctx).
			Database(config.C().Mongo.DatabaseName()).
			Collection(config.C().Mongo.CountersCollection())
	}

	return d.countersCollection
}

func (d *di) EnsureQuoteIndexes(ctx context.Context) error {
	return quoterepo.EnsureIndexes(ctx, d.QuotesCollection(ctx))
}

func (d *di) QuoteRepository(ctx context.Context) QuoteRepository {
	if d.repository == nil {
		repo := quoterepo.NewQuoteRepository(
			d.QuotesCollection(ctx),
			config.C().Server.DBReadTimeout(),
		)
		closer.AddNamed("Quote subscriptions", repo.Close)

		d.repository = repo
	}

	return d.repository
}

func (d *di) DBPool(ctx context.Context) *pgxpool.Pool {
	if d.dbPool == nil {
		pool, err := pgxpool.New(ctx, config.C().Postgres.DSN())
		if err != nil {
			panic(fmt.Sprintf("failed to create pg pool: %v\n", err))
		}

		closer.AddNamed("PGX Pool",
			func(ctx context.Context) error {
				pool.Close()
				return nil
			})

		if err := pool.Ping(ctx); err != nil {
			panic(fmt.Sprintf("failed to ping db: %v\n", err))
		}

		d.dbPool = pool
	}

	return d.dbPool
}

func (d *di) Migrator(ctx context.Context) *migrator.Migrator {
	if d.migrator == nil {
		d.migrator = migrator.NewMigrator(
			stdlib.OpenDBFromPool(d.DBPool(ctx)),
			config.C().Postgres.MigrationDirectory(),
		)

		closer.AddNamed("Migrator",
			func(ctx context.Context) error {
				return d.migrator.Close()
			})
	}

	return d.migrator
}

// CounterStore picks the reference counter backend named by COUNTER_BACKEND.
func (d *di) CounterStore(ctx context.Context) reference.CounterStore {
	if d.counterStore == nil {
		cfg := config.C()

		switch cfg.Counter.Backend() {
		case envconfig.CounterPostgres:
			d.counterStore = counter.NewPostgresStore(d.DBPool(ctx))
		case envconfig.CounterMemory:
			logger.Warn(ctx, "in-memory reference counter, sequences reset on restart")
			d.counterStore = memory.NewCounterStore()
		default:
			d.counterStore = counter.NewMongoStore(d.CountersCollection(ctx), cfg.Counter.MaxAttempts())
		}
	}

	return d.counterStore
}

func (d *di) ReferenceGenerator(ctx context.Context) service.ReferenceGenerator {
	if d.references == nil {
		d.references = reference.NewGenerator(d.CounterStore(ctx))
	}

	return d.references
}

func (d *di) KafkaConverter(_ context.Context) Converter {
	if d.conv == nil {
		d.conv = converter.NewKafkaConverter(time.Now)
	}

	return d.conv
}

func (d *di) SyncProducer(_ context.Context) sarama.SyncProducer {
	if d.syncProducer == nil {
		cfg := config.C()

		p, err := sarama.NewSyncProducer(
			cfg.Kafka.Brokers(),
			cfg.Kafka.QuoteEventsProducerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create sync producer: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka sync producer", func(ctx context.Context) error {
			return p.Close()
		})

		d.syncProducer = p
	}

	return d.syncProducer
}

func (d *di) QuoteEventsProducer(ctx context.Context) kafka.Producer {
	if d.quoteEventsProducer == nil {
		d.quoteEventsProducer = producer.NewProducer(
			d.SyncProducer(ctx),
			config.C().Kafka.QuoteEventsTopic(),
			logger.L(),
		)
	}

	return d.quoteEventsProducer
}

func (d *di) QuoteProducer(ctx context.Context) service.EventProducer {
	if d.quoteProducer == nil {
		d.quoteProducer = quoteproducer.NewQuoteProducer(
			d.QuoteEventsProducer(ctx),
			d.KafkaConverter(ctx),
		)
	}

	return d.quoteProducer
}

func (d *di) ConsumerGroup(_ context.Context) sarama.ConsumerGroup {
	if d.consumerGroup == nil {
		cfg := config.C()

		consumerGroup, err := sarama.NewConsumerGroup(
			cfg.Kafka.Brokers(),
			cfg.Kafka.ExpiryConsumerGroupID(),
			cfg.Kafka.ExpiryConsumerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create consumer group: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka consumer group", func(ctx context.Context) error {
			return consumerGroup.Close()
		})

		d.consumerGroup = consumerGroup
	}

	return d.consumerGroup
}

func (d *di) QuoteExpiryConsumer(ctx context.Context) kafka.Consumer {
	if d.quoteExpiryConsumer == nil {
		d.quoteExpiryConsumer = consumer.NewConsumer(
			d.ConsumerGroup(ctx),
			[]string{
				config.C().Kafka.QuoteExpiryTopic(),
			},
			logger.L(),
			middleware.Recovery(logger.L()),
			middleware.Logging(logger.L()),
		)
	}

	return d.quoteExpiryConsumer
}

func (d *di) ExpiryConsumer(ctx context.Context) ExpiryConsumer {
	if d.expiryConsumer == nil {
		d.expiryConsumer = expiryconsumer.NewExpiryConsumer(
			d.QuoteExpiryConsumer(ctx),
			d.KafkaConverter(ctx),
			d.QuoteService(ctx),
		)
	}

	return d.expiryConsumer
}

func (d *di) DocumentStorage(_ context.Context) DocumentStorage {
	if d.storage == nil {
		cfg := config.C().Storage

		api, err := storage.NewMinioAPI(cfg.Endpoint(), cfg.AccessKey(), cfg.SecretKey(), cfg.UseSSL())
		if err != nil {
			panic(fmt.Sprintf("failed to create minio client: %v\n", err))
		}

		baseURL := cfg.PublicURL()
		if baseURL == "" {
			baseURL = api.EndpointURL().String()
		}
		d.storage = storage.NewDocumentStorage(api, cfg.Bucket(), baseURL)
	}

	return d.storage
}

func (d *di) QuoteService(ctx context.Context) QuoteService {
	if d.service == nil {
		cfg := config.C()

		opts := []service.Option{
			service.WithPriceRevision(model.PriceRevision(cfg.Quote.PriceRevision())),
		}
		if cfg.Kafka.Enabled() {
			opts = append(opts, service.WithEvents(d.QuoteProducer(ctx)))
		}
		if cfg.Storage.Enabled() {
			opts = append(opts, service.WithStorage(d.DocumentStorage(ctx)))
		}

		d.service = service.NewQuoteService(
			d.QuoteRepository(ctx),
			d.ReferenceGenerator(ctx),
			cfg.Server.DBReadTimeout(),
			cfg.Server.DBWriteTimeout(),
			opts...,
		)
	}

	return d.service
}

func (d *di) QuoteHandler(ctx context.Context) QuoteHandler {
	if d.handler == nil {
		d.handler = thttp.NewQuoteHandler(d.QuoteService(ctx), config.C().Server.StreamHeartbeat())
	}

	return d.handler
}

func (d *di) HealthHandler(_ context.Context) http.HandlerFunc {
	checks := []health.Check{{
		Name: "mongo",
		Probe: func(ctx context.Context) error {
			return d.MongoDB(ctx).Ping(ctx, readpref.Primary())
		},
	}}
	if d.usesPostgres() {
		checks = append(checks, health.Check{
			Name:  "postgres",
			Probe: func(ctx context.Context) error { return d.DBPool(ctx).Ping(ctx) },
		})
	}

	return health.Handler(healthTimeout, checks...)
}

func (d *di) Router(_ context.Context) *chi.Mux {
	if d.router == nil {
		d.router = chi.NewRouter()
	}

	return d.router
}
