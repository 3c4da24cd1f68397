package config

import (
	"time"

	"github.com/IBM/sarama"
)

type Server interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
	DBReadTimeout() time.Duration
	DBWriteTimeout() time.Duration
	StreamHeartbeat() time.Duration
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Mongo interface {
	DatabaseName() string
	QuotesCollection() string
	CountersCollection() string
	DSN() string
}

type Database interface {
	MigrationDirectory() string
	DSN() string
}

type Counter interface {
	Backend() string
	MaxAttempts() int
}

type Quote interface {
	PriceRevision() string
}

type Kafka interface {
	Enabled() bool
	Brokers() []string
	QuoteEventsTopic() string
	QuoteExpiryTopic() string
	ExpiryConsumerGroupID() string
	ExpiryConsumerConfig() *sarama.Config
	QuoteEventsProducerConfig() *sarama.Config
}

type Storage interface {
	Enabled() bool
	Endpoint() string
	AccessKey() string
	SecretKey() string
	Bucket() string
	UseSSL() bool
	PublicURL() string
}
