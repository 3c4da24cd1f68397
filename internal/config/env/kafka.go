package envconfig

import (
	"github.com/IBM/sarama"
	"github.com/caarlos0/env/v11"
)

type kafkaSwitchEnv struct {
	Enabled bool `env:"KAFKA_ENABLED" envDefault:"false"`
}

type kafkaEnv struct {
	Brokers               []string `env:"KAFKA_BROKERS,required,notEmpty"`
	QuoteEventsTopicName  string   `env:"QUOTE_EVENTS_TOPIC_NAME" envDefault:"quote.events"`
	QuoteExpiryTopicName  string   `env:"QUOTE_EXPIRY_TOPIC_NAME" envDefault:"quote.expiry"`
	ExpiryConsumerGroupID string   `env:"QUOTE_EXPIRY_CONSUMER_GROUP_ID" envDefault:"quote-expiry"`
}

type kafka struct {
	enabled bool
	raw     kafkaEnv
}

// NewKafkaConfig reads the broker settings only when KAFKA_ENABLED is set.
func NewKafkaConfig() (*kafka, error) {
	var sw kafkaSwitchEnv
	if err := env.Parse(&sw); err != nil {
		return nil, err
	}
	if !sw.Enabled {
		return &kafka{}, nil
	}

	var raw kafkaEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &kafka{enabled: true, raw: raw}, nil
}

func (cfg *kafka) Enabled() bool                 { return cfg.enabled }
func (cfg *kafka) Brokers() []string             { return cfg.raw.Brokers }
func (cfg *kafka) QuoteEventsTopic() string      { return cfg.raw.QuoteEventsTopicName }
func (cfg *kafka) QuoteExpiryTopic() string      { return cfg.raw.QuoteExpiryTopicName }
func (cfg *kafka) ExpiryConsumerGroupID() string { return cfg.raw.ExpiryConsumerGroupID }

func (cfg *kafka) ExpiryConsumerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V4_0_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	return config
}

func (cfg *kafka) QuoteEventsProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V4_0_0_0
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	return config
}
