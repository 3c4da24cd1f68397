package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	envconfig "github.com/you-humble/btp-quote/internal/config/env"
)

var cfg *config

type config struct {
	Server   Server
	Logger   Logger
	Mongo    Mongo
	Counter  Counter
	Quote    Quote
	Postgres Database
	Kafka    Kafka
	Storage  Storage
}

func Load(path ...string) error {
	const op = "config.Load"

	if shouldLoadDotenv() {
		if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	serverCfg, err := envconfig.NewHTTPServerConfig()
	if err != nil {
		return fmt.Errorf("%s Server: %w", op, err)
	}

	loggerCfg, err := envconfig.NewLoggerConfig()
	if err != nil {
		return fmt.Errorf("%s Logger: %w", op, err)
	}

	mongoCfg, err := envconfig.NewMongoConfig()
	if err != nil {
		return fmt.Errorf("%s Mongo: %w", op, err)
	}

	counterCfg, err := envconfig.NewCounterConfig()
	if err != nil {
		return fmt.Errorf("%s Counter: %w", op, err)
	}

	quoteCfg, err := envconfig.NewQuoteConfig()
	if err != nil {
		return fmt.Errorf("%s Quote: %w", op, err)
	}

	var postgresCfg Database
	if counterCfg.Backend() == envconfig.CounterPostgres {
		pg, err := envconfig.NewPostgresConfig()
		if err != nil {
			return fmt.Errorf("%s Postgres: %w", op, err)
		}
		postgresCfg = pg
	}

	kafkaCfg, err := envconfig.NewKafkaConfig()
	if err != nil {
		return fmt.Errorf("%s Kafka: %w", op, err)
	}

	storageCfg, err := envconfig.NewStorageConfig()
	if err != nil {
		return fmt.Errorf("%s Storage: %w", op, err)
	}

	cfg = &config{
		Server:   serverCfg,
		Logger:   loggerCfg,
		Mongo:    mongoCfg,
		Counter:  counterCfg,
		Quote:    quoteCfg,
		Postgres: postgresCfg,
		Kafka:    kafkaCfg,
		Storage:  storageCfg,
	}

	return nil
}

func C() *config { return cfg }

func shouldLoadDotenv() bool {
	return os.Getenv("APP_ENV") == "local"
}
