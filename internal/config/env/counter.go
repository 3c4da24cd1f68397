package envconfig

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
)

const (
	CounterMongo    = "mongo"
	CounterPostgres = "postgres"
	CounterMemory   = "memory"

	// DefaultCounterMaxAttempts bounds the mongo compare-and-swap loop. A
	// caller loses at most one round per competing commit, so this is also
	// the largest same-month burst that cannot fail with a conflict.
	DefaultCounterMaxAttempts = 256
)

type counterEnv struct {
	Backend     string `env:"COUNTER_BACKEND" envDefault:"mongo"`
	MaxAttempts int    `env:"COUNTER_MAX_ATTEMPTS" envDefault:"256"`
}

type counter struct {
	raw counterEnv
}

func NewCounterConfig() (*counter, error) {
	var raw counterEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	if !slices.Contains([]string{CounterMongo, CounterPostgres, CounterMemory}, raw.Backend) {
		return nil, fmt.Errorf("unknown COUNTER_BACKEND %q", raw.Backend)
	}
	if raw.MaxAttempts < 1 {
		return nil, fmt.Errorf("COUNTER_MAX_ATTEMPTS must be positive, got %d", raw.MaxAttempts)
	}
	return &counter{raw: raw}, nil
}

func (cfg *counter) Backend() string  { return cfg.raw.Backend }
func (cfg *counter) MaxAttempts() int { return cfg.raw.MaxAttempts }

type quoteEnv struct {
	PriceRevision string `env:"QUOTE_PRICE_REVISION" envDefault:"BT01"`
}

type quote struct {
	raw quoteEnv
}

func NewQuoteConfig() (*quote, error) {
	var raw quoteEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &quote{raw: raw}, nil
}

func (cfg *quote) PriceRevision() string { return cfg.raw.PriceRevision }
