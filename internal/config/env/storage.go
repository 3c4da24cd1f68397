package envconfig

import (
	"github.com/caarlos0/env/v11"
)

type storageSwitchEnv struct {
	Enabled bool `env:"STORAGE_ENABLED" envDefault:"false"`
}

type storageEnv struct {
	Endpoint  string `env:"MINIO_ENDPOINT,required"`
	AccessKey string `env:"MINIO_ACCESS_KEY,required"`
	SecretKey string `env:"MINIO_SECRET_KEY,required"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"quote-documents"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	PublicURL string `env:"MINIO_PUBLIC_URL"`
}

type storage struct {
	enabled bool
	raw     storageEnv
}

// NewStorageConfig reads the object storage settings only when
// STORAGE_ENABLED is set.
func NewStorageConfig() (*storage, error) {
	var sw storageSwitchEnv
	if err := env.Parse(&sw); err != nil {
		return nil, err
	}
	if !sw.Enabled {
		return &storage{}, nil
	}

	var raw storageEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &storage{enabled: true, raw: raw}, nil
}

func (cfg *storage) Enabled() bool     { return cfg.enabled }
func (cfg *storage) Endpoint() string  { return cfg.raw.Endpoint }
func (cfg *storage) AccessKey() string { return cfg.raw.AccessKey }
func (cfg *storage) SecretKey() string { return cfg.raw.SecretKey }
func (cfg *storage) Bucket() string    { return cfg.raw.Bucket }
func (cfg *storage) UseSSL() bool      { return cfg.raw.UseSSL }

// PublicURL is empty unless MINIO_PUBLIC_URL is set.
func (cfg *storage) PublicURL() string { return cfg.raw.PublicURL }
