package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains application configuration parameters.
type Config struct {
	LogLevel int     `env:"LOG_LEVEL" envDefault:"0"`
	Storage  Storage `envPrefix:"STORAGE_"`
	Session  Session `envPrefix:"SESSION_"`
	Auth     Auth    `envPrefix:"AUTH_"`
	Minio    Minio   `envPrefix:"MINIO_"`
}

// Storage selects and configures the key-value backend.
type Storage struct {
	Backend string `env:"BACKEND" envDefault:"file"`
	DataDir string `env:"DATA_DIR" envDefault:""`
}

// Session contains session token parameters.
type Session struct {
	Secret   string `env:"SECRET" envDefault:"devsecret"`
	TTLHours int    `env:"TTL_HOURS" envDefault:"720"`
}

// Auth contains password hashing parameters.
type Auth struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`
}

// Minio contains object storage parameters for the minio backend.
type Minio struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"studykit-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"studykit-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"studykit-profiles"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
