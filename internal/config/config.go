package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Trip session settings.
	Crop         string        `env:"CROP_PROFILE" envDefault:"Tomatoes"`
	SeedTemp     float64       `env:"SEED_TEMP" envDefault:"22.5"`
	SeedGForce   float64       `env:"SEED_GFORCE" envDefault:"0.8"`
	SeedTilt     float64       `env:"SEED_TILT" envDefault:"3"`
	AutoStart    bool          `env:"SIM_AUTOSTART" envDefault:"true"`
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"2s"`
	SimSeed      uint64        `env:"SIM_SEED" envDefault:"0"` // 0 picks a random seed

	// Kafka incident notification publishing (optional).
	KafkaEnabled       bool          `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers       []string      `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaIncidentTopic string        `env:"KAFKA_INCIDENT_TOPIC" envDefault:"cargo-incidents"`
	KafkaWriteTimeout  time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"5s"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.TickInterval <= 0 {
		return nil, errors.New("TICK_INTERVAL must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.Crop == "" {
		return nil, errors.New("CROP_PROFILE is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaIncidentTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_INCIDENT_TOPIC is not set")
		}
	}

	return &cfg, nil
}
