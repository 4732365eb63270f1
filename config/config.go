// Package config loads tracing configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Adapter kinds. The set is closed; anything else fails validation.
const (
	AdapterNoop  = "noop"
	AdapterLog   = "log"
	AdapterHTTP  = "http"
	AdapterKafka = "kafka"
)

// Config holds all tracing configuration.
type Config struct {
	Service   ServiceConfig
	Sampling  SamplingConfig
	Collector CollectorConfig
	Logging   LogConfig
}

// ServiceConfig identifies this service in emitted spans.
type ServiceConfig struct {
	Name string `envconfig:"TRACE_SERVICE_NAME" default:"unknown"`
	Port int    `envconfig:"TRACE_SERVICE_PORT" default:"80"`
}

// SamplingConfig holds the global sampling probability, set once at startup.
type SamplingConfig struct {
	Rate float64 `envconfig:"TRACE_SAMPLE_RATE" default:"0.1"`
}

// CollectorConfig selects and tunes the span-shipping adapter.
type CollectorConfig struct {
	Adapter       string        `envconfig:"TRACE_ADAPTER" default:"log"`
	URL           string        `envconfig:"TRACE_COLLECTOR_URL" default:"http://localhost:9411/api/v1/spans"`
	BatchSize     int           `envconfig:"TRACE_BATCH_SIZE" default:"100"`
	FlushInterval time.Duration `envconfig:"TRACE_FLUSH_INTERVAL" default:"1s"`
	KafkaBrokers  string        `envconfig:"TRACE_KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic    string        `envconfig:"TRACE_KAFKA_TOPIC" default:"spans"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"TRACE_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"TRACE_LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name: "unknown",
			Port: 80,
		},
		Sampling: SamplingConfig{
			Rate: 0.1,
		},
		Collector: CollectorConfig{
			Adapter:       AdapterLog,
			URL:           "http://localhost:9411/api/v1/spans",
			BatchSize:     100,
			FlushInterval: time.Second,
			KafkaBrokers:  "localhost:9092",
			KafkaTopic:    "spans",
		},
		Logging: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the closed adapter set and value ranges.
func (c *Config) Validate() error {
	switch c.Collector.Adapter {
	case AdapterNoop, AdapterLog, AdapterHTTP, AdapterKafka:
	default:
		return fmt.Errorf("unknown trace adapter %q", c.Collector.Adapter)
	}
	if c.Sampling.Rate < 0 || c.Sampling.Rate > 1 {
		return fmt.Errorf("sample rate %v outside [0, 1]", c.Sampling.Rate)
	}
	return nil
}
