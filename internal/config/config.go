package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/TEC-Andres/HackSAERO/internal/domain"
)

const (
	minBatchSize = 1
	maxBatchSize = 1000
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka request pipeline. Disabled when no brokers are configured.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string

	BatchSize          int
	BatchFlushInterval time.Duration

	// Mapbox impact-site geocoding.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// ResultCacheSize bounds the engine's response cache; 0 disables it.
	ResultCacheSize int

	// EntryMaxSteps caps the atmospheric-entry integrator; at least
	// domain.MinMaxSteps.
	EntryMaxSteps int

	Tracing TracingConfig
}

// TracingConfig governs OpenTelemetry setup.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Exporter    string // stdout | otlp
	Endpoint    string // used when Exporter == otlp
	SampleRatio float64
}

// rawEnv mirrors Config with env tags and defaults.
type rawEnv struct {
	HTTPAddr        string        `env:"HTTP_ADDR"        envDefault:":8080"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT"       envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	KafkaEnabled     *bool    `env:"KAFKA_ENABLED"`
	KafkaBrokers     []string `env:"KAFKA_BROKERS"      envSeparator:","`
	KafkaSourceTopic string   `env:"KAFKA_SOURCE_TOPIC" envDefault:"impact-requests"`
	KafkaSinkTopic   string   `env:"KAFKA_SINK_TOPIC"   envDefault:"impact-reports"`
	KafkaGroupID     string   `env:"KAFKA_GROUP_ID"     envDefault:"impact-engine"`

	BatchSize          int           `env:"BATCH_SIZE"           envDefault:"50"`
	BatchFlushInterval time.Duration `env:"BATCH_FLUSH_INTERVAL" envDefault:"500ms"`

	MapboxToken     string        `env:"MAPBOX_TOKEN"`
	MapboxEnabled   *bool         `env:"MAPBOX_ENABLED"`
	MapboxTimeout   time.Duration `env:"MAPBOX_TIMEOUT"    envDefault:"5s"`
	MapboxCacheSize int           `env:"MAPBOX_CACHE_SIZE" envDefault:"1000"`

	ResultCacheSize int `env:"RESULT_CACHE_SIZE" envDefault:"0"`
	EntryMaxSteps   int `env:"ENTRY_MAX_STEPS"   envDefault:"20000"`

	TracingEnabled     bool    `env:"TRACING_ENABLED"      envDefault:"false"`
	TracingServiceName string  `env:"TRACING_SERVICE_NAME" envDefault:"impact-engine"`
	TracingExporter    string  `env:"TRACING_EXPORTER"     envDefault:"stdout"`
	TracingEndpoint    string  `env:"TRACING_ENDPOINT"`
	TracingSampleRatio float64 `env:"TRACING_SAMPLE_RATIO" envDefault:"1"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	brokers := cleanList(raw.KafkaBrokers)
	kafkaEnabled := len(brokers) > 0
	if raw.KafkaEnabled != nil {
		kafkaEnabled = *raw.KafkaEnabled
	}

	mapboxEnabled := raw.MapboxToken != ""
	if raw.MapboxEnabled != nil {
		mapboxEnabled = *raw.MapboxEnabled
	}

	cfg := &Config{
		HTTPAddr:        raw.HTTPAddr,
		LogLevel:        strings.ToLower(raw.LogLevel),
		LogFormat:       strings.ToLower(raw.LogFormat),
		ShutdownTimeout: raw.ShutdownTimeout,

		KafkaEnabled:     kafkaEnabled,
		KafkaBrokers:     brokers,
		KafkaSourceTopic: raw.KafkaSourceTopic,
		KafkaSinkTopic:   raw.KafkaSinkTopic,
		KafkaGroupID:     raw.KafkaGroupID,

		BatchSize:          raw.BatchSize,
		BatchFlushInterval: raw.BatchFlushInterval,

		MapboxToken:     raw.MapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   raw.MapboxTimeout,
		MapboxCacheSize: raw.MapboxCacheSize,

		ResultCacheSize: raw.ResultCacheSize,
		EntryMaxSteps:   raw.EntryMaxSteps,

		Tracing: TracingConfig{
			Enabled:     raw.TracingEnabled,
			ServiceName: raw.TracingServiceName,
			Exporter:    strings.ToLower(raw.TracingExporter),
			Endpoint:    raw.TracingEndpoint,
			SampleRatio: raw.TracingSampleRatio,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.BatchSize < minBatchSize || c.BatchSize > maxBatchSize {
		return fmt.Errorf("BATCH_SIZE must be between %d and %d", minBatchSize, maxBatchSize)
	}
	if c.BatchFlushInterval <= 0 {
		return errors.New("BATCH_FLUSH_INTERVAL must be positive")
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if c.KafkaSourceTopic == "" {
			return errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if c.KafkaSinkTopic == "" {
			return errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if c.MapboxEnabled && c.MapboxToken == "" {
		return errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if c.MapboxTimeout <= 0 {
		return errors.New("MAPBOX_TIMEOUT must be positive")
	}
	if c.MapboxCacheSize <= 0 {
		return errors.New("MAPBOX_CACHE_SIZE must be positive")
	}
	if c.ResultCacheSize < 0 {
		return errors.New("RESULT_CACHE_SIZE must not be negative")
	}
	if c.EntryMaxSteps < domain.MinMaxSteps {
		return fmt.Errorf("ENTRY_MAX_STEPS must be at least %d to reach the ground", domain.MinMaxSteps)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return errors.New("TRACING_SAMPLE_RATIO must be between 0 and 1")
	}
	switch c.Tracing.Exporter {
	case "stdout", "otlp", "otlpgrpc":
	default:
		return fmt.Errorf("TRACING_EXPORTER %q is not one of stdout, otlp", c.Tracing.Exporter)
	}
	return nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
