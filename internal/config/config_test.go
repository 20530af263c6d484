package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapboxToken = "pk.test-token"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "impact-requests", cfg.KafkaSourceTopic)
	assert.Equal(t, "impact-reports", cfg.KafkaSinkTopic)
	assert.Equal(t, "impact-engine", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Zero(t, cfg.ResultCacheSize)
	assert.Equal(t, 20_000, cfg.EntryMaxSteps)
	assert.Equal(t, TracingConfig{
		Enabled:     false,
		ServiceName: "impact-engine",
		Exporter:    "stdout",
		SampleRatio: 1,
	}, cfg.Tracing)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("RESULT_CACHE_SIZE", "256")
	t.Setenv("ENTRY_MAX_STEPS", "50000")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_EXPORTER", "OTLP")
	t.Setenv("TRACING_ENDPOINT", "collector:4317")
	t.Setenv("TRACING_SAMPLE_RATIO", "0.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.Equal(t, 256, cfg.ResultCacheSize)
	assert.Equal(t, 50_000, cfg.EntryMaxSteps)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "otlp", cfg.Tracing.Exporter)
	assert.Equal(t, "collector:4317", cfg.Tracing.Endpoint)
	assert.Equal(t, 0.25, cfg.Tracing.SampleRatio)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"unparseable shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "not-a-duration"}, "parse env"},
		{"negative shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "-1s"}, "SHUTDOWN_TIMEOUT"},
		{"zero batch size", map[string]string{"BATCH_SIZE": "0"}, "BATCH_SIZE"},
		{"batch size too large", map[string]string{"BATCH_SIZE": "9999"}, "BATCH_SIZE"},
		{"unparseable flush interval", map[string]string{"BATCH_FLUSH_INTERVAL": "soon"}, "parse env"},
		{"zero flush interval", map[string]string{"BATCH_FLUSH_INTERVAL": "0s"}, "BATCH_FLUSH_INTERVAL"},
		{"zero mapbox timeout", map[string]string{"MAPBOX_TIMEOUT": "0s"}, "MAPBOX_TIMEOUT"},
		{"mapbox enabled without token", map[string]string{"MAPBOX_ENABLED": "true"}, "MAPBOX_TOKEN"},
		{"kafka enabled without brokers", map[string]string{"KAFKA_ENABLED": "true"}, "KAFKA_BROKERS"},
		{"negative result cache", map[string]string{"RESULT_CACHE_SIZE": "-1"}, "RESULT_CACHE_SIZE"},
		{"zero entry steps", map[string]string{"ENTRY_MAX_STEPS": "0"}, "ENTRY_MAX_STEPS"},
		{"entry steps short of ground", map[string]string{"ENTRY_MAX_STEPS": "9999"}, "at least 10000"},
		{"sample ratio above one", map[string]string{"TRACING_SAMPLE_RATIO": "1.5"}, "TRACING_SAMPLE_RATIO"},
		{"unknown exporter", map[string]string{"TRACING_EXPORTER": "zipkin"}, "TRACING_EXPORTER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}
