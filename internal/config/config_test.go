package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HAZARD_BASE_URL", "http://localhost:9000")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 1000, cfg.MaxAssets)
	assert.Equal(t, 30*time.Second, cfg.HazardTimeout)
	assert.Equal(t, 256, cfg.HazardCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "flood-risk-results", cfg.KafkaResultsTopic)
}

func TestLoad_MissingBaseURL(t *testing.T) {
	t.Setenv("HAZARD_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HAZARD_BASE_URL")
}

func TestLoad_CustomValues(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MAX_ASSETS", "50")
	t.Setenv("HAZARD_TOKEN", "secret")
	t.Setenv("HAZARD_TIMEOUT", "5s")
	t.Setenv("HAZARD_CACHE_SIZE", "16")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("KAFKA_RESULTS_TOPIC", "audit")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.MaxAssets)
	assert.Equal(t, "secret", cfg.HazardToken)
	assert.Equal(t, 5*time.Second, cfg.HazardTimeout)
	assert.Equal(t, 16, cfg.HazardCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "audit", cfg.KafkaResultsTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeHazardTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("HAZARD_TIMEOUT", "-5s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HAZARD_TIMEOUT")
}

func TestLoad_InvalidMaxAssets(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_ASSETS", "zero")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_ASSETS")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
