package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("test", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "info", cfg.SegmentLogLevel)
	assert.Equal(t, "skip", cfg.FailurePolicy)
	assert.Equal(t, "device.notifications.*", cfg.NotificationSubject)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.SinkPostgresEnabled)
	assert.False(t, cfg.SinkKafkaEnabled)
	assert.Equal(t, 720*time.Hour, cfg.InboxRetention)
	assert.Equal(t, time.Hour, cfg.RetentionSweepInterval)
	assert.Equal(t, 10*time.Second, cfg.HealthCheckInterval)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("LOG_LEVEL: debug\nHTTP_PORT: 9000\nFAILURE_POLICY: abort\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.defaults.yaml"), yaml, 0o600))

	t.Setenv("APP_HTTP_PORT", "9100")
	t.Setenv("APP_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("APP_INBOX_RETENTION", "48h")

	cfg, err := Load("test", dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "abort", cfg.FailurePolicy)
	assert.Equal(t, 9100, cfg.HTTPPort) // env wins over file
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 48*time.Hour, cfg.InboxRetention)
}
