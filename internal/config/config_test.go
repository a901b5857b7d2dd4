package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("EVENTS_KAFKA_BROKERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 5, cfg.Auth.LoginMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Services.Timeout())
	assert.Nil(t, cfg.Events.KafkaBrokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "shared")
	t.Setenv("DOCTOR_SERVICE_URL", "http://doctor:9000/")
	t.Setenv("SERVICES_TIMEOUT_SECONDS", "2")
	t.Setenv("EVENTS_KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shared", cfg.Auth.JWTSecret)
	assert.Equal(t, "http://doctor:9000", cfg.Services.DoctorURL)
	assert.Equal(t, 2*time.Second, cfg.Services.Timeout())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	assert.Error(t, err)
}

func TestForServiceDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	cfg.ForService("doctor", "8082")
	assert.Equal(t, "mediccare-doctor", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8082", cfg.App.Addr())

	t.Setenv("APP_PORT", "9000")
	cfg, err = Load()
	require.NoError(t, err)
	cfg.ForService("doctor", "8082")
	assert.Equal(t, "9000", cfg.App.Port)
}
