package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
	// секреты РАЗНЫЕ даже в dev-дефолтах
	assert.NotEqual(t, cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	// wildcard несовместим с credentials, дефолт должен быть конкретным
	assert.NotEqual(t, "*", cfg.CORSOrigin)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT_ADDR", ":9090")
	t.Setenv("ACCESS_TOKEN_SECRET", "env-access")
	t.Setenv("REFRESH_TOKEN_SECRET", "env-refresh")
	t.Setenv("ACCESS_TOKEN_LIFETIME", "5m")
	t.Setenv("DATABASE_PATH", ":memory:")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "env-access", cfg.AccessTokenSecret)
	assert.Equal(t, "env-refresh", cfg.RefreshTokenSecret)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, ":memory:", cfg.DatabasePath)
}

func TestLoad_EmptyEnvKeepsDefault(t *testing.T) {
	t.Setenv("PORT_ADDR", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestEnvDuration_Seconds(t *testing.T) {
	// число без единиц трактуется как секунды
	t.Setenv("REFRESH_TOKEN_LIFETIME", "3600")

	cfg := Load()
	require.Equal(t, time.Hour, cfg.RefreshTokenTTL)
}

func TestEnvDuration_Invalid(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_LIFETIME", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
}
