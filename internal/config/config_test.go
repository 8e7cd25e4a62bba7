package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"10":     10 * time.Second,
		"10s":    10 * time.Second,
		"5m":     5 * time.Minute,
		`"90s"`:  90 * time.Second,
		"'24h'":  24 * time.Hour,
		"  15  ": 15 * time.Second,
	}
	for in, want := range cases {
		got, err := parseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseDuration("")
	assert.Error(t, err)
	_, err = parseDuration("soon")
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_READ_TIMEOUT", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("ADMIN_SESSION_TTL", "2h")
	t.Setenv("REDIS_URL", "redis://:secret@localhost:6379/2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.App.IsDev())
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout.Duration())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.Admin.SessionTTL.Duration())

	require.True(t, cfg.Redis.Enabled())
	opts, err := cfg.Redis.Options()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.App.IsDev())
	assert.Equal(t, 60*time.Second, cfg.HTTP.IdleTimeout.Duration())
	assert.Equal(t, 24*time.Hour, cfg.Admin.SessionTTL.Duration())
	assert.Equal(t, 8760*time.Hour, cfg.Admin.VisitorRetention.Duration())
}

func TestLoad_RejectsBadRedisURL(t *testing.T) {
	t.Setenv("REDIS_URL", "http://localhost:6379")
	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_URL")
}
