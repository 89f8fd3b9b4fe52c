package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"CIVREG_ADDR", "CIVREG_SESSION_KEY", "CIVREG_SUBMIT_DELAY", "CIVREG_FAILURE_RATE", "REDIS_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.UsesDevSessionKey())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 2*time.Second, cfg.Simulator.SubmitDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Simulator.ActionDelay)
	assert.Zero(t, cfg.Simulator.FailureRate)
	assert.Empty(t, cfg.Redis.URL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CIVREG_ADDR", ":9090")
	t.Setenv("CIVREG_SUBMIT_DELAY", "250ms")
	t.Setenv("CIVREG_FAILURE_RATE", "0.25")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulator.SubmitDelay)
	assert.InDelta(t, 0.25, cfg.Simulator.FailureRate, 1e-9)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestFromEnvRejectsInvalid(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("CIVREG_SUBMIT_DELAY", "soon")
		_, err := FromEnv()
		assert.Error(t, err)
	})
	t.Run("failure rate out of range", func(t *testing.T) {
		t.Setenv("CIVREG_FAILURE_RATE", "1.5")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}

func TestFromEnvSecureCookies(t *testing.T) {
	t.Setenv("CIVREG_SECURE_COOKIES", "true")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.SecureCookies)

	t.Setenv("CIVREG_SECURE_COOKIES", "sometimes")
	_, err = FromEnv()
	assert.Error(t, err)
}
