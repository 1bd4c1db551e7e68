package utils

import (
	"errors"
	"testing"
	"time"

	config "github.com/inference-gateway/gridpilot/config"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func newTestLimiter(max int, enabled bool) (*WindowRateLimiter, *time.Time) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(config.RateLimitConfig{
		Enabled:             enabled,
		MaxActionsPerMinute: max,
		WindowSeconds:       60,
	})
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestWindowRateLimiter(t *testing.T) {
	rl, clock := newTestLimiter(3, true)

	for i := 0; i < 3; i++ {
		require.NoError(t, rl.CheckAndRecord("click"))
		*clock = clock.Add(10 * time.Second)
	}
	assert.Equal(t, 3, rl.GetCurrentCount())

	err := rl.CheckAndRecord("type")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	assert.Contains(t, err.Error(), "maximum 3 actions per 60 seconds")

	// the first action leaves the window after 60s
	*clock = clock.Add(31 * time.Second)
	assert.Equal(t, 2, rl.GetCurrentCount())
	require.NoError(t, rl.CheckAndRecord("press"))

	rl.Reset()
	assert.Equal(t, 0, rl.GetCurrentCount())
}

func TestWindowRateLimiter_Disabled(t *testing.T) {
	rl, _ := newTestLimiter(1, false)
	for i := 0; i < 10; i++ {
		require.NoError(t, rl.CheckAndRecord("click"))
	}
	assert.Equal(t, 0, rl.GetCurrentCount())
}
