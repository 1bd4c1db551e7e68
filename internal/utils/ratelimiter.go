package utils

import (
	"fmt"
	"sync"
	"time"

	config "github.com/inference-gateway/gridpilot/config"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
)

// WindowRateLimiter caps the number of input actions inside a sliding window
type WindowRateLimiter struct {
	cfg         config.RateLimitConfig
	actionTimes []time.Time
	now         func() time.Time
	mu          sync.Mutex
}

var _ domain.RateLimiter = (*WindowRateLimiter)(nil)

// NewRateLimiter creates a limiter for the given budget
func NewRateLimiter(cfg config.RateLimitConfig) *WindowRateLimiter {
	return &WindowRateLimiter{cfg: cfg, now: time.Now}
}

// CheckAndRecord records one action, or fails with ErrRateLimited when the
// window is already full
func (rl *WindowRateLimiter) CheckAndRecord(action string) error {
	if !rl.cfg.Enabled {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.prune(now)

	if len(rl.actionTimes) >= rl.cfg.MaxActionsPerMinute {
		return fmt.Errorf("%w: %s refused, maximum %d actions per %d seconds (current: %d actions in window)",
			domain.ErrRateLimited, action, rl.cfg.MaxActionsPerMinute, rl.cfg.WindowSeconds, len(rl.actionTimes))
	}

	rl.actionTimes = append(rl.actionTimes, now)
	return nil
}

// GetCurrentCount returns the number of actions in the current window
func (rl *WindowRateLimiter) GetCurrentCount() int {
	if !rl.cfg.Enabled {
		return 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.prune(rl.now())
	return len(rl.actionTimes)
}

// Reset clears all recorded actions
func (rl *WindowRateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.actionTimes = nil
}

// prune drops timestamps older than the window; actionTimes stays sorted
func (rl *WindowRateLimiter) prune(now time.Time) {
	windowStart := now.Add(-time.Duration(rl.cfg.WindowSeconds) * time.Second)
	i := 0
	for i < len(rl.actionTimes) && !rl.actionTimes[i].After(windowStart) {
		i++
	}
	rl.actionTimes = rl.actionTimes[i:]
}
