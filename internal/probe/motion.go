package probe

import (
	"context"
	"math"
	"time"

	display "github.com/inference-gateway/gridpilot/internal/display"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
)

const (
	motionStepInterval = 10 * time.Millisecond
	maxMotionSteps     = 50
)

// easeInOutCubic accelerates through the first half and decelerates through the second
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// path returns the intermediate pointer positions from one point to another,
// ending exactly at to.
func path(from, to domain.Point, steps int) []domain.Point {
	if steps < 1 {
		steps = 1
	}
	out := make([]domain.Point, 0, steps)
	for i := 1; i <= steps; i++ {
		e := easeInOutCubic(float64(i) / float64(steps))
		out = append(out, domain.Point{
			X: from.X + int(math.Round(float64(to.X-from.X)*e)),
			Y: from.Y + int(math.Round(float64(to.Y-from.Y)*e)),
		})
	}
	out[len(out)-1] = to
	return out
}

// moveSmoothly glides the pointer to target over duration. When the current
// position is unknown (Wayland) or duration is zero the pointer jumps.
func moveSmoothly(ctx context.Context, ctrl display.DisplayController, target domain.Point, duration time.Duration) error {
	if duration <= 0 {
		return ctrl.MoveMouse(ctx, target.X, target.Y)
	}

	x, y, err := ctrl.GetCursorPosition(ctx)
	if err != nil {
		return ctrl.MoveMouse(ctx, target.X, target.Y)
	}

	steps := min(max(int(duration/motionStepInterval), 1), maxMotionSteps)
	interval := duration / time.Duration(steps)

	for _, p := range path(domain.Point{X: x, Y: y}, target, steps) {
		if err := ctrl.MoveMouse(ctx, p.X, p.Y); err != nil {
			return err
		}
		if err := display.Sleep(ctx, interval); err != nil {
			return err
		}
	}
	return nil
}
