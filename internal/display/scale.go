package display

import (
	"context"
	"fmt"
	"image"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
)

// ComputeScale returns the ratio of the physical capture size to the logical
// input-event size on each axis.
func ComputeScale(physicalW, physicalH, logicalW, logicalH int) (domain.Scale, error) {
	if physicalW <= 0 || physicalH <= 0 {
		return domain.Scale{}, fmt.Errorf("%w: invalid capture size %dx%d", domain.ErrCapture, physicalW, physicalH)
	}
	if logicalW <= 0 || logicalH <= 0 {
		return domain.Scale{}, fmt.Errorf("%w: invalid logical screen size %dx%d", domain.ErrCapture, logicalW, logicalH)
	}
	return domain.Scale{
		X: float64(physicalW) / float64(logicalW),
		Y: float64(physicalH) / float64(logicalH),
	}, nil
}

// DetectScale captures the screen and compares it with the logical dimensions.
// Nothing is cached; displays can be reconfigured between calls.
func DetectScale(ctx context.Context, ctrl DisplayController) (domain.Scale, error) {
	img, err := ctrl.CaptureScreen(ctx, nil)
	if err != nil {
		return domain.Scale{}, fmt.Errorf("%w: %w", domain.ErrCapture, err)
	}
	return ScaleForCapture(ctx, ctrl, img)
}

// ScaleForCapture computes the scale for an existing full-screen capture
func ScaleForCapture(ctx context.Context, ctrl DisplayController, capture image.Image) (domain.Scale, error) {
	w, h, err := ctrl.GetScreenDimensions(ctx)
	if err != nil {
		return domain.Scale{}, fmt.Errorf("%w: failed to query screen dimensions: %w", domain.ErrCapture, err)
	}
	b := capture.Bounds()
	return ComputeScale(b.Dx(), b.Dy(), w, h)
}
