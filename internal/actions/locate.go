package actions

import (
	"context"
	"fmt"
	"image"

	artifacts "github.com/inference-gateway/gridpilot/internal/artifacts"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	grid "github.com/inference-gateway/gridpilot/internal/grid"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	vision "github.com/inference-gateway/gridpilot/internal/vision"
	zap "go.uber.org/zap"
)

// Location is where the vision model placed a target on a single image
type Location struct {
	Target      string
	Result      domain.LocateResult
	Cells       []domain.CellObservation
	Dropped     []domain.CellObservation
	Geometry    grid.Geometry
	Point       domain.Point
	OverlayPath string
}

// Found reports whether the location carries a usable image-space point
func (l Location) Found() bool {
	return l.Result.Found && len(l.Cells) > 0
}

// Err returns an ElementNotFoundError for a negative location, nil otherwise
func (l Location) Err() error {
	if l.Found() {
		return nil
	}
	return &domain.ElementNotFoundError{Target: l.Target, Reasoning: l.Result.Reasoning}
}

// Locator runs overlay, ask, parse and resolve against one image
type Locator struct {
	model   domain.VisionModel
	overlay *grid.Overlay
	store   *artifacts.Store
}

// NewLocator creates a locator. store may be nil, in which case overlays are not saved.
func NewLocator(model domain.VisionModel, overlay *grid.Overlay, store *artifacts.Store) *Locator {
	return &Locator{model: model, overlay: overlay, store: store}
}

// Locate finds target on img. Not finding it is reported through
// Location.Found, not as an error; errors are grid, transport or parse failures.
func (l *Locator) Locate(ctx context.Context, img image.Image, target string) (Location, error) {
	loc := Location{Target: target}
	log := logger.L(ctx)

	overlay, geometry, err := l.overlay.Render(img)
	if err != nil {
		return loc, err
	}
	loc.Geometry = geometry

	if l.store != nil {
		path, err := l.store.Save("overlay", overlay)
		if err != nil {
			log.Warn("Failed to save overlay artifact", zap.Error(err))
		} else {
			loc.OverlayPath = path
		}
	}

	reply, err := l.model.Ask(ctx, vision.BuildLocatePrompt(target, l.overlay.Spec()), overlay)
	if err != nil {
		return loc, err
	}
	log.Debug("Vision response", zap.String("target", target), zap.String("reply", reply))

	result, err := vision.ParseLocateResponse(reply)
	if err != nil {
		return loc, err
	}
	loc.Result = result
	if !result.Found {
		log.Info("Element not found", zap.String("target", target), zap.String("reasoning", result.Reasoning))
		return loc, nil
	}

	loc.Cells, loc.Dropped = grid.FilterCells(l.overlay.Spec(), result.Cells)
	for _, c := range loc.Dropped {
		log.Warn("Ignoring cell outside the grid", zap.Int("cell", c.CellNumber), zap.Int("cells", l.overlay.Spec().Cells()))
	}
	if len(loc.Cells) == 0 {
		loc.Result.Found = false
		if loc.Result.Reasoning == "" {
			loc.Result.Reasoning = "every reported cell is outside the grid"
		}
		return loc, nil
	}

	point, err := grid.Resolve(l.overlay.Spec(), loc.Cells, geometry.CellWidth, geometry.CellHeight)
	if err != nil {
		return loc, fmt.Errorf("failed to resolve target: %w", err)
	}
	loc.Point = point

	log.Info("Element located",
		zap.String("target", target),
		zap.Int("cells", len(loc.Cells)),
		zap.Stringer("point", point),
		zap.String("confidence", string(result.Confidence)))
	return loc, nil
}
