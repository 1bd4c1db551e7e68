package grid

import (
	"fmt"
	"math"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
)

// Resolve converts cell observations into a single image-space target using the
// coverage-weighted centroid of the cell centers. When the total weight is zero
// the center of the first cell is returned.
func Resolve(spec Spec, cells []domain.CellObservation, cellWidth, cellHeight int) (domain.Point, error) {
	if len(cells) == 0 {
		return domain.Point{}, fmt.Errorf("no cells to resolve")
	}
	if cellWidth <= 0 || cellHeight <= 0 {
		return domain.Point{}, fmt.Errorf("invalid cell size %dx%d", cellWidth, cellHeight)
	}

	var totalWeight, sumX, sumY float64
	for _, cell := range cells {
		weight := cell.CoveragePercent / 100
		if weight <= 0 || math.IsNaN(weight) {
			continue
		}
		center := CellCenter(spec, cell.CellNumber, cellWidth, cellHeight)
		sumX += float64(center.X) * weight
		sumY += float64(center.Y) * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return CellCenter(spec, cells[0].CellNumber, cellWidth, cellHeight), nil
	}

	return domain.Point{
		X: int(math.Floor(sumX/totalWeight + 1e-9)),
		Y: int(math.Floor(sumY/totalWeight + 1e-9)),
	}, nil
}

// FilterCells drops observations whose cell number is outside the grid
func FilterCells(spec Spec, cells []domain.CellObservation) (kept, dropped []domain.CellObservation) {
	for _, cell := range cells {
		if spec.Contains(cell.CellNumber) {
			kept = append(kept, cell)
		} else {
			dropped = append(dropped, cell)
		}
	}
	return kept, dropped
}
