package grid

import (
	"fmt"
	"image"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
)

const (
	DefaultColumns = 32
	DefaultRows    = 18
)

// Spec is the fixed column/row layout of the overlay
type Spec struct {
	Columns int
	Rows    int
}

// DefaultSpec returns the 32x18 layout
func DefaultSpec() Spec {
	return Spec{Columns: DefaultColumns, Rows: DefaultRows}
}

// Validate ensures the grid has at least one cell
func (s Spec) Validate() error {
	if s.Columns <= 0 || s.Rows <= 0 {
		return fmt.Errorf("%w: grid must have positive columns and rows (got %dx%d)", domain.ErrGridRender, s.Columns, s.Rows)
	}
	return nil
}

// Cells returns the total number of cells
func (s Spec) Cells() int {
	return s.Columns * s.Rows
}

// Contains reports whether n is a valid cell number
func (s Spec) Contains(n int) bool {
	return n >= 0 && n < s.Cells()
}

// RowCol returns the row-major position of cell n
func (s Spec) RowCol(n int) (row, col int) {
	return n / s.Columns, n % s.Columns
}

// Geometry is a Spec laid over an image of a concrete size
type Geometry struct {
	Spec
	Width      int
	Height     int
	CellWidth  int
	CellHeight int
}

// Layout computes cell dimensions for a width x height image.
// Cell size is floor(dimension / count); the last row and column absorb the remainder.
func (s Spec) Layout(width, height int) (Geometry, error) {
	if err := s.Validate(); err != nil {
		return Geometry{}, err
	}

	cw, ch := width/s.Columns, height/s.Rows
	if cw == 0 || ch == 0 {
		return Geometry{}, fmt.Errorf("%w: image %dx%d is smaller than a %dx%d grid", domain.ErrGridRender, width, height, s.Columns, s.Rows)
	}

	return Geometry{
		Spec:       s,
		Width:      width,
		Height:     height,
		CellWidth:  cw,
		CellHeight: ch,
	}, nil
}

// CellRect returns the pixel rectangle covered by cell n
func (g Geometry) CellRect(n int) image.Rectangle {
	row, col := g.RowCol(n)

	x0, y0 := col*g.CellWidth, row*g.CellHeight
	x1, y1 := x0+g.CellWidth, y0+g.CellHeight
	if col == g.Columns-1 {
		x1 = g.Width
	}
	if row == g.Rows-1 {
		y1 = g.Height
	}
	return image.Rect(x0, y0, x1, y1)
}

// CellCenter returns the nominal center of cell n
func (g Geometry) CellCenter(n int) domain.Point {
	return CellCenter(g.Spec, n, g.CellWidth, g.CellHeight)
}

// CellCenter returns the center of cell n for the given nominal cell size
func CellCenter(s Spec, n, cellWidth, cellHeight int) domain.Point {
	row, col := s.RowCol(n)
	return domain.Point{
		X: col*cellWidth + cellWidth/2,
		Y: row*cellHeight + cellHeight/2,
	}
}
