package grid

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var gray = color.RGBA{R: 128, G: 128, B: 128, A: 255}

func TestOverlay_DrawsBordersAndLabels(t *testing.T) {
	o, err := NewOverlay(Spec{Columns: 4, Rows: 2})
	require.NoError(t, err)

	src := solidImage(400, 200, gray)
	out, g, err := o.Render(src)
	require.NoError(t, err)

	assert.Equal(t, 100, g.CellWidth)
	assert.Equal(t, 100, g.CellHeight)
	assert.Equal(t, src.Bounds(), out.Bounds())

	assert.Equal(t, borderColor, out.RGBAAt(0, 0))
	assert.Equal(t, borderColor, out.RGBAAt(100, 37))
	assert.Equal(t, gray, out.RGBAAt(20, 20))

	var white, black bool
	center := g.CellRect(5)
	for y := center.Min.Y + 30; y < center.Max.Y-30; y++ {
		for x := center.Min.X + 30; x < center.Max.X-30; x++ {
			switch out.RGBAAt(x, y) {
			case color.RGBA{R: 255, G: 255, B: 255, A: 255}:
				white = true
			case color.RGBA{A: 255}:
				black = true
			}
		}
	}
	assert.True(t, white, "label plate expected near the cell center")
	assert.True(t, black, "label glyphs expected near the cell center")

	assert.Equal(t, gray, src.RGBAAt(0, 0), "source must not be modified")
}

func TestOverlay_CacheHitOnIdenticalPixels(t *testing.T) {
	o, err := NewOverlay(DefaultSpec())
	require.NoError(t, err)

	first, _, err := o.Render(solidImage(640, 360, gray))
	require.NoError(t, err)

	second, _, err := o.Render(solidImage(640, 360, gray))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, Stats{Hits: 1, Misses: 1, Layouts: 1, Renders: 1}, o.Stats(), "a hit reuses the cached geometry")

	changed := solidImage(640, 360, gray)
	changed.SetRGBA(321, 17, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	third, _, err := o.Render(changed)
	require.NoError(t, err)

	assert.NotSame(t, first, third)
	assert.Equal(t, Stats{Hits: 1, Misses: 2, Layouts: 2, Renders: 2}, o.Stats())

	_, _, err = o.Render(solidImage(640, 360, gray))
	require.NoError(t, err)
	assert.Equal(t, 3, o.Stats().Renders, "single slot evicts the previous entry")
}

func TestOverlay_CacheKeyIncludesSize(t *testing.T) {
	o, err := NewOverlay(Spec{Columns: 2, Rows: 2})
	require.NoError(t, err)

	_, wide, err := o.Render(solidImage(200, 100, gray))
	require.NoError(t, err)
	_, tall, err := o.Render(solidImage(100, 200, gray))
	require.NoError(t, err)

	assert.Equal(t, 100, wide.CellWidth)
	assert.Equal(t, 50, tall.CellWidth)
	assert.Equal(t, Stats{Misses: 2, Layouts: 2, Renders: 2}, o.Stats())
}

func TestOverlay_Deterministic(t *testing.T) {
	a, err := NewOverlay(DefaultSpec())
	require.NoError(t, err)
	b, err := NewOverlay(DefaultSpec())
	require.NoError(t, err)

	outA, _, err := a.Render(solidImage(1280, 720, gray))
	require.NoError(t, err)
	outB, _, err := b.Render(solidImage(1280, 720, gray))
	require.NoError(t, err)

	assert.True(t, bytes.Equal(outA.Pix, outB.Pix))
}

func TestOverlay_NonOriginImage(t *testing.T) {
	o, err := NewOverlay(Spec{Columns: 2, Rows: 2})
	require.NoError(t, err)

	base := solidImage(300, 300, gray)
	sub := base.SubImage(image.Rect(100, 100, 300, 300))

	out, g, err := o.Render(sub)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 200), out.Bounds())
	assert.Equal(t, 100, g.CellWidth)
}

func TestOverlay_Errors(t *testing.T) {
	_, err := NewOverlay(Spec{})
	assert.True(t, errors.Is(err, domain.ErrGridRender))

	o, err := NewOverlay(DefaultSpec())
	require.NoError(t, err)

	_, _, err = o.Render(nil)
	assert.True(t, errors.Is(err, domain.ErrGridRender))

	_, _, err = o.Render(solidImage(10, 10, gray))
	assert.True(t, errors.Is(err, domain.ErrGridRender))
	assert.Zero(t, o.Stats().Renders)
	assert.Zero(t, o.Stats().Layouts)
}

func TestSaveAndLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "grid.png")
	require.NoError(t, SaveImage(path, solidImage(32, 18, gray)))

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 18), img.Bounds())

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.True(t, errors.Is(err, domain.ErrGridRender))
}
