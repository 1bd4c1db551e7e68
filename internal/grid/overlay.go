package grid

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
)

// Stats counts overlay cache activity
type Stats struct {
	Hits    int
	Misses  int
	Layouts int
	Renders int
}

type cacheEntry struct {
	hash     uint64
	overlay  *image.RGBA
	geometry Geometry
}

// Overlay draws the numbered grid over screenshots. It remembers the last
// rendered screenshot by content hash so probing the same capture twice does
// not redraw it. Returned overlays are shared with the cache and must not be
// modified by callers.
type Overlay struct {
	spec Spec

	mu     sync.Mutex
	cache  *cacheEntry
	labels []*image.RGBA
	stats  Stats
}

// NewOverlay creates an overlay renderer for the given grid
func NewOverlay(spec Spec) (*Overlay, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &Overlay{spec: spec}, nil
}

// Spec returns the grid layout
func (o *Overlay) Spec() Spec {
	return o.spec
}

// Render returns img with the grid drawn over it together with the cell geometry
func (o *Overlay) Render(img image.Image) (*image.RGBA, Geometry, error) {
	if img == nil {
		return nil, Geometry{}, fmt.Errorf("%w: nil image", domain.ErrGridRender)
	}

	src := toRGBA(img)
	width, height := src.Rect.Dx(), src.Rect.Dy()
	hash := contentHash(src)

	o.mu.Lock()
	defer o.mu.Unlock()

	if c := o.cache; c != nil && c.hash == hash && c.geometry.Width == width && c.geometry.Height == height {
		o.stats.Hits++
		return c.overlay, c.geometry, nil
	}

	geometry, err := o.spec.Layout(width, height)
	if err != nil {
		return nil, Geometry{}, err
	}
	o.stats.Layouts++
	o.stats.Misses++

	overlay := image.NewRGBA(src.Rect)
	copy(overlay.Pix, src.Pix)

	for n := 0; n < o.spec.Cells(); n++ {
		cell := geometry.CellRect(n)
		drawBorder(overlay, cell)
		drawLabel(overlay, cell, o.label(n))
	}
	o.stats.Renders++

	o.cache = &cacheEntry{hash: hash, overlay: overlay, geometry: geometry}
	return overlay, geometry, nil
}

// Stats returns a snapshot of cache counters
func (o *Overlay) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

// Reset drops the cached overlay
func (o *Overlay) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cache = nil
}

func (o *Overlay) label(n int) *image.RGBA {
	if o.labels == nil {
		o.labels = make([]*image.RGBA, o.spec.Cells())
	}
	if o.labels[n] == nil {
		o.labels[n] = renderLabel(n)
	}
	return o.labels[n]
}

// toRGBA returns img as a tightly packed RGBA buffer anchored at the origin
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		b := rgba.Rect
		if b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
			return rgba
		}
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

func contentHash(img *image.RGBA) uint64 {
	h := xxhash.New()

	var dims [16]byte
	binary.LittleEndian.PutUint64(dims[:8], uint64(img.Rect.Dx()))
	binary.LittleEndian.PutUint64(dims[8:], uint64(img.Rect.Dy()))
	_, _ = h.Write(dims[:])
	_, _ = h.Write(img.Pix)

	return h.Sum64()
}
