package change

import (
	"fmt"
	"image"
	"image/draw"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	xdraw "golang.org/x/image/draw"
)

// DefaultThreshold is the difference percentage above which a capture counts as changed
const DefaultThreshold = 0.1

// channels compared per pixel; alpha is ignored since captures are opaque
const channels = 3

// Detector compares two captures and reports whether the screen changed
type Detector struct {
	Threshold float64
}

// NewDetector creates a detector; a negative threshold falls back to DefaultThreshold
func NewDetector(threshold float64) *Detector {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &Detector{Threshold: threshold}
}

// Changed reports whether the difference between before and after exceeds the threshold
func (d *Detector) Changed(before, after image.Image) (bool, error) {
	_, changed, err := d.Compare(before, after)
	return changed, err
}

// Compare returns the difference percentage along with the threshold decision
func (d *Detector) Compare(before, after image.Image) (float64, bool, error) {
	pct, err := Difference(before, after)
	if err != nil {
		return 0, false, err
	}
	return pct, pct > d.Threshold, nil
}

// Difference returns the summed absolute RGB difference of two captures as a
// percentage of the maximum possible difference. When the sizes differ, after
// is resampled to the size of before.
func Difference(before, after image.Image) (float64, error) {
	if before == nil || after == nil {
		return 0, fmt.Errorf("%w: missing capture for comparison", domain.ErrCapture)
	}

	a := toRGBA(before)
	w, h := a.Rect.Dx(), a.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, fmt.Errorf("%w: empty capture", domain.ErrCapture)
	}

	var b *image.RGBA
	if ab := after.Bounds(); ab.Dx() != w || ab.Dy() != h {
		if ab.Empty() {
			return 0, fmt.Errorf("%w: empty capture", domain.ErrCapture)
		}
		b = image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.NearestNeighbor.Scale(b, b.Rect, after, ab, xdraw.Src, nil)
	} else {
		b = toRGBA(after)
	}

	var total uint64
	for y := 0; y < h; y++ {
		rowA := a.Pix[y*a.Stride : y*a.Stride+w*4]
		rowB := b.Pix[y*b.Stride : y*b.Stride+w*4]
		for i := 0; i < len(rowA); i += 4 {
			total += absDiff(rowA[i], rowB[i])
			total += absDiff(rowA[i+1], rowB[i+1])
			total += absDiff(rowA[i+2], rowB[i+2])
		}
	}

	maxDiff := float64(w) * float64(h) * 255 * channels
	return float64(total) / maxDiff * 100, nil
}

func absDiff(x, y uint8) uint64 {
	if x > y {
		return uint64(x - y)
	}
	return uint64(y - x)
}

// toRGBA returns img as a zero-origin RGBA, copying only when necessary
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}
