package grid

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	xdraw "golang.org/x/image/draw"
	font "golang.org/x/image/font"
	basicfont "golang.org/x/image/font/basicfont"
	fixed "golang.org/x/image/math/fixed"
)

var (
	borderColor     = color.RGBA{R: 255, A: 255}
	labelBackground = image.White
	labelForeground = image.Black
)

const (
	labelPadX = 2
	labelPadY = 1

	// one label scale step per this many pixels of the shorter cell side
	labelScaleStep = 40
)

// renderLabel draws the decimal numeral n in black on a white plate at the
// native size of the fixed 7x13 bitmap face.
func renderLabel(n int) *image.RGBA {
	face := basicfont.Face7x13
	text := strconv.Itoa(n)

	metrics := face.Metrics()
	width := font.MeasureString(face, text).Ceil() + 2*labelPadX
	height := metrics.Height.Ceil() + 2*labelPadY

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), labelBackground, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  labelForeground,
		Face: face,
		Dot:  fixed.P(labelPadX, labelPadY+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
	return img
}

// labelScale picks an integer magnification that keeps the label inside the cell
func labelScale(label image.Rectangle, cell image.Rectangle) int {
	short := min(cell.Dx(), cell.Dy())
	k := max(1, short/labelScaleStep)
	for k > 1 && (label.Dx()*k > cell.Dx() || label.Dy()*k > cell.Dy()) {
		k--
	}
	return k
}

// drawLabel centers the label in cell, clipped to the cell bounds
func drawLabel(dst *image.RGBA, cell image.Rectangle, label *image.RGBA) {
	k := labelScale(label.Bounds(), cell)
	w, h := label.Bounds().Dx()*k, label.Bounds().Dy()*k

	x := cell.Min.X + (cell.Dx()-w)/2
	y := cell.Min.Y + (cell.Dy()-h)/2
	target := image.Rect(x, y, x+w, y+h)

	clip, ok := dst.SubImage(cell).(*image.RGBA)
	if !ok {
		return
	}
	xdraw.NearestNeighbor.Scale(clip, target, label, label.Bounds(), xdraw.Src, nil)
}

// drawBorder outlines cell with a one pixel line
func drawBorder(dst *image.RGBA, cell image.Rectangle) {
	src := image.NewUniform(borderColor)
	edges := []image.Rectangle{
		image.Rect(cell.Min.X, cell.Min.Y, cell.Max.X, cell.Min.Y+1),
		image.Rect(cell.Min.X, cell.Max.Y-1, cell.Max.X, cell.Max.Y),
		image.Rect(cell.Min.X, cell.Min.Y, cell.Min.X+1, cell.Max.Y),
		image.Rect(cell.Max.X-1, cell.Min.Y, cell.Max.X, cell.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}
