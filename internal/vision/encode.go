package vision

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Downscale shrinks img so its longest side is at most maxSize, preserving
// aspect ratio. Images already within bounds, or maxSize <= 0, are returned as is.
func Downscale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxSize
		nh = max(1, h*maxSize/w)
	} else {
		nh = maxSize
		nw = max(1, w*maxSize/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// EncodePNG downsizes img to maxSize and encodes it as PNG
func EncodePNG(img image.Image, maxSize int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Downscale(img, maxSize)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL encodes img as a base64 PNG data URL
func DataURL(img image.Image, maxSize int) (string, error) {
	data, err := EncodePNG(img, maxSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}
