// Package imaging decodes uploaded installation photos and renders the
// JPEG thumbnails served next to them.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultThumbnailSize = 320
	thumbnailQuality     = 85
	// Decoding is refused above this pixel count to bound memory per request.
	maxPixels = 40_000_000
)

var ErrUndecodable = errors.New("image cannot be decoded")

// Inspect reads only the image header and reports format and dimensions.
func Inspect(data []byte) (string, image.Point, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", image.Point{}, ErrUndecodable
	}

	return format, image.Point{X: cfg.Width, Y: cfg.Height}, nil
}

// Thumbnail scales data so that its longest side is at most size pixels and
// encodes the result as JPEG. Transparent areas are flattened onto white.
func Thumbnail(data []byte, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultThumbnailSize
	}

	_, dims, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	if dims.X <= 0 || dims.Y <= 0 || dims.X*dims.Y > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrUndecodable, dims.X, dims.Y)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUndecodable
	}

	bounds := src.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), size)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, dst, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

// fitWithin never upscales.
func fitWithin(width int, height int, size int) (int, int) {
	maxDim := width
	if height > maxDim {
		maxDim = height
	}

	scale := float64(size) / float64(maxDim)
	if scale > 1 {
		scale = 1
	}

	targetWidth := int(math.Round(float64(width) * scale))
	targetHeight := int(math.Round(float64(height) * scale))
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	return targetWidth, targetHeight
}
