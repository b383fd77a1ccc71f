package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width int, height int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}

	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestThumbnailScalesLongestSide(t *testing.T) {
	t.Parallel()

	thumb, err := Thumbnail(encodePNG(t, 800, 400), 200)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	require.Equal(t, 200, decoded.Bounds().Dx())
	require.Equal(t, 100, decoded.Bounds().Dy())
}

func TestThumbnailDoesNotUpscale(t *testing.T) {
	t.Parallel()

	thumb, err := Thumbnail(encodePNG(t, 40, 30), 200)
	require.NoError(t, err)

	format, dims, err := Inspect(thumb)
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	require.Equal(t, image.Point{X: 40, Y: 30}, dims)
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Thumbnail([]byte("definitely not an image"), 200)
	require.ErrorIs(t, err, ErrUndecodable)
}

func TestFitWithin(t *testing.T) {
	t.Parallel()

	w, h := fitWithin(1000, 1, 100)
	require.Equal(t, 100, w)
	require.Equal(t, 1, h)

	w, h = fitWithin(300, 600, 300)
	require.Equal(t, 150, w)
	require.Equal(t, 300, h)
}
