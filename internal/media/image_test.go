package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownscaleFitsInsideBounds(t *testing.T) {
	t.Parallel()

	raw := encodePNG(t, 1024, 512, color.RGBA{R: 200, A: 255})
	img, err := Downscale(raw, ImageOptions{MaxDimension: 512, JPEGQuality: 75})
	require.NoError(t, err)

	assert.Equal(t, 512, img.Width)
	assert.Equal(t, 256, img.Height)

	decoded, format, err := image.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 512, decoded.Bounds().Dx())
}

func TestDownscaleKeepsSmallImages(t *testing.T) {
	t.Parallel()

	img, err := Downscale(encodePNG(t, 40, 100, color.White), ImageOptions{MaxDimension: 512})
	require.NoError(t, err)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 100, img.Height)
}

func TestFingerprintIsDeterministic(t *testing.T) {
	t.Parallel()

	raw := encodePNG(t, 64, 64, color.RGBA{G: 120, A: 255})
	a, err := Downscale(raw, ImageOptions{})
	require.NoError(t, err)
	b, err := Downscale(raw, ImageOptions{})
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)

	other, err := Downscale(encodePNG(t, 64, 64, color.RGBA{B: 120, A: 255}), ImageOptions{})
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), other.Fingerprint())
}

func TestDownscaleRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Downscale([]byte("not an image"), ImageOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = Downscale(nil, ImageOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFitInside(t *testing.T) {
	t.Parallel()

	cases := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{2000, 1000, 512, 512, 256},
		{1000, 2000, 512, 256, 512},
		{512, 512, 512, 512, 512},
		{3000, 2, 512, 512, 1},
	}
	for _, c := range cases {
		w, h := fitInside(c.w, c.h, c.max)
		assert.Equal(t, c.wantW, w)
		assert.Equal(t, c.wantH, h)
	}
}
