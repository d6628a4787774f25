package media

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageOptions bounds a downscaled image.
type ImageOptions struct {
	MaxDimension int
	JPEGQuality  int
}

// Image is a recompressed JPEG ready for a multimodal request.
type Image struct {
	Data   []byte
	Width  int
	Height int
}

const JPEGMime = "image/jpeg"

// Base64 returns the standard base64 encoding of the JPEG bytes.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// Fingerprint is the hex SHA-256 of the recompressed bytes, so identical
// uploads map to the same cache key.
func (i Image) Fingerprint() string {
	sum := sha256.Sum256(i.Data)
	return hex.EncodeToString(sum[:])
}

// Downscale decodes raw, fits it inside MaxDimension x MaxDimension keeping
// the aspect ratio (never enlarging), and re-encodes it as JPEG.
func Downscale(raw []byte, opts ImageOptions) (Image, error) {
	if len(raw) == 0 {
		return Image{}, fmt.Errorf("%w: empty image payload", ErrInvalidInput)
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = 512
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = 75
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	bounds := src.Bounds()
	w, h := fitInside(bounds.Dx(), bounds.Dy(), opts.MaxDimension)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return Image{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return Image{Data: buf.Bytes(), Width: w, Height: h}, nil
}

func fitInside(w, h, bound int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	if w <= bound && h <= bound {
		return w, h
	}
	if w >= h {
		nh := h * bound / w
		if nh < 1 {
			nh = 1
		}
		return bound, nh
	}
	nw := w * bound / h
	if nw < 1 {
		nw = 1
	}
	return nw, bound
}
