// Package imageutil turns provider profile pictures into the square PNG
// thumbnails served under /api/assets/avatars.
package imageutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// MaxSourceSide caps either dimension of a source picture. Larger headers
// are rejected before any pixel is decoded.
const MaxSourceSide = 4096

var (
	ErrInvalidSize   = errors.New("invalid target size")
	ErrImageTooLarge = errors.New("source image is too large")
)

// SquareCrop returns the largest centered square inside src.
func SquareCrop(src image.Image) image.Rectangle {
	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}

// Thumbnail scales the centered square of src to size×size.
func Thumbnail(src image.Image, size int) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	crop := SquareCrop(src)
	if crop.Empty() {
		return nil, errors.New("source image has zero size")
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst, nil
}

// AvatarPNG decodes a PNG, JPEG or GIF and re-encodes it as a size×size PNG.
func AvatarPNG(data []byte, size int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode avatar header: %w", err)
	}
	if cfg.Width > MaxSourceSide || cfg.Height > MaxSourceSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}
	thumb, err := Thumbnail(img, size)
	if err != nil {
		return nil, fmt.Errorf("resize %s avatar: %w", format, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
