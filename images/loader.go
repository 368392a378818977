// Package images - Decode and preprocessing for benchmark input images.
package images

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// DecodeError reports an input image that could not be read. The
// benchmark loop skips the image and continues.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Frame is one decoded input image. A frame is owned by exactly one
// benchmark cycle and dropped before the next image is loaded.
type Frame struct {
	Path   string
	Color  image.Image
	Gray   *image.Gray
	Width  int
	Height int
}

// Load decodes the image at path and derives the grayscale raster the
// detector consumes. Unreadable or missing files yield a *DecodeError.
func Load(path string) (*Frame, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	b := img.Bounds()
	return &Frame{
		Path:   path,
		Color:  img,
		Gray:   ToGray(img),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// ToGray converts any decoded image to an 8-bit grayscale raster.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)
	return gray
}

// Decimate downsamples the raster by the given factor, trading
// detection accuracy for speed. Factors at or below 1 return the
// input unchanged.
func Decimate(src *image.Gray, factor float64) *image.Gray {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	w := int(float64(b.Dx()) / factor)
	h := int(float64(b.Dy()) / factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := resize.Resize(uint(w), uint(h), src, resize.Bilinear)
	if g, ok := out.(*image.Gray); ok {
		return g
	}
	return ToGray(out)
}

// Blur applies a Gaussian low-pass filter with the given sigma.
// Non-positive sigmas return the input unchanged.
func Blur(src *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 {
		return src
	}
	return ToGray(imaging.Blur(src, sigma))
}
