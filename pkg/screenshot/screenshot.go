// Package screenshot turns a Session's packed RGBA framebuffer into a PNG,
// optionally scaled, for hosts that want to dump a frame without pulling
// in a whole presentation layer.
package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

// FromRGBA builds an image.RGBA of the given framebuffer dimensions.
func FromRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("screenshot: framebuffer has %d bytes, want %d", len(pixels), width*height*4)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return img, nil
}

// Scale resizes src to the given dimensions using a high-quality
// (non-nearest-neighbor) resampler - useful for blowing a 160x144
// framebuffer up to a host window size without looking blocky.
func Scale(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("screenshot: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Grayscale converts img to 8-bit grayscale, for a host that wants a
// monochrome preview regardless of the palette the core actually
// rendered with. It does not quantize to the DMG's four shades.
func Grayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}
