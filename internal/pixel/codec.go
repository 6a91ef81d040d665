// internal/pixel/codec.go
package pixel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
)

var endMarker = color.NRGBA{R: 0, G: 0, B: 0, A: 0xFF}

// Encode packs id into a 1-pixel-high strip, three bytes per pixel,
// left to right. Bytes missing from the last data pixel are zero and
// every pixel after the data is the (0,0,0) end marker.
// Bytes beyond the strip capacity are dropped.
// No IO. No side effects.
func Encode(id string, width int) *image.NRGBA {
	if width <= 0 {
		width = DefaultWidth
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, Height))

	data := []byte(id)
	i := 0
	for x := 0; x < width; x++ {
		if i >= len(data) {
			img.SetNRGBA(x, 0, endMarker)
			continue
		}
		px := color.NRGBA{R: data[i], A: 0xFF}
		if i+1 < len(data) {
			px.G = data[i+1]
		}
		if i+2 < len(data) {
			px.B = data[i+2]
		}
		img.SetNRGBA(x, 0, px)
		i += BytesPerPixel
	}
	return img
}

// EncodePNG returns the PNG bytes of Encode(id, width).
func EncodePNG(id string, width int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Encode(id, width)); err != nil {
		return nil, fmt.Errorf("pixel: png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads an identifier back from the first row of img, looking at
// no more than width pixels. Scanning stops at the first (0,0,0) pixel.
// The red byte is always taken; green and blue only when nonzero, so a
// zero byte inside the payload is lost. An empty result means "no value".
func Decode(img image.Image, width int) string {
	if img == nil {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}
	b := img.Bounds()
	if b.Dy() < 1 {
		return ""
	}

	n := b.Dx()
	if n > width {
		n = width
	}

	out := make([]byte, 0, n*BytesPerPixel)
	for x := b.Min.X; x < b.Min.X+n; x++ {
		c := color.NRGBAModel.Convert(img.At(x, b.Min.Y)).(color.NRGBA)
		if c.R == 0 && c.G == 0 && c.B == 0 {
			break
		}
		out = append(out, c.R)
		if c.G != 0 {
			out = append(out, c.G)
		}
		if c.B != 0 {
			out = append(out, c.B)
		}
	}
	return string(out)
}

// DecodePNG decodes a PNG stream and extracts the identifier.
// A stream that is not a PNG is an error; callers treat it as a
// missing value.
func DecodePNG(r io.Reader, width int) (string, error) {
	img, err := png.Decode(r)
	if err != nil {
		return "", fmt.Errorf("pixel: png decode: %w", err)
	}
	return Decode(img, width), nil
}
