// Package images resolves the pictures embedded in quotations and galleries and prepares the
// page template raster.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/webp"
)

// Bitmap is a decoded, embeddable raster. JPEG payloads are kept as fetched; anything else is
// flattened onto white and stored as 8-bit PNG.
type Bitmap struct {
	Source      string `json:"source"`
	Format      string `json:"format"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Data        []byte `json:"-"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// AspectRatio is height / width, or 0 for an empty bitmap.
func (b *Bitmap) AspectRatio() float64 {
	if b == nil || b.Width == 0 {
		return 0
	}
	return float64(b.Height) / float64(b.Width)
}

// Key identifies the encoded payload. Copies sharing one payload share a key, so the PDF
// writer registers it once.
func (b *Bitmap) Key() string {
	if len(b.Data) == 0 {
		return ""
	}
	return fmt.Sprintf("%p", &b.Data[0])
}

// FromBytes sniffs and normalises an encoded image.
func FromBytes(source string, data []byte) (*Bitmap, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unrecognised image data: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("image has no pixels (%dx%d)", cfg.Width, cfg.Height)
	}
	if format == "jpeg" {
		return &Bitmap{Source: source, Format: "jpeg", Width: cfg.Width, Height: cfg.Height, Data: data}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}
	return FromImage(source, img)
}

// FromImage encodes img as an opaque 8-bit PNG.
func FromImage(source string, img image.Image) (*Bitmap, error) {
	bounds := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, flat); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return &Bitmap{
		Source: source,
		Format: "png",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Data:   buf.Bytes(),
	}, nil
}
