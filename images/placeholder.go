package images

import (
	"bytes"
	"image"
	"image/color"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/flanksource/commons/logger"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	PlaceholderWidth  = 400
	PlaceholderHeight = 300
)

var placeholderCaption = []string{"Banquet Image", "Could not load"}

var (
	placeholderOnce   sync.Once
	placeholderBitmap *Bitmap
)

// PlaceholderSVG is the vector source of the placeholder background.
func PlaceholderSVG() []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(PlaceholderWidth, PlaceholderHeight, 0, 0, PlaceholderWidth, PlaceholderHeight)
	canvas.Rect(0, 0, PlaceholderWidth, PlaceholderHeight, "fill:#f0f0f0")
	canvas.Rect(1, 1, PlaceholderWidth-2, PlaceholderHeight-2, "fill:none;stroke:#cccccc;stroke-width:2")
	canvas.End()
	return buf.Bytes()
}

// Placeholder returns the shared synthetic bitmap used when every strategy fails. The returned
// value must not be modified.
func Placeholder() *Bitmap {
	placeholderOnce.Do(func() {
		placeholderBitmap = buildPlaceholder()
	})
	return placeholderBitmap
}

func buildPlaceholder() *Bitmap {
	canvas, err := Rasterize(PlaceholderSVG(), PlaceholderWidth, PlaceholderHeight)
	if err != nil {
		logger.Warnf("placeholder background could not be rasterised: %v", err)
		canvas = image.NewRGBA(image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight))
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.RGBA{0xf0, 0xf0, 0xf0, 0xff}), image.Point{}, draw.Src)
	}
	drawCaption(canvas, placeholderCaption, color.RGBA{0x99, 0x99, 0x99, 0xff})

	bitmap, err := encodeJPEG("placeholder", canvas, 90)
	if err != nil {
		// bytes.Buffer writes never fail
		panic(err)
	}
	bitmap.Placeholder = true
	return bitmap
}

// drawCaption writes centred lines with the 7x13 bitmap face at half resolution, then scales the
// overlay up 2x so the text is legible at placeholder size.
func drawCaption(dst *image.RGBA, lines []string, ink color.Color) {
	face := basicfont.Face7x13
	b := dst.Bounds()
	overlay := image.NewRGBA(image.Rect(0, 0, b.Dx()/2, b.Dy()/2))

	lineHeight := face.Metrics().Height.Ceil() + 4
	top := (overlay.Bounds().Dy()-lineHeight*len(lines))/2 + face.Metrics().Ascent.Ceil()
	for i, line := range lines {
		d := &font.Drawer{Dst: overlay, Src: image.NewUniform(ink), Face: face}
		width := d.MeasureString(line).Ceil()
		d.Dot = fixed.P((overlay.Bounds().Dx()-width)/2, top+i*lineHeight)
		d.DrawString(line)
	}

	draw.ApproxBiLinear.Scale(dst, b, overlay, overlay.Bounds(), draw.Over, nil)
}
