package images

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
	rustysvg "github.com/rustyoz/svg"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Template raster size: A4 at 150 dpi.
const (
	TemplateWidthPx  = 1240
	TemplateHeightPx = 1754
)

// Rasterize draws SVG content onto a width x height RGBA surface.
func Rasterize(content []byte, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(content), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// ValidateSVG checks that content is a well formed SVG document.
func ValidateSVG(name string, content []byte) error {
	if _, err := rustysvg.ParseSvg(string(content), name, 1.0); err != nil {
		return fmt.Errorf("invalid SVG %s: %w", name, err)
	}
	return nil
}

// LoadTemplate reads the full-page background drawn under every quotation page. A missing or
// undecodable file is an error so that misconfiguration surfaces at startup.
func LoadTemplate(path string) (*Bitmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return templateFromSVG(path, data)
	case ".png", ".jpg", ".jpeg":
		bitmap, err := FromBytes(path, data)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", path, err)
		}
		return bitmap, nil
	default:
		return nil, fmt.Errorf("unsupported template format %q (expected .png, .jpg or .svg)", filepath.Ext(path))
	}
}

func templateFromSVG(name string, data []byte) (*Bitmap, error) {
	if err := ValidateSVG(filepath.Base(name), data); err != nil {
		return nil, err
	}
	raster, err := Rasterize(data, TemplateWidthPx, TemplateHeightPx)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterise template %s: %w", name, err)
	}
	return FromImage(name, raster)
}

// DefaultTemplateSVG draws the built-in letterhead: a maroon band at the top, a thin gold rule
// under it and a matching footer band. Units are tenths of a millimetre on A4.
func DefaultTemplateSVG() []byte {
	const w, h = 2100, 2970
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(w, h, 0, 0, w, h)
	canvas.Rect(0, 0, w, h, "fill:#ffffff")
	canvas.Rect(0, 0, w, 80, "fill:#611221")
	canvas.Line(0, 95, w, 95, "stroke:#c9a227;stroke-width:6")
	canvas.Line(200, 2800, w-200, 2800, "stroke:#c9a227;stroke-width:3")
	canvas.Rect(0, h-80, w, 80, "fill:#611221")
	canvas.End()
	return buf.Bytes()
}

// DefaultTemplate rasterises DefaultTemplateSVG.
func DefaultTemplate() (*Bitmap, error) {
	return templateFromSVG("default-template.svg", DefaultTemplateSVG())
}
