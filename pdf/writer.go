// Package pdf serialises laid out documents and reads generated files back for inspection.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/flanksource/banquet/layout"
)

// Metadata is written to the document information dictionary.
type Metadata struct {
	Title   string
	Subject string
	Author  string
	Creator string
	Created time.Time
}

const defaultLineWidth = 0.2

// Write draws every page of doc in order and writes the finished PDF to w. Text is translated
// from UTF-8 to the cp1252 encoding of the core fonts; each distinct bitmap is embedded once.
func Write(w io.Writer, doc *layout.Document, meta Metadata) error {
	f := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: doc.Width, Ht: doc.Height},
	})
	f.SetAutoPageBreak(false, 0)
	f.SetMargins(0, 0, 0)
	f.SetTitle(meta.Title, true)
	f.SetSubject(meta.Subject, true)
	f.SetAuthor(meta.Author, true)
	f.SetCreator(meta.Creator, true)
	if !meta.Created.IsZero() {
		f.SetCreationDate(meta.Created)
	}
	tr := f.UnicodeTranslatorFromDescriptor("")

	names := map[string]string{}
	for i, bitmap := range doc.Bitmaps() {
		name := fmt.Sprintf("img%d", i)
		f.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: bitmap.Format}, bytes.NewReader(bitmap.Data))
		names[bitmap.Key()] = name
	}
	if err := f.Error(); err != nil {
		return fmt.Errorf("failed to register images: %w", err)
	}

	for _, page := range doc.Pages {
		f.AddPage()
		for _, cmd := range page.Commands {
			switch c := cmd.(type) {
			case layout.Text:
				s := tr(c.Text)
				f.SetFont(c.Font.Family, c.Font.Style, c.Font.Size)
				f.SetTextColor(int(c.Color.R), int(c.Color.G), int(c.Color.B))
				x := c.X
				switch c.Align {
				case layout.AlignCenter:
					x -= f.GetStringWidth(s) / 2
				case layout.AlignRight:
					x -= f.GetStringWidth(s)
				}
				f.Text(x, c.Y, s)

			case layout.Rect:
				style := ""
				if c.Fill != nil {
					f.SetFillColor(int(c.Fill.R), int(c.Fill.G), int(c.Fill.B))
					style += "F"
				}
				if c.Stroke != nil {
					f.SetDrawColor(int(c.Stroke.R), int(c.Stroke.G), int(c.Stroke.B))
					f.SetLineWidth(lineWidth(c.LineWidth))
					style += "D"
				}
				if style != "" {
					f.Rect(c.X, c.Y, c.W, c.H, style)
				}

			case layout.Line:
				f.SetDrawColor(int(c.Color.R), int(c.Color.G), int(c.Color.B))
				f.SetLineWidth(lineWidth(c.Width))
				f.Line(c.X1, c.Y1, c.X2, c.Y2)

			case layout.Image:
				if c.Bitmap == nil {
					continue
				}
				f.ImageOptions(names[c.Bitmap.Key()], c.X, c.Y, c.W, c.H, false,
					fpdf.ImageOptions{ImageType: c.Bitmap.Format}, 0, "")
			}
		}
		if err := f.Error(); err != nil {
			return fmt.Errorf("failed to draw page %d: %w", f.PageNo(), err)
		}
	}

	return f.Output(w)
}

// Bytes is Write into memory.
func Bytes(doc *layout.Document, meta Metadata) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, doc, meta); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lineWidth(w float64) float64 {
	if w <= 0 {
		return defaultLineWidth
	}
	return w
}
