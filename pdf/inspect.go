package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info summarises a generated file.
type Info struct {
	Pages     int      `json:"pages"`
	Size      int      `json:"size"`
	Title     string   `json:"title,omitempty"`
	PageTexts []string `json:"-"`
}

// Text joins the text of every page.
func (i Info) Text() string {
	return strings.Join(i.PageTexts, "\n")
}

// Inspect validates data with pdfcpu and extracts per-page plain text.
func Inspect(data []byte) (*Info, error) {
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		return nil, fmt.Errorf("not a PDF (missing %%PDF header)")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	info := &Info{Pages: ctx.PageCount, Size: len(data), Title: ctx.Title}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for text extraction: %w", err)
	}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			info.PageTexts = append(info.PageTexts, "")
			continue
		}
		s, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		info.PageTexts = append(info.PageTexts, s)
	}
	return info, nil
}

// InspectReader reads r fully and calls Inspect.
func InspectReader(r io.Reader) (*Info, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Inspect(data)
}
