// Package render turns quotations and image lists into downloadable PDF artifacts.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/flanksource/commons/logger"

	"github.com/flanksource/banquet/format"
	"github.com/flanksource/banquet/images"
	"github.com/flanksource/banquet/layout"
	"github.com/flanksource/banquet/pdf"
	"github.com/flanksource/banquet/quote"
)

const (
	KindQuotation = "quotation"
	KindGallery   = "gallery"
)

// Error is the single failure reported by a render pass. The message never carries more than
// the document kind; the cause stays reachable through errors.Unwrap.
type Error struct {
	Kind string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to generate %s PDF", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ImageResolver turns a URL into a bitmap and never fails.
type ImageResolver interface {
	Resolve(ctx context.Context, url string) *images.Bitmap
}

// Renderer owns the collaborators of a render pass. It holds no per-render state, so concurrent
// calls are independent and each produces its own artifact.
type Renderer struct {
	Resolver ImageResolver
	Engine   *layout.Engine
	Clock    func() time.Time
	// Validate rejects malformed quotations before layout.
	Validate bool
	Creator  string
}

// Artifact is a finished document and the name it should be saved under.
type Artifact struct {
	Kind      string
	FileName  string
	Data      []byte
	Pages     int
	Totals    *quote.Totals
	Placement *layout.Placement
}

// Save writes the artifact into dir, creating it if needed, and returns the file path.
func (a *Artifact) Save(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, a.FileName)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (r *Renderer) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}

// resolve fetches images one at a time, in order.
func (r *Renderer) resolve(ctx context.Context, urls []string) []*images.Bitmap {
	bitmaps := make([]*images.Bitmap, 0, len(urls))
	for i, url := range urls {
		logger.Debugf("resolving image %d/%d: %s", i+1, len(urls), url)
		var bitmap *images.Bitmap
		if r.Resolver != nil {
			bitmap = r.Resolver.Resolve(ctx, url)
		}
		if bitmap == nil {
			placeholder := *images.Placeholder()
			placeholder.Source = url
			bitmap = &placeholder
		}
		bitmaps = append(bitmaps, bitmap)
	}
	return bitmaps
}

// RenderQuotation lays out the itemised quotation followed by any images.
func (r *Renderer) RenderQuotation(ctx context.Context, doc quote.QuoteDocument, imageURLs []string) (*Artifact, error) {
	fail := func(err error) (*Artifact, error) {
		return nil, &Error{Kind: KindQuotation, Err: err}
	}
	if r.Engine == nil {
		return fail(fmt.Errorf("layout engine is not configured"))
	}
	if r.Validate {
		if err := quote.Validate(doc); err != nil {
			return fail(err)
		}
	}

	doc = doc.Clone()
	totals := doc.Totals()
	bitmaps := r.resolve(ctx, imageURLs)
	now := r.now()

	out, placement, err := r.Engine.LayoutQuotation(layout.QuotationInput{
		Document: doc,
		Totals:   totals,
		Images:   bitmaps,
		Issued:   now,
	})
	if err != nil {
		return fail(err)
	}

	data, err := pdf.Bytes(out, pdf.Metadata{
		Title:   fmt.Sprintf("%s - %s", doc.DisplayTitle(), doc.VenueName),
		Subject: doc.ClientName,
		Creator: r.Creator,
		Created: now,
	})
	if err != nil {
		return fail(err)
	}

	artifact := &Artifact{
		Kind:      KindQuotation,
		FileName:  format.FileName(doc.VenueName, KindQuotation, now),
		Data:      data,
		Pages:     len(out.Pages),
		Totals:    &totals,
		Placement: placement,
	}
	logger.Infof("rendered %s: %d pages, %d rows, grand total %s",
		artifact.FileName, artifact.Pages, len(doc.Services), format.FormatAmount(totals.GrandTotal))
	return artifact, nil
}

// RenderGallery lays out the image-only gallery document.
func (r *Renderer) RenderGallery(ctx context.Context, title, subtitle string, imageURLs []string) (*Artifact, error) {
	fail := func(err error) (*Artifact, error) {
		return nil, &Error{Kind: KindGallery, Err: err}
	}
	if r.Engine == nil {
		return fail(fmt.Errorf("layout engine is not configured"))
	}

	bitmaps := r.resolve(ctx, imageURLs)
	now := r.now()
	out := r.Engine.LayoutGallery(title, subtitle, bitmaps, now)

	data, err := pdf.Bytes(out, pdf.Metadata{
		Title:   fmt.Sprintf("%s gallery", title),
		Subject: subtitle,
		Creator: r.Creator,
		Created: now,
	})
	if err != nil {
		return fail(err)
	}

	artifact := &Artifact{
		Kind:     KindGallery,
		FileName: format.FileName(title, KindGallery, now),
		Data:     data,
		Pages:    len(out.Pages),
	}
	failed := 0
	for _, b := range bitmaps {
		if b.Placeholder {
			failed++
		}
	}
	logger.Infof("rendered %s: %d pages, %d/%d images loaded", artifact.FileName, artifact.Pages, len(bitmaps)-failed, len(bitmaps))
	return artifact, nil
}
