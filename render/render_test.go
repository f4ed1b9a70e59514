package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flanksource/banquet/images"
	"github.com/flanksource/banquet/layout"
	"github.com/flanksource/banquet/pdf"
	"github.com/flanksource/banquet/quote"
)

var fixedNow = time.Date(2025, 3, 5, 9, 30, 0, 0, time.UTC)

type recordingResolver struct {
	mu   sync.Mutex
	urls []string
	next *images.Resolver
}

func (r *recordingResolver) Resolve(ctx context.Context, url string) *images.Bitmap {
	r.mu.Lock()
	r.urls = append(r.urls, url)
	r.mu.Unlock()
	return r.next.Resolve(ctx, url)
}

func newRenderer(t *testing.T) (*Renderer, *recordingResolver) {
	t.Helper()
	template, err := images.DefaultTemplate()
	require.NoError(t, err)
	resolver := &recordingResolver{next: images.NewResolver(images.Options{Timeout: 2 * time.Second, NoRelay: true})}
	return &Renderer{
		Resolver: resolver,
		Engine:   layout.NewEngine(layout.Assets{Template: template, Brands: quote.DefaultBrands()}),
		Clock:    func() time.Time { return fixedNow },
		Validate: true,
		Creator:  "banquet test",
	}, resolver
}

func photoServer(t *testing.T) *httptest.Server {
	img := image.NewRGBA(image.Rect(0, 0, 80, 60))
	for i := range img.Pix {
		img.Pix[i] = 0xaa
	}
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/photo.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRenderQuotationSinglePlate(t *testing.T) {
	r, _ := newRenderer(t)
	doc := quote.QuoteDocument{
		ClientName: "Aarav Mehta",
		VenueName:  "Grand Hall & Co.",
		Brand:      quote.BrandShaadi,
		Services:   []quote.ServiceLine{{Description: "Banquet per plate", Quantity: 100, UnitPrice: 1200, TaxRatePercent: 18}},
	}

	artifact, err := r.RenderQuotation(context.Background(), doc, nil)
	require.NoError(t, err)

	assert.Equal(t, "grand_hall___co__quotation_1741167000000.pdf", artifact.FileName)
	assert.Equal(t, 1, artifact.Pages)
	require.Len(t, artifact.Placement.Rows, 1)
	assert.Equal(t, quote.Totals{Subtotal: 120000, TotalTax: 21600, GrandTotal: 141600}, *artifact.Totals)

	info, err := pdf.Inspect(artifact.Data)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
	assert.Contains(t, info.Text(), "Banquet per plate")
	assert.Contains(t, info.Text(), "Rs 1,41,600")
}

func TestRenderQuotationWithImages(t *testing.T) {
	srv := photoServer(t)
	r, resolver := newRenderer(t)
	doc := quote.QuoteDocument{
		ClientName: "Riya",
		VenueName:  "Lake View",
		Services:   []quote.ServiceLine{{Description: "Hall rent", Quantity: 1, UnitPrice: 50000}},
	}
	urls := []string{srv.URL + "/photo.png", srv.URL + "/missing.png", "http://nonexistent.invalid/x.png"}

	artifact, err := r.RenderQuotation(context.Background(), doc, urls)
	require.NoError(t, err)
	assert.Equal(t, urls, resolver.urls, "images are resolved in order")
	assert.GreaterOrEqual(t, artifact.Pages, 2)
	assert.NotEmpty(t, artifact.Placement.ImagePages)

	info, err := pdf.Inspect(artifact.Data)
	require.NoError(t, err)
	assert.Equal(t, artifact.Pages, info.Pages)
	assert.Contains(t, info.Text(), "Image 3 of 3")
}

func TestRenderGallery(t *testing.T) {
	srv := photoServer(t)
	r, _ := newRenderer(t)

	artifact, err := r.RenderGallery(context.Background(), "Grand Hall", "Delhi",
		[]string{srv.URL + "/photo.png", srv.URL + "/missing.png"})
	require.NoError(t, err)
	assert.Equal(t, "grand_hall_gallery_1741167000000.pdf", artifact.FileName)
	assert.Nil(t, artifact.Totals)

	info, err := pdf.Inspect(artifact.Data)
	require.NoError(t, err)
	for _, want := range []string{"BANQUET GALLERY", "Location: Delhi", "Image 1 of 2", "Unable to load"} {
		assert.Contains(t, info.Text(), want)
	}
}

func TestRenderFailuresAreGeneric(t *testing.T) {
	r, _ := newRenderer(t)
	r.Engine = layout.NewEngine(layout.Assets{Brands: quote.DefaultBrands()})
	doc := quote.QuoteDocument{ClientName: "a", VenueName: "b", Services: []quote.ServiceLine{{Description: "x", Quantity: 1}}}

	_, err := r.RenderQuotation(context.Background(), doc, nil)
	require.Error(t, err)
	assert.Equal(t, "failed to generate quotation PDF", err.Error())
	assert.ErrorIs(t, err, layout.ErrMissingTemplate)
	var renderErr *Error
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, KindQuotation, renderErr.Kind)

	r.Engine = nil
	_, err = r.RenderGallery(context.Background(), "x", "", nil)
	assert.EqualError(t, err, "failed to generate gallery PDF")
}

func TestRenderValidatesAtBoundary(t *testing.T) {
	r, _ := newRenderer(t)
	doc := quote.QuoteDocument{ClientName: "a", VenueName: "b"}

	_, err := r.RenderQuotation(context.Background(), doc, nil)
	assert.ErrorIs(t, err, quote.ErrInvalidQuote)

	// without validation the empty table is still laid out
	r.Validate = false
	artifact, err := r.RenderQuotation(context.Background(), doc, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, artifact.Pages)
	assert.Empty(t, artifact.Placement.Rows)
}

func TestNegativeGrandTotalIsRendered(t *testing.T) {
	r, _ := newRenderer(t)
	doc := quote.QuoteDocument{
		ClientName:     "a",
		VenueName:      "b",
		DiscountAmount: 500,
		Services:       []quote.ServiceLine{{Description: "Tea", Quantity: 1, UnitPrice: 100}},
	}
	artifact, err := r.RenderQuotation(context.Background(), doc, nil)
	require.NoError(t, err)
	assert.Equal(t, -400.0, artifact.Totals.GrandTotal)

	info, err := pdf.Inspect(artifact.Data)
	require.NoError(t, err)
	assert.Contains(t, info.Text(), "Rs -400")
}

func TestBrandSpellingAcceptedByValidationRenders(t *testing.T) {
	r, _ := newRenderer(t)
	doc := quote.QuoteDocument{
		ClientName: "Aarav Mehta",
		VenueName:  "Grand Hall",
		Brand:      "Nosh",
		Services:   []quote.ServiceLine{{Description: "Tea", Quantity: 1, UnitPrice: 100}},
	}
	artifact, err := r.RenderQuotation(context.Background(), doc, nil)
	require.NoError(t, err)

	info, err := pdf.Inspect(artifact.Data)
	require.NoError(t, err)
	assert.Contains(t, info.Text(), "Nosh N Shots")
}

func TestConcurrentRendersAreIndependent(t *testing.T) {
	r, _ := newRenderer(t)
	doc := quote.QuoteDocument{ClientName: "a", VenueName: "b", Services: []quote.ServiceLine{{Description: "Tea", Quantity: 2, UnitPrice: 10}}}

	var wg sync.WaitGroup
	artifacts := make([]*Artifact, 2)
	for i := range artifacts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := r.RenderQuotation(context.Background(), doc, nil)
			assert.NoError(t, err)
			artifacts[i] = a
		}(i)
	}
	wg.Wait()
	require.NotNil(t, artifacts[0])
	require.NotNil(t, artifacts[1])
	assert.Equal(t, artifacts[0].FileName, artifacts[1].FileName)
	assert.Equal(t, *artifacts[0].Totals, *artifacts[1].Totals)
}

func TestArtifactSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	artifact := &Artifact{FileName: "x_gallery_1.pdf", Data: []byte("%PDF-1.3")}

	path, err := artifact.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x_gallery_1.pdf"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, artifact.Data, data)
}
