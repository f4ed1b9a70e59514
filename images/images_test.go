package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 0x80, 0xff})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func encodeJPEGBytes(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func imageServer(t *testing.T) *httptest.Server {
	pngData := encodePNG(t, 40, 30)
	jpegData := encodeJPEGBytes(t, 64, 48)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hall.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngData)
		case "/hall.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write(jpegData)
		case "/garbage.png":
			_, _ = w.Write([]byte("<html>not an image</html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFromBytes(t *testing.T) {
	jpegData := encodeJPEGBytes(t, 64, 48)
	bitmap, err := FromBytes("a.jpg", jpegData)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", bitmap.Format)
	assert.Equal(t, jpegData, bitmap.Data, "jpeg payloads are embedded as fetched")
	assert.InDelta(t, 0.75, bitmap.AspectRatio(), 1e-9)

	bitmap, err = FromBytes("a.png", encodePNG(t, 40, 30))
	require.NoError(t, err)
	assert.Equal(t, "png", bitmap.Format)
	cfg, err := png.DecodeConfig(bytes.NewReader(bitmap.Data))
	require.NoError(t, err)
	assert.Equal(t, color.RGBAModel, cfg.ColorModel)
	assert.Equal(t, 40, cfg.Width)

	_, err = FromBytes("x", []byte("nope"))
	assert.Error(t, err)
	_, err = FromBytes("x", nil)
	assert.Error(t, err)
}

func TestHTTPFetcher(t *testing.T) {
	srv := imageServer(t)
	f := NewHTTPFetcher(5 * time.Second)

	bitmap, err := f.Fetch(context.Background(), srv.URL+"/hall.png")
	require.NoError(t, err)
	assert.Equal(t, 40, bitmap.Width)
	assert.Equal(t, 30, bitmap.Height)
	assert.Equal(t, srv.URL+"/hall.png", bitmap.Source)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.png")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "direct", fetchErr.Strategy)
	assert.Contains(t, err.Error(), "404")

	_, err = f.Fetch(context.Background(), srv.URL+"/garbage.png")
	assert.ErrorContains(t, err, "decode")

	f.MaxBytes = 10
	_, err = f.Fetch(context.Background(), srv.URL+"/hall.png")
	assert.ErrorContains(t, err, "larger than 10 bytes")
}

func TestHTTPFetcherHonoursContext(t *testing.T) {
	srv := imageServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHTTPFetcher(time.Second).Fetch(ctx, srv.URL+"/hall.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRelayFetcherPrefixesURL(t *testing.T) {
	origin := imageServer(t)
	var requested string
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = strings.TrimPrefix(r.URL.Path, "/")
		resp, err := http.Get(requested)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}))
	t.Cleanup(relay.Close)

	f := &RelayFetcher{HTTP: NewHTTPFetcher(time.Second), Prefix: relay.URL + "/"}
	bitmap, err := f.Fetch(context.Background(), origin.URL+"/hall.png")
	require.NoError(t, err)
	assert.Equal(t, origin.URL+"/hall.png", requested)
	assert.Equal(t, origin.URL+"/hall.png", bitmap.Source)

	_, err = f.Fetch(context.Background(), origin.URL+"/missing.png")
	assert.ErrorContains(t, err, "relay strategy")
}

type stubFetcher struct {
	name   string
	bitmap *Bitmap
	calls  int
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(context.Context, string) (*Bitmap, error) {
	s.calls++
	if s.bitmap == nil {
		return nil, errors.New("unavailable")
	}
	return s.bitmap, nil
}

func TestResolverFirstSuccessWins(t *testing.T) {
	first := &stubFetcher{name: "first"}
	second := &stubFetcher{name: "second", bitmap: &Bitmap{Width: 1, Height: 1, Data: []byte{1}}}
	third := &stubFetcher{name: "third", bitmap: &Bitmap{Width: 2, Height: 2, Data: []byte{2}}}

	got := (&Resolver{Strategies: []Fetcher{first, second, third}}).Resolve(context.Background(), "u")
	assert.Same(t, second.bitmap, got)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, third.calls)
}

func TestResolverFallsBackToPlaceholder(t *testing.T) {
	r := NewResolver(Options{Timeout: 2 * time.Second, NoRelay: true})

	bitmap := r.Resolve(context.Background(), "http://nonexistent.invalid/x.png")
	require.NotNil(t, bitmap)
	assert.True(t, bitmap.Placeholder)
	assert.Equal(t, "http://nonexistent.invalid/x.png", bitmap.Source)
	assert.Equal(t, PlaceholderWidth, bitmap.Width)
	assert.Equal(t, PlaceholderHeight, bitmap.Height)
	assert.False(t, Placeholder().Source == bitmap.Source, "shared placeholder is not mutated")

	var nilResolver *Resolver
	assert.True(t, nilResolver.Resolve(context.Background(), "").Placeholder)
}

func TestResolveAllKeepsOrder(t *testing.T) {
	srv := imageServer(t)
	r := NewResolver(Options{Timeout: 2 * time.Second, NoRelay: true})

	urls := []string{srv.URL + "/hall.jpg", srv.URL + "/missing.png", srv.URL + "/hall.png"}
	bitmaps := r.ResolveAll(context.Background(), urls)
	require.Len(t, bitmaps, 3)
	assert.Equal(t, "jpeg", bitmaps[0].Format)
	assert.True(t, bitmaps[1].Placeholder)
	assert.Equal(t, "png", bitmaps[2].Format)
	for i, b := range bitmaps {
		assert.Equal(t, urls[i], b.Source)
	}
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder()
	assert.Same(t, p, Placeholder())

	img, err := jpeg.Decode(bytes.NewReader(p.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 300), img.Bounds())

	// x=1 is fully covered by the #cccccc border, x=20 sits on the #f0f0f0 fill
	r, _, _, _ := img.At(1, 150).RGBA()
	assert.InDelta(t, 0xcc, r>>8, 12)
	r, _, _, _ = img.At(20, 150).RGBA()
	assert.InDelta(t, 0xf0, r>>8, 12)

	var dark int
	for y := 120; y < 180; y++ {
		for x := 100; x < 300; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r>>8 < 0xd0 {
				dark++
			}
		}
	}
	assert.Positive(t, dark, "caption is drawn")
}

func TestLoadTemplate(t *testing.T) {
	dir := t.TempDir()

	svgPath := filepath.Join(dir, "letterhead.svg")
	require.NoError(t, os.WriteFile(svgPath, DefaultTemplateSVG(), 0o644))
	bitmap, err := LoadTemplate(svgPath)
	require.NoError(t, err)
	assert.Equal(t, TemplateWidthPx, bitmap.Width)
	assert.Equal(t, TemplateHeightPx, bitmap.Height)

	pngPath := filepath.Join(dir, "letterhead.png")
	require.NoError(t, os.WriteFile(pngPath, encodePNG(t, 21, 29), 0o644))
	bitmap, err = LoadTemplate(pngPath)
	require.NoError(t, err)
	assert.Equal(t, 21, bitmap.Width)

	_, err = LoadTemplate(filepath.Join(dir, "missing.png"))
	assert.ErrorContains(t, err, "failed to read template")

	bmpPath := filepath.Join(dir, "letterhead.bmp")
	require.NoError(t, os.WriteFile(bmpPath, []byte("x"), 0o644))
	_, err = LoadTemplate(bmpPath)
	assert.ErrorContains(t, err, "unsupported template format")
}

func TestDefaultTemplate(t *testing.T) {
	bitmap, err := DefaultTemplate()
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(bitmap.Data))
	require.NoError(t, err)

	// maroon band at the top, white body
	r, g, b, _ := img.At(TemplateWidthPx/2, 10).RGBA()
	assert.InDelta(t, 0x61, r>>8, 2)
	assert.InDelta(t, 0x12, g>>8, 2)
	assert.InDelta(t, 0x21, b>>8, 2)
	r, g, b, _ = img.At(TemplateWidthPx/2, TemplateHeightPx/2).RGBA()
	assert.Equal(t, []uint32{0xff, 0xff, 0xff}, []uint32{r >> 8, g >> 8, b >> 8})
}
