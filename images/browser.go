package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// BrowserFetcher loads the image in a headless Chromium page with an isolated, credential-free
// context and re-encodes the response through an RGBA surface as JPEG.
// The browser is started on first use and kept until Close.
type BrowserFetcher struct {
	// Install downloads the Chromium build on first use when it is missing.
	Install bool
	Timeout float64

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewBrowserFetcher() *BrowserFetcher {
	return &BrowserFetcher{Install: true, Timeout: 15000}
}

func (f *BrowserFetcher) Name() string {
	return "browser"
}

func (f *BrowserFetcher) start() (playwright.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return f.browser, nil
	}
	if f.Install {
		if err := playwright.Install(&playwright.RunOptions{
			Browsers: []string{"chromium"},
			Verbose:  false,
		}); err != nil {
			return nil, newFetchError(f.Name(), "install browsers", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, newFetchError(f.Name(), "start playwright", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, newFetchError(f.Name(), "launch browser", err)
	}
	f.pw, f.browser = pw, browser
	return browser, nil
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, newFetchError(f.Name(), "fetch", err)
	}
	browser, err := f.start()
	if err != nil {
		return nil, err
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(false),
	})
	if err != nil {
		return nil, newFetchError(f.Name(), "create context", err)
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, newFetchError(f.Name(), "create page", err)
	}
	defer page.Close()

	resp, err := page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(f.Timeout),
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return nil, newFetchError(f.Name(), "navigate", err)
	}
	if resp == nil || !resp.Ok() {
		return nil, newFetchError(f.Name(), "navigate", fmt.Errorf("no successful response for %s", url))
	}
	body, err := resp.Body()
	if err != nil {
		return nil, newFetchError(f.Name(), "read body", err)
	}

	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, newFetchError(f.Name(), "decode", err)
	}
	bitmap, err := encodeJPEG(url, img, 80)
	if err != nil {
		return nil, newFetchError(f.Name(), "encode", err)
	}
	return bitmap, nil
}

// Close stops the browser and the playwright driver if they were started.
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	if f.browser != nil {
		errs = append(errs, f.browser.Close())
		f.browser = nil
	}
	if f.pw != nil {
		errs = append(errs, f.pw.Stop())
		f.pw = nil
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeJPEG(source string, img image.Image, quality int) (*Bitmap, error) {
	bounds := img.Bounds()
	surface := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(surface, surface.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(surface, surface.Bounds(), img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, surface, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return &Bitmap{
		Source: source,
		Format: "jpeg",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Data:   buf.Bytes(),
	}, nil
}
