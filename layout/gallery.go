package layout

import (
	"fmt"
	"time"

	"github.com/flanksource/banquet/format"
	"github.com/flanksource/banquet/images"
)

const captionOffset = 10

// imageFlow stacks full-width images down the page, keeping each image together with its caption.
type imageFlow struct {
	m      Metrics
	top    float64
	bottom float64
	// failuresAsBox draws placeholder bitmaps as an "Unable to load" frame instead of the raster.
	failuresAsBox bool
	newPage       func() *Page
}

func (f imageFlow) place(page *Page, y float64, bitmaps []*images.Bitmap) (*Page, float64) {
	m := f.m
	centre := m.PageWidth / 2
	for i, b := range bitmaps {
		if b == nil || b.AspectRatio() <= 0 || (b.Placeholder && f.failuresAsBox) {
			if y+m.FailedImageHeight > f.bottom && y > f.top {
				page, y = f.newPage(), f.top
			}
			stroke := faintText
			page.Add(
				Rect{X: m.Margin, Y: y, W: m.ImageWidth, H: m.FailedImageHeight, Stroke: &stroke, LineWidth: 0.2},
				Text{X: centre, Y: y + 45, Text: fmt.Sprintf("Image %d", i+1), Font: regular(12), Color: faintText, Align: AlignCenter},
				Text{X: centre, Y: y + 60, Text: "Unable to load", Font: regular(12), Color: faintText, Align: AlignCenter},
			)
			y += m.FailedImageHeight + 15
			continue
		}

		w := m.ImageWidth
		h := w * b.AspectRatio()
		if maxHeight := f.bottom - f.top - captionOffset; h > maxHeight {
			h = maxHeight
			w = h / b.AspectRatio()
		}
		if y+h+captionOffset > f.bottom && y > f.top {
			page, y = f.newPage(), f.top
		}

		page.Add(
			Image{X: m.Margin + (m.ImageWidth-w)/2, Y: y, W: w, H: h, Bitmap: b},
			Text{
				X: centre, Y: y + h + captionOffset,
				Text:  fmt.Sprintf("Image %d of %d", i+1, len(bitmaps)),
				Font:  regular(10),
				Color: mutedText,
				Align: AlignCenter,
			},
		)
		y += h + 15
	}
	return page, y
}

// LayoutGallery builds the image-only document: a coloured banner, the venue title and location,
// every image in order and a dated footer on the last page. It never fails; unresolved images
// become framed "Unable to load" boxes.
func (e *Engine) LayoutGallery(title, subtitle string, bitmaps []*images.Bitmap, generated time.Time) *Document {
	m := e.Metrics
	doc := NewDocument(m.PageWidth, m.PageHeight)
	page := doc.AddPage()

	fill := bannerColor
	page.Add(
		Rect{X: 0, Y: 0, W: m.PageWidth, H: m.GalleryBannerHeight, Fill: &fill},
		Text{X: m.PageWidth / 2, Y: 25, Text: "BANQUET GALLERY", Font: bold(24), Color: White, Align: AlignCenter},
	)

	y := m.GalleryBannerHeight + 10
	page.Add(Text{X: m.Margin, Y: y, Text: title, Font: bold(16), Color: bodyText})
	y += 8
	if subtitle != "" {
		page.Add(Text{X: m.Margin, Y: y, Text: "Location: " + subtitle, Font: regular(12), Color: bodyText})
	}
	y += 15

	flow := imageFlow{
		m:             m,
		top:           m.GalleryTop,
		bottom:        m.GalleryBottom,
		failuresAsBox: true,
		newPage:       doc.AddPage,
	}
	page, _ = flow.place(page, y, bitmaps)

	footerY := m.PageHeight - 30
	page.Add(
		Line{X1: m.Margin, Y1: footerY, X2: m.ContentRight(), Y2: footerY, Color: ruleColor, Width: 0.2},
		Text{
			X: m.PageWidth / 2, Y: m.PageHeight - 15,
			Text:  "• Generated on: " + format.FormatDate(generated),
			Font:  regular(9),
			Color: mutedText,
			Align: AlignCenter,
		},
	)
	return doc
}
