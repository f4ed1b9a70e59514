package layout

import (
	"github.com/flanksource/banquet/images"
	"github.com/flanksource/banquet/quote"
)

// Column is a table column. Numeric columns centre their value between Left and Right.
type Column struct {
	Title string
	Left  float64
	Right float64
	Align Align
}

// X returns the anchor for text drawn with the column's alignment.
func (c Column) X() float64 {
	switch c.Align {
	case AlignCenter:
		return (c.Left + c.Right) / 2
	case AlignRight:
		return c.Right
	}
	return c.Left
}

// Metrics is the fixed layout contract of the letterhead template. All values are millimetres.
type Metrics struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	// TopMargin is where content resumes on continuation pages.
	TopMargin float64

	HeaderY     float64
	ClientInfoY float64

	// TableBottom bounds table rows; FooterBottom bounds totals, notes and images and keeps clear
	// of the printed footer of the template.
	TableBottom  float64
	FooterBottom float64

	RowLineHeight     float64
	RemarksLineHeight float64
	RowPadding        float64
	DescriptionWords  int
	DescriptionChars  int

	TotalsGap    float64
	TotalsLabelX float64
	TotalsValueX float64

	NotesX          float64
	NotesLineHeight float64
	NotesWords      int
	NotesChars      int

	Columns [6]Column

	GalleryBannerHeight float64
	GalleryTop          float64
	GalleryBottom       float64
	ImageWidth          float64
	FailedImageHeight   float64
}

// ContentRight is the right edge of the printable area.
func (m Metrics) ContentRight() float64 {
	return m.PageWidth - m.Margin
}

func DefaultMetrics() Metrics {
	return Metrics{
		PageWidth:   210,
		PageHeight:  297,
		Margin:      20,
		TopMargin:   40,
		HeaderY:     30,
		ClientInfoY: 70,

		TableBottom:  252,
		FooterBottom: 262,

		RowLineHeight:     5,
		RemarksLineHeight: 4,
		RowPadding:        3,
		DescriptionWords:  4,
		DescriptionChars:  30,

		TotalsGap:    10,
		TotalsLabelX: 120,
		TotalsValueX: 190,

		NotesX:          20,
		NotesLineHeight: 4.5,
		NotesWords:      8,
		NotesChars:      45,

		Columns: [6]Column{
			{Title: "NO", Left: 20, Right: 32, Align: AlignLeft},
			{Title: "DESCRIPTION", Left: 32, Right: 85, Align: AlignLeft},
			{Title: "PAX", Left: 85, Right: 105, Align: AlignCenter},
			{Title: "PRICE", Left: 105, Right: 132, Align: AlignCenter},
			{Title: "GST", Left: 132, Right: 160, Align: AlignCenter},
			{Title: "AMOUNT", Left: 160, Right: 190, Align: AlignCenter},
		},

		GalleryBannerHeight: 40,
		GalleryTop:          20,
		GalleryBottom:       267,
		ImageWidth:          170,
		FailedImageHeight:   100,
	}
}

// Assets are the injected, immutable inputs of the quotation layout.
type Assets struct {
	Template *images.Bitmap
	Brands   quote.BrandCatalog
}

var (
	brandColor   = Hex("#611221")
	bannerColor  = Hex("#601220")
	bodyText     = Hex("#2D2D2D")
	mutedText    = Hex("#666666")
	faintText    = Hex("#999999")
	remarksText  = Hex("#555555")
	ruleColor    = Hex("#DDDDDD")
	tableRuleCol = Hex("#611221")
)
