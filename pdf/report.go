package pdf

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/flanksource/banquet/layout"
)

// gridColumns is the width of a maroto row.
const gridColumns = 12

// ReportColumn is a table column of a report. Width is in grid units out of 12.
type ReportColumn struct {
	Title string
	Width int
	Align align.Type
}

// LegendItem explains a row highlight colour.
type LegendItem struct {
	Label string
	Color layout.Color
}

// ReportBuilder lays out flowing tabular reports (booking exports) on A4 with automatic
// page breaks, as opposed to the fixed-position quotation layout.
type ReportBuilder struct {
	maroto core.Maroto
}

func NewReportBuilder(title string, generated time.Time) *ReportBuilder {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		WithBottomMargin(15).
		WithTitle(title, true).
		WithCreationDate(generated).
		Build()

	b := &ReportBuilder{maroto: maroto.New(cfg)}
	b.maroto.RegisterFooter(row.New(8).Add(col.New(gridColumns).Add(
		text.New(fmt.Sprintf("Generated on %s", generated.Format("2/1/2006 15:04")),
			*createTextProps(fontstyle.Italic, 8, align.Right, toProps(layout.Hex("#666666")))),
	)))
	b.AddTitle(title)
	return b
}

func (b *ReportBuilder) AddTitle(title string) {
	b.maroto.AddRows(row.New(14).Add(col.New(gridColumns).Add(
		text.New(title, *createTextProps(fontstyle.Bold, 18, align.Left, toProps(layout.Hex("#611221")))),
	)))
}

func (b *ReportBuilder) AddHeading(heading string) {
	b.maroto.AddRows(row.New(10).Add(col.New(gridColumns).Add(
		text.New(heading, *createTextProps(fontstyle.Bold, 12, align.Left, nil)),
	)))
}

func (b *ReportBuilder) AddText(s string) {
	b.maroto.AddRows(row.New(7).Add(col.New(gridColumns).Add(
		text.New(s, *createTextProps(fontstyle.Normal, 10, align.Left, nil)),
	)))
}

// AddTable adds a header row and one row per record. highlight may return a background colour
// for a record.
func (b *ReportBuilder) AddTable(columns []ReportColumn, records [][]string, highlight func(i int) *layout.Color) error {
	width := 0
	for _, c := range columns {
		width += c.Width
	}
	if width > gridColumns {
		return fmt.Errorf("report columns span %d grid units, maximum is %d", width, gridColumns)
	}

	header := row.New(8).WithStyle(&props.Cell{BackgroundColor: toProps(layout.Hex("#611221"))})
	for _, c := range columns {
		header.Add(col.New(c.Width).Add(text.New(c.Title,
			props.Text{Style: fontstyle.Bold, Size: 9, Align: c.Align, Top: 2, Color: toProps(layout.White)})))
	}
	b.maroto.AddRows(header)

	for i, record := range records {
		if len(record) != len(columns) {
			return fmt.Errorf("row %d has %d cells, expected %d", i+1, len(record), len(columns))
		}
		r := row.New(7)
		if highlight != nil {
			if c := highlight(i); c != nil {
				r.WithStyle(&props.Cell{BackgroundColor: toProps(*c)})
			}
		}
		for j, c := range columns {
			r.Add(col.New(c.Width).Add(text.New(record[j],
				props.Text{Size: 9, Align: c.Align, Top: 1.5})))
		}
		b.maroto.AddRows(r)
	}
	return nil
}

func (b *ReportBuilder) AddLegend(items []LegendItem) {
	if len(items) == 0 {
		return
	}
	b.maroto.AddRows(row.New(6))
	for _, item := range items {
		b.maroto.AddRows(row.New(6).Add(
			col.New(1).WithStyle(&props.Cell{BackgroundColor: toProps(item.Color)}),
			col.New(gridColumns-1).Add(text.New(item.Label, props.Text{Size: 9, Left: 2, Top: 1})),
		))
	}
}

// Output generates the report.
func (b *ReportBuilder) Output() ([]byte, error) {
	document, err := b.maroto.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return document.GetBytes(), nil
}

func createTextProps(style fontstyle.Type, size float64, alignment align.Type, color *props.Color) *props.Text {
	return &props.Text{
		Style: style,
		Size:  size,
		Align: alignment,
		Color: color,
	}
}

func toProps(c layout.Color) *props.Color {
	return &props.Color{Red: int(c.R), Green: int(c.G), Blue: int(c.B)}
}
