package layout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flanksource/banquet/format"
	"github.com/flanksource/banquet/images"
	"github.com/flanksource/banquet/quote"
)

// ErrMissingTemplate is returned when the engine has no background template to draw.
var ErrMissingTemplate = errors.New("quotation template is not loaded")

// State is a phase of the quotation layout. Phases run in declaration order; only page breaks
// happen inside a phase.
type State int

const (
	DrawingHeader State = iota
	DrawingClientInfo
	DrawingTable
	DrawingTotals
	DrawingOverflowNotes
	DrawingImages
	Done
)

func (s State) String() string {
	switch s {
	case DrawingHeader:
		return "DrawingHeader"
	case DrawingClientInfo:
		return "DrawingClientInfo"
	case DrawingTable:
		return "DrawingTable"
	case DrawingTotals:
		return "DrawingTotals"
	case DrawingOverflowNotes:
		return "DrawingOverflowNotes"
	case DrawingImages:
		return "DrawingImages"
	case Done:
		return "Done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// RowPlacement records where a service row landed. Top is the cursor before the row and the
// row occupies [Top, Top+Height) on Page (zero based).
type RowPlacement struct {
	Index  int
	Page   int
	Top    float64
	Height float64
}

// Placement describes the pagination decisions of one layout pass.
type Placement struct {
	Rows          []RowPlacement
	TotalsPage    int
	TotalsTop     float64
	OverflowPages []int
	ImagePages    []int
	States        []State
}

// Engine lays out quotations and galleries with a fixed set of metrics and assets.
type Engine struct {
	Metrics Metrics
	Assets  Assets
}

func NewEngine(assets Assets) *Engine {
	return &Engine{Metrics: DefaultMetrics(), Assets: assets}
}

// QuotationInput is everything one quotation layout pass consumes.
type QuotationInput struct {
	Document quote.QuoteDocument
	Totals   quote.Totals
	Images   []*images.Bitmap
	// Issued is printed when the document carries no issue date.
	Issued time.Time
}

// LayoutQuotation runs the header, client info, table, totals, overflow notes and images phases
// over a fresh document. It fails only on missing assets.
func (e *Engine) LayoutQuotation(in QuotationInput) (*Document, *Placement, error) {
	if e.Assets.Template == nil {
		return nil, nil, ErrMissingTemplate
	}
	brand, ok := e.Assets.Brands.Lookup(in.Document.Brand)
	if !ok {
		return nil, nil, fmt.Errorf("unknown brand %q", in.Document.Brand)
	}

	l := &quotationLayout{
		m:         e.Metrics,
		template:  e.Assets.Template,
		brand:     brand,
		in:        in,
		doc:       NewDocument(e.Metrics.PageWidth, e.Metrics.PageHeight),
		placement: &Placement{},
		sections:  textSections(in.Document, e.Metrics),
	}
	l.run()
	return l.doc, l.placement, nil
}

const (
	notesSection = "Notes"
	termsSection = "Non-Inclusive Terms"
)

type textSection struct {
	title   string
	lines   []string
	next    int
	started bool
}

func textSections(doc quote.QuoteDocument, m Metrics) []*textSection {
	var sections []*textSection
	for _, s := range []struct{ title, text string }{
		{notesSection, doc.Notes},
		{termsSection, doc.NonInclusiveTerms},
	} {
		if lines := format.WrapParagraphs(s.text, m.NotesWords, m.NotesChars); len(lines) > 0 {
			sections = append(sections, &textSection{title: s.title, lines: lines})
		}
	}
	return sections
}

type quotationLayout struct {
	m        Metrics
	template *images.Bitmap
	brand    quote.Brand
	in       QuotationInput

	doc       *Document
	page      *Page
	y         float64
	state     State
	placement *Placement

	rowsOnPage int
	notesFit   bool
	sections   []*textSection
	section    int
}

func (l *quotationLayout) run() {
	for l.state = DrawingHeader; ; {
		l.placement.States = append(l.placement.States, l.state)
		switch l.state {
		case DrawingHeader:
			l.newPage()
			l.drawHeader()
			l.state = DrawingClientInfo
		case DrawingClientInfo:
			l.drawClientInfo()
			l.state = DrawingTable
		case DrawingTable:
			l.drawTable()
			l.state = DrawingTotals
		case DrawingTotals:
			l.drawTotals()
			l.state = DrawingOverflowNotes
			if l.notesFit {
				l.state = DrawingImages
			}
		case DrawingOverflowNotes:
			l.drawOverflowNotes()
			l.state = DrawingImages
		case DrawingImages:
			l.drawImages()
			l.state = Done
		case Done:
			return
		}
		if l.state == DrawingImages && len(l.in.Images) == 0 {
			l.state = Done
		}
	}
}

func (l *quotationLayout) newPage() int {
	l.page = l.doc.AddPage()
	l.page.Add(Image{X: 0, Y: 0, W: l.m.PageWidth, H: l.m.PageHeight, Bitmap: l.template})
	l.rowsOnPage = 0
	return len(l.doc.Pages) - 1
}

func (l *quotationLayout) pageIndex() int {
	return len(l.doc.Pages) - 1
}

func (l *quotationLayout) text(x, y float64, s string, font Font, color Color, align Align) {
	l.page.Add(Text{X: x, Y: y, Text: s, Font: font, Color: color, Align: align})
}

func (l *quotationLayout) drawHeader() {
	m, doc := l.m, l.in.Document
	x, y := m.Margin, m.HeaderY

	l.text(x, y, l.brand.Name, bold(24), brandColor, AlignLeft)
	y += 7
	if l.brand.Tagline != "" {
		l.text(x, y, l.brand.Tagline, regular(10), Black, AlignLeft)
		y += 5
	}
	l.text(x, y, l.brand.Email, regular(10), Black, AlignLeft)
	y += 5
	l.text(x, y, l.brand.Phone, regular(10), Black, AlignLeft)

	right := m.ContentRight()
	issued := doc.IssueDate
	if issued.IsZero() {
		issued = l.in.Issued
	}
	l.text(right, m.HeaderY, doc.DisplayTitle(), bold(14), Black, AlignRight)
	l.text(right, m.HeaderY+8, "Date: "+format.FormatDate(issued), regular(10), Black, AlignRight)
	if doc.InvoiceNumber != "" {
		l.text(right, m.HeaderY+14, "No: "+doc.InvoiceNumber, regular(10), Black, AlignRight)
	}
}

func (l *quotationLayout) drawClientInfo() {
	m, doc := l.m, l.in.Document
	x, y := m.Margin, m.ClientInfoY

	l.text(x, y, "Client Information", bold(12), Black, AlignLeft)
	y += 7
	l.text(x, y, "Client Name: "+doc.ClientName, regular(10), Black, AlignLeft)
	y += 6
	l.text(x, y, "Event Date: "+format.DateRange(doc.StartDate, doc.EndDate), regular(10), Black, AlignLeft)
	y += 6
	venue := doc.VenueName
	if doc.Location != "" {
		venue += ", " + doc.Location
	}
	l.text(x, y, "Venue: "+venue, regular(10), Black, AlignLeft)

	y += 15
	l.text(x, y, "Event Details", bold(12), Black, AlignLeft)
	l.drawTableHeader(y + 10)
}

func (l *quotationLayout) drawTableHeader(y float64) {
	for _, col := range l.m.Columns {
		l.text(col.X(), y, col.Title, bold(10), Black, col.Align)
	}
	l.page.Add(Line{X1: l.m.Margin, Y1: y + 2, X2: l.m.ContentRight(), Y2: y + 2, Color: tableRuleCol, Width: 0.3})
	l.y = y + 8
}

func (l *quotationLayout) rowHeight(descLines, remarksLines int) float64 {
	return float64(max(descLines, 1))*l.m.RowLineHeight +
		float64(remarksLines)*l.m.RemarksLineHeight +
		l.m.RowPadding
}

func (l *quotationLayout) drawTable() {
	m := l.m
	cols := m.Columns
	for i, s := range l.in.Document.Services {
		desc := format.WrapText(s.Description, m.DescriptionWords, m.DescriptionChars)
		var remarks []string
		if strings.TrimSpace(s.Remarks) != "" {
			remarks = format.WrapText("Remarks: "+s.Remarks, m.DescriptionWords, m.DescriptionChars)
		}
		h := l.rowHeight(len(desc), len(remarks))

		// a row taller than a whole page body is placed at the top of a fresh page as is
		if l.y+h > m.TableBottom && !(l.rowsOnPage == 0 && l.pageIndex() > 0) {
			l.newPage()
			l.drawTableHeader(m.TopMargin)
		}

		top := l.y
		l.text(cols[0].X(), top, fmt.Sprintf("%d", i+1), regular(10), Black, cols[0].Align)
		for j, line := range desc {
			l.text(cols[1].X(), top+float64(j)*m.RowLineHeight, line, regular(10), Black, cols[1].Align)
		}
		remarksTop := top + float64(len(desc))*m.RowLineHeight
		for j, line := range remarks {
			l.text(cols[1].X(), remarksTop+float64(j)*m.RemarksLineHeight, line, italic(8), remarksText, cols[1].Align)
		}
		l.text(cols[2].X(), top, format.FormatCount(s.Quantity), regular(10), Black, cols[2].Align)
		l.text(cols[3].X(), top, format.FormatCurrency(s.UnitPrice), regular(10), Black, cols[3].Align)
		l.text(cols[4].X(), top, format.FormatCurrency(s.LineTax()), regular(10), Black, cols[4].Align)
		l.text(cols[5].X(), top, format.FormatCurrency(s.LineBase()), regular(10), Black, cols[5].Align)

		l.placement.Rows = append(l.placement.Rows, RowPlacement{Index: i, Page: l.pageIndex(), Top: top, Height: h})
		l.rowsOnPage++
		l.y += h
	}
}

func (l *quotationLayout) totalsHeight(withTax bool) float64 {
	h := 7.0 + 5 + 8
	if withTax {
		h += 7
	}
	return h
}

func (l *quotationLayout) drawTotals() {
	m := l.m
	services := l.in.Document.Services
	totals := l.in.Totals
	withTax := quote.HasTax(services)

	y := l.y + m.TotalsGap
	if y+l.totalsHeight(withTax) > m.FooterBottom {
		l.newPage()
		y = m.TopMargin
	}
	top := y
	l.placement.TotalsPage = l.pageIndex()
	l.placement.TotalsTop = top

	row := func(label, value string, font Font) {
		l.text(m.TotalsLabelX, y, label, font, Black, AlignLeft)
		l.text(m.TotalsValueX, y, value, font, Black, AlignRight)
	}

	row("Subtotal:", format.FormatAmount(totals.Subtotal), regular(11))
	if withTax {
		y += 7
		row(quote.TaxLabel(services)+":", format.FormatAmount(totals.TotalTax), regular(11))
	}
	y += 7
	discount := "-"
	if totals.Discount > 0 {
		discount = format.FormatAmount(totals.Discount)
	}
	row("Discount:", discount, regular(11))

	y += 5
	l.page.Add(Line{X1: m.TotalsLabelX, Y1: y, X2: m.TotalsValueX, Y2: y, Color: Black, Width: 0.4})
	y += 8
	row("Total Amount:", format.FormatAmount(totals.GrandTotal), bold(12))
	l.y = y

	l.notesFit = l.flowSections(top)
}

// flowSections draws notes then terms from y down to the footer boundary and reports whether
// every line was placed. A header is only drawn when at least one line fits under it.
func (l *quotationLayout) flowSections(y float64) bool {
	m := l.m
	notesOnPage := false
	for ; l.section < len(l.sections); l.section++ {
		s := l.sections[l.section]
		if !l.lineFits(y + m.NotesLineHeight) {
			return false
		}

		title := s.title
		switch {
		case s.title == notesSection && s.started:
			title += " (continued)"
		case s.title == termsSection && (notesOnPage || s.started):
			title += " (continued)"
		}
		l.text(m.NotesX, y, title+":", bold(9), Black, AlignLeft)
		y += m.NotesLineHeight
		s.started = true
		if s.title == notesSection {
			notesOnPage = true
		}

		for ; s.next < len(s.lines); s.next++ {
			if !l.lineFits(y) {
				return false
			}
			l.text(m.NotesX, y, s.lines[s.next], italic(9), bodyText, AlignLeft)
			y += m.NotesLineHeight
		}
		y += m.NotesLineHeight / 2
	}
	return true
}

// lineFits reports whether a notes line with its baseline at y stays above the footer boundary.
// A header is checked against the baseline of the first line under it.
func (l *quotationLayout) lineFits(y float64) bool {
	return y <= l.m.FooterBottom
}

func (l *quotationLayout) drawOverflowNotes() {
	for {
		l.placement.OverflowPages = append(l.placement.OverflowPages, l.newPage())
		if l.flowSections(l.m.TopMargin) {
			return
		}
	}
}

func (l *quotationLayout) drawImages() {
	l.placement.ImagePages = append(l.placement.ImagePages, l.newPage())
	flow := imageFlow{
		m:      l.m,
		top:    l.m.TopMargin,
		bottom: l.m.FooterBottom,
		newPage: func() *Page {
			l.placement.ImagePages = append(l.placement.ImagePages, l.newPage())
			return l.page
		},
	}
	l.page, l.y = flow.place(l.page, l.m.TopMargin, l.in.Images)
}
