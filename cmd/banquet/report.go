package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/samber/lo"

	"github.com/flanksource/banquet/bookings"
	"github.com/flanksource/banquet/format"
	"github.com/flanksource/banquet/layout"
	"github.com/flanksource/banquet/pdf"
)

var (
	destinationRow = layout.Hex("#dbeafe")
	fullyBookedRow = layout.Hex("#fee2e2")
)

// bookingReport lists the bookings overlapping a month, one row per booking, followed by the
// days that are fully booked.
func bookingReport(all []bookings.Booking, year int, month time.Month, generated time.Time) ([]byte, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	inMonth := lo.Filter(all, func(b bookings.Booking, _ int) bool {
		return !bookings.Day(b.StartDate).After(last) && !b.Last().Before(first)
	})
	cal := bookings.NewCalendar(all)

	report := pdf.NewReportBuilder(fmt.Sprintf("Bookings - %s", first.Format("January 2006")), generated)
	report.AddText(fmt.Sprintf("%d bookings, up to %d per day.", len(inMonth), bookings.MaxBookingsPerDay))

	columns := []pdf.ReportColumn{
		{Title: "Dates", Width: 3},
		{Title: "Client", Width: 3},
		{Title: "Hotel / Banquet", Width: 3},
		{Title: "Notes", Width: 3},
	}
	records := lo.Map(inMonth, func(b bookings.Booking, _ int) []string {
		return []string{b.DisplayDates(), b.ClientName, b.HotelName, b.Description}
	})
	highlight := func(i int) *layout.Color {
		b := inMonth[i]
		if lo.SomeBy(b.Days(), cal.IsFullyBooked) {
			return &fullyBookedRow
		}
		if b.DestinationWedding {
			return &destinationRow
		}
		return nil
	}
	if err := report.AddTable(columns, records, highlight); err != nil {
		return nil, err
	}
	report.AddLegend([]pdf.LegendItem{
		{Label: "covers a fully booked day", Color: fullyBookedRow},
		{Label: "destination wedding", Color: destinationRow},
	})

	full := lo.Filter(cal.FullyBooked(), func(d time.Time, _ int) bool {
		return !d.Before(first) && !d.After(last)
	})
	if len(full) > 0 {
		report.AddHeading("Fully booked days")
		rows := lo.Map(full, func(d time.Time, _ int) []string {
			names := lo.Map(cal.On(d), func(b bookings.Booking, _ int) string { return b.ClientName })
			return []string{format.FormatDate(d), strings.Join(names, ", ")}
		})
		columns := []pdf.ReportColumn{{Title: "Date", Width: 4}, {Title: "Bookings", Width: 8, Align: align.Left}}
		if err := report.AddTable(columns, rows, nil); err != nil {
			return nil, err
		}
	}
	return report.Output()
}
