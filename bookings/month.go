package bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Status is how a day is highlighted on the calendar.
type Status int

const (
	Free Status = iota
	Booked
	DestinationWedding
	FullyBooked
)

func (s Status) String() string {
	switch s {
	case Booked:
		return "1 booking (1 slot available)"
	case DestinationWedding:
		return "destination wedding"
	case FullyBooked:
		return fmt.Sprintf("%d bookings (fully booked)", MaxBookingsPerDay)
	}
	return "available"
}

// Status ranks fully booked above destination weddings above partially booked days.
func (c *Calendar) Status(day time.Time) Status {
	switch {
	case c.IsFullyBooked(day):
		return FullyBooked
	case c.IsDestinationWedding(day):
		return DestinationWedding
	case c.IsBooked(day):
		return Booked
	}
	return Free
}

var statusColors = map[Status]lipgloss.Color{
	Booked:             lipgloss.Color("#f59e0b"),
	DestinationWedding: lipgloss.Color("#2563eb"),
	FullyBooked:        lipgloss.Color("#dc2626"),
}

// RenderMonth draws a Monday-first month grid with booked days highlighted, followed by a legend.
func RenderMonth(c *Calendar, year int, month time.Month, r *lipgloss.Renderer) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	cell := r.NewStyle().Width(4).Align(lipgloss.Right)
	title := r.NewStyle().Bold(true).Width(28).Align(lipgloss.Center).Foreground(lipgloss.Color("#611221"))
	styles := map[Status]lipgloss.Style{}
	for status, color := range statusColors {
		styles[status] = cell.Background(color).Foreground(lipgloss.Color("#ffffff")).Bold(true)
	}

	var b strings.Builder
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	b.WriteString(title.Render(first.Format("January 2006")))
	b.WriteString("\n")
	for _, name := range []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"} {
		b.WriteString(cell.Faint(true).Render(name))
	}
	b.WriteString("\n")

	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat(cell.Render(""), offset))
	col := offset
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		style, ok := styles[c.Status(d)]
		if !ok {
			style = cell
		}
		b.WriteString(style.Render(fmt.Sprintf("%d", d.Day())))
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, status := range []Status{Booked, FullyBooked, DestinationWedding} {
		b.WriteString(styles[status].Render(" "))
		b.WriteString(" " + status.String() + "\n")
	}
	return b.String()
}
