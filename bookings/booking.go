// Package bookings keeps the admin calendar of confirmed marriage bookings and enforces the
// per-day capacity of the venue team.
package bookings

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flanksource/banquet/format"
)

// MaxBookingsPerDay is the number of bookings after which a day is fully booked.
const MaxBookingsPerDay = 2

const dayLayout = "2006-01-02"

var (
	ErrUnauthorized   = errors.New("not authorized to manage bookings")
	ErrInvalidBooking = errors.New("invalid booking")
	ErrNotFound       = errors.New("booking not found")
)

// ConflictError lists the requested days that already hold MaxBookingsPerDay bookings.
type ConflictError struct {
	Dates []time.Time
}

func (e *ConflictError) Error() string {
	dates := make([]string, len(e.Dates))
	for i, d := range e.Dates {
		dates[i] = format.FormatDate(d)
	}
	return "these dates are fully booked: " + strings.Join(dates, ", ")
}

type Booking struct {
	ID                 string    `json:"id" yaml:"id"`
	StartDate          time.Time `json:"booking_date" yaml:"booking_date"`
	EndDate            time.Time `json:"end_date" yaml:"end_date"`
	ClientName         string    `json:"client_name" yaml:"client_name"`
	HotelName          string    `json:"hotel_name" yaml:"hotel_name"`
	Description        string    `json:"description,omitempty" yaml:"description,omitempty"`
	DestinationWedding bool      `json:"destination_wedding" yaml:"destination_wedding"`
	CreatedAt          time.Time `json:"created_at" yaml:"created_at"`
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Last is EndDate, or StartDate for single-day bookings.
func (b Booking) Last() time.Time {
	if b.EndDate.IsZero() || b.EndDate.Before(b.StartDate) {
		return Day(b.StartDate)
	}
	return Day(b.EndDate)
}

// Days lists every date the booking covers, inclusive.
func (b Booking) Days() []time.Time {
	return eachDay(b.StartDate, b.Last())
}

// DisplayDates renders the range, or the single date for one-day bookings.
func (b Booking) DisplayDates() string {
	if Day(b.StartDate).Equal(b.Last()) {
		return format.FormatDate(b.StartDate)
	}
	return format.DateRange(b.StartDate, b.Last())
}

func (b Booking) validate() error {
	var problems []string
	if b.StartDate.IsZero() {
		problems = append(problems, "start date is required")
	}
	if !b.EndDate.IsZero() && Day(b.EndDate).Before(Day(b.StartDate)) {
		problems = append(problems, "end date must not be before start date")
	}
	if b.ClientName == "" {
		problems = append(problems, "client name is required")
	}
	if b.HotelName == "" {
		problems = append(problems, "hotel or banquet name is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidBooking, strings.Join(problems, "; "))
	}
	return nil
}

func eachDay(start, end time.Time) []time.Time {
	var days []time.Time
	for d := Day(start); !d.After(Day(end)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
