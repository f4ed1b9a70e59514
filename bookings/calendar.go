package bookings

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Calendar indexes bookings by the days they cover.
type Calendar struct {
	bookings    []Booking
	counts      map[string]int
	destination map[string]bool
}

func NewCalendar(bookings []Booking) *Calendar {
	c := &Calendar{
		bookings:    bookings,
		counts:      map[string]int{},
		destination: map[string]bool{},
	}
	for _, b := range bookings {
		for _, d := range b.Days() {
			key := d.Format(dayLayout)
			c.counts[key]++
			if b.DestinationWedding {
				c.destination[key] = true
			}
		}
	}
	return c
}

// Count is the number of bookings covering day.
func (c *Calendar) Count(day time.Time) int {
	return c.counts[Day(day).Format(dayLayout)]
}

func (c *Calendar) IsBooked(day time.Time) bool {
	return c.Count(day) > 0
}

func (c *Calendar) IsFullyBooked(day time.Time) bool {
	return c.Count(day) >= MaxBookingsPerDay
}

func (c *Calendar) IsDestinationWedding(day time.Time) bool {
	return c.destination[Day(day).Format(dayLayout)]
}

// On returns the bookings covering day.
func (c *Calendar) On(day time.Time) []Booking {
	day = Day(day)
	return lo.Filter(c.bookings, func(b Booking, _ int) bool {
		return !day.Before(Day(b.StartDate)) && !day.After(b.Last())
	})
}

// FullyBooked lists every fully booked day in ascending order.
func (c *Calendar) FullyBooked() []time.Time {
	var days []time.Time
	for key, n := range c.counts {
		if n >= MaxBookingsPerDay {
			d, _ := time.Parse(dayLayout, key)
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Conflicts returns the days in [start, end] that cannot take another booking.
func (c *Calendar) Conflicts(start, end time.Time) []time.Time {
	if end.IsZero() {
		end = start
	}
	return lo.Filter(eachDay(start, end), func(d time.Time, _ int) bool {
		return c.IsFullyBooked(d)
	})
}

// Conflicts is NewCalendar(existing).Conflicts(start, end).
func Conflicts(existing []Booking, start, end time.Time) []time.Time {
	return NewCalendar(existing).Conflicts(start, end)
}
