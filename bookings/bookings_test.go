package bookings

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu       sync.Mutex
	bookings []Booking
}

func (m *memStore) ListBookings(context.Context) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Booking(nil), m.bookings...), nil
}

func (m *memStore) InsertBooking(_ context.Context, b Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append(m.bookings, b)
	return nil
}

func (m *memStore) DeleteBooking(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookings {
		if b.ID == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func date(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func adminService() (*Service, context.Context) {
	svc := NewService(&memStore{}, KeyAuthorizer("s3cret"))
	svc.Clock = func() time.Time { return date(1) }
	return svc, WithAdminKey(context.Background(), "s3cret")
}

func TestBookingDays(t *testing.T) {
	b := Booking{StartDate: date(5), EndDate: date(7)}
	assert.Equal(t, []time.Time{date(5), date(6), date(7)}, b.Days())
	assert.Equal(t, "5/3/2025 - 7/3/2025", b.DisplayDates())

	single := Booking{StartDate: date(5).Add(15 * time.Hour)}
	assert.Equal(t, []time.Time{date(5)}, single.Days())
	assert.Equal(t, "5/3/2025", single.DisplayDates())
}

func TestCalendar(t *testing.T) {
	cal := NewCalendar([]Booking{
		{StartDate: date(5), EndDate: date(6)},
		{StartDate: date(6), EndDate: date(8), DestinationWedding: true},
		{StartDate: date(10)},
	})

	assert.Equal(t, 1, cal.Count(date(5)))
	assert.Equal(t, 2, cal.Count(date(6)))
	assert.True(t, cal.IsFullyBooked(date(6)))
	assert.False(t, cal.IsFullyBooked(date(7)))
	assert.True(t, cal.IsDestinationWedding(date(7)))
	assert.False(t, cal.IsBooked(date(9)))
	assert.Len(t, cal.On(date(6)), 2)

	assert.Equal(t, []time.Time{date(6)}, cal.FullyBooked())
	assert.Equal(t, []time.Time{date(6)}, cal.Conflicts(date(1), date(31)))
	assert.Empty(t, cal.Conflicts(date(7), time.Time{}))

	assert.Equal(t, Booked, cal.Status(date(5)))
	assert.Equal(t, FullyBooked, cal.Status(date(6)))
	assert.Equal(t, DestinationWedding, cal.Status(date(8)))
	assert.Equal(t, Free, cal.Status(date(20)))
}

func TestServiceCreate(t *testing.T) {
	svc, ctx := adminService()

	b, err := svc.Create(ctx, Booking{
		StartDate:  date(5).Add(10 * time.Hour),
		ClientName: "  Aarav Mehta ",
		HotelName:  "Grand Hall",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Aarav Mehta", b.ClientName)
	assert.Equal(t, date(5), b.StartDate)
	assert.Equal(t, date(5), b.EndDate)
	assert.Equal(t, date(1), b.CreatedAt)

	_, err = svc.Create(ctx, Booking{StartDate: date(4), EndDate: date(6), ClientName: "Riya", HotelName: "Lake View"})
	require.NoError(t, err)

	// the 5th now holds two bookings
	_, err = svc.Create(ctx, Booking{StartDate: date(3), EndDate: date(5), ClientName: "Kabir", HotelName: "Palace"})
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []time.Time{date(5)}, conflict.Dates)
	assert.Equal(t, "these dates are fully booked: 5/3/2025", err.Error())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Riya", list[0].ClientName, "ordered by start date")
}

func TestServiceValidation(t *testing.T) {
	svc, ctx := adminService()

	_, err := svc.Create(ctx, Booking{StartDate: date(5), EndDate: date(4), ClientName: " ", HotelName: "x"})
	assert.ErrorIs(t, err, ErrInvalidBooking)
	assert.Contains(t, err.Error(), "end date must not be before start date")
	assert.Contains(t, err.Error(), "client name is required")

	_, err = svc.Create(ctx, Booking{ClientName: "a", HotelName: "b"})
	assert.ErrorContains(t, err, "start date is required")
}

func TestServiceAuthorization(t *testing.T) {
	svc, ctx := adminService()
	b, err := svc.Create(ctx, Booking{StartDate: date(5), ClientName: "a", HotelName: "b"})
	require.NoError(t, err)

	for _, anon := range []context.Context{
		context.Background(),
		WithAdminKey(context.Background(), "wrong"),
	} {
		_, err := svc.List(anon)
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, err = svc.Create(anon, Booking{StartDate: date(9), ClientName: "a", HotelName: "b"})
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.ErrorIs(t, svc.Delete(anon, b.ID), ErrUnauthorized)
		_, err = svc.Calendar(anon)
		assert.ErrorIs(t, err, ErrUnauthorized)
	}

	assert.False(t, KeyAuthorizer("")(WithAdminKey(context.Background(), "")))

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), ErrNotFound)
}

func TestRenderMonth(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	cal := NewCalendar([]Booking{
		{StartDate: date(5), EndDate: date(6)},
		{StartDate: date(6)},
	})

	out := RenderMonth(cal, 2025, time.March, r)
	assert.Contains(t, out, "March 2025")
	assert.Contains(t, out, "Mo  Tu  We  Th  Fr  Sa  Su")
	assert.Contains(t, out, "2 bookings (fully booked)")

	lines := strings.Split(out, "\n")
	// 1 March 2025 is a Saturday
	assert.Equal(t, strings.Repeat(" ", 20)+"   1   2", lines[2])
	assert.True(t, strings.HasSuffix(lines[7], "  31"))
}
