package bookings

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/google/uuid"
)

// Store persists bookings. store.SQLite implements it.
type Store interface {
	ListBookings(ctx context.Context) ([]Booking, error)
	InsertBooking(ctx context.Context, b Booking) error
	DeleteBooking(ctx context.Context, id string) error
}

// Service applies the admin rules on top of a Store. Every operation first asks Authorize.
type Service struct {
	Store     Store
	Authorize func(ctx context.Context) bool
	Clock     func() time.Time
}

func NewService(store Store, authorize func(ctx context.Context) bool) *Service {
	return &Service{Store: store, Authorize: authorize, Clock: time.Now}
}

type adminKey struct{}

// WithAdminKey attaches the key presented by the caller.
func WithAdminKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, adminKey{}, key)
}

// KeyAuthorizer accepts callers whose context carries expected. An empty expected key
// rejects everyone.
func KeyAuthorizer(expected string) func(ctx context.Context) bool {
	return func(ctx context.Context) bool {
		presented, _ := ctx.Value(adminKey{}).(string)
		if expected == "" || presented == "" {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
	}
}

func (s *Service) authorize(ctx context.Context) error {
	if s.Authorize == nil || !s.Authorize(ctx) {
		return ErrUnauthorized
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// Create validates and stores a booking. It is rejected with a *ConflictError when any covered
// day already holds MaxBookingsPerDay bookings.
func (s *Service) Create(ctx context.Context, b Booking) (Booking, error) {
	if err := s.authorize(ctx); err != nil {
		return Booking{}, err
	}

	b.ClientName = strings.TrimSpace(b.ClientName)
	b.HotelName = strings.TrimSpace(b.HotelName)
	b.Description = strings.TrimSpace(b.Description)
	if err := b.validate(); err != nil {
		return Booking{}, err
	}
	b.StartDate = Day(b.StartDate)
	b.EndDate = b.Last()

	existing, err := s.Store.ListBookings(ctx)
	if err != nil {
		return Booking{}, fmt.Errorf("failed to load bookings: %w", err)
	}
	if conflicts := Conflicts(existing, b.StartDate, b.EndDate); len(conflicts) > 0 {
		return Booking{}, &ConflictError{Dates: conflicts}
	}

	b.ID = uuid.NewString()
	b.CreatedAt = s.now().UTC()
	if err := s.Store.InsertBooking(ctx, b); err != nil {
		return Booking{}, fmt.Errorf("failed to create booking: %w", err)
	}
	logger.Infof("booking %s created for %s at %s (%s)", b.ID, b.ClientName, b.HotelName, b.DisplayDates())
	return b, nil
}

// List returns every booking ordered by start date.
func (s *Service) List(ctx context.Context) ([]Booking, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, err
	}
	bookings, err := s.Store.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].StartDate.Equal(bookings[j].StartDate) {
			return bookings[i].StartDate.Before(bookings[j].StartDate)
		}
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.authorize(ctx); err != nil {
		return err
	}
	if err := s.Store.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	logger.Infof("booking %s deleted", id)
	return nil
}

func (s *Service) Calendar(ctx context.Context) (*Calendar, error) {
	bookings, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewCalendar(bookings), nil
}
