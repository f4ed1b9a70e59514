// Package store persists bookings and archived quotations in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/flanksource/banquet/bookings"
	"github.com/flanksource/banquet/quote"
)

var (
	// ErrNotFound is returned when a booking does not exist. It matches bookings.ErrNotFound.
	ErrNotFound = bookings.ErrNotFound

	ErrQuoteNotFound = errors.New("quotation not found")
	ErrAmbiguousID   = errors.New("quotation id is ambiguous")
)

const dateLayout = "2006-01-02"

// SQLite is a single-file store. It is safe for concurrent use.
type SQLite struct {
	db   *sql.DB
	path string
}

// DefaultPath is ~/.cache/banquet.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "banquet.db"), nil
}

// Open creates the database file and schema when missing.
func Open(path string) (*SQLite, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	s := &SQLite{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		booking_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		client_name TEXT NOT NULL,
		hotel_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		destination_wedding INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_bookings_dates ON bookings(booking_date, end_date);

	CREATE TABLE IF NOT EXISTS quotes (
		id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		client_name TEXT NOT NULL,
		venue_name TEXT NOT NULL,
		brand TEXT NOT NULL,
		grand_total REAL NOT NULL,
		pages INTEGER NOT NULL,
		document TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_quotes_created ON quotes(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLite) ListBookings(ctx context.Context) ([]bookings.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, booking_date, end_date, client_name, hotel_name, description,
		       destination_wedding, created_at
		FROM bookings
		ORDER BY booking_date ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var out []bookings.Booking
	for rows.Next() {
		var b bookings.Booking
		var start, end string
		if err := rows.Scan(&b.ID, &start, &end, &b.ClientName, &b.HotelName, &b.Description,
			&b.DestinationWedding, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if b.StartDate, err = time.Parse(dateLayout, start); err != nil {
			return nil, fmt.Errorf("booking %s: %w", b.ID, err)
		}
		if b.EndDate, err = time.Parse(dateLayout, end); err != nil {
			return nil, fmt.Errorf("booking %s: %w", b.ID, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLite) InsertBooking(ctx context.Context, b bookings.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (id, booking_date, end_date, client_name, hotel_name, description,
		                      destination_wedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.StartDate.Format(dateLayout), b.Last().Format(dateLayout), b.ClientName, b.HotelName,
		b.Description, b.DestinationWedding, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (s *SQLite) DeleteBooking(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// QuoteRecord is an archived quotation: the input document and what was produced from it.
type QuoteRecord struct {
	ID         string              `json:"id"`
	FileName   string              `json:"file_name"`
	GrandTotal float64             `json:"grand_total"`
	Pages      int                 `json:"pages"`
	Document   quote.QuoteDocument `json:"document"`
	CreatedAt  time.Time           `json:"created_at"`
}

// SaveQuote archives a rendered quotation and returns its ID.
func (s *SQLite) SaveQuote(ctx context.Context, r QuoteRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	doc, err := json.Marshal(r.Document)
	if err != nil {
		return "", fmt.Errorf("failed to encode quotation: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quotes (id, file_name, client_name, venue_name, brand, grand_total, pages, document, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.FileName, r.Document.ClientName, r.Document.VenueName, string(r.Document.Brand),
		r.GrandTotal, r.Pages, string(doc), r.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to save quotation: %w", err)
	}
	return r.ID, nil
}

// ListQuotes returns the most recent quotations first. limit <= 0 returns all.
func (s *SQLite) ListQuotes(ctx context.Context, limit int) ([]QuoteRecord, error) {
	query := `SELECT id, file_name, grand_total, pages, document, created_at FROM quotes ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	defer rows.Close()

	var out []QuoteRecord
	for rows.Next() {
		var r QuoteRecord
		var doc string
		if err := rows.Scan(&r.ID, &r.FileName, &r.GrandTotal, &r.Pages, &doc, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quotation: %w", err)
		}
		if err := json.Unmarshal([]byte(doc), &r.Document); err != nil {
			return nil, fmt.Errorf("quotation %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetQuote loads one archived quotation by its full ID or a unique prefix of it, such as the
// short ID printed by listings.
func (s *SQLite) GetQuote(ctx context.Context, id string) (*QuoteRecord, error) {
	if id == "" {
		return nil, ErrQuoteNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, grand_total, pages, document, created_at FROM quotes
		WHERE id = ? OR substr(id, 1, length(?)) = ?
		ORDER BY id = ? DESC LIMIT 2`, id, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	defer rows.Close()

	var matches []QuoteRecord
	for rows.Next() {
		var r QuoteRecord
		var doc string
		if err := rows.Scan(&r.ID, &r.FileName, &r.GrandTotal, &r.Pages, &doc, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quotation: %w", err)
		}
		if err := json.Unmarshal([]byte(doc), &r.Document); err != nil {
			return nil, fmt.Errorf("quotation %s: %w", r.ID, err)
		}
		matches = append(matches, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, id)
	case matches[0].ID == id, len(matches) == 1:
		return &matches[0], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
}
