package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flanksource/banquet/bookings"
	"github.com/flanksource/banquet/format"
	"github.com/flanksource/banquet/quote"
)

var adminKeyFlag string

func newBookingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"booking"},
		Short:   "Manage the marriage booking calendar",
		Long: `Manage confirmed bookings. A day holding ` + fmt.Sprint(bookings.MaxBookingsPerDay) + ` bookings is fully booked and
rejects new bookings covering it.

Every subcommand requires the admin key, taken from --admin-key or from the
admin_key config setting / $BANQUET_ADMIN_KEY.`,
	}
	cmd.PersistentFlags().StringVar(&adminKeyFlag, "admin-key", "", "Admin key presented for this command")

	cmd.AddCommand(newBookingsAddCommand())
	cmd.AddCommand(newBookingsListCommand())
	cmd.AddCommand(newBookingsDeleteCommand())
	cmd.AddCommand(newBookingsCalendarCommand())
	cmd.AddCommand(newBookingsReportCommand())
	return cmd
}

// bookingService opens the store and returns a context carrying the presented admin key.
func bookingService(ctx context.Context) (*bookings.Service, context.Context, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, ctx, err
	}
	db, err := openStore(cfg)
	if err != nil {
		return nil, ctx, err
	}
	presented := adminKeyFlag
	if presented == "" {
		presented = cfg.AdminKey
	}
	return bookings.NewService(db, bookings.KeyAuthorizer(cfg.AdminKey)), bookings.WithAdminKey(ctx, presented), nil
}

func newBookingsAddCommand() *cobra.Command {
	var (
		b          bookings.Booking
		start, end string
	)

	cmd := &cobra.Command{
		Use:   "add --client <name> --hotel <name> --start <date> [--end <date>]",
		Short: "Record a booking",
		Example: `  banquet bookings add --client "Priya & Arjun" --hotel "Grand Hall" --start 2025-03-05 --end 2025-03-07
  banquet bookings add --client Meera --hotel "Lake Palace" --start 14/02/2025 --destination`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if b.StartDate, err = quote.ParseDate(start); err != nil {
				return err
			}
			if b.EndDate, err = quote.ParseDate(end); err != nil {
				return err
			}

			service, ctx, err := bookingService(cmd.Context())
			if err != nil {
				return err
			}
			created, err := service.Create(ctx, b)
			var conflict *bookings.ConflictError
			if errors.As(err, &conflict) {
				return fmt.Errorf("cannot book %s: %w", b.HotelName, err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "booked %s for %s at %s (%s)\n",
				shortID(created.ID), created.ClientName, created.HotelName, created.DisplayDates())
			return nil
		},
	}

	cmd.Flags().StringVar(&b.ClientName, "client", "", "Client name")
	cmd.Flags().StringVar(&b.HotelName, "hotel", "", "Hotel or banquet name")
	cmd.Flags().StringVar(&b.Description, "description", "", "Free text description")
	cmd.Flags().BoolVar(&b.DestinationWedding, "destination", false, "Mark as a destination wedding")
	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD or DD/MM/YYYY)")
	cmd.Flags().StringVar(&end, "end", "", "Last day, defaults to the start day")
	return cmd
}

func newBookingsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bookings ordered by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			service, ctx, err := bookingService(cmd.Context())
			if err != nil {
				return err
			}
			list, err := service.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no bookings")
				return nil
			}
			for _, b := range list {
				kind := ""
				if b.DestinationWedding {
					kind = "destination"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-23s %-24s %-24s %s\n",
					shortID(b.ID), b.DisplayDates(), truncate(b.ClientName, 24), truncate(b.HotelName, 24), kind)
			}
			return nil
		},
	}
}

func newBookingsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, ctx, err := bookingService(cmd.Context())
			if err != nil {
				return err
			}
			id, err := expandID(ctx, service, args[0])
			if err != nil {
				return err
			}
			if err := service.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}

// expandID resolves the short ID printed by list to a full booking ID.
func expandID(ctx context.Context, service *bookings.Service, prefix string) (string, error) {
	list, err := service.List(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, b := range list {
		if b.ID == prefix {
			return b.ID, nil
		}
		if strings.HasPrefix(b.ID, prefix) {
			matches = append(matches, b.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", bookings.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("booking id %s is ambiguous (%d matches)", prefix, len(matches))
}

func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	return t.Year(), t.Month(), nil
}

func newBookingsCalendarCommand() *cobra.Command {
	var month string
	var months int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show booked days on a month calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, m, err := parseMonth(month, time.Now())
			if err != nil {
				return err
			}
			service, ctx, err := bookingService(cmd.Context())
			if err != nil {
				return err
			}
			cal, err := service.Calendar(ctx)
			if err != nil {
				return err
			}

			renderer := terminalRenderer(cmd)
			first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < max(months, 1); i++ {
				d := first.AddDate(0, i, 0)
				fmt.Fprintln(cmd.OutOrStdout(), bookings.RenderMonth(cal, d.Year(), d.Month(), renderer))
			}
			if full := cal.FullyBooked(); len(full) > 0 {
				dates := make([]string, 0, len(full))
				for _, d := range full {
					if !d.Before(first) {
						dates = append(dates, format.FormatDate(d))
					}
				}
				if len(dates) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "fully booked: %s\n", strings.Join(dates, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "First month to show (YYYY-MM), defaults to the current month")
	cmd.Flags().IntVar(&months, "months", 1, "Number of months to show")
	return cmd
}

func newBookingsReportCommand() *cobra.Command {
	var month, output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the bookings of a month as a PDF report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			year, m, err := parseMonth(month, now)
			if err != nil {
				return err
			}
			service, ctx, err := bookingService(cmd.Context())
			if err != nil {
				return err
			}
			list, err := service.List(ctx)
			if err != nil {
				return err
			}

			data, err := bookingReport(list, year, m, now)
			if err != nil {
				return err
			}
			if output == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				output = filepath.Join(cfg.OutputDir, format.FileName(fmt.Sprintf("bookings %d %02d", year, m), "report", now))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to export (YYYY-MM), defaults to the current month")
	cmd.Flags().StringVar(&output, "file", "", "Output file, defaults to a generated name in the output directory")
	return cmd
}
