package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/flanksource/commons/logger"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/flanksource/banquet"
	"github.com/flanksource/banquet/render"
	"github.com/flanksource/banquet/shutdown"
	"github.com/flanksource/banquet/store"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	err := newRootCommand().ExecuteContext(ctx)
	cancel()
	if hookErr := shutdown.Shutdown(); hookErr != nil {
		logger.Warnf("shutdown: %v", hookErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "banquet",
		Short: "Generate banquet quotations and image galleries as PDF",
		Long: `banquet lays out itemised banquet quotations (services, tax, totals, notes and
terms) and image galleries onto a letterhead template and writes them as PDF.

It also keeps the admin booking calendar and an archive of generated quotations.`,
		Example: `  banquet quote event.yaml -o out/
  banquet gallery --title "Grand Hall" --location Jaipur https://example.com/hall.jpg
  banquet bookings calendar --month 2025-03`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			banquet.Flags.UseFlags()
		},
	}
	banquet.BindAllFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newQuoteCommand())
	rootCmd.AddCommand(newGalleryCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newBookingsCommand())
	rootCmd.AddCommand(newTemplateCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), getVersionInfo())
		},
	}
}

func getVersionInfo() string {
	return fmt.Sprintf("banquet %s (commit: %s, built: %s, go: %s)",
		version, commit, date, runtime.Version())
}

func creator() string {
	return "banquet " + version
}

func loadConfig() (banquet.Config, error) {
	return banquet.Flags.Load()
}

// newRenderer loads the configured assets and stops the image resolver on exit.
func newRenderer() (*render.Renderer, banquet.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	renderer, resolver, err := cfg.NewRenderer(creator())
	if err != nil {
		return nil, cfg, err
	}
	shutdown.AddHookWithPriority("image resolver", shutdown.PriorityBrowser, resolver.Close)
	return renderer, cfg, nil
}

// openStore opens the SQLite database and closes it on exit.
func openStore(cfg banquet.Config) (*store.SQLite, error) {
	path := cfg.Store
	if path == "" {
		var err error
		if path, err = store.DefaultPath(); err != nil {
			return nil, err
		}
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	shutdown.AddHookWithPriority("store "+path, shutdown.PriorityDatabase, db.Close)
	return db, nil
}

// terminalRenderer colours output only when stdout is a terminal and --no-color is unset.
func terminalRenderer(cmd *cobra.Command) *lipgloss.Renderer {
	out := cmd.OutOrStdout()
	r := lipgloss.NewRenderer(out)
	f, isFile := out.(*os.File)
	if banquet.Flags.NoColor || !isFile || !term.IsTerminal(int(f.Fd())) {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}
