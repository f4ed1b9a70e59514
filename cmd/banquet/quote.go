package main

import (
	"fmt"
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"

	"github.com/flanksource/banquet/format"
	"github.com/flanksource/banquet/quote"
	"github.com/flanksource/banquet/store"
)

func newQuoteCommand() *cobra.Command {
	var (
		imageURLs []string
		noArchive bool
	)

	cmd := &cobra.Command{
		Use:   "quote <quotation.yaml>",
		Short: "Render an itemised quotation PDF",
		Long: `Render a quotation described in YAML: client and venue, event dates, brand,
service lines, discount, notes and non-inclusive terms, plus optional image URLs
that are appended after the terms.

Rendered quotations are archived in the local database unless --no-archive is set.`,
		Example: `  banquet quote event.yaml
  banquet quote event.yaml --image https://example.com/stage.jpg -o out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, urls, err := quote.LoadDocument(args[0])
			if err != nil {
				return err
			}
			urls = append(urls, imageURLs...)

			renderer, cfg, err := newRenderer()
			if err != nil {
				return err
			}
			artifact, err := renderer.RenderQuotation(cmd.Context(), doc, urls)
			if err != nil {
				logger.Debugf("render failed: %v", err)
				return err
			}
			path, err := artifact.Save(cfg.OutputDir)
			if err != nil {
				return err
			}

			if !noArchive {
				db, err := openStore(cfg)
				if err != nil {
					return err
				}
				id, err := db.SaveQuote(cmd.Context(), store.QuoteRecord{
					FileName:   artifact.FileName,
					GrandTotal: artifact.Totals.GrandTotal,
					Pages:      artifact.Pages,
					Document:   doc,
				})
				if err != nil {
					return err
				}
				logger.Debugf("archived quotation %s", id)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages, total %s)\n",
				path, artifact.Pages, format.FormatAmount(artifact.Totals.GrandTotal))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&imageURLs, "image", nil, "Image URL to append after the quotation (repeatable)")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "Do not record the quotation in the database")
	return cmd
}

func newGalleryCommand() *cobra.Command {
	var title, location string

	cmd := &cobra.Command{
		Use:   "gallery --title <venue> <image-url>...",
		Short: "Render an image gallery PDF",
		Long: `Render a gallery: a banner page header, the venue title and location, then each
image scaled to the page width. Images that cannot be fetched are shown as an
"Unable to load" box.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, cfg, err := newRenderer()
			if err != nil {
				return err
			}
			artifact, err := renderer.RenderGallery(cmd.Context(), title, location, args)
			if err != nil {
				logger.Debugf("render failed: %v", err)
				return err
			}
			path, err := artifact.Save(cfg.OutputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages)\n", path, artifact.Pages)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Venue name printed under the banner (required)")
	cmd.Flags().StringVar(&location, "location", "", "Venue location")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived quotations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			records, err := db.ListQuotes(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no archived quotations")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-24s %-24s %14s  %s\n",
					shortID(r.ID), format.FormatDate(r.CreatedAt), truncate(r.Document.ClientName, 24),
					truncate(r.Document.VenueName, 24), format.FormatAmount(r.GrandTotal), r.FileName)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of quotations to list (0 = all)")
	cmd.AddCommand(newHistoryRenderCommand())
	return cmd
}

func newHistoryRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <id>",
		Short: "Render an archived quotation again with the current template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, cfg, err := newRenderer()
			if err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			record, err := db.GetQuote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			artifact, err := renderer.RenderQuotation(cmd.Context(), record.Document, nil)
			if err != nil {
				return err
			}
			path, err := artifact.Save(cfg.OutputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d pages)\n", path, artifact.Pages)
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
