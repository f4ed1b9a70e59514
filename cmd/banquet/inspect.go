package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flanksource/banquet/images"
	"github.com/flanksource/banquet/pdf"
)

func newInspectCommand() *cobra.Command {
	var showText bool

	cmd := &cobra.Command{
		Use:   "inspect <file.pdf>...",
		Short: "Validate generated PDFs and print their page count and text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				info, err := pdf.InspectReader(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pages, %d bytes", path, info.Pages, info.Size)
				if info.Title != "" {
					fmt.Fprintf(cmd.OutOrStdout(), ", title %q", info.Title)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				if showText {
					for i, text := range info.PageTexts {
						fmt.Fprintf(cmd.OutOrStdout(), "--- page %d ---\n%s\n", i+1, strings.TrimSpace(text))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showText, "text", false, "Print the extracted text of every page")
	return cmd
}

func newTemplateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Check the configured page template, or export the built-in one",
		Long: `Load the configured template the same way rendering does and report its size.

With --export, write the template as an image: .svg exports the built-in vector
letterhead, any other extension writes the loaded template bytes (PNG, or JPEG for
JPEG templates).`,
		Example: `  banquet template --template letterhead.svg
  banquet template --export default.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			assets, err := cfg.Assets()
			if err != nil {
				return err
			}
			bitmap := assets.Template
			name := cfg.Template
			if name == "" {
				name = "built-in"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template %s: %dx%d %s\n", name, bitmap.Width, bitmap.Height, bitmap.Format)

			if output == "" {
				return nil
			}
			data := bitmap.Data
			if strings.EqualFold(filepath.Ext(output), ".svg") {
				data = images.DefaultTemplateSVG()
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "export", "", "Write the template to this file")
	return cmd
}
