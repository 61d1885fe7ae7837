package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"sitedigest/internal/app"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url]",
		Short: "Crawl one website and print its digest",
		Long: `Crawl fetches a site's homepage and navigation-linked pages,
categorizes and deduplicates them, and prints the assembled digest.

Examples:
  # Print the plain-text digest
  sitedigest crawl acme.io

  # Print the full result record as JSON
  sitedigest crawl --json https://acme.io`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			a := app.New(cfg, newLogger(cmd))

			result, err := a.Scrape(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Content)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print the full result record as JSON")
	return cmd
}
