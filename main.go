package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scorer",
		Short: "Content readability and SEO scoring",
		Long: `scorer rates text for readability (Flesch reading ease), keyword density and
overall SEO quality, and analyzes live pages over HTTP.

Example usage:
  scorer serve                          # Run the HTTP API
  scorer score article.md -k solar      # Score a file against a keyword
  cat page.html | scorer score --html   # Score HTML from stdin
  scorer terms article.md -n 5          # Show the most frequent terms`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newScoreCmd(), newTermsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
