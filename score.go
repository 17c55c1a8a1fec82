package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seo-optimizer/scorer/config"
	"github.com/seo-optimizer/scorer/content"
	"github.com/seo-optimizer/scorer/extract"
)

// readInput reads the named file, or stdin when no file is given
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newScoreCmd() *cobra.Command {
	var (
		keywords    []string
		html        bool
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "score [file]",
		Short: "Score a document and print the result as JSON",
		Long: `Score a document read from a file or stdin.

Examples:
  scorer score post.md --keyword solar --keyword battery
  scorer score post.md -k "New York, NY"
  scorer score page.html --html
  scorer score post.md --profile strict.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := config.LoadProfile(profilePath)
			if err != nil {
				return err
			}

			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			doc := content.NewDocument(raw, keywords)
			if html {
				page := extract.FromHTML(raw)
				doc = content.Document{Content: page.Text, Keywords: keywords, Headings: page.HeadingCount}
			}

			return writeJSON(cmd.OutOrStdout(), profile.Score(doc))
		},
	}

	cmd.Flags().StringArrayVarP(&keywords, "keyword", "k", nil, "target keyword; repeat the flag for several keywords")
	cmd.Flags().BoolVar(&html, "html", false, "treat input as HTML")
	cmd.Flags().StringVar(&profilePath, "profile", "", "scoring profile YAML file")

	return cmd
}

func newTermsCmd() *cobra.Command {
	var (
		limit int
		html  bool
	)

	cmd := &cobra.Command{
		Use:   "terms [file]",
		Short: "Print the most frequent terms of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if html {
				raw = extract.Text(raw)
			}

			for _, term := range content.TopTerms(raw, limit) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", term.Term, term.Count)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of terms to print")
	cmd.Flags().BoolVar(&html, "html", false, "treat input as HTML")

	return cmd
}
