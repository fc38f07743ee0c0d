package main

import (
	"fmt"
	"strings"

	"axiom/cmd/axiom/ui"
	"axiom/internal/catalog"

	"github.com/spf13/cobra"
)

var journalWidth int

// catalogCmd lists the collection
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the pieces in the collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n%s\n\n", c.Title(), c.Description())
		for _, p := range c.Products() {
			fmt.Fprintf(out, "%-4s %-26s %-24s %s  %8s\n", p.ID, p.Name, p.Designer, p.Year, catalog.FormatPrice(p.Price))
		}
		return nil
	},
}

// journalCmd lists or renders journal articles
var journalCmd = &cobra.Command{
	Use:   "journal [article-id]",
	Short: "List journal issues, or read one",
	Long: `Without an argument, lists the journal issues.
With an article id, renders the article as styled Markdown.

Example:
  axiom journal a1`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			for _, a := range c.Articles() {
				fmt.Fprintf(out, "%-4s Issue %-4s %s\n", a.ID, a.IssueNumber, a.Title)
			}
			return nil
		}

		a, ok := c.Article(args[0])
		if !ok {
			return fmt.Errorf("no journal article %q", args[0])
		}
		rendered, err := ui.RenderMarkdown(c.Markdown(a), journalWidth, ui.DetectTheme(cfg.UI.Theme).IsDark)
		if err != nil {
			return fmt.Errorf("failed to render article: %w", err)
		}
		fmt.Fprint(out, strings.TrimLeft(rendered, "\n"))
		return nil
	},
}
