package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsite/internal/cli/output"
	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
)

// PageInfo describes a page for JSON output.
type PageInfo struct {
	Slug      string      `json:"slug"`
	Path      string      `json:"path"`
	Title     string      `json:"title"`
	Layout    string      `json:"layout,omitempty"`
	TabGroups []GroupInfo `json:"tab_groups"`
}

// GroupInfo describes a tab group for JSON output.
type GroupInfo struct {
	ID          string   `json:"id"`
	Key         string   `json:"key"`
	Default     string   `json:"default"`
	Orientation string   `json:"orientation"`
	Tabs        []string `json:"tabs"`
}

// NewPagesCommand creates the pages command.
func NewPagesCommand() *cobra.Command {
	var withTabs bool

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List pages and their tab groups",
		Long: `List every page of the site with its tab groups and the query key
each group is bound to.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all pages
  docsite pages

  # Only pages with tab groups, as JSON
  docsite pages --tabs --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPages(cmd, withTabs)
		},
	}

	cmd.Flags().BoolVar(&withTabs, "tabs", false, "Only list pages with tab groups")

	return cmd
}

func runPages(cmd *cobra.Command, withTabs bool) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	return renderPages(cmdCtx.Renderer, pageInfos(cmdCtx.Repo.Site(), withTabs))
}

func renderPages(r *output.Renderer, infos []PageInfo) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	r.Header(1, fmt.Sprintf("Pages (%d total)", len(infos)))
	rows := make([][]string, 0, len(infos))
	for _, p := range infos {
		rows = append(rows, []string{p.Path, p.Title, formatGroups(p.TabGroups)})
	}
	r.Table([]string{"Path", "Title", "Tab groups"}, rows)
	return nil
}

func pageInfos(site *content.Site, withTabs bool) []PageInfo {
	pages := site.Pages()
	infos := make([]PageInfo, 0, len(pages))
	for _, p := range pages {
		groups := p.TabGroups()
		if withTabs && len(groups) == 0 {
			continue
		}
		info := PageInfo{
			Slug:      p.Slug,
			Path:      common.DocsPath(p.Slug),
			Title:     p.Title,
			Layout:    p.Layout,
			TabGroups: make([]GroupInfo, 0, len(groups)),
		}
		for _, g := range groups {
			gi := GroupInfo{
				ID:          g.ID,
				Key:         g.QueryKey(),
				Default:     g.Default,
				Orientation: g.Orientation.String(),
			}
			for _, it := range g.Items {
				gi.Tabs = append(gi.Tabs, it.ID)
			}
			info.TabGroups = append(info.TabGroups, gi)
		}
		infos = append(infos, info)
	}
	return infos
}

// formatGroups renders groups as "framework (?tab=next|sveltekit)".
func formatGroups(groups []GroupInfo) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("%s (?%s=%s)", g.ID, g.Key, strings.Join(g.Tabs, "|")))
	}
	return strings.Join(parts, ", ")
}
