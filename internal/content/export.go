package content

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"github.com/leapstack-labs/docsite/internal/location"
	"github.com/leapstack-labs/docsite/internal/tabs"
)

// Selection maps a tab group id to the selected tab id. Groups without an
// entry, or with an unknown tab id, use their default tab.
type Selection map[string]string

// SelectionFrom resolves every tab group of the page against a location's
// query, the same way a freshly mounted container would.
func (p *Page) SelectionFrom(r location.Reader) Selection {
	sel := Selection{}
	for _, g := range p.TabGroups() {
		sel[g.ID] = tabs.Resolve(r.Get(g.QueryKey()), g.Default)
	}
	return sel
}

// Document renders the page as a single HTML fragment, each tab group
// reduced to its selected panel.
func (p *Page) Document(sel Selection) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(p.Title))
	if p.Description != "" {
		fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(p.Description))
	}

	for _, sec := range p.Sections {
		if sec.Heading != "" {
			fmt.Fprintf(&sb, "<h2 id=\"%s\">%s</h2>\n", html.EscapeString(sec.ID), html.EscapeString(sec.Heading))
		}
		if sec.HTML != "" {
			sb.WriteString(sec.HTML)
			sb.WriteByte('\n')
		}
		if sec.Tabs != nil {
			it := sec.Tabs.Selected(sel[sec.Tabs.ID])
			fmt.Fprintf(&sb, "<h3>%s</h3>\n%s\n", html.EscapeString(it.Label), it.HTML)
		}
	}
	return sb.String()
}

// Markdown renders the page as Markdown.
func (p *Page) Markdown(sel Selection) (string, error) {
	md, err := htmltomarkdown.ConvertString(p.Document(sel))
	if err != nil {
		return "", fmt.Errorf("convert %s to markdown: %w", p.Slug, err)
	}
	return md, nil
}

// Selected returns the item for id, falling back to the group default.
func (g *TabGroup) Selected(id string) TabItem {
	if it, ok := g.Item(id); ok {
		return it
	}
	it, _ := g.Item(g.Default)
	return it
}
