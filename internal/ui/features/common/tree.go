package common

import (
	"strings"

	"github.com/leapstack-labs/docsite/internal/content"
)

// DocsPath returns the URL path of a page slug.
func DocsPath(slug string) string {
	if slug == "" {
		return "/"
	}
	return "/docs/" + slug
}

// BuildSidebar converts the site navigation into links for the page at
// slug: the navbar sections and the sidebar of the current section.
func BuildSidebar(site *content.Site, slug string) SidebarData {
	data := SidebarData{CurrentPath: DocsPath(slug)}

	section, _, _ := strings.Cut(slug, "/")
	for _, n := range site.Navbar() {
		data.Navbar = append(data.Navbar, NavLink{
			Title:  n.Title,
			Href:   DocsPath(n.Slug),
			Active: n.Name == section,
		})
	}
	data.Sidebar = buildLinks(site.Sidebar(slug), slug)
	return data
}

func buildLinks(items []content.NavItem, current string) []NavLink {
	links := make([]NavLink, 0, len(items))
	for _, n := range items {
		links = append(links, NavLink{
			Title:    n.Title,
			Href:     DocsPath(n.Slug),
			Active:   n.Slug == current,
			Children: buildLinks(n.Children, current),
		})
	}
	return links
}
