// Package content loads the documentation pages served by docsite.
//
// A content tree is a directory of YAML page files. Each directory may carry a
// _meta.yaml file that orders its entries and sets their nav title, type and
// display, the way the site's navigation is declared:
//
//	getting-started:
//	  title: Getting Started
//	  type: page
//	contributors:
//	  type: hidden
//
// Page files hold a title, a description and a list of sections. A section is
// either a block of HTML or a tab group whose panels are selected through a
// location query parameter.
package content

import (
	"errors"
	"sort"
	"strings"

	"github.com/leapstack-labs/docsite/internal/tabs"
)

// ErrPageNotFound is returned when no page exists for a slug.
var ErrPageNotFound = errors.New("page not found")

// EntryType is the nav type of a content entry.
type EntryType string

const (
	// TypeDoc is a regular sidebar entry.
	TypeDoc EntryType = "doc"
	// TypePage is a top level section shown in the navbar.
	TypePage EntryType = "page"
	// TypeHidden entries are routable but never listed.
	TypeHidden EntryType = "hidden"
)

// Page is a single documentation page.
type Page struct {
	Slug        string    `yaml:"-"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Layout      string    `yaml:"layout"`
	Sections    []Section `yaml:"sections"`
}

// Section is a block of a page. Exactly one of HTML or Tabs is set.
type Section struct {
	ID      string    `yaml:"id"`
	Heading string    `yaml:"heading"`
	HTML    string    `yaml:"html"`
	Tabs    *TabGroup `yaml:"tabs"`
}

// TabGroup is a set of panels of which exactly one is shown.
type TabGroup struct {
	ID          string           `yaml:"id"`
	Key         string           `yaml:"key"`
	Default     string           `yaml:"default"`
	Orientation tabs.Orientation `yaml:"orientation"`
	Items       []TabItem        `yaml:"items"`
}

// TabItem is one tab of a group.
type TabItem struct {
	ID      string `yaml:"id"`
	Label   string `yaml:"label"`
	Image   string `yaml:"image"`
	Beta    bool   `yaml:"beta"`
	Tooltip string `yaml:"tooltip"`
	HTML    string `yaml:"html"`
}

// QueryKey returns the location query key the group is synchronized with.
func (g *TabGroup) QueryKey() string {
	if g.Key == "" {
		return tabs.DefaultKey
	}
	return g.Key
}

// Item returns the tab with the given id.
func (g *TabGroup) Item(id string) (TabItem, bool) {
	for _, it := range g.Items {
		if it.ID == id {
			return it, true
		}
	}
	return TabItem{}, false
}

// TabGroups returns the page's tab groups in document order.
func (p *Page) TabGroups() []*TabGroup {
	var groups []*TabGroup
	for i := range p.Sections {
		if p.Sections[i].Tabs != nil {
			groups = append(groups, p.Sections[i].Tabs)
		}
	}
	return groups
}

// TabGroup returns the group with the given id.
func (p *Page) TabGroup(id string) (*TabGroup, bool) {
	for _, g := range p.TabGroups() {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// Raw reports whether the page renders without the docs chrome.
func (p *Page) Raw() bool {
	return p.Layout == "raw"
}

// NavItem is an entry of the navigation tree.
type NavItem struct {
	Name     string
	Slug     string
	Title    string
	Type     EntryType
	Hidden   bool
	Children []NavItem
}

// Listed reports whether the item appears in navigation.
func (n NavItem) Listed() bool {
	return !n.Hidden && n.Type != TypeHidden
}

// Site is an immutable, loaded content tree.
type Site struct {
	pages map[string]*Page
	nav   []NavItem
}

// Page returns the page for slug. Leading and trailing slashes are ignored.
func (s *Site) Page(slug string) (*Page, error) {
	p, ok := s.pages[normalizeSlug(slug)]
	if !ok {
		return nil, ErrPageNotFound
	}
	return p, nil
}

// Pages returns all pages sorted by slug, hidden ones included.
func (s *Site) Pages() []*Page {
	out := make([]*Page, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// Nav returns the full navigation tree, unlisted entries included.
func (s *Site) Nav() []NavItem {
	return s.nav
}

// Navbar returns the listed top level sections.
func (s *Site) Navbar() []NavItem {
	var out []NavItem
	for _, n := range s.nav {
		if n.Type == TypePage && n.Listed() {
			out = append(out, n)
		}
	}
	return out
}

// Sidebar returns the listed entries of the top level section containing
// slug.
func (s *Site) Sidebar(slug string) []NavItem {
	section, _, _ := strings.Cut(normalizeSlug(slug), "/")
	for _, n := range s.nav {
		if n.Name == section {
			return listed(n.Children)
		}
	}
	return nil
}

func listed(items []NavItem) []NavItem {
	var out []NavItem
	for _, n := range items {
		if !n.Listed() {
			continue
		}
		n.Children = listed(n.Children)
		out = append(out, n)
	}
	return out
}

func normalizeSlug(slug string) string {
	slug = strings.Trim(slug, "/")
	slug = strings.TrimSuffix(slug, "/index")
	if slug == "index" {
		return ""
	}
	return slug
}
