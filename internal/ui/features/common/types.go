// Package common provides shared types and utilities for UI features.
package common

// Theme holds the site branding.
type Theme struct {
	LogoText           string
	LogoSrc            string
	ProjectLink        string
	DarkMode           bool
	HueLight           int
	HueDark            int
	SaturationLight    int
	SaturationDark     int
	Banner             Banner
	DocsRepositoryBase string
	TOCBackToTop       bool
}

// Banner is the announcement bar shown above the navbar.
type Banner struct {
	// Key identifies the banner text; dismissing stores the key so a new
	// banner shows again.
	Key         string
	Text        string
	LinkText    string
	Href        string
	Dismissible bool
}

// Analytics holds the third party tracking snippets. They are only rendered
// in production.
type Analytics struct {
	Production   bool
	GTMID        string
	TwitterPixel string
}

// Search configures the "Ask AI" trigger in the navbar.
type Search struct {
	Enabled bool
	Label   string
}

// Settings is everything the layout needs besides the page itself.
type Settings struct {
	Theme     Theme
	Analytics Analytics
	Search    Search
	Dev       bool
}

// NavLink is a rendered navigation entry.
type NavLink struct {
	Title    string
	Href     string
	Active   bool
	Children []NavLink
}

// SidebarData holds data needed for the navbar and sidebar rendering.
type SidebarData struct {
	Navbar      []NavLink
	Sidebar     []NavLink
	CurrentPath string
	FullWidth   bool // raw pages render without sidebar and TOC
}
