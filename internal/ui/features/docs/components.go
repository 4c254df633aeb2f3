package docs

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/markup"
	"github.com/leapstack-labs/docsite/internal/tabs"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
)

// PageElementID is the id of the element holding the rendered page.
const PageElementID = "docs-page"

// PageData holds everything needed to render a docs page body.
type PageData struct {
	Page      *content.Page
	Nav       common.SidebarData
	TOC       []content.Heading
	Handles   map[string]tabs.Handle
	EditURL   string
	Markdown  string
	BackToTop bool
}

// GroupElementID returns the element id of a tab group.
func GroupElementID(group string) string {
	return "tabs-" + group
}

// PageView renders the sidebar, article and table of contents.
func PageView(d PageData) templ.Component {
	return markup.El("div", markup.Attrs{
		markup.A("id", PageElementID),
		markup.A("class", "flex gap-8 py-8"),
	},
		sidebar(d.Nav),
		article(d),
		toc(d),
	)
}

func sidebar(nav common.SidebarData) templ.Component {
	if nav.FullWidth || len(nav.Sidebar) == 0 {
		return nil
	}
	return markup.El("aside", markup.Attrs{markup.A("class", "w-64 shrink-0")}, navList(nav.Sidebar))
}

func navList(links []common.NavLink) templ.Component {
	items := make([]templ.Component, 0, len(links))
	for _, l := range links {
		children := []templ.Component{markup.El("a", markup.Attrs{
			markup.A("href", l.Href),
			markup.A("class", markup.Class("block py-1 text-sm", templ.KV("font-semibold", l.Active))),
			markup.A("aria-current", ariaCurrent(l.Active)),
		}, markup.Text(l.Title))}
		if len(l.Children) > 0 {
			children = append(children, navList(l.Children))
		}
		items = append(items, markup.El("li", nil, children...))
	}
	return markup.El("ul", nil, items...)
}

func article(d PageData) templ.Component {
	p := d.Page
	children := []templ.Component{
		markup.El("h1", markup.Attrs{markup.A("class", "text-3xl font-bold")}, markup.Text(p.Title)),
	}
	if p.Description != "" {
		children = append(children, markup.El("p", markup.Attrs{markup.A("class", "mt-2 text-slate-500")}, markup.Text(p.Description)))
	}

	for _, sec := range p.Sections {
		if sec.Heading != "" {
			children = append(children, markup.El("h2", markup.Attrs{
				markup.A("id", sec.ID),
				markup.A("class", "mt-8 text-2xl font-semibold"),
			}, markup.Text(sec.Heading)))
		}
		if sec.HTML != "" {
			children = append(children, markup.El("div", markup.Attrs{markup.A("class", "prose")}, templ.Raw(sec.HTML)))
		}
		if sec.Tabs != nil {
			if h, ok := d.Handles[sec.Tabs.ID]; ok {
				children = append(children, TabGroupView(sec.Tabs, h))
			}
		}
	}

	var footer []templ.Component
	if d.EditURL != "" {
		footer = append(footer, markup.El("a", markup.Attrs{markup.A("href", d.EditURL), markup.A("target", "_blank"), markup.A("rel", "noreferrer")}, markup.Text("Edit this page")))
	}
	if d.Markdown != "" {
		footer = append(footer, markup.El("a", markup.Attrs{markup.A("href", d.Markdown)}, markup.Text("View as Markdown")))
	}
	if len(footer) > 0 {
		children = append(children, markup.El("footer", markup.Attrs{markup.A("class", "flex gap-4 mt-12 text-sm")}, footer...))
	}

	return markup.El("article", markup.Attrs{markup.A("class", "flex-1 min-w-0")}, children...)
}

func toc(d PageData) templ.Component {
	if d.Nav.FullWidth || len(d.TOC) == 0 {
		return nil
	}
	items := make([]templ.Component, 0, len(d.TOC)+1)
	for _, h := range d.TOC {
		items = append(items, markup.El("li", markup.Attrs{
			markup.A("class", markup.Class(templ.KV("pl-4", h.Level > 2))),
		}, markup.El("a", markup.Attrs{markup.A("href", "#"+h.ID)}, markup.Text(h.Text))))
	}
	children := []templ.Component{
		markup.El("p", markup.Attrs{markup.A("class", "font-semibold")}, markup.Text("On This Page")),
		markup.El("ul", nil, items...),
	}
	if d.BackToTop {
		children = append(children, markup.El("a", markup.Attrs{markup.A("href", "#"), markup.A("class", "block mt-4 text-xs")}, markup.Text("Scroll to top ↑")))
	}
	return markup.El("nav", markup.Attrs{markup.A("class", "w-56 shrink-0 text-sm"), markup.A("aria-label", "Table of contents")}, children...)
}

// TabGroupView renders a tab group of a page with its selection taken from h.
func TabGroupView(g *content.TabGroup, h tabs.Handle) templ.Component {
	triggers := make([]templ.Component, 0, len(g.Items))
	panels := make([]templ.Component, 0, len(g.Items))
	for _, it := range g.Items {
		triggers = append(triggers, tabs.Trigger(h, it.ID, triggerProps(g.ID, it), triggerLabel(g.ID, it)...))
		panels = append(panels, tabs.Content(h, it.ID, tabs.Props{}, templ.Raw(it.HTML)))
	}

	list := tabs.List(h, tabs.Props{}, triggers...)
	body := markup.El("div", markup.Attrs{markup.A("class", "flex-1")}, panels...)
	return tabs.Root(h, tabs.Props{
		ID:    GroupElementID(g.ID),
		Attrs: markup.Attrs{markup.A("data-group", g.ID)},
	}, list, body)
}

func tooltipID(group, tab string) string {
	return "tip-" + group + "-" + tab
}

func triggerProps(group string, it content.TabItem) tabs.Props {
	p := tabs.Props{}
	if it.Tooltip != "" {
		p.Class = "has-tooltip"
		p.Attrs = markup.Attrs{markup.A("aria-describedby", tooltipID(group, it.ID))}
	}
	return p
}

func triggerLabel(group string, it content.TabItem) []templ.Component {
	var out []templ.Component
	if it.Image != "" {
		out = append(out, markup.El("img", markup.Attrs{markup.A("src", it.Image), markup.A("alt", it.Label), markup.A("width", "40")}))
	}
	out = append(out, markup.El("span", markup.Attrs{markup.A("class", "mt-3 text-sm")}, markup.Text(it.Label)))
	if it.Beta {
		out = append(out, common.BetaBadge())
	}
	if it.Tooltip != "" {
		out = append(out, common.Tooltip(tooltipID(group, it.ID), it.Tooltip))
	}
	return out
}

func editURL(base, slug string) string {
	if base == "" {
		return ""
	}
	if slug == "" {
		slug = "index"
	}
	return strings.TrimSuffix(base, "/") + "/" + slug + ".yaml"
}

func ariaCurrent(active bool) string {
	if active {
		return "page"
	}
	return "false"
}
