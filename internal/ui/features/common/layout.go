package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/docsite/internal/markup"
	"github.com/leapstack-labs/docsite/internal/ui/resources"
)

const (
	datastarScript  = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
	tailwindScript  = "https://cdn.tailwindcss.com"
	searchLabelText = "Ask AI"
)

// BannerID is the element id of the announcement bar.
const BannerID = "banner"

// LayoutData is the input of Layout.
type LayoutData struct {
	Title       string
	Description string
	Settings    Settings
	Nav         SidebarData

	BannerDismissed bool

	// ViewID is the live view backing the page, if any.
	ViewID string
	// Init is the datastar expression run when the page loads, typically the
	// SSE subscription of a live view.
	Init string
	Main templ.Component
}

// Layout renders a full HTML document.
func Layout(d LayoutData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!doctype html>"); err != nil {
			return err
		}
		return markup.El("html", markup.Attrs{markup.A("lang", "en")}, head(d), body(d)).Render(ctx, w)
	})
}

func head(d LayoutData) templ.Component {
	title := d.Title
	if logo := d.Settings.Theme.LogoText; logo != "" && logo != title {
		title += " - " + logo
	}

	children := []templ.Component{
		markup.El("meta", markup.Attrs{markup.A("charset", "utf-8")}),
		markup.El("meta", markup.Attrs{markup.A("name", "viewport"), markup.A("content", "width=device-width, initial-scale=1.0")}),
		markup.El("title", nil, markup.Text(title)),
		markup.El("meta", markup.Attrs{markup.A("property", "og:title"), markup.A("content", title)}),
	}
	if d.Description != "" {
		children = append(children,
			markup.El("meta", markup.Attrs{markup.A("name", "description"), markup.A("content", d.Description)}),
			markup.El("meta", markup.Attrs{markup.A("property", "og:description"), markup.A("content", d.Description)}),
		)
	}
	children = append(children,
		markup.El("style", nil, templ.Raw(ThemeStyle(d.Settings.Theme))),
		markup.El("link", markup.Attrs{markup.A("rel", "stylesheet"), markup.A("href", resources.StaticPath("site.css"))}),
		markup.El("script", markup.Attrs{markup.A("src", tailwindScript)}),
		markup.El("script", markup.Attrs{markup.A("type", "module"), markup.A("src", datastarScript)}),
		markup.El("script", markup.Attrs{markup.A("defer", true), markup.A("src", resources.StaticPath("app.js"))}),
	)
	children = append(children, AnalyticsSnippets(d.Settings.Analytics)...)
	return markup.El("head", nil, children...)
}

func body(d LayoutData) templ.Component {
	attrs := markup.Attrs{markup.A("class", "bg-white dark:bg-neutral-950 text-slate-900 dark:text-slate-100")}
	if d.ViewID != "" {
		attrs = append(attrs, markup.A("data-view", d.ViewID))
	}
	if d.Init != "" {
		attrs = append(attrs, markup.A("data-init", d.Init))
	}
	if d.Settings.Dev {
		attrs = append(attrs, markup.A("data-dev", true))
	}

	var children []templ.Component
	if !d.BannerDismissed {
		children = append(children, BannerView(d.Settings.Theme.Banner))
	}
	children = append(children,
		Navbar(d.Settings, d.Nav),
		markup.El("main", markup.Attrs{markup.A("id", "main"), markup.A("class", "mx-auto max-w-7xl px-4")}, d.Main),
	)
	if d.Settings.Dev {
		// Reconnects after a restart and reloads the page
		children = append(children, markup.El("div", markup.Attrs{markup.A("data-init", "@get('/reload')")}))
	}
	return markup.El("body", attrs, children...)
}

// ThemeStyle returns the CSS variables derived from the theme colors.
func ThemeStyle(t Theme) string {
	return fmt.Sprintf(
		":root{--docs-hue:%d;--docs-saturation:%d%%}.dark{--docs-hue:%d;--docs-saturation:%d%%}",
		t.HueLight, t.SaturationLight, t.HueDark, t.SaturationDark,
	)
}

// BannerView renders the announcement bar. An empty banner renders a hidden
// placeholder so it can be patched by id.
func BannerView(b Banner) templ.Component {
	if b.Text == "" {
		return markup.El("div", markup.Attrs{markup.A("id", BannerID), markup.A("hidden", true)})
	}

	children := []templ.Component{markup.Text(b.Text)}
	if b.Href != "" {
		label := b.LinkText
		if label == "" {
			label = b.Href
		}
		children = append(children, markup.Text(" "), markup.El("a", markup.Attrs{
			markup.A("href", b.Href),
			markup.A("class", "underline font-bold"),
		}, markup.Text(label)))
	}
	if b.Dismissible {
		children = append(children, markup.El("button", markup.Attrs{
			markup.A("type", "button"),
			markup.A("aria-label", "Dismiss banner"),
			markup.A("class", "absolute right-2 top-1"),
			markup.A("data-on:click", "@post('/banner/dismiss')"),
		}, markup.Text("×")))
	}
	return markup.El("div", markup.Attrs{
		markup.A("id", BannerID),
		markup.A("class", "relative py-2 px-8 text-sm text-center text-white bg-neutral-900"),
	}, children...)
}

// Navbar renders the top navigation with logo, sections, search trigger and
// project link.
func Navbar(s Settings, nav SidebarData) templ.Component {
	t := s.Theme

	logo := []templ.Component{}
	if t.LogoSrc != "" {
		logo = append(logo, markup.El("img", markup.Attrs{markup.A("src", t.LogoSrc), markup.A("width", "30"), markup.A("alt", "")}))
	}
	logo = append(logo, markup.El("span", markup.Attrs{markup.A("class", "ml-2 text-xl font-black")}, markup.Text(t.LogoText)))

	links := make([]templ.Component, 0, len(nav.Navbar))
	for _, l := range nav.Navbar {
		links = append(links, markup.El("a", markup.Attrs{
			markup.A("href", l.Href),
			markup.A("class", markup.Class("text-sm", templ.KV("font-semibold", l.Active))),
			markup.A("aria-current", ariaCurrent(l.Active)),
		}, markup.Text(l.Title)))
	}

	extra := []templ.Component{}
	if s.Search.Enabled {
		extra = append(extra, SearchTrigger(s.Search))
	}
	if t.ProjectLink != "" {
		extra = append(extra, markup.El("a", markup.Attrs{
			markup.A("href", t.ProjectLink),
			markup.A("target", "_blank"),
			markup.A("rel", "noreferrer"),
			markup.A("class", "p-2"),
		}, markup.Text("GitHub")))
	}

	return markup.El("nav", markup.Attrs{markup.A("class", "flex gap-6 items-center px-4 h-16 border-b")},
		markup.El("a", markup.Attrs{markup.A("href", "/"), markup.A("class", "flex flex-row items-center")}, logo...),
		markup.El("div", markup.Attrs{markup.A("class", "flex gap-4 flex-1")}, links...),
		markup.El("div", markup.Attrs{markup.A("class", "flex gap-4 items-center !h-12")}, extra...),
	)
}

// SearchTrigger renders the "Ask AI" button and the overlay slot it toggles.
// The overlay content itself is provided by the search integration.
func SearchTrigger(s Search) templ.Component {
	label := s.Label
	if label == "" {
		label = searchLabelText
	}
	return markup.El("div", markup.Attrs{markup.A("data-signals:search-open", "false")},
		markup.El("button", markup.Attrs{
			markup.A("type", "button"),
			markup.A("class", "flex gap-2 items-center py-1.5 px-3 text-base leading-tight text-gray-800 rounded-lg transition-colors md:text-sm dark:text-gray-200 bg-black/[.05] dark:bg-gray-50/10"),
			markup.A("data-on:click", "$searchOpen = !$searchOpen"),
			markup.A("data-attr:aria-expanded", "$searchOpen"),
		}, markup.Text("✦ "+label)),
		markup.El("div", markup.Attrs{
			markup.A("id", "search-overlay"),
			markup.A("role", "dialog"),
			markup.A("data-show", "$searchOpen"),
			markup.A("data-on:keydown__window", "evt.key === 'Escape' && ($searchOpen = false)"),
			markup.A("style", "display: none"),
		}),
	)
}

// AnalyticsSnippets returns the tracking scripts, or nothing outside
// production.
func AnalyticsSnippets(a Analytics) []templ.Component {
	if !a.Production {
		return nil
	}
	var out []templ.Component
	if a.GTMID != "" {
		out = append(out, markup.El("script", markup.Attrs{markup.A("id", "gtm")}, templ.Raw(fmt.Sprintf(
			"(function(w,d,s,l,i){w[l]=w[l]||[];w[l].push({'gtm.start':new Date().getTime(),event:'gtm.js'});"+
				"var f=d.getElementsByTagName(s)[0],j=d.createElement(s),dl=l!='dataLayer'?'&l='+l:'';"+
				"j.async=true;j.src='https://www.googletagmanager.com/gtm.js?id='+i+dl;f.parentNode.insertBefore(j,f);"+
				"})(window,document,'script','dataLayer',%s);", JSString(a.GTMID)))))
	}
	if a.TwitterPixel != "" {
		out = append(out, markup.El("script", markup.Attrs{markup.A("id", "twitter-pixel"), markup.A("defer", true)}, templ.Raw(fmt.Sprintf(
			"!function(e,t,n,s,u,a){e.twq||(s=e.twq=function(){s.exe?s.exe.apply(s,arguments):s.queue.push(arguments);"+
				"},s.version='1.1',s.queue=[],u=t.createElement(n),u.async=!0,u.src='https://static.ads-twitter.com/uwt.js',"+
				"a=t.getElementsByTagName(n)[0],a.parentNode.insertBefore(u,a))}(window,document,'script');"+
				"twq('config',%s);", JSString(a.TwitterPixel)))))
	}
	return out
}

// JSString quotes s as a JavaScript string literal safe to embed in a
// script element.
func JSString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func ariaCurrent(active bool) string {
	if active {
		return "page"
	}
	return "false"
}
