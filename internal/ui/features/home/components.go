package home

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/docsite/internal/markup"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
)

// LandingElementID is the id of the landing page content.
const LandingElementID = "landing"

// LandingView renders the hero and the framework cards.
func LandingView(d LandingData) templ.Component {
	hero := []templ.Component{
		markup.El("h1", markup.Attrs{markup.A("class", "text-5xl font-black")}, markup.Text(d.Title)),
	}
	if d.Description != "" {
		hero = append(hero, markup.El("p", markup.Attrs{markup.A("class", "mt-4 text-xl text-slate-500")}, markup.Text(d.Description)))
	}
	if d.GetStarted != "" {
		hero = append(hero, markup.El("a", markup.Attrs{
			markup.A("href", d.GetStarted),
			markup.A("class", "inline-block mt-8 py-2 px-6 font-semibold text-white rounded-lg bg-neutral-900"),
		}, markup.Text("Get Started")))
	}

	return markup.El("div", markup.Attrs{markup.A("id", LandingElementID), markup.A("class", "py-16 text-center")},
		markup.El("section", nil, hero...),
		CardGrid(d.Cards),
	)
}

// CardGrid renders one link per framework card.
func CardGrid(cards []Card) templ.Component {
	if len(cards) == 0 {
		return nil
	}
	items := make([]templ.Component, 0, len(cards))
	for _, c := range cards {
		items = append(items, cardView(c))
	}
	return markup.El("div", markup.Attrs{
		markup.A("class", "flex flex-wrap gap-6 justify-center mt-16"),
	}, items...)
}

func cardView(c Card) templ.Component {
	attrs := markup.Attrs{
		markup.A("href", c.Href),
		markup.A("data-card", c.ID),
		markup.A("class", markup.Class(
			"relative flex flex-col items-center justify-between p-4 w-28 rounded-lg border shadow-sm",
			templ.KV("has-tooltip", c.Tooltip != ""),
		)),
	}
	if c.Tooltip != "" {
		attrs = append(attrs, markup.A("aria-describedby", cardTooltipID(c.ID)))
	}

	var children []templ.Component
	if c.Image != "" {
		children = append(children, markup.El("img", markup.Attrs{markup.A("src", c.Image), markup.A("alt", c.Label), markup.A("width", "50")}))
	}
	children = append(children, markup.El("span", markup.Attrs{markup.A("class", "mt-3 text-sm")}, markup.Text(c.Label)))
	if c.Beta {
		children = append(children, common.BetaBadge())
	}
	if c.Tooltip != "" {
		children = append(children, common.Tooltip(cardTooltipID(c.ID), c.Tooltip))
	}
	return markup.El("a", attrs, children...)
}

func cardTooltipID(id string) string {
	return "card-tip-" + id
}
