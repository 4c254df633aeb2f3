package common

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/docsite/internal/markup"
)

// BetaBadge marks work in progress entries.
func BetaBadge() templ.Component {
	return markup.El("span", markup.Attrs{
		markup.A("class", "beta-badge absolute py-1 px-3 text-sm font-semibold text-black bg-amber-300 rounded-full shadow-sm"),
	}, markup.Text("Beta"))
}

// Tooltip renders a hover label. It shows while its parent, marked with the
// has-tooltip class, is hovered or focused.
func Tooltip(id, label string) templ.Component {
	return markup.El("span", markup.Attrs{
		markup.A("id", id),
		markup.A("role", "tooltip"),
		markup.A("class", "absolute z-10 py-2 px-4 max-w-xs text-sm text-center rounded-lg border shadow-md bg-slate-200 text-slate-900 border-slate-300"),
	}, markup.Text(label))
}
