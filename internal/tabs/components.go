package tabs

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/docsite/internal/markup"
)

// Props are the optional attributes shared by all sub-elements.
type Props struct {
	ID    string
	Class string
	Attrs markup.Attrs
}

func (p Props) attrs(base ...markup.Attr) markup.Attrs {
	attrs := make(markup.Attrs, 0, len(base)+len(p.Attrs)+1)
	if p.ID != "" {
		attrs = append(attrs, markup.A("id", p.ID))
	}
	attrs = append(attrs, base...)
	return append(attrs, p.Attrs...)
}

// Root renders the element wrapping a whole tab group.
func Root(h Handle, p Props, children ...templ.Component) templ.Component {
	return markup.El("div", p.attrs(
		markup.A("class", RootClasses(h.Orientation(), p.Class)),
		markup.A("data-orientation", h.Orientation().String()),
		markup.A("data-selected", h.Selected()),
	), children...)
}

// List renders the row (or column) holding the triggers.
func List(h Handle, p Props, children ...templ.Component) templ.Component {
	return markup.El("div", p.attrs(
		markup.A("role", "tablist"),
		markup.A("aria-orientation", h.Orientation().String()),
		markup.A("class", ListClasses(h.Orientation(), p.Class)),
	), children...)
}

// Trigger renders the trigger for tab id. Activating it requests selection
// through the handle's action, falling back to following its link.
func Trigger(h Handle, id string, p Props, children ...templ.Component) templ.Component {
	selected := h.IsSelected(id)
	attrs := []markup.Attr{
		markup.A("role", "tab"),
		markup.A("href", h.Href(id)),
		markup.A("data-tab", id),
		markup.A("data-state", state(selected)),
		markup.A("aria-selected", ariaBool(selected)),
		markup.A("tabindex", tabIndex(selected)),
		markup.A("class", TriggerClasses(h.Orientation(), selected, p.Class)),
	}
	if action := h.Action(id); action != "" {
		attrs = append(attrs, markup.A("data-on:click__prevent", action))
	}
	return markup.El("a", p.attrs(attrs...), children...)
}

// Content renders the panel for tab id. Every panel stays in the document;
// only the selected one is visible and interactive.
func Content(h Handle, id string, p Props, children ...templ.Component) templ.Component {
	selected := h.IsSelected(id)
	return markup.El("div", p.attrs(
		markup.A("role", "tabpanel"),
		markup.A("data-tab", id),
		markup.A("data-state", state(selected)),
		markup.A("hidden", !selected),
		markup.A("inert", !selected),
		markup.A("tabindex", tabIndex(selected)),
		markup.A("class", ContentClasses(p.Class)),
	), children...)
}

func state(selected bool) string {
	if selected {
		return "active"
	}
	return "inactive"
}

func ariaBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func tabIndex(selected bool) string {
	if selected {
		return "0"
	}
	return "-1"
}
