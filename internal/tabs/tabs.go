// Package tabs implements a compound tab widget whose selected panel is kept
// in sync with a location query parameter.
//
// A Container owns the selection for one tab group. It seeds the selection
// from the location when it is created, follows external navigation while it
// is mounted, and mirrors user selections back into the location when it has
// been given write access. Sub-elements (Root, List, Trigger, Content) are
// stateless templ components that read the selection through a Handle.
package tabs

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultKey is the query parameter tab groups bind to unless configured
// otherwise.
const DefaultKey = "tab"

// Orientation controls how triggers and lists are laid out. It never affects
// selection.
type Orientation string

// Orientation values.
const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// ParseOrientation parses an orientation name. The empty string parses as
// Horizontal.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case "", Horizontal:
		return Horizontal, nil
	case Vertical:
		return Vertical, nil
	default:
		return "", fmt.Errorf("unknown orientation %q (want horizontal or vertical)", s)
	}
}

// String implements fmt.Stringer.
func (o Orientation) String() string {
	if o == "" {
		return string(Horizontal)
	}
	return string(o)
}

// Snapshot is the selection state observed after a change.
type Snapshot struct {
	Selected    string
	Orientation Orientation
}

// Handle is the read-only view of a tab group handed to sub-elements, so
// triggers and panels can tell whether they are selected without having the
// selection threaded through every call.
type Handle interface {
	// Selected returns the currently selected tab identifier.
	Selected() string
	// Orientation returns the group's layout orientation.
	Orientation() Orientation
	// IsSelected reports whether id is the selected tab.
	IsSelected(id string) bool
	// Href returns the link a trigger for id points at.
	Href(id string) string
	// Action returns the client action a trigger for id runs on activation,
	// or "" when triggers should fall back to plain links.
	Action(id string) string
}

// queryHref is the default trigger link: the current page with only the tab
// parameter replaced.
func queryHref(key string) func(string) string {
	return func(id string) string {
		return "?" + url.Values{key: {id}}.Encode()
	}
}
