package tabs

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/docsite/internal/markup"
)

const (
	rootClass    = "px-0 pt-4 m-0 rounded-lg mt-2"
	listClass    = "flex items-center justify-start"
	triggerClass = "relative font-semibold dark:bg-neutral-900 bg-slate-50 text-sm border-solid " +
		"dark:border-gray-800 border-slate-200 flex flex-col items-center justify-between w-48 h-28 " +
		"dark:aria-selected:bg-neutral-700 transition-all duration-300 aria-selected:bg-white"
	contentClass = "border border-solid dark:border-gray-800 border-slate-200 " +
		"rounded-bl-lg rounded-br-lg rounded-tr-lg shadow-sm"

	// Horizontal triggers sit on top of the panel: rounded top corners and no
	// bottom border once selected, so the tab merges into the panel below.
	horizontalTriggerClass = "rounded-tl-lg rounded-tr-lg border-l border-t border-r"
	horizontalSelected     = "border-b-white"

	// Vertical triggers sit left of the panel: rounded left corners and no
	// border on the side touching it.
	verticalTriggerClass = "rounded-tl-md rounded-bl-md border border-r-0"
)

// RootClasses returns the classes of a tab group root.
func RootClasses(o Orientation, extra string) string {
	return markup.Class(rootClass, templ.KV("flex flex-row", o == Vertical), extra)
}

// ListClasses returns the classes of a trigger list.
func ListClasses(o Orientation, extra string) string {
	return markup.Class(listClass, templ.KV("flex-row", o != Vertical), templ.KV("flex-col items-stretch", o == Vertical), extra)
}

// TriggerClasses returns the classes of a trigger for the given orientation
// and selection.
func TriggerClasses(o Orientation, selected bool, extra string) string {
	if o == Vertical {
		return markup.Class(triggerClass, extra, verticalTriggerClass)
	}
	return markup.Class(triggerClass, extra, horizontalTriggerClass, templ.KV(horizontalSelected, selected))
}

// ContentClasses returns the classes of a panel. Panels are framed the same
// way in both orientations.
func ContentClasses(extra string) string {
	return markup.Class(contentClass, extra)
}
