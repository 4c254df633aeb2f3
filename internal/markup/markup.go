// Package markup builds templ components in plain Go for the small,
// attribute-driven elements that do not warrant a .templ file.
package markup

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// voidElements never carry children or a closing tag.
var voidElements = map[string]bool{
	"img": true, "br": true, "hr": true, "meta": true, "link": true, "input": true,
}

// Attr is a single attribute. Values follow templ.RenderAttributes: strings
// render as key="value", bools render as a bare key when true and are dropped
// when false.
type Attr = templ.KeyValue[string, any]

// A returns an attribute.
func A(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Attrs collects attributes in render order.
type Attrs = templ.OrderedAttributes

// El renders <tag attrs...>children...</tag>.
func El(tag string, attrs Attrs, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+tag); err != nil {
			return err
		}
		if err := templ.RenderAttributes(ctx, w, attrs); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if voidElements[tag] {
			return nil
		}
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

// Text renders escaped text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// Class joins class lists, dropping disabled and duplicate names. Arguments
// may be space separated strings or templ.KV(string, bool) pairs.
func Class(parts ...any) string {
	classes := make(templ.CSSClasses, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			for _, name := range strings.Fields(v) {
				classes = append(classes, name)
			}
		case templ.KeyValue[string, bool]:
			for _, name := range strings.Fields(v.Key) {
				classes = append(classes, templ.KV(name, v.Value))
			}
		default:
			classes = append(classes, v)
		}
	}
	return classes.String()
}

// Render renders c to a string.
func Render(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
