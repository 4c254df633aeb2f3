package content

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is an entry of a page's table of contents.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// TOC returns the page's table of contents: section headings and the h2/h3
// headings found inside HTML sections, in document order. Tab panels are not
// scanned since only one of them is visible at a time.
func (p *Page) TOC() ([]Heading, error) {
	var out []Heading
	for _, sec := range p.Sections {
		if sec.Heading != "" {
			out = append(out, Heading{Level: 2, ID: sec.ID, Text: sec.Heading})
		}
		if sec.HTML == "" {
			continue
		}
		hs, err := ExtractHeadings(sec.HTML)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", sec.ID, err)
		}
		out = append(out, hs...)
	}
	return out, nil
}

// ExtractHeadings parses an HTML fragment and returns its h2 and h3
// headings. Headings without an id get one derived from their text.
func ExtractHeadings(fragment string) ([]Heading, error) {
	_, hs, err := anchorHeadings(fragment)
	return hs, err
}

// AnchorHeadings returns fragment with an id on every h2 and h3, so the
// table of contents can link to them.
func AnchorHeadings(fragment string) (string, error) {
	out, _, err := anchorHeadings(fragment)
	return out, err
}

func anchorHeadings(fragment string) (string, []Heading, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return "", nil, fmt.Errorf("parse html: %w", err)
	}

	var out []Heading
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.H2 || n.DataAtom == atom.H3) {
			text := strings.Join(strings.Fields(textContent(n)), " ")
			id := attr(n, "id")
			if id == "" {
				id = Slugify(text)
				n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: id})
			}
			level := 2
			if n.DataAtom == atom.H3 {
				level = 3
			}
			out = append(out, Heading{Level: level, ID: id, Text: text})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	var sb strings.Builder
	for _, n := range nodes {
		walk(n)
		if err := html.Render(&sb, n); err != nil {
			return "", nil, fmt.Errorf("render html: %w", err)
		}
	}
	return sb.String(), out, nil
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
