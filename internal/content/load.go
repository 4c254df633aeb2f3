package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/docsite/internal/tabs"
)

const (
	metaFile = "_meta.yaml"
	pageExt  = ".yaml"
)

// metaEntry is one entry of a _meta.yaml file.
type metaEntry struct {
	Name    string    `yaml:"-"`
	Title   string    `yaml:"title"`
	Type    EntryType `yaml:"type"`
	Display string    `yaml:"display"`
}

// LoadDir loads the content tree rooted at dir.
func LoadDir(dir string) (*Site, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content directory: %s is not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// Load loads the content tree rooted at the top of fsys.
func Load(fsys fs.FS) (*Site, error) {
	s := &Site{pages: make(map[string]*Page)}
	nav, err := s.loadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	s.nav = nav
	return s, nil
}

func (s *Site) loadDir(fsys fs.FS, dir string) ([]NavItem, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	meta, err := readMeta(fsys, path.Join(dir, metaFile))
	if err != nil {
		return nil, err
	}

	items := make(map[string]*NavItem)
	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}

		switch {
		case e.IsDir():
			children, err := s.loadDir(fsys, path.Join(dir, name))
			if err != nil {
				return nil, err
			}
			item := itemFor(items, &names, name)
			item.Children = children
			if item.Slug == "" {
				item.Slug = normalizeSlug(path.Join(dir, name))
			}
			if p, ok := s.pages[item.Slug]; ok && item.Title == "" {
				item.Title = p.Title
			}

		case path.Ext(name) == pageExt:
			base := strings.TrimSuffix(name, pageExt)
			p, err := readPage(fsys, path.Join(dir, name))
			if err != nil {
				return nil, err
			}
			if base == "index" && dir != "." {
				// A directory index is the page of the directory itself
				s.pages[p.Slug] = p
				continue
			}
			s.pages[p.Slug] = p
			item := itemFor(items, &names, base)
			item.Slug = p.Slug
			item.Title = p.Title
		}
	}

	ordered := make([]NavItem, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, m := range meta {
		item, ok := items[m.Name]
		if !ok {
			continue
		}
		if m.Title != "" {
			item.Title = m.Title
		}
		if m.Type != "" {
			item.Type = m.Type
		}
		item.Hidden = m.Display == "hidden"
		ordered = append(ordered, *item)
		seen[m.Name] = true
	}

	sort.Strings(names)
	for _, name := range names {
		if !seen[name] {
			ordered = append(ordered, *items[name])
		}
	}

	for i := range ordered {
		if ordered[i].Title == "" {
			ordered[i].Title = TitleFromName(ordered[i].Name)
		}
		if _, ok := s.pages[ordered[i].Slug]; !ok {
			ordered[i].Slug = firstPage(ordered[i].Children, ordered[i].Slug)
		}
	}
	return ordered, nil
}

func itemFor(items map[string]*NavItem, names *[]string, name string) *NavItem {
	if item, ok := items[name]; ok {
		return item
	}
	item := &NavItem{Name: name, Type: TypeDoc}
	items[name] = item
	*names = append(*names, name)
	return item
}

func firstPage(children []NavItem, fallback string) string {
	for _, c := range children {
		if c.Listed() {
			return c.Slug
		}
	}
	return fallback
}

func readMeta(fsys fs.FS, name string) ([]metaEntry, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return parseMeta(name, data)
}

// parseMeta decodes a _meta.yaml mapping, keeping the declared order. A value
// is either a plain title or a mapping of title, type and display.
func parseMeta(name string, data []byte) ([]metaEntry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: expected a mapping", name)
	}

	entries := make([]metaEntry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		e := metaEntry{Name: root.Content[i].Value}
		val := root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			e.Title = val.Value
		case yaml.MappingNode:
			if err := val.Decode(&e); err != nil {
				return nil, fmt.Errorf("parse %s: entry %q: %w", name, e.Name, err)
			}
		default:
			return nil, fmt.Errorf("parse %s: entry %q: unsupported value", name, e.Name)
		}
		switch e.Type {
		case "", TypeDoc, TypePage, TypeHidden:
		default:
			return nil, fmt.Errorf("parse %s: entry %q: unknown type %q", name, e.Name, e.Type)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readPage(fsys fs.FS, name string) (*Page, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var p Page
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	p.Slug = normalizeSlug(strings.TrimSuffix(name, pageExt))
	if p.Title == "" {
		p.Title = TitleFromName(path.Base(strings.TrimSuffix(name, pageExt)))
	}

	if err := p.normalize(); err != nil {
		return nil, fmt.Errorf("page %s: %w", name, err)
	}
	return &p, nil
}

func (p *Page) normalize() error {
	groupIDs := make(map[string]bool)
	for i := range p.Sections {
		sec := &p.Sections[i]
		if sec.ID == "" && sec.Heading != "" {
			sec.ID = Slugify(sec.Heading)
		}
		if sec.HTML != "" {
			anchored, err := AnchorHeadings(sec.HTML)
			if err != nil {
				return fmt.Errorf("section %q: %w", sec.ID, err)
			}
			sec.HTML = anchored
		}
		if sec.Tabs == nil {
			continue
		}

		g := sec.Tabs
		if g.ID == "" {
			g.ID = fmt.Sprintf("tabs-%d", len(groupIDs)+1)
		}
		if groupIDs[g.ID] {
			return fmt.Errorf("duplicate tab group %q", g.ID)
		}
		groupIDs[g.ID] = true

		if len(g.Items) == 0 {
			return fmt.Errorf("tab group %q has no items", g.ID)
		}
		itemIDs := make(map[string]bool, len(g.Items))
		for j := range g.Items {
			it := &g.Items[j]
			if it.ID == "" {
				it.ID = Slugify(it.Label)
			}
			if it.ID == "" {
				return fmt.Errorf("tab group %q: item %d has no id", g.ID, j)
			}
			if itemIDs[it.ID] {
				return fmt.Errorf("tab group %q: duplicate item %q", g.ID, it.ID)
			}
			itemIDs[it.ID] = true
			if it.Label == "" {
				it.Label = TitleFromName(it.ID)
			}
		}
		if g.Default == "" {
			g.Default = g.Items[0].ID
		}
		if !itemIDs[g.Default] {
			return fmt.Errorf("tab group %q: default %q is not one of its items", g.ID, g.Default)
		}

		o, err := tabs.ParseOrientation(string(g.Orientation))
		if err != nil {
			return fmt.Errorf("tab group %q: %w", g.ID, err)
		}
		g.Orientation = o
	}
	return nil
}
