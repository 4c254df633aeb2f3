package content

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/docsite/internal/location"
	"github.com/leapstack-labs/docsite/internal/tabs"
	"github.com/leapstack-labs/docsite/internal/testutil"
)

// ===== Loading =====

func TestEmbedded(t *testing.T) {
	site, err := Embedded()
	require.NoError(t, err)

	p, err := site.Page("getting-started/installation")
	require.NoError(t, err)
	assert.Equal(t, "Installation", p.Title)

	g, ok := p.TabGroup("framework")
	require.True(t, ok)
	assert.Equal(t, "tab", g.QueryKey())
	assert.Equal(t, "next", g.Default)
	assert.Equal(t, tabs.Horizontal, g.Orientation)
	require.Len(t, g.Items, 4)
	assert.False(t, g.Items[0].Beta)
	assert.True(t, g.Items[1].Beta)

	guides, err := site.Page("guides")
	require.NoError(t, err)
	provider, ok := guides.TabGroup("provider")
	require.True(t, ok)
	assert.Equal(t, tabs.Vertical, provider.Orientation)
	assert.Equal(t, "github", provider.Default, "default falls back to the first item")
}

func TestSite_Page(t *testing.T) {
	site, err := Embedded()
	require.NoError(t, err)

	tests := []struct {
		slug    string
		want    string
		wantErr bool
	}{
		{"getting-started/installation", "getting-started/installation", false},
		{"/getting-started/installation/", "getting-started/installation", false},
		{"getting-started", "getting-started", false},
		{"getting-started/index", "getting-started", false},
		{"", "", false},
		{"index", "", false},
		{"contributors", "contributors", false},
		{"missing", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			p, err := site.Page(tt.slug)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrPageNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Slug)
		})
	}
}

func TestSite_Navigation(t *testing.T) {
	site, err := Embedded()
	require.NoError(t, err)

	var names []string
	for _, n := range site.Nav() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{
		"index", "getting-started", "guides", "reference", "concepts", "security", "contributors", "sponsors",
	}, names)

	var titles []string
	for _, n := range site.Navbar() {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"Getting Started", "Guides", "API reference", "Concepts", "Security"}, titles)

	sidebar := site.Sidebar("getting-started/installation")
	require.Len(t, sidebar, 2)
	assert.Equal(t, "Installation", sidebar[0].Title)
	assert.Equal(t, "getting-started/installation", sidebar[0].Slug)
	assert.Equal(t, "Session Management", sidebar[1].Title)
}

func TestLoad_MetaOrderAndTitles(t *testing.T) {
	fsys := fstest.MapFS{
		"_meta.yaml":          {Data: []byte("zeta: Last Letter\nalpha:\n  title: First\n  display: hidden\n")},
		"alpha.yaml":          {Data: []byte("title: Alpha\n")},
		"beta.yaml":           {Data: []byte("title: Beta\n")},
		"zeta.yaml":           {Data: []byte("title: Zeta\n")},
		"docs-home/page.yaml": {Data: []byte("{}\n")},
	}

	site, err := Load(fsys)
	require.NoError(t, err)

	nav := site.Nav()
	require.Len(t, nav, 4)
	assert.Equal(t, "Last Letter", nav[0].Title)
	assert.Equal(t, "First", nav[1].Title)
	assert.False(t, nav[1].Listed())
	// Undeclared entries follow in name order
	assert.Equal(t, "Beta", nav[2].Title)
	assert.Equal(t, "Docs Home", nav[3].Title)
	assert.Equal(t, "docs-home/page", nav[3].Slug, "directory without an index links to its first page")

	p, err := site.Page("docs-home/page")
	require.NoError(t, err)
	assert.Equal(t, "Page", p.Title)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"unknown meta type", "_meta.yaml", "a:\n  type: sidebar\n"},
		{"meta not a mapping", "_meta.yaml", "- a\n- b\n"},
		{"invalid page yaml", "a.yaml", "title: [\n"},
		{"empty tab group", "a.yaml", "sections:\n  - tabs:\n      id: g\n"},
		{"duplicate tab", "a.yaml", "sections:\n  - tabs:\n      items:\n        - id: x\n        - id: x\n"},
		{"default not an item", "a.yaml", "sections:\n  - tabs:\n      default: y\n      items:\n        - id: x\n"},
		{"bad orientation", "a.yaml", "sections:\n  - tabs:\n      orientation: diagonal\n      items:\n        - id: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(fstest.MapFS{tt.file: {Data: []byte(tt.data)}})
			assert.Error(t, err)
		})
	}
}

func TestLoad_TabDefaults(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte(`
sections:
  - heading: Pick One
    tabs:
      orientation: Vertical
      items:
        - label: Solid Start
        - id: next
`)},
	}

	site, err := Load(fsys)
	require.NoError(t, err)
	p, err := site.Page("a")
	require.NoError(t, err)

	assert.Equal(t, "pick-one", p.Sections[0].ID)
	g, ok := p.TabGroup("tabs-1")
	require.True(t, ok)
	assert.Equal(t, tabs.Vertical, g.Orientation)
	assert.Equal(t, "solid-start", g.Items[0].ID)
	assert.Equal(t, "Next", g.Items[1].Label)
	assert.Equal(t, "solid-start", g.Default)
	assert.Equal(t, tabs.DefaultKey, g.QueryKey())
}

func TestLoadDir_NotADirectory(t *testing.T) {
	_, err := LoadDir(t.TempDir() + "/missing")
	assert.Error(t, err)
}

// ===== Naming =====

func TestTitleFromName(t *testing.T) {
	assert.Equal(t, "Getting Started", TitleFromName("getting-started"))
	assert.Equal(t, "Session Management", TitleFromName("session_management"))
	assert.Equal(t, "Index", TitleFromName("index"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "installing-auth-js", Slugify("Installing Auth.js"))
	assert.Equal(t, "next-js", Slugify("  Next.js "))
	assert.Equal(t, "", Slugify("!!"))
}

// ===== TOC =====

func TestExtractHeadings(t *testing.T) {
	hs, err := ExtractHeadings(`<p>x</p><h3 id="flexible">Flexible <em>and</em> easy</h3><div><h2>Own   your data</h2></div><h4>skip</h4>`)
	require.NoError(t, err)
	assert.Equal(t, []Heading{
		{Level: 3, ID: "flexible", Text: "Flexible and easy"},
		{Level: 2, ID: "own-your-data", Text: "Own your data"},
	}, hs)
}

func TestAnchorHeadings(t *testing.T) {
	out, err := AnchorHeadings(`<h3>Own your data</h3><p>text</p><h2 id="kept">Kept</h2>`)
	require.NoError(t, err)
	assert.Equal(t, `<h3 id="own-your-data">Own your data</h3><p>text</p><h2 id="kept">Kept</h2>`, out)
}

func TestPage_SectionHeadingsAreAnchored(t *testing.T) {
	site, err := Embedded()
	require.NoError(t, err)
	p, err := site.Page("getting-started")
	require.NoError(t, err)

	assert.Contains(t, p.Sections[1].HTML, `<h3 id="own-your-data">`)
}

func TestPage_TOC(t *testing.T) {
	site, err := Embedded()
	require.NoError(t, err)
	p, err := site.Page("getting-started")
	require.NoError(t, err)

	toc, err := p.TOC()
	require.NoError(t, err)
	require.Len(t, toc, 4)
	assert.Equal(t, Heading{Level: 2, ID: "about", Text: "About"}, toc[0])
	assert.Equal(t, "flexible", toc[2].ID)
	assert.Equal(t, "own-your-data", toc[3].ID)
}

// ===== Export =====

func TestPage_Markdown(t *testing.T) {
	site, err := Embedded()
	require.NoError(t, err)
	p, err := site.Page("getting-started/installation")
	require.NoError(t, err)

	md, err := p.Markdown(Selection{"framework": "sveltekit"})
	require.NoError(t, err)
	assert.Contains(t, md, "# Installation")
	assert.Contains(t, md, "## Installing Auth.js")
	assert.Contains(t, md, "@auth/sveltekit")
	assert.NotContains(t, md, "next-auth@beta")

	md, err = p.Markdown(Selection{"framework": "unknown"})
	require.NoError(t, err)
	assert.Contains(t, md, "next-auth@beta", "unknown tab falls back to the default")
}

func TestPage_SelectionFrom(t *testing.T) {
	site, err := Embedded()
	require.NoError(t, err)
	p, err := site.Page("getting-started/installation")
	require.NoError(t, err)

	tests := []struct {
		name  string
		query location.Static
		want  string
	}{
		{name: "absent", query: location.Static{}, want: "next"},
		{name: "empty", query: location.Static{"tab": {""}}, want: "next"},
		{name: "single", query: location.Static{"tab": {"express"}}, want: "express"},
		{name: "repeated takes the first", query: location.Static{"tab": {"sveltekit", "express"}}, want: "sveltekit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Selection{"framework": tt.want}, p.SelectionFrom(tt.query))
		})
	}
}

// ===== Repository =====

func TestRepository_Reload(t *testing.T) {
	fsys := fstest.MapFS{"a.yaml": {Data: []byte("title: A\n")}}
	fail := false
	source := func() (*Site, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return Load(fsys)
	}

	repo, err := NewRepository(source, testutil.NewTestLogger(t))
	require.NoError(t, err)
	first := repo.Site()

	fsys["b.yaml"] = &fstest.MapFile{Data: []byte("title: B\n")}
	require.NoError(t, repo.Reload())
	_, err = repo.Site().Page("b")
	assert.NoError(t, err)

	fail = true
	assert.Error(t, repo.Reload())
	_, err = repo.Site().Page("b")
	assert.NoError(t, err, "failed reload keeps the previous tree")
	assert.NotSame(t, first, repo.Site())
}

func TestDirSource(t *testing.T) {
	site, err := DirSource("")()
	require.NoError(t, err)
	assert.NotEmpty(t, site.Pages())
}
