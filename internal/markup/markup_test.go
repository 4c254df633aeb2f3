package markup

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// El Tests
// =============================================================================

func TestEl(t *testing.T) {
	tests := []struct {
		name string
		c    templ.Component
		want string
	}{
		{
			name: "no attributes or children",
			c:    El("div", nil),
			want: `<div></div>`,
		},
		{
			name: "attributes in order",
			c:    El("a", Attrs{A("href", "/docs?tab=next"), A("role", "tab")}, Text("Next.js")),
			want: `<a href="/docs?tab=next" role="tab">Next.js</a>`,
		},
		{
			name: "bool attributes",
			c:    El("button", Attrs{A("disabled", true), A("hidden", false)}),
			want: `<button disabled></button>`,
		},
		{
			name: "attribute values are escaped",
			c:    El("div", Attrs{A("title", `"quoted" & <b>`)}),
			want: `<div title="&#34;quoted&#34; &amp; &lt;b&gt;"></div>`,
		},
		{
			name: "nil children are skipped",
			c:    El("ul", nil, nil, El("li", nil, Text("one")), nil),
			want: `<ul><li>one</li></ul>`,
		},
		{
			name: "nested elements",
			c:    El("div", Attrs{A("class", "panel")}, El("p", nil, Text("a")), El("p", nil, Text("b"))),
			want: `<div class="panel"><p>a</p><p>b</p></div>`,
		},
		{
			name: "void element has no closing tag",
			c:    El("img", Attrs{A("src", "/static/img/next.svg"), A("alt", "")}),
			want: `<img src="/static/img/next.svg" alt="">`,
		},
		{
			name: "void element drops children",
			c:    El("br", nil, Text("ignored")),
			want: `<br>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(context.Background(), tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEl_ChildError(t *testing.T) {
	boom := errors.New("boom")
	failing := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })

	_, err := Render(context.Background(), El("div", nil, Text("before"), failing, Text("after")))
	assert.ErrorIs(t, err, boom)
}

func TestText_Escapes(t *testing.T) {
	got, err := Render(context.Background(), Text(`<script>alert("x")</script>`))
	require.NoError(t, err)
	assert.Equal(t, `&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;`, got)
}

// =============================================================================
// Class Tests
// =============================================================================

func TestClass(t *testing.T) {
	tests := []struct {
		name  string
		parts []any
		want  string
	}{
		{name: "empty", want: ""},
		{name: "space separated", parts: []any{"px-4  py-2", "text-sm"}, want: "px-4 py-2 text-sm"},
		{name: "duplicates dropped", parts: []any{"border", "border rounded"}, want: "border rounded"},
		{name: "enabled pair", parts: []any{"tab", templ.KV("active", true)}, want: "tab active"},
		{name: "disabled pair", parts: []any{"tab", templ.KV("active", false)}, want: "tab"},
		{name: "pair with several names", parts: []any{templ.KV("border-b-0 z-10", true)}, want: "border-b-0 z-10"},
		{name: "later disable wins", parts: []any{"tab border", templ.KV("border", false)}, want: "tab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Class(tt.parts...))
		})
	}
}
