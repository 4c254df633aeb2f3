package docs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/docsite/internal/testutil"
	"github.com/leapstack-labs/docsite/internal/ui/features"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
	"github.com/leapstack-labs/docsite/internal/ui/live"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

const installation = "/docs/getting-started/installation"

var viewAttr = regexp.MustCompile(`data-view="([^"]+)"`)

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t)
	return newTestHandlers(t, fixture), fixture
}

func newTestHandlers(t *testing.T, fixture *features.TestFixture) *Handlers {
	t.Helper()
	return NewHandlers(
		fixture.Repo,
		fixture.SessionStore,
		fixture.Notifier,
		fixture.Registry,
		nil,
		fixture.Settings,
		testutil.NewTestLogger(t),
	)
}

// getPage runs the page handler for target, e.g. "/docs/guides?provider=google".
func getPage(h *Handlers, target string) *httptest.ResponseRecorder {
	u, _ := url.Parse(target)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = features.RequestWithPathParam(req, "*", strings.TrimPrefix(u.Path, "/docs/"))
	rec := httptest.NewRecorder()
	h.DocsPage(rec, req)
	return rec
}

// openView renders target and returns the live view it opened together with
// the response carrying the session cookie.
func openView(t *testing.T, h *Handlers, fixture *features.TestFixture, target string) (*live.View, *httptest.ResponseRecorder) {
	t.Helper()

	rec := getPage(h, target)
	require.Equal(t, http.StatusOK, rec.Code)

	m := viewAttr.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "page should reference a live view")

	session := common.ExistingSessionID(fixture.SessionStore, features.WithCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	require.NotEmpty(t, session)

	view, err := fixture.Registry.Get(m[1], session)
	require.NoError(t, err)
	return view, rec
}

// liveRequest builds a request to a live endpoint of view, sent from the
// browser that received page.
func liveRequest(method, target string, body io.Reader, page *httptest.ResponseRecorder, params ...string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if page != nil {
		req = features.WithCookies(req, page)
	}
	return features.RequestWithPathParam(req, params...)
}

// runUpdates runs the SSE endpoint of view until timeout, calling during
// once the stream is attached, and returns the streamed body.
func runUpdates(t *testing.T, h *Handlers, view *live.View, page *httptest.ResponseRecorder, timeout time.Duration, during func()) string {
	t.Helper()

	req := liveRequest(http.MethodGet, "/live/"+view.ID+"/updates", nil, page, "view", view.ID)
	ctx, cancel := context.WithTimeout(req.Context(), timeout)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.LiveUpdates(rec, req)
		close(done)
	}()

	if during != nil {
		time.Sleep(50 * time.Millisecond)
		during()
	}
	<-done
	return rec.Body.String()
}

// =============================================================================
// DocsIndex / DocsPage Tests
// =============================================================================

func TestDocsIndex_RedirectsToFirstSection(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.DocsIndex(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/docs/getting-started", rec.Header().Get("Location"))
}

func TestDocsPage(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   []string
		notInBody  []string
	}{
		{
			name:       "renders a section index with sidebar and table of contents",
			target:     "/docs/getting-started",
			wantStatus: http.StatusOK,
			wantBody: []string{
				"<!doctype html>",
				"<title>Introduction - Auth.js</title>",
				`href="/docs/getting-started/installation"`,
				`href="#flexible"`,
				`href="#own-your-data"`,
				"Scroll to top",
				`href="https://github.com/nextauthjs/next-auth/edit/main/docs/getting-started.yaml"`,
				`href="/docs/getting-started.md"`,
				"Auth.js v5 is out.",
			},
			notInBody: []string{"data-view"},
		},
		{
			name:       "renders tab groups with the query selection",
			target:     installation + "?tab=express",
			wantStatus: http.StatusOK,
			wantBody: []string{
				`id="tabs-framework"`,
				`data-view="`,
				"/updates",
				"npm install @auth/express",
				"Beta",
				"Officially supported but not documented.",
			},
		},
		{
			name:       "hidden pages are routable",
			target:     "/docs/contributors",
			wantStatus: http.StatusOK,
			wantBody:   []string{"<title>Contributors - Auth.js</title>"},
		},
		{
			name:       "unknown page",
			target:     "/docs/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)

			rec := getPage(h, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want, "response should contain %q", want)
			}
			for _, not := range tt.notInBody {
				assert.NotContains(t, body, not)
			}
		})
	}
}

func TestDocsPage_OpensViewsOnlyForTabPages(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	getPage(h, "/docs/getting-started")
	getPage(h, "/docs/security")
	assert.Equal(t, 0, fixture.Registry.Len())

	getPage(h, installation)
	getPage(h, "/docs/guides")
	assert.Equal(t, 2, fixture.Registry.Len())
}

func TestDocsPage_SeedsSelectionFromQuery(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   map[string]string
	}{
		{name: "query names a tab", target: installation + "?tab=sveltekit", want: map[string]string{"framework": "sveltekit"}},
		{name: "no query uses the default", target: installation, want: map[string]string{"framework": "next"}},
		{name: "empty value uses the default", target: installation + "?tab=", want: map[string]string{"framework": "next"}},
		{name: "repeated key takes the first", target: installation + "?tab=express&tab=next", want: map[string]string{"framework": "express"}},
		{name: "custom key", target: "/docs/guides?provider=discord", want: map[string]string{"provider": "discord"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			view, _ := openView(t, h, fixture, tt.target)
			assert.Equal(t, tt.want, view.Selection())
		})
	}
}

func TestDocsPage_SingleSelectedPanel(t *testing.T) {
	h, _ := setupTestHandlers(t)

	body := getPage(h, installation+"?tab=solidstart").Body.String()

	assert.Equal(t, 1, strings.Count(body, `aria-selected="true"`))
	assert.Equal(t, 3, strings.Count(body, " hidden inert"), "every other panel is hidden")
}

// =============================================================================
// Markdown export Tests
// =============================================================================

func TestDocsPage_Markdown(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		want      string
		notWant   string
		wantCode  int
		wantPlain bool
	}{
		{name: "default tab", target: installation + ".md", want: "next-auth@beta", notWant: "@auth/express", wantCode: http.StatusOK},
		{name: "query tab", target: installation + ".md?tab=express", want: "@auth/express", notWant: "next-auth@beta", wantCode: http.StatusOK},
		{name: "unknown tab falls back to the default", target: installation + ".md?tab=remix", want: "next-auth@beta", wantCode: http.StatusOK},
		{name: "unknown page", target: "/docs/nope.md", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)

			rec := getPage(h, tt.target)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, 0, fixture.Registry.Len(), "export opens no live view")
			if tt.wantCode != http.StatusOK {
				return
			}
			assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "# Installation")
			assert.Contains(t, rec.Body.String(), tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, rec.Body.String(), tt.notWant)
			}
		})
	}
}

// =============================================================================
// SelectTab Tests
// =============================================================================

func TestSelectTab(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	view, page := openView(t, h, fixture, installation)

	req := liveRequest(http.MethodPost, "/live/"+view.ID+"/tabs/framework/select?id=sveltekit", nil, page,
		"view", view.ID, "group", "framework")
	rec := httptest.NewRecorder()
	h.SelectTab(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, map[string]string{"framework": "sveltekit"}, view.Selection())
	assert.Equal(t, []string{"sveltekit"}, view.Location.Get("tab"), "selection is written back to the location")
	assert.Equal(t, int64(1), view.Version())
}

func TestSelectTab_UnknownTab(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	view, page := openView(t, h, fixture, installation)

	req := liveRequest(http.MethodPost, "/live/"+view.ID+"/tabs/framework/select?id=remix", nil, page,
		"view", view.ID, "group", "framework")
	rec := httptest.NewRecorder()
	h.SelectTab(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, map[string]string{"framework": "remix"}, view.Selection())
	assert.Equal(t, []string{"remix"}, view.Location.Get("tab"))

	c, ok := view.Container("framework")
	require.True(t, ok)
	for _, id := range []string{"next", "sveltekit", "express", "solidstart"} {
		assert.False(t, c.IsSelected(id), "no panel is active for %s", id)
	}
}

func TestSelectTab_Errors(t *testing.T) {
	tests := []struct {
		name       string
		group      string
		id         string
		anonymous  bool
		wantStatus int
	}{
		{name: "missing id", group: "framework", id: "", wantStatus: http.StatusBadRequest},
		{name: "unknown group", group: "provider", id: "github", wantStatus: http.StatusNotFound},
		{name: "other session", group: "framework", id: "express", anonymous: true, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			view, page := openView(t, h, fixture, installation)
			if tt.anonymous {
				page = nil
			}

			req := liveRequest(http.MethodPost, "/live/"+view.ID+"/tabs/"+tt.group+"/select?id="+tt.id, nil, page,
				"view", view.ID, "group", tt.group)
			rec := httptest.NewRecorder()
			h.SelectTab(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "next", view.Selection()["framework"], "selection is unchanged")
		})
	}
}

// =============================================================================
// Navigate Tests
// =============================================================================

func TestNavigate_MovesSelection(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	view, page := openView(t, h, fixture, installation+"?tab=express")

	body := strings.NewReader(`{"url":"` + installation + `"}`)
	rec := httptest.NewRecorder()
	h.Navigate(rec, liveRequest(http.MethodPost, "/live/"+view.ID+"/navigate", body, page, "view", view.ID))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Eventually(t, func() bool {
		return view.Selection()["framework"] == "next"
	}, time.Second, 5*time.Millisecond, "removing the query resets to the default")
}

func TestNavigate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "another page", body: `{"url":"/docs/guides?tab=express"}`, wantStatus: http.StatusConflict},
		{name: "malformed body", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "empty url", body: `{}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			view, page := openView(t, h, fixture, installation)

			rec := httptest.NewRecorder()
			h.Navigate(rec, liveRequest(http.MethodPost, "/live/"+view.ID+"/navigate", strings.NewReader(tt.body), page, "view", view.ID))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, installation, view.Location.String())
		})
	}
}

// =============================================================================
// LiveUpdates Tests - SSE endpoint for live tab groups
// =============================================================================

func TestLiveUpdates_UnknownView(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.LiveUpdates(rec, liveRequest(http.MethodGet, "/live/nope/updates", nil, nil, "view", "nope"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLiveUpdates_NoEventsWithoutChanges(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	view, page := openView(t, h, fixture, installation)

	body := runUpdates(t, h, view, page, 50*time.Millisecond, nil)

	assert.Equal(t, 0, strings.Count(body, "event:"), "page content is server-rendered")
}

func TestLiveUpdates_PatchesTabGroupsOnSelect(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	view, page := openView(t, h, fixture, installation)

	body := runUpdates(t, h, view, page, 300*time.Millisecond, func() {
		c, ok := view.Container("framework")
		require.True(t, ok)
		c.Select("sveltekit")
	})

	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1)
	assert.Contains(t, body, `id="tabs-framework"`)
	assert.Contains(t, body, "npm install @auth/sveltekit")
	assert.Contains(t, body, "history.replaceState")
	assert.Contains(t, body, "tab=sveltekit")
}

func TestLiveUpdates_SendsSelectionMadeBeforeAttach(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	view, page := openView(t, h, fixture, "/docs/guides")

	c, ok := view.Container("provider")
	require.True(t, ok)
	c.Select("google")

	body := runUpdates(t, h, view, page, 50*time.Millisecond, nil)

	assert.Contains(t, body, `id="tabs-provider"`)
	assert.Contains(t, body, "provider=google")
}

func TestLiveUpdates_ReRendersPageOnContentReload(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	view, page := openView(t, h, fixture, installation)

	body := runUpdates(t, h, view, page, 300*time.Millisecond, fixture.Notifier.Broadcast)

	assert.Contains(t, body, `id="docs-page"`)
	assert.NotContains(t, body, "window.location.reload()")
}

func TestLiveUpdates_ReloadsWhenPageRemoved(t *testing.T) {
	fixture := features.SetupTestFixtureDir(t, map[string]string{
		"tabs.yaml": "title: Tabs\nsections:\n  - tabs:\n      items:\n        - label: One\n        - label: Two\n",
	})
	h := newTestHandlers(t, fixture)
	view, page := openView(t, h, fixture, "/docs/tabs")

	features.WriteContent(t, fixture.ContentDir, map[string]string{
		"tabs.yaml": "title: Tabs\nsections:\n  - html: <p>no more tabs</p>\n",
	})
	require.NoError(t, fixture.Repo.Reload())

	body := runUpdates(t, h, view, page, 300*time.Millisecond, fixture.Notifier.Broadcast)

	assert.Contains(t, body, "window.location.reload()", "the view's tab groups no longer exist")
}

func TestLiveUpdates_ReloadsWhenViewCloses(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	view, page := openView(t, h, fixture, installation)

	body := runUpdates(t, h, view, page, time.Second, func() {
		fixture.Registry.Close(view.ID)
	})

	assert.Contains(t, body, "window.location.reload()")
}

// =============================================================================
// Helpers
// =============================================================================

func TestSelectAction(t *testing.T) {
	assert.Equal(t, "@post('/live/v1/tabs/framework/select?id=next')", SelectAction("v1", "framework", "next"))
	assert.Equal(t, "@post('/live/v1/tabs/g/select?id=a%26b')", SelectAction("v1", "g", "a&b"))
}

func TestEditURL(t *testing.T) {
	assert.Equal(t, "", editURL("", "guides"))
	assert.Equal(t, "https://x.dev/docs/guides.yaml", editURL("https://x.dev/docs/", "guides"))
	assert.Equal(t, "https://x.dev/docs/index.yaml", editURL("https://x.dev/docs", ""))
}
