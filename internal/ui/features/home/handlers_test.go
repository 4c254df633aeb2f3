package home

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/docsite/internal/ui/features"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t)
	handlers := NewHandlers(
		fixture.Repo,
		fixture.SessionStore,
		fixture.Notifier,
		fixture.Settings,
	)
	return handlers, fixture
}

// =============================================================================
// HomePage Tests - Full HTML page responses with server-rendered content
// =============================================================================

func TestHomePage(t *testing.T) {
	tests := []struct {
		name     string
		wantBody []string
	}{
		{
			name: "returns HTML with hero and live updates",
			wantBody: []string{
				"<!doctype html>",
				"<title>Auth.js</title>",
				"Authentication for the Web.",
				`href="/docs/getting-started"`,
				"data-init",
				"/updates",
			},
		},
		{
			name: "cards link to their installation tab",
			wantBody: []string{
				`href="/docs/getting-started/installation?tab=next"`,
				`href="/docs/getting-started/installation?tab=sveltekit"`,
				`href="/docs/getting-started/installation?tab=express"`,
				`href="/docs/getting-started/installation?tab=solidstart"`,
				`src="/static/img/nextjs.svg"`,
			},
		},
		{
			name: "work in progress cards carry a badge and tooltip",
			wantBody: []string{
				"Beta",
				`aria-describedby="card-tip-sveltekit"`,
				`id="card-tip-sveltekit"`,
				"Officially supported but not documented.",
			},
		},
		{
			name: "navbar, banner and search trigger",
			wantBody: []string{
				`href="/docs/guides"`,
				`id="banner"`,
				"Auth.js v5 is out.",
				"@post(&#39;/banner/dismiss&#39;)",
				"Ask AI",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			h.HomePage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want, "response should contain %q", want)
			}
		})
	}
}

func TestHomePage_NextCardIsNotBeta(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.HomePage(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Equal(t, 3, strings.Count(body, `class="beta-badge`))
	assert.NotContains(t, body, "card-tip-next")
}

func TestBuildCards_NoFrameworkGroup(t *testing.T) {
	fixture := features.SetupTestFixtureDir(t, map[string]string{
		"index.yaml": "title: Empty\nlayout: raw\n",
	})

	data, err := buildLandingData(fixture.Repo.Site())
	require.NoError(t, err)
	assert.Equal(t, "Empty", data.Title)
	assert.Empty(t, data.Cards)
}

// =============================================================================
// Banner Tests
// =============================================================================

func TestDismissBanner(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.DismissBanner(rec, httptest.NewRequest(http.MethodPost, "/banner/dismiss", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "event:")
	assert.Contains(t, body, `id="banner"`)
	assert.Contains(t, body, "hidden")
	assert.NotEmpty(t, rec.Result().Cookies(), "dismissal is stored in the session")

	// The next page load omits the banner
	next := features.WithCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	page := httptest.NewRecorder()
	h.HomePage(page, next)
	assert.NotContains(t, page.Body.String(), "Auth.js v5 is out.")
}

func TestDismissBanner_NewKeyShowsAgain(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.DismissBanner(rec, httptest.NewRequest(http.MethodPost, "/banner/dismiss", nil))

	settings := fixture.Settings
	settings.Theme.Banner.Key = "v6"
	settings.Theme.Banner.Text = "Auth.js v6 is out."
	h2 := NewHandlers(fixture.Repo, fixture.SessionStore, fixture.Notifier, settings)

	page := httptest.NewRecorder()
	h2.HomePage(page, features.WithCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	assert.Contains(t, page.Body.String(), "Auth.js v6 is out.")
	assert.True(t, common.BannerDismissed(fixture.SessionStore, features.WithCookies(httptest.NewRequest(http.MethodGet, "/", nil), rec), "v5"))
}

// =============================================================================
// HomePageUpdates Tests - SSE endpoint for live updates only
// =============================================================================

func TestHomePageUpdates_SendsUpdateOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		h.HomePageUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fixture.Notifier.Broadcast()
	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1, "should have at least 1 SSE event from broadcast")
	assert.Contains(t, body, `id="landing"`)
	assert.Contains(t, body, "/docs/getting-started/installation?tab=express")
}

func TestHomePageUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.HomePageUpdates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"), "should have no SSE events without broadcast")
}
