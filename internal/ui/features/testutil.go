// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/testutil"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
	"github.com/leapstack-labs/docsite/internal/ui/live"
	"github.com/leapstack-labs/docsite/internal/ui/notifier"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Repo         *content.Repository
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
	Registry     *live.Registry
	Settings     common.Settings

	// ContentDir is set when the fixture was built from files on disk.
	ContentDir string
}

// TestSettings returns the site settings used by handler tests.
func TestSettings() common.Settings {
	return common.Settings{
		Theme: common.Theme{
			LogoText:           "Auth.js",
			LogoSrc:            "/static/img/logo.svg",
			ProjectLink:        "https://github.com/nextauthjs/next-auth",
			HueLight:           280,
			HueDark:            280,
			SaturationLight:    100,
			SaturationDark:     100,
			DocsRepositoryBase: "https://github.com/nextauthjs/next-auth/edit/main/docs",
			TOCBackToTop:       true,
			Banner: common.Banner{
				Key:         "v5",
				Text:        "Auth.js v5 is out.",
				LinkText:    "Read the migration guide",
				Href:        "/docs/getting-started/installation",
				Dismissible: true,
			},
		},
		Search: common.Search{Enabled: true},
	}
}

// SetupTestFixture creates a fixture over the embedded documentation.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()
	return newFixture(t, content.Embedded, "")
}

// SetupTestFixtureDir writes files (slash separated path to YAML) into a
// temporary content directory and creates a fixture reading from it.
func SetupTestFixtureDir(t *testing.T, files map[string]string) *TestFixture {
	t.Helper()

	dir := t.TempDir()
	WriteContent(t, dir, files)
	return newFixture(t, content.DirSource(dir), dir)
}

// WriteContent writes files below dir, creating parent directories.
func WriteContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	}
}

func newFixture(t *testing.T, source content.Source, dir string) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	repo, err := content.NewRepository(source, logger)
	require.NoError(t, err)

	registry := live.NewRegistry(logger)
	t.Cleanup(func() {
		// A cancelled context makes Run close every open view and return
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_ = registry.Run(ctx, time.Hour, time.Hour)
	})

	return &TestFixture{
		Repo:         repo,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		Registry:     registry,
		Settings:     TestSettings(),
		ContentDir:   dir,
	}
}

// RequestWithPathParam wraps a request with chi URL params given as
// key/value pairs.
func RequestWithPathParam(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	_ = cancel // released by the timeout
	return r.WithContext(ctx)
}

// WithCookies adds the cookies set on rec to r, carrying the browser
// session over to the next request.
func WithCookies(r *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
