// Package router sets up HTTP routes for the docs server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/docsite/internal/analytics"
	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
	docsFeature "github.com/leapstack-labs/docsite/internal/ui/features/docs"
	homeFeature "github.com/leapstack-labs/docsite/internal/ui/features/home"
	"github.com/leapstack-labs/docsite/internal/ui/live"
	"github.com/leapstack-labs/docsite/internal/ui/notifier"
	"github.com/leapstack-labs/docsite/internal/ui/resources"
)

// SetupRoutes configures all routes for the docs server. recorder may be nil.
func SetupRoutes(
	router chi.Router,
	repo *content.Repository,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	registry *live.Registry,
	recorder *analytics.Recorder,
	bundle *resources.Bundle,
	settings common.Settings,
	logger *slog.Logger,
) error {
	// Hot reload endpoint for dev mode
	if settings.Dev {
		setupReload(router)
	}

	// Static assets; the client bundle is compiled at startup
	router.Handle(resources.StaticPath("app.js"), bundle)
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := homeFeature.SetupRoutes(router, repo, sessionStore, notify, settings); err != nil {
		return err
	}

	if err := docsFeature.SetupRoutes(router, repo, sessionStore, notify, registry, recorder, settings, logger); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
