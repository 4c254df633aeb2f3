// Package docs provides the documentation pages and their live tab groups.
package docs

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/docsite/internal/analytics"
	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
	"github.com/leapstack-labs/docsite/internal/ui/live"
	"github.com/leapstack-labs/docsite/internal/ui/notifier"
)

// SetupRoutes configures routes for the docs feature.
func SetupRoutes(
	router chi.Router,
	repo *content.Repository,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	registry *live.Registry,
	recorder *analytics.Recorder,
	settings common.Settings,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(repo, sessionStore, notify, registry, recorder, settings, logger)

	router.Get("/docs", handlers.DocsIndex)
	router.Get("/docs/*", handlers.DocsPage)

	router.Route("/live/{view}", func(r chi.Router) {
		r.Get("/updates", handlers.LiveUpdates)
		r.Post("/tabs/{group}/select", handlers.SelectTab)
		r.Post("/navigate", handlers.Navigate)
	})

	return nil
}
