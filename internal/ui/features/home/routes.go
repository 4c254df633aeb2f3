package home

import (
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
	"github.com/leapstack-labs/docsite/internal/ui/notifier"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(
	router chi.Router,
	repo *content.Repository,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	settings common.Settings,
) error {
	handlers := NewHandlers(repo, sessionStore, notify, settings)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)
	router.Post("/banner/dismiss", handlers.DismissBanner)

	return nil
}
