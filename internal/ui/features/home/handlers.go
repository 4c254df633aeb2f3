package home

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
	"github.com/leapstack-labs/docsite/internal/ui/notifier"
)

// The landing cards are the items of this tab group.
const (
	cardsPage  = "getting-started/installation"
	cardsGroup = "framework"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	repo         *content.Repository
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	settings     common.Settings
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(repo *content.Repository, sessionStore sessions.Store, notify *notifier.Notifier, settings common.Settings) *Handlers {
	return &Handlers{
		repo:         repo,
		sessionStore: sessionStore,
		notifier:     notify,
		settings:     settings,
	}
}

// HomePage renders the landing page with full content.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	site := h.repo.Site()
	data, err := buildLandingData(site)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	nav := common.BuildSidebar(site, "")
	nav.FullWidth = true

	layout := common.LayoutData{
		Title:           data.Title,
		Description:     data.Description,
		Settings:        h.settings,
		Nav:             nav,
		BannerDismissed: common.BannerDismissed(h.sessionStore, r, h.settings.Theme.Banner.Key),
		Init:            "@get('/updates')",
		Main:            LandingView(data),
	}
	if err := common.Layout(layout).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HomePageUpdates is the long-lived SSE endpoint for the landing page.
// It re-renders the landing content after the documentation is reloaded.
// No initial state is sent: that is rendered by HomePage.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendLandingView(sse); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// DismissBanner hides the announcement bar and remembers it for the
// browser until the banner key changes.
func (h *Handlers) DismissBanner(w http.ResponseWriter, r *http.Request) {
	if err := common.DismissBanner(h.sessionStore, w, r, h.settings.Theme.Banner.Key); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(common.BannerView(common.Banner{})); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) sendLandingView(sse *datastar.ServerSentEventGenerator) error {
	data, err := buildLandingData(h.repo.Site())
	if err != nil {
		return err
	}
	return sse.PatchElementTempl(LandingView(data))
}

// buildLandingData assembles the landing page from the site index and the
// framework tab group. A site without that group renders no cards.
func buildLandingData(site *content.Site) (LandingData, error) {
	index, err := site.Page("")
	if err != nil {
		return LandingData{}, err
	}

	data := LandingData{
		Title:       index.Title,
		Description: index.Description,
	}
	if nav := site.Navbar(); len(nav) > 0 {
		data.GetStarted = common.DocsPath(nav[0].Slug)
	}

	cards, err := buildCards(site)
	if err != nil {
		return LandingData{}, err
	}
	data.Cards = cards
	return data, nil
}

func buildCards(site *content.Site) ([]Card, error) {
	page, err := site.Page(cardsPage)
	if errors.Is(err, content.ErrPageNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g, ok := page.TabGroup(cardsGroup)
	if !ok {
		return nil, nil
	}

	cards := make([]Card, 0, len(g.Items))
	for _, it := range g.Items {
		cards = append(cards, Card{
			ID:      it.ID,
			Label:   it.Label,
			Image:   it.Image,
			Href:    common.DocsPath(page.Slug) + "?" + url.Values{g.QueryKey(): {it.ID}}.Encode(),
			Beta:    it.Beta,
			Tooltip: it.Tooltip,
		})
	}
	return cards, nil
}
