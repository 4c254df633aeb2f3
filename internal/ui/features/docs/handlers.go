package docs

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/docsite/internal/analytics"
	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/location"
	"github.com/leapstack-labs/docsite/internal/tabs"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
	"github.com/leapstack-labs/docsite/internal/ui/live"
	"github.com/leapstack-labs/docsite/internal/ui/notifier"
)

const markdownSuffix = ".md"

// Handlers provides HTTP handlers for the docs feature.
type Handlers struct {
	repo         *content.Repository
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	registry     *live.Registry
	recorder     *analytics.Recorder
	settings     common.Settings
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance. recorder may be nil when tab
// analytics are disabled.
func NewHandlers(
	repo *content.Repository,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	registry *live.Registry,
	recorder *analytics.Recorder,
	settings common.Settings,
	logger *slog.Logger,
) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		repo:         repo,
		sessionStore: sessionStore,
		notifier:     notify,
		registry:     registry,
		recorder:     recorder,
		settings:     settings,
		logger:       logger,
	}
}

// DocsIndex redirects to the first section of the navbar.
func (h *Handlers) DocsIndex(w http.ResponseWriter, r *http.Request) {
	nav := h.repo.Site().Navbar()
	if len(nav) == 0 {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, common.DocsPath(nav[0].Slug), http.StatusFound)
}

// DocsPage renders a documentation page. Pages with tab groups open a live
// view seeded from the request URL so selections made in the browser are
// kept on the server.
func (h *Handlers) DocsPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "*")
	if strings.HasSuffix(slug, markdownSuffix) {
		h.markdown(w, r, strings.TrimSuffix(slug, markdownSuffix))
		return
	}

	site := h.repo.Site()
	page, err := site.Page(slug)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	sessionID, err := common.SessionID(h.sessionStore, w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var view *live.View
	if groups := page.TabGroups(); len(groups) > 0 {
		view = h.registry.Open(live.ViewConfig{
			Session: sessionID,
			Page:    page.Slug,
			URL:     r.URL,
			Groups:  h.groupSpecs(page, groups),
			Action:  SelectAction,
		})
	}

	data, err := h.pageData(site, page, view)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	layout := common.LayoutData{
		Title:           page.Title,
		Description:     page.Description,
		Settings:        h.settings,
		Nav:             data.Nav,
		BannerDismissed: common.BannerDismissed(h.sessionStore, r, h.settings.Theme.Banner.Key),
		Main:            PageView(data),
	}
	if view != nil {
		layout.ViewID = view.ID
		layout.Init = fmt.Sprintf("@get('/live/%s/updates')", view.ID)
	}

	if err := common.Layout(layout).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// markdown exports a page with the tabs named in the query, or the
// defaults, inlined.
func (h *Handlers) markdown(w http.ResponseWriter, r *http.Request, slug string) {
	page, err := h.repo.Site().Page(slug)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	md, err := page.Markdown(page.SelectionFrom(location.Static(r.URL.Query())))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(md))
}

// LiveUpdates is the long-lived SSE endpoint of a live view. It patches the
// tab groups after every selection change, mirrors the view's location into
// the browser history, and re-renders the page when content is reloaded.
func (h *Handlers) LiveUpdates(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	sse := datastar.NewSSE(w, r)

	changes, detach := view.Attach()
	defer detach()

	reloads := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(reloads)

	// Selections made before the stream attached would otherwise be lost
	if view.Version() > 0 {
		if err := h.sendTabGroups(sse, view); err != nil {
			_ = sse.ConsoleError(err)
		}
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-view.Done():
			_ = sse.ExecuteScript("window.location.reload()")
			return
		case <-changes:
			if err := h.sendTabGroups(sse, view); err != nil {
				_ = sse.ConsoleError(err)
			}
		case <-reloads:
			if err := h.sendPage(sse, view); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// SelectTab applies a user selection to a group of a live view. An id with
// no matching tab is still a selection: the group shows no panel.
func (h *Handlers) SelectTab(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	groupID := chi.URLParam(r, "group")
	c, ok := view.Container(groupID)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown tab group %q", groupID), http.StatusNotFound)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "missing tab id", http.StatusBadRequest)
		return
	}

	c.Select(id)
	w.WriteHeader(http.StatusNoContent)
}

// NavigateSignals is the body posted by the client on history navigation.
type NavigateSignals struct {
	URL string `json:"url"`
}

// Navigate moves a live view to another URL of the same page, as the
// browser's back and forward buttons or an in-page link do. A URL for a
// different page answers 409 and the client reloads.
func (h *Handlers) Navigate(w http.ResponseWriter, r *http.Request) {
	view, err := h.view(r)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	var signals NavigateSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	target, err := url.Parse(signals.URL)
	if err != nil || signals.URL == "" {
		http.Error(w, fmt.Sprintf("invalid url %q", signals.URL), http.StatusBadRequest)
		return
	}

	current := view.Location.URL()
	if target.Path != current.Path {
		http.Error(w, "navigation leaves the page", http.StatusConflict)
		return
	}

	if err := view.Location.Navigate(target.RequestURI()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectAction is the datastar action a trigger runs to select tab.
func SelectAction(viewID, group, tab string) string {
	return fmt.Sprintf("@post('/live/%s/tabs/%s/select?id=%s')", viewID, url.PathEscape(group), url.QueryEscape(tab))
}

func (h *Handlers) view(r *http.Request) (*live.View, error) {
	session := common.ExistingSessionID(h.sessionStore, r)
	return h.registry.Get(chi.URLParam(r, "view"), session)
}

func (h *Handlers) groupSpecs(page *content.Page, groups []*content.TabGroup) []live.GroupSpec {
	specs := make([]live.GroupSpec, 0, len(groups))
	for _, g := range groups {
		specs = append(specs, live.GroupSpec{
			ID: g.ID,
			Config: tabs.Config{
				DefaultID:   g.Default,
				Key:         g.QueryKey(),
				Orientation: g.Orientation,
				OnTabChange: h.onTabChange(page.Slug, g.ID),
			},
		})
	}
	return specs
}

func (h *Handlers) onTabChange(page, group string) func(string) {
	var record func(string)
	if h.recorder != nil {
		record = h.recorder.OnTabChange(page, group)
	}
	return func(id string) {
		h.logger.Debug("tab changed", "page", page, "group", group, "tab", id)
		if record != nil && h.hasTab(page, group, id) {
			record(id)
		}
	}
}

func (h *Handlers) hasTab(slug, group, id string) bool {
	page, err := h.repo.Site().Page(slug)
	if err != nil {
		return false
	}
	g, ok := page.TabGroup(group)
	if !ok {
		return false
	}
	_, ok = g.Item(id)
	return ok
}

func (h *Handlers) pageData(site *content.Site, page *content.Page, view *live.View) (PageData, error) {
	toc, err := page.TOC()
	if err != nil {
		return PageData{}, err
	}

	nav := common.BuildSidebar(site, page.Slug)
	nav.FullWidth = page.Raw()

	data := PageData{
		Page:      page,
		Nav:       nav,
		TOC:       toc,
		Handles:   map[string]tabs.Handle{},
		EditURL:   editURL(h.settings.Theme.DocsRepositoryBase, page.Slug),
		BackToTop: h.settings.Theme.TOCBackToTop,
	}
	if page.Slug != "" {
		data.Markdown = common.DocsPath(page.Slug) + markdownSuffix
	}
	if view != nil {
		for _, id := range view.Groups() {
			if c, ok := view.Container(id); ok {
				data.Handles[id] = c.Handle()
			}
		}
	}
	return data, nil
}

func (h *Handlers) sendTabGroups(sse *datastar.ServerSentEventGenerator, view *live.View) error {
	page, err := h.repo.Site().Page(view.Page)
	if err != nil {
		return sse.ExecuteScript("window.location.reload()")
	}

	for _, id := range view.Groups() {
		g, ok := page.TabGroup(id)
		if !ok {
			continue
		}
		c, _ := view.Container(id)
		if err := sse.PatchElementTempl(TabGroupView(g, c.Handle())); err != nil {
			return err
		}
	}
	return sse.ExecuteScript("history.replaceState(history.state, '', " + common.JSString(view.Location.String()) + ")")
}

// sendPage re-renders the whole page after a content reload. When the
// page's tab groups changed the view no longer matches and the browser
// reloads instead.
func (h *Handlers) sendPage(sse *datastar.ServerSentEventGenerator, view *live.View) error {
	site := h.repo.Site()
	page, err := site.Page(view.Page)
	if err != nil || !sameGroups(page, view.Groups()) {
		return sse.ExecuteScript("window.location.reload()")
	}

	data, err := h.pageData(site, page, view)
	if err != nil {
		return err
	}
	return sse.PatchElementTempl(PageView(data))
}

func sameGroups(page *content.Page, ids []string) bool {
	groups := page.TabGroups()
	if len(groups) != len(ids) {
		return false
	}
	for i, g := range groups {
		if g.ID != ids[i] {
			return false
		}
	}
	return true
}

func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrPageNotFound), errors.Is(err, live.ErrNoView):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
