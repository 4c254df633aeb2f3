// Package live keeps the server side state of open documentation pages.
//
// Each page load opens a View: the page's location plus one mounted tab
// container per tab group, all bound to that location. The browser then
// attaches to the view over SSE to receive re-rendered tab groups, and posts
// selections and history navigation back to it. Views that stay detached are
// swept after an idle period.
package live

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/docsite/internal/location"
	"github.com/leapstack-labs/docsite/internal/tabs"
	"github.com/leapstack-labs/docsite/internal/ui/notifier"
)

// ErrNoView is returned when a view does not exist or belongs to another
// session.
var ErrNoView = errors.New("live view not found")

// GroupSpec declares one tab group of a view.
type GroupSpec struct {
	ID     string
	Config tabs.Config
}

// ViewConfig describes a view to open.
type ViewConfig struct {
	Session string
	Page    string
	URL     *url.URL
	Groups  []GroupSpec

	// Action builds the trigger action of tab in group. It receives the id of
	// the view being opened.
	Action func(viewID, group, tab string) string
}

// View is one open page.
type View struct {
	ID       string
	Session  string
	Page     string
	Location *location.Location

	ctx     context.Context
	cancel  context.CancelFunc
	order   []string
	groups  map[string]*tabs.Container
	changes *notifier.Notifier
	version atomic.Int64

	now      func() time.Time
	mu       sync.Mutex
	attached int
	lastSeen time.Time
	closed   bool
}

// Container returns the container of group.
func (v *View) Container(group string) (*tabs.Container, bool) {
	c, ok := v.groups[group]
	return c, ok
}

// Groups returns the group ids in declaration order.
func (v *View) Groups() []string {
	return v.order
}

// Selection returns the selected tab of every group.
func (v *View) Selection() map[string]string {
	out := make(map[string]string, len(v.groups))
	for id, c := range v.groups {
		out[id] = c.Selected()
	}
	return out
}

// Version counts the selection changes since the view was opened.
func (v *View) Version() int64 {
	return v.version.Load()
}

// Attach subscribes to the view's selection changes. The returned detach
// func must be called when the client goes away.
func (v *View) Attach() (updates chan struct{}, detach func()) {
	v.mu.Lock()
	v.attached++
	v.mu.Unlock()

	updates = v.changes.Subscribe()
	var once sync.Once
	return updates, func() {
		once.Do(func() {
			v.changes.Unsubscribe(updates)
			v.mu.Lock()
			v.attached--
			v.lastSeen = v.now()
			v.mu.Unlock()
		})
	}
}

// Done is closed when the view is closed.
func (v *View) Done() <-chan struct{} {
	return v.ctx.Done()
}

func (v *View) idleSince(now time.Time) (time.Duration, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.attached > 0 || v.closed {
		return 0, false
	}
	return now.Sub(v.lastSeen), true
}

func (v *View) close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.cancel()
	for _, c := range v.groups {
		c.Unmount()
	}
}

// Registry holds the open views.
type Registry struct {
	mu     sync.RWMutex
	views  map[string]*View
	logger *slog.Logger
	now    func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		views:  make(map[string]*View),
		logger: logger,
		now:    time.Now,
	}
}

// Open creates a view and mounts its tab containers.
func (r *Registry) Open(cfg ViewConfig) *View {
	ctx, cancel := context.WithCancel(context.Background())
	v := &View{
		ID:       uuid.NewString(),
		Session:  cfg.Session,
		Page:     cfg.Page,
		Location: location.FromURL(cfg.URL),
		ctx:      ctx,
		cancel:   cancel,
		groups:   make(map[string]*tabs.Container, len(cfg.Groups)),
		changes:  notifier.New(),
		now:      r.now,
		lastSeen: r.now(),
	}

	src := tabs.Bind(v.Location)
	for _, g := range cfg.Groups {
		tc := g.Config
		if tc.Logger == nil {
			tc.Logger = r.logger.With("view", v.ID, "group", g.ID)
		}
		if tc.Href == nil {
			key := tc.Key
			if key == "" {
				key = tabs.DefaultKey
			}
			tc.Href = func(tab string) string { return v.Location.WithQuery(key, tab) }
		}
		if cfg.Action != nil && tc.Action == nil {
			group := g.ID
			tc.Action = func(tab string) string { return cfg.Action(v.ID, group, tab) }
		}

		c := tabs.New(tc, src)
		c.Observe(func(tabs.Snapshot) {
			v.version.Add(1)
			v.changes.Broadcast()
		})
		v.groups[g.ID] = c
		v.order = append(v.order, g.ID)
	}
	for _, id := range v.order {
		v.groups[id].Mount(ctx)
	}

	r.mu.Lock()
	r.views[v.ID] = v
	r.mu.Unlock()

	r.logger.Debug("live view opened", "view", v.ID, "page", v.Page, "groups", len(v.order))
	return v
}

// Get returns the view with id if it belongs to session.
func (r *Registry) Get(id, session string) (*View, error) {
	r.mu.RLock()
	v, ok := r.views[id]
	r.mu.RUnlock()
	if !ok || v.Session != session {
		return nil, ErrNoView
	}
	return v, nil
}

// Close closes and forgets the view. Unknown ids are ignored.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if ok {
		v.close()
		r.logger.Debug("live view closed", "view", id)
	}
}

// Len returns the number of open views.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Sweep closes views that have had no attached client for longer than
// maxIdle and returns how many were closed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	now := r.now()

	r.mu.RLock()
	var stale []string
	for id, v := range r.views {
		if idle, ok := v.idleSince(now); ok && idle > maxIdle {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		r.Close(id)
	}
	return len(stale)
}

// Run sweeps idle views every interval until ctx is done, then closes all
// remaining views.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				r.logger.Debug("swept idle live views", "count", n)
			}
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()

	for _, v := range views {
		v.close()
	}
}
