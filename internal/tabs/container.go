package tabs

import (
	"context"
	"log/slog"
	"sync"
)

// Config configures a tab group.
type Config struct {
	// DefaultID is selected when the location names no tab. It is also what
	// the group falls back to when navigation removes the tab parameter.
	DefaultID string
	// Key is the query parameter the group binds to (default "tab").
	Key string
	// Orientation defaults to Horizontal.
	Orientation Orientation
	// OnTabChange is called once per effective selection change, after the
	// selection has been updated. It may call back into the group.
	OnTabChange func(id string)
	// Value makes the group controlled: the selection starts at Value, is
	// only changed through SetValue, and Select merely reports the request
	// through OnTabChange. External navigation is ignored.
	Value string
	// Href overrides the link rendered for a trigger.
	Href func(id string) string
	// Action sets the client action a trigger runs on activation.
	Action func(id string) string
	Logger *slog.Logger
}

type lifecycle int

const (
	created lifecycle = iota
	mounted
	unmounted
)

// Container owns the selection of one tab group.
type Container struct {
	cfg    Config
	sync   *Synchronizer
	logger *slog.Logger
	href   func(string) string

	// dispatch serializes selection events so each is compared and applied
	// atomically. Callbacks and observers run after it is released.
	dispatch sync.Mutex

	mu        sync.RWMutex
	selected  string
	state     lifecycle
	observers map[int]func(Snapshot)
	nextObs   int
	cancelSub func()
	stopAfter func() bool
}

// New creates a tab group bound to src and seeds its selection from the
// location. The group does not follow the location until Mount is called.
func New(cfg Config, src Source) *Container {
	if cfg.Orientation == "" {
		cfg.Orientation = Horizontal
	}
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	href := cfg.Href
	if href == nil {
		href = queryHref(cfg.Key)
	}

	c := &Container{
		cfg:       cfg,
		sync:      NewSynchronizer(cfg.Key, src, cfg.OnTabChange),
		logger:    logger.With("tab_key", cfg.Key),
		href:      href,
		observers: make(map[int]func(Snapshot)),
	}

	if c.controlled() {
		c.selected = cfg.Value
	} else {
		c.selected = c.sync.ReadInitial(cfg.DefaultID)
	}
	return c
}

func (c *Container) controlled() bool {
	return c.cfg.Value != ""
}

// Mount starts following the location. The subscription lasts until Unmount
// is called or ctx is done. Mounting twice, or after Unmount, does nothing.
func (c *Container) Mount(ctx context.Context) {
	c.mu.Lock()
	if c.state != created {
		c.mu.Unlock()
		return
	}
	c.state = mounted
	c.mu.Unlock()

	cancel := c.sync.Subscribe(ctx, c.followLocation)

	c.mu.Lock()
	if c.state == unmounted {
		c.mu.Unlock()
		cancel()
		return
	}
	c.cancelSub = cancel
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, c.Unmount)

	c.mu.Lock()
	if c.state == unmounted {
		c.mu.Unlock()
		stop()
		return
	}
	c.stopAfter = stop
	c.mu.Unlock()

	c.logger.Debug("tab group mounted", "selected", c.Selected())

	// The location may have moved between New and Mount.
	c.followLocation()
}

// Unmount stops following the location and drops all observers. It may be
// called from OnTabChange or an observer. After it returns no change is
// applied and no new callback or observer call starts; one already running on
// another goroutine may finish.
func (c *Container) Unmount() {
	c.dispatch.Lock()
	c.mu.Lock()
	if c.state == unmounted {
		c.mu.Unlock()
		c.dispatch.Unlock()
		return
	}
	c.state = unmounted
	cancel, stop := c.cancelSub, c.stopAfter
	c.observers = nil
	c.mu.Unlock()
	c.dispatch.Unlock()

	if stop != nil {
		stop()
	}
	if cancel != nil {
		cancel()
	}
	c.logger.Debug("tab group unmounted")
}

// Mounted reports whether the group is currently following the location.
func (c *Container) Mounted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == mounted
}

// Select handles a user selecting id. It reports whether the selection
// changed. The new selection is visible through Selected before the location
// is written back and before OnTabChange and observers run.
func (c *Container) Select(id string) bool {
	c.dispatch.Lock()

	if c.isUnmounted() {
		c.dispatch.Unlock()
		return false
	}

	if c.controlled() {
		current := c.Selected()
		c.dispatch.Unlock()
		if id != current {
			c.notifyChange(id)
		}
		return false
	}

	if !c.apply(id) {
		c.dispatch.Unlock()
		return false
	}
	c.logger.Debug("tab selected", "id", id)
	c.sync.WriteBack(id)
	c.dispatch.Unlock()

	c.notifyChange(id)
	c.notifyObservers()
	return true
}

// SetValue updates the selection of a controlled group. It reports whether
// the selection changed. OnTabChange is not called since the caller already
// knows the new value.
func (c *Container) SetValue(id string) bool {
	c.dispatch.Lock()
	if c.isUnmounted() || !c.controlled() || !c.apply(id) {
		c.dispatch.Unlock()
		return false
	}
	c.dispatch.Unlock()

	c.notifyObservers()
	return true
}

// followLocation re-reads the location after external navigation.
func (c *Container) followLocation() {
	c.dispatch.Lock()
	if c.isUnmounted() || c.controlled() {
		c.dispatch.Unlock()
		return
	}

	// Missing tab parameter means the default, not the last selection.
	candidate := c.sync.ReadInitial(c.cfg.DefaultID)
	if !c.apply(candidate) {
		c.dispatch.Unlock()
		return
	}
	c.logger.Debug("tab changed by navigation", "id", candidate)
	c.dispatch.Unlock()

	c.notifyChange(candidate)
	c.notifyObservers()
}

// apply sets the selection, reporting false when id is already selected.
func (c *Container) apply(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == id {
		return false
	}
	c.selected = id
	return true
}

func (c *Container) isUnmounted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == unmounted
}

// Observe registers fn to be called with the new state after every
// effective change. The returned func removes the registration.
func (c *Container) Observe(fn func(Snapshot)) (cancel func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == unmounted {
		return func() {}
	}

	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.observers, id)
	}
}

func (c *Container) notifyChange(id string) {
	if c.isUnmounted() {
		return
	}
	c.sync.NotifyChange(id)
}

// notifyObservers hands each observer the state current at the time of the
// call, so a late delivery never shows an older selection.
func (c *Container) notifyObservers() {
	c.mu.RLock()
	fns := make([]func(Snapshot), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		if c.isUnmounted() {
			return
		}
		fn(c.Snapshot())
	}
}

// Snapshot returns the current state.
func (c *Container) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{Selected: c.selected, Orientation: c.cfg.Orientation}
}

// Selected returns the selected tab identifier.
func (c *Container) Selected() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// Orientation returns the group's orientation.
func (c *Container) Orientation() Orientation {
	return c.cfg.Orientation
}

// IsSelected reports whether id is the selected tab.
func (c *Container) IsSelected(id string) bool {
	return c.Selected() == id
}

// DefaultID returns the tab selected when the location names none.
func (c *Container) DefaultID() string {
	return c.cfg.DefaultID
}

// Key returns the query parameter the group is bound to.
func (c *Container) Key() string {
	return c.cfg.Key
}

// Href returns the link a trigger for id points at.
func (c *Container) Href(id string) string {
	return c.href(id)
}

// Action returns the client action a trigger for id runs on activation.
func (c *Container) Action(id string) string {
	if c.cfg.Action == nil {
		return ""
	}
	return c.cfg.Action(id)
}

// Handle returns the read-only view of the group passed to sub-elements.
func (c *Container) Handle() Handle {
	return c
}

var _ Handle = (*Container)(nil)
