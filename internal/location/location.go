// Package location models the browser location a page is rendered for.
//
// A Location holds the current URL of one live view. It is read by
// components that derive state from the query string, written back by
// components that mirror their state into it, and broadcasts a payload-free
// ping whenever it changes so watchers can re-read it.
package location

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/leapstack-labs/docsite/internal/ui/notifier"
)

// Reader reads query values from a location.
// A missing key yields nil; a repeated key yields every value in order.
type Reader interface {
	Get(key string) []string
}

// Notifier delivers "the location changed, re-read now" pings.
type Notifier interface {
	Subscribe() chan struct{}
	Unsubscribe(ch chan struct{})
}

// Navigator mutates the query of a location in place (history.replaceState).
type Navigator interface {
	SetQuery(key, value string)
	DelQuery(key string)
}

// Location is a concurrency-safe URL holder implementing Reader, Notifier and
// Navigator.
type Location struct {
	mu       sync.RWMutex
	url      url.URL
	notifier *notifier.Notifier
}

// New creates a Location for the given URL.
func New(rawURL string) (*Location, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", rawURL, err)
	}
	return &Location{url: *u, notifier: notifier.New()}, nil
}

// FromURL creates a Location from an already parsed URL.
func FromURL(u *url.URL) *Location {
	l := &Location{notifier: notifier.New()}
	if u != nil {
		l.url = *u
	}
	return l
}

// Get returns the query values for key.
func (l *Location) Get(key string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	values, ok := l.url.Query()[key]
	if !ok {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// URL returns a copy of the current URL.
func (l *Location) URL() url.URL {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.url
}

// String returns the path and query of the current URL.
func (l *Location) String() string {
	u := l.URL()
	return u.RequestURI()
}

// WithQuery returns the path and query of the current URL with key set to
// value. The location itself is unchanged.
func (l *Location) WithQuery(key, value string) string {
	u := l.URL()
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.RequestURI()
}

// Navigate replaces the whole location, as a link click or history
// traversal would, and notifies watchers.
func (l *Location) Navigate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid location %q: %w", rawURL, err)
	}

	l.mu.Lock()
	l.url = *u
	l.mu.Unlock()

	l.notifier.Broadcast()
	return nil
}

// SetQuery sets key to a single value and notifies watchers.
func (l *Location) SetQuery(key, value string) {
	l.mu.Lock()
	q := l.url.Query()
	q.Set(key, value)
	l.url.RawQuery = q.Encode()
	l.mu.Unlock()

	l.notifier.Broadcast()
}

// DelQuery removes key from the query and notifies watchers.
func (l *Location) DelQuery(key string) {
	l.mu.Lock()
	q := l.url.Query()
	q.Del(key)
	l.url.RawQuery = q.Encode()
	l.mu.Unlock()

	l.notifier.Broadcast()
}

// Subscribe returns a channel receiving a ping after each change.
func (l *Location) Subscribe() chan struct{} {
	return l.notifier.Subscribe()
}

// Unsubscribe stops delivery to ch.
func (l *Location) Unsubscribe(ch chan struct{}) {
	l.notifier.Unsubscribe(ch)
}

// Watchers returns the number of active subscriptions.
func (l *Location) Watchers() int {
	return l.notifier.Len()
}

// Static is a read-only Reader over a fixed query, used when rendering a
// page from a single request.
type Static url.Values

// Get returns the query values for key.
func (s Static) Get(key string) []string {
	return url.Values(s)[key]
}
