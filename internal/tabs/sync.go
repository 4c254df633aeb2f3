package tabs

import (
	"context"
	"sync"

	"github.com/leapstack-labs/docsite/internal/location"
)

// Source describes the location a tab group is bound to. Only Reader is
// required: without a Notifier the group never follows external navigation,
// and without a Navigator selections are not written back.
type Source struct {
	Reader    location.Reader
	Notifier  location.Notifier
	Navigator location.Navigator
}

// Bind returns a Source with full read, watch and write-back access to loc.
func Bind(loc *location.Location) Source {
	return Source{Reader: loc, Notifier: loc, Navigator: loc}
}

// ReadOnly returns a Source that can only read r.
func ReadOnly(r location.Reader) Source {
	return Source{Reader: r}
}

// Synchronizer bridges one query parameter and a tab group's selection.
type Synchronizer struct {
	key      string
	src      Source
	onChange func(string)
}

// NewSynchronizer creates a Synchronizer for key on src. onChange may be nil.
func NewSynchronizer(key string, src Source, onChange func(string)) *Synchronizer {
	if key == "" {
		key = DefaultKey
	}
	return &Synchronizer{key: key, src: src, onChange: onChange}
}

// Key returns the query parameter the synchronizer reads and writes.
func (s *Synchronizer) Key() string {
	return s.key
}

// ReadInitial returns the tab the location currently asks for, or defaultID
// when it asks for none.
func (s *Synchronizer) ReadInitial(defaultID string) string {
	if s.src.Reader == nil {
		return defaultID
	}
	return Resolve(s.src.Reader.Get(s.key), defaultID)
}

// Resolve applies the selection rule to the raw values of a query key:
// a repeated key selects its first value, a single non-empty value selects
// itself, anything else selects defaultID.
func Resolve(values []string, defaultID string) string {
	switch {
	case len(values) > 1:
		return values[0]
	case len(values) == 1 && values[0] != "":
		return values[0]
	default:
		return defaultID
	}
}

// Subscribe calls onExternalChange each time the location reports a change,
// until the returned cancel func is called or ctx is done. Pings that arrive
// while a call is still running collapse into one follow-up call, so only the
// latest location is ever observed. cancel is idempotent and may be called
// from onExternalChange itself; a call already running when cancel returns
// may finish, but no new call starts.
func (s *Synchronizer) Subscribe(ctx context.Context, onExternalChange func()) (cancel func()) {
	if s.src.Notifier == nil {
		return func() {}
	}

	ch := s.src.Notifier.Subscribe()
	stop := make(chan struct{})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				select {
				case <-stop:
					return
				default:
				}
				onExternalChange()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			s.src.Notifier.Unsubscribe(ch)
		})
	}
}

// NotifyChange reports an effective selection change to the caller.
func (s *Synchronizer) NotifyChange(newID string) {
	if s.onChange != nil {
		s.onChange(newID)
	}
}

// CanWriteBack reports whether the synchronizer may mutate the location.
func (s *Synchronizer) CanWriteBack() bool {
	return s.src.Navigator != nil
}

// WriteBack mirrors id into the location if write access was granted.
func (s *Synchronizer) WriteBack(id string) {
	if s.src.Navigator == nil {
		return
	}
	s.src.Navigator.SetQuery(s.key, id)
}
