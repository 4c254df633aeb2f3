package content

import (
	"embed"
	"io/fs"
	"log/slog"
	"sync"
)

//go:embed all:site
var siteFS embed.FS

// Embedded loads the documentation bundled with the binary.
func Embedded() (*Site, error) {
	sub, err := fs.Sub(siteFS, "site")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Source produces a fresh Site on each call.
type Source func() (*Site, error)

// DirSource loads from dir, or from the embedded content when dir is empty.
func DirSource(dir string) Source {
	if dir == "" {
		return Embedded
	}
	return func() (*Site, error) { return LoadDir(dir) }
}

// Repository holds the current Site and swaps it on Reload. Readers always
// see a complete tree.
type Repository struct {
	mu     sync.RWMutex
	site   *Site
	source Source
	logger *slog.Logger
}

// NewRepository performs the initial load from source.
func NewRepository(source Source, logger *slog.Logger) (*Repository, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	site, err := source()
	if err != nil {
		return nil, err
	}
	logger.Debug("content loaded", "pages", len(site.pages))
	return &Repository{site: site, source: source, logger: logger}, nil
}

// Site returns the current content tree.
func (r *Repository) Site() *Site {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.site
}

// Reload reloads from the source. On error the previous tree stays in place.
func (r *Repository) Reload() error {
	site, err := r.source()
	if err != nil {
		r.logger.Error("content reload failed", "error", err)
		return err
	}

	r.mu.Lock()
	r.site = site
	r.mu.Unlock()

	r.logger.Debug("content reloaded", "pages", len(site.pages))
	return nil
}
