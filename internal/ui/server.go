// Package ui provides the web front end of the documentation site.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/docsite/internal/analytics"
	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/ui/features/common"
	"github.com/leapstack-labs/docsite/internal/ui/live"
	"github.com/leapstack-labs/docsite/internal/ui/notifier"
	"github.com/leapstack-labs/docsite/internal/ui/resources"
	"github.com/leapstack-labs/docsite/internal/ui/router"
)

const (
	defaultViewIdleTimeout = 2 * time.Minute
	defaultSweepInterval   = 30 * time.Second
	watchDebounce          = 100 * time.Millisecond
)

// Server is the docs web server.
type Server struct {
	repo         *content.Repository
	recorder     *analytics.Recorder
	sessionStore *sessions.CookieStore
	settings     common.Settings
	port         int
	watch        bool
	contentDir   string
	idleTimeout  time.Duration
	sweepEvery   time.Duration
	logger       *slog.Logger
	notifier     *notifier.Notifier
	registry     *live.Registry
}

// Config holds configuration for the docs server.
type Config struct {
	Repository *content.Repository
	// Recorder receives tab changes; nil disables tab analytics.
	Recorder      *analytics.Recorder
	Settings      common.Settings
	Port          int
	Watch         bool
	ContentDir    string
	SessionSecret string
	// SecureCookies restricts the session cookie to HTTPS. Browsers drop
	// secure cookies on plain HTTP origins other than localhost.
	SecureCookies bool
	// ViewIdleTimeout is how long a live view survives without an attached
	// browser.
	ViewIdleTimeout time.Duration
	SweepInterval   time.Duration
	Logger          *slog.Logger
}

// NewServer creates a new docs server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Secure = cfg.SecureCookies

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	idle := cfg.ViewIdleTimeout
	if idle <= 0 {
		idle = defaultViewIdleTimeout
	}
	sweep := cfg.SweepInterval
	if sweep <= 0 {
		sweep = defaultSweepInterval
	}

	return &Server{
		repo:         cfg.Repository,
		recorder:     cfg.Recorder,
		sessionStore: sessionStore,
		settings:     cfg.Settings,
		port:         cfg.Port,
		watch:        cfg.Watch,
		contentDir:   cfg.ContentDir,
		idleTimeout:  idle,
		sweepEvery:   sweep,
		logger:       logger,
		notifier:     notifier.New(),
		registry:     live.NewRegistry(logger),
	}
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() (http.Handler, error) {
	bundle, err := resources.BuildClient(!s.settings.Dev)
	if err != nil {
		return nil, fmt.Errorf("failed to build client script: %w", err)
	}

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.repo, s.sessionStore, s.notifier, s.registry, s.recorder, bundle, s.settings, s.logger); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the docs server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting docs server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start content watcher if enabled
	if s.watch && s.contentDir != "" {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		return s.registry.Run(egctx, s.sweepEvery, s.idleTimeout)
	})

	if s.recorder != nil {
		eg.Go(func() error {
			return s.recorder.Run(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down docs server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for content reloads.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Registry returns the open live views.
func (s *Server) Registry() *live.Registry {
	return s.registry
}

// watchFiles reloads the content tree when a page or meta file changes.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.contentDir); err != nil {
		s.logger.Error("failed to watch content directory", "error", err)
		// Don't fail - continue without watching
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchDirRecursive(watcher, event.Name)
				}
			}
			if !isContentEvent(event) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				s.reloadContent(name)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reloadContent re-reads the content tree and tells every open page. A
// broken edit keeps the previous tree and notifies nobody.
func (s *Server) reloadContent(changed string) {
	s.logger.Debug("content changed, reloading", "file", changed)
	if err := s.repo.Reload(); err != nil {
		s.logger.Error("content reload failed", "error", err)
		return
	}
	s.notifier.Broadcast()
}

func isContentEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Ext(event.Name) == ".yaml"
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
