package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsite/internal/analytics"
	"github.com/leapstack-labs/docsite/internal/cli/config"
	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/ui"
)

// recorderBuffer is how many tab changes may queue before new ones are
// dropped.
const recorderBuffer = 256

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the documentation site",
		Long: `Start the documentation web server.

Pages with tab groups keep the selected tab in the URL query, so links and
the back button restore the selection. With --watch the content directory
is reloaded on change and open pages update in place.`,
		Example: `  # Serve the embedded site
  docsite serve

  # Serve a content directory and reload on change
  docsite serve --content-dir ./pages --watch

  # Record tab selections for 'docsite stats'
  docsite serve --analytics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().Int("port", config.DefaultPort, "Port to serve on")
	cmd.Flags().Bool("open", false, "Open the site in a browser")
	cmd.Flags().Bool("watch", false, "Reload content when files change")
	cmd.Flags().String("session-secret", "", "Cookie signing secret (default: random per run)")
	cmd.Flags().Duration("view-idle-timeout", config.DefaultViewIdleTimeout, "How long a page's tab state outlives its browser connection")
	cmd.Flags().Bool("analytics", false, "Record tab selections")
	cmd.Flags().String("analytics-path", config.DefaultAnalyticsPath, "Path to the analytics database")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg, logger, r := cmdCtx.Cfg, cmdCtx.Logger, cmdCtx.Renderer

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Server.Watch && cfg.ContentDir == "" {
		r.Warning("--watch needs --content-dir; the embedded site never changes")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorder *analytics.Recorder
	if cfg.Analytics.Enabled {
		store, err := openAnalytics(cfg.Analytics.Path, logger)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		recorder = analytics.NewRecorder(store, recorderBuffer, logger)
		logger.Info("recording tab analytics", "path", cfg.Analytics.Path)
	}

	server := ui.NewServer(serverConfig(cfg, cmdCtx.Repo, recorder, logger))

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	if cfg.Server.AutoOpen {
		go openBrowser(url)
	}

	r.Printf("Serving docs on %s\n", url)
	r.Println(r.Styles().Muted.Render("Press Ctrl+C to stop"))

	return server.Serve(ctx)
}

// serverConfig maps the CLI configuration onto the web server.
func serverConfig(cfg *config.Config, repo *content.Repository, recorder *analytics.Recorder, logger *slog.Logger) ui.Config {
	return ui.Config{
		Repository:      repo,
		Recorder:        recorder,
		Settings:        cfg.Settings(),
		Port:            cfg.Server.Port,
		Watch:           cfg.Server.Watch && cfg.ContentDir != "",
		ContentDir:      cfg.ContentDir,
		SessionSecret:   sessionSecret(cfg.Server.SessionSecret),
		SecureCookies:   cfg.IsProduction(),
		ViewIdleTimeout: cfg.Server.ViewIdleTimeout,
		SweepInterval:   cfg.Server.SweepInterval,
		Logger:          logger,
	}
}

// sessionSecret returns the configured secret or a random one. A random
// secret invalidates every session on restart.
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// openAnalytics opens the tab analytics store, creating its directory.
func openAnalytics(path string, logger *slog.Logger) (*analytics.Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create analytics directory: %w", err)
			}
		}
	}
	store, err := analytics.Open(path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics store: %w", err)
	}
	return store, nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
