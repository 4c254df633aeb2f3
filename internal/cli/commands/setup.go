package commands

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsite/internal/cli/config"
	"github.com/leapstack-labs/docsite/internal/cli/output"
	"github.com/leapstack-labs/docsite/internal/content"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Repo     *content.Repository
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with the content tree loaded.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutContent(cmd)

	repo, err := openRepository(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	cmdCtx.Repo = repo
	return cmdCtx, nil
}

// NewCommandContextWithoutContent creates a CommandContext without loading
// pages. Useful for commands that only read the analytics store.
func NewCommandContextWithoutContent(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, loading defaults when the
// command runs without the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg, err := config.LoadConfig("", nil)
	if err != nil {
		return &config.Config{Environment: config.DefaultEnv, OutputFormat: config.DefaultOutput}
	}
	return cfg
}

func openRepository(cfg *config.Config, logger *slog.Logger) (*content.Repository, error) {
	if err := cfg.ValidateDirectories(); err != nil {
		return nil, err
	}
	source := content.Embedded
	if cfg.ContentDir != "" {
		source = content.DirSource(cfg.ContentDir)
	}
	repo, err := content.NewRepository(source, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return repo, nil
}

// pageRef is a page named on the command line, optionally with a query
// selecting tabs: "getting-started/installation?tab=express" or
// "/docs/guides?provider=google".
type pageRef struct {
	Slug  string
	Query url.Values
}

func parsePageRef(ref string) (pageRef, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return pageRef{}, fmt.Errorf("invalid page %q: %w", ref, err)
	}
	slug := strings.Trim(u.Path, "/")
	if slug == "docs" {
		slug = ""
	}
	slug = strings.TrimPrefix(slug, "docs/")
	return pageRef{Slug: slug, Query: u.Query()}, nil
}

// URL returns the docs URL the page is served at, query included.
func (p pageRef) URL() string {
	path := "/docs/" + p.Slug
	if p.Slug == "" {
		path = "/"
	}
	if len(p.Query) == 0 {
		return path
	}
	return path + "?" + p.Query.Encode()
}

func (p pageRef) lookup(site *content.Site) (*content.Page, error) {
	page, err := site.Page(p.Slug)
	if err != nil {
		return nil, fmt.Errorf("page %q: %w", p.Slug, err)
	}
	return page, nil
}
