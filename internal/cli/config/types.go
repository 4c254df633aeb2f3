// Package config provides configuration management for the docsite CLI.
//
// Values come from defaults, a docsite.yaml file, DOCSITE_ environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"time"

	"github.com/leapstack-labs/docsite/internal/tabs"
)

// Config holds all CLI configuration options.
type Config struct {
	// ContentDir is the page tree on disk. Empty serves the embedded site.
	ContentDir   string          `koanf:"content_dir"`
	Environment  string          `koanf:"environment"`
	Verbose      bool            `koanf:"verbose"`
	OutputFormat string          `koanf:"output"`
	Server       ServerConfig    `koanf:"server"`
	Theme        ThemeConfig     `koanf:"theme"`
	Analytics    AnalyticsConfig `koanf:"analytics"`
	Search       SearchConfig    `koanf:"search"`
	Preview      PreviewConfig   `koanf:"preview"`
}

// ServerConfig holds configuration for the docs server.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	AutoOpen        bool          `koanf:"auto_open"`
	Watch           bool          `koanf:"watch"`
	SessionSecret   string        `koanf:"session_secret"`
	ViewIdleTimeout time.Duration `koanf:"view_idle_timeout"`
	SweepInterval   time.Duration `koanf:"sweep_interval"`
}

// ThemeConfig holds the site branding.
type ThemeConfig struct {
	LogoText           string       `koanf:"logo_text"`
	LogoSrc            string       `koanf:"logo_src"`
	ProjectLink        string       `koanf:"project_link"`
	DarkMode           bool         `koanf:"dark_mode"`
	Hue                ColorPair    `koanf:"hue"`
	Saturation         ColorPair    `koanf:"saturation"`
	Banner             BannerConfig `koanf:"banner"`
	DocsRepositoryBase string       `koanf:"docs_repository_base"`
	TOCBackToTop       bool         `koanf:"toc_back_to_top"`
}

// ColorPair is a value for the light and dark color schemes.
type ColorPair struct {
	Light int `koanf:"light"`
	Dark  int `koanf:"dark"`
}

// BannerConfig is the announcement bar.
type BannerConfig struct {
	Key         string `koanf:"key"`
	Text        string `koanf:"text"`
	LinkText    string `koanf:"link_text"`
	Href        string `koanf:"href"`
	Dismissible bool   `koanf:"dismissible"`
}

// AnalyticsConfig holds tracking settings. The tab store is local; the GTM
// and Twitter snippets only render in production.
type AnalyticsConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Path         string `koanf:"path"`
	GTMID        string `koanf:"gtm_id"`
	TwitterPixel string `koanf:"twitter_pixel"`
}

// SearchConfig configures the "Ask AI" trigger.
type SearchConfig struct {
	Enabled bool   `koanf:"enabled"`
	Label   string `koanf:"label"`
}

// PreviewConfig configures the terminal preview.
type PreviewConfig struct {
	// Orientation overrides every group's orientation when set.
	Orientation tabs.Orientation `koanf:"orientation"`
}

// Default configuration values.
const (
	DefaultEnv             = "development"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPort            = 3000
	DefaultAnalyticsPath   = ".docsite/analytics.db"
	DefaultViewIdleTimeout = 2 * time.Minute
	DefaultSweepInterval   = 30 * time.Second

	// EnvProduction enables third party analytics snippets.
	EnvProduction = "production"
)

// IsProduction reports whether the production environment is selected.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
