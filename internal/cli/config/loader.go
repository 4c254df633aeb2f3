package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/docsite/internal/tabs"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

const envPrefix = "DOCSITE_"

// configNames are the file names searched in the working directory.
var configNames = []string{"docsite.yaml", "docsite.yml"}

// flagKeys maps flags whose names differ from their config key.
var flagKeys = map[string]string{
	"port":              "server.port",
	"open":              "server.auto_open",
	"watch":             "server.watch",
	"session-secret":    "server.session_secret",
	"view-idle-timeout": "server.view_idle_timeout",
	"analytics":         "analytics.enabled",
	"analytics-path":    "analytics.path",
	"orientation":       "preview.orientation",
}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// findConfigFile finds the config file to use.
// Priority: explicit path > docsite.yaml > docsite.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

func defaults() map[string]any {
	return map[string]any{
		"content_dir":                "",
		"environment":                DefaultEnv,
		"verbose":                    false,
		"output":                     DefaultOutput,
		"server.port":                DefaultPort,
		"server.auto_open":           false,
		"server.watch":               false,
		"server.session_secret":      "",
		"server.view_idle_timeout":   DefaultViewIdleTimeout.String(),
		"server.sweep_interval":      DefaultSweepInterval.String(),
		"theme.logo_text":            "Auth.js",
		"theme.project_link":         "https://github.com/nextauthjs/next-auth",
		"theme.dark_mode":            true,
		"theme.hue.light":            268,
		"theme.hue.dark":             280,
		"theme.saturation.light":     100,
		"theme.saturation.dark":      50,
		"theme.banner.key":           "v5-migration",
		"theme.banner.text":          "Migrating from NextAuth.js v4? Read",
		"theme.banner.link_text":     "our migration guide",
		"theme.banner.href":          "/docs/migrating-to-v5",
		"theme.banner.dismissible":   true,
		"theme.docs_repository_base": "https://github.com/nextauthjs/next-auth/edit/main/docs",
		"theme.toc_back_to_top":      true,
		"analytics.enabled":          false,
		"analytics.path":             DefaultAnalyticsPath,
		"search.enabled":             true,
		"search.label":               "Ask AI",
		"preview.orientation":        "",
	}
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	baseDir, _ := os.Getwd()
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			baseDir = filepath.Dir(abs)
		}
	}

	// 3. Load environment variables (DOCSITE_ prefix)
	// Transform: DOCSITE_SERVER__PORT -> server.port
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority)
	var flagContentDir string
	if flags != nil {
		if flags.Changed("content-dir") {
			if v, _ := flags.GetString("content-dir"); v != "" {
				flagContentDir, _ = filepath.Abs(v)
			}
		}
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey(flags)), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				orientationHook(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve relative paths against the config file directory. Flag
	// paths are relative to the working directory.
	if flagContentDir != "" {
		cfg.ContentDir = flagContentDir
	} else {
		cfg.ContentDir = resolvePathRelativeTo(cfg.ContentDir, baseDir)
	}
	if cfg.Analytics.Path != ":memory:" {
		cfg.Analytics.Path = resolvePathRelativeTo(cfg.Analytics.Path, baseDir)
	}

	currentConfig = &cfg
	return &cfg, nil
}

// envKey turns DOCSITE_THEME__BANNER__TEXT into theme.banner.text.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

func flagKey(flags *pflag.FlagSet) func(f *pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		// Only load flags that were explicitly set
		if !f.Changed {
			return "", nil
		}
		if key, ok := flagKeys[f.Name]; ok {
			return key, posflag.FlagVal(flags, f)
		}
		// Transform kebab-case to snake_case for config keys
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
	}
}

// orientationHook validates orientation strings while decoding.
func orientationHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(tabs.Orientation(""))
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != target || from.Kind() != reflect.String {
			return data, nil
		}
		s, _ := data.(string)
		if s == "" {
			return tabs.Orientation(""), nil
		}
		return tabs.ParseOrientation(s)
	}
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
