// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsite/internal/cli/config"
	"github.com/leapstack-labs/docsite/internal/cli/output"
	logutil "github.com/leapstack-labs/docsite/internal/testutil"
)

// SetupTestContent creates a temporary content tree with a page holding one
// tab group and a page without tabs. It returns the directory.
func SetupTestContent(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"_meta.yaml": "intro: Intro\nsetup: Setup\n",
		"intro.yaml": "title: Intro\nsections:\n  - html: <p>Welcome.</p>\n",
		"setup.yaml": `title: Setup
description: Pick a runtime.
sections:
  - heading: Install
    html: <p>Install the package.</p>
  - tabs:
      id: runtime
      key: runtime
      default: node
      items:
        - id: node
          label: Node
          html: <pre><code>npm install demo</code></pre>
        - id: deno
          label: Deno
          html: <pre><code>deno add demo</code></pre>
`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0600); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return dir
}

// WriteConfig writes a docsite.yaml into dir and returns its path.
func WriteConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "docsite.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// Execute runs cmd under a bare root command that loads configuration the
// way the docsite root does. It returns stdout and stderr.
func Execute(t *testing.T, cmd *cobra.Command, cfgFile string, args ...string) (string, string, error) {
	t.Helper()

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	logger := logutil.NewTestLogger(t)

	root := &cobra.Command{
		Use:           "docsite",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			if _, err := config.LoadConfig(cfgFile, c.Flags()); err != nil {
				return err
			}
			c.SetContext(context.WithValue(c.Context(), config.LoggerKey(), logger))
			return nil
		},
	}
	root.PersistentFlags().String("content-dir", "", "")
	root.PersistentFlags().StringP("output", "o", "", "")
	root.AddCommand(cmd)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{cmd.Name()}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
