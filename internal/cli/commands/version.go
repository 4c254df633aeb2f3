package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsite/internal/cli/output"
)

// BuildInfo is stamped into the binary at build time.
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// VersionOutput is the JSON form of the version command.
type VersionOutput struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
	Content   string `json:"content"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display docsite version and build information, and the content tree
the other commands would serve.`,
		Example: `  docsite version
  docsite version -o json
  docsite version --content-dir ./site`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContextWithoutContent(cmd)
			return renderVersion(cmdCtx.Renderer, versionOutput(info, cmdCtx.Cfg.ContentDir))
		},
	}
}

func versionOutput(info BuildInfo, contentDir string) VersionOutput {
	out := VersionOutput{
		Version:   info.Version,
		Commit:    info.GitCommit,
		BuildDate: info.BuildDate,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Content:   "embedded",
	}
	if contentDir != "" {
		out.Content = contentDir
	}
	if out.Commit == "" {
		out.Commit = "unknown"
	}
	if out.BuildDate == "" {
		out.BuildDate = "unknown"
	}
	return out
}

func renderVersion(r *output.Renderer, v VersionOutput) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(v)
	}

	r.Header(1, "docsite v"+v.Version)
	commit := v.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	for _, kv := range [][2]string{
		{"Commit", commit},
		{"Built", v.BuildDate},
		{"Go", v.Go + " " + v.Platform},
		{"Content", v.Content},
	} {
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Println(output.FormatKeyValue(kv[0], kv[1]))
			continue
		}
		r.Printf("  %-8s %s\n", kv[0]+":", kv[1])
	}
	return nil
}
