package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsite/internal/tui"
)

// NewPreviewCommand creates the preview command.
func NewPreviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <page>",
		Short: "Browse a page's tab groups in the terminal",
		Long: `Open an interactive terminal preview of a page's tab groups.

Each group follows the page URL the same way the site does: switching tabs
rewrites the query, 'b' goes back, and 'r' drops the query so every group
returns to its default tab.`,
		Example: `  docsite preview getting-started/installation
  docsite preview "guides?provider=google" --orientation horizontal`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args[0])
		},
	}

	cmd.Flags().String("orientation", "", "Override tab orientation (horizontal|vertical)")
	_ = cmd.RegisterFlagCompletionFunc("orientation", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"horizontal", "vertical"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runPreview(cmd *cobra.Command, ref string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	pr, err := parsePageRef(ref)
	if err != nil {
		return err
	}
	page, err := pr.lookup(cmdCtx.Repo.Site())
	if err != nil {
		return err
	}

	opts := tui.Options{
		Orientation: cmdCtx.Cfg.Preview.Orientation,
		Logger:      cmdCtx.Logger,
	}
	return tui.Run(cmd.Context(), page, pr.URL(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
}
