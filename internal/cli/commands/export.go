package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsite/internal/location"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export <page>",
		Short: "Export a page as Markdown",
		Long: `Export a page as Markdown with each tab group reduced to one panel.

The page may carry a query selecting tabs, exactly as in the site URL;
groups without a value use their default tab.`,
		Example: `  # Default tabs
  docsite export getting-started/installation

  # The Express panel, written to a file
  docsite export "getting-started/installation?tab=express" -f express.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], outFile)
		},
	}

	cmd.Flags().StringVarP(&outFile, "file", "f", "", "Write to a file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, ref, outFile string) error {
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

	md, err := page.Markdown(page.SelectionFrom(location.Static(pr.Query)))
	if err != nil {
		return err
	}

	if outFile == "" {
		cmdCtx.Renderer.Printf("%s\n", md)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(md+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}
	cmdCtx.Logger.Debug("exported page", "page", page.Slug, "file", outFile)
	cmdCtx.Renderer.Success(fmt.Sprintf("Wrote %s", outFile))
	return nil
}
