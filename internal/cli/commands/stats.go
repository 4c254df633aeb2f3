package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsite/internal/analytics"
	"github.com/leapstack-labs/docsite/internal/cli/output"
)

// StatsOutput is the JSON form of the stats command.
type StatsOutput struct {
	Counts []analytics.TabCount `json:"counts"`
	Recent []EventInfo          `json:"recent,omitempty"`
}

// EventInfo is a recorded tab change.
type EventInfo struct {
	Page       string `json:"page"`
	Group      string `json:"group"`
	Tab        string `json:"tab"`
	OccurredAt string `json:"occurred_at"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "stats [page]",
		Short: "Show recorded tab selections",
		Long: `Show how often each tab was selected, as recorded by 'docsite serve --analytics'.

Without a page, counts for every page are shown, most selected first.`,
		Example: `  # Counts for every page
  docsite stats

  # One page plus the ten latest selections
  docsite stats getting-started/installation --recent 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := ""
			if len(args) == 1 {
				ref, err := parsePageRef(args[0])
				if err != nil {
					return err
				}
				page = ref.Slug
			}
			return runStats(cmd, page, recent)
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "Also list the N most recent selections")
	cmd.Flags().String("analytics-path", "", "Path to the analytics database")

	return cmd
}

func runStats(cmd *cobra.Command, page string, recent int) error {
	cmdCtx := NewCommandContextWithoutContent(cmd)
	r := cmdCtx.Renderer
	path := cmdCtx.Cfg.Analytics.Path

	if path != ":memory:" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no analytics recorded at %s\nHint: run 'docsite serve --analytics' first", path)
		}
	}

	store, err := analytics.Open(path, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("failed to open analytics store: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	counts, err := store.Counts(ctx, page)
	if err != nil {
		return err
	}

	var events []analytics.Event
	if recent > 0 {
		if events, err = store.Recent(ctx, recent); err != nil {
			return err
		}
	}

	out := StatsOutput{Counts: counts}
	for _, e := range events {
		out.Recent = append(out.Recent, EventInfo{
			Page:       e.Page,
			Group:      e.Group,
			Tab:        e.Tab,
			OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
		})
	}

	return renderStats(r, out, page)
}

func renderStats(r *output.Renderer, out StatsOutput, page string) error {
	if r.EffectiveMode() == output.ModeJSON {
		if out.Counts == nil {
			out.Counts = []analytics.TabCount{}
		}
		return r.JSON(out)
	}

	title := "Tab selections"
	if page != "" {
		title += ": " + page
	}
	r.Header(1, title)
	rows := make([][]string, 0, len(out.Counts))
	for _, c := range out.Counts {
		rows = append(rows, []string{c.Page, c.Group, c.Tab, strconv.Itoa(c.Count)})
	}
	r.Table([]string{"Page", "Group", "Tab", "Count"}, rows)

	if len(out.Recent) > 0 {
		r.Println("")
		r.Header(2, "Recent")
		rows = rows[:0]
		for _, e := range out.Recent {
			rows = append(rows, []string{e.OccurredAt, e.Page, e.Group, e.Tab})
		}
		r.Table([]string{"When", "Page", "Group", "Tab"}, rows)
	}
	return nil
}
