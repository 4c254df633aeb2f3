package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatHeader returns a markdown heading.
func FormatHeader(level int, s string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + s
}

// FormatKeyValue returns a markdown list item of the form "- **k**: v".
func FormatKeyValue(k, v string) string {
	return fmt.Sprintf("- **%s**: %s", k, v)
}

// Table writes rows as a bordered table for text mode or a markdown table
// otherwise.
func (r *Renderer) Table(header []string, rows [][]string) {
	RenderTable(r.out, header, rows, r.EffectiveMode() == ModeMarkdown)
}

// RenderTable writes rows with go-pretty.
func RenderTable(w io.Writer, header []string, rows [][]string, markdown bool) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if markdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}
