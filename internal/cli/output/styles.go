package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by text output.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Muted         lipgloss.Style
	Bold          lipgloss.Style
	Info          lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	Selected      lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:       r.NewStyle().Bold(true),
		Muted:         r.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:          r.NewStyle().Bold(true),
		Info:          r.NewStyle().Foreground(lipgloss.Color("6")),
		Success:       r.NewStyle().Foreground(lipgloss.Color("2")),
		Warning:       r.NewStyle().Foreground(lipgloss.Color("3")),
		Error:         r.NewStyle().Foreground(lipgloss.Color("1")),
		Selected:      r.NewStyle().Bold(true).Underline(true),
		StatusSuccess: r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		StatusFailed:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}
