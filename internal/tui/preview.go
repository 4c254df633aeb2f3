// Package tui renders a page's tab groups in the terminal. Each group is a
// live tabs.Container bound to an in-memory location, so switching tabs,
// going back and dropping the query behave as they do in a browser.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/location"
	"github.com/leapstack-labs/docsite/internal/tabs"
)

// Options configures a preview.
type Options struct {
	// Orientation overrides the orientation of every group when set.
	Orientation tabs.Orientation
	// OnTabChange is called for every effective selection change.
	OnTabChange func(group, id string)
	Logger      *slog.Logger
}

type group struct {
	spec      *content.TabGroup
	container *tabs.Container
}

// selectionMsg reports that at least one group changed selection.
type selectionMsg struct{}

// Model is the bubbletea model of the preview.
type Model struct {
	page    *content.Page
	loc     *location.Location
	groups  []group
	focus   int
	history []string
	changes chan struct{}
	cancel  context.CancelFunc
	keys    keyMap
	help    help.Model
	status  string
	width   int
	logger  *slog.Logger
}

// New creates a preview of page starting at rawURL. The groups follow the
// location until ctx is done or Close is called.
func New(ctx context.Context, page *content.Page, rawURL string, opts Options) (*Model, error) {
	loc, err := location.New(rawURL)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, cancel := context.WithCancel(ctx)
	m := &Model{
		page:    page,
		loc:     loc,
		changes: make(chan struct{}, 1),
		cancel:  cancel,
		keys:    defaultKeys(),
		help:    help.New(),
		logger:  logger,
	}

	for _, g := range page.TabGroups() {
		orientation := g.Orientation
		if opts.Orientation != "" {
			orientation = opts.Orientation
		}
		c := tabs.New(tabs.Config{
			DefaultID:   g.Default,
			Key:         g.QueryKey(),
			Orientation: orientation,
			OnTabChange: onTabChange(g.ID, opts.OnTabChange, logger),
			Logger:      logger,
		}, tabs.Bind(loc))
		c.Observe(func(tabs.Snapshot) { m.ping() })
		c.Mount(ctx)
		m.groups = append(m.groups, group{spec: g, container: c})
	}
	return m, nil
}

func onTabChange(groupID string, fn func(group, id string), logger *slog.Logger) func(string) {
	return func(id string) {
		logger.Debug("preview tab changed", "group", groupID, "tab", id)
		if fn != nil {
			fn(groupID, id)
		}
	}
}

// ping collapses change notifications into one pending message.
func (m *Model) ping() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return selectionMsg{}
	}
}

// Close unmounts every group.
func (m *Model) Close() {
	m.cancel()
	for _, g := range m.groups {
		g.container.Unmount()
	}
}

// Location returns the preview's current URL.
func (m *Model) Location() string {
	return m.loc.String()
}

// Selected returns the selection of every group keyed by group id.
func (m *Model) Selected() content.Selection {
	sel := content.Selection{}
	for _, g := range m.groups {
		sel[g.spec.ID] = g.container.Selected()
	}
	return sel
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case selectionMsg:
		return m, m.waitForChange()
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Next):
		m.step(1)
	case key.Matches(msg, m.keys.Prev):
		m.step(-1)
	case key.Matches(msg, m.keys.Down):
		if len(m.groups) > 0 {
			m.focus = (m.focus + 1) % len(m.groups)
		}
	case key.Matches(msg, m.keys.Up):
		if len(m.groups) > 0 {
			m.focus = (m.focus + len(m.groups) - 1) % len(m.groups)
		}
	case key.Matches(msg, m.keys.Back):
		m.back()
	case key.Matches(msg, m.keys.Reset):
		m.navigate(m.pathOnly())
	}
	return m, nil
}

// step selects the neighbouring tab of the focused group.
func (m *Model) step(delta int) {
	if len(m.groups) == 0 {
		return
	}
	g := m.groups[m.focus]
	items := g.spec.Items
	if len(items) == 0 {
		return
	}
	cur := 0
	for i, it := range items {
		if it.ID == g.container.Selected() {
			cur = i
			break
		}
	}
	next := items[(cur+delta+len(items))%len(items)].ID

	before := m.loc.String()
	if g.container.Select(next) {
		m.history = append(m.history, before)
		m.status = fmt.Sprintf("%s: %s", g.spec.ID, next)
	}
}

// back returns to the location before the last selection or navigation.
func (m *Model) back() {
	if len(m.history) == 0 {
		m.status = "no history"
		return
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	if err := m.loc.Navigate(prev); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "back to " + prev
}

func (m *Model) navigate(rawURL string) {
	before := m.loc.String()
	if before == rawURL {
		return
	}
	if err := m.loc.Navigate(rawURL); err != nil {
		m.status = err.Error()
		return
	}
	m.history = append(m.history, before)
	m.status = "navigated to " + rawURL
}

func (m *Model) pathOnly() string {
	u := m.loc.URL()
	return u.Path
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.page.Title))
	b.WriteByte('\n')
	if m.page.Description != "" {
		b.WriteString(mutedStyle.Render(m.page.Description))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if len(m.groups) == 0 {
		b.WriteString(mutedStyle.Render("This page has no tab groups."))
		b.WriteString("\n\n")
	}

	for i, g := range m.groups {
		b.WriteString(m.renderGroup(g, i == m.focus))
		b.WriteString("\n\n")
	}

	b.WriteString(mutedStyle.Render("location: " + m.loc.String()))
	b.WriteByte('\n')
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteByte('\n')
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderGroup(g group, focused bool) string {
	marker := "  "
	if focused {
		marker = focusMarkerStyle.Render("▸ ")
	}
	header := marker + groupStyle.Render(g.spec.ID) + mutedStyle.Render(fmt.Sprintf(" (?%s=)", g.spec.QueryKey()))

	snap := g.container.Snapshot()
	triggers := make([]string, 0, len(g.spec.Items))
	for _, it := range g.spec.Items {
		label := it.Label
		if it.Beta {
			label += " β"
		}
		if it.ID == snap.Selected {
			triggers = append(triggers, selectedStyle.Render(label))
		} else {
			triggers = append(triggers, triggerStyle.Render(label))
		}
	}

	var list string
	if snap.Orientation == tabs.Vertical {
		list = lipgloss.JoinVertical(lipgloss.Left, triggers...)
	} else {
		list = lipgloss.JoinHorizontal(lipgloss.Top, triggers...)
	}

	panel := panelStyle.Render(panelText(g.spec.Selected(snap.Selected)))
	body := lipgloss.JoinVertical(lipgloss.Left, list, panel)
	if snap.Orientation == tabs.Vertical {
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, " ", panel)
	}
	return header + "\n" + body
}

// panelText renders a tab panel as markdown text.
func panelText(it content.TabItem) string {
	md, err := htmltomarkdown.ConvertString(it.HTML)
	if err != nil {
		return it.Label
	}
	md = strings.TrimSpace(md)
	if md == "" {
		return it.Label
	}
	return md
}

// Run starts the preview program and blocks until the user quits.
func Run(ctx context.Context, page *content.Page, rawURL string, opts Options, in io.Reader, out io.Writer) error {
	m, err := New(ctx, page, rawURL, opts)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
