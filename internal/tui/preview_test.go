package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/docsite/internal/content"
	"github.com/leapstack-labs/docsite/internal/tabs"
	"github.com/leapstack-labs/docsite/internal/testutil"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

type changeLog struct {
	mu      sync.Mutex
	changes []string
}

func (c *changeLog) record(group, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, group+"="+id)
}

func (c *changeLog) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.changes...)
}

func newPreview(t *testing.T, slug, rawURL string, opts Options) (*Model, *changeLog) {
	t.Helper()
	site, err := content.Embedded()
	require.NoError(t, err)
	page, err := site.Page(slug)
	require.NoError(t, err)

	log := &changeLog{}
	opts.OnTabChange = log.record
	if opts.Logger == nil {
		opts.Logger = testutil.NewTestLogger(t)
	}
	m, err := New(context.Background(), page, rawURL, opts)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, log
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// =============================================================================
// Selection Tests
// =============================================================================

func TestPreview_SeedsFromLocation(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "absent", url: "/docs/getting-started/installation", want: "next"},
		{name: "empty", url: "/docs/getting-started/installation?tab=", want: "next"},
		{name: "value", url: "/docs/getting-started/installation?tab=express", want: "express"},
		{name: "repeated", url: "/docs/getting-started/installation?tab=sveltekit&tab=express", want: "sveltekit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, log := newPreview(t, "getting-started/installation", tt.url, Options{})
			assert.Equal(t, content.Selection{"framework": tt.want}, m.Selected())
			assert.Empty(t, log.list(), "seeding is not a change")
		})
	}
}

func TestPreview_ArrowKeysSelectAndWriteBack(t *testing.T) {
	m, log := newPreview(t, "getting-started/installation", "/docs/getting-started/installation", Options{})

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "sveltekit", m.Selected()["framework"])
	assert.Equal(t, "/docs/getting-started/installation?tab=sveltekit", m.Location())

	press(m, keyRunes("l"), tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "sveltekit", m.Selected()["framework"])

	// Wraps around both ends
	press(m, keyRunes("h"), keyRunes("h"))
	assert.Equal(t, "solidstart", m.Selected()["framework"])

	assert.Equal(t, []string{"framework=sveltekit", "framework=express", "framework=sveltekit", "framework=next", "framework=solidstart"}, log.list())
}

// next → sveltekit → query dropped → next, one callback per change.
func TestPreview_DroppingQueryRestoresDefault(t *testing.T) {
	m, log := newPreview(t, "getting-started/installation", "/docs/getting-started/installation", Options{})

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, []string{"framework=sveltekit"}, log.list())

	press(m, keyRunes("r"))
	assert.Equal(t, "/docs/getting-started/installation", m.Location())
	require.Eventually(t, func() bool {
		return m.Selected()["framework"] == "next"
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"framework=sveltekit", "framework=next"}, log.list())
}

func TestPreview_BackFollowsHistory(t *testing.T) {
	m, _ := newPreview(t, "getting-started/installation", "/docs/getting-started/installation?tab=express", Options{})

	press(m, keyRunes("l"), keyRunes("l"))
	require.Equal(t, "next", m.Selected()["framework"])

	press(m, keyRunes("b"))
	require.Eventually(t, func() bool {
		return m.Selected()["framework"] == "solidstart"
	}, time.Second, 10*time.Millisecond)

	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	require.Eventually(t, func() bool {
		return m.Selected()["framework"] == "express"
	}, time.Second, 10*time.Millisecond)

	press(m, keyRunes("b"))
	assert.Contains(t, m.View(), "no history")
}

func TestPreview_ChangeWakesProgram(t *testing.T) {
	m, _ := newPreview(t, "getting-started/installation", "/docs/getting-started/installation", Options{})

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- m.Init()() }()

	press(m, tea.KeyMsg{Type: tea.KeyRight})

	select {
	case msg := <-msgs:
		assert.IsType(t, selectionMsg{}, msg)
		assert.NotNil(t, press(m, msg), "keeps waiting for the next change")
	case <-time.After(time.Second):
		t.Fatal("expected a selection message")
	}
}

// =============================================================================
// Rendering Tests
// =============================================================================

func TestPreview_View(t *testing.T) {
	m, _ := newPreview(t, "getting-started/installation", "/docs/getting-started/installation?tab=express", Options{})

	view := m.View()
	assert.Contains(t, view, "Installation")
	assert.Contains(t, view, "framework")
	assert.Contains(t, view, "Next.js")
	assert.Contains(t, view, "Express β")
	assert.Contains(t, view, "location: /docs/getting-started/installation?tab=express")
	assert.NotContains(t, view, "next-auth@beta", "only the selected panel is shown")
}

func TestPreview_OrientationOverride(t *testing.T) {
	m, _ := newPreview(t, "guides", "/docs/guides", Options{})
	require.Len(t, m.groups, 1)
	assert.Equal(t, tabs.Vertical, m.groups[0].container.Orientation())

	m, _ = newPreview(t, "guides", "/docs/guides", Options{Orientation: tabs.Horizontal})
	assert.Equal(t, tabs.Horizontal, m.groups[0].container.Orientation())
}

func TestPreview_PageWithoutGroups(t *testing.T) {
	m, _ := newPreview(t, "security", "/docs/security", Options{})

	press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyDown})
	assert.Empty(t, m.Selected())
	assert.Contains(t, m.View(), "no tab groups")
}

func TestPreview_Quit(t *testing.T) {
	m, _ := newPreview(t, "guides", "/docs/guides", Options{})

	for _, msg := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		cmd := press(m, msg)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	}
}

func TestPreview_LogsTabChanges(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	m, _ := newPreview(t, "guides", "/docs/guides", Options{Logger: logger})

	press(m, keyRunes("j"), keyRunes("l"))
	assert.Equal(t, "google", m.Selected()["provider"])
	assert.True(t, logs.Contains("preview tab changed"))
	assert.True(t, logs.Contains("tab=google"))
}

func TestNew_InvalidURL(t *testing.T) {
	site, err := content.Embedded()
	require.NoError(t, err)
	page, err := site.Page("guides")
	require.NoError(t, err)

	_, err = New(context.Background(), page, "%zz", Options{})
	require.Error(t, err)
}
