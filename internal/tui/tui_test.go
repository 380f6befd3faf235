package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charmbracelet/virtualize/internal/tui/exp/vlist"
	"github.com/charmbracelet/virtualize/internal/tui/util"
)

func newApp(t *testing.T, items []string) tea.Model {
	t.Helper()
	l, err := vlist.New(vlist.Options[string]{
		Items:        items,
		ItemTemplate: func(item string, _ int) string { return item },
	})
	require.NoError(t, err)
	m := New(l, "demo")
	assert.Nil(t, m.Init())
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 6})
	return m
}

func viewLines(m tea.Model) []string {
	v, ok := m.(interface{ View() string })
	if !ok {
		return nil
	}
	lines := strings.Split(ansi.Strip(v.View()), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}

func TestAppLayout(t *testing.T) {
	t.Parallel()

	m := newApp(t, []string{"a", "b", "c"})
	lines := viewLines(m)
	require.Len(t, lines, 6)
	assert.Equal(t, "demo", lines[0])
	assert.Equal(t, []string{"a", "b", "c", ""}, lines[1:5])
	assert.Contains(t, lines[5], "idle · 1-3 of 3 · window 0+6")
}

func TestAppStatusMessages(t *testing.T) {
	t.Parallel()

	m := newApp(t, []string{"a"})
	_, first := m.Update(util.InfoMsg{Type: util.InfoTypeError, Msg: "boom", TTL: time.Millisecond})
	require.NotNil(t, first)
	status := viewLines(m)[5]
	assert.True(t, strings.HasSuffix(status, "boom"), status)
	assert.LessOrEqual(t, ansi.StringWidth(status), 40)

	// The first message's timer must not clear the one that replaced it.
	_, second := m.Update(util.InfoMsg{Type: util.InfoTypeInfo, Msg: "bang", TTL: time.Millisecond})
	require.NotNil(t, second)
	m.Update(first())
	assert.True(t, strings.HasSuffix(viewLines(m)[5], "bang"))

	m.Update(second())
	assert.NotContains(t, viewLines(m)[5], "bang")
}

func TestAppKeys(t *testing.T) {
	t.Parallel()

	m := newApp(t, []string{"a", "b"})

	m.Update(RefreshMsg{})
	assert.Equal(t, "a", viewLines(m)[1])

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppHelpToggle(t *testing.T) {
	t.Parallel()

	m := newApp(t, []string{"a", "b"})
	help := tea.KeyPressMsg{Code: '?', Text: "?"}

	m.Update(help)
	status := viewLines(m)[5]
	assert.Contains(t, status, "↓/j scroll down")
	assert.NotContains(t, status, "idle")
	assert.LessOrEqual(t, ansi.StringWidth(status), 40)

	m.Update(help)
	assert.Contains(t, viewLines(m)[5], "idle · 1-2 of 2")
}
