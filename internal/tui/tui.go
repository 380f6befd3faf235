package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/charmbracelet/virtualize/internal/tui/exp/vlist"
	"github.com/charmbracelet/virtualize/internal/tui/styles"
	"github.com/charmbracelet/virtualize/internal/tui/util"
)

const defaultStatusTTL = 5 * time.Second

// RefreshMsg asks the list to reload its current window, e.g. when the
// underlying data changed outside the program.
type RefreshMsg struct{}

type KeyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	Help    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

type appModel[T any] struct {
	list   *vlist.List[T]
	title  string
	keyMap KeyMap
	help   help.Model

	showHelp bool

	width, height int
	status        *util.InfoMsg
	statusID      int
}

var _ util.Model = (*appModel[any])(nil)

// New wraps list with a title bar and a status line.
func New[T any](list *vlist.List[T], title string) tea.Model {
	return &appModel[T]{
		list:   list,
		title:  title,
		keyMap: DefaultKeyMap(),
		help:   help.New(),
	}
}

func (a *appModel[T]) Init() tea.Cmd {
	return a.list.Init()
}

func (a *appModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, a.list.SetSize(a.width, max(0, a.height-2))
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, a.keyMap.Quit):
			a.list.Close()
			return a, tea.Quit
		case key.Matches(msg, a.keyMap.Refresh):
			return a, a.list.Refresh()
		case key.Matches(msg, a.keyMap.Help):
			a.showHelp = !a.showHelp
			return a, nil
		}
	case RefreshMsg:
		return a, a.list.Refresh()
	case util.InfoMsg:
		a.status = &msg
		a.statusID++
		id := a.statusID
		ttl := msg.TTL
		if ttl == 0 {
			ttl = defaultStatusTTL
		}
		return a, tea.Tick(ttl, func(time.Time) tea.Msg {
			return util.ClearStatusMsg{ID: id}
		})
	case util.ClearStatusMsg:
		if msg.ID == a.statusID {
			a.status = nil
		}
		return a, nil
	}
	_, cmd := a.list.Update(msg)
	return a, cmd
}

func (a *appModel[T]) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	t := styles.CurrentTheme()
	title := t.S().Title.Render(ansi.Truncate(a.title, a.width, "…"))
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		a.list.View(),
		a.statusView(),
	)
}

func (a *appModel[T]) statusView() string {
	t := styles.CurrentTheme()

	var left string
	if a.showHelp {
		left = a.help.ShortHelpView(a.helpBindings())
	} else {
		first, last := a.list.VisibleRange()
		w := a.list.Window()
		parts := []string{
			a.list.State().String(),
			fmt.Sprintf("%d-%d of %d", min(first+1, last), last, a.list.ItemCount()),
			fmt.Sprintf("window %d+%d", w.ItemsBefore, w.VisibleCapacity),
		}
		left = t.S().Status.Render(strings.Join(parts, " · "))
	}

	var right string
	if a.status != nil {
		style := t.S().StatusInfo
		switch a.status.Type {
		case util.InfoTypeError:
			style = t.S().StatusError
		case util.InfoTypeWarn:
			style = t.S().StatusWarn
		}
		room := max(0, a.width-lipgloss.Width(left)-2)
		right = style.Render(ansi.Truncate(a.status.Msg, room, "…"))
	}

	gap := max(0, a.width-lipgloss.Width(left)-lipgloss.Width(right))
	return ansi.Truncate(left+strings.Repeat(" ", gap)+right, a.width, "")
}

func (a *appModel[T]) helpBindings() []key.Binding {
	bindings := a.list.KeyMap().KeyBindings()
	return append(bindings, a.keyMap.Refresh, a.keyMap.Help, a.keyMap.Quit)
}
