// Package vlist is a terminal list that keeps only a window of a large,
// possibly remote, collection materialized.
package vlist

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"

	"github.com/charmbracelet/virtualize/internal/csync"
	"github.com/charmbracelet/virtualize/internal/tui/styles"
	"github.com/charmbracelet/virtualize/internal/tui/util"
	"github.com/charmbracelet/virtualize/internal/viewport"
	"github.com/charmbracelet/virtualize/internal/virtualize"
)

const ViewportDefaultScrollSize = 2

// ItemTemplate renders one item into at most width columns. Lines beyond the
// item height are dropped.
type ItemTemplate[T any] func(item T, width int) string

// PlaceholderTemplate renders a slot whose item is not loaded yet.
type PlaceholderTemplate func(ctx virtualize.PlaceholderContext, width int) string

type Options[T any] struct {
	// ItemHeight is the number of rows every item takes. Defaults to 1.
	ItemHeight int
	// Exactly one of Items and Provider must be set.
	Items    []T
	Provider virtualize.ProviderFunc[T]

	ItemTemplate        ItemTemplate[T]
	PlaceholderTemplate PlaceholderTemplate
}

type confOptions struct {
	width, height int
	keyMap        KeyMap
	focused       bool
	enableMouse   bool
	scrollbar     bool
}

type ListOption func(*confOptions)

// WithSize sets the size of the list.
func WithSize(width, height int) ListOption {
	return func(l *confOptions) {
		l.width = width
		l.height = height
	}
}

func WithKeyMap(keyMap KeyMap) ListOption {
	return func(l *confOptions) {
		l.keyMap = keyMap
	}
}

func WithFocus(focus bool) ListOption {
	return func(l *confOptions) {
		l.focused = focus
	}
}

func WithEnableMouse() ListOption {
	return func(l *confOptions) {
		l.enableMouse = true
	}
}

// WithScrollbar draws a scrollbar column when the list overflows.
func WithScrollbar(enabled bool) ListOption {
	return func(l *confOptions) {
		l.scrollbar = enabled
	}
}

type fetchMsg[T any] struct {
	listID     string
	completion virtualize.Completion[T]
}

// List is a bubbletea model over a Virtualizer. It must only be used from the
// program's Update loop.
type List[T any] struct {
	*confOptions

	id     string
	v      *virtualize.Virtualizer[T]
	bridge *viewport.Terminal

	itemHeight          int
	itemTemplate        ItemTemplate[T]
	placeholderTemplate PlaceholderTemplate

	offset    int
	layout    virtualize.Layout[T]
	viewCache *csync.Map[string, string]
	rendered  string

	pending *virtualize.Fetch[T]
	errs    []error
	lastErr error
	closed  bool
}

var _ util.Model = (*List[any])(nil)

// New validates opts and returns a list ready to be sized.
func New[T any](opts Options[T], listOpts ...ListOption) (*List[T], error) {
	if opts.ItemTemplate == nil {
		return nil, fmt.Errorf("failed to create list: %w", virtualize.ErrMissingTemplate)
	}
	itemHeight := opts.ItemHeight
	if itemHeight == 0 {
		itemHeight = 1
	}

	id := uuid.NewString()
	v, err := virtualize.New(virtualize.Options[T]{
		ItemSize: float64(itemHeight),
		Items:    opts.Items,
		Provider: opts.Provider,
		Logger:   slog.Default().With("list", id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	l := &List[T]{
		confOptions: &confOptions{
			keyMap:  DefaultKeyMap(),
			focused: true,
		},
		id:                  id,
		v:                   v,
		bridge:              viewport.NewTerminal(),
		itemHeight:          itemHeight,
		itemTemplate:        opts.ItemTemplate,
		placeholderTemplate: opts.PlaceholderTemplate,
		viewCache:           csync.NewMap[string, string](),
	}
	for _, opt := range listOpts {
		opt(l.confOptions)
	}
	if l.placeholderTemplate == nil {
		l.placeholderTemplate = l.blankPlaceholder
	}

	before := viewport.SpanFunc(l.beforeSpan)
	after := viewport.SpanFunc(l.afterSpan)
	if err := l.bridge.Initialize(before, after, spacerHandler[T]{l}); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return l, nil
}

func (l *List[T]) blankPlaceholder(_ virtualize.PlaceholderContext, width int) string {
	return styles.CurrentTheme().S().Placeholder.
		Width(width).
		Height(l.itemHeight).
		Render("")
}

// spacerHandler feeds bridge measurements into the virtualizer and lays the
// list out again right away, so the next spacer is measured against the
// updated window.
type spacerHandler[T any] struct {
	l *List[T]
}

func (h spacerHandler[T]) OnBeforeSpacerVisible(spacerSize, containerSize float64) {
	h.l.queue(h.l.v.OnBeforeSpacerVisible(spacerSize, containerSize))
}

func (h spacerHandler[T]) OnAfterSpacerVisible(spacerSize, containerSize float64) {
	h.l.queue(h.l.v.OnAfterSpacerVisible(spacerSize, containerSize))
}

func (l *List[T]) queue(f *virtualize.Fetch[T]) {
	// A later fetch supersedes an earlier one from the same pass.
	if f != nil {
		l.pending = f
	}
	l.relayout()
}

func (l *List[T]) beforeSpan() viewport.Span {
	return viewport.Span{Start: 0, Size: l.layout.Before}
}

func (l *List[T]) afterSpan() viewport.Span {
	return viewport.Span{
		Start: l.layout.Before + float64(len(l.layout.Slots))*l.layout.ItemSize,
		Size:  l.layout.After,
	}
}

// ID identifies this list in completion messages.
func (l *List[T]) ID() string {
	return l.id
}

func (l *List[T]) KeyMap() KeyMap {
	return l.keyMap
}

// Init implements tea.Model.
func (l *List[T]) Init() tea.Cmd {
	return l.sync()
}

// Update implements tea.Model.
func (l *List[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchMsg[T]:
		if msg.listID != l.id {
			return l, nil
		}
		return l, l.complete(msg.completion)
	case tea.MouseWheelMsg:
		if l.enableMouse {
			return l.handleMouseWheel(msg)
		}
		return l, nil
	case tea.KeyPressMsg:
		if !l.focused {
			return l, nil
		}
		switch {
		case key.Matches(msg, l.keyMap.Down):
			return l, l.MoveDown(1)
		case key.Matches(msg, l.keyMap.Up):
			return l, l.MoveUp(1)
		case key.Matches(msg, l.keyMap.DownOneItem):
			return l, l.MoveDown(l.itemHeight)
		case key.Matches(msg, l.keyMap.UpOneItem):
			return l, l.MoveUp(l.itemHeight)
		case key.Matches(msg, l.keyMap.HalfPageDown):
			return l, l.MoveDown(l.height / 2)
		case key.Matches(msg, l.keyMap.HalfPageUp):
			return l, l.MoveUp(l.height / 2)
		case key.Matches(msg, l.keyMap.PageDown):
			return l, l.MoveDown(l.height)
		case key.Matches(msg, l.keyMap.PageUp):
			return l, l.MoveUp(l.height)
		case key.Matches(msg, l.keyMap.End):
			return l, l.GoToBottom()
		case key.Matches(msg, l.keyMap.Home):
			return l, l.GoToTop()
		}
	}
	return l, nil
}

func (l *List[T]) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.Button {
	case tea.MouseWheelDown:
		cmd = l.MoveDown(ViewportDefaultScrollSize)
	case tea.MouseWheelUp:
		cmd = l.MoveUp(ViewportDefaultScrollSize)
	}
	return l, cmd
}

// View implements tea.Model.
func (l *List[T]) View() string {
	if l.height <= 0 || l.width <= 0 {
		return ""
	}
	return l.rendered
}

// MoveDown scrolls n rows towards the end.
func (l *List[T]) MoveDown(n int) tea.Cmd {
	old := l.offset
	l.offset = min(l.offset+max(n, 0), l.maxOffset())
	if old == l.offset {
		return nil
	}
	return l.sync()
}

// MoveUp scrolls n rows towards the start.
func (l *List[T]) MoveUp(n int) tea.Cmd {
	old := l.offset
	l.offset = max(l.offset-max(n, 0), 0)
	if old == l.offset {
		return nil
	}
	return l.sync()
}

func (l *List[T]) GoToTop() tea.Cmd {
	return l.MoveUp(l.offset)
}

func (l *List[T]) GoToBottom() tea.Cmd {
	return l.MoveDown(l.maxOffset() - l.offset)
}

// Refresh loads the current window again, e.g. after the collection grew.
func (l *List[T]) Refresh() tea.Cmd {
	if l.closed {
		return nil
	}
	var cmds []tea.Cmd
	if f := l.v.Refresh(); f != nil {
		cmds = append(cmds, l.fetchCmd(f))
	}
	l.viewCache.Reset()
	if cmd := l.sync(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return batch(cmds)
}

// SetSize resizes the list and measures the spacers again.
func (l *List[T]) SetSize(width, height int) tea.Cmd {
	if width != l.width {
		l.viewCache.Reset()
	}
	l.width = width
	l.height = height
	l.bridge.Reset()
	return l.sync()
}

func (l *List[T]) GetSize() (int, int) {
	return l.width, l.height
}

func (l *List[T]) Focus() {
	l.focused = true
}

func (l *List[T]) Blur() {
	l.focused = false
}

func (l *List[T]) IsFocused() bool {
	return l.focused
}

// Close stops observing the spacers and cancels any in-flight fetch.
func (l *List[T]) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.bridge.Dispose()
	l.v.Close()
	l.viewCache.Reset()
}

func (l *List[T]) Offset() int {
	return l.offset
}

func (l *List[T]) Layout() virtualize.Layout[T] {
	return l.layout
}

func (l *List[T]) State() virtualize.State {
	return l.v.State()
}

func (l *List[T]) Window() virtualize.Window {
	return l.v.Window()
}

func (l *List[T]) ItemCount() int {
	return l.v.ItemCount()
}

// Err returns the last provider failure until a fetch succeeds.
func (l *List[T]) Err() error {
	return l.lastErr
}

// VisibleRange returns the logical indexes of the first and one past the last
// item intersecting the viewport.
func (l *List[T]) VisibleRange() (int, int) {
	if l.height <= 0 {
		return 0, 0
	}
	first := l.offset / l.itemHeight
	last := (l.offset + l.height + l.itemHeight - 1) / l.itemHeight
	count := l.v.ItemCount()
	return min(first, count), min(last, count)
}

func (l *List[T]) totalRows() int {
	return int(math.Ceil(l.layout.Size()))
}

func (l *List[T]) maxOffset() int {
	return max(0, l.totalRows()-l.height)
}

func (l *List[T]) clampOffset() bool {
	clamped := max(0, min(l.offset, l.maxOffset()))
	if clamped == l.offset {
		return false
	}
	l.offset = clamped
	return true
}

// sync lays the list out, lets the bridge measure the spacers at the current
// offset and redraws. It returns the commands for whatever that produced.
func (l *List[T]) sync() tea.Cmd {
	if l.closed || l.width <= 0 || l.height <= 0 {
		return nil
	}
	l.relayout()
	l.clampOffset()
	l.bridge.Observe(float64(l.offset), float64(l.height))
	if l.clampOffset() {
		l.bridge.Observe(float64(l.offset), float64(l.height))
	}
	l.draw()

	var cmds []tea.Cmd
	for _, err := range l.errs {
		cmds = append(cmds, util.ReportError(err))
	}
	l.errs = nil
	if f := l.pending; f != nil {
		l.pending = nil
		cmds = append(cmds, l.fetchCmd(f))
	}
	return batch(cmds)
}

func batch(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (l *List[T]) relayout() {
	layout, err := l.v.Render()
	l.layout = layout
	if err != nil {
		l.lastErr = err
		l.errs = append(l.errs, err)
	}
}

func (l *List[T]) fetchCmd(f *virtualize.Fetch[T]) tea.Cmd {
	id := l.id
	return func() tea.Msg {
		return fetchMsg[T]{listID: id, completion: f.Run()}
	}
}

func (l *List[T]) complete(c virtualize.Completion[T]) tea.Cmd {
	if l.closed || !l.v.Complete(c) {
		return nil
	}
	if c.Err() == nil {
		l.lastErr = nil
	}
	l.viewCache.Reset()
	return l.sync()
}

func (l *List[T]) contentWidth() int {
	if l.scrollbar && l.totalRows() > l.height {
		return max(0, l.width-1)
	}
	return l.width
}

func (l *List[T]) draw() {
	width := l.contentWidth()
	before := int(l.layout.Before)
	blank := strings.Repeat(" ", width)

	lines := make([]string, 0, l.height)
	for row := l.offset; row < l.offset+l.height; row++ {
		rel := row - before
		if rel < 0 || rel/l.itemHeight >= len(l.layout.Slots) {
			lines = append(lines, blank)
			continue
		}
		block := l.slotLines(l.layout.Slots[rel/l.itemHeight], width)
		lines = append(lines, block[rel%l.itemHeight])
	}

	if l.scrollbar {
		if bar := scrollbar(l.height, l.totalRows(), l.offset); bar != nil {
			for i := range lines {
				lines[i] += bar[i]
			}
		}
	}
	l.rendered = strings.Join(lines, "\n")
}

func (l *List[T]) slotLines(s virtualize.Slot[T], width int) []string {
	key := fmt.Sprintf("%d:%d:%d", s.Kind, s.Index, width)
	if cached, ok := l.viewCache.Get(key); ok {
		return strings.Split(cached, "\n")
	}
	var content string
	if s.Kind == virtualize.SlotItem {
		content = l.itemTemplate(s.Item, width)
	} else {
		content = l.placeholderTemplate(s.Placeholder(), width)
	}
	lines := fitBlock(content, width, l.itemHeight)
	l.viewCache.Set(key, strings.Join(lines, "\n"))
	return lines
}

// fitBlock cuts or pads content to exactly height lines of width cells.
func fitBlock(content string, width, height int) []string {
	src := strings.Split(content, "\n")
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(src) {
			line = ansi.Truncate(src[i], width, "…")
		}
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out[i] = line
	}
	return out
}
