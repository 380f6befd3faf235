// Package virtualize keeps a small window of a large list materialized and
// coordinates the asynchronous fetches that fill it.
//
// A Virtualizer is not safe for concurrent use. Hosts call it from a single
// event loop; only Fetch.Run may execute elsewhere. Hosts driving it from
// several goroutines must serialize every call behind their own mutex.
package virtualize

import (
	"context"
	"log/slog"
)

// State is the refresh coordination state of a Virtualizer.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateApplying
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateApplying:
		return "applying"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Options configures a Virtualizer. Exactly one of Items and Provider must
// be set.
type Options[T any] struct {
	// ItemSize is the fixed size of every item along the scroll axis.
	ItemSize float64
	Items    []T
	Provider ProviderFunc[T]
	Logger   *slog.Logger
}

// Virtualizer owns the window state of one list instance.
type Virtualizer[T any] struct {
	itemSize float64
	source   Source[T]
	inline   bool
	logger   *slog.Logger

	itemsBefore     int
	visibleCapacity int

	itemCount   int
	loadedStart int
	loaded      []T
	hasLoaded   bool
	pendingErr  error

	state           State
	generation      uint64
	cancel          context.CancelFunc
	renderRequested bool
	closed          bool
}

// New validates opts and returns a Virtualizer with an empty window.
func New[T any](opts Options[T]) (*Virtualizer[T], error) {
	if err := validateItemSize(opts.ItemSize); err != nil {
		return nil, err
	}
	src, err := NewSource(opts.Items, opts.Provider)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Virtualizer[T]{
		itemSize: opts.ItemSize,
		source:   src,
		inline:   isSynchronous(src),
		logger:   logger,
	}, nil
}

// Fetch is one attempt to load a window. Run performs it and may block; the
// resulting Completion must be handed back to Complete on the host's loop.
type Fetch[T any] struct {
	generation uint64
	req        Request
	ctx        context.Context
	source     Source[T]
}

// Request returns the page this attempt loads.
func (f *Fetch[T]) Request() Request {
	return f.req
}

// Run calls the source.
func (f *Fetch[T]) Run() Completion[T] {
	res, err := f.source.Fetch(f.ctx, f.req)
	return Completion[T]{
		generation: f.generation,
		req:        f.req,
		ctx:        f.ctx,
		result:     res,
		err:        err,
	}
}

// Completion is the outcome of a Fetch.
type Completion[T any] struct {
	generation uint64
	req        Request
	ctx        context.Context
	result     Result[T]
	err        error
}

// Err returns the error the source returned, if any.
func (c Completion[T]) Err() error {
	return c.err
}

// OnBeforeSpacerVisible handles a measurement of the leading spacer. It
// returns the fetch the host must run, or nil when there is none.
func (v *Virtualizer[T]) OnBeforeSpacerVisible(spacerSize, containerSize float64) *Fetch[T] {
	return v.setWindow(BeforeWindow(spacerSize, containerSize, v.itemSize))
}

// OnAfterSpacerVisible handles a measurement of the trailing spacer.
func (v *Virtualizer[T]) OnAfterSpacerVisible(spacerSize, containerSize float64) *Fetch[T] {
	return v.setWindow(AfterWindow(spacerSize, containerSize, v.itemSize, v.itemCount))
}

func (v *Virtualizer[T]) setWindow(w Window) *Fetch[T] {
	if v.closed {
		return nil
	}
	if w.ItemsBefore == v.itemsBefore && w.VisibleCapacity == v.visibleCapacity {
		return nil
	}
	v.itemsBefore = w.ItemsBefore
	v.visibleCapacity = w.VisibleCapacity
	return v.refresh()
}

// Refresh fetches the current window again even if it did not change. Use
// it when the underlying data changed.
func (v *Virtualizer[T]) Refresh() *Fetch[T] {
	if v.closed {
		return nil
	}
	return v.refresh()
}

func (v *Virtualizer[T]) refresh() *Fetch[T] {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.generation++

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	f := &Fetch[T]{
		generation: v.generation,
		req:        Request{Start: v.itemsBefore, Count: v.visibleCapacity},
		ctx:        ctx,
		source:     v.source,
	}
	v.state = StateFetching
	v.renderRequested = true

	v.logger.Debug("Fetching items",
		"generation", f.generation,
		"start", f.req.Start,
		"count", f.req.Count,
	)

	if v.inline {
		v.Complete(f.Run())
		return nil
	}
	return f
}

// Complete applies the outcome of a fetch. Outcomes of superseded or
// cancelled attempts are dropped. It reports whether the window state
// changed.
func (v *Virtualizer[T]) Complete(c Completion[T]) bool {
	if v.closed || c.generation != v.generation || c.ctx == nil || c.ctx.Err() != nil {
		v.logger.Debug("Discarding stale fetch", "generation", c.generation, "current", v.generation)
		return false
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}

	if c.err != nil {
		v.logger.Debug("Fetch failed", "generation", c.generation, "error", c.err)
		v.pendingErr = &ProviderError{Request: c.req, Err: c.err}
		v.state = StateFaulted
		v.renderRequested = true
		return true
	}

	v.state = StateApplying
	items := c.result.Items
	if len(items) > c.req.Count {
		v.logger.Warn("Provider returned more items than requested",
			"requested", c.req.Count,
			"returned", len(items),
		)
		items = items[:c.req.Count]
	}
	v.itemCount = max(0, c.result.TotalCount)
	v.loaded = items
	v.hasLoaded = true
	v.loadedStart = c.req.Start
	v.state = StateIdle
	v.renderRequested = true
	return true
}

// RenderRequested reports whether the state changed since the last Render.
func (v *Virtualizer[T]) RenderRequested() bool {
	return v.renderRequested
}

// State returns the refresh coordination state.
func (v *Virtualizer[T]) State() State {
	return v.state
}

// Window returns the currently requested window.
func (v *Virtualizer[T]) Window() Window {
	return Window{ItemsBefore: v.itemsBefore, VisibleCapacity: v.visibleCapacity}
}

// ItemCount returns the last known total number of items.
func (v *Virtualizer[T]) ItemCount() int {
	return v.itemCount
}

// ItemSize returns the configured item size.
func (v *Virtualizer[T]) ItemSize() float64 {
	return v.itemSize
}

// Close cancels any in-flight fetch. The Virtualizer ignores every call
// that would change its state afterwards.
func (v *Virtualizer[T]) Close() {
	if v.closed {
		return
	}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.closed = true
	if v.state != StateFaulted {
		v.state = StateIdle
	}
}
