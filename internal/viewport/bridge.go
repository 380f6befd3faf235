// Package viewport reports when the spacers around a virtualized window
// become visible and how large they and their container are.
package viewport

import "errors"

// ErrDisposed is returned when a disposed bridge is initialized again.
var ErrDisposed = errors.New("viewport: bridge disposed")

// Spacer names one of the two sentinel regions around the window.
type Spacer int

const (
	SpacerBefore Spacer = iota
	SpacerAfter
)

func (s Spacer) String() string {
	if s == SpacerBefore {
		return "before"
	}
	return "after"
}

// Span is an extent along the scroll axis.
type Span struct {
	Start float64
	Size  float64
}

// End returns the exclusive end of the span.
func (s Span) End() float64 {
	return s.Start + s.Size
}

// SpacerHandle gives a bridge access to a spacer's current extent.
type SpacerHandle interface {
	Span() Span
}

// SpanFunc adapts a function to a SpacerHandle.
type SpanFunc func() Span

// Span implements SpacerHandle.
func (f SpanFunc) Span() Span {
	return f()
}

// SizeEvent is one measurement of a visible spacer.
type SizeEvent struct {
	Spacer        Spacer
	SpacerSize    float64
	ContainerSize float64
}

// Handler receives measurements. Calls are made on the observer's turn and
// never concurrently. They may repeat for the same state.
type Handler interface {
	OnBeforeSpacerVisible(spacerSize, containerSize float64)
	OnAfterSpacerVisible(spacerSize, containerSize float64)
}

// Bridge observes two spacers on behalf of a list.
type Bridge interface {
	Initialize(before, after SpacerHandle, h Handler) error
	// Dispose stops reporting and releases the handles. It is safe to call
	// more than once.
	Dispose()
}

// Dispatch delivers ev to the matching Handler method.
func Dispatch(h Handler, ev SizeEvent) {
	switch ev.Spacer {
	case SpacerBefore:
		h.OnBeforeSpacerVisible(ev.SpacerSize, ev.ContainerSize)
	case SpacerAfter:
		h.OnAfterSpacerVisible(ev.SpacerSize, ev.ContainerSize)
	}
}
