package viewport

import (
	"errors"
	"log/slog"
)

// Terminal is a Bridge for hosts that know their own scroll geometry, such
// as a terminal list that tracks a row offset. Measurements happen when the
// host calls Observe, typically after every scroll or layout change.
type Terminal struct {
	before  SpacerHandle
	after   SpacerHandle
	handler Handler

	last     [2]SizeEvent
	reported [2]bool
	disposed bool
}

var _ Bridge = (*Terminal)(nil)

// NewTerminal returns an uninitialized terminal bridge.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Initialize implements Bridge.
func (t *Terminal) Initialize(before, after SpacerHandle, h Handler) error {
	if t.disposed {
		return ErrDisposed
	}
	if before == nil || after == nil || h == nil {
		return errors.New("viewport: spacer handles and handler are required")
	}
	t.before = before
	t.after = after
	t.handler = h
	t.reported = [2]bool{}
	return nil
}

// Dispose implements Bridge.
func (t *Terminal) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.before = nil
	t.after = nil
	t.handler = nil
	t.reported = [2]bool{}
	slog.Debug("Viewport bridge disposed")
}

// Observe measures both spacers against the visible range
// [offset, offset+height] and delivers an event for each visible spacer
// whose measurement changed. The leading spacer is measured and delivered
// before the trailing one is looked at. It returns the delivered events.
func (t *Terminal) Observe(offset, height float64) []SizeEvent {
	if t.disposed || t.handler == nil {
		return nil
	}
	var events []SizeEvent
	if ev, ok := t.measure(SpacerBefore, offset, height); ok {
		events = append(events, ev)
		Dispatch(t.handler, ev)
	}
	// The handler may have been disposed by the first delivery.
	if t.disposed || t.handler == nil {
		return events
	}
	if ev, ok := t.measure(SpacerAfter, offset, height); ok {
		events = append(events, ev)
		Dispatch(t.handler, ev)
	}
	return events
}

func (t *Terminal) measure(which Spacer, offset, height float64) (SizeEvent, bool) {
	handle := t.before
	if which == SpacerAfter {
		handle = t.after
	}
	span := handle.Span()
	bottom := offset + height

	if span.Start > bottom || span.End() < offset {
		t.reported[which] = false
		return SizeEvent{}, false
	}

	var size float64
	if which == SpacerBefore {
		// The part of the spacer scrolled past the top of the viewport.
		size = clamp(offset-span.Start, 0, span.Size)
	} else {
		// The part of the spacer still below the bottom of the viewport.
		size = clamp(span.End()-bottom, 0, span.Size)
	}
	ev := SizeEvent{Spacer: which, SpacerSize: size, ContainerSize: height}
	if t.reported[which] && t.last[which] == ev {
		return SizeEvent{}, false
	}
	t.last[which] = ev
	t.reported[which] = true
	return ev, true
}

// Reset forgets previous measurements so the next Observe reports every
// visible spacer again.
func (t *Terminal) Reset() {
	t.reported = [2]bool{}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
