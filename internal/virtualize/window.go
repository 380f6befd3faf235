package virtualize

import (
	"fmt"
	"math"
)

const (
	// SpacerUndercount is subtracted from the number of items that fit in a
	// spacer so the window starts slightly before the true boundary.
	SpacerUndercount = 1
	// Overscan is the number of extra slots added to the visible capacity.
	Overscan = 2
)

// Window is the range the virtualizer wants materialized.
type Window struct {
	ItemsBefore     int
	VisibleCapacity int
}

func validateItemSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidItemSize, size)
	}
	return nil
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// ItemsInSpacer returns how many whole items fit in a spacer of the given
// size, minus SpacerUndercount.
func ItemsInSpacer(spacerSize, itemSize float64) int {
	n := toInt(math.Floor(sanitize(spacerSize)/itemSize)) - SpacerUndercount
	return max(0, n)
}

// VisibleCapacity returns how many slots cover a container of the given
// size, plus Overscan.
func VisibleCapacity(containerSize, itemSize float64) int {
	return toInt(math.Ceil(sanitize(containerSize)/itemSize)) + Overscan
}

// toInt saturates instead of overflowing for absurd measurements.
func toInt(v float64) int {
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// BeforeWindow computes the window when the leading spacer is visible.
func BeforeWindow(spacerSize, containerSize, itemSize float64) Window {
	return Window{
		ItemsBefore:     ItemsInSpacer(spacerSize, itemSize),
		VisibleCapacity: VisibleCapacity(containerSize, itemSize),
	}
}

// AfterWindow computes the window when the trailing spacer is visible,
// working backward from the end of a list of itemCount items.
func AfterWindow(spacerSize, containerSize, itemSize float64, itemCount int) Window {
	itemsAfter := ItemsInSpacer(spacerSize, itemSize)
	capacity := VisibleCapacity(containerSize, itemSize)
	return Window{
		ItemsBefore:     max(0, itemCount-itemsAfter-capacity),
		VisibleCapacity: capacity,
	}
}
