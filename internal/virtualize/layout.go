package virtualize

import (
	"fmt"
	"strings"
)

// SlotKind tells a host what to paint in a slot.
type SlotKind int

const (
	SlotPlaceholder SlotKind = iota
	SlotItem
)

// PlaceholderContext identifies the logical slot a placeholder stands in for.
type PlaceholderContext struct {
	Index int
}

// Slot is one rendered position between the spacers. Index is the logical
// index in the full list and is stable across renders.
type Slot[T any] struct {
	Index int
	Kind  SlotKind
	Item  T
}

// Placeholder returns the context for a placeholder slot.
func (s Slot[T]) Placeholder() PlaceholderContext {
	return PlaceholderContext{Index: s.Index}
}

// Layout is the ordered render instruction list for one pass.
type Layout[T any] struct {
	// Before and After are the spacer sizes along the scroll axis.
	Before      float64
	After       float64
	ItemsBefore int
	ItemsAfter  int
	ItemCount   int
	ItemSize    float64
	Slots       []Slot[T]
}

// Placeholders returns the number of placeholder slots.
func (l Layout[T]) Placeholders() int {
	n := 0
	for _, s := range l.Slots {
		if s.Kind == SlotPlaceholder {
			n++
		}
	}
	return n
}

// Size returns the total extent of the layout along the scroll axis.
func (l Layout[T]) Size() float64 {
	return l.Before + float64(len(l.Slots))*l.ItemSize + l.After
}

// String dumps the layout one instruction per line.
func (l Layout[T]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "spacer before size=%g items=%d\n", l.Before, l.ItemsBefore)
	for _, s := range l.Slots {
		switch s.Kind {
		case SlotItem:
			fmt.Fprintf(&b, "item %d %v\n", s.Index, s.Item)
		default:
			fmt.Fprintf(&b, "placeholder %d\n", s.Index)
		}
	}
	fmt.Fprintf(&b, "spacer after size=%g items=%d\n", l.After, l.ItemsAfter)
	return b.String()
}

// Render computes the layout for the current state. A provider failure
// recorded since the last call is returned exactly once and then cleared.
func (v *Virtualizer[T]) Render() (Layout[T], error) {
	l := v.layout()
	err := v.pendingErr
	v.pendingErr = nil
	v.renderRequested = false
	return l, err
}

func (v *Virtualizer[T]) layout() Layout[T] {
	first := v.itemsBefore
	lastIndex := min(v.itemsBefore+v.visibleCapacity, v.itemCount)
	itemsAfter := max(0, v.itemCount-v.visibleCapacity-v.itemsBefore)

	l := Layout[T]{
		Before:      float64(v.itemsBefore) * v.itemSize,
		After:       float64(itemsAfter) * v.itemSize,
		ItemsBefore: v.itemsBefore,
		ItemsAfter:  itemsAfter,
		ItemCount:   v.itemCount,
		ItemSize:    v.itemSize,
	}
	if lastIndex <= first {
		return l
	}
	l.Slots = make([]Slot[T], 0, lastIndex-first)

	next := first
	placeholdersBeforeEnd := min(v.loadedStart, lastIndex)
	for ; next < placeholdersBeforeEnd; next++ {
		l.Slots = append(l.Slots, Slot[T]{Index: next, Kind: SlotPlaceholder})
	}

	if v.hasLoaded {
		loadedEnd := v.loadedStart + len(v.loaded)
		overlapStart := max(next, v.loadedStart)
		overlapEnd := min(lastIndex, loadedEnd)
		for i := overlapStart; i < overlapEnd; i++ {
			l.Slots = append(l.Slots, Slot[T]{Index: i, Kind: SlotItem, Item: v.loaded[i-v.loadedStart]})
		}
		next = max(next, overlapEnd)
	}

	for ; next < lastIndex; next++ {
		l.Slots = append(l.Slots, Slot[T]{Index: next, Kind: SlotPlaceholder})
	}
	return l
}
