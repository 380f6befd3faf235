package virtualize

import (
	"context"
	"fmt"
)

// Request describes one page of items to load. The cancellation signal
// travels as the context passed next to it.
type Request struct {
	Start int
	Count int
}

// Result is what a Source returns for a Request.
type Result[T any] struct {
	Items []T
	// TotalCount is the provider's best-known size of the whole list. It may
	// change between calls for growing lists.
	TotalCount int
}

// Source provides items for a window of the list.
type Source[T any] interface {
	Fetch(ctx context.Context, req Request) (Result[T], error)
}

// Synchronous is implemented by sources that complete without suspending.
// The virtualizer fetches from them inline.
type Synchronous interface {
	Synchronous() bool
}

// ProviderFunc adapts a caller-supplied function to a Source. It must honor
// ctx cancellation.
type ProviderFunc[T any] func(ctx context.Context, req Request) (Result[T], error)

// Fetch implements Source.
func (f ProviderFunc[T]) Fetch(ctx context.Context, req Request) (Result[T], error) {
	return f(ctx, req)
}

type sliceSource[T any] struct {
	items []T
}

// FromSlice returns a Source over a fixed in-memory collection.
func FromSlice[T any](items []T) Source[T] {
	return sliceSource[T]{items: items}
}

func (s sliceSource[T]) Fetch(_ context.Context, req Request) (Result[T], error) {
	start := min(max(req.Start, 0), len(s.items))
	end := min(start+max(req.Count, 0), len(s.items))
	return Result[T]{
		Items:      s.items[start:end],
		TotalCount: len(s.items),
	}, nil
}

func (s sliceSource[T]) Synchronous() bool {
	return true
}

// NewSource builds a Source from exactly one of a fixed collection or a
// provider function.
func NewSource[T any](items []T, provider ProviderFunc[T]) (Source[T], error) {
	switch {
	case items != nil && provider != nil:
		return nil, fmt.Errorf("%w: both items and provider supplied", ErrInvalidSource)
	case items == nil && provider == nil:
		return nil, fmt.Errorf("%w: neither items nor provider supplied", ErrInvalidSource)
	case items != nil:
		return FromSlice(items), nil
	default:
		return provider, nil
	}
}

func isSynchronous[T any](s Source[T]) bool {
	if sy, ok := s.(Synchronous); ok {
		return sy.Synchronous()
	}
	return false
}
