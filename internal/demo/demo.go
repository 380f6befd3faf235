// Package demo generates in-memory items for trying out the list without a
// database or file.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/charmbracelet/virtualize/internal/virtualize"
)

type Item struct {
	Index int
	ID    string
	Title string
}

func (i Item) String() string {
	return i.Title
}

var words = []string{
	"amber", "basil", "cedar", "dune", "ember", "fjord", "glade", "harbor",
	"iris", "jade", "kelp", "lumen", "moss", "nectar", "opal", "pine",
}

// Items returns n generated items.
func Items(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Index: i,
			ID:    uuid.NewString(),
			Title: fmt.Sprintf("%s %s #%d", words[i%len(words)], words[(i/len(words))%len(words)], i+1),
		}
	}
	return items
}

// Provider serves items after waiting latency, as a remote backend would.
func Provider(items []Item, latency time.Duration) virtualize.ProviderFunc[Item] {
	return Delay(virtualize.FromSlice(items).Fetch, latency)
}

// Delay wraps p so every fetch waits latency first. A cancelled fetch
// returns early with the context's error.
func Delay[T any](p virtualize.ProviderFunc[T], latency time.Duration) virtualize.ProviderFunc[T] {
	if latency <= 0 {
		return p
	}
	return func(ctx context.Context, req virtualize.Request) (virtualize.Result[T], error) {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return virtualize.Result[T]{}, ctx.Err()
		case <-timer.C:
		}
		return p(ctx, req)
	}
}
