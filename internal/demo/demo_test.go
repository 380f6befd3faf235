package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charmbracelet/virtualize/internal/virtualize"
)

func TestItems(t *testing.T) {
	t.Parallel()

	items := Items(20)
	require.Len(t, items, 20)
	assert.Equal(t, "amber amber #1", items[0].Title)
	assert.Equal(t, "amber basil #17", items[16].Title)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.Equal(t, 19, items[19].Index)
}

func TestProvider(t *testing.T) {
	t.Parallel()

	items := Items(10)

	t.Run("pages are clamped", func(t *testing.T) {
		t.Parallel()
		res, err := Provider(items, 0)(t.Context(), virtualize.Request{Start: 8, Count: 5})
		require.NoError(t, err)
		assert.Equal(t, 10, res.TotalCount)
		assert.Equal(t, items[8:], res.Items)
	})

	t.Run("cancellation cuts the latency short", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		start := time.Now()
		_, err := Provider(items, time.Hour)(ctx, virtualize.Request{Start: 0, Count: 5})
		require.ErrorIs(t, err, context.Canceled)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestDelay(t *testing.T) {
	t.Parallel()

	var calls int
	p := virtualize.ProviderFunc[int](func(context.Context, virtualize.Request) (virtualize.Result[int], error) {
		calls++
		return virtualize.Result[int]{Items: []int{1}, TotalCount: 1}, nil
	})

	start := time.Now()
	res, err := Delay(p, 20*time.Millisecond)(t.Context(), virtualize.Request{Count: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Items)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, 1, calls)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = Delay(p, time.Hour)(ctx, virtualize.Request{Count: 1})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "cancelled fetches never reach the wrapped provider")
}
