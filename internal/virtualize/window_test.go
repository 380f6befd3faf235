package virtualize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsInSpacer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		spacer   float64
		itemSize float64
		want     int
	}{
		{"empty spacer", 0, 10, 0},
		{"less than one item", 9, 10, 0},
		{"exactly one item is undercounted", 10, 10, 0},
		{"two and a half items", 25, 10, 1},
		{"many items", 1000, 10, 99},
		{"fractional item size", 10, 2.5, 3},
		{"negative measurement", -40, 10, 0},
		{"nan measurement", math.NaN(), 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ItemsInSpacer(tt.spacer, tt.itemSize))
		})
	}
}

func TestVisibleCapacity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		container float64
		itemSize  float64
		want      int
	}{
		{"empty container keeps overscan", 0, 10, 2},
		{"exact fit", 10, 10, 3},
		{"partial item rounds up", 25, 10, 5},
		{"one row items", 24, 1, 26},
		{"negative measurement", -5, 10, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, VisibleCapacity(tt.container, tt.itemSize))
		})
	}
}

func TestWindowNeverNegative(t *testing.T) {
	t.Parallel()

	for s := 0.0; s < 200; s += 7.5 {
		for c := 0.0; c < 120; c += 11 {
			for _, size := range []float64{0.5, 1, 3, 10, 33.3} {
				assert.GreaterOrEqual(t, ItemsInSpacer(s, size), 0)
				assert.GreaterOrEqual(t, VisibleCapacity(c, size), Overscan)
				assert.Equal(t, max(0, int(math.Floor(s/size))-1), ItemsInSpacer(s, size))
				assert.Equal(t, int(math.Ceil(c/size))+2, VisibleCapacity(c, size))
			}
		}
	}
}

func TestAfterWindow(t *testing.T) {
	t.Parallel()

	t.Run("works backward from the end", func(t *testing.T) {
		t.Parallel()
		// 100 items, 30 below the viewport bottom (minus one), 5 visible.
		w := AfterWindow(300, 25, 10, 100)
		assert.Equal(t, Window{ItemsBefore: 100 - 29 - 5, VisibleCapacity: 5}, w)
	})

	t.Run("clamps at the start of the list", func(t *testing.T) {
		t.Parallel()
		w := AfterWindow(0, 100, 10, 4)
		assert.Equal(t, Window{ItemsBefore: 0, VisibleCapacity: 12}, w)
	})
}

func TestValidateItemSize(t *testing.T) {
	t.Parallel()

	require.NoError(t, validateItemSize(1))
	require.NoError(t, validateItemSize(0.25))
	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		require.ErrorIs(t, validateItemSize(bad), ErrInvalidItemSize)
	}
}
