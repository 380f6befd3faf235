package csync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Parallel()

	m := NewMap[int, string]()
	m.Set(1, "one")
	m.Set(2, "two")

	v, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one", v)

	m.Reset()
	_, ok = m.Get(2)
	assert.False(t, ok)
}

func TestMapConcurrent(t *testing.T) {
	t.Parallel()

	m := NewMap[int, int]()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Set(i, i*i)
			_, _ = m.Get(i)
		}()
	}
	wg.Wait()
	for i := range 50 {
		v, ok := m.Get(i)
		require.True(t, ok)
		assert.Equal(t, i*i, v)
	}
}

func TestSlice(t *testing.T) {
	t.Parallel()

	src := []int{1, 2, 3, 4, 5}
	s := NewSlice[int]()
	assert.Zero(t, s.Len())

	s.SetSlice(src)
	src[0] = 99
	assert.Equal(t, 5, s.Len())

	w, n := s.Window(0, 2)
	assert.Equal(t, []int{1, 2}, w, "SetSlice must copy")
	assert.Equal(t, 5, n)
	w, _ = s.Window(3, 100)
	assert.Equal(t, []int{4, 5}, w)
	w, _ = s.Window(10, 12)
	assert.Empty(t, w)

	w, _ = s.Window(1, 2)
	w[0] = 42
	w, _ = s.Window(1, 2)
	assert.Equal(t, []int{2}, w, "Window must copy")
}
