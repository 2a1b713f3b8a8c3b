package reprfmt

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuarded(t *testing.T) {
	g := NewGuarded([]int{1, 2})
	assert.Equal(t, "[1, 2]", Display(g))
	assert.Equal(t, "[1, 2]", Debug(g))

	require.NoError(t, g.Update(func(v *[]int) { *v = append(*v, 3) }))
	got, err := g.Load()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	var n int
	require.NoError(t, g.Read(func(v []int) { n = len(v) }))
	assert.Equal(t, 3, n)
}

func TestGuardedPoisoned(t *testing.T) {
	g := NewGuarded(map[string]int{"a": 1})

	assert.PanicsWithValue(t, "boom", func() {
		_ = g.Update(func(v *map[string]int) {
			(*v)["b"] = 2
			panic("boom")
		})
	})
	assert.True(t, g.Poisoned())

	// 中毒后渲染为固定值，不会 panic
	assert.Equal(t, "None", Display(g))
	assert.Equal(t, "None", Debug(g))
	assert.Equal(t, "[None]", Display([]*Guarded[map[string]int]{g}))

	_, err := g.Load()
	assert.ErrorIs(t, err, ErrPoisoned)
	assert.ErrorIs(t, g.Read(func(map[string]int) {}), ErrPoisoned)
	assert.ErrorIs(t, g.Update(func(*map[string]int) {}), ErrPoisoned)

	g.ClearPoison()
	assert.False(t, g.Poisoned())
	assert.Equal(t, `{"a": 1, "b": 2}`, Display(g))
}

func TestGuardedConcurrent(t *testing.T) {
	g := NewGuarded(0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = g.Update(func(v *int) { *v++ })
		}()
		go func() {
			defer wg.Done()
			_ = Display(g)
		}()
	}
	wg.Wait()

	got, err := g.Load()
	require.NoError(t, err)
	assert.Equal(t, 16, got)
}
