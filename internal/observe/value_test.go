package observe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueEmptyHasNoReplay(t *testing.T) {
	v := NewValue[int]()

	var got []int
	cancel := v.Subscribe(func(n int) { got = append(got, n) })
	defer cancel()

	assert.Empty(t, got)
	_, ok := v.Get()
	assert.False(t, ok)
}

func TestValueReplaysLastValue(t *testing.T) {
	v := NewValue[string]()
	v.Set("a")
	v.Set("b")

	var got []string
	cancel := v.Subscribe(func(s string) { got = append(got, s) })
	defer cancel()

	require.Equal(t, []string{"b"}, got)

	v.Set("c")
	assert.Equal(t, []string{"b", "c"}, got)
}

func TestValueOfSeedsValue(t *testing.T) {
	v := NewValueOf(42)
	n, ok := v.Get()
	require.True(t, ok)
	assert.Equal(t, 42, n)
}

func TestValueCancelStopsDelivery(t *testing.T) {
	v := NewValueOf(1)

	var calls int
	cancel := v.Subscribe(func(int) { calls++ })
	cancel()
	cancel() // idempotent

	v.Set(2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, v.Subscribers())
}

func TestValueCancelInsideCallback(t *testing.T) {
	v := NewValue[int]()

	var calls int
	var cancel func()
	cancel = v.Subscribe(func(int) {
		calls++
		cancel()
	})

	v.Set(1)
	v.Set(2)
	assert.Equal(t, 1, calls)
}

func TestValueConcurrentSetIsOrderedPerSubscriber(t *testing.T) {
	v := NewValue[int]()

	var mu sync.Mutex
	var a, b []int
	defer v.Subscribe(func(n int) { mu.Lock(); a = append(a, n); mu.Unlock() })()
	defer v.Subscribe(func(n int) { mu.Lock(); b = append(b, n); mu.Unlock() })()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v.Set(n)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, a, 50)
	assert.Equal(t, a, b, "subscribers must observe the same publish order")

	last, _ := v.Get()
	assert.Equal(t, a[len(a)-1], last)
}

func TestSetIfEmpty(t *testing.T) {
	v := NewValue[string]()
	var got []string
	cancel := v.Subscribe(func(s string) { got = append(got, s) })
	defer cancel()

	assert.True(t, v.SetIfEmpty("seed"))
	assert.False(t, v.SetIfEmpty("late"))
	v.Set("fresh")
	assert.False(t, v.SetIfEmpty("stale"))

	last, _ := v.Get()
	assert.Equal(t, "fresh", last)
	assert.Equal(t, []string{"seed", "fresh"}, got)
}

func TestDerive(t *testing.T) {
	src := NewValueOf([]int{1, 2, 3})
	sum, cancel := Derive(src, func(xs []int) int {
		total := 0
		for _, x := range xs {
			total += x
		}
		return total
	})

	n, ok := sum.Get()
	require.True(t, ok)
	assert.Equal(t, 6, n)

	src.Set([]int{10})
	n, _ = sum.Get()
	assert.Equal(t, 10, n)

	cancel()
	src.Set([]int{1})
	n, _ = sum.Get()
	assert.Equal(t, 10, n)
}
