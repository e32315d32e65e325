package future

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeBeforeAndAfterSet(t *testing.T) {
	f := New[int]()
	assert.False(t, f.Probe())

	f.Set(42)
	assert.True(t, f.Probe())
	assert.Equal(t, 42, f.Get())
}

func TestOfIsResolved(t *testing.T) {
	f := Of("tile")
	assert.True(t, f.Probe())
	assert.Equal(t, "tile", f.Get())
}

func TestSetTwicePanics(t *testing.T) {
	f := New[int]()
	f.Set(1)
	assert.Panics(t, func() { f.Set(2) })
}

func TestGetBlocksUntilSet(t *testing.T) {
	f := New[int]()
	got := make(chan int, 1)
	go func() { got <- f.Get() }()

	select {
	case <-got:
		t.Fatal("Get returned before Set")
	case <-time.After(10 * time.Millisecond):
	}

	f.Set(7)
	select {
	case v := <-got:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("Get did not return after Set")
	}
}

func TestSubscribeBeforeSet(t *testing.T) {
	f := New[int]()
	var calls []int
	f.Subscribe(func(v int) { calls = append(calls, v) })
	f.Subscribe(func(v int) { calls = append(calls, v+1) })
	require.Empty(t, calls)

	f.Set(10)
	assert.Equal(t, []int{10, 11}, calls)
}

func TestSubscribeAfterSetRunsImmediately(t *testing.T) {
	f := Of(5)
	ran := false
	f.Subscribe(func(v int) {
		ran = true
		assert.Equal(t, 5, v)
	})
	assert.True(t, ran)
}

func TestConcurrentSubscribers(t *testing.T) {
	f := New[int]()
	const n = 32

	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Subscribe(func(int) {
				mu.Lock()
				count++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	f.Set(1)
	assert.Equal(t, n, count)
}
