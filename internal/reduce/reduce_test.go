package reduce

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-hpc/mosaic/internal/future"
	"github.com/mosaic-hpc/mosaic/internal/sched"
)

// sumOp is an associative, commutative combine: result += arg.
type sumOp struct{}

func (sumOp) Identity() int          { return 0 }
func (sumOp) Reduce(r *int, arg int) { *r += arg }

// dotOp combines pairs as result += first*second.
type dotOp struct{}

func (dotOp) Identity() int          { return 0 }
func (dotOp) Reduce(r *int, arg int) { *r += arg }
func (dotOp) ReducePair(r *int, first, second int) {
	*r += first * second
}
func (dotOp) ReducePairs(f1, s1, f2, s2 int) int {
	return f1*s1 + f2*s2
}

func newScheduler(t *testing.T) *sched.Scheduler {
	t.Helper()
	s := sched.New(sched.Config{Workers: 4})
	t.Cleanup(s.Shutdown)
	return s
}

func TestReduceValues(t *testing.T) {
	s := newScheduler(t)
	rt := NewTask[int](s, sumOp{})

	sum := 0
	for i := 0; i < 100; i++ {
		sum += i
		rt.Add(i)
	}

	result := rt.Submit()
	assert.Equal(t, 4950, sum)
	assert.Equal(t, sum, result.Get())
}

func TestReduceShuffledValues(t *testing.T) {
	s := newScheduler(t)
	rt := NewTask[int](s, sumOp{})

	vals := rand.New(rand.NewSource(1)).Perm(100)
	for _, v := range vals {
		rt.Add(v)
	}

	assert.Equal(t, 4950, rt.Submit().Get(), "result is invariant under contribution order")
}

func TestReduceFutures(t *testing.T) {
	s := newScheduler(t)
	rt := NewTask[int](s, sumOp{})

	futs := make([]*future.Future[int], 100)
	for i := range futs {
		futs[i] = future.New[int]()
		rt.AddFuture(futs[i])
	}

	result := rt.Submit()
	assert.False(t, result.Probe(), "not ready before any contribution resolves")

	for i := 0; i < 99; i++ {
		futs[i].Set(i)
		assert.False(t, result.Probe(), "not ready with %d of 100 resolved", i+1)
	}

	futs[99].Set(99)
	s.Fence()

	require.True(t, result.Probe())
	assert.Equal(t, 4950, result.Get())
}

func TestReduceMixedValuesAndFutures(t *testing.T) {
	s := newScheduler(t)
	rt := NewTask[int](s, sumOp{})

	f := future.New[int]()
	rt.Add(40)
	rt.AddFuture(f)
	rt.Add(2)

	result := rt.Submit()
	f.Set(58)
	assert.Equal(t, 100, result.Get())
}

func TestReduceZeroContributions(t *testing.T) {
	s := newScheduler(t)
	rt := NewTask[int](s, sumOp{})

	// An empty stream reduces to the operator identity.
	result := rt.Submit()
	require.True(t, result.Probe())
	assert.Equal(t, 0, result.Get())
}

func TestReduceSingleContribution(t *testing.T) {
	s := newScheduler(t)
	rt := NewTask[int](s, sumOp{})
	rt.Add(7)
	assert.Equal(t, 7, rt.Submit().Get())
}

func TestAddAfterSubmitPanics(t *testing.T) {
	s := newScheduler(t)
	rt := NewTask[int](s, sumOp{})
	rt.Add(1)
	rt.Submit()

	assert.Panics(t, func() { rt.Add(2) })
	assert.Panics(t, func() { rt.AddFuture(future.New[int]()) })
}

func TestSubmitTwicePanics(t *testing.T) {
	s := newScheduler(t)
	rt := NewTask[int](s, sumOp{})
	rt.Submit()
	assert.Panics(t, func() { rt.Submit() })
}

func TestReducePairValues(t *testing.T) {
	s := newScheduler(t)
	rt := NewPairTask[int, int](s, dotOp{})

	sum := 0
	for i := 0; i < 100; i++ {
		sum += i * i
		rt.Add(i, i)
	}

	result := rt.Submit()
	assert.Equal(t, 328350, sum)
	assert.Equal(t, sum, result.Get())
}

func TestReducePairOddCount(t *testing.T) {
	s := newScheduler(t)
	rt := NewPairTask[int, int](s, dotOp{})

	sum := 0
	for i := 1; i <= 7; i++ {
		sum += i * i
		rt.Add(i, i)
	}
	assert.Equal(t, sum, rt.Submit().Get())
}

func TestReducePairFutures(t *testing.T) {
	s := newScheduler(t)
	rt := NewPairTask[int, int](s, dotOp{})

	firsts := make([]*future.Future[int], 100)
	seconds := make([]*future.Future[int], 100)
	for i := range firsts {
		firsts[i] = future.New[int]()
		seconds[i] = future.New[int]()
		rt.AddFutures(firsts[i], seconds[i])
	}

	result := rt.Submit()
	assert.False(t, result.Probe())

	for i := 0; i < 100; i++ {
		assert.False(t, result.Probe(), "not ready with %d of 100 pairs resolved", i)
		firsts[i].Set(i)
		seconds[i].Set(i)
	}

	assert.Equal(t, 328350, result.Get())
}

func TestReducePairHalfResolvedPairDoesNotCount(t *testing.T) {
	s := newScheduler(t)
	rt := NewPairTask[int, int](s, dotOp{})

	f := future.New[int]()
	sec := future.New[int]()
	rt.AddFutures(f, sec)
	result := rt.Submit()

	f.Set(3)
	assert.False(t, result.Probe(), "a pair with one half unresolved is not incorporated")

	sec.Set(4)
	assert.Equal(t, 12, result.Get())
}

func TestReducePairNilHalfPanics(t *testing.T) {
	s := newScheduler(t)
	rt := NewPairTask[int, int](s, dotOp{})
	assert.Panics(t, func() { rt.AddFutures(future.New[int](), nil) })
}

func TestReducePairZeroContributions(t *testing.T) {
	s := newScheduler(t)
	rt := NewPairTask[int, int](s, dotOp{})
	assert.Equal(t, 0, rt.Submit().Get())
}
