// Package reduce provides asynchronous reduction of streamed contributions
// into one future result.
//
// Contributions are combined pairwise in a dynamically grown binary tree, so
// combine work overlaps with the arrival of still-pending futures. The tree
// shape depends on arrival timing and is unspecified; the final value is
// invariant under reordering provided the combine operator is associative and
// commutative. A non-associative or non-commutative operator yields an
// implementation-defined (but not detected) result.
package reduce

import (
	"sync"

	"github.com/mosaic-hpc/mosaic/internal/future"
	"github.com/mosaic-hpc/mosaic/internal/sched"
)

// Op combines a stream of single contributions of type T.
type Op[T any] interface {
	// Identity returns the combine identity value.
	Identity() T
	// Reduce folds one contribution (or an already-reduced partial sum)
	// into *result.
	Reduce(result *T, arg T)
}

// PairOp combines a stream of contribution pairs of type U into results of
// type T. Reduce combines two already-reduced partial sums.
type PairOp[T, U any] interface {
	Op[T]
	// ReducePair folds one contribution pair into *result.
	ReducePair(result *T, first, second U)
	// ReducePairs reduces two ready, unreduced pairs in one step.
	ReducePairs(first1, second1, first2, second2 U) T
}

// partial is a node of the reduction tree: a combined value and the number of
// contributions it has incorporated.
type partial[T any] struct {
	val    T
	leaves int
}

// Task reduces an open-ended stream of single values. Contributions are
// registered with Add or AddFuture, the stream is closed exactly once with
// Submit, and the final value arrives on the returned future once every
// contribution has been incorporated.
//
// Add and Submit are safe to call from multiple producer goroutines.
type Task[T any] struct {
	s  *sched.Scheduler
	op Op[T]

	mu        sync.Mutex
	pending   *partial[T] // partial waiting for a sibling to merge with
	added     int
	submitted bool

	result *future.Future[T]
}

// NewTask creates a reduction task combining with op on scheduler s.
func NewTask[T any](s *sched.Scheduler, op Op[T]) *Task[T] {
	return &Task[T]{s: s, op: op, result: future.New[T]()}
}

// Add registers one ready contribution. Adding after Submit is a contract
// violation and panics. Add never blocks; the fold runs on the pool.
func (t *Task[T]) Add(v T) {
	t.register()
	t.s.Submit(sched.Normal, func() { t.leaf(v) })
}

// AddFuture registers one contribution that resolves later. The combine is
// deferred until the future resolves.
func (t *Task[T]) AddFuture(f *future.Future[T]) {
	t.register()
	sched.When(t.s, sched.Normal, f, t.leaf)
}

// Submit closes the contribution stream and returns the future for the final
// combined value. The future resolves only once every contribution, including
// ones still in flight, has been incorporated. With zero contributions the
// result is the operator identity.
func (t *Task[T]) Submit() *future.Future[T] {
	t.mu.Lock()
	if t.submitted {
		t.mu.Unlock()
		panic("reduce: task submitted twice")
	}
	t.submitted = true
	switch {
	case t.added == 0:
		t.mu.Unlock()
		t.result.Set(t.op.Identity())
	case t.pending != nil && t.pending.leaves == t.added:
		v := t.pending.val
		t.mu.Unlock()
		t.result.Set(v)
	default:
		t.mu.Unlock()
	}
	return t.result
}

func (t *Task[T]) register() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.submitted {
		panic("reduce: contribution added after submit")
	}
	t.added++
}

func (t *Task[T]) leaf(v T) {
	r := t.op.Identity()
	t.op.Reduce(&r, v)
	t.feed(&partial[T]{val: r, leaves: 1})
}

// feed inserts a partial into the tree: it either parks as the waiting
// sibling or merges with the one already parked. Merges run as separate
// tasks so they overlap with contributions still arriving.
func (t *Task[T]) feed(p *partial[T]) {
	t.mu.Lock()
	if t.pending == nil {
		t.pending = p
		done := t.submitted && p.leaves == t.added
		t.mu.Unlock()
		if done {
			t.result.Set(p.val)
		}
		return
	}
	q := t.pending
	t.pending = nil
	t.mu.Unlock()

	t.s.Submit(sched.Normal, func() {
		t.op.Reduce(&q.val, p.val)
		q.leaves += p.leaves
		t.feed(q)
	})
}

// pairLeaf is a ready contribution pair that has not been reduced yet.
type pairLeaf[U any] struct {
	first, second U
}

// PairTask reduces an open-ended stream of value pairs. Both halves of a pair
// are registered atomically, so mismatched cardinality between the two
// streams cannot be expressed; passing a nil future panics.
type PairTask[T, U any] struct {
	s  *sched.Scheduler
	op PairOp[T, U]

	mu          sync.Mutex
	pending     *partial[T]
	pendingPair *pairLeaf[U] // ready pair waiting for a sibling pair
	added       int
	arrived     int
	submitted   bool

	result *future.Future[T]
}

// NewPairTask creates a pairwise reduction task combining with op.
func NewPairTask[T, U any](s *sched.Scheduler, op PairOp[T, U]) *PairTask[T, U] {
	return &PairTask[T, U]{s: s, op: op, result: future.New[T]()}
}

// Add registers one ready contribution pair.
func (t *PairTask[T, U]) Add(first, second U) {
	t.register()
	t.s.Submit(sched.Normal, func() { t.pair(first, second) })
}

// AddFutures registers a contribution pair whose halves resolve later. The
// pair enters the tree once both futures have resolved.
func (t *PairTask[T, U]) AddFutures(first, second *future.Future[U]) {
	if first == nil || second == nil {
		panic("reduce: pairwise contribution requires both halves")
	}
	t.register()
	sched.When2(t.s, sched.Normal, first, second, t.pair)
}

// Submit closes the contribution stream and returns the result future.
func (t *PairTask[T, U]) Submit() *future.Future[T] {
	t.mu.Lock()
	if t.submitted {
		t.mu.Unlock()
		panic("reduce: task submitted twice")
	}
	t.submitted = true
	switch {
	case t.added == 0:
		t.mu.Unlock()
		t.result.Set(t.op.Identity())
	case t.pendingPair != nil && t.arrived == t.added:
		// Odd pair count: the parked pair has no sibling coming.
		q := t.pendingPair
		t.pendingPair = nil
		t.mu.Unlock()
		t.s.Submit(sched.Normal, func() { t.leaf(q.first, q.second) })
	case t.pending != nil && t.pendingPair == nil && t.pending.leaves == t.added:
		v := t.pending.val
		t.mu.Unlock()
		t.result.Set(v)
	default:
		t.mu.Unlock()
	}
	return t.result
}

func (t *PairTask[T, U]) register() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.submitted {
		panic("reduce: contribution added after submit")
	}
	t.added++
}

// pair handles one ready contribution pair: two ready pairs reduce together
// in a single step, a lone final pair folds by itself, anything else parks
// until a sibling arrives.
func (t *PairTask[T, U]) pair(first, second U) {
	t.mu.Lock()
	t.arrived++
	if t.pendingPair != nil {
		q := t.pendingPair
		t.pendingPair = nil
		t.mu.Unlock()
		t.s.Submit(sched.Normal, func() {
			v := t.op.ReducePairs(q.first, q.second, first, second)
			t.feed(&partial[T]{val: v, leaves: 2})
		})
		return
	}
	if t.submitted && t.arrived == t.added {
		t.mu.Unlock()
		t.leaf(first, second)
		return
	}
	t.pendingPair = &pairLeaf[U]{first: first, second: second}
	t.mu.Unlock()
}

func (t *PairTask[T, U]) leaf(first, second U) {
	r := t.op.Identity()
	t.op.ReducePair(&r, first, second)
	t.feed(&partial[T]{val: r, leaves: 1})
}

func (t *PairTask[T, U]) feed(p *partial[T]) {
	t.mu.Lock()
	if t.pending == nil {
		t.pending = p
		done := t.submitted && t.pendingPair == nil && p.leaves == t.added
		t.mu.Unlock()
		if done {
			t.result.Set(p.val)
		}
		return
	}
	q := t.pending
	t.pending = nil
	t.mu.Unlock()

	t.s.Submit(sched.Normal, func() {
		t.op.Reduce(&q.val, p.val)
		q.leaves += p.leaves
		t.feed(q)
	})
}
