package dist

import (
	"fmt"
	"sync"

	"github.com/mosaic-hpc/mosaic/internal/future"
	"github.com/mosaic-hpc/mosaic/internal/grid"
)

// Store is the distributed output container of an evaluator: one future per
// locally owned ordinal. Keys are inserted only by the owning process, so
// writes are never contended per tile; reads are non-blocking and may precede
// the insert, in which case the reader receives an unresolved future.
type Store[V any] struct {
	rng  grid.Range
	pmap ProcessMap

	mu sync.Mutex
	m  map[int]*future.Future[V]
}

// NewStore creates an empty store over the given tile range.
func NewStore[V any](rng grid.Range, pmap ProcessMap) *Store[V] {
	return &Store[V]{rng: rng, pmap: pmap, m: make(map[int]*future.Future[V])}
}

// Range returns the store's tile range.
func (s *Store[V]) Range() grid.Range { return s.rng }

// ProcessMap returns the store's ownership map.
func (s *Store[V]) ProcessMap() ProcessMap { return s.pmap }

// IsLocal reports whether ord is owned by the local process.
func (s *Store[V]) IsLocal(ord int) bool {
	return s.pmap.Owner(ord) == s.pmap.Rank()
}

// Find returns the future for ord, creating an unresolved one if the tile has
// not been inserted yet.
func (s *Store[V]) Find(ord int) *future.Future[V] {
	return s.slot(ord)
}

// Insert resolves the future for ord with v. Inserting an ordinal twice, an
// ordinal outside the range, or an ordinal not owned locally indicates a
// corrupted ownership or shape invariant and is fatal.
func (s *Store[V]) Insert(ord int, v V) {
	if !s.IsLocal(ord) {
		panic(fmt.Sprintf("dist: insert of ordinal %d owned by process %d on process %d",
			ord, s.pmap.Owner(ord), s.pmap.Rank()))
	}
	// A second insert trips the future's single-assignment check.
	s.slot(ord).Set(v)
}

// NumResolved returns the number of ordinals whose tiles have been inserted.
func (s *Store[V]) NumResolved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, f := range s.m {
		if f.Probe() {
			n++
		}
	}
	return n
}

func (s *Store[V]) slot(ord int) *future.Future[V] {
	if !s.rng.Contains(ord) {
		panic(fmt.Sprintf("dist: ordinal %d outside tile range %v", ord, s.rng))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.m[ord]
	if !ok {
		f = future.New[V]()
		s.m[ord] = f
	}
	return f
}
