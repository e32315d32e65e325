package dist

import (
	"github.com/mosaic-hpc/mosaic/internal/future"
	"github.com/mosaic-hpc/mosaic/internal/grid"
	"github.com/mosaic-hpc/mosaic/internal/sched"
	"github.com/mosaic-hpc/mosaic/internal/tile"
)

// Source is the distributed tensor collaborator an evaluator pulls tiles
// from. Find is asynchronous: a request for a remote tile returns a future
// immediately, with the bytes delivered out of band by the runtime layer.
type Source interface {
	// Range is the source tile grid.
	Range() grid.Range
	// Find fetches the tile at ord, local or remote.
	Find(ord int) *future.Future[tile.Tile]
	// IsLocal reports whether the tile at ord resides in the local
	// container. A local tile must never be destructively consumed.
	IsLocal(ord int) bool
}

// Evaluator populates a distributed output store with one lazy tile per
// locally owned, non-zero result ordinal. It is created once per tensor
// operation, drives exactly one pull pass, and is then discarded.
type Evaluator struct {
	src       Source
	op        tile.Op // shared by every lazy tile of this operation
	pmap      ProcessMap
	sparsity  Sparsity
	s         *sched.Scheduler
	out       *Store[*tile.Lazy]
	translate func(int) int // result ordinal -> source ordinal
}

// NewEvaluator creates an evaluator over src. perm maps source dimensions to
// result dimensions; the identity permutation skips index translation
// entirely. pmap and sparsity describe the result grid.
func NewEvaluator(src Source, op tile.Op, perm grid.Permutation, pmap ProcessMap, sparsity Sparsity, s *sched.Scheduler) *Evaluator {
	target := src.Range().Permute(perm)
	return &Evaluator{
		src:       src,
		op:        op,
		pmap:      pmap,
		sparsity:  sparsity,
		s:         s,
		out:       NewStore[*tile.Lazy](target, pmap),
		translate: perm.OrdinalMap(src.Range(), target),
	}
}

// Store returns the output store. Tiles appear in whatever order their source
// futures resolve; consumers must not assume arrival order tracks ordinal
// order.
func (e *Evaluator) Store() *Store[*tile.Lazy] { return e.out }

// Eval runs the pull pass: for every locally owned, non-zero result ordinal
// it requests the corresponding source tile and inserts a lazy tile bound to
// the shared operator, immediately when the source is ready, otherwise via a
// high-priority task keyed on the source future. It returns the number of
// local tiles scheduled, which is the number of insertions a caller should
// expect.
func (e *Evaluator) Eval() int {
	count := 0
	for _, ord := range e.pmap.Local() {
		if e.sparsity.IsZero(ord) {
			continue
		}

		srcOrd := e.translate(ord)

		// A tile fetched from a remote process is a private copy and safe
		// to consume; a tile still resident in the local source is not.
		consumable := !e.src.IsLocal(srcOrd)
		f := e.src.Find(srcOrd)

		if f.Probe() {
			// Already resolved: insert directly, no task overhead.
			e.out.Insert(ord, tile.NewLazy(f.Get(), e.op, consumable))
		} else {
			sched.When(e.s, sched.High, f, func(t tile.Tile) {
				e.out.Insert(ord, tile.NewLazy(t, e.op, consumable))
			})
		}
		count++
	}
	return count
}
