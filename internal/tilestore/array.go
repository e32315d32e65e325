// Package tilestore provides source containers the distributed evaluator
// pulls tiles from: an in-process multi-rank array for local runs and tests,
// and a Google Cloud Storage backed source for tiles persisted as blobs.
package tilestore

import (
	"fmt"
	"sync"

	"github.com/mosaic-hpc/mosaic/internal/dist"
	"github.com/mosaic-hpc/mosaic/internal/future"
	"github.com/mosaic-hpc/mosaic/internal/grid"
	"github.com/mosaic-hpc/mosaic/internal/sched"
	"github.com/mosaic-hpc/mosaic/internal/tile"
)

// Array is an in-process distributed tile array: every rank of the simulated
// world shares one tile table, and each rank observes it through a View with
// that rank's locality. A fetch of a tile owned by another rank returns a
// private copy delivered asynchronously, matching the wire behavior of a
// real multi-process run.
type Array struct {
	rng   grid.Range
	size  int
	owner func(ord int) int
	s     *sched.Scheduler

	mu    sync.Mutex
	tiles map[int]tile.Tile
}

// NewArray creates an empty array over rng, with ownership assigned by owner
// across size ranks. Remote fetches are delivered by tasks on s.
func NewArray(rng grid.Range, size int, owner func(ord int) int, s *sched.Scheduler) *Array {
	return &Array{
		rng:   rng,
		size:  size,
		owner: owner,
		s:     s,
		tiles: make(map[int]tile.Tile),
	}
}

// Range returns the array's tile range.
func (a *Array) Range() grid.Range { return a.rng }

// SetTile stores the tile for ord. Storing the same ordinal twice is fatal.
func (a *Array) SetTile(ord int, t tile.Tile) {
	if !a.rng.Contains(ord) {
		panic(fmt.Sprintf("tilestore: ordinal %d outside tile range %v", ord, a.rng))
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.tiles[ord]; ok {
		panic(fmt.Sprintf("tilestore: tile %d set twice", ord))
	}
	a.tiles[ord] = t
}

// Tile returns the stored tile for ord.
func (a *Array) Tile(ord int) tile.Tile {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.tiles[ord]
	if !ok {
		panic(fmt.Sprintf("tilestore: tile %d not set", ord))
	}
	return t
}

// View returns rank's view of the array.
func (a *Array) View(rank int) *View {
	if rank < 0 || rank >= a.size {
		panic(fmt.Sprintf("tilestore: rank %d out of range [0, %d)", rank, a.size))
	}
	return &View{arr: a, rank: rank}
}

// View is one rank's window onto an Array. It implements dist.Source.
type View struct {
	arr  *Array
	rank int
}

var _ dist.Source = (*View)(nil)

// Range returns the underlying array's tile range.
func (v *View) Range() grid.Range { return v.arr.rng }

// IsLocal reports whether the tile at ord is owned by this view's rank.
func (v *View) IsLocal(ord int) bool {
	return v.arr.owner(ord) == v.rank
}

// Find fetches the tile at ord. Local tiles resolve immediately and share
// storage with the container; remote tiles resolve asynchronously with a
// private copy, which the receiver is free to consume.
func (v *View) Find(ord int) *future.Future[tile.Tile] {
	if v.IsLocal(ord) {
		return future.Of(v.arr.Tile(ord))
	}
	f := future.New[tile.Tile]()
	v.arr.s.Submit(sched.Normal, func() {
		f.Set(v.arr.Tile(ord).Clone())
	})
	return f
}
