// Package dist provides the distributed evaluation layer of the Mosaic
// engine: tile ownership maps, sparsity oracles, the per-ordinal output
// store, and the pull-scheduling evaluator that populates it.
package dist

import "fmt"

// ProcessMap assigns every tile ordinal to exactly one owning process and
// enumerates the ordinals owned locally. A map is immutable for the lifetime
// of an evaluator.
type ProcessMap interface {
	// Rank is the local process id in [0, Size).
	Rank() int
	// Size is the number of processes.
	Size() int
	// Owner returns the process id owning ord.
	Owner(ord int) int
	// Local returns the ordinals owned by Rank, in ascending order.
	Local() []int
}

// BlockedMap assigns contiguous runs of ordinals to each process.
type BlockedMap struct {
	n, rank, size int
	block         int
}

// NewBlockedMap creates a blocked map over n ordinals for the given rank.
func NewBlockedMap(n, rank, size int) *BlockedMap {
	checkMapArgs(n, rank, size)
	return &BlockedMap{n: n, rank: rank, size: size, block: (n + size - 1) / size}
}

func (m *BlockedMap) Rank() int { return m.rank }
func (m *BlockedMap) Size() int { return m.size }

func (m *BlockedMap) Owner(ord int) int {
	checkOrd(ord, m.n)
	return ord / m.block
}

func (m *BlockedMap) Local() []int {
	lo := m.rank * m.block
	hi := min(lo+m.block, m.n)
	if lo >= hi {
		return nil
	}
	out := make([]int, 0, hi-lo)
	for ord := lo; ord < hi; ord++ {
		out = append(out, ord)
	}
	return out
}

// CyclicMap deals ordinals round-robin across processes.
type CyclicMap struct {
	n, rank, size int
}

// NewCyclicMap creates a cyclic map over n ordinals for the given rank.
func NewCyclicMap(n, rank, size int) *CyclicMap {
	checkMapArgs(n, rank, size)
	return &CyclicMap{n: n, rank: rank, size: size}
}

func (m *CyclicMap) Rank() int { return m.rank }
func (m *CyclicMap) Size() int { return m.size }

func (m *CyclicMap) Owner(ord int) int {
	checkOrd(ord, m.n)
	return ord % m.size
}

func (m *CyclicMap) Local() []int {
	var out []int
	for ord := m.rank; ord < m.n; ord += m.size {
		out = append(out, ord)
	}
	return out
}

func checkMapArgs(n, rank, size int) {
	if n < 0 || size <= 0 || rank < 0 || rank >= size {
		panic(fmt.Sprintf("dist: invalid process map (n=%d rank=%d size=%d)", n, rank, size))
	}
}

func checkOrd(ord, n int) {
	if ord < 0 || ord >= n {
		panic(fmt.Sprintf("dist: ordinal %d out of range [0, %d)", ord, n))
	}
}
