package dist

import "fmt"

// Sparsity is the shape oracle: it identifies ordinals whose tiles are
// structurally zero. Zero tiles are never materialized or inserted.
type Sparsity interface {
	IsZero(ord int) bool
}

// Dense is a sparsity oracle with no zero tiles.
type Dense struct{}

func (Dense) IsZero(int) bool { return false }

// Mask is a bitset-backed sparsity oracle.
type Mask struct {
	n    int
	bits []uint64
}

// NewMask creates a mask over n ordinals with no zero tiles marked.
func NewMask(n int) *Mask {
	if n < 0 {
		panic(fmt.Sprintf("dist: invalid mask size %d", n))
	}
	return &Mask{n: n, bits: make([]uint64, (n+63)/64)}
}

// MarkZero flags ord as structurally zero.
func (m *Mask) MarkZero(ord int) {
	checkOrd(ord, m.n)
	m.bits[ord/64] |= 1 << (ord % 64)
}

func (m *Mask) IsZero(ord int) bool {
	checkOrd(ord, m.n)
	return m.bits[ord/64]&(1<<(ord%64)) != 0
}
