package tile

import "sync"

// Op is an elementwise tile operator. Implementations must be immutable, or
// effectively read-only after construction, because one Op value is shared by
// every lazy tile of an operation and may be applied from multiple workers
// concurrently.
//
// When consume is true the operator may destructively reuse the source tile's
// storage and return it as the result; otherwise it must leave the source
// unmodified.
type Op interface {
	Apply(t Tile, consume bool) Tile
}

// Lazy binds a source tile to a shared operator without evaluating it.
// Construction, copying, and storing a Lazy perform no operator work; the
// operator runs exactly once, on first Eval. A Lazy must never be marked
// consumable while the source tile is still readable by another consumer.
type Lazy struct {
	src     Tile
	op      Op
	consume bool

	once   sync.Once
	result Tile
}

// NewLazy wraps src with the shared operator op. consume grants the operator
// permission to reuse src's storage in place.
func NewLazy(src Tile, op Op, consume bool) *Lazy {
	return &Lazy{src: src, op: op, consume: consume}
}

// Consumable reports whether the operator may reuse the source storage.
func (l *Lazy) Consumable() bool { return l.consume }

// Eval converts the lazy tile to its evaluated result, invoking the operator
// on the first call and returning the cached result afterwards.
func (l *Lazy) Eval() Tile {
	l.once.Do(func() {
		l.result = l.op.Apply(l.src, l.consume)
	})
	return l.result
}

// MarshalBinary always fails: lazy tiles are a purely local, pre-evaluation
// representation and must never cross a process boundary unevaluated.
func (l *Lazy) MarshalBinary() ([]byte, error) {
	panic("tile: a lazy tile cannot be serialized; evaluate it first")
}

// UnmarshalBinary always fails, for the same reason as MarshalBinary.
func (l *Lazy) UnmarshalBinary([]byte) error {
	panic("tile: a lazy tile cannot be deserialized")
}
