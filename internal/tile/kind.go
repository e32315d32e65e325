package tile

import "fmt"

// Deferred is a lazily evaluated tile without consumption semantics. Lazy
// additionally carries a consume flag; plain Tiles need no evaluation at all.
type Deferred interface {
	Eval() Tile
}

// Kind tags the argument shape of a tensor operation. It is determined once
// per operation, so the per-tile evaluation path carries no type dispatch.
type Kind int

const (
	KindPlain Kind = iota // a Tile value, used as-is
	KindLazy              // a Deferred tile, evaluated without consumption
	KindArray             // a *Lazy array tile, consumable when flagged
)

// KindOf classifies an operation argument. Anything that is not a plain,
// deferred, or lazy array tile is a contract violation.
func KindOf(arg any) Kind {
	switch arg.(type) {
	case Tile:
		return KindPlain
	case *Lazy:
		return KindArray
	case Deferred:
		return KindLazy
	default:
		panic(fmt.Sprintf("tile: %T is not a tile argument", arg))
	}
}

// EvalPath returns the evaluation function for an argument kind. The returned
// function is selected once per operation and applied per tile.
func EvalPath(k Kind) func(any) Tile {
	switch k {
	case KindPlain:
		return func(arg any) Tile { return arg.(Tile) }
	case KindLazy:
		return func(arg any) Tile { return arg.(Deferred).Eval() }
	case KindArray:
		return func(arg any) Tile { return arg.(*Lazy).Eval() }
	default:
		panic(fmt.Sprintf("tile: unknown argument kind %d", k))
	}
}
