// Package tileop provides elementwise tile operators built on the vec block
// kernels. Every operator is immutable after construction so a single value
// can be shared by all lazy tiles of an operation.
package tileop

import (
	"fmt"

	"github.com/mosaic-hpc/mosaic/internal/tile"
	"github.com/mosaic-hpc/mosaic/internal/vec"
)

// apply runs the elementwise function f over t, in place when consume is
// true, into a fresh tile otherwise.
func apply(t tile.Tile, consume bool, f func(float64) float64) tile.Tile {
	if consume {
		vec.UnaryInplace(t.Data(), f)
		return t
	}
	out := tile.New(t.Range())
	vec.Unary(out.Data(), t.Data(), f)
	return out
}

// Identity copies the tile (or passes it through when consumable).
type Identity struct{}

func (Identity) Apply(t tile.Tile, consume bool) tile.Tile {
	if consume {
		return t
	}
	return t.Clone()
}

// Scale multiplies every element by Factor.
type Scale struct {
	Factor float64
}

func (o Scale) Apply(t tile.Tile, consume bool) tile.Tile {
	return apply(t, consume, func(x float64) float64 { return x * o.Factor })
}

// Shift adds Offset to every element.
type Shift struct {
	Offset float64
}

func (o Shift) Apply(t tile.Tile, consume bool) tile.Tile {
	return apply(t, consume, func(x float64) float64 { return x + o.Offset })
}

// Neg negates every element.
type Neg struct{}

func (Neg) Apply(t tile.Tile, consume bool) tile.Tile {
	return apply(t, consume, func(x float64) float64 { return -x })
}

// Square squares every element.
type Square struct{}

func (Square) Apply(t tile.Tile, consume bool) tile.Tile {
	return apply(t, consume, func(x float64) float64 { return x * x })
}

// AddInto adds Other to the tile elementwise. Other is read-only and shared
// by every lazy tile of the operation; applying to a tile of a different size
// is fatal.
type AddInto struct {
	Other tile.Tile
}

func (o AddInto) Apply(t tile.Tile, consume bool) tile.Tile {
	if t.Len() != o.Other.Len() {
		panic(fmt.Sprintf("tileop: cannot add %v into %v", o.Other, t))
	}
	out := t
	if !consume {
		out = tile.New(t.Range())
	}
	vec.Binary(out.Data(), t.Data(), o.Other.Data(), func(x, y float64) float64 { return x + y })
	return out
}

// Dot returns the inner product of two equally sized tiles.
func Dot(a, b tile.Tile) float64 {
	var acc float64
	vec.ReducePair(&acc, a.Data(), b.Data(), func(r *float64, x, y float64) { *r += x * y })
	return acc
}

// Sum returns the sum of a tile's elements.
func Sum(t tile.Tile) float64 {
	var acc float64
	vec.Reduce(&acc, t.Data(), func(r *float64, x float64) { *r += x })
	return acc
}
