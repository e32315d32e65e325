// Package tile provides the dense data block of a distributed tensor and the
// lazy wrapper that defers an elementwise operator until a tile is first read.
package tile

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mosaic-hpc/mosaic/internal/grid"
	"github.com/mosaic-hpc/mosaic/internal/vec"
)

// Tile is a dense block of float64 tensor data over an element range. The
// zero value is an empty tile.
type Tile struct {
	rng  grid.Range
	data []float64
}

// New creates a zero-initialized tile over the given element range.
func New(rng grid.Range) Tile {
	return Tile{rng: rng, data: make([]float64, rng.Size())}
}

// FromSlice creates a tile backed by data. The slice is not copied.
func FromSlice(rng grid.Range, data []float64) (Tile, error) {
	if rng.Size() != len(data) {
		return Tile{}, fmt.Errorf("tile: range %v requires %d elements, but got %d", rng, rng.Size(), len(data))
	}
	return Tile{rng: rng, data: data}, nil
}

// Full creates a tile with every element set to v.
func Full(rng grid.Range, v float64) Tile {
	t := New(rng)
	vec.Fill(t.data, v)
	return t
}

// Range returns the tile's element range.
func (t Tile) Range() grid.Range { return t.rng }

// Len returns the number of elements.
func (t Tile) Len() int { return len(t.data) }

// IsEmpty reports whether the tile holds no data.
func (t Tile) IsEmpty() bool { return t.data == nil }

// Data returns the tile's backing slice. Modifications are visible to every
// holder of the tile.
func (t Tile) Data() []float64 { return t.data }

// Clone returns a deep copy of the tile.
func (t Tile) Clone() Tile {
	c := Tile{rng: t.rng, data: make([]float64, len(t.data))}
	vec.Copy(c.data, t.data)
	return c
}

// String returns a human-readable representation of the tile.
func (t Tile) String() string {
	return fmt.Sprintf("Tile%v", t.rng.Dims())
}

// Binary layout: uint32 rank, per-dimension uint32 extents, float64 bits.
const tileCodecWord = 4

// MarshalBinary encodes the tile for a cross-process copy.
func (t Tile) MarshalBinary() ([]byte, error) {
	dims := t.rng.Dims()
	buf := make([]byte, tileCodecWord+tileCodecWord*len(dims)+8*len(t.data))
	binary.LittleEndian.PutUint32(buf, uint32(len(dims)))
	off := tileCodecWord
	for _, d := range dims {
		binary.LittleEndian.PutUint32(buf[off:], uint32(d))
		off += tileCodecWord
	}
	for _, x := range t.data {
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(x))
		off += 8
	}
	return buf, nil
}

// UnmarshalBinary decodes a tile encoded by MarshalBinary.
func (t *Tile) UnmarshalBinary(buf []byte) error {
	if len(buf) < tileCodecWord {
		return fmt.Errorf("tile: truncated header (%d bytes)", len(buf))
	}
	rank := int(binary.LittleEndian.Uint32(buf))
	off := tileCodecWord
	if len(buf) < off+rank*tileCodecWord {
		return fmt.Errorf("tile: truncated dimensions (rank %d, %d bytes)", rank, len(buf))
	}
	dims := make([]int, rank)
	for i := range dims {
		dims[i] = int(binary.LittleEndian.Uint32(buf[off:]))
		off += tileCodecWord
		if dims[i] <= 0 {
			return fmt.Errorf("tile: invalid extent %d at dimension %d", dims[i], i)
		}
	}
	rng := grid.NewRange(dims...)
	if len(buf) != off+8*rng.Size() {
		return fmt.Errorf("tile: payload size %d does not match range %v", len(buf)-off, rng)
	}
	data := make([]float64, rng.Size())
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[off:]))
		off += 8
	}
	t.rng = rng
	t.data = data
	return nil
}
