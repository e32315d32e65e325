// Package grid provides tile-grid geometry for the Mosaic engine: dense
// multi-dimensional ranges with linear ordinals, and permutations between
// source and result coordinate systems.
package grid

import "fmt"

// Range is a dense multi-dimensional tile grid. It translates between a
// multi-dimensional tile index and its linear ordinal using row-major strides.
type Range struct {
	dims    []int
	strides []int
	size    int
}

// NewRange creates a range with the given extent in each dimension.
// All extents must be positive.
func NewRange(dims ...int) Range {
	for i, d := range dims {
		if d <= 0 {
			panic(fmt.Sprintf("grid: invalid extent at dimension %d: %d (must be > 0)", i, d))
		}
	}
	r := Range{dims: append([]int(nil), dims...)}
	r.strides = make([]int, len(dims))
	r.size = 1
	for i := len(dims) - 1; i >= 0; i-- {
		r.strides[i] = r.size
		r.size *= dims[i]
	}
	return r
}

// Rank returns the number of dimensions.
func (r Range) Rank() int { return len(r.dims) }

// Size returns the total number of ordinals in the range.
func (r Range) Size() int { return r.size }

// Dims returns a copy of the per-dimension extents.
func (r Range) Dims() []int {
	return append([]int(nil), r.dims...)
}

// Contains reports whether ord is a valid ordinal for this range.
func (r Range) Contains(ord int) bool {
	return ord >= 0 && ord < r.size
}

// Ordinal returns the linear ordinal of a multi-dimensional index.
// Panics if the index is out of bounds.
func (r Range) Ordinal(idx []int) int {
	if len(idx) != len(r.dims) {
		panic(fmt.Sprintf("grid: expected %d indices, got %d", len(r.dims), len(idx)))
	}
	ord := 0
	for i, x := range idx {
		if x < 0 || x >= r.dims[i] {
			panic(fmt.Sprintf("grid: index %d out of bounds for dimension %d (extent %d)", x, i, r.dims[i]))
		}
		ord += x * r.strides[i]
	}
	return ord
}

// Index returns the multi-dimensional index of a linear ordinal.
// Panics if the ordinal is outside the range.
func (r Range) Index(ord int) []int {
	if !r.Contains(ord) {
		panic(fmt.Sprintf("grid: ordinal %d out of range [0, %d)", ord, r.size))
	}
	idx := make([]int, len(r.dims))
	for i, s := range r.strides {
		idx[i] = ord / s
		ord %= s
	}
	return idx
}

// Equal reports whether two ranges have identical extents.
func (r Range) Equal(other Range) bool {
	if len(r.dims) != len(other.dims) {
		return false
	}
	for i := range r.dims {
		if r.dims[i] != other.dims[i] {
			return false
		}
	}
	return true
}

// Permute returns the range obtained by applying p to the dimension extents.
func (r Range) Permute(p Permutation) Range {
	if p.IsIdentity() {
		return r
	}
	return NewRange(p.Apply(r.dims)...)
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("Range%v", r.dims)
}
