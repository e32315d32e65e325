// Package vec provides cache-line-sized block kernels for elementwise tile
// operations: copy, fill, scatter, gather, transform and reduce.
//
// Every kernel processes the first n - (n mod BlockWords) elements in unrolled
// blocks of BlockWords with no branches inside a block, so the compiler is
// free to vectorize, and finishes the remainder with a scalar tail loop.
// Kernels are pure and allocation-free.
package vec

// BlockWords is the unrolled block length: one 64-byte cache line of float64.
const BlockWords = 8

// blockMask truncates a length to a whole number of blocks.
const blockMask = ^(BlockWords - 1)

// Scalar is the constraint for element types whose copy is equivalent to a
// raw memory copy.
type Scalar interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8
}

// Copy copies src into dst using the bulk memory path. Valid only for scalar
// element types, where assignment and memory copy are interchangeable.
func Copy[T Scalar](dst, src []T) {
	copy(dst, src)
}

// CopyAny copies src into dst element by element. Unlike Copy it routes every
// element through an explicit assignment, so it is valid for element types
// with pointer or reference semantics.
func CopyAny[T any](dst, src []T) {
	i, n := 0, len(src)
	for nx := n & blockMask; i < nx; i += BlockWords {
		d := dst[i : i+BlockWords : i+BlockWords]
		s := src[i : i+BlockWords : i+BlockWords]
		d[0], d[1], d[2], d[3] = s[0], s[1], s[2], s[3]
		d[4], d[5], d[6], d[7] = s[4], s[5], s[6], s[7]
	}
	for ; i < n; i++ {
		dst[i] = src[i]
	}
}

// Fill assigns v to every element of dst.
func Fill[T any](dst []T, v T) {
	i, n := 0, len(dst)
	for nx := n & blockMask; i < nx; i += BlockWords {
		d := dst[i : i+BlockWords : i+BlockWords]
		d[0], d[1], d[2], d[3] = v, v, v, v
		d[4], d[5], d[6], d[7] = v, v, v, v
	}
	for ; i < n; i++ {
		dst[i] = v
	}
}

// Unary computes dst[i] = op(src[i]) for i in [0, len(src)).
func Unary[A, R any](dst []R, src []A, op func(A) R) {
	i, n := 0, len(src)
	for nx := n & blockMask; i < nx; i += BlockWords {
		d := dst[i : i+BlockWords : i+BlockWords]
		s := src[i : i+BlockWords : i+BlockWords]
		d[0], d[1] = op(s[0]), op(s[1])
		d[2], d[3] = op(s[2]), op(s[3])
		d[4], d[5] = op(s[4]), op(s[5])
		d[6], d[7] = op(s[6]), op(s[7])
	}
	for ; i < n; i++ {
		dst[i] = op(src[i])
	}
}

// UnaryInplace computes a[i] = op(a[i]) for i in [0, len(a)).
func UnaryInplace[T any](a []T, op func(T) T) {
	Unary(a, a, op)
}

// Binary computes dst[i] = op(a[i], b[i]) for i in [0, len(a)).
func Binary[A, B, R any](dst []R, a []A, b []B, op func(A, B) R) {
	i, n := 0, len(a)
	for nx := n & blockMask; i < nx; i += BlockWords {
		d := dst[i : i+BlockWords : i+BlockWords]
		x := a[i : i+BlockWords : i+BlockWords]
		y := b[i : i+BlockWords : i+BlockWords]
		d[0], d[1] = op(x[0], y[0]), op(x[1], y[1])
		d[2], d[3] = op(x[2], y[2]), op(x[3], y[3])
		d[4], d[5] = op(x[4], y[4]), op(x[5], y[5])
		d[6], d[7] = op(x[6], y[6]), op(x[7], y[7])
	}
	for ; i < n; i++ {
		dst[i] = op(a[i], b[i])
	}
}

// Reduce folds src into *acc with op applied once per element.
func Reduce[A, R any](acc *R, src []A, op func(*R, A)) {
	i, n := 0, len(src)
	for nx := n & blockMask; i < nx; i += BlockWords {
		s := src[i : i+BlockWords : i+BlockWords]
		op(acc, s[0])
		op(acc, s[1])
		op(acc, s[2])
		op(acc, s[3])
		op(acc, s[4])
		op(acc, s[5])
		op(acc, s[6])
		op(acc, s[7])
	}
	for ; i < n; i++ {
		op(acc, src[i])
	}
}

// ReducePair folds the element pairs (a[i], b[i]) into *acc.
func ReducePair[A, B, R any](acc *R, a []A, b []B, op func(*R, A, B)) {
	i, n := 0, len(a)
	for nx := n & blockMask; i < nx; i += BlockWords {
		x := a[i : i+BlockWords : i+BlockWords]
		y := b[i : i+BlockWords : i+BlockWords]
		op(acc, x[0], y[0])
		op(acc, x[1], y[1])
		op(acc, x[2], y[2])
		op(acc, x[3], y[3])
		op(acc, x[4], y[4])
		op(acc, x[5], y[5])
		op(acc, x[6], y[6])
		op(acc, x[7], y[7])
	}
	for ; i < n; i++ {
		op(acc, a[i], b[i])
	}
}

// Scatter writes the contiguous src elements to dst at the given stride:
// dst[i*stride] = src[i].
func Scatter[T any](dst []T, stride int, src []T) {
	i, j, n := 0, 0, len(src)
	for nx := n & blockMask; i < nx; i, j = i+BlockWords, j+BlockWords*stride {
		s := src[i : i+BlockWords : i+BlockWords]
		dst[j] = s[0]
		dst[j+stride] = s[1]
		dst[j+2*stride] = s[2]
		dst[j+3*stride] = s[3]
		dst[j+4*stride] = s[4]
		dst[j+5*stride] = s[5]
		dst[j+6*stride] = s[6]
		dst[j+7*stride] = s[7]
	}
	for ; i < n; i, j = i+1, j+stride {
		dst[j] = src[i]
	}
}

// Gather reads strided src elements into contiguous dst:
// dst[i] = src[i*stride].
func Gather[T any](dst []T, src []T, stride int) {
	i, j, n := 0, 0, len(dst)
	for nx := n & blockMask; i < nx; i, j = i+BlockWords, j+BlockWords*stride {
		d := dst[i : i+BlockWords : i+BlockWords]
		d[0] = src[j]
		d[1] = src[j+stride]
		d[2] = src[j+2*stride]
		d[3] = src[j+3*stride]
		d[4] = src[j+4*stride]
		d[5] = src[j+5*stride]
		d[6] = src[j+6*stride]
		d[7] = src[j+7*stride]
	}
	for ; i < n; i, j = i+1, j+stride {
		dst[i] = src[j]
	}
}
