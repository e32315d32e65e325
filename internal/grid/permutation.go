package grid

import "fmt"

// Permutation maps source dimensions to result dimensions: dimension i of the
// source becomes dimension p[i] of the result. The zero value is the identity
// permutation of any rank; an identity permutation applies no index transform.
type Permutation struct {
	perm []int
}

// NewPermutation creates a permutation from the mapping p. The mapping must be
// a bijection on [0, len(p)).
func NewPermutation(p ...int) Permutation {
	seen := make([]bool, len(p))
	for _, x := range p {
		if x < 0 || x >= len(p) || seen[x] {
			panic(fmt.Sprintf("grid: %v is not a valid permutation", p))
		}
		seen[x] = true
	}
	return Permutation{perm: append([]int(nil), p...)}
}

// Identity returns the identity permutation. It is represented without a
// mapping so identity application can be skipped entirely.
func Identity() Permutation { return Permutation{} }

// IsIdentity reports whether the permutation applies no transform. A mapping
// that happens to be the identity bijection also qualifies.
func (p Permutation) IsIdentity() bool {
	for i, x := range p.perm {
		if x != i {
			return false
		}
	}
	return true
}

// Rank returns the number of dimensions the permutation acts on, or 0 for the
// distinguished identity.
func (p Permutation) Rank() int { return len(p.perm) }

// Apply permutes an index vector: result[p[i]] = idx[i].
func (p Permutation) Apply(idx []int) []int {
	if len(p.perm) == 0 {
		return append([]int(nil), idx...)
	}
	if len(idx) != len(p.perm) {
		panic(fmt.Sprintf("grid: permutation rank %d does not match index rank %d", len(p.perm), len(idx)))
	}
	out := make([]int, len(idx))
	for i, x := range idx {
		out[p.perm[i]] = x
	}
	return out
}

// Inverse returns the permutation q such that q.Apply(p.Apply(idx)) == idx.
func (p Permutation) Inverse() Permutation {
	if len(p.perm) == 0 {
		return Permutation{}
	}
	inv := make([]int, len(p.perm))
	for i, x := range p.perm {
		inv[x] = i
	}
	return Permutation{perm: inv}
}

// Compose returns the permutation equivalent to applying p first, then q.
func (p Permutation) Compose(q Permutation) Permutation {
	if p.IsIdentity() {
		return q
	}
	if q.IsIdentity() {
		return p
	}
	if len(p.perm) != len(q.perm) {
		panic(fmt.Sprintf("grid: cannot compose permutations of rank %d and %d", len(p.perm), len(q.perm)))
	}
	out := make([]int, len(p.perm))
	for i, x := range p.perm {
		out[i] = q.perm[x]
	}
	return Permutation{perm: out}
}

// String returns a human-readable representation of the permutation.
func (p Permutation) String() string {
	if len(p.perm) == 0 {
		return "Permutation(identity)"
	}
	return fmt.Sprintf("Permutation%v", p.perm)
}

// OrdinalMap returns a function translating result ordinals in target back to
// the source ordinal in source that must be fetched. The translation function
// is selected once: identity permutations get a direct pass-through with no
// per-ordinal inverse lookup.
func (p Permutation) OrdinalMap(source, target Range) func(int) int {
	if p.IsIdentity() {
		return func(ord int) int { return ord }
	}
	inv := p.Inverse()
	return func(ord int) int {
		return source.Ordinal(inv.Apply(target.Index(ord)))
	}
}
