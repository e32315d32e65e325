package tileop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-hpc/mosaic/internal/grid"
	"github.com/mosaic-hpc/mosaic/internal/tile"
)

func ramp(n int) tile.Tile {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	t, err := tile.FromSlice(grid.NewRange(n), data)
	if err != nil {
		panic(err)
	}
	return t
}

func TestScale(t *testing.T) {
	src := ramp(20)
	out := Scale{Factor: 3}.Apply(src, false)

	for i, x := range out.Data() {
		assert.Equal(t, 3*float64(i), x)
	}
	// Source untouched without consume.
	assert.Equal(t, 1.0, src.Data()[1])
}

func TestScaleConsume(t *testing.T) {
	src := ramp(20)
	out := Scale{Factor: 2}.Apply(src, true)

	assert.Same(t, &src.Data()[0], &out.Data()[0], "consume reuses source storage")
	assert.Equal(t, 2.0, src.Data()[1])
}

func TestShiftNegSquare(t *testing.T) {
	src := ramp(10)

	shifted := Shift{Offset: 1}.Apply(src, false)
	negated := Neg{}.Apply(src, false)
	squared := Square{}.Apply(src, false)

	for i := range src.Data() {
		x := float64(i)
		assert.Equal(t, x+1, shifted.Data()[i])
		assert.Equal(t, -x, negated.Data()[i])
		assert.Equal(t, x*x, squared.Data()[i])
	}
}

func TestIdentity(t *testing.T) {
	src := ramp(8)

	copied := Identity{}.Apply(src, false)
	assert.Equal(t, src.Data(), copied.Data())
	assert.NotSame(t, &src.Data()[0], &copied.Data()[0])

	passed := Identity{}.Apply(src, true)
	assert.Same(t, &src.Data()[0], &passed.Data()[0])
}

func TestAddInto(t *testing.T) {
	src := ramp(20)
	other := ramp(20)

	out := AddInto{Other: other}.Apply(src, false)
	for i := range out.Data() {
		assert.Equal(t, 2*float64(i), out.Data()[i])
	}
	assert.Equal(t, 1.0, src.Data()[1], "source untouched without consume")

	consumed := AddInto{Other: other}.Apply(src, true)
	assert.Same(t, &src.Data()[0], &consumed.Data()[0], "consume reuses source storage")
	assert.Equal(t, 2.0, src.Data()[1])
	assert.Equal(t, 1.0, other.Data()[1], "the shared operand is read-only")

	assert.Panics(t, func() { AddInto{Other: ramp(4)}.Apply(ramp(8), false) })
}

func TestDotAndSum(t *testing.T) {
	a := ramp(100)

	// sum(i^2 for i in 0..99) and sum(i for i in 0..99)
	assert.Equal(t, 328350.0, Dot(a, a))
	assert.Equal(t, 4950.0, Sum(a))
}

func TestOperatorsAreSharedSafely(t *testing.T) {
	op := Scale{Factor: 2}
	a := tile.NewLazy(ramp(16), op, false)
	b := tile.NewLazy(ramp(16), op, false)

	ra := a.Eval()
	rb := b.Eval()
	require.Equal(t, ra.Data(), rb.Data())
}
