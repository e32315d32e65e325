package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Lengths spanning zero, a partial block, exactly one block, and several
// blocks plus a remainder.
var lengths = []int{0, 1, BlockWords - 1, BlockWords, 3*BlockWords + 5}

func ramp(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(i) + 0.5
	}
	return s
}

func TestCopyMatchesReference(t *testing.T) {
	for _, n := range lengths {
		src := ramp(n)
		dst := make([]float64, n)
		Copy(dst, src)

		want := make([]float64, n)
		for i := range src {
			want[i] = src[i]
		}
		assert.Equal(t, want, dst, "n=%d", n)
	}
}

func TestCopyAnyMatchesReference(t *testing.T) {
	for _, n := range lengths {
		src := make([]string, n)
		for i := range src {
			src[i] = string(rune('a' + i%26))
		}
		dst := make([]string, n)
		CopyAny(dst, src)
		assert.Equal(t, src, dst, "n=%d", n)
	}
}

func TestFillMatchesReference(t *testing.T) {
	for _, n := range lengths {
		dst := ramp(n)
		Fill(dst, 3.25)

		for i := range dst {
			assert.Equal(t, 3.25, dst[i], "n=%d i=%d", n, i)
		}
	}
}

func TestUnary(t *testing.T) {
	double := func(x float64) float64 { return 2 * x }
	for _, n := range lengths {
		src := ramp(n)
		dst := make([]float64, n)
		Unary(dst, src, double)

		for i := range src {
			assert.Equal(t, 2*src[i], dst[i], "n=%d i=%d", n, i)
		}
	}
}

func TestUnaryInplace(t *testing.T) {
	n := 2*BlockWords + 3
	a := ramp(n)
	want := ramp(n)
	UnaryInplace(a, func(x float64) float64 { return x * x })
	for i := range a {
		assert.Equal(t, want[i]*want[i], a[i])
	}
}

func TestBinary(t *testing.T) {
	for _, n := range lengths {
		a := ramp(n)
		b := ramp(n)
		dst := make([]float64, n)
		Binary(dst, a, b, func(x, y float64) float64 { return x + y })

		for i := range a {
			assert.Equal(t, a[i]+b[i], dst[i], "n=%d i=%d", n, i)
		}
	}
}

func TestReduce(t *testing.T) {
	for _, n := range lengths {
		src := ramp(n)
		var want float64
		for _, x := range src {
			want += x
		}

		var acc float64
		Reduce(&acc, src, func(r *float64, x float64) { *r += x })
		assert.Equal(t, want, acc, "n=%d", n)
	}
}

func TestReducePair(t *testing.T) {
	for _, n := range lengths {
		a := ramp(n)
		b := ramp(n)
		var want float64
		for i := range a {
			want += a[i] * b[i]
		}

		var acc float64
		ReducePair(&acc, a, b, func(r *float64, x, y float64) { *r += x * y })
		assert.Equal(t, want, acc, "n=%d", n)
	}
}

func TestScatterGather(t *testing.T) {
	const stride = 3
	for _, n := range lengths {
		src := ramp(n)
		spread := make([]float64, n*stride+1)
		Scatter(spread, stride, src)

		for i := range src {
			assert.Equal(t, src[i], spread[i*stride], "scatter n=%d i=%d", n, i)
		}

		back := make([]float64, n)
		Gather(back, spread, stride)
		assert.Equal(t, src, back, "gather n=%d", n)
	}
}
