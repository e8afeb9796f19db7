package blocktriple

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromToFloat64RoundTrip(t *testing.T) {
	for _, v := range []float64{1, 2, 0.5, 1.5, 3, 0.3125, 123.25, -7.5} {
		tr := FromFloat64(v, WorkingFracBits)
		require.InDelta(t, v, tr.ToFloat64(), 1e-9)
	}
}

func TestFromFloat64Specials(t *testing.T) {
	require.True(t, FromFloat64(0, WorkingFracBits).IsZero)
	require.True(t, FromFloat64(math.NaN(), WorkingFracBits).IsNaN)
	require.True(t, FromFloat64(math.Inf(1), WorkingFracBits).IsInf)
}

func TestAddMatchesFloat64(t *testing.T) {
	cases := [][2]float64{{1, 1}, {1.5, 0.25}, {100, -1}, {1e10, -1e10}, {0.1, 0.2}}
	for _, c := range cases {
		a := FromFloat64(c[0], WorkingFracBits)
		b := FromFloat64(c[1], WorkingFracBits)
		got := Add(a, b)
		require.InDelta(t, c[0]+c[1], got.ToFloat64(), math.Abs(c[0]+c[1])*1e-12+1e-12)
	}
}

func TestMulMatchesFloat64(t *testing.T) {
	cases := [][2]float64{{1, 1}, {1.5, 2.5}, {3, 7}, {0.5, 0.5}, {123.25, 4}}
	for _, c := range cases {
		a := FromFloat64(c[0], WorkingFracBits)
		b := FromFloat64(c[1], WorkingFracBits)
		got := Mul(a, b)
		require.InDelta(t, c[0]*c[1], got.ToFloat64(), math.Abs(c[0]*c[1])*1e-9+1e-12)
	}
}

func TestDivMatchesFloat64(t *testing.T) {
	cases := [][2]float64{{1, 3}, {10, 4}, {7, 2}, {1, 1}, {100, 8}}
	for _, c := range cases {
		a := FromFloat64(c[0], WorkingFracBits)
		b := FromFloat64(c[1], WorkingFracBits)
		got := Div(a, b)
		require.InDelta(t, c[0]/c[1], got.ToFloat64(), math.Abs(c[0]/c[1])*1e-6+1e-12)
	}
}

func TestSqrtMatchesFloat64(t *testing.T) {
	for _, v := range []float64{4, 2, 1024, 0.25, 123.456} {
		tr := FromFloat64(v, WorkingFracBits)
		got := Sqrt(tr)
		require.InDelta(t, math.Sqrt(v), got.ToFloat64(), math.Sqrt(v)*1e-9+1e-12)
	}
}

func TestRoundToNearestEven(t *testing.T) {
	// 1.25 (1.010 with 3 fraction bits) is exactly halfway between the two
	// representable points at 1 fraction bit: 1.0 and 1.5. Ties-to-even picks
	// 1.0, whose fraction bit (0) is even.
	tr := New(false, 0, 0b1010, 3)
	pattern, carried := tr.RoundTo(1, RoundNearestEven)
	require.False(t, carried)
	require.Equal(t, uint64(0b10), pattern) // 1.0
}

func TestRoundToCarriesIntoLeadingBit(t *testing.T) {
	// 1.111 (fracBits=3) rounded to 0 fraction bits rounds up to 10.0 -> carried.
	tr := New(false, 0, 0b1111, 3)
	pattern, carried := tr.RoundTo(0, RoundNearestEven)
	require.True(t, carried)
	require.Equal(t, uint64(1), pattern)
}
