package posit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeOnePointZero(t *testing.T) {
	p := Posit8_2().FromBits(0x40)
	require.InDelta(t, 1.0, p.ToFloat64(), 1e-12)

	roundTripped := Posit8_2().FromFloat64(1.0)
	require.Equal(t, uint64(0x40), roundTripped.Bits())
}

func TestZeroAndNaR(t *testing.T) {
	z := Posit16_1().FromBits(0)
	require.True(t, z.IsZero())
	require.Equal(t, 0.0, z.ToFloat64())

	nar := Posit16_1().FromBits(1 << 15)
	require.True(t, nar.IsNaR())
	require.True(t, math.IsNaN(nar.ToFloat64()))
}

func TestFromFloat64RoundTrip(t *testing.T) {
	shape := Posit32_2()
	for _, v := range []float64{1, -1, 2, 0.5, 3.5, 100, -100, 0.125, 1e6} {
		p := shape.FromFloat64(v)
		require.InDelta(t, v, p.ToFloat64(), math.Abs(v)*1e-6+1e-9)
	}
}

func TestNegIsInvolution(t *testing.T) {
	shape := Posit16_2()
	p := shape.FromFloat64(3.25)
	require.InDelta(t, -3.25, Neg(p).ToFloat64(), 1e-9)
	require.Equal(t, p.Bits(), Neg(Neg(p)).Bits())
}

func TestAddMulDivSqrt(t *testing.T) {
	shape := Posit32_2()
	a := shape.FromFloat64(3)
	b := shape.FromFloat64(4)

	require.InDelta(t, 7.0, Add(a, b).ToFloat64(), 1e-6)
	require.InDelta(t, -1.0, Sub(a, b).ToFloat64(), 1e-6)
	require.InDelta(t, 12.0, Mul(a, b).ToFloat64(), 1e-6)
	require.InDelta(t, 0.75, Div(a, b).ToFloat64(), 1e-6)
	require.InDelta(t, 2.0, Sqrt(shape.FromFloat64(4)).ToFloat64(), 1e-6)
}

func TestDivByZeroYieldsNaR(t *testing.T) {
	shape := Posit8_2()
	a := shape.FromFloat64(1)
	zero := shape.SpecificValue(0) // dtype.Zero == 0
	require.True(t, Div(a, zero).IsNaR())
}

func TestCmpOrdersLikeReals(t *testing.T) {
	shape := Posit16_2()
	a := shape.FromFloat64(1)
	b := shape.FromFloat64(2)
	require.Equal(t, -1, int(Cmp(a, b)))
	require.Equal(t, 1, int(Cmp(b, a)))
	require.Equal(t, 0, int(Cmp(a, a)))
}

func TestPosit64_3SqrtHoldsPrecisionPastFloat64Mantissa(t *testing.T) {
	shape := Posit64_3()
	// 9 + 2^-50 needs 53 fraction bits at scale 3: posit<64,3> holds it
	// exactly, float64 does not (it rounds to 9). The operand is built by a
	// posit Add so the low bit survives; a Sqrt that collapsed its operand
	// through a single float64 would see exactly 9 and return exactly 3.
	a := Add(shape.FromFloat64(9), shape.FromFloat64(math.Ldexp(1, -50)))
	root := Sqrt(a)
	require.InDelta(t, 3.0, root.ToFloat64(), 1e-15)
	require.Greater(t, Sub(root, shape.FromFloat64(3)).ToFloat64(), 0.0)
}

func TestPosit8_0RoundTripsAndArithmetic(t *testing.T) {
	shape := Posit8_0()
	a := shape.FromFloat64(2)
	b := shape.FromFloat64(3)
	require.InDelta(t, 5.0, Add(a, b).ToFloat64(), 1e-6)
	require.InDelta(t, 6.0, Mul(a, b).ToFloat64(), 1e-6)
	require.InDelta(t, 4.0, Sqrt(shape.FromFloat64(16)).ToFloat64(), 1e-6)
}

func TestSaturationAtExtremes(t *testing.T) {
	shape := Posit8_2()
	huge := shape.FromFloat64(1e300)
	require.False(t, huge.IsNaR())
	require.Greater(t, huge.ToFloat64(), 0.0)

	tiny := shape.FromFloat64(1e-300)
	require.False(t, tiny.IsNaR())
	require.Greater(t, tiny.ToFloat64(), 0.0)
}
