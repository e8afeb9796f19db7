package cfloat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stillwater-sc/universal-sub011/dtype"
)

func shape32() CFloat { return New(32, 8, Ieee) }

func TestRoundTripAgainstFloat32(t *testing.T) {
	c := shape32()
	for _, v := range []float64{1, -1, 0.5, 3.25, 100, -0.125, 65504, 1e-10} {
		got := c.FromFloat64(v)
		want := float64(float32(v))
		require.InDelta(t, want, got.ToFloat64(), math.Abs(want)*1e-6+1e-12)
	}
}

func TestAddMatchesFloat32Rounding(t *testing.T) {
	c := shape32()
	a := c.FromFloat64(0.1)
	b := c.FromFloat64(0.2)
	got := Add(a, b)
	want := float32(0.1) + float32(0.2)
	require.Equal(t, uint64(math.Float32bits(want)), got.Bits())
}

func TestZeroNaNInf(t *testing.T) {
	c := shape32()
	require.True(t, c.FromFloat64(0).IsZero())
	require.True(t, c.SpecificValue(dtype.QNaN).IsNaN())
	require.True(t, c.SpecificValue(dtype.InfPos).IsInf())
	require.True(t, math.IsInf(c.SpecificValue(dtype.InfPos).ToFloat64(), 1))
}

func TestNaNComparesUnordered(t *testing.T) {
	c := shape32()
	nan := c.SpecificValue(dtype.QNaN)
	one := c.FromFloat64(1)
	require.Equal(t, dtype.Unordered, Cmp(nan, nan))
	require.Equal(t, dtype.Unordered, Cmp(nan, one))
}

func TestSubnormalRoundTrip(t *testing.T) {
	c := shape32()
	tiny := c.FromFloat64(1e-40) // subnormal range for a 23-bit/8-bit exponent shape
	require.Equal(t, dtype.Subnormal, tiny.Classify())
	require.InDelta(t, 1e-40, tiny.ToFloat64(), 1e-45)
}

func TestNoSubnormalsFlushesToZero(t *testing.T) {
	c := New(32, 8, NoSubnormals)
	tiny := c.FromFloat64(1e-40)
	require.True(t, tiny.IsZero())
}

func TestSaturatingFlavorNeverOverflowsToInf(t *testing.T) {
	c := New(16, 5, SaturatingFlavor)
	huge := c.FromFloat64(1e10)
	require.False(t, huge.IsInf())
	require.InDelta(t, c.SpecificValue(dtype.MaxPos).ToFloat64(), huge.ToFloat64(), 1e-6)
}

func TestAddSubMulDivSqrt(t *testing.T) {
	c := shape32()
	a := c.FromFloat64(3)
	b := c.FromFloat64(4)
	require.InDelta(t, 7.0, Add(a, b).ToFloat64(), 1e-6)
	require.InDelta(t, -1.0, Sub(a, b).ToFloat64(), 1e-6)
	require.InDelta(t, 12.0, Mul(a, b).ToFloat64(), 1e-6)
	require.InDelta(t, 0.75, Div(a, b).ToFloat64(), 1e-6)
	require.InDelta(t, 2.0, Sqrt(c.FromFloat64(4)).ToFloat64(), 1e-6)
}

func TestNegIsInvolution(t *testing.T) {
	c := shape32()
	v := c.FromFloat64(5.5)
	require.InDelta(t, -5.5, Neg(v).ToFloat64(), 1e-9)
	require.Equal(t, v.Bits(), Neg(Neg(v)).Bits())
}
