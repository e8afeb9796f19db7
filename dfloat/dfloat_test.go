package dfloat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stillwater-sc/universal-sub011/dtype"
)

func TestRoundTripExactFloat64(t *testing.T) {
	shape := New(64, 11)
	v := shape.FromFloat64(3.25)
	require.Equal(t, 3.25, v.ToFloat64())
}

func TestRoundTripThroughFloat32Rung(t *testing.T) {
	shape := New(32, 8)
	v := shape.FromFloat64(0.1)
	require.Equal(t, float64(float32(0.1)), v.ToFloat64())
}

func TestRoundTripThroughFloat16Rung(t *testing.T) {
	shape := New(16, 5)
	v := shape.FromFloat64(1.5) // exactly representable in float16
	require.Equal(t, 1.5, v.ToFloat64())
}

func TestArithmeticDelegatesToNativeFloat(t *testing.T) {
	shape := New(64, 11)
	a := shape.FromFloat64(2)
	b := shape.FromFloat64(3)
	require.Equal(t, 5.0, Add(a, b).ToFloat64())
	require.Equal(t, -1.0, Sub(a, b).ToFloat64())
	require.Equal(t, 6.0, Mul(a, b).ToFloat64())
	require.InDelta(t, 2.0/3.0, Div(a, b).ToFloat64(), 1e-9)
	require.Equal(t, 3.0, Sqrt(shape.FromFloat64(9)).ToFloat64())
}

func TestSpecialValues(t *testing.T) {
	shape := New(64, 11)
	require.True(t, shape.SpecificValue(dtype.Zero).IsZero())
	require.True(t, shape.SpecificValue(dtype.QNaN).IsNaN())
	require.True(t, shape.SpecificValue(dtype.InfPos).IsInf())
}

func TestNegAndCmp(t *testing.T) {
	shape := New(64, 11)
	a := shape.FromFloat64(2)
	b := shape.FromFloat64(3)
	require.Equal(t, dtype.Less, Cmp(a, b))
	require.Equal(t, -2.0, Neg(a).ToFloat64())
}

func TestBitsRoundTripPerRung(t *testing.T) {
	shape := New(32, 8)
	v := shape.FromFloat64(1.5)
	back := shape.FromBits(v.Bits())
	require.Equal(t, v.ToFloat64(), back.ToFloat64())
}
