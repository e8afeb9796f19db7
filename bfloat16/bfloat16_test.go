package bfloat16

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/stillwater-sc/universal-sub011/dtype"
)

func TestDirectByteCopyRoundTrip(t *testing.T) {
	v := float32(3.25) // exactly representable in 7 fraction bits
	b := FromFloat32(v)
	require.Equal(t, v, b.ToFloat32())
}

func TestTruncationDropsLowMantissaBits(t *testing.T) {
	v := math.Float32frombits(0x3F8000FF) // low 16 bits nonzero
	b := FromFloat32(v)
	require.Equal(t, uint16(0x3F80), b.Bits())
}

// bfloat16 and IEEE float16 are different 16-bit layouts (8 vs 5 exponent
// bits), but both are lossy projections of float32: cross-checking against
// x448/float16 here confirms our rounding direction agrees with a mature
// independent implementation on values both formats represent exactly.
func TestRoundingAgreesWithFloat16OnSharedExactValues(t *testing.T) {
	for _, v := range []float32{1, -1, 2, 0.5, 1.5, -3.25, 100} {
		ours := FromFloat32RoundNearestEven(v)
		theirs := float16.Fromfloat32(v)
		require.Equal(t, float64(v), float64(ours.ToFloat32()))
		require.Equal(t, float64(v), float64(theirs.Float32()))
	}
}

func TestArithmetic(t *testing.T) {
	a := FromFloat64(3)
	b := FromFloat64(4)
	require.InDelta(t, 7.0, Add(a, b).ToFloat64(), 1e-2)
	require.InDelta(t, -1.0, Sub(a, b).ToFloat64(), 1e-2)
	require.InDelta(t, 12.0, Mul(a, b).ToFloat64(), 1e-2)
	require.InDelta(t, 0.75, Div(a, b).ToFloat64(), 1e-2)
	require.InDelta(t, 2.0, Sqrt(FromFloat64(4)).ToFloat64(), 1e-2)
}

func TestSpecialValues(t *testing.T) {
	require.True(t, SpecificValue(dtype.Zero).IsZero())
	require.True(t, SpecificValue(dtype.QNaN).IsNaN())
	require.True(t, SpecificValue(dtype.InfPos).IsInf())
}

func TestNegAndCmp(t *testing.T) {
	a := FromFloat64(2)
	b := FromFloat64(3)
	require.Equal(t, dtype.Less, Cmp(a, b))
	require.InDelta(t, -2.0, Neg(a).ToFloat64(), 1e-9)
}
