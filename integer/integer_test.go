package integer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stillwater-sc/universal-sub011/dtype"
)

func TestAddSubSignedWraps(t *testing.T) {
	shape := New(8, Integer)
	a := shape.FromInt64(100)
	b := shape.FromInt64(50)
	require.Equal(t, int64(150-256), Add(a, b).ToInt64()) // wraps past int8 max
	require.Equal(t, int64(50), Sub(a, Sub(a, b)).ToInt64())
}

func TestMulTruncatesToWidth(t *testing.T) {
	shape := New(16, Integer)
	a := shape.FromInt64(300)
	b := shape.FromInt64(300)
	require.Equal(t, int64(300*300-65536), Mul(a, b).ToInt64())
}

func TestDivModSignedRounding(t *testing.T) {
	shape := New(16, Integer)
	a := shape.FromInt64(-7)
	b := shape.FromInt64(2)
	q, r := DivMod(a, b)
	require.Equal(t, int64(-3), q.ToInt64())
	require.Equal(t, int64(-1), r.ToInt64())
}

func TestNaturalNumberClampsAtZero(t *testing.T) {
	shape := New(8, NaturalNumber)
	a := shape.FromInt64(3)
	b := shape.FromInt64(5)
	require.True(t, Sub(a, b).IsZero())
	require.True(t, Neg(a).IsZero())
}

func TestShiftByWidthOrMoreZeros(t *testing.T) {
	shape := New(8, WholeNumber)
	v := shape.FromInt64(0xFF)
	require.True(t, ShiftLeft(v, 8).IsZero())
	require.True(t, ShiftRight(v, 100).IsZero())
}

func TestArithmeticShiftRightPreservesSign(t *testing.T) {
	shape := New(8, Integer)
	v := shape.FromInt64(-4)
	require.Equal(t, int64(-1), ShiftRight(v, 2).ToInt64())
}

func TestCmpOrdersSignedCorrectly(t *testing.T) {
	shape := New(8, Integer)
	a := shape.FromInt64(-1)
	b := shape.FromInt64(1)
	require.Equal(t, dtype.Less, Cmp(a, b))
	require.Equal(t, dtype.Greater, Cmp(b, a))
}

func TestWideMultiplyThenDivideIsLossless(t *testing.T) {
	shape := New(1024, WholeNumber)
	a := shape.FromInt64(1)
	b := shape.FromInt64(1234567890)
	product := Mul(a, b)
	one := shape.FromInt64(1)
	quotient, _ := DivMod(product, one)
	require.Equal(t, int64(1234567890), quotient.ToInt64())
}

func TestSpecificValues(t *testing.T) {
	shape := New(8, Integer)
	require.True(t, shape.SpecificValue(dtype.Zero).IsZero())
	require.Equal(t, int64(127), shape.SpecificValue(dtype.MaxPos).ToInt64())
	require.Equal(t, int64(-128), shape.SpecificValue(dtype.MinNeg).ToInt64())
}
