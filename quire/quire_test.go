package quire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stillwater-sc/universal-sub011/posit"
)

func TestFDPCatastrophicCancellation(t *testing.T) {
	shape := posit.Posit32_2()
	a := []posit.Posit{shape.FromFloat64(1e20), shape.FromFloat64(1.0), shape.FromFloat64(-1e20)}
	b := []posit.Posit{shape.FromFloat64(1.0), shape.FromFloat64(1.0), shape.FromFloat64(1.0)}

	result := FDP(shape, a, b)
	require.InDelta(t, 1.0, result.ToFloat64(), 1e-9)
}

func TestFDPSimpleSum(t *testing.T) {
	shape := posit.Posit16_2()
	a := []posit.Posit{shape.FromFloat64(2), shape.FromFloat64(3), shape.FromFloat64(4)}
	b := []posit.Posit{shape.FromFloat64(5), shape.FromFloat64(6), shape.FromFloat64(7)}
	// 2*5 + 3*6 + 4*7 = 10 + 18 + 28 = 56
	result := FDP(shape, a, b)
	require.InDelta(t, 56.0, result.ToFloat64(), 1e-6)
}

func TestAccumulateRejectsNaR(t *testing.T) {
	shape := posit.Posit8_2()
	q := New(shape)
	nar := shape.SpecificValue(9) // dtype.NaR
	ok := q.Accumulate(nar, shape.FromFloat64(1))
	require.False(t, ok)
}

func TestClearResetsToZero(t *testing.T) {
	shape := posit.Posit16_1()
	q := New(shape)
	q.Accumulate(shape.FromFloat64(3), shape.FromFloat64(4))
	require.False(t, q.IsZero())
	q.Clear()
	require.True(t, q.IsZero())
	require.Equal(t, 0.0, q.ToPosit().ToFloat64())
}

func TestFMVMatchesRowDotProducts(t *testing.T) {
	shape := posit.Posit16_2()
	m := [][]posit.Posit{
		{shape.FromFloat64(1), shape.FromFloat64(2)},
		{shape.FromFloat64(3), shape.FromFloat64(4)},
	}
	x := []posit.Posit{shape.FromFloat64(5), shape.FromFloat64(6)}
	y := FMV(shape, m, x)
	require.InDelta(t, 17.0, y[0].ToFloat64(), 1e-6) // 1*5+2*6
	require.InDelta(t, 39.0, y[1].ToFloat64(), 1e-6) // 3*5+4*6
}
