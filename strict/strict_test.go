package strict

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stillwater-sc/universal-sub011/posit"
)

func TestBinOpReturnsErrorOnSentinel(t *testing.T) {
	shape := posit.New(8, 2)
	div := BinOp("posit.Div", posit.Div, posit.Posit.IsNaR)

	_, err := div(shape.FromFloat64(1), shape.FromFloat64(0))
	require.Error(t, err)

	result, err := div(shape.FromFloat64(6), shape.FromFloat64(2))
	require.NoError(t, err)
	require.InDelta(t, 3.0, result.ToFloat64(), 1e-6)
}

func TestUnaryOpReturnsErrorOnSentinel(t *testing.T) {
	shape := posit.New(8, 2)
	recip := UnaryOp("posit.Sqrt", posit.Sqrt, posit.Posit.IsNaR)

	_, err := recip(shape.FromFloat64(-4))
	require.Error(t, err)

	result, err := recip(shape.FromFloat64(4))
	require.NoError(t, err)
	require.InDelta(t, 2.0, result.ToFloat64(), 1e-1)
}
