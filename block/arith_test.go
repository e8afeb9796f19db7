package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultiply(t *testing.T) {
	a := FromUint64[uint32](16, 1234)
	b := FromUint64[uint32](16, 5678)
	p := Multiply(a, b)
	require.Equal(t, uint64(1234*5678), p.ToUint64())
	require.Equal(t, 32, p.NBits())
}

func TestDivRem(t *testing.T) {
	num := FromUint64[uint32](16, 1000)
	den := FromUint64[uint32](16, 7)
	q, r, exact := DivRem(num, den)
	require.Equal(t, uint64(142), q.ToUint64())
	require.Equal(t, uint64(6), r.ToUint64())
	require.False(t, exact)

	num2 := FromUint64[uint32](16, 21)
	den2 := FromUint64[uint32](16, 7)
	q2, _, exact2 := DivRem(num2, den2)
	require.Equal(t, uint64(3), q2.ToUint64())
	require.True(t, exact2)
}

func TestSqrtBits(t *testing.T) {
	s := FromUint64[uint32](16, 1024)
	root, exact := SqrtBits(s)
	require.Equal(t, uint64(32), root.ToUint64())
	require.True(t, exact)

	s2 := FromUint64[uint32](16, 1000)
	root2, exact2 := SqrtBits(s2)
	require.Equal(t, uint64(31), root2.ToUint64())
	require.False(t, exact2)
}
