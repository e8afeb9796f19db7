// dd_cascade: two IEEE doubles (hi, lo) with the invariant |lo| <= ulp(hi)/2
// and hi+lo equal to the exact value of the pair ("backbone").
package ddcascade

import (
	"math"

	"github.com/stillwater-sc/universal-sub011/dtype"
)

// DDCascade is a double-double value: value = hi + lo under infinite
// precision.
type DDCascade struct {
	hi, lo float64
}

// FromPair constructs a DDCascade from a (hi,lo) pair, renormalizing via
// fastTwoSum so the invariant holds even if the caller didn't already
// arrange for |lo| <= ulp(hi)/2.
func FromPair(hi, lo float64) DDCascade {
	h, l := fastTwoSum(hi, lo)
	return DDCascade{hi: h, lo: l}
}

// FromFloat64 lifts a single float64 with an exact zero low component.
func FromFloat64(v float64) DDCascade { return DDCascade{hi: v, lo: 0} }

// Components returns the (hi, lo) pair.
func (d DDCascade) Components() (hi, lo float64) { return d.hi, d.lo }

// ToFloat64 collapses to a single float64 (the best float64 approximation
// of hi+lo).
func (d DDCascade) ToFloat64() float64 { return d.hi + d.lo }

// TypeTag identifies the number system for external collaborators.
func (DDCascade) TypeTag() string { return "dd_cascade" }

// IsZero, IsNaN, IsInf mirror float64's own special values on the hi
// component (lo is exactly 0 whenever hi is zero/NaN/Inf, by construction).
func (d DDCascade) IsZero() bool { return d.hi == 0 && d.lo == 0 }
func (d DDCascade) IsNaN() bool  { return math.IsNaN(d.hi) }
func (d DDCascade) IsInf() bool  { return math.IsInf(d.hi, 0) }

// Classify returns this dd_cascade's classification.
func (d DDCascade) Classify() dtype.Classification {
	switch {
	case d.IsNaN():
		return dtype.NaNOrNaR
	case d.IsInf():
		return dtype.Infinite
	case d.IsZero():
		return dtype.ClassZero
	default:
		return dtype.Normal
	}
}

// SpecificValue constructs a dd_cascade from the enumerated constant set.
func SpecificValue(v dtype.SpecificValue) DDCascade {
	switch v {
	case dtype.Zero:
		return DDCascade{}
	case dtype.MaxPos:
		return FromFloat64(math.MaxFloat64)
	case dtype.MinPos:
		return FromFloat64(math.SmallestNonzeroFloat64)
	case dtype.MaxNeg:
		return FromFloat64(-math.SmallestNonzeroFloat64)
	case dtype.MinNeg:
		return FromFloat64(-math.MaxFloat64)
	case dtype.InfPos:
		return FromFloat64(math.Inf(1))
	case dtype.InfNeg:
		return FromFloat64(math.Inf(-1))
	case dtype.QNaN, dtype.SNaN:
		return FromFloat64(math.NaN())
	default:
		panic("ddcascade.SpecificValue: unsupported value")
	}
}

func (d DDCascade) expansion() []float64 { return []float64{d.hi, d.lo} }

func fromExpansion(e []float64) DDCascade {
	hi, lo := components2(e)
	return FromPair(hi, lo)
}

// Add, Sub perform expansion-based addition: merge the two 2-component
// expansions via linearExpansionSum and compress back to 2 components —
// this is what lets (1e20+1.0)-1e20 come out to exactly 1.0 instead of
// losing the 1.0 to catastrophic cancellation.
func Add(a, b DDCascade) DDCascade {
	merged := linearExpansionSum(a.expansion(), b.expansion())
	return fromExpansion(compressToK(merged, 2))
}

func Sub(a, b DDCascade) DDCascade {
	merged := linearExpansionSum(a.expansion(), negate(b.expansion()))
	return fromExpansion(compressToK(merged, 2))
}

// Mul multiplies via multiplyCascades followed by compressToK.
func Mul(a, b DDCascade) DDCascade {
	cascade := multiplyCascades(a.expansion(), b.expansion())
	return fromExpansion(compressToK(cascade, 2))
}

// Div computes a/b as a*reciprocal(b) with one post-renormalize.
func Div(a, b DDCascade) DDCascade {
	return fromExpansion(quotient(a.expansion(), b.expansion()))
}

// Sqrt uses Karp's double-double square root: one Newton-Raphson
// refinement of the float64 approximation using double-double arithmetic
// throughout, doubling the working precision the same way reciprocal does.
func Sqrt(a DDCascade) DDCascade {
	if a.IsZero() {
		return a
	}
	x := math.Sqrt(a.hi)
	// a/x computed in double-double, then (x + a/x)/2 is the refined root.
	axHi, axLo := components2(quotient(a.expansion(), []float64{x, 0}))
	sumHi, sumLo := fastTwoSum(x, axHi)
	sumLo += axLo
	half := FromPair(sumHi, sumLo)
	return FromPair(half.hi/2, half.lo/2)
}

// Neg negates both components.
func Neg(a DDCascade) DDCascade { return DDCascade{hi: -a.hi, lo: -a.lo} }

// Cmp orders two dd_cascade values by their represented real value; NaN
// compares Unordered.
func Cmp(a, b DDCascade) dtype.Ordering {
	if a.IsNaN() || b.IsNaN() {
		return dtype.Unordered
	}
	av, bv := a.ToFloat64(), b.ToFloat64()
	switch {
	case av < bv:
		return dtype.Less
	case av > bv:
		return dtype.Greater
	default:
		return dtype.Equal
	}
}
