// Package dfloat implements dfloat<N,ES>: declared as its own number
// system in the API, but its arithmetic is not a decimal-native algorithm;
// it delegates to a native Go float pathway chosen by width, and only
// round-trips exactly for values that native pathway itself represents
// exactly. This package picks the native width per the rungs below:
//
//   - nbits == 16: delegates to IEEE float16 (github.com/x448/float16),
//     the narrowest native rung available in the stack.
//   - nbits == 32: delegates to float32.
//   - everything else: delegates to float64 unchanged, whatever nbits is.
package dfloat

import (
	"math"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/stillwater-sc/universal-sub011/dtype"
)

// DFloat is a dfloat<N,ES> value. Its bit pattern is whatever its native
// delegation rung uses; N and ES are carried only as shape metadata for
// TypeTag/NBits/ES and serialization, not decoded independently.
type DFloat struct {
	nbits int
	es    int
	value float64
}

// New returns the zero-valued dfloat<nbits,es>.
func New(nbits, es int) DFloat {
	if nbits < 1 {
		panic(errors.Errorf("dfloat.New: nbits must be >= 1, got %d", nbits))
	}
	if es < 1 {
		panic(errors.Errorf("dfloat.New: es must be >= 1, got %d", es))
	}
	return DFloat{nbits: nbits, es: es}
}

// NBits, ES report the declared shape.
func (d DFloat) NBits() int { return d.nbits }
func (d DFloat) ES() int    { return d.es }

// TypeTag identifies the number system for external collaborators.
func (d DFloat) TypeTag() string { return "dfloat" }

// FromFloat64 routes v through this shape's native delegation rung and
// back, so the stored value always reflects exactly what that rung can
// represent (e.g. a dfloat<16,5> loses precision the same way float16
// does, even though no decimal encoding ever happens).
func (d DFloat) FromFloat64(v float64) DFloat {
	out := DFloat{nbits: d.nbits, es: d.es}
	out.value = out.roundToRung(v)
	return out
}

// ToFloat64 returns the delegated native value.
func (d DFloat) ToFloat64() float64 { return d.value }

func (d DFloat) roundToRung(v float64) float64 {
	switch d.nbits {
	case 16:
		return float64(float16.Fromfloat32(float32(v)).Float32())
	case 32:
		return float64(float32(v))
	default:
		return v
	}
}

// Bits returns the raw pattern of whichever native rung this shape
// delegates to (datafile element encoding).
func (d DFloat) Bits() uint64 {
	switch d.nbits {
	case 16:
		return uint64(float16.Fromfloat32(float32(d.value)))
	case 32:
		return uint64(math.Float32bits(float32(d.value)))
	default:
		return math.Float64bits(d.value)
	}
}

// FromBits reconstructs a dfloat from a native-rung bit pattern.
func (d DFloat) FromBits(pattern uint64) DFloat {
	out := DFloat{nbits: d.nbits, es: d.es}
	switch d.nbits {
	case 16:
		out.value = float64(float16.Float16(uint16(pattern)).Float32())
	case 32:
		out.value = float64(math.Float32frombits(uint32(pattern)))
	default:
		out.value = math.Float64frombits(pattern)
	}
	return out
}

// IsZero, IsNaN, IsInf mirror the delegated native float's own special
// values.
func (d DFloat) IsZero() bool { return d.value == 0 }
func (d DFloat) IsNaN() bool  { return math.IsNaN(d.value) }
func (d DFloat) IsInf() bool  { return math.IsInf(d.value, 0) }

// Classify returns this dfloat's classification.
func (d DFloat) Classify() dtype.Classification {
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

// SpecificValue constructs a dfloat from the enumerated constant set.
func (d DFloat) SpecificValue(code dtype.SpecificValue) DFloat {
	switch code {
	case dtype.Zero:
		return d.FromFloat64(0)
	case dtype.MaxPos:
		return d.FromFloat64(math.MaxFloat64)
	case dtype.MinPos:
		return d.FromFloat64(math.SmallestNonzeroFloat64)
	case dtype.MaxNeg:
		return d.FromFloat64(-math.SmallestNonzeroFloat64)
	case dtype.MinNeg:
		return d.FromFloat64(-math.MaxFloat64)
	case dtype.InfPos:
		return d.FromFloat64(math.Inf(1))
	case dtype.InfNeg:
		return d.FromFloat64(math.Inf(-1))
	case dtype.QNaN, dtype.SNaN:
		return d.FromFloat64(math.NaN())
	default:
		panic(errors.Errorf("dfloat.SpecificValue: unsupported value %s for dfloat", code))
	}
}

func (d DFloat) binOp(b DFloat, op func(x, y float64) float64) DFloat {
	out := DFloat{nbits: d.nbits, es: d.es}
	out.value = out.roundToRung(op(d.value, b.value))
	return out
}

// Add, Sub, Mul, Div, Sqrt delegate straight to the native rung, generalized
// to every rung above the narrowest.
func Add(a, b DFloat) DFloat { return a.binOp(b, func(x, y float64) float64 { return x + y }) }
func Sub(a, b DFloat) DFloat { return a.binOp(b, func(x, y float64) float64 { return x - y }) }
func Mul(a, b DFloat) DFloat { return a.binOp(b, func(x, y float64) float64 { return x * y }) }
func Div(a, b DFloat) DFloat { return a.binOp(b, func(x, y float64) float64 { return x / y }) }

func Sqrt(a DFloat) DFloat {
	out := DFloat{nbits: a.nbits, es: a.es}
	out.value = out.roundToRung(math.Sqrt(a.value))
	return out
}

// Neg flips the sign.
func Neg(a DFloat) DFloat {
	out := DFloat{nbits: a.nbits, es: a.es}
	out.value = -a.value
	return out
}

// Cmp orders two dfloat values; NaN compares Unordered.
func Cmp(a, b DFloat) dtype.Ordering {
	if a.IsNaN() || b.IsNaN() {
		return dtype.Unordered
	}
	switch {
	case a.value < b.value:
		return dtype.Less
	case a.value > b.value:
		return dtype.Greater
	default:
		return dtype.Equal
	}
}
