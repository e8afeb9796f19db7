// Package bfloat16 implements the fixed nbits=16, es=8 number system whose
// layout matches the high 16 bits of an IEEE-754 float32:
// conversion to and from float32 is a direct copy of that high half, not a
// general cfloat decode/encode pass.
package bfloat16

import (
	"math"

	"github.com/stillwater-sc/universal-sub011/dtype"
)

// BFloat16 is a bfloat16 value: sign | 8 exponent bits | 7 fraction bits,
// identical in layout and bias to float32's own fields.
type BFloat16 struct {
	bits uint16
}

// FromBits constructs a bfloat16 directly from its raw 16-bit pattern.
func FromBits(pattern uint16) BFloat16 { return BFloat16{bits: pattern} }

// Bits returns the raw 16-bit pattern.
func (b BFloat16) Bits() uint16 { return b.bits }

// TypeTag identifies the number system for external collaborators.
func (BFloat16) TypeTag() string { return "bfloat16" }

// FromFloat32 truncates v's top 16 bits directly — no rounding, matching
// the source library's "direct byte copy of the high half" contract.
func FromFloat32(v float32) BFloat16 {
	return BFloat16{bits: uint16(math.Float32bits(v) >> 16)}
}

// FromFloat32RoundNearestEven truncates with round-to-nearest-even instead
// of bare truncation — offered alongside FromFloat32 since most real
// bfloat16 producers (ML frameworks) round rather than truncate, even
// though the number system's own conversion contract is a byte copy.
func FromFloat32RoundNearestEven(v float32) BFloat16 {
	bits := math.Float32bits(v)
	if math.IsNaN(float64(v)) {
		return BFloat16{bits: uint16(bits>>16) | 0x0040} // force a quiet NaN
	}
	const roundBit = uint32(1) << 15
	lsb := (bits >> 16) & 1
	rounded := bits + roundBit - 1 + lsb
	return BFloat16{bits: uint16(rounded >> 16)}
}

// FromFloat64 round-trips through float32 round-to-nearest-even.
func FromFloat64(v float64) BFloat16 { return FromFloat32RoundNearestEven(float32(v)) }

// ToFloat32 reconstructs a float32 by placing the pattern in the high half
// and zero-filling the low 16 (the inverse direct byte copy).
func (b BFloat16) ToFloat32() float32 {
	return math.Float32frombits(uint32(b.bits) << 16)
}

// ToFloat64 widens ToFloat32 exactly (every bfloat16-representable value is
// exactly representable in float64).
func (b BFloat16) ToFloat64() float64 { return float64(b.ToFloat32()) }

func (b BFloat16) expField() uint16  { return (b.bits >> 7) & 0xFF }
func (b BFloat16) fracField() uint16 { return b.bits & 0x7F }

// IsZero, IsNaN, IsInf mirror float32's own special-value encodings.
func (b BFloat16) IsZero() bool { return b.expField() == 0 && b.fracField() == 0 }
func (b BFloat16) IsNaN() bool  { return b.expField() == 0xFF && b.fracField() != 0 }
func (b BFloat16) IsInf() bool  { return b.expField() == 0xFF && b.fracField() == 0 }

// Classify returns this bfloat16's classification.
func (b BFloat16) Classify() dtype.Classification {
	switch {
	case b.IsNaN():
		return dtype.NaNOrNaR
	case b.IsInf():
		return dtype.Infinite
	case b.IsZero():
		return dtype.ClassZero
	case b.expField() == 0:
		return dtype.Subnormal
	default:
		return dtype.Normal
	}
}

// SpecificValue constructs a bfloat16 from the enumerated constant set
//, reusing float32's own bit patterns for the magnitudes.
func SpecificValue(v dtype.SpecificValue) BFloat16 {
	switch v {
	case dtype.Zero:
		return FromBits(0)
	case dtype.MaxPos:
		return FromBits(0x7F7F)
	case dtype.MinPos:
		return FromBits(0x0001)
	case dtype.MaxNeg:
		return FromBits(0xFF7F)
	case dtype.MinNeg:
		return FromBits(0x8001)
	case dtype.InfPos:
		return FromBits(0x7F80)
	case dtype.InfNeg:
		return FromBits(0xFF80)
	case dtype.QNaN:
		return FromBits(0x7FC0)
	case dtype.SNaN:
		return FromBits(0x7F81)
	default:
		panic("bfloat16.SpecificValue: unsupported value")
	}
}

// Add, Sub, Mul, Div, Sqrt perform the operation in float32 (bfloat16's
// working arithmetic precision, matching its IEEE-754-compatible layout)
// and round back to nearest even.
func Add(a, b BFloat16) BFloat16 { return FromFloat32RoundNearestEven(a.ToFloat32() + b.ToFloat32()) }
func Sub(a, b BFloat16) BFloat16 { return FromFloat32RoundNearestEven(a.ToFloat32() - b.ToFloat32()) }
func Mul(a, b BFloat16) BFloat16 { return FromFloat32RoundNearestEven(a.ToFloat32() * b.ToFloat32()) }
func Div(a, b BFloat16) BFloat16 { return FromFloat32RoundNearestEven(a.ToFloat32() / b.ToFloat32()) }
func Sqrt(a BFloat16) BFloat16 {
	return FromFloat32RoundNearestEven(float32(math.Sqrt(float64(a.ToFloat32()))))
}

// Neg flips the sign bit.
func Neg(a BFloat16) BFloat16 { return BFloat16{bits: a.bits ^ 0x8000} }

// Cmp orders two bfloat16 values; NaN compares Unordered.
func Cmp(a, b BFloat16) dtype.Ordering {
	if a.IsNaN() || b.IsNaN() {
		return dtype.Unordered
	}
	av, bv := a.ToFloat32(), b.ToFloat32()
	switch {
	case av < bv:
		return dtype.Less
	case av > bv:
		return dtype.Greater
	default:
		return dtype.Equal
	}
}
