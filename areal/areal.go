// Package areal implements areal<N,ES>: the same IEEE-754-shaped layout as
// cfloat, but the fraction's LSB is reinterpreted as an uncertainty bit
// (ubit) instead of a value bit. ubit=0 means the encoding is
// exact; ubit=1 means the true value lies strictly between this encoding
// and the next encoding away from zero on the same sign side.
package areal

import (
	"math"

	"github.com/pkg/errors"
	"github.com/stillwater-sc/universal-sub011/blocktriple"
	"github.com/stillwater-sc/universal-sub011/dtype"
)

// Areal is an areal<N,ES> value, capped at 64 bits (see posit's doc comment
// for the rationale).
type Areal struct {
	nbits, es int
	bits      uint64
}

// New returns the zero-valued areal<nbits,es>.
func New(nbits, es int) Areal {
	if es < 1 || nbits-es-1 < 1 {
		panic(errors.Errorf("areal.New: need es>=1 and at least one value fraction bit beyond the ubit, got nbits=%d es=%d", nbits, es))
	}
	return Areal{nbits: nbits, es: es}
}

func (a Areal) mask() uint64 { return uint64(1)<<uint(a.nbits) - 1 }

// valueFracBits is the fraction width available for the value, excluding
// the trailing ubit in the LSB of the fraction.
func (a Areal) valueFracBits() int { return a.nbits - a.es - 2 }
func (a Areal) bias() int          { return 1<<uint(a.es-1) - 1 }
func (a Areal) allOnesExp() int    { return 1<<uint(a.es) - 1 }

// NBits and ES report the type's shape.
func (a Areal) NBits() int { return a.nbits }
func (a Areal) ES() int    { return a.es }

// FromBits constructs an areal with the same shape as a from a raw pattern.
func (a Areal) FromBits(pattern uint64) Areal {
	return Areal{nbits: a.nbits, es: a.es, bits: pattern & a.mask()}
}

// Bits returns the raw N-bit pattern.
func (a Areal) Bits() uint64 { return a.bits }

// TypeTag identifies the number system for external collaborators.
func (a Areal) TypeTag() string { return "areal" }

func (a Areal) signBit() bool { return a.bits&(uint64(1)<<uint(a.nbits-1)) != 0 }
func (a Areal) expField() int {
	shift := a.valueFracBits() + 1
	return int((a.bits >> uint(shift)) & (uint64(1)<<uint(a.es) - 1))
}
func (a Areal) fracField() uint64 {
	return (a.bits >> 1) & (uint64(1)<<uint(a.valueFracBits()) - 1)
}

// Ubit reports the uncertainty bit: 0 means exact, 1 means the true value
// lies strictly between this encoding and the next one away from zero.
func (a Areal) Ubit() bool { return a.bits&1 != 0 }

func (a Areal) decode() blocktriple.Triple {
	sign := a.signBit()
	e := a.expField()
	f := a.fracField()
	fb := a.valueFracBits()

	if e == 0 {
		if f != 0 {
			return blocktriple.Triple{Sign: sign, Scale: 1 - a.bias(), Sig: f, FracBits: fb, Op: blocktriple.Representation, Sticky: a.Ubit()}
		}
		return blocktriple.ZeroTriple(sign)
	}
	if e == a.allOnesExp() {
		if f == 0 {
			return blocktriple.InfTriple(sign)
		}
		return blocktriple.NaNTriple()
	}
	sig := (uint64(1) << uint(fb)) | f
	return blocktriple.Triple{Sign: sign, Scale: e - a.bias(), Sig: sig, FracBits: fb, Op: blocktriple.Representation, Sticky: a.Ubit()}
}

// encode truncates a triple's magnitude into this shape, setting ubit
// whenever that discarded any information.
func (a Areal) encode(tr blocktriple.Triple) Areal {
	if tr.IsNaN {
		return a.fromParts(false, a.allOnesExp(), uint64(1)<<uint(a.valueFracBits()-1), false)
	}
	if tr.IsZero {
		return a.fromParts(tr.Sign, 0, 0, false)
	}
	if tr.IsInf {
		return a.fromParts(tr.Sign, a.allOnesExp(), 0, false)
	}

	fb := a.valueFracBits()
	biasedExp := tr.Scale + a.bias()
	guard, round, sticky := tr.GRS(fb)
	anyRounding := guard || round || sticky

	if biasedExp <= 0 {
		shift := 1 - biasedExp
		target := fb - shift
		if target < 0 {
			return a.fromParts(tr.Sign, 0, 0, true)
		}
		g, r, s := tr.GRS(target)
		pattern, carried := tr.RoundTo(target, blocktriple.RoundTruncate)
		imprecise := g || r || s
		if carried {
			return a.finishNormal(tr.Sign, 1, 0, imprecise)
		}
		return a.fromParts(tr.Sign, 0, pattern, imprecise)
	}

	pattern, carried := tr.RoundTo(fb, blocktriple.RoundTruncate)
	if carried {
		biasedExp++
		pattern = 0
	} else {
		pattern &= uint64(1)<<uint(fb) - 1
	}
	return a.finishNormal(tr.Sign, biasedExp, pattern, anyRounding)
}

func (a Areal) finishNormal(sign bool, biasedExp int, frac uint64, ubit bool) Areal {
	maxExp := a.allOnesExp() - 1
	if biasedExp > maxExp {
		return a.fromParts(sign, a.allOnesExp(), 0, false) // overflow to infinity; no ubit concept on ∞
	}
	return a.fromParts(sign, biasedExp, frac, ubit)
}

func (a Areal) fromParts(sign bool, exp int, frac uint64, ubit bool) Areal {
	var pattern uint64
	if sign {
		pattern |= uint64(1) << uint(a.nbits-1)
	}
	pattern |= uint64(exp&(1<<uint(a.es)-1)) << uint(a.valueFracBits()+1)
	pattern |= (frac & (uint64(1)<<uint(a.valueFracBits()) - 1)) << 1
	if ubit {
		pattern |= 1
	}
	return Areal{nbits: a.nbits, es: a.es, bits: pattern & a.mask()}
}

// IsZero reports whether the pattern (ignoring sign and ubit) is zero.
func (a Areal) IsZero() bool { return a.expField() == 0 && a.fracField() == 0 }

// IsNaN and IsInf mirror cfloat's supernormal encodings.
func (a Areal) IsNaN() bool { return a.expField() == a.allOnesExp() && a.fracField() != 0 }
func (a Areal) IsInf() bool { return a.expField() == a.allOnesExp() && a.fracField() == 0 }

// Classify returns this areal's classification.
func (a Areal) Classify() dtype.Classification {
	switch {
	case a.IsNaN():
		return dtype.NaNOrNaR
	case a.IsInf():
		return dtype.Infinite
	case a.IsZero():
		return dtype.ClassZero
	case a.expField() == 0:
		return dtype.Subnormal
	default:
		return dtype.Normal
	}
}

// SpecificValue constructs an areal from the enumerated constant set
//. Every constructed specific value is exact (ubit=0).
func (a Areal) SpecificValue(v dtype.SpecificValue) Areal {
	switch v {
	case dtype.Zero:
		return a.fromParts(false, 0, 0, false)
	case dtype.MaxPos:
		return a.fromParts(false, a.allOnesExp()-1, uint64(1)<<uint(a.valueFracBits())-1, false)
	case dtype.MinPos:
		return a.fromParts(false, 0, 1, false)
	case dtype.MaxNeg:
		return a.fromParts(true, a.allOnesExp()-1, uint64(1)<<uint(a.valueFracBits())-1, false)
	case dtype.MinNeg:
		return a.fromParts(true, 0, 1, false)
	case dtype.InfPos:
		return a.fromParts(false, a.allOnesExp(), 0, false)
	case dtype.InfNeg:
		return a.fromParts(true, a.allOnesExp(), 0, false)
	case dtype.QNaN:
		return a.fromParts(false, a.allOnesExp(), uint64(1)<<uint(a.valueFracBits()-1), false)
	case dtype.SNaN:
		return a.fromParts(false, a.allOnesExp(), 1, false)
	default:
		panic(errors.Errorf("areal.SpecificValue: unsupported value %s", v))
	}
}

// FromFloat64 converts a float64 to this areal's shape, setting ubit=1 if
// the value is not exactly representable.
func (a Areal) FromFloat64(v float64) Areal {
	if v == 0 {
		return a.fromParts(math.Signbit(v), 0, 0, false)
	}
	if math.IsNaN(v) {
		return a.SpecificValue(dtype.QNaN)
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return a.SpecificValue(dtype.InfPos)
		}
		return a.SpecificValue(dtype.InfNeg)
	}
	tr := blocktriple.FromFloat64(v, blocktriple.WorkingFracBits)
	return a.encode(tr)
}

// ToFloat64 converts this areal to the nearest float64 of the encoding's
// own value. The ubit is ignored: when ubit=1 the result is the end of the
// open interval nearer zero, not its midpoint.
func (a Areal) ToFloat64() float64 { return a.decode().ToFloat64() }

func binOp(a, b Areal, op func(x, y blocktriple.Triple) blocktriple.Triple) Areal {
	if a.nbits != b.nbits || a.es != b.es {
		panic(errors.Errorf("areal: mismatched shapes areal<%d,%d> vs areal<%d,%d>", a.nbits, a.es, b.nbits, b.es))
	}
	ta, tb := a.decode(), b.decode()
	result := op(ta, tb)
	// An uncertain operand forces an uncertain result even when the
	// combining operation itself happened to land exactly: any operand
	// with ubit=1 means the rounding direction is unknown.
	if (ta.Sticky || tb.Sticky) && !result.IsNaN && !result.IsInf {
		result.Sticky = true
	}
	return a.encode(result)
}

func negate(t blocktriple.Triple) blocktriple.Triple {
	if t.IsNaN {
		return t
	}
	out := t
	out.Sign = !out.Sign
	return out
}

// Add, Sub, Mul, Div implement the four algebraic operations via blocktriple.
func Add(a, b Areal) Areal { return binOp(a, b, blocktriple.Add) }
func Sub(a, b Areal) Areal {
	return binOp(a, b, func(x, y blocktriple.Triple) blocktriple.Triple { return blocktriple.Add(x, negate(y)) })
}
func Mul(a, b Areal) Areal { return binOp(a, b, blocktriple.Mul) }
func Div(a, b Areal) Areal { return binOp(a, b, blocktriple.Div) }

// Sqrt computes the square root; negative finite operands yield NaN.
func Sqrt(a Areal) Areal {
	tr := a.decode()
	if tr.Sign && !tr.IsZero {
		return a.SpecificValue(dtype.QNaN)
	}
	result := blocktriple.Sqrt(tr)
	if tr.Sticky {
		result.Sticky = true
	}
	return a.encode(result)
}

// Neg flips the sign bit, leaving ubit untouched.
func Neg(a Areal) Areal {
	return Areal{nbits: a.nbits, es: a.es, bits: a.bits ^ (uint64(1) << uint(a.nbits-1))}
}
