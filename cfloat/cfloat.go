// Package cfloat implements cfloat<N,ES,flavor>: an IEEE-754-shaped
// sign/exponent/fraction layout whose subnormal, supernormal (±∞/NaN), and
// overflow behavior is controlled by a small closed set of flavors rather
// than three independent boolean template parameters.
package cfloat

import (
	"math"

	"github.com/pkg/errors"
	"github.com/stillwater-sc/universal-sub011/blocktriple"
	"github.com/stillwater-sc/universal-sub011/dtype"
)

// Flavor is the closed trait set controlling subnormal/supernormal/overflow
// behavior.
type Flavor struct {
	HasSubnormals   bool
	HasSupernormals bool
	Saturating      bool
}

var (
	// Ieee matches standard IEEE-754 binary float behavior: subnormals,
	// ±∞/NaN, and overflow-to-infinity.
	Ieee = Flavor{HasSubnormals: true, HasSupernormals: true, Saturating: false}
	// SaturatingFlavor has no ±∞/NaN encodings at all: every overflow clamps
	// to ±maxpos, and all-ones exponent patterns decode as ordinary normal
	// values.
	SaturatingFlavor = Flavor{HasSubnormals: true, HasSupernormals: false, Saturating: true}
	// NoSubnormals keeps ±∞/NaN but flushes underflow straight to ±0.
	NoSubnormals = Flavor{HasSubnormals: false, HasSupernormals: true, Saturating: false}
)

// CFloat is a cfloat<N,ES,flavor> value, capped at 64 bits (see posit's
// doc comment for the same rationale — every configuration in scope fits a
// machine word).
type CFloat struct {
	nbits, es int
	flavor    Flavor
	bits      uint64
}

// New returns the zero-valued cfloat<nbits,es,flavor>.
func New(nbits, es int, flavor Flavor) CFloat {
	if es < 1 || nbits-es-1 < 1 {
		panic(errors.Errorf("cfloat.New: need es>=1 and at least one fraction bit, got nbits=%d es=%d", nbits, es))
	}
	return CFloat{nbits: nbits, es: es, flavor: flavor}
}

func (c CFloat) mask() uint64    { return uint64(1)<<uint(c.nbits) - 1 }
func (c CFloat) fracBits() int   { return c.nbits - c.es - 1 }
func (c CFloat) bias() int       { return 1<<uint(c.es-1) - 1 }
func (c CFloat) allOnesExp() int { return 1<<uint(c.es) - 1 }

func (c CFloat) maxNormalExp() int {
	if c.flavor.HasSupernormals {
		return c.allOnesExp() - 1
	}
	return c.allOnesExp()
}

// NBits, ES, and ShapeFlavor report the type's shape.
func (c CFloat) NBits() int        { return c.nbits }
func (c CFloat) ES() int           { return c.es }
func (c CFloat) ShapeFlavor() Flavor { return c.flavor }

// FromBits constructs a cfloat with the same shape as c from a raw pattern.
func (c CFloat) FromBits(pattern uint64) CFloat {
	return CFloat{nbits: c.nbits, es: c.es, flavor: c.flavor, bits: pattern & c.mask()}
}

// Bits returns the raw N-bit pattern.
func (c CFloat) Bits() uint64 { return c.bits }

// TypeTag identifies the number system for external collaborators.
func (c CFloat) TypeTag() string { return "cfloat" }

func (c CFloat) signBit() bool { return c.bits&(uint64(1)<<uint(c.nbits-1)) != 0 }
func (c CFloat) expField() int {
	return int((c.bits >> uint(c.fracBits())) & (uint64(1)<<uint(c.es) - 1))
}
func (c CFloat) fracField() uint64 {
	return c.bits & (uint64(1)<<uint(c.fracBits()) - 1)
}

// decode implements IEEE-754-shaped decode algorithm.
func (c CFloat) decode() (tr blocktriple.Triple) {
	sign := c.signBit()
	e := c.expField()
	f := c.fracField()
	fb := c.fracBits()

	if e == 0 {
		if c.flavor.HasSubnormals && f != 0 {
			return blocktriple.Triple{Sign: sign, Scale: 1 - c.bias(), Sig: f, FracBits: fb, Op: blocktriple.Representation}
		}
		return blocktriple.ZeroTriple(sign)
	}
	if c.flavor.HasSupernormals && e == c.allOnesExp() {
		if f == 0 {
			return blocktriple.InfTriple(sign)
		}
		return blocktriple.NaNTriple()
	}
	sig := (uint64(1) << uint(fb)) | f
	return blocktriple.Triple{Sign: sign, Scale: e - c.bias(), Sig: sig, FracBits: fb, Op: blocktriple.Representation}
}

// encode implements encode contract: round the triple's
// significand to this shape's fraction width at the GRS boundary, handling
// subnormal rounding and overflow per the flavor.
func (c CFloat) encode(tr blocktriple.Triple) CFloat {
	if tr.IsNaN {
		return c.SpecificValue(dtype.QNaN)
	}
	if tr.IsZero {
		return c.fromParts(tr.Sign, 0, 0)
	}
	if tr.IsInf {
		if c.flavor.HasSupernormals && !c.flavor.Saturating {
			return c.fromParts(tr.Sign, c.allOnesExp(), 0)
		}
		return c.fromParts(tr.Sign, c.maxNormalExp(), uint64(1)<<uint(c.fracBits())-1)
	}

	fb := c.fracBits()
	biasedExp := tr.Scale + c.bias()

	if biasedExp <= 0 {
		if !c.flavor.HasSubnormals {
			return c.fromParts(tr.Sign, 0, 0)
		}
		shift := 1 - biasedExp
		target := fb - shift
		if target < 0 {
			return c.fromParts(tr.Sign, 0, 0)
		}
		pattern, carried := tr.RoundTo(target, blocktriple.RoundNearestEven)
		if carried {
			return c.finishNormal(tr.Sign, 1, 0)
		}
		return c.fromParts(tr.Sign, 0, pattern)
	}

	pattern, carried := tr.RoundTo(fb, blocktriple.RoundNearestEven)
	if carried {
		biasedExp++
		pattern = 0
	} else {
		pattern &= uint64(1)<<uint(fb) - 1
	}
	return c.finishNormal(tr.Sign, biasedExp, pattern)
}

func (c CFloat) finishNormal(sign bool, biasedExp int, frac uint64) CFloat {
	if biasedExp > c.maxNormalExp() {
		if c.flavor.HasSupernormals && !c.flavor.Saturating {
			return c.fromParts(sign, c.allOnesExp(), 0)
		}
		return c.fromParts(sign, c.maxNormalExp(), uint64(1)<<uint(c.fracBits())-1)
	}
	return c.fromParts(sign, biasedExp, frac)
}

func (c CFloat) fromParts(sign bool, exp int, frac uint64) CFloat {
	var pattern uint64
	if sign {
		pattern |= uint64(1) << uint(c.nbits-1)
	}
	pattern |= uint64(exp&(1<<uint(c.es)-1)) << uint(c.fracBits())
	pattern |= frac & (uint64(1)<<uint(c.fracBits()) - 1)
	return CFloat{nbits: c.nbits, es: c.es, flavor: c.flavor, bits: pattern & c.mask()}
}

// IsZero reports whether the pattern (ignoring sign) is zero.
func (c CFloat) IsZero() bool { return c.expField() == 0 && c.fracField() == 0 }

// IsNaN reports the NaN encoding (only meaningful when HasSupernormals).
func (c CFloat) IsNaN() bool {
	return c.flavor.HasSupernormals && c.expField() == c.allOnesExp() && c.fracField() != 0
}

// IsInf reports the infinity encoding (only meaningful when HasSupernormals).
func (c CFloat) IsInf() bool {
	return c.flavor.HasSupernormals && c.expField() == c.allOnesExp() && c.fracField() == 0
}

// Classify returns this cfloat's classification.
func (c CFloat) Classify() dtype.Classification {
	if c.IsNaN() {
		return dtype.NaNOrNaR
	}
	if c.IsInf() {
		return dtype.Infinite
	}
	if c.IsZero() {
		return dtype.ClassZero
	}
	if c.expField() == 0 {
		return dtype.Subnormal
	}
	return dtype.Normal
}

// SpecificValue constructs a cfloat from the enumerated constant set every
// number system accepts.
func (c CFloat) SpecificValue(v dtype.SpecificValue) CFloat {
	switch v {
	case dtype.Zero:
		return c.fromParts(false, 0, 0)
	case dtype.MaxPos:
		return c.fromParts(false, c.maxNormalExp(), uint64(1)<<uint(c.fracBits())-1)
	case dtype.MinPos:
		if c.flavor.HasSubnormals {
			return c.fromParts(false, 0, 1)
		}
		return c.fromParts(false, 1, 0)
	case dtype.MaxNeg:
		return c.fromParts(true, c.maxNormalExp(), uint64(1)<<uint(c.fracBits())-1)
	case dtype.MinNeg:
		if c.flavor.HasSubnormals {
			return c.fromParts(true, 0, 1)
		}
		return c.fromParts(true, 1, 0)
	case dtype.InfPos:
		if c.flavor.HasSupernormals {
			return c.fromParts(false, c.allOnesExp(), 0)
		}
		return c.SpecificValue(dtype.MaxPos)
	case dtype.InfNeg:
		if c.flavor.HasSupernormals {
			return c.fromParts(true, c.allOnesExp(), 0)
		}
		return c.SpecificValue(dtype.MaxNeg)
	case dtype.QNaN:
		if c.flavor.HasSupernormals {
			return c.fromParts(false, c.allOnesExp(), uint64(1)<<uint(c.fracBits()-1))
		}
		return c.SpecificValue(dtype.MaxPos)
	case dtype.SNaN:
		if c.flavor.HasSupernormals {
			return c.fromParts(false, c.allOnesExp(), 1)
		}
		return c.SpecificValue(dtype.MaxPos)
	default:
		panic(errors.Errorf("cfloat.SpecificValue: unsupported value %s", v))
	}
}

// FromFloat64 converts a float64 to this cfloat's shape.
func (c CFloat) FromFloat64(v float64) CFloat {
	if v == 0 {
		return c.fromParts(math.Signbit(v), 0, 0)
	}
	if math.IsNaN(v) {
		return c.SpecificValue(dtype.QNaN)
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return c.SpecificValue(dtype.InfPos)
		}
		return c.SpecificValue(dtype.InfNeg)
	}
	tr := blocktriple.FromFloat64(v, blocktriple.WorkingFracBits)
	return c.encode(tr)
}

// ToFloat64 converts this cfloat to the nearest float64.
func (c CFloat) ToFloat64() float64 { return c.decode().ToFloat64() }

func binOp(a, b CFloat, op func(a, b blocktriple.Triple) blocktriple.Triple) CFloat {
	if a.nbits != b.nbits || a.es != b.es {
		panic(errors.Errorf("cfloat: mismatched shapes cfloat<%d,%d> vs cfloat<%d,%d>", a.nbits, a.es, b.nbits, b.es))
	}
	widen := func(t blocktriple.Triple) blocktriple.Triple {
		if d := blocktriple.WorkingFracBits - t.FracBits; d > 0 && !t.IsZero && !t.IsInf && !t.IsNaN {
			t.Sig <<= uint(d)
			t.FracBits = blocktriple.WorkingFracBits
		}
		return t
	}
	return a.encode(op(widen(a.decode()), widen(b.decode())))
}

func negate(t blocktriple.Triple) blocktriple.Triple {
	if t.IsNaN {
		return t
	}
	out := t
	out.Sign = !out.Sign
	return out
}

// Add, Sub, Mul, Div implement the four algebraic operations via the shared
// blocktriple intermediate.
func Add(a, b CFloat) CFloat { return binOp(a, b, blocktriple.Add) }
func Sub(a, b CFloat) CFloat {
	return binOp(a, b, func(x, y blocktriple.Triple) blocktriple.Triple { return blocktriple.Add(x, negate(y)) })
}
func Mul(a, b CFloat) CFloat { return binOp(a, b, blocktriple.Mul) }
func Div(a, b CFloat) CFloat { return binOp(a, b, blocktriple.Div) }

// Sqrt computes the square root; negative finite operands yield NaN.
func Sqrt(a CFloat) CFloat {
	tr := a.decode()
	if tr.Sign && !tr.IsZero {
		return a.SpecificValue(dtype.QNaN)
	}
	if d := blocktriple.WorkingFracBits - tr.FracBits; d > 0 && !tr.IsZero && !tr.IsInf && !tr.IsNaN {
		tr.Sig <<= uint(d)
		tr.FracBits = blocktriple.WorkingFracBits
	}
	return a.encode(blocktriple.Sqrt(tr))
}

// Neg flips the sign bit. A NaN's sign bit is flipped too; the result is
// still a NaN (canonical NaN sign is not meaningful).
func Neg(a CFloat) CFloat {
	return CFloat{nbits: a.nbits, es: a.es, flavor: a.flavor, bits: a.bits ^ (uint64(1) << uint(a.nbits-1))}
}

// Cmp orders two cfloats. NaN compares Unordered against everything,
// including itself; ±0 compare equal.
func Cmp(a, b CFloat) dtype.Ordering {
	if a.nbits != b.nbits || a.es != b.es {
		panic(errors.Errorf("cfloat: mismatched shapes cfloat<%d,%d> vs cfloat<%d,%d>", a.nbits, a.es, b.nbits, b.es))
	}
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
