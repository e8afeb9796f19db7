// Package posit implements posit<N,ES>: a tapered-precision encoding with a
// variable-length unary regime field. Go has no value-level generics, so N
// and ES are ordinary struct fields rather than template parameters — see
// the fast-path aliases in fast.go for the common configurations exposed
// as distinct named constructors.
package posit

import (
	"math"

	"github.com/pkg/errors"
	"github.com/stillwater-sc/universal-sub011/blocktriple"
	"github.com/stillwater-sc/universal-sub011/dtype"
)

// Posit is a posit<N,ES> value. N is capped at 64 bits: every posit
// configuration named by the source library's fast-path specializations
// (8,2 / 16,1 / 16,2 / 32,2 / 64,3) and every configuration exercised by the
// quire and verification kit fit comfortably within a single machine word.
type Posit struct {
	nbits, es int
	bits      uint64
}

// New returns the zero-valued posit<nbits,es>.
func New(nbits, es int) Posit {
	if nbits < 2 {
		panic(errors.Errorf("posit.New: nbits must be >= 2, got %d", nbits))
	}
	if es < 0 {
		panic(errors.Errorf("posit.New: es must be >= 0, got %d", es))
	}
	if es > 0 && es+3 > nbits {
		panic(errors.Errorf("posit.New: es=%d too wide for nbits=%d (need es+3<=nbits)", es, nbits))
	}
	return Posit{nbits: nbits, es: es}
}

func (p Posit) mask() uint64 { return uint64(1)<<uint(p.nbits) - 1 }
func (p Posit) narPattern() uint64 { return uint64(1) << uint(p.nbits-1) }

// NBits and ES report the type's shape.
func (p Posit) NBits() int { return p.nbits }
func (p Posit) ES() int    { return p.es }

// FromBits constructs a posit with the same shape as p from a raw pattern.
func (p Posit) FromBits(pattern uint64) Posit {
	return Posit{nbits: p.nbits, es: p.es, bits: pattern & p.mask()}
}

// Bits returns the raw N-bit pattern.
func (p Posit) Bits() uint64 { return p.bits }

// TypeTag identifies the number system for external collaborators.
func (p Posit) TypeTag() string { return "posit" }

// FromComponents encodes a (sign, scale, significand, fraction-width) term
// directly into this posit's shape, rounding to nearest even — the
// `posit_of` half of quire's round-back contract, exposed here
// because encode's GRS rounding logic is exactly the one posit already
// implements for its own Add/Mul/Div/Sqrt.
func (p Posit) FromComponents(sign bool, scale int, sigPattern uint64, fracBits int, sticky bool) Posit {
	frac := sigPattern
	if fracBits >= 0 && fracBits < 64 {
		frac &= uint64(1)<<uint(fracBits) - 1
	}
	return p.encode(sign, scale, frac, fracBits, sticky)
}

// Decompose exposes this posit's decoded (sign, scale, significand,
// fraction-width) components, with isNaR reported separately since a quire
// accumulator needs to reject NaR terms rather than silently propagating a
// blocktriple NaN through fixed-point math. Used by the quire package to
// accumulate exact products (`quire_accumulate`).
func (p Posit) Decompose() (sign bool, scale int, sig uint64, fracBits int, isZero, isNaR bool) {
	if p.IsNaR() {
		return false, 0, 0, 0, false, true
	}
	tr, _ := p.decode()
	return tr.Sign, tr.Scale, tr.Sig, tr.FracBits, tr.IsZero, false
}

func testBit(v uint64, i int) bool {
	if i < 0 {
		return false
	}
	return v&(uint64(1)<<uint(i)) != 0
}

func extractBits(v uint64, topBitIdx, n int) uint64 {
	if n <= 0 {
		return 0
	}
	shift := topBitIdx - n + 1
	return (v >> uint(shift)) & (uint64(1)<<uint(n) - 1)
}

// decode implements decode algorithm, producing a blocktriple at
// the posit's own (variable) fraction width, and the Euclidean scale.
func (p Posit) decode() (triple blocktriple.Triple, isNaR bool) {
	pattern := p.bits & p.mask()
	if pattern == 0 {
		return blocktriple.ZeroTriple(false), false
	}
	if pattern == p.narPattern() {
		return blocktriple.Triple{}, true
	}
	sign := pattern&p.narPattern() != 0
	tc := pattern
	if sign {
		tc = (^pattern + 1) & p.mask()
	}

	bitIdx := p.nbits - 2
	first := testBit(tc, bitIdx)
	run := 0
	for bitIdx >= 0 && testBit(tc, bitIdx) == first {
		run++
		bitIdx--
	}
	if bitIdx >= 0 {
		bitIdx-- // consume the terminator bit
	}
	var k int
	if first {
		k = run - 1
	} else {
		k = -run
	}

	remaining := bitIdx + 1
	esBits := p.es
	if esBits > remaining {
		esBits = remaining
	}
	var e int
	if esBits > 0 {
		e = int(extractBits(tc, bitIdx, esBits)) << uint(p.es-esBits)
		bitIdx -= esBits
	}
	fracBits := bitIdx + 1
	if fracBits < 0 {
		fracBits = 0
	}
	var fracPattern uint64
	if fracBits > 0 {
		fracPattern = extractBits(tc, bitIdx, fracBits)
	}
	scale := k*(1<<uint(p.es)) + e
	sig := (uint64(1) << uint(fracBits)) | fracPattern
	return blocktriple.New(sign, scale, sig, fracBits), false
}

// euclidDivMod returns (q, r) such that scale == q*m + r, 0 <= r < m.
func euclidDivMod(scale, m int) (q, r int) {
	q = scale / m
	r = scale % m
	if r < 0 {
		r += m
		q--
	}
	return
}

// encode decomposes scale, emits regime/exponent/fraction bits, and rounds
// the discarded tail to nearest even — saturating toward maxpos/minpos on
// regime overflow since posit arithmetic never produces ±∞.
func (p Posit) encode(sign bool, scale int, fracPattern uint64, fracBits int, sticky bool) Posit {
	m := 1 << uint(p.es)
	k, e := scale, 0
	if p.es > 0 {
		k, e = euclidDivMod(scale, m)
	}

	var regimeBits uint64
	var regimeLen int
	if k >= 0 {
		regimeLen = k + 2
	} else {
		regimeLen = -k + 1
	}
	if regimeLen >= p.nbits {
		// No room even for the regime: saturate.
		var body uint64
		if k >= 0 {
			body = p.mask() >> 1 // all ones over nbits-1 bits
		} else {
			body = 1 // minpos
		}
		return p.fromSignBody(sign, body)
	}
	if k >= 0 {
		regimeBits = (uint64(1)<<uint(k+1) - 1) << 1 // (k+1) ones then a 0 terminator
	} else {
		regimeBits = 1 // (-k) zeros then a 1 terminator: just the trailing 1
	}

	remaining := p.nbits - 1 - regimeLen
	esAvail := p.es
	if esAvail > remaining {
		esAvail = remaining
	}
	fracAvail := remaining - esAvail

	combinedBits := p.es + fracBits
	combined := (uint64(e) << uint(fracBits)) | fracPattern

	var kept uint64
	guard, round, stickyTail := false, false, sticky
	if combinedBits > remaining {
		drop := combinedBits - remaining
		kept = combined >> uint(drop)
		guard = testBit(combined, drop-1)
		if drop >= 2 {
			round = testBit(combined, drop-2)
			lostMask := uint64(1)<<uint(drop-2) - 1
			if combined&lostMask != 0 {
				stickyTail = true
			}
		}
	} else {
		kept = combined << uint(remaining-combinedBits)
	}

	lsb := kept&1 != 0
	roundUp := guard && (round || stickyTail || lsb)

	body := (regimeBits << uint(remaining)) | kept
	if roundUp {
		body++
	}
	if body>>uint(p.nbits-1) != 0 {
		// Rounding overflowed the body width: saturate to maxpos magnitude.
		body = p.mask() >> 1
	}
	_ = esAvail
	_ = fracAvail
	return p.fromSignBody(sign, body)
}

func (p Posit) fromSignBody(sign bool, body uint64) Posit {
	posBits := body & (p.mask() >> 1)
	if !sign {
		return Posit{nbits: p.nbits, es: p.es, bits: posBits}
	}
	neg := (^posBits + 1) & p.mask()
	return Posit{nbits: p.nbits, es: p.es, bits: neg}
}

// IsZero reports whether this posit's pattern is the zero encoding.
func (p Posit) IsZero() bool { return p.bits&p.mask() == 0 }

// IsNaR reports whether this posit's pattern is the NaR (sign-bit-only)
// encoding.
func (p Posit) IsNaR() bool { return p.bits&p.mask() == p.narPattern() }

// Classify returns this posit's classification.
func (p Posit) Classify() dtype.Classification {
	if p.IsNaR() {
		return dtype.NaNOrNaR
	}
	if p.IsZero() {
		return dtype.ClassZero
	}
	return dtype.Normal
}

// SpecificValue constructs a posit from one of the small enumerated set
// every number system accepts. Posit has no ±∞ distinct from NaR,
// so InfPos/InfNeg map to MaxPos/MaxNeg.
func (p Posit) SpecificValue(v dtype.SpecificValue) Posit {
	switch v {
	case dtype.Zero:
		return Posit{nbits: p.nbits, es: p.es}
	case dtype.NaR, dtype.QNaN, dtype.SNaN:
		return Posit{nbits: p.nbits, es: p.es, bits: p.narPattern()}
	case dtype.MaxPos, dtype.InfPos:
		return p.fromSignBody(false, p.mask()>>1)
	case dtype.MinPos:
		return p.fromSignBody(false, 1)
	case dtype.MaxNeg, dtype.InfNeg:
		return p.fromSignBody(true, p.mask()>>1)
	case dtype.MinNeg:
		return p.fromSignBody(true, 1)
	default:
		panic(errors.Errorf("posit.SpecificValue: unsupported value %s", v))
	}
}

// FromFloat64 converts a float64 to this posit's shape, rounding to nearest
// even.
func (p Posit) FromFloat64(v float64) Posit {
	if v == 0 {
		return p.SpecificValue(dtype.Zero)
	}
	if math.IsNaN(v) {
		return p.SpecificValue(dtype.NaR)
	}
	if math.IsInf(v, 0) {
		if v > 0 {
			return p.SpecificValue(dtype.MaxPos)
		}
		return p.SpecificValue(dtype.MaxNeg)
	}
	tr := blocktriple.FromFloat64(v, blocktriple.WorkingFracBits)
	return p.encode(tr.Sign, tr.Scale, tr.Sig&(uint64(1)<<uint(tr.FracBits)-1), tr.FracBits, tr.Sticky)
}

// ToFloat64 converts this posit to the nearest float64.
func (p Posit) ToFloat64() float64 {
	if p.IsNaR() {
		return math.NaN()
	}
	tr, isNaR := p.decode()
	if isNaR {
		return math.NaN()
	}
	return tr.ToFloat64()
}

func binOp(a, b Posit, op func(a, b blocktriple.Triple) blocktriple.Triple) Posit {
	if a.nbits != b.nbits || a.es != b.es {
		panic(errors.Errorf("posit: mismatched shapes posit<%d,%d> vs posit<%d,%d>", a.nbits, a.es, b.nbits, b.es))
	}
	if a.IsNaR() || b.IsNaR() {
		return a.SpecificValue(dtype.NaR)
	}
	ta, _ := a.decode()
	tb, _ := b.decode()
	widen := func(t blocktriple.Triple) blocktriple.Triple {
		if d := blocktriple.WorkingFracBits - t.FracBits; d > 0 && !t.IsZero && !t.IsInf && !t.IsNaN {
			t.Sig <<= uint(d)
			t.FracBits = blocktriple.WorkingFracBits
		}
		return t
	}
	result := op(widen(ta), widen(tb))
	if result.IsNaN {
		return a.SpecificValue(dtype.NaR)
	}
	if result.IsZero {
		return a.SpecificValue(dtype.Zero)
	}
	return a.encode(result.Sign, result.Scale, result.Sig&(uint64(1)<<uint(result.FracBits)-1), result.FracBits, result.Sticky)
}

// Add, Sub, Mul, Div implement the four algebraic operations by decoding
// both operands to blocktriple, operating there, and re-encoding.
func Add(a, b Posit) Posit { return binOp(a, b, blocktriple.Add) }
func Sub(a, b Posit) Posit { return binOp(a, b, func(x, y blocktriple.Triple) blocktriple.Triple { return blocktriple.Add(x, negate(y)) }) }
func Mul(a, b Posit) Posit { return binOp(a, b, blocktriple.Mul) }

// Div divides a by b. Division by zero and 0/0 both yield NaR.
func Div(a, b Posit) Posit {
	if a.nbits != b.nbits || a.es != b.es {
		panic(errors.Errorf("posit: mismatched shapes posit<%d,%d> vs posit<%d,%d>", a.nbits, a.es, b.nbits, b.es))
	}
	if a.IsNaR() || b.IsNaR() || b.IsZero() {
		return a.SpecificValue(dtype.NaR)
	}
	return binOp(a, b, blocktriple.Div)
}

// Sqrt computes the square root; negative operands yield NaR.
func Sqrt(a Posit) Posit {
	if a.IsNaR() {
		return a
	}
	if a.IsZero() {
		return a
	}
	ta, _ := a.decode()
	if ta.Sign {
		return a.SpecificValue(dtype.NaR)
	}
	if d := blocktriple.WorkingFracBits - ta.FracBits; d > 0 {
		ta.Sig <<= uint(d)
		ta.FracBits = blocktriple.WorkingFracBits
	}
	result := blocktriple.Sqrt(ta)
	return a.encode(result.Sign, result.Scale, result.Sig&(uint64(1)<<uint(result.FracBits)-1), result.FracBits, result.Sticky)
}

func negate(t blocktriple.Triple) blocktriple.Triple {
	if t.IsNaN || t.IsZero {
		return t
	}
	out := t
	out.Sign = !out.Sign
	return out
}

// Neg negates a posit (the usual two's-complement of the pattern, with NaR
// and zero both fixed points).
func Neg(a Posit) Posit {
	if a.IsNaR() || a.IsZero() {
		return a
	}
	neg := (^a.bits + 1) & a.mask()
	return Posit{nbits: a.nbits, es: a.es, bits: neg}
}

// Cmp orders two posits by interpreting the pattern as a signed N-bit two's
// complement integer — correct on the posit projective-real line, with NaR
// as the minimum.
func Cmp(a, b Posit) dtype.Ordering {
	if a.nbits != b.nbits || a.es != b.es {
		panic(errors.Errorf("posit: mismatched shapes posit<%d,%d> vs posit<%d,%d>", a.nbits, a.es, b.nbits, b.es))
	}
	as, bs := a.signedValue(), b.signedValue()
	switch {
	case as < bs:
		return dtype.Less
	case as > bs:
		return dtype.Greater
	default:
		return dtype.Equal
	}
}

func (p Posit) signedValue() int64 {
	v := int64(p.bits & p.mask())
	if p.bits&p.narPattern() != 0 {
		v -= int64(uint64(1) << uint(p.nbits))
	}
	return v
}
