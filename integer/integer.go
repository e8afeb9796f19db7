// Package integer implements integer<N,kind>: a fixed-width
// value over block storage with three interpretations of the same bit
// pattern — Integer (two's-complement signed), WholeNumber (unsigned), and
// NaturalNumber (unsigned, with negative results clamped at the boundary).
// Unlike posit/cfloat/areal/bfloat16, integer's width is genuinely
// open-ended, so it operates on block.Storage directly rather than
// routing through blocktriple (add/sub/mul/div
// straight on the bit pattern).
package integer

import (
	"github.com/pkg/errors"
	"github.com/stillwater-sc/universal-sub011/block"
	"github.com/stillwater-sc/universal-sub011/dtype"
)

// Kind selects the three interpretations the same storage
// layout.
type Kind int

const (
	// Integer is two's-complement signed.
	Integer Kind = iota
	// WholeNumber is unsigned.
	WholeNumber
	// NaturalNumber is unsigned and non-negative by construction: any
	// operation that would go negative saturates at zero instead of
	// wrapping.
	NaturalNumber
)

// Int is an integer<N,kind> value.
type Int struct {
	kind    Kind
	storage block.Storage[uint64]
}

// New returns the zero-valued integer<nbits,kind>.
func New(nbits int, kind Kind) Int {
	if nbits < 1 {
		panic(errors.Errorf("integer.New: nbits must be >= 1, got %d", nbits))
	}
	return Int{kind: kind, storage: block.New[uint64](nbits)}
}

// NBits and ShapeKind report the type's shape.
func (v Int) NBits() int   { return v.storage.NBits() }
func (v Int) ShapeKind() Kind { return v.kind }

// TypeTag identifies the number system for external collaborators.
func (v Int) TypeTag() string { return "integer" }

func (v Int) signBit() bool {
	return v.kind == Integer && v.storage.GetBit(v.storage.NBits()-1)
}

// FromInt64 constructs a value from a host int64, truncating/wrapping to
// fit the shape's width.
func (v Int) FromInt64(n int64) Int {
	out := Int{kind: v.kind, storage: block.New[uint64](v.storage.NBits())}
	bits := uint64(n)
	for i := 0; i < out.storage.NBits() && i < 64; i++ {
		out.storage.SetBit(i, bits&(uint64(1)<<uint(i)) != 0)
	}
	if n < 0 {
		for i := 64; i < out.storage.NBits(); i++ {
			out.storage.SetBit(i, true)
		}
	}
	if out.kind != Integer && n < 0 {
		return out.clampNonNegative(true)
	}
	return out
}

func (v Int) clampNonNegative(wasNegative bool) Int {
	if v.kind == NaturalNumber && wasNegative {
		return New(v.storage.NBits(), v.kind)
	}
	return v
}

// ToInt64 reads out the value as a host int64 (truncating if the stored
// width exceeds 64 bits).
func (v Int) ToInt64() int64 {
	u := v.storage.ToUint64()
	n := v.storage.NBits()
	if n < 64 && v.signBit() {
		return int64(u) - (int64(1) << uint(n))
	}
	return int64(u)
}

// IsZero reports whether every bit is clear.
func (v Int) IsZero() bool { return v.storage.IsZero() }

// Classify returns this integer's classification; integer has no
// subnormal/NaN concept, so every value is Normal or ClassZero.
func (v Int) Classify() dtype.Classification {
	if v.IsZero() {
		return dtype.ClassZero
	}
	return dtype.Normal
}

// SpecificValue constructs a value from the enumerated constant set;
// integer has no Inf/NaN concept, so those map to the saturating extremes.
func (v Int) SpecificValue(code dtype.SpecificValue) Int {
	n := v.storage.NBits()
	switch code {
	case dtype.Zero:
		return New(n, v.kind)
	case dtype.MaxPos, dtype.InfPos:
		out := New(n, v.kind)
		for i := 0; i < n; i++ {
			out.storage.SetBit(i, true)
		}
		if v.kind == Integer {
			out.storage.SetBit(n-1, false)
		}
		return out
	case dtype.MinPos:
		out := New(n, v.kind)
		out.storage.SetBit(0, true)
		return out
	case dtype.MaxNeg, dtype.InfNeg, dtype.MinNeg:
		if v.kind != Integer {
			return New(n, v.kind)
		}
		out := New(n, v.kind)
		out.storage.SetBit(n-1, true)
		return out
	default:
		panic(errors.Errorf("integer.SpecificValue: unsupported value %s for integer", code))
	}
}

func sameShape(a, b Int) {
	if a.kind != b.kind || a.storage.NBits() != b.storage.NBits() {
		panic(errors.Errorf("integer: mismatched shapes"))
	}
}

// Add, Sub perform two's-complement/unsigned add and subtract, wrapping
// silently on overflow unless kind is NaturalNumber, which clamps at zero
// ("Overflow: modular (wrap)").
func Add(a, b Int) Int {
	sameShape(a, b)
	out := Int{kind: a.kind, storage: a.storage.Clone()}
	out.storage.AddWithCarry(b.storage)
	return out
}

func Sub(a, b Int) Int {
	sameShape(a, b)
	out := Int{kind: a.kind, storage: a.storage.Clone()}
	borrowed := out.storage.SubWithBorrow(b.storage)
	if a.kind == NaturalNumber && borrowed {
		return New(a.storage.NBits(), a.kind)
	}
	return out
}

// Mul performs schoolbook multiplication truncated back to N bits (the
// widening product from block.Multiply is narrowed to the operand width,
// matching two's-complement/unsigned wraparound semantics).
func Mul(a, b Int) Int {
	sameShape(a, b)
	wide := block.Multiply(a.storage, b.storage)
	out := Int{kind: a.kind, storage: block.New[uint64](a.storage.NBits())}
	for i := 0; i < a.storage.NBits(); i++ {
		out.storage.SetBit(i, wide.GetBit(i))
	}
	return out
}

// absMagnitude returns the unsigned magnitude storage and whether the
// original value was negative (Integer kind only).
func absMagnitude(v Int) (block.Storage[uint64], bool) {
	if v.kind != Integer || !v.signBit() {
		return v.storage.Clone(), false
	}
	mag := v.storage.Clone()
	mag.Not()
	one := block.FromUint64[uint64](v.storage.NBits(), 1)
	mag.AddWithCarry(one)
	return mag, true
}

// DivMod performs restoring division returning (quotient, remainder), with
// two's-complement sign handling for Integer.
func DivMod(a, b Int) (quotient, remainder Int) {
	sameShape(a, b)
	n := a.storage.NBits()
	aMag, aNeg := absMagnitude(a)
	bMag, bNeg := absMagnitude(b)
	q, r, _ := block.DivRem(aMag, bMag)

	quotient = Int{kind: a.kind, storage: block.New[uint64](n)}
	for i := 0; i < n; i++ {
		quotient.storage.SetBit(i, q.GetBit(i))
	}
	remainder = Int{kind: a.kind, storage: block.New[uint64](n)}
	for i := 0; i < n; i++ {
		remainder.storage.SetBit(i, r.GetBit(i))
	}
	if a.kind == Integer {
		if aNeg != bNeg {
			quotient = negateInt(quotient)
		}
		if aNeg {
			remainder = negateInt(remainder)
		}
	}
	return quotient, remainder
}

func negateInt(v Int) Int {
	out := Int{kind: v.kind, storage: v.storage.Clone()}
	out.storage.Not()
	one := block.FromUint64[uint64](v.storage.NBits(), 1)
	out.storage.AddWithCarry(one)
	return out
}

// Neg negates (two's complement); for WholeNumber/NaturalNumber this wraps
// (WholeNumber) or clamps to zero (NaturalNumber, since only zero's
// negation is non-negative).
func Neg(v Int) Int {
	if v.kind == NaturalNumber {
		if v.IsZero() {
			return v
		}
		return New(v.storage.NBits(), v.kind)
	}
	return negateInt(v)
}

// ShiftLeft and ShiftRight shift by k bits; a shift of k>=N zeros the value
// ("shift by >= N zeros the value").
func ShiftLeft(v Int, k int) Int {
	out := Int{kind: v.kind, storage: v.storage.Clone()}
	if k >= v.storage.NBits() {
		out.storage.Clear()
		return out
	}
	out.storage.ShiftLeft(k)
	return out
}

func ShiftRight(v Int, k int) Int {
	out := Int{kind: v.kind, storage: v.storage.Clone()}
	if k >= v.storage.NBits() {
		out.storage.Clear()
		if v.kind == Integer && v.signBit() {
			for i := 0; i < out.storage.NBits(); i++ {
				out.storage.SetBit(i, true)
			}
		}
		return out
	}
	out.storage.ShiftRight(k, v.kind == Integer)
	return out
}

// Cmp orders two values of the same shape.
func Cmp(a, b Int) dtype.Ordering {
	sameShape(a, b)
	if a.kind == Integer {
		as, bs := a.signBit(), b.signBit()
		if as != bs {
			if as {
				return dtype.Less
			}
			return dtype.Greater
		}
	}
	// Signs (when Integer) already agree at this point, or the kind is
	// unsigned: the raw two's-complement/unsigned pattern compares the
	// same way numerically as lexicographic unsigned comparison either way.
	switch block.Compare(a.storage, b.storage) {
	case -1:
		return dtype.Less
	case 1:
		return dtype.Greater
	default:
		return dtype.Equal
	}
}
