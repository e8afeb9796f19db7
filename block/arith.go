package block

import "math/bits"

// Multiply returns the full double-width product of a and b (nbits =
// a.NBits()+b.NBits()), computed schoolbook-style limb by limb with explicit
// carry propagation.
func Multiply[T Limb](a, b Storage[T]) Storage[T] {
	out := New[T](a.nbits + b.nbits)
	lb := limbBits[T]()
	for i, av := range a.words {
		var carry uint64
		for j, bv := range b.words {
			if i+j >= len(out.words) {
				break
			}
			hi, lo := bits.Mul64(uint64(av), uint64(bv))
			sum, c1 := bits.Add64(lo, uint64(out.words[i+j]), 0)
			sum, c2 := bits.Add64(sum, carry, 0)
			out.words[i+j] = T(sum)
			if lb < 64 {
				carry = sum >> uint(lb)
			} else {
				carry = hi + c1 + c2
			}
		}
		k := i + len(b.words)
		for carry != 0 && k < len(out.words) {
			sum, c := bits.Add64(uint64(out.words[k]), carry, 0)
			out.words[k] = T(sum)
			if lb < 64 {
				carry = sum >> uint(lb)
			} else {
				carry = c
			}
			k++
		}
	}
	out.maskTopWord()
	return out
}

// DivRem performs restoring long division of num by den, both interpreted as
// unsigned magnitudes over their own bit widths. It returns a quotient sized
// to hold num.NBits() bits and the remainder sized to den.NBits() bits, plus
// whether the division is exact (remainder is zero) — callers use that for
// the sticky bit required by the GRS rounding contract.
//
// The working remainder register carries one guard bit above den's own
// width. Without it, a remainder that climbs to den's full capacity loses
// its top bit on the next ShiftLeft (silently masked off at den.nbits),
// corrupting every quotient bit still to be produced — restoring division
// compares and subtracts a just-shifted-in remainder against den every
// step, and that remainder legitimately reaches 2*den-1 before the
// subtraction brings it back under den.
func DivRem[T Limb](num, den Storage[T]) (quotient, remainder Storage[T], exact bool) {
	quotient = New[T](num.nbits)
	workWidth := den.nbits + 1
	work := New[T](workWidth)
	denWork := New[T](workWidth)
	for i := 0; i < den.nbits; i++ {
		denWork.SetBit(i, den.GetBit(i))
	}
	for i := num.nbits - 1; i >= 0; i-- {
		work.ShiftLeft(1)
		work.SetBit(0, num.GetBit(i))
		if Compare(work, denWork) >= 0 {
			work.SubWithBorrow(denWork)
			quotient.SetBit(i, true)
		}
	}
	remainder = New[T](den.nbits)
	for i := 0; i < den.nbits; i++ {
		remainder.SetBit(i, work.GetBit(i))
	}
	return quotient, remainder, remainder.IsZero()
}

// SqrtBits computes the integer square root of s (floor(sqrt(value))) using
// the classic "digit by digit" binary algorithm, plus whether the result is
// exact. It widens through uint64, so s.NBits() must be <= 64 — blocktriple
// keeps its SQRT operand within that range; op_tag widths never exceed
// double precision significands for the number systems in scope.
func SqrtBits[T Limb](s Storage[T]) (root Storage[T], exact bool) {
	x := s.ToUint64()
	var res, bit uint64 = 0, 1 << 62
	for bit > x {
		bit >>= 2
	}
	for bit != 0 {
		if x >= res+bit {
			x -= res + bit
			res = res/2 + bit
		} else {
			res /= 2
		}
		bit >>= 2
	}
	return FromUint64[T](s.nbits, res), x == 0
}
