// Package ddcascade implements the expansion operations that
// back dd_cascade: error-free transformations (two_sum, two_product_fma),
// expansion merge/compress/renormalize, and the Newton-refinement
// reciprocal/quotient pair, plus the dd_cascade type itself.
//
// An expansion is an ordered slice of float64 components, non-overlapping
// and decreasing in magnitude, whose exact sum represents a value more
// precisely than any single float64 can.
package ddcascade

import "math"

// twoSum returns (s, e) such that s+e exactly equals a+b,
// using Knuth's two-sum algorithm — correct under IEEE-754 round-to-
// nearest without needing volatile temporaries in Go, since the Go
// compiler does not re-associate floating point expressions.
func twoSum(a, b float64) (s, e float64) {
	s = a + b
	bb := s - a
	e = (a - (s - bb)) + (b - bb)
	return s, e
}

// fastTwoSum is twoSum's cheaper variant, valid only when |a| >= |b|.
func fastTwoSum(a, b float64) (s, e float64) {
	s = a + b
	e = b - (s - a)
	return s, e
}

// twoProductFMA returns (p, e) such that p+e exactly equals a*b, using a
// fused multiply-add to get the exact rounding error in one extra
// operation instead of Dekker's four-multiply splitting.
func twoProductFMA(a, b float64) (p, e float64) {
	p = a * b
	e = math.FMA(a, b, -p)
	return p, e
}

// linearExpansionSum merges two non-overlapping, magnitude-sorted
// expansions E and F into one of the same kind, preserving sortedness and
// non-overlap in time linear in |E|+|F|: components are merged
// by decreasing magnitude and folded through a running two-sum, the
// classic "distillation" pass (Shewchuk, "Adaptive Precision Floating-
// Point Arithmetic").
func linearExpansionSum(e, f []float64) []float64 {
	merged := make([]float64, 0, len(e)+len(f))
	i, j := 0, 0
	for i < len(e) || j < len(f) {
		switch {
		case j >= len(f) || (i < len(e) && math.Abs(e[i]) >= math.Abs(f[j])):
			merged = append(merged, e[i])
			i++
		default:
			merged = append(merged, f[j])
			j++
		}
	}
	return distill(merged)
}

// distill takes a magnitude-sorted (but possibly overlapping) sequence of
// components and folds it into a non-overlapping expansion via running
// two-sum, dropping exact zeros.
func distill(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return nil
	}
	out := make([]float64, 0, len(sorted))
	acc := sorted[0]
	for k := 1; k < len(sorted); k++ {
		s, e := twoSum(acc, sorted[k])
		if e != 0 {
			out = append(out, e)
		}
		acc = s
	}
	out = append(out, acc)
	// distill accumulates the running sum last; restore decreasing-
	// magnitude order expected of an expansion.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return renormalize(out)
}

// multiplyCascades produces the 2*|E|*|F| expansion of every pairwise
// two-product (and its rounding error) between E and F's components;
// callers renormalize/compress the result themselves, the same way
// dd_cascade's Mul does.
func multiplyCascades(e, f []float64) []float64 {
	out := make([]float64, 0, 2*len(e)*len(f))
	for _, ei := range e {
		for _, fj := range f {
			p, err := twoProductFMA(ei, fj)
			out = append(out, p, err)
		}
	}
	return out
}

// renormalize re-sorts and merges an expansion's components so each
// successive one is at least one ulp smaller than the last, in the style
// of Shewchuk's fast-expansion-sum: a single accumulation pass using
// fastTwoSum on magnitude-sorted input.
func renormalize(components []float64) []float64 {
	sorted := make([]float64, 0, len(components))
	for _, c := range components {
		if c != 0 {
			sorted = append(sorted, c)
		}
	}
	if len(sorted) == 0 {
		return []float64{0}
	}
	sortByDecreasingMagnitude(sorted)

	out := make([]float64, 0, len(sorted))
	acc := sorted[0]
	for k := 1; k < len(sorted); k++ {
		s, e := fastTwoSum(acc, sorted[k])
		if e != 0 {
			out = append(out, e)
		}
		acc = s
	}
	out = append(out, acc)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func sortByDecreasingMagnitude(s []float64) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		av := math.Abs(v)
		j := i - 1
		for j >= 0 && math.Abs(s[j]) < av {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}

// compressToK reduces an expansion to its k leading non-overlapping
// components by renormalizing and truncating; dropped tail
// components represent precision below the k-component target, not an
// error condition.
func compressToK(e []float64, k int) []float64 {
	r := renormalize(e)
	if len(r) <= k {
		return r
	}
	return r[:k]
}

// reciprocal computes 1/E via one Newton refinement step starting from
// 1/E[0], doubling the working precision ("one iteration
// doubles precision"). E is treated as a double-double-like 2-component
// expansion; components beyond the first two are ignored.
func reciprocal(e []float64) []float64 {
	hi, lo := components2(e)
	x0 := 1 / hi
	// Newton step for f(x) = 1/x - v: x1 = x0*(2 - v*x0), evaluated in
	// double-double arithmetic on (hi,lo) to realize the precision gain.
	vx0Hi, vx0Lo := mul2(hi, lo, x0, 0)
	twoMinus := linearExpansionSum([]float64{2}, negate([]float64{vx0Hi, vx0Lo}))
	x1Hi, x1Lo := mul2(twoMinus[0], tailOr0(twoMinus), x0, 0)
	return compressToK([]float64{x1Hi, x1Lo}, 2)
}

// quotient computes E/F as E * reciprocal(F), followed by one
// post-renormalize.
func quotient(e, f []float64) []float64 {
	r := reciprocal(f)
	prod := multiplyCascades(e, r)
	return compressToK(prod, 2)
}

func components2(e []float64) (hi, lo float64) {
	switch len(e) {
	case 0:
		return 0, 0
	case 1:
		return e[0], 0
	default:
		return e[0], e[1]
	}
}

func tailOr0(e []float64) float64 {
	if len(e) < 2 {
		return 0
	}
	return e[1]
}

func negate(e []float64) []float64 {
	out := make([]float64, len(e))
	for i, v := range e {
		out[i] = -v
	}
	return out
}

// mul2 multiplies two double-double values (ahi,alo)*(bhi,blo), returning
// a compressed double-double result — the core primitive Mul/reciprocal
// build on.
func mul2(ahi, alo, bhi, blo float64) (hi, lo float64) {
	p, e := twoProductFMA(ahi, bhi)
	e += ahi*blo + alo*bhi
	s, e2 := fastTwoSum(p, e)
	return s, e2
}
