package posit

// Common posit configurations are exposed as distinct named fast-path
// constructors rather than compile-time template specializations (Go has
// no value-level generics to specialize against). Each returns a
// zero-valued posit of a widely used shape.
func Posit8_0() Posit  { return New(8, 0) }
func Posit8_2() Posit  { return New(8, 2) }
func Posit16_1() Posit { return New(16, 1) }
func Posit16_2() Posit { return New(16, 2) }
func Posit32_2() Posit { return New(32, 2) }
func Posit64_3() Posit { return New(64, 3) }
