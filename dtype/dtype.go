// Package dtype enumerates the number systems implemented by this module and
// the small set of constants every one of them accepts at construction time.
package dtype

import "fmt"

// DType identifies a number-system type. It plays the same role as a type tag
// returned by each number system's TypeTag method.
type DType int32

const (
	// Invalid marks a zero-value DType.
	Invalid DType = iota
	Posit
	CFloat
	Areal
	BFloat16
	Integer
	WholeNumber
	NaturalNumber
	FixedPoint
	DFloat
	DDCascade
)

var names = map[DType]string{
	Invalid:       "invalid",
	Posit:         "posit",
	CFloat:        "cfloat",
	Areal:         "areal",
	BFloat16:      "bfloat16",
	Integer:       "integer",
	WholeNumber:   "wholenumber",
	NaturalNumber: "naturalnumber",
	FixedPoint:    "fixpnt",
	DFloat:        "dfloat",
	DDCascade:     "dd_cascade",
}

func (d DType) String() string {
	if s, ok := names[d]; ok {
		return s
	}
	return fmt.Sprintf("DType(%d)", int32(d))
}

// TypeID are the stable serialization identifiers from the datafile format
//. Native host types are included so the serializer can tag plain
// int/float slices alongside number-system values.
type TypeID uint32

const (
	TypeIDNativeInt8    TypeID = 0x0010
	TypeIDNativeInt16   TypeID = 0x0011
	TypeIDNativeInt32   TypeID = 0x0012
	TypeIDNativeInt64   TypeID = 0x0013
	TypeIDNativeFP8     TypeID = 0x0020
	TypeIDNativeFP16    TypeID = 0x0021
	TypeIDNativeFP32    TypeID = 0x0022
	TypeIDNativeFP64    TypeID = 0x0023
	TypeIDInteger       TypeID = 0x0101
	TypeIDFixpnt        TypeID = 0x0201
	TypeIDAreal         TypeID = 0x0301
	TypeIDBFloat        TypeID = 0x0302
	TypeIDCFloat        TypeID = 0x0303
	TypeIDPosit         TypeID = 0x0401
	TypeIDLNS           TypeID = 0x0501
	TypeIDDBNS          TypeID = 0x0601
	// TypeIDTerminator closes a datafile's record stream.
	TypeIDTerminator TypeID = 0
)

// SpecificValue is the small enumerated set every number system's
// constructor accepts, 
type SpecificValue int

const (
	Zero SpecificValue = iota
	MinPos
	MaxPos
	MinNeg
	MaxNeg
	InfPos
	InfNeg
	QNaN
	SNaN
	NaR
)

func (v SpecificValue) String() string {
	switch v {
	case Zero:
		return "zero"
	case MinPos:
		return "minpos"
	case MaxPos:
		return "maxpos"
	case MinNeg:
		return "minneg"
	case MaxNeg:
		return "maxneg"
	case InfPos:
		return "infpos"
	case InfNeg:
		return "infneg"
	case QNaN:
		return "qnan"
	case SNaN:
		return "snan"
	case NaR:
		return "nar"
	default:
		return fmt.Sprintf("SpecificValue(%d)", int(v))
	}
}

// Classification is the result of classifying a number-system value.
type Classification int

const (
	Normal Classification = iota
	ClassZero
	Subnormal
	Infinite
	NaNOrNaR
)

func (c Classification) String() string {
	switch c {
	case Normal:
		return "normal"
	case ClassZero:
		return "zero"
	case Subnormal:
		return "subnormal"
	case Infinite:
		return "infinite"
	case NaNOrNaR:
		return "nan"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// Ordering is the three-valued (plus unordered) comparison result shared by
// every number system's Cmp operation.
type Ordering int

const (
	Less Ordering = iota - 1
	Equal
	Greater
	Unordered
)

// Number is the generic constraint satisfied by every Go host type a number
// system can be built from or converted to.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}
