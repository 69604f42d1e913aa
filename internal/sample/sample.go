// Package sample defines the numeric domains a pixel channel can be stored in.
//
// Every domain converts to and from a normalized float64 in [0,1]. Integer
// domains scale by their maximum representable value; float domains store the
// normalized value directly. Conversion between two domains always goes
// through the normalized value, so any pair of domains interoperates without
// pairwise rules.
package sample

import (
	"fmt"
	"math"

	"github.com/x448/float16"
)

// Type is the set of Go types usable as image samples.
type Type interface {
	uint8 | uint16 | uint32 | float16.Float16 | float32 | float64
}

// Kind identifies a sample domain at runtime.
type Kind uint8

const (
	U8 Kind = iota
	U16
	U32
	F16
	F32
	F64

	kindCount
)

type kindInfo struct {
	name      string
	bits      int
	precision int
	float     bool
}

var kindTable = [kindCount]kindInfo{
	U8:  {name: "u8", bits: 8, precision: 8},
	U16: {name: "u16", bits: 16, precision: 16},
	U32: {name: "u32", bits: 32, precision: 32},
	F16: {name: "f16", bits: 16, precision: 11, float: true},
	F32: {name: "f32", bits: 32, precision: 24, float: true},
	F64: {name: "f64", bits: 64, precision: 53, float: true},
}

// Name returns the short name of the domain ("u8", "f32", ...).
func (k Kind) Name() string {
	if k >= kindCount {
		return fmt.Sprintf("kind(%d)", k)
	}
	return kindTable[k].name
}

func (k Kind) String() string { return k.Name() }

// Bits returns the storage width of one sample.
func (k Kind) Bits() int {
	if k >= kindCount {
		return 0
	}
	return kindTable[k].bits
}

// Precision returns the number of significant bits a normalized sample
// keeps: the storage width for integer domains, the significand width for
// float domains.
func (k Kind) Precision() int {
	if k >= kindCount {
		return 0
	}
	return kindTable[k].precision
}

// IsFloat reports whether the domain stores normalized values directly.
func (k Kind) IsFloat() bool {
	return k < kindCount && kindTable[k].float
}

// ParseKind looks up a domain by its short name.
func ParseKind(name string) (Kind, error) {
	for k := Kind(0); k < kindCount; k++ {
		if kindTable[k].name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown sample type: %s", name)
}

// KindOf returns the domain of T.
func KindOf[T Type]() Kind {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return U8
	case uint16:
		return U16
	case uint32:
		return U32
	case float16.Float16:
		return F16
	case float32:
		return F32
	default:
		return F64
	}
}

// NameOf returns the short name of T's domain, for error messages.
func NameOf[T Type]() string {
	return KindOf[T]().Name()
}

// ToNorm maps v onto [0,1]. Inputs are always valid domain values.
func ToNorm[T Type](v T) float64 {
	switch x := any(v).(type) {
	case uint8:
		return float64(x) / math.MaxUint8
	case uint16:
		return float64(x) / math.MaxUint16
	case uint32:
		return float64(x) / math.MaxUint32
	case float16.Float16:
		return float64(x.Float32())
	case float32:
		return float64(x)
	case float64:
		return x
	}
	panic("sample: unreachable type " + NameOf[T]())
}

// FromNorm maps a normalized value back into T's domain. The input is clamped
// to [0,1] first (NaN becomes 0); integer domains round half away from zero.
func FromNorm[T Type](f float64) T {
	f = Clamp(f)
	var out T
	switch p := any(&out).(type) {
	case *uint8:
		*p = uint8(math.Round(f * math.MaxUint8))
	case *uint16:
		*p = uint16(math.Round(f * math.MaxUint16))
	case *uint32:
		*p = uint32(math.Round(f * math.MaxUint32))
	case *float16.Float16:
		*p = float16.Fromfloat32(float32(f))
	case *float32:
		*p = float32(f)
	case *float64:
		*p = f
	}
	return out
}

// Convert re-expresses v in domain U by way of its normalized value.
func Convert[U, T Type](v T) U {
	return FromNorm[U](ToNorm(v))
}

// Clamp limits f to [0,1]. NaN maps to 0.
func Clamp(f float64) float64 {
	if f != f || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
