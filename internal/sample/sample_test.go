package sample

import (
	"math"
	"testing"

	"github.com/x448/float16"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		got  Kind
		want Kind
	}{
		{"uint8", KindOf[uint8](), U8},
		{"uint16", KindOf[uint16](), U16},
		{"uint32", KindOf[uint32](), U32},
		{"float16", KindOf[float16.Float16](), F16},
		{"float32", KindOf[float32](), F32},
		{"float64", KindOf[float64](), F64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("KindOf: got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for k := Kind(0); k < kindCount; k++ {
		got, err := ParseKind(k.Name())
		if err != nil {
			t.Fatalf("ParseKind(%q) failed: %v", k.Name(), err)
		}
		if got != k {
			t.Errorf("ParseKind(%q): got %v, want %v", k.Name(), got, k)
		}
	}

	if _, err := ParseKind("i8"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestKindProperties(t *testing.T) {
	if U8.Bits() != 8 || F64.Bits() != 64 {
		t.Errorf("Bits: got u8=%d f64=%d", U8.Bits(), F64.Bits())
	}
	if U16.IsFloat() || !F16.IsFloat() {
		t.Error("IsFloat reports wrong domain class")
	}

	precision := map[Kind]int{U8: 8, U16: 16, U32: 32, F16: 11, F32: 24, F64: 53}
	for k, want := range precision {
		if got := k.Precision(); got != want {
			t.Errorf("%s.Precision(): got %d, want %d", k, got, want)
		}
	}
	if kindCount.Precision() != 0 {
		t.Error("unknown kind should have no precision")
	}
}

func TestToNorm_IntegerDomains(t *testing.T) {
	if got := ToNorm(uint8(255)); got != 1 {
		t.Errorf("ToNorm(uint8 255): got %v, want 1", got)
	}
	if got := ToNorm(uint16(0)); got != 0 {
		t.Errorf("ToNorm(uint16 0): got %v, want 0", got)
	}
	if got := ToNorm(uint32(math.MaxUint32)); got != 1 {
		t.Errorf("ToNorm(uint32 max): got %v, want 1", got)
	}
}

func TestFromNorm_Saturates(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want uint8
	}{
		{"below zero", -0.5, 0},
		{"above one", 3, 255},
		{"nan", math.NaN(), 0},
		{"half rounds away from zero", 0.5, 128},
		{"one", 1, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromNorm[uint8](tt.in); got != tt.want {
				t.Errorf("FromNorm(%v): got %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundTrip_Uint8(t *testing.T) {
	for v := 0; v <= math.MaxUint8; v++ {
		if got := FromNorm[uint8](ToNorm(uint8(v))); got != uint8(v) {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

func TestRoundTrip_Uint16(t *testing.T) {
	for v := 0; v <= math.MaxUint16; v += 7 {
		if got := FromNorm[uint16](ToNorm(uint16(v))); got != uint16(v) {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

func TestRoundTrip_Uint32(t *testing.T) {
	values := []uint32{0, 1, 2, 1 << 16, 1<<31 - 1, 1 << 31, math.MaxUint32 - 1, math.MaxUint32}
	for _, v := range values {
		if got := FromNorm[uint32](ToNorm(v)); got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}
}

func TestRoundTrip_Floats(t *testing.T) {
	values := []float64{0, 0.125, 0.333, 0.5, 0.9999, 1}
	for _, v := range values {
		f32 := float32(v)
		if got := FromNorm[float32](ToNorm(f32)); got != f32 {
			t.Errorf("float32 round trip %v: got %v", f32, got)
		}
		if got := FromNorm[float64](ToNorm(v)); got != v {
			t.Errorf("float64 round trip %v: got %v", v, got)
		}
		h := float16.Fromfloat32(float32(v))
		if got := FromNorm[float16.Float16](ToNorm(h)); got != h {
			t.Errorf("float16 round trip %v: got %v", h, got)
		}
	}
}

func TestConvert(t *testing.T) {
	if got := Convert[uint16](uint8(255)); got != math.MaxUint16 {
		t.Errorf("u8->u16 max: got %d", got)
	}
	if got := Convert[uint8](uint16(0x8080)); got != 0x80 {
		t.Errorf("u16->u8: got %#x, want 0x80", got)
	}
	if got := Convert[float32](uint8(51)); math.Abs(float64(got)-0.2) > 1e-6 {
		t.Errorf("u8->f32: got %v, want 0.2", got)
	}
	if got := Convert[uint8](float64(2)); got != 255 {
		t.Errorf("f64 out of range should saturate: got %d", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1) != 0 || Clamp(2) != 1 || Clamp(0.25) != 0.25 || Clamp(math.NaN()) != 0 {
		t.Error("Clamp returned unexpected values")
	}
}
