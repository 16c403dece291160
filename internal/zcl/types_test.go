package zcl

import (
	"bytes"
	"testing"
)

func TestDecodeFixedTypes(t *testing.T) {
	tests := []struct {
		name   string
		typeID uint8
		data   []byte
		want   any
		n      int
	}{
		{"bool true", TypeBool, []byte{0x01}, true, 1},
		{"bool false", TypeBool, []byte{0x00}, false, 1},
		{"uint8", TypeUint8, []byte{0x42}, uint8(0x42), 1},
		{"enum8", TypeEnum8, []byte{0x02}, uint8(2), 1},
		{"map8", TypeBitmap8, []byte{0x81}, uint8(0x81), 1},
		{"uint16", TypeUint16, []byte{0x34, 0x12}, uint16(0x1234), 2},
		{"map16", TypeBitmap16, []byte{0x04, 0x00}, uint16(4), 2},
		{"uint24", TypeUint24, []byte{0x56, 0x34, 0x12}, uint32(0x123456), 3},
		{"uint32", TypeUint32, []byte{0x78, 0x56, 0x34, 0x12}, uint32(0x12345678), 4},
		{"uint48", TypeUint48, []byte{1, 0, 0, 0, 0, 1}, uint64(0x010000000001), 6},
		{"int8", TypeInt8, []byte{0xFE}, int8(-2), 1},
		{"int16", TypeInt16, []byte{0x9C, 0xFF}, int16(-100), 2},
		{"int24", TypeInt24, []byte{0xFF, 0xFF, 0xFF}, int32(-1), 3},
		{"int32", TypeInt32, []byte{0x01, 0x00, 0x00, 0x80}, int32(-2147483647), 4},
	}

	for _, tt := range tests {
		got, n, err := DecodeValue(tt.typeID, tt.data)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
		}
		if n != tt.n {
			t.Errorf("%s: consumed %d, want %d", tt.name, n, tt.n)
		}
	}
}

func TestDecodeNotEnoughData(t *testing.T) {
	if _, _, err := DecodeValue(TypeUint16, []byte{0x01}); err == nil {
		t.Error("expected error for truncated uint16")
	}
}

func TestDecodeUnknownType(t *testing.T) {
	if _, _, err := DecodeValue(0x77, []byte{0x01}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestDecodeCharStr(t *testing.T) {
	val, n, err := DecodeValue(TypeCharStr, []byte{5, 'E', 'R', 'I', 'A', '!'})
	if err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("consumed %d, want 6", n)
	}
	if val.(string) != "ERIA!" {
		t.Errorf("got %q, want %q", val, "ERIA!")
	}
}

func TestDecodeCharStrInvalid(t *testing.T) {
	val, n, err := DecodeValue(TypeCharStr, []byte{0xFF})
	if err != nil {
		t.Fatal(err)
	}
	if val != nil || n != 1 {
		t.Errorf("got %v/%d, want nil/1", val, n)
	}
}

func TestDecodeOctetStr16(t *testing.T) {
	val, n, err := DecodeValue(TypeOctetStr16, []byte{0x02, 0x00, 0xAA, 0xBB})
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 || !bytes.Equal(val.([]byte), []byte{0xAA, 0xBB}) {
		t.Errorf("got %X/%d", val, n)
	}
}

func TestEncodeFixedTypes(t *testing.T) {
	tests := []struct {
		name   string
		typeID uint8
		val    any
		want   []byte
	}{
		{"bool from int64", TypeBool, int64(1), []byte{0x01}},
		{"bool false", TypeBool, false, []byte{0x00}},
		{"uint8 from int64", TypeUint8, int64(100), []byte{100}},
		{"uint8 from float64", TypeUint8, float64(7), []byte{7}},
		{"uint16", TypeUint16, int64(10000), []byte{0x10, 0x27}},
		{"enum8", TypeEnum8, uint8(2), []byte{0x02}},
		{"uint24", TypeUint24, 0x123456, []byte{0x56, 0x34, 0x12}},
		{"int16 negative", TypeInt16, -100, []byte{0x9C, 0xFF}},
		{"int24 negative", TypeInt24, -1, []byte{0xFF, 0xFF, 0xFF}},
		{"charstr", TypeCharStr, "BPU3", []byte{4, 'B', 'P', 'U', '3'}},
	}

	for _, tt := range tests {
		got, err := EncodeValue(tt.typeID, tt.val)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("%s: got %X, want %X", tt.name, got, tt.want)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, typeID := range []uint8{TypeUint8, TypeUint16, TypeUint32, TypeInt8, TypeInt16, TypeInt32, TypeEnum8, TypeBitmap16} {
		encoded, err := EncodeValue(typeID, 42)
		if err != nil {
			t.Fatalf("%s: %v", TypeName(typeID), err)
		}
		val, n, err := DecodeValue(typeID, encoded)
		if err != nil {
			t.Fatalf("%s: %v", TypeName(typeID), err)
		}
		if n != len(encoded) {
			t.Errorf("%s: consumed %d of %d", TypeName(typeID), n, len(encoded))
		}
		if got, ok := ToInt64(val); !ok || got != 42 {
			t.Errorf("%s: round trip got %v", TypeName(typeID), val)
		}
	}
}

func TestEncodeOverflow(t *testing.T) {
	tests := []struct {
		typeID uint8
		val    any
	}{
		{TypeUint8, 256},
		{TypeUint16, 65536},
		{TypeUint24, 0x1000000},
		{TypeInt8, 128},
		{TypeInt8, -129},
		{TypeInt24, 8388608},
	}
	for _, tt := range tests {
		if _, err := EncodeValue(tt.typeID, tt.val); err == nil {
			t.Errorf("%s(%v): expected overflow error", TypeName(tt.typeID), tt.val)
		}
	}
}

func TestEncodeRejectsNegativeUnsigned(t *testing.T) {
	for _, v := range []any{-1, int64(-1), float64(-1)} {
		if _, err := EncodeValue(TypeUint8, v); err == nil {
			t.Errorf("uint8(%v %T): expected error", v, v)
		}
	}
}

func TestEncodeRejectsFraction(t *testing.T) {
	if _, err := EncodeValue(TypeUint16, 1.5); err == nil {
		t.Error("expected error for fractional uint16")
	}
}

func TestEncodeWrongGoType(t *testing.T) {
	if _, err := EncodeValue(TypeUint8, "five"); err == nil {
		t.Error("expected error for string into uint8")
	}
	if _, err := EncodeValue(TypeCharStr, 5); err == nil {
		t.Error("expected error for int into string")
	}
}

func TestEncodeUnsupportedType(t *testing.T) {
	if _, err := EncodeValue(0x77, 1); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestTypeNames(t *testing.T) {
	tests := []struct {
		typeID uint8
		want   string
	}{
		{TypeBool, "bool"},
		{TypeUint8, "uint8"},
		{TypeUint16, "uint16"},
		{TypeEnum8, "enum8"},
		{TypeBitmap8, "map8"},
		{0x77, "0x77"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.typeID); got != tt.want {
			t.Errorf("TypeName(0x%02X) = %q, want %q", tt.typeID, got, tt.want)
		}
	}
}

func TestToInt64Bool(t *testing.T) {
	if v, ok := ToInt64(true); !ok || v != 1 {
		t.Errorf("ToInt64(true) = %d, %v", v, ok)
	}
	if v, ok := ToInt64(false); !ok || v != 0 {
		t.Errorf("ToInt64(false) = %d, %v", v, ok)
	}
	if _, ok := ToInt64("1"); ok {
		t.Error("ToInt64 accepted a string")
	}
}
