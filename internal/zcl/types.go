package zcl

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ZCL data type IDs
const (
	TypeNoData     uint8 = 0x00
	TypeBool       uint8 = 0x10
	TypeBitmap8    uint8 = 0x18
	TypeBitmap16   uint8 = 0x19
	TypeBitmap24   uint8 = 0x1A
	TypeBitmap32   uint8 = 0x1B
	TypeUint8      uint8 = 0x20
	TypeUint16     uint8 = 0x21
	TypeUint24     uint8 = 0x22
	TypeUint32     uint8 = 0x23
	TypeUint40     uint8 = 0x24
	TypeUint48     uint8 = 0x25
	TypeInt8       uint8 = 0x28
	TypeInt16      uint8 = 0x29
	TypeInt24      uint8 = 0x2A
	TypeInt32      uint8 = 0x2B
	TypeEnum8      uint8 = 0x30
	TypeEnum16     uint8 = 0x31
	TypeFloat32    uint8 = 0x39
	TypeOctetStr   uint8 = 0x41
	TypeCharStr    uint8 = 0x42
	TypeOctetStr16 uint8 = 0x43
	TypeCharStr16  uint8 = 0x44
	TypeUTC        uint8 = 0xE2
	TypeClusterID  uint8 = 0xE8
	TypeAttrID     uint8 = 0xE9
	TypeEUI64      uint8 = 0xF0
)

// Sizes of variable-length types, as returned by TypeSize.
const (
	SizeVariable   = -1 // 1-byte length prefix
	SizeVariable16 = -3 // 2-byte length prefix
	SizeUnknown    = -2
)

type typeInfo struct {
	name string
	size int
}

var typeTable = map[uint8]typeInfo{
	TypeNoData:     {"nodata", 0},
	TypeBool:       {"bool", 1},
	TypeBitmap8:    {"map8", 1},
	TypeBitmap16:   {"map16", 2},
	TypeBitmap24:   {"map24", 3},
	TypeBitmap32:   {"map32", 4},
	TypeUint8:      {"uint8", 1},
	TypeUint16:     {"uint16", 2},
	TypeUint24:     {"uint24", 3},
	TypeUint32:     {"uint32", 4},
	TypeUint40:     {"uint40", 5},
	TypeUint48:     {"uint48", 6},
	TypeInt8:       {"int8", 1},
	TypeInt16:      {"int16", 2},
	TypeInt24:      {"int24", 3},
	TypeInt32:      {"int32", 4},
	TypeEnum8:      {"enum8", 1},
	TypeEnum16:     {"enum16", 2},
	TypeFloat32:    {"float32", 4},
	TypeOctetStr:   {"octstr", SizeVariable},
	TypeCharStr:    {"string", SizeVariable},
	TypeOctetStr16: {"octstr16", SizeVariable16},
	TypeCharStr16:  {"string16", SizeVariable16},
	TypeUTC:        {"UTC", 4},
	TypeClusterID:  {"clusterId", 2},
	TypeAttrID:     {"attrId", 2},
	TypeEUI64:      {"EUI64", 8},
}

// TypeSize returns the fixed size in bytes of a ZCL type, SizeVariable or
// SizeVariable16 for length-prefixed types, or SizeUnknown.
func TypeSize(typeID uint8) int {
	if info, ok := typeTable[typeID]; ok {
		return info.size
	}
	return SizeUnknown
}

// TypeName returns a human-readable name for a ZCL type.
func TypeName(typeID uint8) string {
	if info, ok := typeTable[typeID]; ok {
		return info.name
	}
	return fmt.Sprintf("0x%02X", typeID)
}

// IsUnsigned reports whether the type carries an unsigned integer
// (including enumerations and bitmaps).
func IsUnsigned(typeID uint8) bool {
	switch typeID {
	case TypeUint8, TypeUint16, TypeUint24, TypeUint32, TypeUint40, TypeUint48,
		TypeEnum8, TypeEnum16, TypeBitmap8, TypeBitmap16, TypeBitmap24, TypeBitmap32,
		TypeUTC, TypeClusterID, TypeAttrID:
		return true
	}
	return false
}

func readUintLE(data []byte, size int) uint64 {
	var v uint64
	for i := size - 1; i >= 0; i-- {
		v = v<<8 | uint64(data[i])
	}
	return v
}

func putUintLE(v uint64, size int) []byte {
	buf := make([]byte, size)
	for i := 0; i < size; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	return buf
}

// DecodeValue decodes a ZCL typed value from raw bytes, returning the Go value and bytes consumed.
// Unsigned types of one byte decode to uint8, two bytes to uint16, three and
// four bytes to uint32 and wider ones to uint64.
func DecodeValue(typeID uint8, data []byte) (any, int, error) {
	size := TypeSize(typeID)
	switch size {
	case 0:
		return nil, 0, nil
	case SizeUnknown:
		return nil, 0, fmt.Errorf("zcl: unsupported type 0x%02X", typeID)
	case SizeVariable, SizeVariable16:
		return decodeVariableValue(typeID, data)
	}

	if len(data) < size {
		return nil, 0, fmt.Errorf("zcl: not enough data for type 0x%02X: need %d, have %d", typeID, size, len(data))
	}

	switch {
	case typeID == TypeBool:
		return data[0] != 0, 1, nil
	case typeID == TypeEUI64:
		var addr [8]byte
		copy(addr[:], data[:8])
		return addr, 8, nil
	case typeID == TypeFloat32:
		return math.Float32frombits(binary.LittleEndian.Uint32(data[:4])), 4, nil
	case IsUnsigned(typeID):
		v := readUintLE(data, size)
		switch size {
		case 1:
			return uint8(v), 1, nil
		case 2:
			return uint16(v), 2, nil
		case 3, 4:
			return uint32(v), size, nil
		default:
			return v, size, nil
		}
	}

	// Signed integers: sign extend from the wire width.
	v := readUintLE(data, size)
	shift := 64 - 8*uint(size)
	s := int64(v<<shift) >> shift
	switch typeID {
	case TypeInt8:
		return int8(s), 1, nil
	case TypeInt16:
		return int16(s), 2, nil
	default:
		return int32(s), size, nil
	}
}

func decodeVariableValue(typeID uint8, data []byte) (any, int, error) {
	prefix := 1
	if TypeSize(typeID) == SizeVariable16 {
		prefix = 2
	}
	if len(data) < prefix {
		return nil, 0, fmt.Errorf("zcl: no length prefix for type 0x%02X", typeID)
	}
	length := int(readUintLE(data, prefix))
	if (prefix == 1 && length == 0xFF) || (prefix == 2 && length == 0xFFFF) {
		return nil, prefix, nil // invalid value marker
	}
	if len(data) < prefix+length {
		return nil, 0, fmt.Errorf("zcl: %s truncated: need %d, have %d", TypeName(typeID), length, len(data)-prefix)
	}
	body := data[prefix : prefix+length]
	if typeID == TypeCharStr || typeID == TypeCharStr16 {
		return string(body), prefix + length, nil
	}
	b := make([]byte, length)
	copy(b, body)
	return b, prefix + length, nil
}

// EncodeValue encodes a Go value into ZCL wire format.
func EncodeValue(typeID uint8, val any) ([]byte, error) {
	size := TypeSize(typeID)

	switch {
	case typeID == TypeBool:
		v, ok := toBool(val)
		if !ok {
			return nil, fmt.Errorf("zcl: cannot convert %T to bool", val)
		}
		if v {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case typeID == TypeFloat32:
		v, ok := toFloat64(val)
		if !ok {
			return nil, fmt.Errorf("zcl: cannot convert %T to float32", val)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
		return buf, nil

	case typeID == TypeEUI64:
		switch a := val.(type) {
		case [8]byte:
			return append([]byte(nil), a[:]...), nil
		case []byte:
			if len(a) != 8 {
				return nil, fmt.Errorf("zcl: EUI64 requires 8 bytes, got %d", len(a))
			}
			return append([]byte(nil), a...), nil
		default:
			return nil, fmt.Errorf("zcl: cannot convert %T to EUI64", val)
		}

	case IsUnsigned(typeID):
		v, ok := toUint64(val)
		if !ok {
			return nil, fmt.Errorf("zcl: cannot convert %v (%T) to %s", val, val, TypeName(typeID))
		}
		max := uint64(1)<<(8*uint(size)) - 1
		if v > max {
			return nil, fmt.Errorf("zcl: value %d overflows %s (max %d)", v, TypeName(typeID), max)
		}
		return putUintLE(v, size), nil

	case typeID == TypeInt8 || typeID == TypeInt16 || typeID == TypeInt24 || typeID == TypeInt32:
		v, ok := toInt64(val)
		if !ok {
			return nil, fmt.Errorf("zcl: cannot convert %v (%T) to %s", val, val, TypeName(typeID))
		}
		limit := int64(1) << (8*uint(size) - 1)
		if v < -limit || v > limit-1 {
			return nil, fmt.Errorf("zcl: value %d overflows %s (range %d..%d)", v, TypeName(typeID), -limit, limit-1)
		}
		return putUintLE(uint64(v), size), nil

	case size == SizeVariable || size == SizeVariable16:
		return encodeVariableValue(typeID, val)
	}

	return nil, fmt.Errorf("zcl: encode not implemented for type 0x%02X", typeID)
}

func encodeVariableValue(typeID uint8, val any) ([]byte, error) {
	var body []byte
	switch typeID {
	case TypeCharStr, TypeCharStr16:
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("zcl: cannot convert %T to string", val)
		}
		body = []byte(s)
	default:
		b, ok := val.([]byte)
		if !ok {
			return nil, fmt.Errorf("zcl: cannot convert %T to []byte", val)
		}
		body = b
	}

	prefix, max := 1, 254
	if TypeSize(typeID) == SizeVariable16 {
		prefix, max = 2, 65534
	}
	if len(body) > max {
		return nil, fmt.Errorf("zcl: data too long for %s: %d (max %d)", TypeName(typeID), len(body), max)
	}
	return append(putUintLE(uint64(len(body)), prefix), body...), nil
}

func toBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case float64:
		return val != 0, true
	}
	if n, ok := toInt64(v); ok {
		return n != 0, true
	}
	return false, false
}

func toUint64(v any) (uint64, bool) {
	switch val := v.(type) {
	case uint8:
		return uint64(val), true
	case uint16:
		return uint64(val), true
	case uint32:
		return uint64(val), true
	case uint64:
		return val, true
	case uint:
		return uint64(val), true
	case float64:
		if val < 0 || val != math.Trunc(val) {
			return 0, false
		}
		return uint64(val), true
	}
	n, ok := toInt64(v)
	if !ok || n < 0 {
		return 0, false
	}
	return uint64(n), true
}

func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	}
	if n, ok := toInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case int:
		return int64(val), true
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case float64:
		if val > math.MaxInt64 || val < math.MinInt64 || val != math.Trunc(val) {
			return 0, false
		}
		return int64(val), true
	}
	return 0, false
}

// ToInt64 converts any Go integer (or integral float64) to int64. Booleans map to 0 and 1.
func ToInt64(v any) (int64, bool) {
	if b, ok := v.(bool); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	return toInt64(v)
}
