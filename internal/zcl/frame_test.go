package zcl

import (
	"bytes"
	"testing"
)

func TestHeaderManufacturerSpecific(t *testing.T) {
	h := Header{
		FrameType:              FrameTypeGlobal,
		ManufacturerCode:       0x122D,
		DisableDefaultResponse: true,
		Sequence:               7,
		CommandID:              FoundationWriteAttributes,
	}
	want := []byte{0x14, 0x2D, 0x12, 0x07, 0x02}
	got := h.Encode()
	if !bytes.Equal(got, want) {
		t.Fatalf("Encode = %X, want %X", got, want)
	}

	parsed, rest, err := ParseHeader(append(got, 0xAA))
	if err != nil {
		t.Fatal(err)
	}
	if parsed != h {
		t.Errorf("ParseHeader = %+v, want %+v", parsed, h)
	}
	if !bytes.Equal(rest, []byte{0xAA}) {
		t.Errorf("payload = %X, want AA", rest)
	}
}

func TestHeaderPlain(t *testing.T) {
	h := Header{FrameType: FrameTypeCluster, ServerToClient: true, Sequence: 1, CommandID: 0x02}
	got := h.Encode()
	if !bytes.Equal(got, []byte{0x09, 0x01, 0x02}) {
		t.Errorf("Encode = %X", got)
	}
}

func TestParseHeaderTooShort(t *testing.T) {
	if _, _, err := ParseHeader([]byte{0x00, 0x01}); err == nil {
		t.Error("expected error for 2-byte frame")
	}
	if _, _, err := ParseHeader([]byte{0x04, 0x2D, 0x12}); err == nil {
		t.Error("expected error for truncated manufacturer frame")
	}
}

func TestEncodeWriteAttributes(t *testing.T) {
	payload, err := EncodeWriteAttributes([]AttributeRecord{
		{AttrID: 0x7700, DataType: TypeUint8, Value: int64(2)},
		{AttrID: 0x7803, DataType: TypeUint16, Value: int64(1500)},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 0x77, 0x20, 0x02, 0x03, 0x78, 0x21, 0xDC, 0x05}
	if !bytes.Equal(payload, want) {
		t.Errorf("payload = %X, want %X", payload, want)
	}
}

func TestEncodeWriteAttributesOverflow(t *testing.T) {
	if _, err := EncodeWriteAttributes([]AttributeRecord{{AttrID: 0x7800, DataType: TypeUint8, Value: 300}}); err == nil {
		t.Error("expected overflow error")
	}
}

func TestEncodeReadAttributes(t *testing.T) {
	got := EncodeReadAttributes([]uint16{0x7600, 0x0005})
	if !bytes.Equal(got, []byte{0x00, 0x76, 0x05, 0x00}) {
		t.Errorf("payload = %X", got)
	}
}

func TestEncodeConfigureReporting(t *testing.T) {
	got, err := EncodeConfigureReporting([]ReportingRecord{
		{AttrID: 0x0000, DataType: TypeBool, MinInterval: 0, MaxInterval: 3600},
		{AttrID: 0x050B, DataType: TypeInt16, MinInterval: 10, MaxInterval: 600, ReportChange: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x10, 0x0E,
		0x00, 0x0B, 0x05, 0x29, 0x0A, 0x00, 0x58, 0x02, 0x05, 0x00,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("payload = %X, want %X", got, want)
	}
}

func TestParseReportAttributes(t *testing.T) {
	records, err := ParseReportAttributes([]byte{
		0x00, 0x77, 0x20, 0x01, // 0x7700 uint8 1
		0x01, 0x77, 0x10, 0x00, // 0x7701 bool false
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].AttrID != 0x7700 || records[0].Value != uint8(1) {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].AttrID != 0x7701 || records[1].Value != false {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestParseReportAttributesTruncated(t *testing.T) {
	records, err := ParseReportAttributes([]byte{0x00, 0x77, 0x20, 0x01, 0x01, 0x77})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(records) != 1 {
		t.Errorf("records before error = %d, want 1", len(records))
	}
}

func TestParseReadAttributesResponse(t *testing.T) {
	records, err := ParseReadAttributesResponse([]byte{
		0x00, 0x76, 0x00, 0x20, 0x00, // 0x7600 success uint8 0
		0x02, 0x77, 0x86, // 0x7702 unsupported attribute
		0x03, 0x78, 0x00, 0x21, 0xE8, 0x03, // 0x7803 success uint16 1000
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[0].Value != uint8(0) {
		t.Errorf("records[0].Value = %v", records[0].Value)
	}
	if records[1].Status != ZCLStatusUnsupportedAttr || records[1].Value != nil {
		t.Errorf("records[1] = %+v", records[1])
	}
	if records[2].Value != uint16(1000) {
		t.Errorf("records[2].Value = %v", records[2].Value)
	}
}
