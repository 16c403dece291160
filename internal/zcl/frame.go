package zcl

import (
	"encoding/binary"
	"fmt"
)

// Header is a ZCL frame header.
// Wire format: frame_control(1) + [mfr_code(2)] + seq(1) + cmd_id(1).
type Header struct {
	FrameType              uint8
	ManufacturerCode       uint16 // zero means not manufacturer specific
	ServerToClient         bool
	DisableDefaultResponse bool
	Sequence               uint8
	CommandID              uint8
}

// Encode serializes the header.
func (h Header) Encode() []byte {
	fc := h.FrameType & 0x03
	if h.ManufacturerCode != 0 {
		fc |= FlagManufacturerSpecific
	}
	if h.ServerToClient {
		fc |= FlagServerToClient
	}
	if h.DisableDefaultResponse {
		fc |= FlagDisableDefaultResponse
	}
	buf := []byte{fc}
	if h.ManufacturerCode != 0 {
		buf = binary.LittleEndian.AppendUint16(buf, h.ManufacturerCode)
	}
	return append(buf, h.Sequence, h.CommandID)
}

// ParseHeader parses a ZCL frame header and returns it with the remaining payload.
func ParseHeader(frame []byte) (Header, []byte, error) {
	if len(frame) < 3 {
		return Header{}, nil, fmt.Errorf("zcl: frame too short: %d bytes", len(frame))
	}
	fc := frame[0]
	h := Header{
		FrameType:              fc & 0x03,
		ServerToClient:         fc&FlagServerToClient != 0,
		DisableDefaultResponse: fc&FlagDisableDefaultResponse != 0,
	}
	pos := 1
	if fc&FlagManufacturerSpecific != 0 {
		if len(frame) < 5 {
			return Header{}, nil, fmt.Errorf("zcl: manufacturer-specific frame too short: %d bytes", len(frame))
		}
		h.ManufacturerCode = binary.LittleEndian.Uint16(frame[1:3])
		pos = 3
	}
	h.Sequence = frame[pos]
	h.CommandID = frame[pos+1]
	return h, frame[pos+2:], nil
}

// AttributeRecord is one attribute inside a report, read response or write request.
type AttributeRecord struct {
	AttrID   uint16
	Status   uint8
	DataType uint8
	Value    any
}

// ReportingRecord configures reporting of one attribute.
type ReportingRecord struct {
	AttrID       uint16
	DataType     uint8
	MinInterval  uint16
	MaxInterval  uint16
	ReportChange any // nil for discrete types
}

// EncodeReadAttributes builds the payload of a Read Attributes command.
func EncodeReadAttributes(attrIDs []uint16) []byte {
	buf := make([]byte, 0, 2*len(attrIDs))
	for _, id := range attrIDs {
		buf = binary.LittleEndian.AppendUint16(buf, id)
	}
	return buf
}

// EncodeWriteAttributes builds the payload of a Write Attributes command.
func EncodeWriteAttributes(records []AttributeRecord) ([]byte, error) {
	var buf []byte
	for _, r := range records {
		val, err := EncodeValue(r.DataType, r.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute 0x%04X: %w", r.AttrID, err)
		}
		buf = binary.LittleEndian.AppendUint16(buf, r.AttrID)
		buf = append(buf, r.DataType)
		buf = append(buf, val...)
	}
	return buf, nil
}

// EncodeConfigureReporting builds the payload of a Configure Reporting command.
func EncodeConfigureReporting(records []ReportingRecord) ([]byte, error) {
	var buf []byte
	for _, r := range records {
		buf = append(buf, 0x00) // direction: reported
		buf = binary.LittleEndian.AppendUint16(buf, r.AttrID)
		buf = append(buf, r.DataType)
		buf = binary.LittleEndian.AppendUint16(buf, r.MinInterval)
		buf = binary.LittleEndian.AppendUint16(buf, r.MaxInterval)
		if r.ReportChange != nil {
			change, err := EncodeValue(r.DataType, r.ReportChange)
			if err != nil {
				return nil, fmt.Errorf("attribute 0x%04X reportable change: %w", r.AttrID, err)
			}
			buf = append(buf, change...)
		}
	}
	return buf, nil
}

// ParseReportAttributes parses a Report Attributes payload: repeated attr(2) + type(1) + value.
func ParseReportAttributes(data []byte) ([]AttributeRecord, error) {
	var records []AttributeRecord
	for len(data) > 0 {
		if len(data) < 3 {
			return records, fmt.Errorf("zcl: truncated report record: %d bytes", len(data))
		}
		r := AttributeRecord{AttrID: binary.LittleEndian.Uint16(data[:2]), DataType: data[2]}
		val, n, err := DecodeValue(r.DataType, data[3:])
		if err != nil {
			return records, fmt.Errorf("attribute 0x%04X: %w", r.AttrID, err)
		}
		r.Value = val
		records = append(records, r)
		data = data[3+n:]
	}
	return records, nil
}

// ParseReadAttributesResponse parses a Read Attributes Response payload:
// repeated attr(2) + status(1) + [type(1) + value] when status is success.
func ParseReadAttributesResponse(data []byte) ([]AttributeRecord, error) {
	var records []AttributeRecord
	for len(data) > 0 {
		if len(data) < 3 {
			return records, fmt.Errorf("zcl: truncated read response record: %d bytes", len(data))
		}
		r := AttributeRecord{AttrID: binary.LittleEndian.Uint16(data[:2]), Status: data[2]}
		data = data[3:]
		if r.Status != ZCLStatusSuccess {
			records = append(records, r)
			continue
		}
		if len(data) < 1 {
			return records, fmt.Errorf("zcl: attribute 0x%04X: missing data type", r.AttrID)
		}
		r.DataType = data[0]
		val, n, err := DecodeValue(r.DataType, data[1:])
		if err != nil {
			// Unknown type: value boundaries cannot be determined, stop here.
			return records, fmt.Errorf("attribute 0x%04X: %w", r.AttrID, err)
		}
		r.Value = val
		records = append(records, r)
		data = data[1+n:]
	}
	return records, nil
}
