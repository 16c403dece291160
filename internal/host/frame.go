package host

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"zigbee-aduro/internal/zcl"
)

// ErrUnsupportedFrame is returned by ParseFrame for global commands that do
// not carry attribute values.
var ErrUnsupportedFrame = errors.New("unsupported zcl frame")

// FrameSender delivers encoded ZCL frames. It is implemented by the host
// transport; the catalogue never talks to a radio itself. Implementations
// must be safe for concurrent use: priming reads share one endpoint.
type FrameSender interface {
	SendZCL(ctx context.Context, endpoint uint8, cluster uint16, frame []byte) error
	Bind(ctx context.Context, endpoint uint8, cluster uint16) error
}

// FrameEntity is an Endpoint that encodes every request as a ZCL frame and
// hands it to a FrameSender.
type FrameEntity struct {
	sender   FrameSender
	endpoint uint8
	seq      atomic.Uint32
}

// NewFrameEntity creates a frame-encoding endpoint.
func NewFrameEntity(sender FrameSender, endpoint uint8) *FrameEntity {
	return &FrameEntity{sender: sender, endpoint: endpoint}
}

func (e *FrameEntity) ID() uint8 { return e.endpoint }

func (e *FrameEntity) header(frameType, cmd uint8, opts Options) zcl.Header {
	return zcl.Header{
		FrameType:              frameType,
		ManufacturerCode:       opts.ManufacturerCode,
		DisableDefaultResponse: opts.DisableDefaultResponse,
		Sequence:               uint8(e.seq.Add(1)),
		CommandID:              cmd,
	}
}

func (e *FrameEntity) send(ctx context.Context, cluster uint16, h zcl.Header, payload []byte) error {
	frame := append(h.Encode(), payload...)
	if err := e.sender.SendZCL(ctx, e.endpoint, cluster, frame); err != nil {
		return fmt.Errorf("send to endpoint %d cluster 0x%04X: %w", e.endpoint, cluster, err)
	}
	return nil
}

func (e *FrameEntity) Read(ctx context.Context, cluster uint16, attrs []uint16, opts Options) error {
	h := e.header(zcl.FrameTypeGlobal, zcl.FoundationReadAttributes, opts)
	return e.send(ctx, cluster, h, zcl.EncodeReadAttributes(attrs))
}

func (e *FrameEntity) Write(ctx context.Context, cluster uint16, records []WriteRecord, opts Options) error {
	zr := make([]zcl.AttributeRecord, len(records))
	for i, r := range records {
		zr[i] = zcl.AttributeRecord{AttrID: r.AttrID, DataType: r.DataType, Value: r.Value}
	}
	payload, err := zcl.EncodeWriteAttributes(zr)
	if err != nil {
		return fmt.Errorf("encode write: %w", err)
	}
	h := e.header(zcl.FrameTypeGlobal, zcl.FoundationWriteAttributes, opts)
	return e.send(ctx, cluster, h, payload)
}

func (e *FrameEntity) Command(ctx context.Context, cluster uint16, command uint8, payload []byte, opts Options) error {
	h := e.header(zcl.FrameTypeCluster, command, opts)
	return e.send(ctx, cluster, h, payload)
}

func (e *FrameEntity) Bind(ctx context.Context, cluster uint16) error {
	return e.sender.Bind(ctx, e.endpoint, cluster)
}

func (e *FrameEntity) ConfigureReporting(ctx context.Context, cluster uint16, configs []ReportingConfig, opts Options) error {
	records := make([]zcl.ReportingRecord, len(configs))
	for i, c := range configs {
		records[i] = zcl.ReportingRecord{
			AttrID:       c.AttrID,
			DataType:     c.DataType,
			MinInterval:  c.MinInterval,
			MaxInterval:  c.MaxInterval,
			ReportChange: c.ReportChange,
		}
	}
	payload, err := zcl.EncodeConfigureReporting(records)
	if err != nil {
		return fmt.Errorf("encode configure reporting: %w", err)
	}
	h := e.header(zcl.FrameTypeGlobal, zcl.FoundationConfigReporting, opts)
	return e.send(ctx, cluster, h, payload)
}

// ParseFrame turns a raw ZCL frame received on endpoint/cluster into a Message.
// Attribute records with a failure status are left out of a read response.
func ParseFrame(endpoint uint8, cluster uint16, frame []byte) (Message, error) {
	h, payload, err := zcl.ParseHeader(frame)
	if err != nil {
		return Message{}, err
	}
	msg := Message{Endpoint: endpoint, Cluster: cluster, CommandID: h.CommandID}

	if h.FrameType == zcl.FrameTypeCluster {
		msg.Type = ClusterCommand
		msg.Payload = append([]byte(nil), payload...)
		return msg, nil
	}

	var records []zcl.AttributeRecord
	switch h.CommandID {
	case zcl.FoundationReportAttributes:
		msg.Type = AttributeReport
		records, err = zcl.ParseReportAttributes(payload)
	case zcl.FoundationReadAttributesResponse:
		msg.Type = ReadResponse
		records, err = zcl.ParseReadAttributesResponse(payload)
	default:
		return Message{}, fmt.Errorf("%w: global command 0x%02X", ErrUnsupportedFrame, h.CommandID)
	}
	if err != nil {
		return Message{}, err
	}

	msg.Attributes = make(map[uint16]any, len(records))
	for _, r := range records {
		if r.Status != zcl.ZCLStatusSuccess {
			continue
		}
		msg.Attributes[r.AttrID] = r.Value
	}
	return msg, nil
}
