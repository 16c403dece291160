// Package host defines the narrow view of the Zigbee host runtime that the
// catalogue depends on: attribute reads and writes, cluster commands, binding
// and reporting configuration. Delivery, retries and ordering belong to the
// host implementation.
package host

import "context"

// Options qualifies a request sent to a device.
type Options struct {
	// ManufacturerCode scopes the request to a vendor's proprietary
	// attribute space. Zero means a standard request.
	ManufacturerCode       uint16
	DisableDefaultResponse bool
}

// WriteRecord is a single attribute write.
type WriteRecord struct {
	AttrID   uint16
	DataType uint8
	Value    any
}

// ReportingConfig configures reporting of one attribute.
type ReportingConfig struct {
	AttrID       uint16
	DataType     uint8
	MinInterval  uint16
	MaxInterval  uint16
	ReportChange any
}

// AttributeReader issues attribute read requests. Responses arrive
// asynchronously as Message values of type ReadResponse.
type AttributeReader interface {
	Read(ctx context.Context, cluster uint16, attrs []uint16, opts Options) error
}

// AttributeWriter issues attribute write requests.
type AttributeWriter interface {
	Write(ctx context.Context, cluster uint16, records []WriteRecord, opts Options) error
}

// Entity is a device endpoint or group that accepts requests.
type Entity interface {
	AttributeReader
	AttributeWriter
	Command(ctx context.Context, cluster uint16, command uint8, payload []byte, opts Options) error
}

// Endpoint is a single endpoint of a bound device.
type Endpoint interface {
	Entity
	ID() uint8
	// Bind binds the cluster to the coordinator.
	Bind(ctx context.Context, cluster uint16) error
	ConfigureReporting(ctx context.Context, cluster uint16, configs []ReportingConfig, opts Options) error
}

// Device is a joined device as seen by the host runtime.
type Device interface {
	IEEEAddress() string
	ModelID() string
	ManufacturerName() string
	Endpoint(id uint8) (Endpoint, error)
}

// MessageType classifies an incoming message.
type MessageType string

const (
	AttributeReport MessageType = "attributeReport"
	ReadResponse    MessageType = "readResponse"
	ClusterCommand  MessageType = "command"
)

// Message is an incoming ZCL message after the host runtime has parsed it.
//
// Attributes only holds attributes present in the message, so a missing key
// means "not reported", never zero.
type Message struct {
	Type        MessageType
	Endpoint    uint8
	Cluster     uint16
	Attributes  map[uint16]any
	CommandID   uint8
	Payload     []byte
	LinkQuality uint8
}

// Attribute returns the value of attr and whether it was present.
func (m Message) Attribute(attr uint16) (any, bool) {
	if m.Attributes == nil {
		return nil, false
	}
	v, ok := m.Attributes[attr]
	return v, ok
}
