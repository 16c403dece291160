package host

import (
	"context"
	"fmt"
	"sync"
)

// RequestKind names the kind of a recorded request.
type RequestKind string

const (
	KindRead      RequestKind = "read"
	KindWrite     RequestKind = "write"
	KindCommand   RequestKind = "command"
	KindBind      RequestKind = "bind"
	KindReporting RequestKind = "reporting"
)

// Request is a request captured by a Recorder.
type Request struct {
	Kind      RequestKind
	Endpoint  uint8
	Cluster   uint16
	Attrs     []uint16
	Records   []WriteRecord
	CommandID uint8
	Payload   []byte
	Reporting []ReportingConfig
	Options   Options
}

type failKey struct {
	cluster uint16
	attr    uint16
}

// Recorder is an in-memory Device whose endpoints record every request
// instead of sending it. Failures can be injected per attribute read. It is
// safe for concurrent use.
type Recorder struct {
	IEEE         string
	Model        string
	Manufacturer string

	mu        sync.Mutex
	requests  []Request
	readFails map[failKey]error
	endpoints map[uint8]bool
}

// NewRecorder creates a recorder exposing the given endpoints (endpoint 1 when none).
func NewRecorder(ieee, model, manufacturer string, endpoints ...uint8) *Recorder {
	if len(endpoints) == 0 {
		endpoints = []uint8{1}
	}
	r := &Recorder{
		IEEE:         ieee,
		Model:        model,
		Manufacturer: manufacturer,
		readFails:    make(map[failKey]error),
		endpoints:    make(map[uint8]bool),
	}
	for _, ep := range endpoints {
		r.endpoints[ep] = true
	}
	return r
}

func (r *Recorder) IEEEAddress() string      { return r.IEEE }
func (r *Recorder) ModelID() string          { return r.Model }
func (r *Recorder) ManufacturerName() string { return r.Manufacturer }

// Endpoint returns a recording endpoint.
func (r *Recorder) Endpoint(id uint8) (Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.endpoints[id] {
		return nil, fmt.Errorf("device %s has no endpoint %d", r.IEEE, id)
	}
	return &recordingEndpoint{rec: r, id: id}, nil
}

// FailRead makes every read that includes attr on cluster fail with err.
func (r *Recorder) FailRead(cluster, attr uint16, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readFails[failKey{cluster, attr}] = err
}

// Requests returns a copy of the recorded requests in arrival order.
func (r *Recorder) Requests() []Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Request, len(r.requests))
	copy(out, r.requests)
	return out
}

// RequestsOf returns the recorded requests of one kind.
func (r *Recorder) RequestsOf(kind RequestKind) []Request {
	var out []Request
	for _, req := range r.Requests() {
		if req.Kind == kind {
			out = append(out, req)
		}
	}
	return out
}

// Reset forgets all recorded requests.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = nil
}

func (r *Recorder) record(req Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

type recordingEndpoint struct {
	rec *Recorder
	id  uint8
}

func (e *recordingEndpoint) ID() uint8 { return e.id }

func (e *recordingEndpoint) Read(ctx context.Context, cluster uint16, attrs []uint16, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.rec.record(Request{Kind: KindRead, Endpoint: e.id, Cluster: cluster, Attrs: append([]uint16(nil), attrs...), Options: opts})

	e.rec.mu.Lock()
	defer e.rec.mu.Unlock()
	for _, a := range attrs {
		if err, ok := e.rec.readFails[failKey{cluster, a}]; ok {
			return err
		}
	}
	return nil
}

func (e *recordingEndpoint) Write(ctx context.Context, cluster uint16, records []WriteRecord, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.rec.record(Request{Kind: KindWrite, Endpoint: e.id, Cluster: cluster, Records: append([]WriteRecord(nil), records...), Options: opts})
	return nil
}

func (e *recordingEndpoint) Command(ctx context.Context, cluster uint16, command uint8, payload []byte, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.rec.record(Request{Kind: KindCommand, Endpoint: e.id, Cluster: cluster, CommandID: command, Payload: append([]byte(nil), payload...), Options: opts})
	return nil
}

func (e *recordingEndpoint) Bind(ctx context.Context, cluster uint16) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.rec.record(Request{Kind: KindBind, Endpoint: e.id, Cluster: cluster})
	return nil
}

func (e *recordingEndpoint) ConfigureReporting(ctx context.Context, cluster uint16, configs []ReportingConfig, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.rec.record(Request{Kind: KindReporting, Endpoint: e.id, Cluster: cluster, Reporting: append([]ReportingConfig(nil), configs...), Options: opts})
	return nil
}
