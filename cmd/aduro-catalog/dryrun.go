package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"zigbee-aduro/internal/catalog"
	"zigbee-aduro/internal/host"
)

// frameWriter prints frames instead of transmitting them. Priming reads
// run concurrently, so every line is written under mu.
type frameWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *frameWriter) printf(format string, args ...any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.out, format, args...)
	return err
}

func (w *frameWriter) SendZCL(_ context.Context, endpoint uint8, cluster uint16, frame []byte) error {
	return w.printf("zcl  ep=%d cluster=0x%04X frame=% x\n", endpoint, cluster, frame)
}

func (w *frameWriter) Bind(_ context.Context, endpoint uint8, cluster uint16) error {
	return w.printf("bind ep=%d cluster=0x%04X\n", endpoint, cluster)
}

// dryRunDevice is a device of the given definition whose endpoints print
// their frames.
type dryRunDevice struct {
	def    *catalog.DeviceDefinition
	sender *frameWriter

	mu        sync.Mutex
	endpoints map[uint8]*host.FrameEntity
}

func newDryRunDevice(def *catalog.DeviceDefinition, out io.Writer) *dryRunDevice {
	return &dryRunDevice{def: def, sender: &frameWriter{out: out}, endpoints: make(map[uint8]*host.FrameEntity)}
}

func (d *dryRunDevice) IEEEAddress() string { return "0x0000000000000000" }

func (d *dryRunDevice) ModelID() string {
	if len(d.def.ZigbeeModels) > 0 {
		return d.def.ZigbeeModels[0]
	}
	if len(d.def.Fingerprints) > 0 {
		return d.def.Fingerprints[0].ModelID
	}
	return d.def.Model
}

func (d *dryRunDevice) ManufacturerName() string {
	if len(d.def.Fingerprints) > 0 {
		return d.def.Fingerprints[0].ManufacturerName
	}
	return d.def.Vendor
}

// Endpoint keeps one entity per endpoint so sequence numbers keep counting.
func (d *dryRunDevice) Endpoint(id uint8) (host.Endpoint, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ep, ok := d.endpoints[id]
	if !ok {
		ep = host.NewFrameEntity(d.sender, id)
		d.endpoints[id] = ep
	}
	return ep, nil
}
