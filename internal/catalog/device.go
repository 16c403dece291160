package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/multierr"

	"zigbee-aduro/internal/converter"
	"zigbee-aduro/internal/expose"
	"zigbee-aduro/internal/host"
)

// ConfigureStep is a custom action run at the end of Configure.
type ConfigureStep struct {
	Name string
	Run  func(ctx context.Context, dev host.Device, logger *slog.Logger) error
	// Fatal aborts Configure when Run fails; otherwise the failure is a warning.
	Fatal bool
}

// Warnings carries the non-fatal failures of Configure. The device is usable.
type Warnings struct {
	Err error
}

func (w *Warnings) Error() string { return "configure: " + w.Err.Error() }

func (w *Warnings) Unwrap() error { return w.Err }

// Errors returns every individual failure.
func (w *Warnings) Errors() []error { return multierr.Errors(w.Err) }

// Decode runs every matching converter and merges their output. It returns
// nil when nothing matched.
func (d *DeviceDefinition) Decode(msg host.Message, meta *converter.Meta) map[string]any {
	var out map[string]any
	for _, fz := range d.FromZigbee {
		if !fz.Matches(msg) {
			continue
		}
		for k, v := range fz.Convert(msg, meta) {
			if out == nil {
				out = make(map[string]any)
			}
			out[k] = v
		}
	}
	return out
}

func (d *DeviceDefinition) converterFor(key string) (converter.ToZigbee, bool) {
	for _, tz := range d.ToZigbee {
		if tz.Handles(key) {
			return tz, true
		}
	}
	return converter.ToZigbee{}, false
}

// target resolves the endpoint a converter talks to and fills meta.
func (d *DeviceDefinition) target(dev host.Device, tz converter.ToZigbee, meta *converter.Meta) (host.Endpoint, *converter.Meta, error) {
	id := tz.Endpoint
	if id == 0 && meta != nil {
		id = meta.Endpoint
	}
	if id == 0 {
		id = d.endpoint()
	}
	ep, err := dev.Endpoint(id)
	if err != nil {
		return nil, nil, err
	}
	m := converter.Meta{}
	if meta != nil {
		m = *meta
	}
	m.Device = dev
	m.Endpoint = id
	return ep, &m, nil
}

// Set validates value against the exposed capability of key and hands it to
// the converter owning key. It returns the resulting state.
func (d *DeviceDefinition) Set(ctx context.Context, dev host.Device, key string, value any, meta *converter.Meta) (map[string]any, error) {
	feature, ok := expose.Find(d.Exposes, key)
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", d.Model, key, ErrUnknownKey)
	}
	if err := feature.Writable(); err != nil {
		return nil, err
	}
	if err := feature.Validate(value); err != nil {
		return nil, fmt.Errorf("%w: %w", converter.ErrInvalidValue, err)
	}
	tz, ok := d.converterFor(key)
	if !ok {
		return nil, fmt.Errorf("%s: %s: no converter: %w", d.Model, key, ErrUnknownKey)
	}
	ep, m, err := d.target(dev, tz, meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return tz.Set(ctx, ep, key, value, m)
}

// Get requests the current value of key. The answer arrives as a message
// handled by Decode.
func (d *DeviceDefinition) Get(ctx context.Context, dev host.Device, key string, meta *converter.Meta) error {
	tz, ok := d.converterFor(key)
	if !ok {
		return fmt.Errorf("%s: %s: %w", d.Model, key, ErrUnknownKey)
	}
	if tz.Get == nil {
		return fmt.Errorf("%s: %w", key, converter.ErrGetUnsupported)
	}
	ep, m, err := d.target(dev, tz, meta)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return tz.Get(ctx, ep, key, m)
}

// Configure binds clusters and configures reporting on the default endpoint,
// then issues the configured reads and runs the custom steps. Binding and
// reporting failures abort configuration. Read failures and non-fatal steps
// are logged and returned together as *Warnings once everything has run.
func (d *DeviceDefinition) Configure(ctx context.Context, dev host.Device, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("ieee", dev.IEEEAddress(), "model", d.Model)

	ep, err := dev.Endpoint(d.endpoint())
	if err != nil {
		return fmt.Errorf("configure %s: %w", d.Model, err)
	}

	for _, cluster := range d.Bind {
		if err := ep.Bind(ctx, cluster); err != nil {
			return fmt.Errorf("configure %s: bind 0x%04X: %w", d.Model, cluster, err)
		}
		logger.Debug("bound cluster", "ep", ep.ID(), "cluster", fmt.Sprintf("0x%04X", cluster))
	}

	for _, group := range groupReporting(d.Reporting) {
		configs := make([]host.ReportingConfig, len(group))
		for i, r := range group {
			configs[i] = r.Config()
		}
		cluster := group[0].Cluster
		if err := ep.ConfigureReporting(ctx, cluster, configs, host.Options{}); err != nil {
			return fmt.Errorf("configure %s: reporting 0x%04X: %w", d.Model, cluster, err)
		}
		logger.Debug("configured reporting", "ep", ep.ID(), "cluster", fmt.Sprintf("0x%04X", cluster), "attrs", len(configs))
	}

	var warnings error
	for _, r := range d.Reads {
		opts := host.Options{ManufacturerCode: r.ManufacturerCode}
		if err := ep.Read(ctx, r.Cluster, r.Attributes, opts); err != nil {
			logger.Warn("configure: read", "cluster", fmt.Sprintf("0x%04X", r.Cluster), "err", err)
			warnings = multierr.Append(warnings, fmt.Errorf("read 0x%04X: %w", r.Cluster, err))
		}
	}

	for _, step := range d.ConfigureSteps {
		err := step.Run(ctx, dev, logger)
		if err == nil {
			continue
		}
		if step.Fatal {
			return fmt.Errorf("configure %s: %s: %w", d.Model, step.Name, err)
		}
		logger.Warn("configure: step", "step", step.Name, "err", err)
		warnings = multierr.Append(warnings, err)
	}

	if warnings != nil {
		return &Warnings{Err: warnings}
	}
	logger.Info("device configured")
	return nil
}

// groupReporting groups entries by cluster, keeping first-seen order.
func groupReporting(entries []converter.ReportingEntry) [][]converter.ReportingEntry {
	var out [][]converter.ReportingEntry
	index := make(map[uint16]int)
	for _, r := range entries {
		i, ok := index[r.Cluster]
		if !ok {
			i = len(out)
			index[r.Cluster] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], r)
	}
	return out
}
