// Package catalog maps Zigbee device models to their behavior: the converters
// that translate messages into state, the capabilities exposed to users and the
// configuration applied when a device joins.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"zigbee-aduro/internal/converter"
	"zigbee-aduro/internal/expose"
	"zigbee-aduro/internal/zcl"
)

var (
	ErrDuplicate         = errors.New("duplicate device definition")
	ErrInvalidDefinition = errors.New("invalid device definition")
	ErrUnknownKey        = errors.New("unknown key")
)

// Fingerprint identifies a device by the Basic cluster strings it reports.
type Fingerprint struct {
	ModelID          string `json:"model_id" yaml:"model_id"`
	ManufacturerName string `json:"manufacturer_name" yaml:"manufacturer_name"`
}

// ReadEntry is a read issued while configuring a device.
type ReadEntry struct {
	Cluster          uint16   `json:"cluster" yaml:"cluster"`
	Attributes       []uint16 `json:"attributes" yaml:"attributes"`
	ManufacturerCode uint16   `json:"manufacturer_code,omitempty" yaml:"manufacturer_code,omitempty"`
}

// DeviceDefinition describes one device model.
type DeviceDefinition struct {
	ZigbeeModels []string
	Fingerprints []Fingerprint
	Model        string
	Vendor       string
	Description  string
	// Endpoint receives requests that no converter pins; zero means 1.
	Endpoint uint8

	FromZigbee []converter.FromZigbee
	ToZigbee   []converter.ToZigbee
	Exposes    []expose.Feature

	Bind           []uint16
	Reporting      []converter.ReportingEntry
	Reads          []ReadEntry
	ConfigureSteps []ConfigureStep
	// Clusters are manufacturer extensions of the cluster registry.
	Clusters []zcl.ClusterDef

	Extend []Extend
}

func (d *DeviceDefinition) endpoint() uint8 {
	if d.Endpoint == 0 {
		return 1
	}
	return d.Endpoint
}

// flatten folds the extends into the definition.
func (d DeviceDefinition) flatten() DeviceDefinition {
	out := d
	out.FromZigbee = slices.Clone(d.FromZigbee)
	out.ToZigbee = slices.Clone(d.ToZigbee)
	out.Exposes = slices.Clone(d.Exposes)
	out.Bind = slices.Clone(d.Bind)
	out.Reporting = slices.Clone(d.Reporting)
	out.Reads = slices.Clone(d.Reads)
	out.ConfigureSteps = slices.Clone(d.ConfigureSteps)
	out.Clusters = slices.Clone(d.Clusters)
	out.Extend = nil

	for _, ext := range d.Extend {
		out.FromZigbee = append(out.FromZigbee, ext.FromZigbee...)
		out.ToZigbee = append(out.ToZigbee, ext.ToZigbee...)
		out.Exposes = append(out.Exposes, ext.Exposes...)
		for _, c := range ext.Bind {
			if !slices.Contains(out.Bind, c) {
				out.Bind = append(out.Bind, c)
			}
		}
		out.Reporting = append(out.Reporting, ext.Reporting...)
		out.Reads = append(out.Reads, ext.Reads...)
		out.ConfigureSteps = append(out.ConfigureSteps, ext.ConfigureSteps...)
		out.Clusters = append(out.Clusters, ext.Clusters...)
	}
	return out
}

func (d *DeviceDefinition) validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", ErrInvalidDefinition, d.Model, fmt.Sprintf(format, args...))
	}
	if d.Model == "" {
		return fmt.Errorf("%w: definition %v has no model", ErrInvalidDefinition, d.ZigbeeModels)
	}
	if d.Vendor == "" {
		return fail("no vendor")
	}
	if len(d.ZigbeeModels) == 0 && len(d.Fingerprints) == 0 {
		return fail("neither zigbee model nor fingerprint")
	}
	seen := make(map[string]bool)
	for _, f := range d.Exposes {
		for _, p := range expose.Properties([]expose.Feature{f}) {
			if seen[p] {
				return fail("property %s exposed twice", p)
			}
			seen[p] = true
		}
	}
	for _, tz := range d.ToZigbee {
		if tz.Set == nil {
			return fail("converter %s has no set", tz.Name)
		}
	}
	return nil
}

// Catalog indexes device definitions. It is immutable after New and safe for
// concurrent use.
type Catalog struct {
	defs          []*DeviceDefinition
	byZigbeeModel map[string]*DeviceDefinition
	byFingerprint map[Fingerprint]*DeviceDefinition
	byModel       map[string]*DeviceDefinition
}

// New flattens and validates defs. Zigbee models, fingerprints and vendor
// model numbers must be unique across the catalog.
func New(logger *slog.Logger, defs ...DeviceDefinition) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{
		byZigbeeModel: make(map[string]*DeviceDefinition),
		byFingerprint: make(map[Fingerprint]*DeviceDefinition),
		byModel:       make(map[string]*DeviceDefinition),
	}
	for _, raw := range defs {
		def := raw.flatten()
		if err := def.validate(); err != nil {
			return nil, err
		}
		if other, dup := c.byModel[def.Model]; dup {
			return nil, fmt.Errorf("%w: model %s (%s)", ErrDuplicate, def.Model, other.Description)
		}
		for _, zm := range def.ZigbeeModels {
			if other, dup := c.byZigbeeModel[zm]; dup {
				return nil, fmt.Errorf("%w: zigbee model %q used by %s and %s", ErrDuplicate, zm, other.Model, def.Model)
			}
		}
		for _, fp := range def.Fingerprints {
			if other, dup := c.byFingerprint[fp]; dup {
				return nil, fmt.Errorf("%w: fingerprint %q/%q used by %s and %s",
					ErrDuplicate, fp.ModelID, fp.ManufacturerName, other.Model, def.Model)
			}
		}

		p := &def
		c.defs = append(c.defs, p)
		c.byModel[def.Model] = p
		for _, zm := range def.ZigbeeModels {
			c.byZigbeeModel[zm] = p
		}
		for _, fp := range def.Fingerprints {
			c.byFingerprint[fp] = p
		}
	}
	logger.Info("device catalog loaded", "component", "catalog", "definitions", len(c.defs))
	return c, nil
}

// Lookup finds the definition of a joined device. Fingerprints are checked
// before zigbee models.
func (c *Catalog) Lookup(modelID, manufacturerName string) (*DeviceDefinition, bool) {
	if def, ok := c.byFingerprint[Fingerprint{ModelID: modelID, ManufacturerName: manufacturerName}]; ok {
		return def, true
	}
	def, ok := c.byZigbeeModel[modelID]
	return def, ok
}

// FindByModel finds a definition by its vendor model number.
func (c *Catalog) FindByModel(model string) (*DeviceDefinition, bool) {
	def, ok := c.byModel[model]
	return def, ok
}

// All returns the definitions in registration order.
func (c *Catalog) All() []*DeviceDefinition {
	return slices.Clone(c.defs)
}

func (c *Catalog) Len() int { return len(c.defs) }

// RegisterClusters merges the manufacturer cluster extensions of every
// definition into r.
func (c *Catalog) RegisterClusters(r *zcl.Registry) {
	for _, def := range c.defs {
		for _, cd := range def.Clusters {
			r.Register(cd)
		}
	}
}
