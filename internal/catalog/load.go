package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"zigbee-aduro/internal/codec"
	"zigbee-aduro/internal/converter"
	"zigbee-aduro/internal/zcl"
)

// fileDevice is a device definition as written in an overlay file.
type fileDevice struct {
	ZigbeeModels []string      `yaml:"zigbee_models,omitempty"`
	Fingerprints []Fingerprint `yaml:"fingerprints,omitempty"`
	Model        string        `yaml:"model"`
	Vendor       string        `yaml:"vendor,omitempty"`
	Description  string        `yaml:"description,omitempty"`
	Endpoint     uint8         `yaml:"endpoint,omitempty"`

	Light            *LightOptions `yaml:"light,omitempty"`
	OnOff            *OnOffOptions `yaml:"on_off,omitempty"`
	ElectricityMeter bool          `yaml:"electricity_meter,omitempty"`

	Bind      []uint16                   `yaml:"bind,omitempty"`
	Reporting []converter.ReportingEntry `yaml:"reporting,omitempty"`
	Reads     []ReadEntry                `yaml:"reads,omitempty"`

	// ManufacturerCode qualifies Attributes.
	ManufacturerCode uint16       `yaml:"manufacturer_code,omitempty"`
	Attributes       []codec.Spec `yaml:"attributes,omitempty"`
}

// vendorGroup groups models under one vendor name.
type vendorGroup struct {
	Name   string       `yaml:"name"`
	Models []fileDevice `yaml:"models"`
}

// deviceFile is the structure of files in the devices directory.
type deviceFile struct {
	Clusters []zcl.ClusterDef `yaml:"clusters,omitempty"`
	Devices  []fileDevice     `yaml:"devices,omitempty"`
	Vendors  []vendorGroup    `yaml:"vendors,omitempty"`
}

func (f fileDevice) definition() (DeviceDefinition, error) {
	def := DeviceDefinition{
		ZigbeeModels: f.ZigbeeModels,
		Fingerprints: f.Fingerprints,
		Model:        f.Model,
		Vendor:       f.Vendor,
		Description:  f.Description,
		Endpoint:     f.Endpoint,
		Bind:         f.Bind,
		Reporting:    f.Reporting,
		Reads:        f.Reads,
	}
	if f.Light != nil {
		opts := *f.Light
		if opts.Endpoint == 0 {
			opts.Endpoint = f.Endpoint
		}
		def.Extend = append(def.Extend, Light(opts))
	}
	if f.OnOff != nil {
		opts := *f.OnOff
		if opts.Endpoint == 0 {
			opts.Endpoint = f.Endpoint
		}
		def.Extend = append(def.Extend, OnOff(opts))
	}
	if f.ElectricityMeter {
		def.Extend = append(def.Extend, ElectricityMeter())
	}
	if len(f.Attributes) > 0 {
		set, err := codec.NewSet(codec.Vendor{ManufacturerCode: f.ManufacturerCode, Endpoint: f.Endpoint}, f.Attributes...)
		if err != nil {
			return DeviceDefinition{}, fmt.Errorf("%s: %w", f.Model, err)
		}
		def.Extend = append(def.Extend, Codecs("attributes", set))
	}
	return def, nil
}

func parseDeviceFile(data []byte) (deviceFile, error) {
	var df deviceFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&df); err != nil && !errors.Is(err, io.EOF) {
		return df, err
	}
	return df, nil
}

// LoadDir reads every *.yaml, *.yml and *.json file in dir. Custom clusters
// are merged into registry; device definitions are returned for New. A
// missing or empty directory yields no definitions and no error.
func LoadDir(dir string, registry *zcl.Registry, logger *slog.Logger) ([]DeviceDefinition, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var matches []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob devices dir: %w", err)
		}
		matches = append(matches, m...)
	}
	slices.Sort(matches)
	if len(matches) == 0 {
		logger.Info("no device definition files found", "dir", dir)
		return nil, nil
	}

	var defs []DeviceDefinition
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		df, err := parseDeviceFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		for _, c := range df.Clusters {
			registry.Register(c)
		}
		devices := df.Devices
		for _, vg := range df.Vendors {
			for _, d := range vg.Models {
				d.Vendor = vg.Name
				devices = append(devices, d)
			}
		}
		for _, d := range devices {
			def, err := d.definition()
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			defs = append(defs, def)
		}

		logger.Info("loaded device file", "path", filepath.Base(path),
			"clusters", len(df.Clusters), "devices", len(devices))
	}

	logger.Info("device overlays loaded", "files", len(matches), "devices", len(defs))
	return defs, nil
}
