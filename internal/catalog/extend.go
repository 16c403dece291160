package catalog

import (
	"context"
	"log/slog"

	"zigbee-aduro/internal/codec"
	"zigbee-aduro/internal/converter"
	"zigbee-aduro/internal/expose"
	"zigbee-aduro/internal/host"
	"zigbee-aduro/internal/zcl"
	"zigbee-aduro/internal/zcl/clusters"
)

// Extend is a reusable bundle of behavior folded into a definition.
type Extend struct {
	Name           string
	FromZigbee     []converter.FromZigbee
	ToZigbee       []converter.ToZigbee
	Exposes        []expose.Feature
	Bind           []uint16
	Reporting      []converter.ReportingEntry
	Reads          []ReadEntry
	ConfigureSteps []ConfigureStep
	Clusters       []zcl.ClusterDef
}

// ColorTempRange bounds color temperature in mireds.
type ColorTempRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DefaultColorTemp is used when a light supports color temperature without
// a known range.
var DefaultColorTemp = ColorTempRange{Min: 150, Max: 500}

// LightOptions selects the capabilities of a light.
type LightOptions struct {
	ColorTemp *ColorTempRange `json:"color_temp,omitempty" yaml:"color_temp,omitempty"`
	// ColorXY and ColorHS enable the color modes.
	ColorXY     bool `json:"color_xy,omitempty" yaml:"color_xy,omitempty"`
	ColorHS     bool `json:"color_hs,omitempty" yaml:"color_hs,omitempty"`
	EnhancedHue bool `json:"enhanced_hue,omitempty" yaml:"enhanced_hue,omitempty"`
	// ConfigureReporting binds the light clusters and sets up reporting.
	ConfigureReporting     bool  `json:"configure_reporting,omitempty" yaml:"configure_reporting,omitempty"`
	DisablePowerOnBehavior bool  `json:"disable_power_on_behavior,omitempty" yaml:"disable_power_on_behavior,omitempty"`
	Endpoint               uint8 `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

func (o LightOptions) color() bool { return o.ColorXY || o.ColorHS }

// Light is a dimmable light, optionally with color temperature and color.
func Light(opts LightOptions) Extend {
	ext := Extend{
		Name:       "light",
		FromZigbee: []converter.FromZigbee{converter.OnOff, converter.Brightness},
		ToZigbee:   []converter.ToZigbee{converter.State, converter.LightBrightness},
	}
	b := expose.Light().Brightness()
	if opts.ColorTemp != nil || opts.color() {
		ext.FromZigbee = append(ext.FromZigbee, converter.Color)
	}
	if ct := opts.ColorTemp; ct != nil {
		b = b.ColorTemp(ct.Min, ct.Max)
		ext.ToZigbee = append(ext.ToZigbee, converter.LightColorTemp)
	}
	if opts.ColorXY {
		b = b.ColorXY()
	}
	if opts.ColorHS {
		b = b.ColorHS()
	}
	if opts.color() {
		ext.ToZigbee = append(ext.ToZigbee, converter.LightColor(converter.ColorOptions{
			XY:          opts.ColorXY,
			HS:          opts.ColorHS,
			EnhancedHue: opts.EnhancedHue,
		}))
	}
	ext.Exposes = []expose.Feature{b.Build()}

	if opts.ConfigureReporting {
		ext.Bind = []uint16{clusters.OnOffID, clusters.LevelControlID}
		ext.Reporting = []converter.ReportingEntry{converter.OnOffReporting(), converter.BrightnessReporting()}
		if opts.ColorTemp != nil {
			ext.Bind = append(ext.Bind, clusters.ColorControlID)
			ext.Reporting = append(ext.Reporting, converter.ColorTempReporting())
		}
	}
	if !opts.DisablePowerOnBehavior {
		ext = ext.merge(powerOnBehavior(opts.Endpoint))
	}
	return ext
}

// OnOffOptions selects the capabilities of a switch.
type OnOffOptions struct {
	DisablePowerOnBehavior bool  `json:"disable_power_on_behavior,omitempty" yaml:"disable_power_on_behavior,omitempty"`
	Endpoint               uint8 `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// OnOff is a switchable device that reports its state.
func OnOff(opts OnOffOptions) Extend {
	ext := Extend{
		Name:       "on_off",
		FromZigbee: []converter.FromZigbee{converter.OnOff},
		ToZigbee:   []converter.ToZigbee{converter.State},
		Exposes:    []expose.Feature{expose.Switch()},
		Bind:       []uint16{clusters.OnOffID},
		Reporting:  []converter.ReportingEntry{converter.OnOffReporting()},
	}
	if !opts.DisablePowerOnBehavior {
		ext = ext.merge(powerOnBehavior(opts.Endpoint))
	}
	return ext
}

// ElectricityMeter reports power, voltage and current from the electrical
// measurement cluster. The scaling attributes are read once so later reports
// can be converted.
func ElectricityMeter() Extend {
	return Extend{
		Name:       "electricity_meter",
		FromZigbee: []converter.FromZigbee{converter.ElectricalMeasurement},
		Exposes:    []expose.Feature{expose.Power(), expose.Voltage(), expose.Current()},
		Bind:       []uint16{clusters.ElectricalMeasurementID},
		Reporting: []converter.ReportingEntry{
			converter.RMSVoltageReporting(),
			converter.RMSCurrentReporting(),
			converter.ActivePowerReporting(),
		},
		Reads: []ReadEntry{electricalScalingRead},
	}
}

var electricalScalingRead = ReadEntry{
	Cluster: clusters.ElectricalMeasurementID,
	Attributes: []uint16{
		clusters.AttrACVoltageMultiplier, clusters.AttrACVoltageDivisor,
		clusters.AttrACCurrentMultiplier, clusters.AttrACCurrentDivisor,
		clusters.AttrACPowerMultiplier, clusters.AttrACPowerDivisor,
	},
}

// Codecs exposes a table of manufacturer attributes. Every attribute is
// primed when the device is configured; priming failures are warnings.
func Codecs(name string, set *codec.Set) Extend {
	return Extend{
		Name:       name,
		FromZigbee: set.FromZigbee(),
		ToZigbee:   set.ToZigbee(),
		Exposes:    set.Exposes(),
		Clusters:   set.ClusterDefs(),
		ConfigureSteps: []ConfigureStep{{
			Name: "prime " + name,
			Run: func(ctx context.Context, dev host.Device, logger *slog.Logger) error {
				return set.Prime(ctx, dev, logger)
			},
		}},
	}
}

// powerOnBehaviorValues are the StartUpOnOff values in wire order.
var powerOnBehaviorValues = []codec.Value{
	{Raw: 0, Label: "off"},
	{Raw: 1, Label: "on"},
	{Raw: 2, Label: "toggle"},
	{Raw: 255, Label: "previous"},
}

func powerOnBehavior(endpoint uint8) Extend {
	set := codec.MustNewSet(codec.Vendor{Endpoint: endpoint}, codec.Spec{
		Cluster:     clusters.OnOffID,
		ID:          clusters.AttrStartUpOnOff,
		Type:        zcl.TypeEnum8,
		Key:         "power_on_behavior",
		Label:       "Power-on behavior",
		Description: "Controls the behavior when the device is powered on after power loss",
		Access:      expose.AccessAll,
		Values:      powerOnBehaviorValues,
	})
	return Extend{
		Name:       "power_on_behavior",
		FromZigbee: set.FromZigbee(),
		ToZigbee:   set.ToZigbee(),
		Exposes:    set.Exposes(),
	}
}

func (e Extend) merge(other Extend) Extend {
	e.FromZigbee = append(e.FromZigbee, other.FromZigbee...)
	e.ToZigbee = append(e.ToZigbee, other.ToZigbee...)
	e.Exposes = append(e.Exposes, other.Exposes...)
	e.Bind = append(e.Bind, other.Bind...)
	e.Reporting = append(e.Reporting, other.Reporting...)
	e.Reads = append(e.Reads, other.Reads...)
	e.ConfigureSteps = append(e.ConfigureSteps, other.ConfigureSteps...)
	e.Clusters = append(e.Clusters, other.Clusters...)
	return e
}
