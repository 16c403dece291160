package catalog

import (
	"zigbee-aduro/internal/codec"
	"zigbee-aduro/internal/converter"
	"zigbee-aduro/internal/expose"
	"zigbee-aduro/internal/zcl"
	"zigbee-aduro/internal/zcl/clusters"
)

const (
	AduroSmartVendor = "AduroSmart"
	// AduroSmartManufacturerCode qualifies the proprietary attribute space.
	AduroSmartManufacturerCode uint16 = 0x122d
)

// AduroSmartVendorAttrs addresses the proprietary attributes on endpoint 1.
var AduroSmartVendorAttrs = codec.Vendor{ManufacturerCode: AduroSmartManufacturerCode, Endpoint: 1}

var doubleClickScenes = []codec.Value{
	{Raw: 0, Label: "null"},
	{Raw: 1, Label: "on"},
	{Raw: 2, Label: "off"},
	{Raw: 3, Label: "dimming_up"},
	{Raw: 4, Label: "dimming_down"},
	{Raw: 5, Label: "dimming_to_brightest"},
	{Raw: 6, Label: "dimming_to_darkest"},
}

var disabledEnabled = []codec.Value{{Raw: 0, Label: "disabled"}, {Raw: 1, Label: "enabled"}}

// DimmerAttributes are the proprietary Basic cluster attributes of the
// DimmerM3002 built-in dimmer.
var DimmerAttributes = []codec.Spec{
	{
		Cluster: clusters.BasicID, ID: 0x7600, Type: zcl.TypeUint8,
		Key: "dimmer_load_control_mode", Label: "Load Control Mode", Access: expose.AccessAll,
		Values: []codec.Value{{Raw: 0, Label: "leading_edge_control"}, {Raw: 1, Label: "trailing_edge_control"}},
	},
	{
		Cluster: clusters.BasicID, ID: 0x7700, Type: zcl.TypeUint8,
		Key: "dimmer_switch_mode", Label: "Switch Mode", Access: expose.AccessAll,
		Values: []codec.Value{{Raw: 0, Label: "momentary_switch"}, {Raw: 1, Label: "toggle_switch"}, {Raw: 2, Label: "roller_blind_switch"}},
	},
	{
		Cluster: clusters.BasicID, ID: 0x7701, Type: zcl.TypeBool,
		Key: "dimmer_invert_switch", Label: "Invert Switch", Access: expose.AccessStateSet,
		Values: disabledEnabled,
	},
	{
		Cluster: clusters.BasicID, ID: 0x7702, Type: zcl.TypeBool,
		Key: "dimmer_scene_activation", Label: "Scene Activation", Access: expose.AccessStateSet,
		Values: disabledEnabled,
	},
	{
		Cluster: clusters.BasicID, ID: 0x7703, Type: zcl.TypeUint8,
		Key: "dimmer_s1_double_click_scene", Label: "S1 Double Click Scene", Access: expose.AccessStateSet,
		Values: doubleClickScenes,
	},
	{
		Cluster: clusters.BasicID, ID: 0x7704, Type: zcl.TypeUint8,
		Key: "dimmer_s2_double_click_scene", Label: "S2 Double Click Scene", Access: expose.AccessStateSet,
		Values: doubleClickScenes,
	},
	{
		Cluster: clusters.BasicID, ID: 0x7800, Type: zcl.TypeUint8,
		Key: "dimmer_min_brightness_level", Label: "Min Brightness Level", Access: expose.AccessStateSet,
		Range: &codec.Range{Min: 1, Max: 100, Step: 1},
	},
	{
		Cluster: clusters.BasicID, ID: 0x7801, Type: zcl.TypeUint8,
		Key: "dimmer_max_brightness_level", Label: "Max Brightness Level", Access: expose.AccessStateSet,
		Range: &codec.Range{Min: 1, Max: 100, Step: 1},
	},
	{
		Cluster: clusters.BasicID, ID: 0x7802, Type: zcl.TypeUint8,
		Key: "dimmer_manual_dimming_step_size", Label: "Manual Dimming Step Size", Access: expose.AccessStateSet,
		Range: &codec.Range{Min: 1, Max: 25, Step: 1},
	},
	{
		Cluster: clusters.BasicID, ID: 0x7803, Type: zcl.TypeUint16,
		Key: "dimmer_manual_dimming_time", Label: "Manual Dimming Time", Access: expose.AccessStateSet,
		Range: &codec.Range{Min: 100, Max: 10000, Step: 100}, Unit: "ms",
	},
}

var dimmerCodecs = codec.MustNewSet(AduroSmartVendorAttrs, DimmerAttributes...)

func colorTemp(min, max float64) *ColorTempRange {
	return &ColorTempRange{Min: min, Max: max}
}

// AduroSmart returns the AduroSmart device definitions.
func AduroSmart() []DeviceDefinition {
	return []DeviceDefinition{
		{
			ZigbeeModels: []string{"ADUROLIGHT_CSC"},
			Model:        "15090054",
			Vendor:       AduroSmartVendor,
			Description:  "Remote scene controller",
			FromZigbee:   []converter.FromZigbee{converter.Battery, converter.CommandToggle, converter.CommandRecall},
			Exposes:      []expose.Feature{expose.Battery(), expose.Action("toggle", "recall_253", "recall_254", "recall_255")},
		},
		{
			ZigbeeModels: []string{"AD-SmartPlug3001"},
			Model:        "81848",
			Vendor:       AduroSmartVendor,
			Description:  "ERIA smart plug (with power measurements)",
			FromZigbee:   []converter.FromZigbee{converter.OnOff, converter.ElectricalMeasurement},
			ToZigbee:     []converter.ToZigbee{converter.State},
			Exposes:      []expose.Feature{expose.Switch(), expose.Power(), expose.Current(), expose.Voltage()},
			Bind:         []uint16{clusters.OnOffID, clusters.ElectricalMeasurementID},
			Reporting: []converter.ReportingEntry{
				converter.OnOffReporting(),
				converter.RMSVoltageReporting(),
				converter.RMSCurrentReporting(),
				converter.ActivePowerReporting(),
			},
			Reads: []ReadEntry{electricalScalingRead},
		},
		{
			ZigbeeModels: []string{"ZLL-ExtendedColo", "ZLL-ExtendedColor"},
			Model:        "81809/81813",
			Vendor:       AduroSmartVendor,
			Description:  "ERIA colors and white shades smart light bulb A19/BR30",
			Endpoint:     2,
			Extend: []Extend{Light(LightOptions{
				ColorTemp: colorTemp(DefaultColorTemp.Min, DefaultColorTemp.Max),
				ColorXY:   true,
				Endpoint:  2,
			})},
		},
		{
			ZigbeeModels: []string{"AD-RGBW3001"},
			Model:        "81809FBA",
			Vendor:       AduroSmartVendor,
			Description:  "ERIA colors and white shades smart light bulb A19/BR30",
			Extend:       []Extend{Light(LightOptions{ColorTemp: colorTemp(153, 500), ColorXY: true, ColorHS: true})},
		},
		{
			ZigbeeModels: []string{"AD-E14RGBW3001"},
			Model:        "81895",
			Vendor:       AduroSmartVendor,
			Description:  "ERIA E14 Candle Color",
			Extend:       []Extend{Light(LightOptions{ColorTemp: colorTemp(153, 500), ColorXY: true})},
		},
		{
			ZigbeeModels: []string{"AD-DimmableLight3001"},
			Model:        "81810",
			Vendor:       AduroSmartVendor,
			Description:  "Zigbee Aduro Eria B22 bulb - warm white",
			Extend:       []Extend{Light(LightOptions{})},
		},
		{
			ZigbeeModels: []string{"Adurolight_NCC"},
			Model:        "81825",
			Vendor:       AduroSmartVendor,
			Description:  "ERIA smart wireless dimming switch",
			FromZigbee:   []converter.FromZigbee{converter.CommandOn, converter.CommandOff, converter.CommandStep},
			Exposes:      []expose.Feature{expose.Action("on", "off", "up", "down")},
			Bind:         []uint16{clusters.OnOffID, clusters.LevelControlID},
		},
		{
			ZigbeeModels: []string{"AD-Dimmer"},
			Model:        "81849",
			Vendor:       AduroSmartVendor,
			Description:  "ERIA built-in multi dimmer module 300W",
			Extend:       []Extend{Light(LightOptions{ConfigureReporting: true})},
		},
		{
			ZigbeeModels: []string{"BDP3001"},
			Model:        "81855",
			Vendor:       AduroSmartVendor,
			Description:  "ERIA smart plug (dimmer)",
			Extend:       []Extend{Light(LightOptions{ConfigureReporting: true})},
		},
		{
			ZigbeeModels: []string{"BPU3"},
			Model:        "BPU3",
			Vendor:       AduroSmartVendor,
			Description:  "ERIA smart plug",
			Extend:       []Extend{OnOff(OnOffOptions{})},
		},
		{
			ZigbeeModels: []string{"Extended Color LED Strip V1.0"},
			Model:        "81863",
			Vendor:       AduroSmartVendor,
			Description:  "Eria color LED strip",
			Extend:       []Extend{Light(LightOptions{ColorTemp: colorTemp(153, 500), ColorXY: true, ColorHS: true})},
		},
		{
			ZigbeeModels: []string{"AD-81812", "AD-ColorTemperature3001"},
			Model:        "81812/81814",
			Vendor:       AduroSmartVendor,
			Description:  "Eria tunable white A19/BR30 smart bulb",
			Extend:       []Extend{Light(LightOptions{ColorTemp: colorTemp(153, 500), ColorXY: true, ColorHS: true})},
		},
		{
			ZigbeeModels: []string{"ONOFFRELAY"},
			Model:        "81898",
			Vendor:       AduroSmartVendor,
			Description:  "AduroSmart on/off relay",
			Extend:       []Extend{OnOff(OnOffOptions{DisablePowerOnBehavior: true})},
		},
		{
			ZigbeeModels: []string{"AD-BR3RGBW3001"},
			Model:        "81813-V2",
			Vendor:       AduroSmartVendor,
			Description:  "BR30 light bulb",
			Extend: []Extend{Light(LightOptions{
				ColorTemp:   colorTemp(153, 500),
				ColorXY:     true,
				ColorHS:     true,
				EnhancedHue: true,
			})},
		},
		{
			Fingerprints: []Fingerprint{{ModelID: "Smart Siren", ManufacturerName: "AduroSmart Eria"}},
			Model:        "81868",
			Vendor:       AduroSmartVendor,
			Description:  "Siren",
			FromZigbee:   []converter.FromZigbee{converter.Battery, converter.IASWD, converter.IASEnroll, converter.IASSiren},
			ToZigbee:     []converter.ToZigbee{converter.WarningSimple, converter.IASMaxDuration, converter.Warning},
			Exposes: []expose.Feature{
				expose.Tamper(),
				expose.Warning(),
				expose.Numeric("max_duration", expose.AccessAll).WithUnit("s").WithRange(0, 600).WithDescription("Duration of Siren"),
				expose.Binary("alarm", expose.AccessSet, "ON", "OFF").WithDescription("Manual start of siren"),
			},
			Bind: []uint16{clusters.BasicID, clusters.IASZoneID, clusters.IASWDID},
			Reads: []ReadEntry{
				{Cluster: clusters.IASZoneID, Attributes: []uint16{clusters.AttrZoneState, clusters.AttrIASCIEAddr, clusters.AttrZoneID}},
				{Cluster: clusters.IASWDID, Attributes: []uint16{clusters.AttrMaxDuration}},
			},
		},
		{
			Fingerprints: []Fingerprint{{ModelID: "ONOFF_METER_RELAY", ManufacturerName: "AduroSmart ERIA"}},
			Model:        "81998",
			Vendor:       AduroSmartVendor,
			Description:  "ERIA built-in on/off relay (with power measurements)",
			Extend:       []Extend{OnOff(OnOffOptions{}), ElectricityMeter()},
		},
		{
			ZigbeeModels: []string{"DimmerM3002"},
			Model:        "81949",
			Vendor:       AduroSmartVendor,
			Description:  "ERIA built-in dimmer module (with power measurements)",
			Extend: []Extend{
				Light(LightOptions{ConfigureReporting: true}),
				ElectricityMeter(),
				Codecs("dimmer", dimmerCodecs),
			},
		},
	}
}
