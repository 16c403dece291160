package converter

import (
	"zigbee-aduro/internal/host"
	"zigbee-aduro/internal/zcl"
	"zigbee-aduro/internal/zcl/clusters"
)

// ReportingEntry specifies attribute reporting configuration for a cluster.
type ReportingEntry struct {
	Cluster   uint16 `json:"cluster" yaml:"cluster"`
	Attribute uint16 `json:"attribute" yaml:"attribute"`
	Type      uint8  `json:"type" yaml:"type"`
	Min       uint16 `json:"min" yaml:"min"`
	Max       uint16 `json:"max" yaml:"max"`
	Change    int    `json:"change" yaml:"change"`
}

// Config converts the entry into a reporting request. Discrete types carry
// no reportable change.
func (r ReportingEntry) Config() host.ReportingConfig {
	cfg := host.ReportingConfig{
		AttrID:      r.Attribute,
		DataType:    r.Type,
		MinInterval: r.Min,
		MaxInterval: r.Max,
	}
	if analog(r.Type) {
		cfg.ReportChange = int64(r.Change)
	}
	return cfg
}

func analog(t uint8) bool {
	switch t {
	case zcl.TypeUint8, zcl.TypeUint16, zcl.TypeUint24, zcl.TypeUint32, zcl.TypeUint40, zcl.TypeUint48,
		zcl.TypeInt8, zcl.TypeInt16, zcl.TypeInt24, zcl.TypeInt32, zcl.TypeFloat32, zcl.TypeUTC:
		return true
	}
	return false
}

const repHour = 3600

func OnOffReporting() ReportingEntry {
	return ReportingEntry{Cluster: clusters.OnOffID, Attribute: clusters.AttrOnOff, Type: zcl.TypeBool, Min: 0, Max: repHour}
}

func BrightnessReporting() ReportingEntry {
	return ReportingEntry{Cluster: clusters.LevelControlID, Attribute: clusters.AttrCurrentLevel, Type: zcl.TypeUint8, Min: 0, Max: repHour, Change: 1}
}

func ColorTempReporting() ReportingEntry {
	return ReportingEntry{Cluster: clusters.ColorControlID, Attribute: clusters.AttrColorTemperature, Type: zcl.TypeUint16, Min: 0, Max: repHour, Change: 1}
}

func RMSVoltageReporting() ReportingEntry {
	return ReportingEntry{Cluster: clusters.ElectricalMeasurementID, Attribute: clusters.AttrRMSVoltage, Type: zcl.TypeUint16, Min: 5, Max: repHour, Change: 5}
}

func RMSCurrentReporting() ReportingEntry {
	return ReportingEntry{Cluster: clusters.ElectricalMeasurementID, Attribute: clusters.AttrRMSCurrent, Type: zcl.TypeUint16, Min: 5, Max: repHour, Change: 50}
}

func ActivePowerReporting() ReportingEntry {
	return ReportingEntry{Cluster: clusters.ElectricalMeasurementID, Attribute: clusters.AttrActivePower, Type: zcl.TypeInt16, Min: 5, Max: repHour, Change: 10}
}
