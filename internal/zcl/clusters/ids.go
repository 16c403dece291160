// Package clusters holds the standard ZCL cluster definitions used by the
// AduroSmart catalogue.
package clusters

import "zigbee-aduro/internal/zcl"

// Cluster IDs.
const (
	BasicID                 uint16 = 0x0000
	PowerConfigurationID    uint16 = 0x0001
	ScenesID                uint16 = 0x0005
	OnOffID                 uint16 = 0x0006
	LevelControlID          uint16 = 0x0008
	ColorControlID          uint16 = 0x0300
	IASZoneID               uint16 = 0x0500
	IASWDID                 uint16 = 0x0502
	ElectricalMeasurementID uint16 = 0x0B04
)

// RegisterStandard registers every cluster in this package.
func RegisterStandard(r *zcl.Registry) {
	r.Register(Basic)                 // 0x0000
	r.Register(PowerConfiguration)    // 0x0001
	r.Register(Scenes)                // 0x0005
	r.Register(OnOff)                 // 0x0006
	r.Register(LevelControl)          // 0x0008
	r.Register(ColorControl)          // 0x0300
	r.Register(IASZone)               // 0x0500
	r.Register(IASWD)                 // 0x0502
	r.Register(ElectricalMeasurement) // 0x0B04
}
