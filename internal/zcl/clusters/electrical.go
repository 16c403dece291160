package clusters

import "zigbee-aduro/internal/zcl"

// Electrical Measurement attribute IDs.
const (
	AttrRMSVoltage          uint16 = 0x0505
	AttrRMSCurrent          uint16 = 0x0508
	AttrActivePower         uint16 = 0x050B
	AttrACVoltageMultiplier uint16 = 0x0600
	AttrACVoltageDivisor    uint16 = 0x0601
	AttrACCurrentMultiplier uint16 = 0x0602
	AttrACCurrentDivisor    uint16 = 0x0603
	AttrACPowerMultiplier   uint16 = 0x0604
	AttrACPowerDivisor      uint16 = 0x0605
)

var ElectricalMeasurement = zcl.ClusterDef{
	ID:   ElectricalMeasurementID,
	Name: "haElectricalMeasurement",
	Attributes: []zcl.AttributeDef{
		{ID: 0x0000, Name: "measurementType", Type: zcl.TypeBitmap32, Access: zcl.AccessRead},
		{ID: AttrRMSVoltage, Name: "rmsVoltage", Type: zcl.TypeUint16, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrRMSCurrent, Name: "rmsCurrent", Type: zcl.TypeUint16, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrActivePower, Name: "activePower", Type: zcl.TypeInt16, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrACVoltageMultiplier, Name: "acVoltageMultiplier", Type: zcl.TypeUint16, Access: zcl.AccessRead},
		{ID: AttrACVoltageDivisor, Name: "acVoltageDivisor", Type: zcl.TypeUint16, Access: zcl.AccessRead},
		{ID: AttrACCurrentMultiplier, Name: "acCurrentMultiplier", Type: zcl.TypeUint16, Access: zcl.AccessRead},
		{ID: AttrACCurrentDivisor, Name: "acCurrentDivisor", Type: zcl.TypeUint16, Access: zcl.AccessRead},
		{ID: AttrACPowerMultiplier, Name: "acPowerMultiplier", Type: zcl.TypeUint16, Access: zcl.AccessRead},
		{ID: AttrACPowerDivisor, Name: "acPowerDivisor", Type: zcl.TypeUint16, Access: zcl.AccessRead},
	},
}
