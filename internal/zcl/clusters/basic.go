package clusters

import "zigbee-aduro/internal/zcl"

// Basic attribute IDs.
const (
	AttrBasicZCLVersion       uint16 = 0x0000
	AttrBasicManufacturerName uint16 = 0x0004
	AttrBasicModelIdentifier  uint16 = 0x0005
	AttrBasicPowerSource      uint16 = 0x0007
	AttrBasicSWBuildID        uint16 = 0x4000
)

var Basic = zcl.ClusterDef{
	ID:   BasicID,
	Name: "genBasic",
	Attributes: []zcl.AttributeDef{
		{ID: AttrBasicZCLVersion, Name: "zclVersion", Type: zcl.TypeUint8, Access: zcl.AccessRead},
		{ID: 0x0001, Name: "appVersion", Type: zcl.TypeUint8, Access: zcl.AccessRead},
		{ID: 0x0003, Name: "hwVersion", Type: zcl.TypeUint8, Access: zcl.AccessRead},
		{ID: AttrBasicManufacturerName, Name: "manufacturerName", Type: zcl.TypeCharStr, Access: zcl.AccessRead},
		{ID: AttrBasicModelIdentifier, Name: "modelId", Type: zcl.TypeCharStr, Access: zcl.AccessRead},
		{ID: 0x0006, Name: "dateCode", Type: zcl.TypeCharStr, Access: zcl.AccessRead},
		{ID: AttrBasicPowerSource, Name: "powerSource", Type: zcl.TypeEnum8, Access: zcl.AccessRead},
		{ID: AttrBasicSWBuildID, Name: "swBuildId", Type: zcl.TypeCharStr, Access: zcl.AccessRead},
	},
	Commands: []zcl.CommandDef{
		{ID: 0x00, Name: "resetFactDefault", Direction: zcl.DirectionToServer},
	},
}
