package clusters

import "zigbee-aduro/internal/zcl"

// Power Configuration attribute IDs.
const (
	AttrBatteryVoltage             uint16 = 0x0020
	AttrBatteryPercentageRemaining uint16 = 0x0021
)

var PowerConfiguration = zcl.ClusterDef{
	ID:   PowerConfigurationID,
	Name: "genPowerCfg",
	Attributes: []zcl.AttributeDef{
		{ID: 0x0000, Name: "mainsVoltage", Type: zcl.TypeUint16, Access: zcl.AccessRead},
		{ID: AttrBatteryVoltage, Name: "batteryVoltage", Type: zcl.TypeUint8, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrBatteryPercentageRemaining, Name: "batteryPercentageRemaining", Type: zcl.TypeUint8, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: 0x0031, Name: "batterySize", Type: zcl.TypeEnum8, Access: zcl.AccessRead | zcl.AccessWrite},
		{ID: 0x0033, Name: "batteryQuantity", Type: zcl.TypeUint8, Access: zcl.AccessRead | zcl.AccessWrite},
	},
}
