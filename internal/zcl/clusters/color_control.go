package clusters

import "zigbee-aduro/internal/zcl"

// Color Control attribute IDs.
const (
	AttrCurrentHue        uint16 = 0x0000
	AttrCurrentSaturation uint16 = 0x0001
	AttrCurrentX          uint16 = 0x0003
	AttrCurrentY          uint16 = 0x0004
	AttrColorTemperature  uint16 = 0x0007
	AttrColorMode         uint16 = 0x0008
	AttrEnhancedHue       uint16 = 0x4000
)

// Color Control command IDs.
const (
	CmdMoveToHueAndSaturation         uint8 = 0x06
	CmdMoveToColor                    uint8 = 0x07
	CmdMoveToColorTemperature         uint8 = 0x0A
	CmdEnhancedMoveToHueAndSaturation uint8 = 0x43
)

var ColorControl = zcl.ClusterDef{
	ID:   ColorControlID,
	Name: "lightingColorCtrl",
	Attributes: []zcl.AttributeDef{
		{ID: AttrCurrentHue, Name: "currentHue", Type: zcl.TypeUint8, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrCurrentSaturation, Name: "currentSaturation", Type: zcl.TypeUint8, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrCurrentX, Name: "currentX", Type: zcl.TypeUint16, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrCurrentY, Name: "currentY", Type: zcl.TypeUint16, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrColorTemperature, Name: "colorTemperature", Type: zcl.TypeUint16, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrColorMode, Name: "colorMode", Type: zcl.TypeEnum8, Access: zcl.AccessRead},
		{ID: AttrEnhancedHue, Name: "enhancedCurrentHue", Type: zcl.TypeUint16, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: 0x400B, Name: "colorTempPhysicalMin", Type: zcl.TypeUint16, Access: zcl.AccessRead},
		{ID: 0x400C, Name: "colorTempPhysicalMax", Type: zcl.TypeUint16, Access: zcl.AccessRead},
	},
	Commands: []zcl.CommandDef{
		{ID: CmdMoveToHueAndSaturation, Name: "moveToHueAndSaturation", Direction: zcl.DirectionToServer},
		{ID: CmdMoveToColor, Name: "moveToColor", Direction: zcl.DirectionToServer},
		{ID: CmdMoveToColorTemperature, Name: "moveToColorTemp", Direction: zcl.DirectionToServer},
		{ID: CmdEnhancedMoveToHueAndSaturation, Name: "enhancedMoveToHueAndSaturation", Direction: zcl.DirectionToServer},
	},
}
