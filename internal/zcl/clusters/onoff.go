package clusters

import "zigbee-aduro/internal/zcl"

// On/Off attribute IDs.
const (
	AttrOnOff        uint16 = 0x0000
	AttrStartUpOnOff uint16 = 0x4003
)

// On/Off command IDs.
const (
	CmdOff    uint8 = 0x00
	CmdOn     uint8 = 0x01
	CmdToggle uint8 = 0x02
)

var OnOff = zcl.ClusterDef{
	ID:   OnOffID,
	Name: "genOnOff",
	Attributes: []zcl.AttributeDef{
		{ID: AttrOnOff, Name: "onOff", Type: zcl.TypeBool, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrStartUpOnOff, Name: "startUpOnOff", Type: zcl.TypeEnum8, Access: zcl.AccessRead | zcl.AccessWrite},
	},
	Commands: []zcl.CommandDef{
		{ID: CmdOff, Name: "off", Direction: zcl.DirectionToServer},
		{ID: CmdOn, Name: "on", Direction: zcl.DirectionToServer},
		{ID: CmdToggle, Name: "toggle", Direction: zcl.DirectionToServer},
	},
}
