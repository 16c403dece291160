package clusters

import "zigbee-aduro/internal/zcl"

const AttrMaxDuration uint16 = 0x0000

const CmdStartWarning uint8 = 0x00

var IASWD = zcl.ClusterDef{
	ID:   IASWDID,
	Name: "ssIasWd",
	Attributes: []zcl.AttributeDef{
		{ID: AttrMaxDuration, Name: "maxDuration", Type: zcl.TypeUint16, Access: zcl.AccessRead | zcl.AccessWrite},
	},
	Commands: []zcl.CommandDef{
		{ID: CmdStartWarning, Name: "startWarning", Direction: zcl.DirectionToServer},
		{ID: 0x01, Name: "squawk", Direction: zcl.DirectionToServer},
	},
}
