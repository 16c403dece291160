package clusters

import "zigbee-aduro/internal/zcl"

const AttrCurrentLevel uint16 = 0x0000

// Level Control command IDs.
const (
	CmdMoveToLevel          uint8 = 0x00
	CmdStep                 uint8 = 0x02
	CmdMoveToLevelWithOnOff uint8 = 0x04
	CmdStepWithOnOff        uint8 = 0x06
)

var LevelControl = zcl.ClusterDef{
	ID:   LevelControlID,
	Name: "genLevelCtrl",
	Attributes: []zcl.AttributeDef{
		{ID: AttrCurrentLevel, Name: "currentLevel", Type: zcl.TypeUint8, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: 0x0010, Name: "onOffTransitionTime", Type: zcl.TypeUint16, Access: zcl.AccessRead | zcl.AccessWrite},
		{ID: 0x4000, Name: "startUpCurrentLevel", Type: zcl.TypeUint8, Access: zcl.AccessRead | zcl.AccessWrite},
	},
	Commands: []zcl.CommandDef{
		{ID: CmdMoveToLevel, Name: "moveToLevel", Direction: zcl.DirectionToServer},
		{ID: CmdStep, Name: "step", Direction: zcl.DirectionToServer},
		{ID: CmdMoveToLevelWithOnOff, Name: "moveToLevelWithOnOff", Direction: zcl.DirectionToServer},
		{ID: CmdStepWithOnOff, Name: "stepWithOnOff", Direction: zcl.DirectionToServer},
	},
}
