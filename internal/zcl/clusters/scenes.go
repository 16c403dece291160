package clusters

import "zigbee-aduro/internal/zcl"

const CmdRecallScene uint8 = 0x05

var Scenes = zcl.ClusterDef{
	ID:   ScenesID,
	Name: "genScenes",
	Attributes: []zcl.AttributeDef{
		{ID: 0x0000, Name: "count", Type: zcl.TypeUint8, Access: zcl.AccessRead},
		{ID: 0x0001, Name: "currentScene", Type: zcl.TypeUint8, Access: zcl.AccessRead},
	},
	Commands: []zcl.CommandDef{
		{ID: CmdRecallScene, Name: "recall", Direction: zcl.DirectionToServer},
	},
}
