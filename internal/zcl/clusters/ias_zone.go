package clusters

import "zigbee-aduro/internal/zcl"

// IAS Zone attribute IDs.
const (
	AttrZoneState  uint16 = 0x0000
	AttrZoneStatus uint16 = 0x0002
	AttrIASCIEAddr uint16 = 0x0010
	AttrZoneID     uint16 = 0x0011
)

// IAS Zone command IDs (server to client).
const (
	CmdZoneStatusChangeNotification uint8 = 0x00
	CmdZoneEnrollRequest            uint8 = 0x01
)

var IASZone = zcl.ClusterDef{
	ID:   IASZoneID,
	Name: "ssIasZone",
	Attributes: []zcl.AttributeDef{
		{ID: AttrZoneState, Name: "zoneState", Type: zcl.TypeEnum8, Access: zcl.AccessRead},
		{ID: 0x0001, Name: "zoneType", Type: zcl.TypeEnum16, Access: zcl.AccessRead},
		{ID: AttrZoneStatus, Name: "zoneStatus", Type: zcl.TypeBitmap16, Access: zcl.AccessRead | zcl.AccessReport},
		{ID: AttrIASCIEAddr, Name: "iasCieAddr", Type: zcl.TypeEUI64, Access: zcl.AccessRead | zcl.AccessWrite},
		{ID: AttrZoneID, Name: "zoneId", Type: zcl.TypeUint8, Access: zcl.AccessRead},
	},
	Commands: []zcl.CommandDef{
		{ID: 0x00, Name: "enrollRsp", Direction: zcl.DirectionToServer},
		{ID: CmdZoneStatusChangeNotification, Name: "statusChangeNotification", Direction: zcl.DirectionToClient},
		{ID: CmdZoneEnrollRequest, Name: "enrollReq", Direction: zcl.DirectionToClient},
	},
}
