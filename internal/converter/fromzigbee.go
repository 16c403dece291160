package converter

import (
	"encoding/binary"
	"fmt"
	"math"

	"zigbee-aduro/internal/host"
	"zigbee-aduro/internal/zcl"
	"zigbee-aduro/internal/zcl/clusters"
)

var attributeMessages = []host.MessageType{host.AttributeReport, host.ReadResponse}

var commandMessages = []host.MessageType{host.ClusterCommand}

// attrInt returns attribute attr of msg as int64.
func attrInt(msg host.Message, attr uint16) (int64, bool) {
	v, ok := msg.Attribute(attr)
	if !ok {
		return 0, false
	}
	return zcl.ToInt64(v)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// OnOff reports the state of the on/off cluster.
var OnOff = FromZigbee{
	Name:    "on_off",
	Cluster: clusters.OnOffID,
	Types:   attributeMessages,
	Convert: func(msg host.Message, _ *Meta) map[string]any {
		v, ok := attrInt(msg, clusters.AttrOnOff)
		if !ok {
			return nil
		}
		if v != 0 {
			return map[string]any{"state": "ON"}
		}
		return map[string]any{"state": "OFF"}
	},
}

var Brightness = FromZigbee{
	Name:    "brightness",
	Cluster: clusters.LevelControlID,
	Types:   attributeMessages,
	Convert: func(msg host.Message, _ *Meta) map[string]any {
		v, ok := attrInt(msg, clusters.AttrCurrentLevel)
		if !ok {
			return nil
		}
		return map[string]any{"brightness": v}
	},
}

var colorModes = map[int64]string{0: "hs", 1: "xy", 2: "color_temp"}

// Color reports color temperature, xy and hue/saturation from the color
// control cluster. Enhanced hue takes precedence over the 8-bit hue.
var Color = FromZigbee{
	Name:    "color",
	Cluster: clusters.ColorControlID,
	Types:   attributeMessages,
	Convert: func(msg host.Message, _ *Meta) map[string]any {
		out := make(map[string]any)
		color := make(map[string]any)

		if v, ok := attrInt(msg, clusters.AttrColorTemperature); ok {
			out["color_temp"] = v
		}
		if v, ok := attrInt(msg, clusters.AttrColorMode); ok {
			if mode, known := colorModes[v]; known {
				out["color_mode"] = mode
			}
		}
		if v, ok := attrInt(msg, clusters.AttrCurrentX); ok {
			color["x"] = round(float64(v)/65535, 4)
		}
		if v, ok := attrInt(msg, clusters.AttrCurrentY); ok {
			color["y"] = round(float64(v)/65535, 4)
		}
		if v, ok := attrInt(msg, clusters.AttrEnhancedHue); ok {
			color["hue"] = math.Round(float64(v) * 360 / 65535)
		} else if v, ok := attrInt(msg, clusters.AttrCurrentHue); ok {
			color["hue"] = math.Round(float64(v) * 360 / 254)
		}
		if v, ok := attrInt(msg, clusters.AttrCurrentSaturation); ok {
			color["saturation"] = math.Round(float64(v) * 100 / 254)
		}

		if len(color) > 0 {
			out["color"] = color
		}
		if len(out) == 0 {
			return nil
		}
		return out
	},
}

// scaling pairs a measurement with its multiplier and divisor attributes.
type scaling struct {
	key        string
	attr       uint16
	multiplier uint16
	divisor    uint16
	places     int
}

var electricalScaling = []scaling{
	{"power", clusters.AttrActivePower, clusters.AttrACPowerMultiplier, clusters.AttrACPowerDivisor, 2},
	{"voltage", clusters.AttrRMSVoltage, clusters.AttrACVoltageMultiplier, clusters.AttrACVoltageDivisor, 2},
	{"current", clusters.AttrRMSCurrent, clusters.AttrACCurrentMultiplier, clusters.AttrACCurrentDivisor, 3},
}

// factor returns the scaling attribute from msg (caching it) or from the cache.
func factor(msg host.Message, meta *Meta, attr uint16) float64 {
	if v, ok := attrInt(msg, attr); ok && v != 0 {
		meta.cache().Store(msg.Cluster, attr, v)
		return float64(v)
	}
	if v, ok := meta.cache().Load(msg.Cluster, attr); ok {
		if n, ok := zcl.ToInt64(v); ok && n != 0 {
			return float64(n)
		}
	}
	return 1
}

// ElectricalMeasurement reports power, voltage and current scaled by the
// multiplier and divisor the device announced.
var ElectricalMeasurement = FromZigbee{
	Name:    "electrical_measurement",
	Cluster: clusters.ElectricalMeasurementID,
	Types:   attributeMessages,
	Convert: func(msg host.Message, meta *Meta) map[string]any {
		out := make(map[string]any)
		for _, s := range electricalScaling {
			mul := factor(msg, meta, s.multiplier)
			div := factor(msg, meta, s.divisor)
			v, ok := attrInt(msg, s.attr)
			if !ok {
				continue
			}
			out[s.key] = round(float64(v)*mul/div, s.places)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	},
}

// Battery reports the remaining percentage (the attribute counts half
// percents) and the voltage in millivolts.
var Battery = FromZigbee{
	Name:    "battery",
	Cluster: clusters.PowerConfigurationID,
	Types:   attributeMessages,
	Convert: func(msg host.Message, _ *Meta) map[string]any {
		out := make(map[string]any)
		if v, ok := attrInt(msg, clusters.AttrBatteryPercentageRemaining); ok && v != 0xFF {
			out["battery"] = math.Min(100, math.Round(float64(v)/2))
		}
		if v, ok := attrInt(msg, clusters.AttrBatteryVoltage); ok && v != 0xFF {
			out["voltage"] = v * 100
		}
		if len(out) == 0 {
			return nil
		}
		return out
	},
}

func action(name string) map[string]any {
	return map[string]any{"action": name}
}

func commandAction(name string, cluster uint16, cmd uint8) FromZigbee {
	return FromZigbee{
		Name:     "command_" + name,
		Cluster:  cluster,
		Types:    commandMessages,
		Commands: []uint8{cmd},
		Convert:  func(host.Message, *Meta) map[string]any { return action(name) },
	}
}

var (
	CommandOn     = commandAction("on", clusters.OnOffID, clusters.CmdOn)
	CommandOff    = commandAction("off", clusters.OnOffID, clusters.CmdOff)
	CommandToggle = commandAction("toggle", clusters.OnOffID, clusters.CmdToggle)
)

// CommandRecall reports scene recalls as recall_<scene id>.
// Payload: group(2) + scene(1).
var CommandRecall = FromZigbee{
	Name:     "command_recall",
	Cluster:  clusters.ScenesID,
	Types:    commandMessages,
	Commands: []uint8{clusters.CmdRecallScene},
	Convert: func(msg host.Message, meta *Meta) map[string]any {
		if len(msg.Payload) < 3 {
			meta.logger().Warn("short scene recall payload", "len", len(msg.Payload))
			return nil
		}
		return action(fmt.Sprintf("recall_%d", msg.Payload[2]))
	},
}

// CommandStep reports level steps as up or down with the step size.
// Payload: mode(1) + step size(1) + transition time(2).
var CommandStep = FromZigbee{
	Name:     "command_step",
	Cluster:  clusters.LevelControlID,
	Types:    commandMessages,
	Commands: []uint8{clusters.CmdStep, clusters.CmdStepWithOnOff},
	Convert: func(msg host.Message, meta *Meta) map[string]any {
		if len(msg.Payload) < 2 {
			meta.logger().Warn("short step payload", "len", len(msg.Payload))
			return nil
		}
		direction := "up"
		if msg.Payload[0] == 1 {
			direction = "down"
		}
		out := action(direction)
		out["action_step_size"] = int64(msg.Payload[1])
		if len(msg.Payload) >= 4 {
			out["action_transition_time"] = float64(binary.LittleEndian.Uint16(msg.Payload[2:4])) / 10
		}
		return out
	},
}

// Zone status bits.
const (
	zoneAlarm1     = 1 << 0
	zoneTamper     = 1 << 2
	zoneBatteryLow = 1 << 3
)

func zoneStatus(msg host.Message) (uint16, bool) {
	if msg.Type == host.ClusterCommand {
		if len(msg.Payload) < 2 {
			return 0, false
		}
		return binary.LittleEndian.Uint16(msg.Payload[:2]), true
	}
	v, ok := attrInt(msg, clusters.AttrZoneStatus)
	return uint16(v), ok
}

// IASSiren reports the siren zone status from notifications and reads.
var IASSiren = FromZigbee{
	Name:     "ias_siren",
	Cluster:  clusters.IASZoneID,
	Types:    []host.MessageType{host.ClusterCommand, host.AttributeReport, host.ReadResponse},
	Commands: []uint8{clusters.CmdZoneStatusChangeNotification},
	Convert: func(msg host.Message, _ *Meta) map[string]any {
		status, ok := zoneStatus(msg)
		if !ok {
			return nil
		}
		alarm := "OFF"
		if status&zoneAlarm1 != 0 {
			alarm = "ON"
		}
		return map[string]any{
			"alarm":       alarm,
			"tamper":      status&zoneTamper != 0,
			"battery_low": status&zoneBatteryLow != 0,
		}
	},
}

// IASEnroll logs zone enrollment requests. Enrollment itself is answered by
// the host runtime.
var IASEnroll = FromZigbee{
	Name:     "ias_enroll",
	Cluster:  clusters.IASZoneID,
	Types:    commandMessages,
	Commands: []uint8{clusters.CmdZoneEnrollRequest},
	Convert: func(msg host.Message, meta *Meta) map[string]any {
		if len(msg.Payload) >= 2 {
			meta.logger().Info("zone enroll request", "zone_type", fmt.Sprintf("0x%04X", binary.LittleEndian.Uint16(msg.Payload[:2])))
		}
		return nil
	},
}

// IASWD reports the configured maximum siren duration.
var IASWD = FromZigbee{
	Name:    "ias_wd",
	Cluster: clusters.IASWDID,
	Types:   attributeMessages,
	Convert: func(msg host.Message, _ *Meta) map[string]any {
		v, ok := attrInt(msg, clusters.AttrMaxDuration)
		if !ok {
			return nil
		}
		return map[string]any{"max_duration": v}
	},
}
