package converter

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strings"

	"zigbee-aduro/internal/expose"
	"zigbee-aduro/internal/host"
	"zigbee-aduro/internal/zcl"
	"zigbee-aduro/internal/zcl/clusters"
)

func readAttrs(cluster uint16, attrs ...uint16) GetFunc {
	return func(ctx context.Context, e host.Entity, key string, _ *Meta) error {
		if err := e.Read(ctx, cluster, attrs, host.Options{}); err != nil {
			re := &ReadError{Key: key, Cluster: cluster, Err: err}
			if len(attrs) > 0 {
				re.Attribute = attrs[0]
			}
			return re
		}
		return nil
	}
}

func number(key string, value any) (float64, error) {
	v, ok := expose.Number(value)
	if !ok {
		return 0, &InvalidValueError{Key: key, Value: value, Reason: "not a number"}
	}
	return v, nil
}

// transition encodes a zero transition time, tenths of a second.
var transition = []byte{0x00, 0x00}

var stateCommands = map[string]uint8{"ON": clusters.CmdOn, "OFF": clusters.CmdOff, "TOGGLE": clusters.CmdToggle}

// State switches the on/off cluster.
var State = ToZigbee{
	Name: "on_off",
	Keys: []string{"state"},
	Set: func(ctx context.Context, e host.Entity, key string, value any, meta *Meta) (map[string]any, error) {
		s, _ := value.(string)
		s = strings.ToUpper(s)
		cmd, ok := stateCommands[s]
		if !ok {
			return nil, &InvalidValueError{Key: key, Value: value, Accepted: []string{"ON", "OFF", "TOGGLE"}}
		}
		if err := e.Command(ctx, clusters.OnOffID, cmd, nil, host.Options{}); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		if s != "TOGGLE" {
			return map[string]any{"state": s}, nil
		}
		switch prev, _ := meta.state("state"); prev {
		case "ON":
			return map[string]any{"state": "OFF"}, nil
		case "OFF":
			return map[string]any{"state": "ON"}, nil
		}
		return nil, nil
	},
	Get: readAttrs(clusters.OnOffID, clusters.AttrOnOff),
}

// LightBrightness moves to a level, switching the light on or off with it.
var LightBrightness = ToZigbee{
	Name: "light_brightness",
	Keys: []string{"brightness"},
	Set: func(ctx context.Context, e host.Entity, key string, value any, _ *Meta) (map[string]any, error) {
		v, err := number(key, value)
		if err != nil {
			return nil, err
		}
		level := int64(math.Round(math.Max(0, math.Min(254, v))))
		payload := append([]byte{byte(level)}, transition...)
		if err := e.Command(ctx, clusters.LevelControlID, clusters.CmdMoveToLevelWithOnOff, payload, host.Options{}); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		state := "ON"
		if level == 0 {
			state = "OFF"
		}
		return map[string]any{"brightness": level, "state": state}, nil
	},
	Get: readAttrs(clusters.LevelControlID, clusters.AttrCurrentLevel),
}

// LightColorTemp moves to a color temperature in mireds.
var LightColorTemp = ToZigbee{
	Name: "light_colortemp",
	Keys: []string{"color_temp"},
	Set: func(ctx context.Context, e host.Entity, key string, value any, _ *Meta) (map[string]any, error) {
		v, err := number(key, value)
		if err != nil {
			return nil, err
		}
		mireds := int64(math.Round(v))
		if mireds < 0 || mireds > 0xFEFF {
			return nil, &InvalidValueError{Key: key, Value: value, Reason: "outside mired range"}
		}
		payload := binary.LittleEndian.AppendUint16(nil, uint16(mireds))
		payload = append(payload, transition...)
		if err := e.Command(ctx, clusters.ColorControlID, clusters.CmdMoveToColorTemperature, payload, host.Options{}); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return map[string]any{"color_temp": mireds, "color_mode": "color_temp"}, nil
	},
	Get: readAttrs(clusters.ColorControlID, clusters.AttrColorTemperature),
}

// ColorOptions selects the color modes a light supports.
type ColorOptions struct {
	XY          bool
	HS          bool
	EnhancedHue bool
}

// LightColor moves to an xy or hue/saturation color.
func LightColor(opts ColorOptions) ToZigbee {
	var accepted []string
	if opts.XY {
		accepted = append(accepted, "{x, y}")
	}
	if opts.HS {
		accepted = append(accepted, "{hue, saturation}")
	}
	var getAttrs []uint16
	if opts.XY {
		getAttrs = append(getAttrs, clusters.AttrCurrentX, clusters.AttrCurrentY)
	}
	if opts.HS {
		hue := clusters.AttrCurrentHue
		if opts.EnhancedHue {
			hue = clusters.AttrEnhancedHue
		}
		getAttrs = append(getAttrs, hue, clusters.AttrCurrentSaturation)
	}

	return ToZigbee{
		Name: "light_color",
		Keys: []string{"color"},
		Set: func(ctx context.Context, e host.Entity, key string, value any, _ *Meta) (map[string]any, error) {
			m, ok := value.(map[string]any)
			if !ok {
				return nil, &InvalidValueError{Key: key, Value: value, Accepted: accepted}
			}
			_, hasX := m["x"]
			_, hasHue := m["hue"]
			switch {
			case opts.XY && hasX:
				return setXY(ctx, e, key, m)
			case opts.HS && hasHue:
				return setHS(ctx, e, key, m, opts.EnhancedHue)
			}
			return nil, &InvalidValueError{Key: key, Value: value, Accepted: accepted}
		},
		Get: readAttrs(clusters.ColorControlID, getAttrs...),
	}
}

func setXY(ctx context.Context, e host.Entity, key string, m map[string]any) (map[string]any, error) {
	x, err := number(key, m["x"])
	if err != nil {
		return nil, err
	}
	y, err := number(key, m["y"])
	if err != nil {
		return nil, err
	}
	if x < 0 || x > 1 || y < 0 || y > 1 {
		return nil, &InvalidValueError{Key: key, Value: m, Reason: "x and y must be within [0, 1]"}
	}
	payload := binary.LittleEndian.AppendUint16(nil, uint16(math.Round(x*65535)))
	payload = binary.LittleEndian.AppendUint16(payload, uint16(math.Round(y*65535)))
	payload = append(payload, transition...)
	if err := e.Command(ctx, clusters.ColorControlID, clusters.CmdMoveToColor, payload, host.Options{}); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return map[string]any{"color": map[string]any{"x": x, "y": y}, "color_mode": "xy"}, nil
}

func setHS(ctx context.Context, e host.Entity, key string, m map[string]any, enhanced bool) (map[string]any, error) {
	hue, err := number(key, m["hue"])
	if err != nil {
		return nil, err
	}
	sat := 100.0
	if raw, ok := m["saturation"]; ok {
		if sat, err = number(key, raw); err != nil {
			return nil, err
		}
	}
	hue = math.Mod(math.Mod(hue, 360)+360, 360)
	sat = math.Max(0, math.Min(100, sat))
	satRaw := byte(math.Round(sat * 254 / 100))

	var payload []byte
	cmd := clusters.CmdMoveToHueAndSaturation
	if enhanced {
		cmd = clusters.CmdEnhancedMoveToHueAndSaturation
		payload = binary.LittleEndian.AppendUint16(nil, uint16(math.Round(hue*65535/360)))
		payload = append(payload, satRaw)
	} else {
		payload = []byte{byte(math.Round(hue * 254 / 360)), satRaw}
	}
	payload = append(payload, transition...)
	if err := e.Command(ctx, clusters.ColorControlID, cmd, payload, host.Options{}); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return map[string]any{"color": map[string]any{"hue": hue, "saturation": sat}, "color_mode": "hs"}, nil
}

// IASMaxDuration writes the maximum siren duration in seconds.
var IASMaxDuration = ToZigbee{
	Name: "ias_max_duration",
	Keys: []string{"max_duration"},
	Set: func(ctx context.Context, e host.Entity, key string, value any, _ *Meta) (map[string]any, error) {
		v, err := number(key, value)
		if err != nil {
			return nil, err
		}
		seconds := int64(math.Round(v))
		rec := host.WriteRecord{AttrID: clusters.AttrMaxDuration, DataType: zcl.TypeUint16, Value: seconds}
		if _, err := zcl.EncodeValue(rec.DataType, seconds); err != nil {
			return nil, &InvalidValueError{Key: key, Value: value, Reason: err.Error()}
		}
		if err := e.Write(ctx, clusters.IASWDID, []host.WriteRecord{rec}, host.Options{}); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return map[string]any{"max_duration": seconds}, nil
	},
	Get: readAttrs(clusters.IASWDID, clusters.AttrMaxDuration),
}

type warningRequest struct {
	mode, level, strobeLevel int
	strobe                   bool
	duration                 uint16
	dutyCycle                int
}

// encode builds the start warning payload:
// info(1: mode<<4 | strobe<<2 | level) + duration(2) + duty cycle(1) + strobe level(1).
func (w warningRequest) encode() []byte {
	info := byte(w.mode<<4 | w.level)
	if w.strobe {
		info |= 1 << 2
	}
	payload := binary.LittleEndian.AppendUint16([]byte{info}, w.duration)
	return append(payload, byte(w.dutyCycle*10), byte(w.strobeLevel))
}

func warningIndex(key, field string, value any, labels []string) (int, error) {
	s, _ := value.(string)
	if i := slices.Index(labels, s); i >= 0 {
		return i, nil
	}
	return 0, &InvalidValueError{Key: key + "." + field, Value: value, Accepted: labels}
}

// Warning starts the siren with a mode, level, strobe and duration.
var Warning = ToZigbee{
	Name: "warning",
	Keys: []string{"warning"},
	Set: func(ctx context.Context, e host.Entity, key string, value any, _ *Meta) (map[string]any, error) {
		m, ok := value.(map[string]any)
		if !ok {
			return nil, &InvalidValueError{Key: key, Value: value, Reason: "expected an object"}
		}
		w := warningRequest{mode: 3, level: 1, strobe: true, duration: 10}
		var err error
		if v, ok := m["mode"]; ok {
			if w.mode, err = warningIndex(key, "mode", v, expose.WarningModes); err != nil {
				return nil, err
			}
		}
		if v, ok := m["level"]; ok {
			if w.level, err = warningIndex(key, "level", v, expose.WarningLevels); err != nil {
				return nil, err
			}
		}
		if v, ok := m["strobe_level"]; ok {
			if w.strobeLevel, err = warningIndex(key, "strobe_level", v, expose.WarningLevels); err != nil {
				return nil, err
			}
		}
		if v, ok := m["strobe"]; ok {
			b, isBool := v.(bool)
			if !isBool {
				return nil, &InvalidValueError{Key: key + ".strobe", Value: v, Accepted: []string{"true", "false"}}
			}
			w.strobe = b
		}
		if v, ok := m["duration"]; ok {
			d, err := number(key+".duration", v)
			if err != nil {
				return nil, err
			}
			if d < 0 || d > math.MaxUint16 {
				return nil, &InvalidValueError{Key: key + ".duration", Value: v, Reason: "outside 0..65535"}
			}
			w.duration = uint16(d)
		}
		if v, ok := m["strobe_duty_cycle"]; ok {
			d, err := number(key+".strobe_duty_cycle", v)
			if err != nil {
				return nil, err
			}
			if d < 0 || d > 10 {
				return nil, &InvalidValueError{Key: key + ".strobe_duty_cycle", Value: v, Reason: "outside 0..10"}
			}
			w.dutyCycle = int(d)
		}
		if err := e.Command(ctx, clusters.IASWDID, clusters.CmdStartWarning, w.encode(), host.Options{}); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return nil, nil
	},
}

const defaultAlarmDuration = 300

// WarningSimple switches the siren on for the configured maximum duration
// or off.
var WarningSimple = ToZigbee{
	Name: "warning_simple",
	Keys: []string{"alarm"},
	Set: func(ctx context.Context, e host.Entity, key string, value any, meta *Meta) (map[string]any, error) {
		s, _ := value.(string)
		var w warningRequest
		switch strings.ToUpper(s) {
		case "ON":
			w = warningRequest{mode: 3, level: 3, strobe: true, duration: defaultAlarmDuration}
			if v, ok := meta.state("max_duration"); ok {
				if d, ok := expose.Number(v); ok && d > 0 && d <= math.MaxUint16 {
					w.duration = uint16(d)
				}
			}
		case "OFF":
		default:
			return nil, &InvalidValueError{Key: key, Value: value, Accepted: []string{"ON", "OFF"}}
		}
		if err := e.Command(ctx, clusters.IASWDID, clusters.CmdStartWarning, w.encode(), host.Options{}); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return nil, nil
	},
}
