//go:build !no_mqtt

package mqtt

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"zigbee-aduro/internal/catalog"
	"zigbee-aduro/internal/expose"
)

// Device is the joined device a discovery set is built for.
type Device struct {
	IEEEAddress  string
	FriendlyName string
}

// Message is one retained discovery publication. An empty payload removes
// the entity.
type Message struct {
	Topic   string
	Payload []byte
}

// haDevice is the "device" block in HA discovery.
type haDevice struct {
	Identifiers  []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name"`
}

// haDiscovery is a generic HA discovery payload.
type haDiscovery struct {
	Name                string   `json:"name"`
	UniqueID            string   `json:"unique_id"`
	StateTopic          string   `json:"state_topic"`
	CommandTopic        string   `json:"command_topic,omitempty"`
	CommandTemplate     string   `json:"command_template,omitempty"`
	AvailabilityTopic   string   `json:"availability_topic"`
	ValueTemplate       string   `json:"value_template,omitempty"`
	UnitOfMeasurement   string   `json:"unit_of_measurement,omitempty"`
	DeviceClass         string   `json:"device_class,omitempty"`
	StateClass          string   `json:"state_class,omitempty"`
	EntityCategory      string   `json:"entity_category,omitempty"`
	PayloadOn           string   `json:"payload_on,omitempty"`
	PayloadOff          string   `json:"payload_off,omitempty"`
	Options             []string `json:"options,omitempty"`
	Min                 *float64 `json:"min,omitempty"`
	Max                 *float64 `json:"max,omitempty"`
	Step                *float64 `json:"step,omitempty"`
	Mode                string   `json:"mode,omitempty"`
	Brightness          bool     `json:"brightness,omitempty"`
	BrightnessScale     int      `json:"brightness_scale,omitempty"`
	SupportedColorModes []string `json:"supported_color_modes,omitempty"`
	MinMireds           *float64 `json:"min_mireds,omitempty"`
	MaxMireds           *float64 `json:"max_mireds,omitempty"`
	Schema              string   `json:"schema,omitempty"`
	Device              haDevice `json:"device"`
}

// sensorClasses maps measured properties to HA device classes.
var sensorClasses = map[string]string{
	"power":   "power",
	"voltage": "voltage",
	"current": "current",
	"battery": "battery",
}

// builder holds what every entity of one device shares.
type builder struct {
	cfg          Config
	nodeID       string
	displayName  string
	stateTopic   string
	commandTopic string
	avail        string
	device       haDevice
}

func newBuilder(def *catalog.DeviceDefinition, dev Device, cfg Config) builder {
	cfg = cfg.withDefaults()
	name := dev.FriendlyName
	if name == "" {
		name = def.Vendor + " " + def.Model
	}
	nodeID := "zigbee_" + dev.IEEEAddress
	base := cfg.TopicPrefix + "/" + topicName(dev)
	return builder{
		cfg:          cfg,
		nodeID:       nodeID,
		displayName:  name,
		stateTopic:   base,
		commandTopic: base + "/set",
		avail:        cfg.TopicPrefix + "/bridge/state",
		device: haDevice{
			Identifiers:  []string{nodeID},
			Manufacturer: def.Vendor,
			Model:        def.Description + " (" + def.Model + ")",
			Name:         name,
		},
	}
}

// topicName returns the topic name for a device (friendly name or IEEE).
func topicName(dev Device) string {
	if dev.FriendlyName == "" {
		return dev.IEEEAddress
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, strings.ToLower(dev.FriendlyName))
}

func (b builder) topic(component, objectID string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", b.cfg.DiscoveryPrefix, component, b.nodeID, objectID)
}

func (b builder) base(objectID, suffix string) haDiscovery {
	name := b.displayName
	if suffix != "" {
		name += " " + suffix
	}
	return haDiscovery{
		Name:              name,
		UniqueID:          b.nodeID + "_" + objectID,
		StateTopic:        b.stateTopic,
		AvailabilityTopic: b.avail,
		Device:            b.device,
	}
}

// BuildDiscovery generates HA discovery messages for every exposed capability
// of def. Composite features have no HA counterpart and are skipped.
func BuildDiscovery(def *catalog.DeviceDefinition, dev Device, cfg Config) []Message {
	b := newBuilder(def, dev, cfg)
	var msgs []Message
	for _, f := range def.Exposes {
		if m, ok := b.build(f); ok {
			msgs = append(msgs, m)
		}
	}
	// Link quality sensor for all devices.
	msgs = append(msgs, b.sensor(expose.LinkQuality()))
	return msgs
}

// BuildRemoveDiscovery generates empty retained messages that remove every
// entity BuildDiscovery announces.
func BuildRemoveDiscovery(def *catalog.DeviceDefinition, dev Device, cfg Config) []Message {
	msgs := BuildDiscovery(def, dev, cfg)
	for i := range msgs {
		msgs[i].Payload = nil
	}
	return msgs
}

func (b builder) build(f expose.Feature) (Message, bool) {
	switch f.Type {
	case expose.KindLight:
		return b.light(f), true
	case expose.KindSwitch:
		return b.switchEntity("switch", "", `{{ value_json.state }}`, ""), true
	case expose.KindBinary:
		if f.Access.Has(expose.AccessSet) {
			return b.binarySwitch(f), true
		}
		return b.binarySensor(f), true
	case expose.KindEnum:
		if f.Access.Has(expose.AccessSet) {
			return b.selectEntity(f), true
		}
		return b.sensor(f), true
	case expose.KindNumeric:
		if f.Access.Has(expose.AccessSet) {
			return b.number(f), true
		}
		return b.sensor(f), true
	}
	return Message{}, false
}

func (b builder) light(f expose.Feature) Message {
	p := b.base("light", "")
	p.CommandTopic = b.commandTopic
	p.Schema = "json"

	var modes []string
	for _, sub := range f.Features {
		switch {
		case sub.Property == "brightness":
			p.Brightness = true
			p.BrightnessScale = 254
		case sub.Property == "color_temp":
			modes = append(modes, "color_temp")
			p.MinMireds, p.MaxMireds = sub.ValueMin, sub.ValueMax
		case sub.Name == "color_xy":
			modes = append(modes, "xy")
		case sub.Name == "color_hs":
			modes = append(modes, "hs")
		}
	}
	if len(modes) == 0 {
		modes = []string{"onoff"}
		if p.Brightness {
			modes = []string{"brightness"}
		}
	}
	p.SupportedColorModes = modes
	return Message{Topic: b.topic("light", "light"), Payload: mustJSON(p)}
}

func (b builder) switchEntity(objectID, suffix, valueTmpl, cmdTmpl string) Message {
	p := b.base(objectID, suffix)
	p.CommandTopic = b.commandTopic
	p.CommandTemplate = cmdTmpl
	p.ValueTemplate = valueTmpl
	p.PayloadOn = "ON"
	p.PayloadOff = "OFF"
	return Message{Topic: b.topic("switch", objectID), Payload: mustJSON(p)}
}

// binarySwitch maps a writable binary feature, e.g. a siren alarm.
func (b builder) binarySwitch(f expose.Feature) Message {
	return b.switchEntity(f.Property, label(f),
		fmt.Sprintf(`{{ value_json.%s }}`, f.Property),
		fmt.Sprintf(`{"%s": "{{ value }}"}`, f.Property))
}

func (b builder) binarySensor(f expose.Feature) Message {
	p := b.base(f.Property, label(f))
	p.PayloadOn = "ON"
	p.PayloadOff = "OFF"
	if on, ok := f.ValueOn.(string); ok {
		p.PayloadOn = on
		if off, ok := f.ValueOff.(string); ok {
			p.PayloadOff = off
		}
		p.ValueTemplate = fmt.Sprintf(`{{ value_json.%s }}`, f.Property)
	} else {
		p.ValueTemplate = fmt.Sprintf(`{{ 'ON' if value_json.%s else 'OFF' }}`, f.Property)
	}
	switch f.Property {
	case "tamper":
		p.DeviceClass = "tamper"
	case "battery_low":
		p.DeviceClass = "battery"
	}
	p.EntityCategory = category(f)
	return Message{Topic: b.topic("binary_sensor", f.Property), Payload: mustJSON(p)}
}

func (b builder) selectEntity(f expose.Feature) Message {
	p := b.base(f.Property, label(f))
	p.CommandTopic = b.commandTopic
	p.CommandTemplate = fmt.Sprintf(`{"%s": "{{ value }}"}`, f.Property)
	p.ValueTemplate = fmt.Sprintf(`{{ value_json.%s }}`, f.Property)
	p.Options = slices.Clone(f.Values)
	p.EntityCategory = "config"
	return Message{Topic: b.topic("select", f.Property), Payload: mustJSON(p)}
}

func (b builder) number(f expose.Feature) Message {
	p := b.base(f.Property, label(f))
	p.CommandTopic = b.commandTopic
	p.CommandTemplate = fmt.Sprintf(`{"%s": {{ value }}}`, f.Property)
	p.ValueTemplate = fmt.Sprintf(`{{ value_json.%s }}`, f.Property)
	p.Min, p.Max, p.Step = f.ValueMin, f.ValueMax, f.ValueStep
	p.UnitOfMeasurement = f.Unit
	p.Mode = "box"
	p.EntityCategory = "config"
	return Message{Topic: b.topic("number", f.Property), Payload: mustJSON(p)}
}

func (b builder) sensor(f expose.Feature) Message {
	p := b.base(f.Property, label(f))
	p.ValueTemplate = fmt.Sprintf(`{{ value_json.%s }}`, f.Property)
	p.UnitOfMeasurement = f.Unit
	p.EntityCategory = category(f)
	if f.Type == expose.KindNumeric {
		p.DeviceClass = sensorClasses[f.Property]
		p.StateClass = "measurement"
	}
	return Message{Topic: b.topic("sensor", f.Property), Payload: mustJSON(p)}
}

// label is the entity name suffix: the feature label or its humanized property.
func label(f expose.Feature) string {
	if f.Label != "" {
		return f.Label
	}
	words := strings.Split(f.Property, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func category(f expose.Feature) string {
	if f.Category == "diagnostic" {
		return "diagnostic"
	}
	return ""
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
