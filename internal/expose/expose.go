// Package expose describes the capabilities a device exposes to users: the
// property names, their kinds, access and value constraints. The JSON shape
// follows the zigbee2mqtt exposes format so existing frontends can read it.
package expose

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Access is a bitmask of the operations a property supports.
type Access uint8

const (
	AccessState Access = 1 << iota // published in device state
	AccessSet                      // writable
	AccessGet                      // readable on request

	AccessStateSet = AccessState | AccessSet
	AccessStateGet = AccessState | AccessGet
	AccessAll      = AccessState | AccessSet | AccessGet
)

// Has reports whether all bits of b are set.
func (a Access) Has(b Access) bool { return a&b == b }

func (a Access) String() string {
	var parts []string
	if a.Has(AccessState) {
		parts = append(parts, "state")
	}
	if a.Has(AccessSet) {
		parts = append(parts, "set")
	}
	if a.Has(AccessGet) {
		parts = append(parts, "get")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

var accessNames = map[string]Access{
	"state":     AccessState,
	"set":       AccessSet,
	"get":       AccessGet,
	"state_set": AccessStateSet,
	"state_get": AccessStateGet,
	"all":       AccessAll,
}

// UnmarshalYAML accepts the numeric bitmask or a name such as "all" or
// "state_set". Names may be combined with "|".
func (a *Access) UnmarshalYAML(node *yaml.Node) error {
	if n, err := strconv.ParseUint(node.Value, 0, 8); err == nil {
		*a = Access(n)
		return nil
	}
	var out Access
	for _, part := range strings.Split(node.Value, "|") {
		bits, ok := accessNames[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return fmt.Errorf("line %d: unknown access %q", node.Line, part)
		}
		out |= bits
	}
	*a = out
	return nil
}

// Kind is the feature type.
type Kind string

const (
	KindBinary    Kind = "binary"
	KindNumeric   Kind = "numeric"
	KindEnum      Kind = "enum"
	KindComposite Kind = "composite"
	KindLight     Kind = "light"
	KindSwitch    Kind = "switch"
)

// Preset is a named shortcut value of a numeric feature.
type Preset struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Description string  `json:"description,omitempty"`
}

// Feature is one exposed capability. Light, switch and composite features
// group sub-features; the others are leaves addressed by Property.
type Feature struct {
	Type        Kind      `json:"type"`
	Name        string    `json:"name,omitempty"`
	Label       string    `json:"label,omitempty"`
	Property    string    `json:"property,omitempty"`
	Access      Access    `json:"access,omitempty"`
	Description string    `json:"description,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	Category    string    `json:"category,omitempty"`
	Values      []string  `json:"values,omitempty"`
	ValueMin    *float64  `json:"value_min,omitempty"`
	ValueMax    *float64  `json:"value_max,omitempty"`
	ValueStep   *float64  `json:"value_step,omitempty"`
	ValueOn     any       `json:"value_on,omitempty"`
	ValueOff    any       `json:"value_off,omitempty"`
	ValueToggle any       `json:"value_toggle,omitempty"`
	Presets     []Preset  `json:"presets,omitempty"`
	Features    []Feature `json:"features,omitempty"`
}

// Binary creates a two-state feature.
func Binary(name string, access Access, on, off any) Feature {
	return Feature{Type: KindBinary, Name: name, Property: name, Access: access, ValueOn: on, ValueOff: off}
}

// Numeric creates a numeric feature.
func Numeric(name string, access Access) Feature {
	return Feature{Type: KindNumeric, Name: name, Property: name, Access: access}
}

// Enum creates an enumerated feature with the given labels, in order.
func Enum(name string, access Access, values ...string) Feature {
	return Feature{Type: KindEnum, Name: name, Property: name, Access: access, Values: values}
}

// Composite groups features under one property.
func Composite(name, property string, access Access, features ...Feature) Feature {
	return Feature{Type: KindComposite, Name: name, Property: property, Access: access, Features: features}
}

func (f Feature) WithLabel(label string) Feature {
	f.Label = label
	return f
}

func (f Feature) WithDescription(desc string) Feature {
	f.Description = desc
	return f
}

func (f Feature) WithUnit(unit string) Feature {
	f.Unit = unit
	return f
}

// WithRange sets inclusive bounds.
func (f Feature) WithRange(min, max float64) Feature {
	f.ValueMin, f.ValueMax = &min, &max
	return f
}

func (f Feature) WithStep(step float64) Feature {
	f.ValueStep = &step
	return f
}

func (f Feature) WithToggle(value any) Feature {
	f.ValueToggle = value
	return f
}

func (f Feature) WithPreset(name string, value float64, desc string) Feature {
	f.Presets = append(append([]Preset(nil), f.Presets...), Preset{Name: name, Value: value, Description: desc})
	return f
}

func (f Feature) WithCategory(category string) Feature {
	f.Category = category
	return f
}

// WithFeature appends a sub-feature.
func (f Feature) WithFeature(sub Feature) Feature {
	f.Features = append(append([]Feature(nil), f.Features...), sub)
	return f
}

// Properties returns every addressable property in features: leaves and
// composites, including those nested inside lights and switches. Each
// property is listed once.
func Properties(features []Feature) []string {
	var out []string
	seen := make(map[string]bool)
	walk(features, func(f *Feature) bool {
		if f.Property != "" && !seen[f.Property] {
			seen[f.Property] = true
			out = append(out, f.Property)
		}
		return f.Type != KindComposite
	})
	return out
}

// Find returns the feature addressed by property.
func Find(features []Feature, property string) (Feature, bool) {
	var found *Feature
	walk(features, func(f *Feature) bool {
		if found == nil && f.Property == property {
			found = f
		}
		return found == nil && f.Type != KindComposite
	})
	if found == nil {
		return Feature{}, false
	}
	return *found, true
}

// walk visits features depth first. visit returns whether to descend.
func walk(features []Feature, visit func(*Feature) bool) {
	for i := range features {
		f := &features[i]
		if visit(f) && len(f.Features) > 0 {
			walk(f.Features, visit)
		}
	}
}
