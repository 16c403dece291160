// Package codec implements table-driven codecs for manufacturer-specific
// attributes. Each Spec row yields a decoder, a set/get encoder, an exposed
// capability and a priming read; the tables are immutable once built and
// shared across devices without locking.
package codec

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"zigbee-aduro/internal/converter"
	"zigbee-aduro/internal/expose"
	"zigbee-aduro/internal/host"
	"zigbee-aduro/internal/zcl"
)

// NumericSuffix is appended to a key for the raw wire value.
const NumericSuffix = "_numeric"

// Value is one label of an enumerated attribute.
type Value struct {
	Raw   int64  `json:"raw" yaml:"raw"`
	Label string `json:"label" yaml:"label"`
}

// Range bounds a numeric attribute. Bounds are enforced by the exposed
// capability, not by the codec.
type Range struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step,omitempty" yaml:"step,omitempty"`
}

// Spec is one row of an attribute table.
type Spec struct {
	Cluster     uint16        `json:"cluster" yaml:"cluster"`
	ID          uint16        `json:"id" yaml:"id"`
	Type        uint8         `json:"type" yaml:"type"`
	Key         string        `json:"key" yaml:"key"`
	Label       string        `json:"label,omitempty" yaml:"label,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Access      expose.Access `json:"access,omitempty" yaml:"access,omitempty"` // zero means state|set
	Values      []Value       `json:"values,omitempty" yaml:"values,omitempty"`
	Range       *Range        `json:"range,omitempty" yaml:"range,omitempty"`
	Unit        string        `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Vendor qualifies every request a codec issues.
type Vendor struct {
	ManufacturerCode uint16 `json:"manufacturer_code" yaml:"manufacturer_code"`
	Endpoint         uint8  `json:"endpoint" yaml:"endpoint"`
}

// withDefaults fills the canonical endpoint.
func (v Vendor) withDefaults() Vendor {
	if v.Endpoint == 0 {
		v.Endpoint = 1
	}
	return v
}

func (v Vendor) options() host.Options {
	return host.Options{ManufacturerCode: v.ManufacturerCode}
}

// ErrInvalidSpec is returned for malformed attribute tables.
var ErrInvalidSpec = errors.New("invalid attribute spec")

// Codec is the bidirectional mapping of one attribute.
type Codec struct {
	spec        Spec
	vendor      Vendor
	labels      []string
	valueMap    map[int64]string
	valueLookup map[string]int64
}

// New validates spec and builds its codec. Labels must map one to one onto
// raw values and may not look like integers, which would shadow the integer
// fallback of Set.
func New(spec Spec, vendor Vendor) (*Codec, error) {
	fail := func(format string, args ...any) (*Codec, error) {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidSpec, spec.Key, fmt.Sprintf(format, args...))
	}
	if spec.Key == "" {
		return nil, fmt.Errorf("%w: attribute 0x%04X has no key", ErrInvalidSpec, spec.ID)
	}
	if zcl.TypeSize(spec.Type) <= 0 || spec.Type == zcl.TypeEUI64 || spec.Type == zcl.TypeFloat32 {
		return fail("wire type %s is not integral", zcl.TypeName(spec.Type))
	}
	if len(spec.Values) > 0 && spec.Range != nil {
		return fail("both values and range set")
	}
	if spec.Range != nil && spec.Range.Min > spec.Range.Max {
		return fail("range min %v above max %v", spec.Range.Min, spec.Range.Max)
	}
	if spec.Access == 0 {
		spec.Access = expose.AccessStateSet
	}

	c := &Codec{spec: spec, vendor: vendor.withDefaults()}
	if len(spec.Values) > 0 {
		c.valueMap = make(map[int64]string, len(spec.Values))
		c.valueLookup = make(map[string]int64, len(spec.Values))
		for _, v := range spec.Values {
			if v.Label == "" {
				return fail("empty label for raw %d", v.Raw)
			}
			if _, err := strconv.ParseInt(v.Label, 10, 64); err == nil {
				return fail("label %q is an integer literal", v.Label)
			}
			if _, dup := c.valueMap[v.Raw]; dup {
				return fail("duplicate raw value %d", v.Raw)
			}
			if _, dup := c.valueLookup[v.Label]; dup {
				return fail("duplicate label %q", v.Label)
			}
			if err := c.fits(v.Raw); err != nil {
				return fail("label %q: %v", v.Label, err)
			}
			c.valueMap[v.Raw] = v.Label
			c.valueLookup[v.Label] = v.Raw
			c.labels = append(c.labels, v.Label)
		}
		c.spec.Values = append([]Value(nil), spec.Values...)
	}
	if spec.Range != nil {
		r := *spec.Range
		c.spec.Range = &r
	}
	return c, nil
}

func (c *Codec) Key() string { return c.spec.Key }

// Spec returns a copy of the row the codec was built from.
func (c *Codec) Spec() Spec {
	s := c.spec
	s.Values = append([]Value(nil), c.spec.Values...)
	if c.spec.Range != nil {
		r := *c.spec.Range
		s.Range = &r
	}
	return s
}

func (c *Codec) Vendor() Vendor { return c.vendor }

// Enumerated reports whether the attribute has a label table.
func (c *Codec) Enumerated() bool { return c.valueMap != nil }

// Labels returns the accepted labels in table order.
func (c *Codec) Labels() []string { return append([]string(nil), c.labels...) }

// fits checks that raw is representable in the wire type.
func (c *Codec) fits(raw int64) error {
	if c.spec.Type == zcl.TypeBool && raw != 0 && raw != 1 {
		return fmt.Errorf("%d is not a boolean", raw)
	}
	_, err := zcl.EncodeValue(c.spec.Type, raw)
	return err
}

// Decode extracts the attribute from msg. It returns nil when msg does not
// carry the attribute, so an absent attribute is never reported as zero.
// Wire values without a label decode to converter.Unknown; the raw value is
// always kept under the numeric key.
func (c *Codec) Decode(msg host.Message) map[string]any {
	if msg.Cluster != c.spec.Cluster {
		return nil
	}
	v, ok := msg.Attribute(c.spec.ID)
	if !ok {
		return nil
	}
	raw, isInt := zcl.ToInt64(v)
	var shadow any = v
	if isInt {
		shadow = raw
	}

	out := map[string]any{c.spec.Key + NumericSuffix: shadow}
	if c.Enumerated() {
		label, known := c.valueMap[raw]
		if !isInt || !known {
			label = converter.Unknown
		}
		out[c.spec.Key] = label
	}
	return out
}

// resolve turns a user value into the raw wire value.
func (c *Codec) resolve(value any) (int64, error) {
	invalid := func(reason string) error {
		return &converter.InvalidValueError{Key: c.spec.Key, Value: value, Accepted: c.Labels(), Reason: reason}
	}

	var raw int64
	switch v := value.(type) {
	case string:
		if r, ok := c.valueLookup[v]; ok {
			raw = r
			break
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			if c.Enumerated() {
				return 0, invalid("")
			}
			return 0, invalid("not an integer")
		}
		raw = n
	case bool:
		return 0, invalid("booleans are not accepted")
	default:
		n, ok := zcl.ToInt64(value)
		if !ok {
			if f, isFloat := value.(float64); isFloat && f != math.Trunc(f) {
				return 0, invalid("not an integer")
			}
			return 0, invalid(fmt.Sprintf("unsupported type %T", value))
		}
		raw = n
	}

	if err := c.fits(raw); err != nil {
		return 0, invalid(err.Error())
	}
	return raw, nil
}

// Set resolves value and writes it with the vendor qualifier. Enumerations
// accept a label or an integer literal. Nothing is written when value cannot
// be resolved. The returned state holds the label when raw has one.
func (c *Codec) Set(ctx context.Context, w host.AttributeWriter, value any) (map[string]any, error) {
	raw, err := c.resolve(value)
	if err != nil {
		return nil, err
	}
	rec := host.WriteRecord{AttrID: c.spec.ID, DataType: c.spec.Type, Value: raw}
	if err := w.Write(ctx, c.spec.Cluster, []host.WriteRecord{rec}, c.vendor.options()); err != nil {
		return nil, fmt.Errorf("%s: write: %w", c.spec.Key, err)
	}

	var state any = raw
	if c.Enumerated() {
		state = value
		if label, ok := c.valueMap[raw]; ok {
			state = label
		}
	}
	return map[string]any{c.spec.Key: state}, nil
}

// Get requests the current value. The reply is decoded by Decode.
func (c *Codec) Get(ctx context.Context, r host.AttributeReader) error {
	if !c.spec.Access.Has(expose.AccessGet) {
		return fmt.Errorf("%s: %w", c.spec.Key, converter.ErrGetUnsupported)
	}
	return c.read(ctx, r)
}

// Prime reads the attribute so its value is known before first use. Any
// access mode may be primed.
func (c *Codec) Prime(ctx context.Context, r host.AttributeReader) error {
	return c.read(ctx, r)
}

func (c *Codec) read(ctx context.Context, r host.AttributeReader) error {
	if err := r.Read(ctx, c.spec.Cluster, []uint16{c.spec.ID}, c.vendor.options()); err != nil {
		return &converter.ReadError{Key: c.spec.Key, Cluster: c.spec.Cluster, Attribute: c.spec.ID, Err: err}
	}
	return nil
}

// Expose returns the exposed capability of the attribute.
func (c *Codec) Expose() expose.Feature {
	var f expose.Feature
	if c.Enumerated() {
		f = expose.Enum(c.spec.Key, c.spec.Access, c.Labels()...)
	} else {
		f = expose.Numeric(c.spec.Key, c.spec.Access)
		if r := c.spec.Range; r != nil {
			f = f.WithRange(r.Min, r.Max)
			if r.Step > 0 {
				f = f.WithStep(r.Step)
			}
		}
	}
	if c.spec.Label != "" {
		f = f.WithLabel(c.spec.Label)
	}
	if c.spec.Description != "" {
		f = f.WithDescription(c.spec.Description)
	}
	if c.spec.Unit != "" {
		f = f.WithUnit(c.spec.Unit)
	}
	return f
}

// FromZigbee adapts Decode to the converter model.
func (c *Codec) FromZigbee() converter.FromZigbee {
	return converter.FromZigbee{
		Name:    c.spec.Key,
		Cluster: c.spec.Cluster,
		Types:   []host.MessageType{host.AttributeReport, host.ReadResponse},
		Convert: func(msg host.Message, _ *converter.Meta) map[string]any {
			return c.Decode(msg)
		},
	}
}

// ToZigbee adapts Set and Get to the converter model, pinned to the vendor endpoint.
func (c *Codec) ToZigbee() converter.ToZigbee {
	tz := converter.ToZigbee{
		Name:     c.spec.Key,
		Keys:     []string{c.spec.Key},
		Endpoint: c.vendor.Endpoint,
		Set: func(ctx context.Context, e host.Entity, _ string, value any, _ *converter.Meta) (map[string]any, error) {
			return c.Set(ctx, e, value)
		},
	}
	if c.spec.Access.Has(expose.AccessGet) {
		tz.Get = func(ctx context.Context, e host.Entity, _ string, _ *converter.Meta) error {
			return c.Get(ctx, e)
		}
	}
	return tz
}
