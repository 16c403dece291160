package expose

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"zigbee-aduro/internal/zcl"
)

var (
	ErrOutOfRange = errors.New("value out of range")
	ErrNotAllowed = errors.New("value not allowed")
	ErrReadOnly   = errors.New("property is not writable")
)

// RangeError reports a numeric value outside a feature's bounds.
type RangeError struct {
	Property string
	Value    float64
	Min, Max *float64
}

func (e *RangeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v out of range", e.Property, e.Value)
	switch {
	case e.Min != nil && e.Max != nil:
		fmt.Fprintf(&b, " [%v, %v]", *e.Min, *e.Max)
	case e.Min != nil:
		fmt.Fprintf(&b, " (min %v)", *e.Min)
	case e.Max != nil:
		fmt.Fprintf(&b, " (max %v)", *e.Max)
	}
	return b.String()
}

func (e *RangeError) Is(target error) bool { return target == ErrOutOfRange }

// ValueError reports a value that is not one of the accepted ones.
type ValueError struct {
	Property string
	Value    any
	Allowed  []string
}

func (e *ValueError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%s: %v (%T) not allowed", e.Property, e.Value, e.Value)
	}
	return fmt.Sprintf("%s: %v not allowed, expected one of %s", e.Property, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *ValueError) Is(target error) bool { return target == ErrNotAllowed }

// Writable returns ErrReadOnly when the feature lacks set access. Light and
// switch groups are writable through their sub-features.
func (f Feature) Writable() error {
	if f.Type == KindLight || f.Type == KindSwitch || f.Access.Has(AccessSet) {
		return nil
	}
	return fmt.Errorf("%s: %w", f.Property, ErrReadOnly)
}

// Validate checks value against the feature constraints. Numeric bounds are
// inclusive; the step is advisory and not enforced. Enumerations accept an
// exact label or an integer literal, surrounding spaces allowed.
func (f Feature) Validate(value any) error {
	switch f.Type {
	case KindNumeric:
		v, ok := Number(value)
		if !ok {
			return &ValueError{Property: f.Property, Value: value}
		}
		if (f.ValueMin != nil && v < *f.ValueMin) || (f.ValueMax != nil && v > *f.ValueMax) {
			return &RangeError{Property: f.Property, Value: v, Min: f.ValueMin, Max: f.ValueMax}
		}
		return nil

	case KindEnum:
		if s, ok := value.(string); ok {
			for _, allowed := range f.Values {
				if s == allowed {
					return nil
				}
			}
			if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return nil
			}
		} else if _, isBool := value.(bool); !isBool {
			if _, ok := zcl.ToInt64(value); ok {
				return nil
			}
		}
		return &ValueError{Property: f.Property, Value: value, Allowed: f.Values}

	case KindBinary:
		for _, allowed := range []any{f.ValueOn, f.ValueOff, f.ValueToggle} {
			if allowed != nil && binaryEqual(allowed, value) {
				return nil
			}
		}
		return &ValueError{Property: f.Property, Value: value, Allowed: binaryLabels(f)}

	case KindComposite:
		m, ok := value.(map[string]any)
		if !ok {
			return &ValueError{Property: f.Property, Value: value}
		}
		for _, sub := range f.Features {
			v, present := m[sub.Property]
			if !present {
				continue
			}
			if err := sub.Validate(v); err != nil {
				return fmt.Errorf("%s: %w", f.Property, err)
			}
		}
		return nil
	}
	return nil
}

func binaryEqual(allowed, value any) bool {
	as, aok := allowed.(string)
	vs, vok := value.(string)
	if aok && vok {
		return strings.EqualFold(as, vs)
	}
	return allowed == value
}

func binaryLabels(f Feature) []string {
	var out []string
	for _, v := range []any{f.ValueOn, f.ValueOff, f.ValueToggle} {
		if v != nil {
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// Number converts numeric Go values and numeric strings to float64.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case bool:
		return 0, false
	}
	if n, ok := zcl.ToInt64(value); ok {
		return float64(n), true
	}
	return 0, false
}
