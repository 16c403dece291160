package expose

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAccess(t *testing.T) {
	assert.Equal(t, Access(7), AccessAll)
	assert.Equal(t, Access(3), AccessStateSet)
	assert.True(t, AccessAll.Has(AccessGet))
	assert.False(t, AccessStateSet.Has(AccessGet))
	assert.Equal(t, "state|set", AccessStateSet.String())
	assert.Equal(t, "none", Access(0).String())
}

func TestNumericRangeBoundaries(t *testing.T) {
	f := Numeric("dimmer_min_brightness_level", AccessStateSet).WithRange(1, 100).WithStep(1)

	for _, v := range []any{1, 100, int64(50), "1", 100.0} {
		assert.NoError(t, f.Validate(v), "value %v", v)
	}
	for _, v := range []any{0, 101, "101", -1} {
		err := f.Validate(v)
		assert.ErrorIs(t, err, ErrOutOfRange, "value %v", v)
		var rangeErr *RangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "dimmer_min_brightness_level", rangeErr.Property)
	}
	assert.ErrorIs(t, f.Validate("bright"), ErrNotAllowed)
	assert.ErrorIs(t, f.Validate(true), ErrNotAllowed)
}

func TestEnumAcceptsLabelOrInteger(t *testing.T) {
	f := Enum("dimmer_switch_mode", AccessAll, "momentary_switch", "toggle_switch", "roller_blind_switch")

	assert.NoError(t, f.Validate("toggle_switch"))
	assert.NoError(t, f.Validate("5"))
	assert.NoError(t, f.Validate(" 5 "))
	assert.NoError(t, f.Validate(2))
	assert.ErrorIs(t, f.Validate(" toggle_switch"), ErrNotAllowed)

	err := f.Validate("purple")
	assert.ErrorIs(t, err, ErrNotAllowed)
	assert.Contains(t, err.Error(), "roller_blind_switch")
	assert.ErrorIs(t, f.Validate(true), ErrNotAllowed)
}

func TestBinaryValidate(t *testing.T) {
	alarm := Binary("alarm", AccessSet, "ON", "OFF")
	assert.NoError(t, alarm.Validate("ON"))
	assert.NoError(t, alarm.Validate("off"))
	assert.ErrorIs(t, alarm.Validate("TOGGLE"), ErrNotAllowed)

	tamper := Tamper()
	assert.NoError(t, tamper.Validate(true))
	assert.ErrorIs(t, tamper.Validate("true"), ErrNotAllowed)
}

func TestCompositeValidate(t *testing.T) {
	w := Warning()
	assert.NoError(t, w.Validate(map[string]any{"mode": "burglar", "duration": 10}))
	assert.ErrorIs(t, w.Validate(map[string]any{"strobe_duty_cycle": 11}), ErrOutOfRange)
	assert.ErrorIs(t, w.Validate("burglar"), ErrNotAllowed)
}

func TestWritable(t *testing.T) {
	assert.NoError(t, Numeric("max_duration", AccessAll).Writable())
	assert.ErrorIs(t, Power().Writable(), ErrReadOnly)
	assert.NoError(t, Switch().Writable())
}

func TestFindAndProperties(t *testing.T) {
	features := []Feature{
		Light().Brightness().ColorTemp(153, 500).ColorXY().ColorHS().Build(),
		Power(),
	}

	assert.Equal(t, []string{"state", "brightness", "color_temp", "color", "power"}, Properties(features))

	f, ok := Find(features, "color_temp")
	require.True(t, ok)
	assert.Equal(t, 153.0, *f.ValueMin)
	assert.Equal(t, 500.0, *f.ValueMax)

	f, ok = Find(features, "color")
	require.True(t, ok)
	assert.Equal(t, KindComposite, f.Type)
	assert.Equal(t, "color_xy", f.Name)

	_, ok = Find(features, "x")
	assert.False(t, ok)
}

func TestBuildersDoNotAlias(t *testing.T) {
	base := Numeric("n", AccessState).WithPreset("a", 1, "")
	one := base.WithPreset("b", 2, "")
	two := base.WithPreset("c", 3, "")
	assert.Len(t, base.Presets, 1)
	assert.Equal(t, "b", one.Presets[1].Name)
	assert.Equal(t, "c", two.Presets[1].Name)
}

func TestJSONShape(t *testing.T) {
	f := Numeric("dimmer_manual_dimming_time", AccessStateSet).
		WithUnit("ms").WithRange(100, 10000).WithStep(100).WithLabel("Manual Dimming Time")

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "numeric",
		"name": "dimmer_manual_dimming_time",
		"label": "Manual Dimming Time",
		"property": "dimmer_manual_dimming_time",
		"access": 3,
		"unit": "ms",
		"value_min": 100,
		"value_max": 10000,
		"value_step": 100
	}`, string(data))
}

func TestAccessYAML(t *testing.T) {
	var v struct {
		A Access `yaml:"a"`
		B Access `yaml:"b"`
		C Access `yaml:"c"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: all\nb: 3\nc: state | get\n"), &v))
	assert.Equal(t, AccessAll, v.A)
	assert.Equal(t, AccessStateSet, v.B)
	assert.Equal(t, AccessStateGet, v.C)

	assert.Error(t, yaml.Unmarshal([]byte("a: everything\n"), &v))
}
