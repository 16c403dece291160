package expose

// Standard feature presets shared by device definitions.

func Battery() Feature {
	return Numeric("battery", AccessStateGet).
		WithUnit("%").
		WithRange(0, 100).
		WithDescription("Remaining battery in %").
		WithCategory("diagnostic")
}

func BatteryLow() Feature {
	return Binary("battery_low", AccessState, true, false).
		WithDescription("Indicates if the battery of this device is almost empty").
		WithCategory("diagnostic")
}

// Action reports remote button events.
func Action(values ...string) Feature {
	return Enum("action", AccessState, values...).
		WithDescription("Triggered action (e.g. a button click)")
}

func Switch() Feature {
	state := Binary("state", AccessAll, "ON", "OFF").
		WithToggle("TOGGLE").
		WithDescription("On/off state of the switch")
	return Feature{Type: KindSwitch, Features: []Feature{state}}
}

// LinkQuality is reported for every device.
func LinkQuality() Feature {
	return Numeric("linkquality", AccessState).
		WithUnit("lqi").
		WithRange(0, 255).
		WithDescription("Link quality (signal strength)").
		WithCategory("diagnostic")
}

func Power() Feature {
	return Numeric("power", AccessStateGet).WithUnit("W").WithDescription("Instantaneous measured power")
}

func Current() Feature {
	return Numeric("current", AccessStateGet).WithUnit("A").WithDescription("Instantaneous measured electrical current")
}

func Voltage() Feature {
	return Numeric("voltage", AccessStateGet).WithUnit("V").WithDescription("Measured electrical potential value")
}

func Tamper() Feature {
	return Binary("tamper", AccessState, true, false).WithDescription("Indicates whether the device is tampered")
}

// WarningModes are the IAS WD warning modes in wire order.
var WarningModes = []string{"stop", "burglar", "fire", "emergency", "police_panic", "fire_panic", "emergency_panic"}

// WarningLevels are the IAS WD siren and strobe levels in wire order.
var WarningLevels = []string{"low", "medium", "high", "very_high"}

// Warning is the composite IAS WD start-warning request.
func Warning() Feature {
	return Composite("warning", "warning", AccessSet,
		Enum("mode", AccessSet, WarningModes...).WithDescription("Mode of the warning (sound effect)"),
		Enum("level", AccessSet, WarningLevels...).WithDescription("Sound level"),
		Enum("strobe_level", AccessSet, WarningLevels...).WithDescription("Intensity of the strobe"),
		Binary("strobe", AccessSet, true, false).WithDescription("Turn on/off the strobe (light) during warning"),
		Numeric("strobe_duty_cycle", AccessSet).WithRange(0, 10).WithDescription("Length of the flash cycle"),
		Numeric("duration", AccessSet).WithUnit("s").WithDescription("Duration in seconds of the alarm"),
	).WithDescription("Sends warning command")
}

// LightBuilder assembles a light feature.
type LightBuilder struct {
	f Feature
}

// Light starts a light with on/off state.
func Light() *LightBuilder {
	state := Binary("state", AccessAll, "ON", "OFF").
		WithToggle("TOGGLE").
		WithDescription("On/off state of this light")
	return &LightBuilder{f: Feature{Type: KindLight, Features: []Feature{state}}}
}

func (b *LightBuilder) Brightness() *LightBuilder {
	b.f = b.f.WithFeature(Numeric("brightness", AccessAll).
		WithRange(0, 254).
		WithDescription("Brightness of this light"))
	return b
}

// ColorTemp adds color temperature in mireds with the given bounds.
func (b *LightBuilder) ColorTemp(min, max float64) *LightBuilder {
	b.f = b.f.WithFeature(Numeric("color_temp", AccessAll).
		WithUnit("mired").
		WithRange(min, max).
		WithDescription("Color temperature of this light").
		WithPreset("coolest", min, "Coolest temperature supported").
		WithPreset("warmest", max, "Warmest temperature supported"))
	return b
}

func (b *LightBuilder) ColorXY() *LightBuilder {
	b.f = b.f.WithFeature(Composite("color_xy", "color", AccessAll,
		Numeric("x", AccessAll),
		Numeric("y", AccessAll),
	).WithDescription("Color of this light in the CIE 1931 color space (x/y)"))
	return b
}

func (b *LightBuilder) ColorHS() *LightBuilder {
	b.f = b.f.WithFeature(Composite("color_hs", "color", AccessAll,
		Numeric("hue", AccessAll),
		Numeric("saturation", AccessAll),
	).WithDescription("Color of this light expressed as hue/saturation"))
	return b
}

func (b *LightBuilder) Build() Feature { return b.f }
