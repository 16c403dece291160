//go:build !no_mqtt

package mqtt

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zigbee-aduro/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	c, err := catalog.New(logger, catalog.AduroSmart()...)
	require.NoError(t, err)
	return c
}

func findMsg(t *testing.T, msgs []Message, topic string) haDiscovery {
	t.Helper()
	for _, m := range msgs {
		if m.Topic == topic {
			var p haDiscovery
			require.NoError(t, json.Unmarshal(m.Payload, &p))
			return p
		}
	}
	t.Fatalf("discovery %s not found", topic)
	return haDiscovery{}
}

func TestDiscoveryDimmer(t *testing.T) {
	def, ok := testCatalog(t).FindByModel("81949")
	require.True(t, ok)
	dev := Device{IEEEAddress: "00124B0012345678", FriendlyName: "Hall Dimmer"}

	msgs := BuildDiscovery(def, dev, Config{})

	light := findMsg(t, msgs, "homeassistant/light/zigbee_00124B0012345678/light/config")
	assert.Equal(t, "Hall Dimmer", light.Name)
	assert.Equal(t, "zigbee2mqtt/hall_dimmer", light.StateTopic)
	assert.Equal(t, "zigbee2mqtt/hall_dimmer/set", light.CommandTopic)
	assert.Equal(t, "zigbee2mqtt/bridge/state", light.AvailabilityTopic)
	assert.Equal(t, []string{"brightness"}, light.SupportedColorModes)
	assert.Equal(t, 254, light.BrightnessScale)
	assert.Equal(t, "json", light.Schema)
	assert.Equal(t, "AduroSmart", light.Device.Manufacturer)

	mode := findMsg(t, msgs, "homeassistant/select/zigbee_00124B0012345678/dimmer_switch_mode/config")
	assert.Equal(t, "Hall Dimmer Switch Mode", mode.Name)
	assert.Equal(t, []string{"momentary_switch", "toggle_switch", "roller_blind_switch"}, mode.Options)
	assert.Equal(t, `{"dimmer_switch_mode": "{{ value }}"}`, mode.CommandTemplate)
	assert.Equal(t, "config", mode.EntityCategory)

	dimTime := findMsg(t, msgs, "homeassistant/number/zigbee_00124B0012345678/dimmer_manual_dimming_time/config")
	require.NotNil(t, dimTime.Min)
	assert.Equal(t, 100.0, *dimTime.Min)
	assert.Equal(t, 10000.0, *dimTime.Max)
	assert.Equal(t, 100.0, *dimTime.Step)
	assert.Equal(t, "ms", dimTime.UnitOfMeasurement)
	assert.Equal(t, `{"dimmer_manual_dimming_time": {{ value }}}`, dimTime.CommandTemplate)

	power := findMsg(t, msgs, "homeassistant/sensor/zigbee_00124B0012345678/power/config")
	assert.Equal(t, "power", power.DeviceClass)
	assert.Equal(t, "W", power.UnitOfMeasurement)
	assert.Equal(t, "measurement", power.StateClass)

	lqi := findMsg(t, msgs, "homeassistant/sensor/zigbee_00124B0012345678/linkquality/config")
	assert.Equal(t, "diagnostic", lqi.EntityCategory)
}

func TestDiscoveryColorLight(t *testing.T) {
	def, ok := testCatalog(t).FindByModel("81813-V2")
	require.True(t, ok)

	msgs := BuildDiscovery(def, Device{IEEEAddress: "01"}, Config{TopicPrefix: "z2m", DiscoveryPrefix: "ha"})
	light := findMsg(t, msgs, "ha/light/zigbee_01/light/config")
	assert.Equal(t, []string{"color_temp", "xy", "hs"}, light.SupportedColorModes)
	assert.Equal(t, 153.0, *light.MinMireds)
	assert.Equal(t, 500.0, *light.MaxMireds)
	assert.Equal(t, "z2m/01", light.StateTopic)
	assert.Equal(t, "AduroSmart 81813-V2", light.Name)
}

func TestDiscoverySiren(t *testing.T) {
	def, ok := testCatalog(t).FindByModel("81868")
	require.True(t, ok)
	msgs := BuildDiscovery(def, Device{IEEEAddress: "02"}, Config{})

	tamper := findMsg(t, msgs, "homeassistant/binary_sensor/zigbee_02/tamper/config")
	assert.Equal(t, "tamper", tamper.DeviceClass)
	assert.Equal(t, `{{ 'ON' if value_json.tamper else 'OFF' }}`, tamper.ValueTemplate)

	alarm := findMsg(t, msgs, "homeassistant/switch/zigbee_02/alarm/config")
	assert.Equal(t, `{"alarm": "{{ value }}"}`, alarm.CommandTemplate)

	for _, m := range msgs {
		assert.NotContains(t, m.Topic, "/warning/", "composite features are not announced")
	}
}

func TestRemoveDiscovery(t *testing.T) {
	def, ok := testCatalog(t).FindByModel("BPU3")
	require.True(t, ok)
	dev := Device{IEEEAddress: "03"}

	add := BuildDiscovery(def, dev, Config{})
	remove := BuildRemoveDiscovery(def, dev, Config{})
	require.Len(t, remove, len(add))
	for i := range remove {
		assert.Equal(t, add[i].Topic, remove[i].Topic)
		assert.Empty(t, remove[i].Payload)
	}
}
