//go:build !no_mqtt

package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mqttbridge "zigbee-aduro/internal/mqtt"
)

type recordedState struct {
	dev    mqttbridge.Device
	state  map[string]any
	closed bool
}

func (r *recordedState) PublishState(dev mqttbridge.Device, state map[string]any) error {
	r.dev, r.state = dev, state
	return nil
}

func (r *recordedState) Close() { r.closed = true }

func TestDecodePublishesState(t *testing.T) {
	rec := &recordedState{}
	var cfg mqttbridge.Config
	orig := connectState
	connectState = func(c mqttbridge.Config, _ *slog.Logger) (statePublisher, error) {
		cfg = c
		return rec, nil
	}
	t.Cleanup(func() { connectState = orig })

	a, _ := testApp(t)
	require.NoError(t, a.run(context.Background(), []string{
		"decode", "-publish", "00124B0012345678", "-name", "Hall Dimmer",
		"81949", "0x0000", "1c 2d 12 01 0a 00 77 20 01",
	}))

	assert.Equal(t, "tcp://127.0.0.1:1883", cfg.Broker)
	assert.Equal(t, mqttbridge.Device{IEEEAddress: "00124B0012345678", FriendlyName: "Hall Dimmer"}, rec.dev)
	assert.Equal(t, "toggle_switch", rec.state["dimmer_switch_mode"])
	assert.Equal(t, int64(1), rec.state["dimmer_switch_mode_numeric"])
	assert.True(t, rec.closed)
}

func TestDecodeWithoutPublishDoesNotConnect(t *testing.T) {
	orig := connectState
	connectState = func(mqttbridge.Config, *slog.Logger) (statePublisher, error) {
		t.Fatal("unexpected connect")
		return nil, nil
	}
	t.Cleanup(func() { connectState = orig })

	a, _ := testApp(t)
	require.NoError(t, a.run(context.Background(), []string{"decode", "81949", "0x0000", "1c 2d 12 01 0a 00 77 20 01"}))
}

func TestDiscoveryPrint(t *testing.T) {
	a, out := testApp(t)
	require.NoError(t, a.run(context.Background(), []string{"discovery", "81949", "00124B0012345678", "Hall Dimmer"}))

	s := out.String()
	assert.Contains(t, s, "homeassistant/light/zigbee_00124B0012345678/light/config\n")
	assert.Contains(t, s, `"state_topic":"zigbee2mqtt/hall_dimmer"`)
}

func TestDiscoveryRemove(t *testing.T) {
	a, out := testApp(t)
	require.NoError(t, a.run(context.Background(), []string{"discovery", "-remove", "BPU3", "01"}))

	s := out.String()
	assert.Contains(t, s, "homeassistant/switch/zigbee_01/switch/config\n\n")
	assert.NotContains(t, s, "{")
}
