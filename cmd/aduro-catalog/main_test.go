package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zigbee-aduro/internal/converter"
	"zigbee-aduro/internal/expose"
)

func testApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := &Config{DevicesDir: t.TempDir()}
	cfg.applyDefaults()
	var out bytes.Buffer
	a, err := newApp(cfg, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return a, &out
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "devices", cfg.DevicesDir)
	assert.Equal(t, "zigbee2mqtt", cfg.MQTT.TopicPrefix)
	assert.Equal(t, "homeassistant", cfg.MQTT.DiscoveryPrefix)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices_dir: /etc/aduro\nmqtt:\n  broker: tcp://broker:1883\n  topic_prefix: z2m\nlog:\n  level: debug\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/aduro", cfg.DevicesDir)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "z2m", cfg.MQTT.TopicPrefix)
	assert.Equal(t, "homeassistant", cfg.MQTT.DiscoveryPrefix)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [\n"), 0o644))
	_, err := loadConfig(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestRunUsage(t *testing.T) {
	a, _ := testApp(t)
	assert.ErrorIs(t, a.run(context.Background(), nil), errUsage)
	assert.ErrorIs(t, a.run(context.Background(), []string{"frobnicate"}), errUsage)
	assert.ErrorIs(t, a.run(context.Background(), []string{"show"}), errUsage)
}

func TestList(t *testing.T) {
	a, out := testApp(t)
	require.NoError(t, a.run(context.Background(), []string{"list"}))
	assert.Contains(t, out.String(), "81949")
	assert.Contains(t, out.String(), "Smart Siren")
}

func TestShow(t *testing.T) {
	a, out := testApp(t)
	require.NoError(t, a.run(context.Background(), []string{"show", "81949"}))

	var features []expose.Feature
	require.NoError(t, json.Unmarshal(out.Bytes(), &features))
	f, ok := expose.Find(features, "dimmer_switch_mode")
	require.True(t, ok)
	assert.Equal(t, []string{"momentary_switch", "toggle_switch", "roller_blind_switch"}, f.Values)

	assert.ErrorContains(t, a.run(context.Background(), []string{"show", "nope"}), "unknown model")
}

func TestDecode(t *testing.T) {
	a, out := testApp(t)
	// Manufacturer-specific report of 0x7700 = 1.
	require.NoError(t, a.run(context.Background(), []string{"decode", "81949", "0x0000", "1c 2d 12 01 0a 00 77 20 01"}))

	var state map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &state))
	assert.Equal(t, "toggle_switch", state["dimmer_switch_mode"])
	assert.Equal(t, 1.0, state["dimmer_switch_mode_numeric"])
}

func TestSetPrintsFrame(t *testing.T) {
	a, out := testApp(t)
	require.NoError(t, a.run(context.Background(), []string{"set", "81949", "dimmer_switch_mode", "toggle_switch"}))
	assert.Contains(t, out.String(), "zcl  ep=1 cluster=0x0000 frame=04 2d 12 01 02 00 77 20 01\n")
	assert.Contains(t, out.String(), `"dimmer_switch_mode": "toggle_switch"`)
}

func TestSetRejectsInvalid(t *testing.T) {
	a, out := testApp(t)
	err := a.run(context.Background(), []string{"set", "81949", "dimmer_min_brightness_level", "101"})
	assert.ErrorIs(t, err, converter.ErrInvalidValue)
	assert.Empty(t, out.String())
}

func TestConfigurePrintsSequence(t *testing.T) {
	a, out := testApp(t)
	require.NoError(t, a.run(context.Background(), []string{"configure", "81868"}))
	assert.Contains(t, out.String(), "bind ep=1 cluster=0x0500\n")
	assert.Contains(t, out.String(), "bind ep=1 cluster=0x0502\n")
}

func TestConfigurePrimesDimmerAttributes(t *testing.T) {
	a, out := testApp(t)
	require.NoError(t, a.run(context.Background(), []string{"configure", "81949"}))

	line := regexp.MustCompile(`^(bind ep=\d+ cluster=0x[0-9A-F]{4}|zcl  ep=\d+ cluster=0x[0-9A-F]{4} frame=[0-9a-f]{2}( [0-9a-f]{2})*)$`)
	prime := regexp.MustCompile(`^zcl  ep=1 cluster=0x0000 frame=04 2d 12 [0-9a-f]{2} 00 ([0-9a-f]{2}) ([0-9a-f]{2})$`)
	attrs := make(map[string]bool)
	for _, l := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		require.Regexp(t, line, l)
		if m := prime.FindStringSubmatch(l); m != nil {
			attrs[m[2]+m[1]] = true
		}
	}
	assert.Equal(t, map[string]bool{
		"7600": true, "7700": true, "7701": true, "7702": true, "7703": true,
		"7704": true, "7800": true, "7801": true, "7802": true, "7803": true,
	}, attrs)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, "toggle_switch", parseValue("toggle_switch"))
	assert.Equal(t, 5.0, parseValue("5"))
	assert.Equal(t, map[string]any{"mode": "fire"}, parseValue(`{"mode":"fire"}`))
}
