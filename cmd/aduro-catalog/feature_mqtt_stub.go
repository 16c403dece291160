//go:build no_mqtt

package main

import (
	"context"
	"errors"
)

func cmdDiscovery(_ *app, _ context.Context, _ []string) error {
	return errors.New("discovery: built without MQTT support")
}

func publishState(_ *app, _, _ string, _ map[string]any) error {
	return errors.New("decode: built without MQTT support")
}
