//go:build !no_mqtt

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	mqttbridge "zigbee-aduro/internal/mqtt"
)

func (a *app) mqttConfig() mqttbridge.Config {
	return mqttbridge.Config{
		Broker:          a.cfg.MQTT.Broker,
		Username:        a.cfg.MQTT.Username,
		Password:        a.cfg.MQTT.Password,
		TopicPrefix:     a.cfg.MQTT.TopicPrefix,
		DiscoveryPrefix: a.cfg.MQTT.DiscoveryPrefix,
	}
}

// statePublisher is the part of mqtt.Publisher decode needs.
type statePublisher interface {
	PublishState(dev mqttbridge.Device, state map[string]any) error
	Close()
}

var connectState = func(cfg mqttbridge.Config, logger *slog.Logger) (statePublisher, error) {
	pub, err := mqttbridge.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

func publishState(a *app, ieee, name string, state map[string]any) error {
	pub, err := connectState(a.mqttConfig(), a.logger)
	if err != nil {
		return err
	}
	defer pub.Close()
	return pub.PublishState(mqttbridge.Device{IEEEAddress: ieee, FriendlyName: name}, state)
}

func cmdDiscovery(a *app, ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("discovery", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	publish := flags.Bool("publish", false, "publish to the configured broker")
	remove := flags.Bool("remove", false, "remove previously announced entities")
	if err := flags.Parse(args); err != nil || flags.NArg() < 2 || flags.NArg() > 3 {
		return errUsage
	}
	def, err := a.model(flags.Arg(0))
	if err != nil {
		return err
	}
	dev := mqttbridge.Device{IEEEAddress: flags.Arg(1), FriendlyName: flags.Arg(2)}

	build := mqttbridge.BuildDiscovery
	if *remove {
		build = mqttbridge.BuildRemoveDiscovery
	}
	msgs := build(def, dev, a.mqttConfig())

	if !*publish {
		for _, m := range msgs {
			if _, err := fmt.Fprintf(a.out, "%s\n%s\n\n", m.Topic, m.Payload); err != nil {
				return err
			}
		}
		return nil
	}

	pub, err := mqttbridge.Connect(a.mqttConfig(), a.logger)
	if err != nil {
		return err
	}
	defer pub.Close()
	return pub.PublishDiscovery(ctx, msgs)
}
