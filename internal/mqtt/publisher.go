//go:build !no_mqtt

// Package mqtt announces catalogued devices to Home Assistant through MQTT
// discovery and publishes their state.
package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

const publishTimeout = 10 * time.Second

// Config holds MQTT publisher configuration.
type Config struct {
	Broker          string
	Username        string
	Password        string
	TopicPrefix     string
	DiscoveryPrefix string
}

func (c Config) withDefaults() Config {
	if c.TopicPrefix == "" {
		c.TopicPrefix = "zigbee2mqtt"
	}
	if c.DiscoveryPrefix == "" {
		c.DiscoveryPrefix = "homeassistant"
	}
	return c
}

// Publisher publishes discovery and state messages.
type Publisher struct {
	client pahomqtt.Client
	cfg    Config
	logger *slog.Logger
}

// NewPublisher wraps a connected client.
func NewPublisher(client pahomqtt.Client, cfg Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, cfg: cfg.withDefaults(), logger: logger.With("component", "mqtt")}
}

// Connect dials the broker. Each connection gets a unique client id so
// several catalog tools can run next to a bridge.
func Connect(cfg Config, logger *slog.Logger) (*Publisher, error) {
	cfg = cfg.withDefaults()
	clientID := "aduro-catalog-" + uuid.NewString()[:8]
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetConnectTimeout(publishTimeout)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	p := NewPublisher(client, cfg, logger)
	p.logger.Info("MQTT connected", "broker", cfg.Broker, "client_id", clientID)
	return p, nil
}

func (p *Publisher) Config() Config { return p.cfg }

// PublishDiscovery publishes msgs retained. Every message is attempted; the
// failures are returned together.
func (p *Publisher) PublishDiscovery(ctx context.Context, msgs []Message) error {
	var errs error
	for _, m := range msgs {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if err := p.publish(m.Topic, m.Payload, true); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	p.logger.Info("published discovery", "messages", len(msgs), "failed", len(multierr.Errors(errs)))
	return errs
}

// PublishState publishes a device state update on its state topic.
func (p *Publisher) PublishState(dev Device, state map[string]any) error {
	return p.publish(p.cfg.TopicPrefix+"/"+topicName(dev), mustJSON(state), false)
}

func (p *Publisher) publish(topic string, payload []byte, retained bool) error {
	token := p.client.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		p.logger.Warn("publish failed", "topic", topic, "err", err)
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
