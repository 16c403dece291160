package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"zigbee-aduro/internal/catalog"
	"zigbee-aduro/internal/converter"
	"zigbee-aduro/internal/zcl"
	"zigbee-aduro/internal/zcl/clusters"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

type Config struct {
	MQTT struct {
		Broker          string `yaml:"broker"`
		Username        string `yaml:"username"`
		Password        string `yaml:"password"`
		TopicPrefix     string `yaml:"topic_prefix"`
		DiscoveryPrefix string `yaml:"discovery_prefix"`
	} `yaml:"mqtt"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	DevicesDir string `yaml:"devices_dir"`
}

func (c *Config) applyDefaults() {
	if c.DevicesDir == "" {
		c.DevicesDir = "devices"
	}
	if c.MQTT.Broker == "" {
		c.MQTT.Broker = "tcp://127.0.0.1:1883"
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "zigbee2mqtt"
	}
	if c.MQTT.DiscoveryPrefix == "" {
		c.MQTT.DiscoveryPrefix = "homeassistant"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

const usage = `usage: aduro-catalog [-config file] <command> [args]

commands:
  list                                  list catalogued devices
  show <model>                          print the exposed capabilities as JSON
  decode [-ep N] [-publish ieee [-name name]] <model> <cluster> <hex>
                                        decode a raw ZCL frame
  set <model> <key> <value>             print the frames a write would send
  get <model> <key>                     print the frame a read would send
  configure <model>                     print the configuration sequence
  discovery [-publish] <model> <ieee> [name]
                                        print or publish Home Assistant discovery
`

func main() {
	// Temporary logger for config loading errors.
	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	flags := flag.NewFlagSet("aduro-catalog", flag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	cfgPath := flags.String("config", "config.yaml", "configuration file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		bootLogger.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("aduro-catalog starting", "version", version)

	a, err := newApp(cfg, os.Stdout, logger)
	if err != nil {
		logger.Error("load catalog", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, flags.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// loadConfig reads the YAML configuration. A missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// app is the loaded catalogue plus everything the commands share.
type app struct {
	cfg      *Config
	registry *zcl.Registry
	catalog  *catalog.Catalog
	cache    *converter.Cache
	out      io.Writer
	logger   *slog.Logger
}

func newApp(cfg *Config, out io.Writer, logger *slog.Logger) (*app, error) {
	registry := zcl.NewRegistry(logger)
	clusters.RegisterStandard(registry)

	overlays, err := catalog.LoadDir(cfg.DevicesDir, registry, logger)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(logger, append(catalog.AduroSmart(), overlays...)...)
	if err != nil {
		return nil, err
	}
	cat.RegisterClusters(registry)
	logger.Debug("ZCL registry initialized", "clusters", len(registry.All()), "devices", cat.Len())

	return &app{
		cfg:      cfg,
		registry: registry,
		catalog:  cat,
		cache:    converter.NewCache(),
		out:      out,
		logger:   logger,
	}, nil
}
