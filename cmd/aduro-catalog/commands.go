package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"zigbee-aduro/internal/catalog"
	"zigbee-aduro/internal/converter"
	"zigbee-aduro/internal/host"
)

var errUsage = errors.New("usage")

type command func(a *app, ctx context.Context, args []string) error

var commands = map[string]command{
	"list":      cmdList,
	"show":      cmdShow,
	"decode":    cmdDecode,
	"set":       cmdSet,
	"get":       cmdGet,
	"configure": cmdConfigure,
	"discovery": cmdDiscovery,
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	return cmd(a, ctx, args[1:])
}

func (a *app) model(name string) (*catalog.DeviceDefinition, error) {
	def, ok := a.catalog.FindByModel(name)
	if !ok {
		return nil, fmt.Errorf("unknown model %q", name)
	}
	return def, nil
}

func (a *app) meta() *converter.Meta {
	return &converter.Meta{Cache: a.cache, Logger: a.logger}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func cmdList(a *app, _ context.Context, _ []string) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tVENDOR\tZIGBEE MODEL\tDESCRIPTION")
	for _, def := range a.catalog.All() {
		ids := slices.Clone(def.ZigbeeModels)
		for _, fp := range def.Fingerprints {
			ids = append(ids, fp.ModelID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.Model, def.Vendor, strings.Join(ids, ","), def.Description)
	}
	return tw.Flush()
}

func cmdShow(a *app, _ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	def, err := a.model(args[0])
	if err != nil {
		return err
	}
	return a.printJSON(def.Exposes)
}

func cmdDecode(a *app, _ context.Context, args []string) error {
	flags := flag.NewFlagSet("decode", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	ep := flags.Uint("ep", 1, "source endpoint")
	publish := flags.String("publish", "", "publish the decoded state of this IEEE address")
	name := flags.String("name", "", "friendly name used for the state topic")
	if err := flags.Parse(args); err != nil || flags.NArg() != 3 {
		return errUsage
	}
	def, err := a.model(flags.Arg(0))
	if err != nil {
		return err
	}
	cluster, err := strconv.ParseUint(flags.Arg(1), 0, 16)
	if err != nil {
		return fmt.Errorf("cluster %q: %w", flags.Arg(1), err)
	}
	frame, err := hex.DecodeString(strings.NewReplacer(" ", "", ":", "").Replace(flags.Arg(2)))
	if err != nil {
		return fmt.Errorf("frame: %w", err)
	}

	msg, err := host.ParseFrame(uint8(*ep), uint16(cluster), frame)
	if err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	meta := a.meta()
	meta.Endpoint = uint8(*ep)
	state := def.Decode(msg, meta)
	if state == nil {
		state = map[string]any{}
	}
	if err := a.printJSON(state); err != nil {
		return err
	}
	if *publish == "" || len(state) == 0 {
		return nil
	}
	return publishState(a, *publish, *name, state)
}

// parseValue reads a command line value as JSON, falling back to the raw
// string so that labels need no quoting.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

func cmdSet(a *app, ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	def, err := a.model(args[0])
	if err != nil {
		return err
	}
	dev := newDryRunDevice(def, a.out)
	state, err := def.Set(ctx, dev, args[1], parseValue(args[2]), a.meta())
	if err != nil {
		return err
	}
	return a.printJSON(state)
}

func cmdGet(a *app, ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	def, err := a.model(args[0])
	if err != nil {
		return err
	}
	return def.Get(ctx, newDryRunDevice(def, a.out), args[1], a.meta())
}

func cmdConfigure(a *app, ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	def, err := a.model(args[0])
	if err != nil {
		return err
	}
	err = def.Configure(ctx, newDryRunDevice(def, a.out), a.logger)
	var warnings *catalog.Warnings
	if errors.As(err, &warnings) {
		for _, w := range warnings.Errors() {
			a.logger.Warn("configure", "err", w)
		}
		return nil
	}
	return err
}
