package codec

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"zigbee-aduro/internal/converter"
	"zigbee-aduro/internal/expose"
	"zigbee-aduro/internal/host"
	"zigbee-aduro/internal/zcl"
)

// primeConcurrency bounds in-flight priming reads per device.
const primeConcurrency = 4

// Set is the codec table of one device model.
type Set struct {
	vendor Vendor
	codecs []*Codec
	byKey  map[string]*Codec
}

// NewSet builds a codec per spec. Attribute ids and keys must be unique
// within the set.
func NewSet(vendor Vendor, specs ...Spec) (*Set, error) {
	vendor = vendor.withDefaults()
	s := &Set{vendor: vendor, byKey: make(map[string]*Codec, len(specs))}
	ids := make(map[uint32]string, len(specs))
	for _, spec := range specs {
		c, err := New(spec, vendor)
		if err != nil {
			return nil, err
		}
		id := uint32(spec.Cluster)<<16 | uint32(spec.ID)
		if other, dup := ids[id]; dup {
			return nil, fmt.Errorf("%w: %s: attribute 0x%04X already used by %s", ErrInvalidSpec, spec.Key, spec.ID, other)
		}
		if _, dup := s.byKey[spec.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %s", ErrInvalidSpec, spec.Key)
		}
		ids[id] = spec.Key
		s.byKey[spec.Key] = c
		s.codecs = append(s.codecs, c)
	}
	return s, nil
}

// MustNewSet is like NewSet but panics on error. It is meant for static tables.
func MustNewSet(vendor Vendor, specs ...Spec) *Set {
	s, err := NewSet(vendor, specs...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Set) Vendor() Vendor { return s.vendor }

// Codecs returns the codecs in table order.
func (s *Set) Codecs() []*Codec { return append([]*Codec(nil), s.codecs...) }

func (s *Set) Lookup(key string) (*Codec, bool) {
	c, ok := s.byKey[key]
	return c, ok
}

// Decode merges the output of every codec; nil when none matched.
func (s *Set) Decode(msg host.Message) map[string]any {
	var out map[string]any
	for _, c := range s.codecs {
		for k, v := range c.Decode(msg) {
			if out == nil {
				out = make(map[string]any)
			}
			out[k] = v
		}
	}
	return out
}

func (s *Set) FromZigbee() []converter.FromZigbee {
	out := make([]converter.FromZigbee, len(s.codecs))
	for i, c := range s.codecs {
		out[i] = c.FromZigbee()
	}
	return out
}

func (s *Set) ToZigbee() []converter.ToZigbee {
	out := make([]converter.ToZigbee, len(s.codecs))
	for i, c := range s.codecs {
		out[i] = c.ToZigbee()
	}
	return out
}

func (s *Set) Exposes() []expose.Feature {
	out := make([]expose.Feature, len(s.codecs))
	for i, c := range s.codecs {
		out[i] = c.Expose()
	}
	return out
}

// Prime reads every attribute of the set from the vendor endpoint. Reads are
// independent: they run concurrently, a failure never cancels the others and
// is logged as a warning. The returned error combines every failure and is
// meant to be reported, not to abort configuration.
func (s *Set) Prime(ctx context.Context, dev host.Device, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	ep, err := dev.Endpoint(s.vendor.Endpoint)
	if err != nil {
		logger.Warn("prime: endpoint unavailable", "ieee", dev.IEEEAddress(), "endpoint", s.vendor.Endpoint, "err", err)
		return fmt.Errorf("prime: %w", err)
	}

	var (
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	g.SetLimit(primeConcurrency)
	for _, c := range s.codecs {
		g.Go(func() error {
			if err := c.Prime(ctx, ep); err != nil {
				logger.Warn("prime: read failed",
					"ieee", dev.IEEEAddress(),
					"key", c.Key(),
					"attr", fmt.Sprintf("0x%04X", c.spec.ID),
					"err", err)
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// ClusterDefs describes the attributes of the set as manufacturer-specific
// cluster extensions, one per cluster, for registration in a zcl.Registry.
func (s *Set) ClusterDefs() []zcl.ClusterDef {
	byCluster := make(map[uint16]*zcl.ClusterDef)
	for _, c := range s.codecs {
		def, ok := byCluster[c.spec.Cluster]
		if !ok {
			def = &zcl.ClusterDef{ID: c.spec.Cluster}
			byCluster[c.spec.Cluster] = def
		}
		access := zcl.AccessRead | zcl.AccessReport
		if c.spec.Access.Has(expose.AccessSet) {
			access |= zcl.AccessWrite
		}
		def.Attributes = append(def.Attributes, zcl.AttributeDef{
			ID:           c.spec.ID,
			Name:         c.spec.Key,
			Type:         c.spec.Type,
			Access:       access,
			Manufacturer: c.vendor.ManufacturerCode,
		})
	}
	out := make([]zcl.ClusterDef, 0, len(byCluster))
	for _, def := range byCluster {
		out = append(out, *def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
