// Package converter holds the shared model for translating between Zigbee
// messages and device state, the standard converters used by the catalogue
// and the error taxonomy of the set/get paths.
package converter

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"zigbee-aduro/internal/host"
)

// FromZigbee converts incoming messages of one cluster into state updates.
type FromZigbee struct {
	Name    string
	Cluster uint16
	Types   []host.MessageType
	// Commands restricts ClusterCommand messages to these command ids.
	Commands []uint8
	// Convert returns nil when the message carries nothing for this converter.
	Convert func(msg host.Message, meta *Meta) map[string]any
}

// Matches reports whether the converter handles msg.
func (c FromZigbee) Matches(msg host.Message) bool {
	if c.Cluster != msg.Cluster || !slices.Contains(c.Types, msg.Type) {
		return false
	}
	if msg.Type == host.ClusterCommand && len(c.Commands) > 0 {
		return slices.Contains(c.Commands, msg.CommandID)
	}
	return true
}

// SetFunc handles a set request and returns the resulting state.
type SetFunc func(ctx context.Context, e host.Entity, key string, value any, meta *Meta) (map[string]any, error)

// GetFunc issues a read for key. The answer arrives as a ReadResponse message.
type GetFunc func(ctx context.Context, e host.Entity, key string, meta *Meta) error

// ToZigbee converts set/get requests for Keys into requests to the device.
type ToZigbee struct {
	Name string
	Keys []string
	// Endpoint pins requests to one endpoint; zero uses the caller's.
	Endpoint uint8
	Set      SetFunc
	Get      GetFunc // nil when the keys cannot be read on request
}

// Handles reports whether key belongs to the converter.
func (c ToZigbee) Handles(key string) bool {
	return slices.Contains(c.Keys, key)
}

// Meta carries per-device context into converters.
type Meta struct {
	Device   host.Device
	Endpoint uint8
	// State is the last published device state; converters read it, never write it.
	State  map[string]any
	Cache  *Cache
	Logger *slog.Logger
}

func (m *Meta) logger() *slog.Logger {
	if m == nil || m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

func (m *Meta) state(key string) (any, bool) {
	if m == nil || m.State == nil {
		return nil, false
	}
	v, ok := m.State[key]
	return v, ok
}

func (m *Meta) cache() *Cache {
	if m == nil {
		return nil
	}
	return m.Cache
}

// Cache remembers attribute values of one device that later messages depend
// on, such as measurement multipliers. A nil Cache stores nothing.
type Cache struct {
	mu     sync.RWMutex
	values map[uint32]any
}

func NewCache() *Cache {
	return &Cache{values: make(map[uint32]any)}
}

func cacheKey(cluster, attr uint16) uint32 { return uint32(cluster)<<16 | uint32(attr) }

func (c *Cache) Store(cluster, attr uint16, v any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[cacheKey(cluster, attr)] = v
}

func (c *Cache) Load(cluster, attr uint16) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[cacheKey(cluster, attr)]
	return v, ok
}
