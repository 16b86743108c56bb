package model

import (
	"fmt"
	"sync"
)

// registry is the process-wide, append-only set of registered models.
// Generated code calls Register from init functions.
var registry = struct {
	sync.RWMutex
	order  []*Meta
	tables map[string]*Meta
}{tables: make(map[string]*Meta)}

// Register validates a model descriptor and adds it to the global registry.
func Register(m *Meta) error {
	if err := m.validate(); err != nil {
		return err
	}
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.tables[m.Table]; dup {
		return fmt.Errorf("model %s: already registered", m.Table)
	}
	registry.tables[m.Table] = m
	registry.order = append(registry.order, m)
	return nil
}

// MustRegister is Register for init-time use.
func MustRegister(m *Meta) *Meta {
	if err := Register(m); err != nil {
		panic(err)
	}
	return m
}

// Lookup returns the registered model for a table name.
func Lookup(table string) (*Meta, bool) {
	registry.RLock()
	defer registry.RUnlock()
	m, ok := registry.tables[table]
	return m, ok
}

// Models returns all registered models in registration order.
func Models() []*Meta {
	registry.RLock()
	defer registry.RUnlock()
	out := make([]*Meta, len(registry.order))
	copy(out, registry.order)
	return out
}
