package gate

import "sync"

// KV is the injected persistence boundary for gate state: a handful of keyed
// string entries surviving reloads. Implementations need no cross-process
// coordination; the gate serializes access.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// MemoryKV is an in-memory KV for tests and for running without a database.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get returns the stored value and whether it was present.
func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok
}

// Set stores a value.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
