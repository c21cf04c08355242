package storage

import (
	"encoding/json"
	"sync"
)

// Memory is an in-process Store. Failures can be injected per operation.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	fail   map[string]ErrorKind
}

func NewMemory() *Memory {
	return &Memory{
		values: make(map[string][]byte),
		fail:   make(map[string]ErrorKind),
	}
}

// FailWith makes every subsequent op ("get", "set", "remove") fail with kind.
// An empty kind clears the failure.
func (m *Memory) FailWith(op string, kind ErrorKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if kind == "" {
		delete(m.fail, op)
		return
	}
	m.fail[op] = kind
}

// SetRaw stores bytes as-is, bypassing serialization.
func (m *Memory) SetRaw(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = data
}

// Raw returns the stored bytes for key.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.values[key]
	return data, ok
}

func (m *Memory) Get(key string, v any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if kind, ok := m.fail["get"]; ok {
		return &Error{Op: "get", Key: key, Kind: kind, Err: errInjected}
	}
	data, ok := m.values[key]
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &Error{Op: "get", Key: key, Kind: KindDeserialization, Err: err}
	}
	return nil
}

func (m *Memory) Set(key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kind, ok := m.fail["set"]; ok {
		return &Error{Op: "set", Key: key, Kind: kind, Err: errInjected}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return &Error{Op: "set", Key: key, Kind: KindSerialization, Err: err}
	}
	m.values[key] = data
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kind, ok := m.fail["remove"]; ok {
		return &Error{Op: "remove", Key: key, Kind: kind, Err: errInjected}
	}
	delete(m.values, key)
	return nil
}
