package session

import (
	"context"
	"sync"
)

// MemoryBackend хранит сессии в памяти процесса
type MemoryBackend struct {
	mu     sync.RWMutex
	scopes map[int64]map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		scopes: make(map[int64]map[string]string),
	}
}

func (m *MemoryBackend) Get(_ context.Context, scope int64, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.scopes[scope][key]
	return value, ok, nil
}

func (m *MemoryBackend) Put(_ context.Context, scope int64, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.scopes[scope]; !exists {
		m.scopes[scope] = make(map[string]string)
	}
	for k, v := range values {
		m.scopes[scope][k] = v
	}
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, scope int64, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, exists := m.scopes[scope]
	if !exists {
		return nil
	}
	for _, k := range keys {
		delete(entries, k)
	}
	if len(entries) == 0 {
		delete(m.scopes, scope)
	}
	return nil
}

func (m *MemoryBackend) ListValues(_ context.Context, key string) (map[int64]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[int64]string)
	for scope, entries := range m.scopes {
		if v, ok := entries[key]; ok {
			result[scope] = v
		}
	}
	return result, nil
}
