package memory

import (
	"context"
	"strings"
	"sync"
)

// KV is a namespaced key/value store. Values are opaque JSON documents.
type KV interface {
	Get(ctx context.Context, namespace []string, key string) ([]byte, bool, error)
	Put(ctx context.Context, namespace []string, key string, value []byte) error
}

func joinNamespace(namespace []string) string {
	return strings.Join(namespace, "/")
}

// MemoryKV keeps values in process memory.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, namespace []string, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[joinNamespace(namespace)+"#"+key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryKV) Put(_ context.Context, namespace []string, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[joinNamespace(namespace)+"#"+key] = append([]byte(nil), value...)
	return nil
}
