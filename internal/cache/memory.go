package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is a process-local Cache used when Redis is unreachable at startup
// and in tests. Entries expire lazily on read.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}, now: time.Now}
}

// NewMemoryWithClock is NewMemory with an injected clock for expiry tests.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{entries: map[string]memoryEntry{}, now: now}
}

func (m *Memory) get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.data, true
}

func (m *Memory) set(key string, data []byte, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{data: data, expiresAt: exp}
	m.mu.Unlock()
}

func (m *Memory) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest any, compute func() (any, error)) error {
	if raw, ok := m.get(key); ok {
		return json.Unmarshal(raw, dest)
	}

	v, err := compute()
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.set(key, data, ttl)
	return json.Unmarshal(data, dest)
}

func (m *Memory) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.set(key, data, ttl)
	return nil
}

func (m *Memory) Evict(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

func (m *Memory) EvictPrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}
