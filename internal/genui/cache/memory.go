package cache

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

// Memory is a size-bounded, TTL-expiring in-process cache.
type Memory struct {
	mu  sync.Mutex
	lru *lru.Cache
	ttl time.Duration
	now func() time.Time
}

type memoryItem struct {
	raw     []byte
	expires time.Time
}

func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = 512
	}
	return &Memory{lru: lru.New(size), ttl: ttl, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (Entry, bool, error) {
	m.mu.Lock()
	v, ok := m.lru.Get(key)
	if !ok {
		m.mu.Unlock()
		return Entry{}, false, nil
	}
	it := v.(memoryItem)
	if m.ttl > 0 && !m.now().Before(it.expires) {
		m.lru.Remove(key)
		m.mu.Unlock()
		return Entry{}, false, nil
	}
	m.mu.Unlock()

	e, err := decode(it.raw)
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (m *Memory) Set(_ context.Context, key string, e Entry) error {
	raw, err := encode(e)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Add(key, memoryItem{raw: raw, expires: m.now().Add(m.ttl)})
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Clear()
	return nil
}
