// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// memoryEntry is a cached value with its expiry moment.
type memoryEntry struct {
	val     []byte
	expires time.Time
}

// Memory is an in-process response cache used when Valkey is not
// configured, and by tests. Entries honor the same TTL semantics as the
// Valkey implementation; expired entries are dropped lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemory creates an in-memory response cache.
func NewMemory(ttl time.Duration) *Memory {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Memory{entries: make(map[string]memoryEntry), ttl: ttl}
}

// Get retrieves a cached value, dropping it if expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return entry.val, true
}

// Set stores a value under key with the default TTL.
func (m *Memory) Set(_ context.Context, key string, val []byte) {
	m.mu.Lock()
	m.entries[key] = memoryEntry{val: val, expires: time.Now().Add(m.ttl)}
	m.mu.Unlock()
}

// Delete removes a single key.
func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// ClearByPrefix removes every key under the given prefix.
func (m *Memory) ClearByPrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
	return nil
}

// Len reports the number of live entries. Used by tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
