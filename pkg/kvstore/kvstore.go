// Package kvstore provides the persisted key-value store backing the
// storefront client. The browser build persists to localStorage; server-side
// consumers plug in one of the implementations here (or the redis adapter in
// pkg/redis) through the same interface.
package kvstore

import "sync"

// Store is a flat string key-value store. Values are opaque to the store;
// callers serialize to JSON themselves.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is an in-process Store, used in tests and short-lived jobs.
type Memory struct {
	values sync.Map
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(key string) (string, bool) {
	v, ok := m.values.Load(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (m *Memory) Set(key, value string) error {
	m.values.Store(key, value)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.values.Delete(key)
	return nil
}
