// Package cmap provides a concurrent-safe sharded map.
package cmap

import "sort"

// Range iterates over all key-value pairs.
//
// The callback returns false to stop iteration. It runs while the shard's
// read lock is held, so it must not call back into the map and should copy
// out anything it needs from pointer values.
// Note: locks are acquired shard by shard, so the view may not be consistent
// across shards.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, shard := range m.shards {
		shard.mu.RLock()
		for k, v := range shard.items {
			if !fn(k, v) {
				shard.mu.RUnlock()
				return
			}
		}
		shard.mu.RUnlock()
	}
}

// Keys returns all keys in unspecified order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.Count())
	m.Range(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// SortedKeys returns all keys in ascending order.
func (m *Map[V]) SortedKeys() []string {
	keys := m.Keys()
	sort.Strings(keys)
	return keys
}

// Values returns all values in unspecified order.
func (m *Map[V]) Values() []V {
	values := make([]V, 0, m.Count())
	m.Range(func(_ string, value V) bool {
		values = append(values, value)
		return true
	})
	return values
}

// View runs fn for a single key under the shard's read lock.
// Returns false without calling fn if the key does not exist.
func (m *Map[V]) View(key string, fn func(value V)) bool {
	shard := m.getShard(key)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	val, ok := shard.items[key]
	if !ok {
		return false
	}
	fn(val)
	return true
}

// Update atomically updates a value. The callback receives the current
// value (or the zero value) and whether the key exists; its return value
// is stored.
func (m *Map[V]) Update(key string, fn func(value V, exists bool) V) V {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	existing, exists := shard.items[key]
	newValue := fn(existing, exists)
	shard.items[key] = newValue
	return newValue
}

// SetIfAbsent sets the value only if the key does not exist.
// Returns true if the value was set, false if the key already exists.
func (m *Map[V]) SetIfAbsent(key string, value V) bool {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, ok := shard.items[key]; ok {
		return false
	}

	shard.items[key] = value
	return true
}

// Pop removes a key and returns its value.
// Returns the value and true if the key existed, zero value and false otherwise.
func (m *Map[V]) Pop(key string) (V, bool) {
	shard := m.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	val, ok := shard.items[key]
	if ok {
		delete(shard.items, key)
	}
	return val, ok
}

// UpdateAll applies fn to every entry while holding every shard lock.
//
// Locks are acquired in ascending shard order and released in reverse, so
// concurrent UpdateAll calls cannot deadlock against per-key operations or
// each other. The map is fully quiesced while fn runs; fn must not call
// back into the map.
func (m *Map[V]) UpdateAll(fn func(key string, value V) V) {
	for _, shard := range m.shards {
		shard.mu.Lock()
	}
	defer func() {
		for i := len(m.shards) - 1; i >= 0; i-- {
			m.shards[i].mu.Unlock()
		}
	}()

	for _, shard := range m.shards {
		for k, v := range shard.items {
			shard.items[k] = fn(k, v)
		}
	}
}
