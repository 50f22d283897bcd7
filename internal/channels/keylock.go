// Package channels holds what every inbound channel shares: per-key
// serialization of state writers, update de-duplication and the dispatcher
// that wraps the engine with logging, metrics and tracing.
package channels

import "sync"

// KeyLocks hands out one mutex per key.
type KeyLocks struct {
	locks sync.Map
}

// Lock returns or creates the mutex for key. An empty key returns a fresh
// (unshared) mutex so callers never need a nil check.
func (k *KeyLocks) Lock(key string) *sync.Mutex {
	if key == "" {
		return &sync.Mutex{}
	}
	value, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	return value.(*sync.Mutex)
}
