// Package kv provides single-key blob stores used to persist the bot state.
//
// Every backend stores an opaque JSON value under a key with an optional
// time-to-live. There are no partial reads or writes.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kv: store closed")

// Store is the key-value collaborator consumed by the state repository.
type Store interface {
	// Get returns the value stored under key. The boolean is false when the
	// key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put replaces the value under key. A ttl <= 0 keeps the value forever.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key if present.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

func expiryFor(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	at := now.Add(ttl)
	return &at
}
