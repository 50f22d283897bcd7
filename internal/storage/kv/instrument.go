package kv

import (
	"context"
	"time"
)

// Observer receives one call per store operation.
type Observer interface {
	Observe(backend, op string, err error)
}

type instrumented struct {
	Store
	backend  string
	observer Observer
}

// Instrument reports every Get, Put and Delete on store to observer. A nil
// observer returns store unchanged.
func Instrument(store Store, backend string, observer Observer) Store {
	if store == nil || observer == nil {
		return store
	}
	return &instrumented{Store: store, backend: backend, observer: observer}
}

func (s *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok, err := s.Store.Get(ctx, key)
	s.observer.Observe(s.backend, "get", err)
	return value, ok, err
}

func (s *instrumented) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := s.Store.Put(ctx, key, value, ttl)
	s.observer.Observe(s.backend, "put", err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, key string) error {
	err := s.Store.Delete(ctx, key)
	s.observer.Observe(s.backend, "delete", err)
	return err
}
