package channels

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultDedupSize = 4096
	DefaultDedupTTL  = 10 * time.Minute
)

// Deduper remembers recently seen update ids so redelivered updates are
// processed once.
type Deduper struct {
	mu    sync.Mutex
	cache *lru.Cache[string, time.Time]
	ttl   time.Duration
	now   func() time.Time
}

// NewDeduper builds a deduper holding up to size ids for ttl.
func NewDeduper(size int, ttl time.Duration) (*Deduper, error) {
	if size <= 0 {
		size = DefaultDedupSize
	}
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	cache, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, fmt.Errorf("update deduper init: %w", err)
	}
	return &Deduper{cache: cache, ttl: ttl, now: time.Now}, nil
}

// Seen records id and reports whether it was already recorded within ttl.
// Empty ids are never considered duplicates.
func (d *Deduper) Seen(id string) bool {
	if d == nil || id == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if ts, ok := d.cache.Get(id); ok {
		if now.Sub(ts) <= d.ttl {
			return true
		}
		d.cache.Remove(id)
	}
	d.cache.Add(id, now)
	return false
}

// Forget drops id so a failed delivery can be retried by the platform.
func (d *Deduper) Forget(id string) {
	if d == nil || id == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.Remove(id)
}
