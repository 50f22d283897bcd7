package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsonx "github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/shared/json"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/storage/kv"
)

// DefaultKey is the store key holding the state blob.
const DefaultKey = "teacherbot:state"

// RepositoryConfig configures the state adapter.
type RepositoryConfig struct {
	Key                string
	TTL                time.Duration
	TeacherDisplayName string
	// OnVersion, when set, receives the version after every load and save.
	OnVersion func(version int64)
}

// Repository loads and saves the whole state blob. It performs no locking;
// concurrent load-modify-save cycles across processes are last-write-wins.
type Repository struct {
	store       kv.Store
	key         string
	ttl         time.Duration
	displayName string
	onVersion   func(int64)
	now         func() time.Time
}

// NewRepository wraps store.
func NewRepository(store kv.Store, cfg RepositoryConfig) *Repository {
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		key = DefaultKey
	}
	displayName := strings.TrimSpace(cfg.TeacherDisplayName)
	if displayName == "" {
		displayName = DefaultTeacherDisplayName
	}
	return &Repository{
		store:       store,
		key:         key,
		ttl:         cfg.TTL,
		displayName: displayName,
		onVersion:   cfg.OnVersion,
		now:         time.Now,
	}
}

// Key returns the store key, which also names the serialization domain for
// in-process writers.
func (r *Repository) Key() string {
	return r.key
}

// Load reads the state, returning a defaulted state when none is stored.
func (r *Repository) Load(ctx context.Context) (*GlobalState, error) {
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	st := &GlobalState{}
	if ok && len(raw) > 0 {
		if err := jsonx.Unmarshal(raw, st); err != nil {
			return nil, fmt.Errorf("decode state: %w", err)
		}
	}
	st.applyDefaults(r.displayName)
	r.reportVersion(st.Version)
	return st, nil
}

// Save bumps the version and writes the whole blob.
func (r *Repository) Save(ctx context.Context, st *GlobalState) error {
	if st == nil {
		return fmt.Errorf("save state: nil state")
	}
	now := r.now().UTC()
	next := *st
	next.Version = st.Version + 1
	next.UpdatedAt = &now
	raw, err := jsonx.Marshal(&next)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := r.store.Put(ctx, r.key, raw, r.ttl); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	st.Version = next.Version
	st.UpdatedAt = next.UpdatedAt
	r.reportVersion(st.Version)
	return nil
}

func (r *Repository) reportVersion(version int64) {
	if r.onVersion != nil {
		r.onVersion(version)
	}
}

// Reset removes the stored blob.
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("reset state: %w", err)
	}
	return nil
}
