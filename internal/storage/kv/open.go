package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	FileDir     string
	RedisURL    string
	PostgresDSN string
	SQLitePath  string
}

// Open constructs the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendFile:
		dir := opts.FileDir
		if strings.TrimSpace(dir) == "" {
			dir = filepath.Join(".", "data")
		}
		return NewFileStore(dir)
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisURL)
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.PostgresDSN)
	case BackendSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", opts.Backend)
	}
}
