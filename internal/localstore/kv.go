// Package localstore provides the durable key->string storage the storefront
// core uses for tokens, cached payloads, and the recently-viewed list.
package localstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound indicates the key has no stored value.
var ErrNotFound = errors.New("localstore: key not found")

// KV is durable key->string storage. Delete of an absent key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Config selects and parameterizes a KV backend.
type Config struct {
	// Backend: memory, redis, or postgres.
	Backend       string
	RedisAddr     string
	RedisPassword string
	PostgresDSN   string
}

// Open builds the KV named by cfg.Backend.
func Open(cfg Config) (KV, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, errors.New("localstore: redis backend requires an address")
		}
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword), nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, errors.New("localstore: postgres backend requires a DSN")
		}
		return NewGorm(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("localstore: unknown backend %q", cfg.Backend)
	}
}
