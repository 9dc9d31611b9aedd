package localstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestBackendsAgreeOnSemantics(t *testing.T) {
	mr := miniredis.RunT(t)

	backends := map[string]KV{
		"memory": NewMemory(),
		"redis":  NewRedis(mr.Addr(), ""),
	}

	for name, kv := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get missing: want ErrNotFound, got %v", err)
			}
			if err := kv.Set(ctx, "k", `{"a":1}`); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := kv.Get(ctx, "k")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got != `{"a":1}` {
				t.Fatalf("get: want %q, got %q", `{"a":1}`, got)
			}
			if err := kv.Set(ctx, "k", `{"a":2}`); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, _ = kv.Get(ctx, "k")
			if got != `{"a":2}` {
				t.Fatalf("overwrite: want %q, got %q", `{"a":2}`, got)
			}
			if err := kv.Delete(ctx, "k"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("get deleted: want ErrNotFound, got %v", err)
			}
			// Deleting an absent key is not an error.
			if err := kv.Delete(ctx, "k"); err != nil {
				t.Fatalf("delete absent: %v", err)
			}
		})
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	if _, err := Open(Config{Backend: "memory"}); err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if _, err := Open(Config{}); err != nil {
		t.Fatalf("open default: %v", err)
	}
	if _, err := Open(Config{Backend: "redis"}); err == nil {
		t.Fatal("open redis without addr should fail")
	}
	if _, err := Open(Config{Backend: "postgres"}); err == nil {
		t.Fatal("open postgres without dsn should fail")
	}
	if _, err := Open(Config{Backend: "bolt"}); err == nil {
		t.Fatal("open unknown backend should fail")
	}
}
