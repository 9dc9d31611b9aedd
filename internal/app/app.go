// Package app is the orchestration layer: operations that call the API,
// dispatch state transitions to the store, and persist the durable
// client-side caches. Every operation settles its slice with either a
// fulfilled or a rejected dispatch; errors never propagate past the operation
// boundary except as the returned error value.
package app

import (
	"errors"
	"log/slog"

	"racketoutlet/internal/api"
	"racketoutlet/internal/localstore"
	"racketoutlet/internal/store"
	"racketoutlet/internal/tokens"
)

// Durable cache keys in the local KV.
const (
	cartSnapshotKey = "cache.cart"
	recentKey       = "cache.recently_viewed"
	homeKey         = "cache.home"
)

// ErrAuthRequired is returned by protected operations invoked on an
// anonymous session.
var ErrAuthRequired = errors.New("app: authentication required")

// Config wires the app's collaborators.
type Config struct {
	API    *api.Client
	Store  *store.Store
	Tokens *tokens.Store
	KV     localstore.KV
	Logger *slog.Logger
	// PrefetchDepth is how many pages past the requested one a search fetch
	// speculatively warms. Zero means the default of 3.
	PrefetchDepth int
}

// App exposes the storefront operations.
type App struct {
	api           *api.Client
	store         *store.Store
	tokens        *tokens.Store
	kv            localstore.KV
	logger        *slog.Logger
	prefetchDepth int
}

// New builds the app.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	depth := cfg.PrefetchDepth
	if depth <= 0 {
		depth = 3
	}
	return &App{
		api:           cfg.API,
		store:         cfg.Store,
		tokens:        cfg.Tokens,
		kv:            cfg.KV,
		logger:        logger,
		prefetchDepth: depth,
	}
}

// Store exposes the state tree for reads and subscriptions.
func (a *App) Store() *store.Store {
	return a.store
}

// requireAuth guards protected operations.
func (a *App) requireAuth() error {
	if a.store.State().Auth.Status != store.Authenticated {
		return ErrAuthRequired
	}
	return nil
}

// errMessage normalizes an operation failure into the message a rejected dispatch
// carries: the server's payload when there is one, else a generic fallback.
func errMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "something went wrong, please try again"
}
