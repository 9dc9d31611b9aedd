// Package tokens persists the session: access/refresh tokens and the cached
// user identity, all backed by the durable local KV. Every value is stored
// JSON-encoded so any localstore backend can hold it.
package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"racketoutlet/internal/localstore"
	"racketoutlet/pkg/domain"
)

const (
	accessTokenKey  = "session.access_token"
	refreshTokenKey = "session.refresh_token"
	userKey         = "session.user"
)

// ErrNoToken indicates no token of the requested kind is stored.
var ErrNoToken = errors.New("tokens: no token stored")

// Store persists session tokens and the cached user over a KV.
type Store struct {
	kv localstore.KV
}

// NewStore wraps kv with the session key layout.
func NewStore(kv localstore.KV) *Store {
	return &Store{kv: kv}
}

// AccessToken returns the stored access token, or ErrNoToken.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.getString(ctx, accessTokenKey)
}

// RefreshToken returns the stored refresh token, or ErrNoToken.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.getString(ctx, refreshTokenKey)
}

// SetTokens stores both tokens. An empty refresh token leaves any previously
// stored one in place, matching a refresh response that rotates only access.
func (s *Store) SetTokens(ctx context.Context, access, refresh string) error {
	if err := s.setString(ctx, accessTokenKey, access); err != nil {
		return err
	}
	if refresh == "" {
		return nil
	}
	return s.setString(ctx, refreshTokenKey, refresh)
}

// SetAccessToken replaces only the access token.
func (s *Store) SetAccessToken(ctx context.Context, access string) error {
	return s.setString(ctx, accessTokenKey, access)
}

// User returns the cached user identity, or ErrNoToken when none is cached.
func (s *Store) User(ctx context.Context) (domain.User, error) {
	raw, err := s.kv.Get(ctx, userKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return domain.User{}, ErrNoToken
	}
	if err != nil {
		return domain.User{}, err
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return domain.User{}, fmt.Errorf("decode cached user: %w", err)
	}
	return u, nil
}

// SetUser caches the user identity.
func (s *Store) SetUser(ctx context.Context, u domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, userKey, string(data))
}

// ClearSession removes tokens and the cached user. Idempotent.
func (s *Store) ClearSession(ctx context.Context) error {
	for _, key := range []string{accessTokenKey, refreshTokenKey, userKey} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) getString(ctx context.Context, key string) (string, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, localstore.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return "", fmt.Errorf("decode %s: %w", key, err)
	}
	if v == "" {
		return "", ErrNoToken
	}
	return v, nil
}

func (s *Store) setString(ctx context.Context, key, value string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, key, string(data))
}
