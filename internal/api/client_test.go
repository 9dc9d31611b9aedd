package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"racketoutlet/internal/localstore"
	"racketoutlet/internal/tokens"
)

func newTestTokens(t *testing.T) *tokens.Store {
	t.Helper()
	return tokens.NewStore(localstore.NewMemory())
}

func newTestClient(t *testing.T, baseURL string, ts *tokens.Store, onExpired func()) *Client {
	t.Helper()
	return NewClient(Config{
		BaseURL:          baseURL,
		Timeout:          5 * time.Second,
		Tokens:           ts,
		OnSessionExpired: onExpired,
	})
}

func TestRetryAfterRefresh(t *testing.T) {
	ctx := context.Background()
	var refreshCalls, profileCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"access": "fresh"})
	})
	mux.HandleFunc("/api/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "email": "a@b.c"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ts := newTestTokens(t)
	if err := ts.SetTokens(ctx, "stale", "refresh-token"); err != nil {
		t.Fatal(err)
	}
	client := newTestClient(t, srv.URL, ts, nil)

	user, err := client.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("user ID = %d, want 7", user.ID)
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
	if got := profileCalls.Load(); got != 2 {
		t.Errorf("profile calls = %d, want 2 (original + retry)", got)
	}
	access, err := ts.AccessToken(ctx)
	if err != nil || access != "fresh" {
		t.Errorf("stored access = %q, %v; want %q", access, err, "fresh")
	}
}

func TestSecondUnauthorizedIsFinal(t *testing.T) {
	ctx := context.Background()
	var refreshCalls, profileCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"access": "still-bad"})
	})
	mux.HandleFunc("/api/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		profileCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "nope"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ts := newTestTokens(t)
	if err := ts.SetTokens(ctx, "stale", "refresh-token"); err != nil {
		t.Fatal(err)
	}
	client := newTestClient(t, srv.URL, ts, nil)

	_, err := client.Profile(ctx)
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401 APIError", err)
	}
	if got := profileCalls.Load(); got != 2 {
		t.Errorf("profile calls = %d, want exactly 2", got)
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
}

func TestNoRefreshTokenPropagatesUnauthorized(t *testing.T) {
	ctx := context.Background()
	var refreshCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	mux.HandleFunc("/api/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "auth required"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	expired := false
	client := newTestClient(t, srv.URL, newTestTokens(t), func() { expired = true })

	_, err := client.Profile(ctx)
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401 APIError", err)
	}
	if refreshCalls.Load() != 0 {
		t.Error("refresh endpoint called without a stored refresh token")
	}
	if expired {
		t.Error("OnSessionExpired fired for a plain unauthenticated request")
	}
}

func TestRefreshFailureClearsSession(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "refresh expired"})
	})
	mux.HandleFunc("/api/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ts := newTestTokens(t)
	if err := ts.SetTokens(ctx, "stale", "dead-refresh"); err != nil {
		t.Fatal(err)
	}
	expired := false
	client := newTestClient(t, srv.URL, ts, func() { expired = true })

	_, err := client.Profile(ctx)
	if !IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401 APIError", err)
	}
	if !expired {
		t.Error("OnSessionExpired did not fire")
	}
	if _, err := ts.AccessToken(ctx); !errors.Is(err, tokens.ErrNoToken) {
		t.Errorf("access token still stored after failed refresh: %v", err)
	}
	if _, err := ts.RefreshToken(ctx); !errors.Is(err, tokens.ErrNoToken) {
		t.Errorf("refresh token still stored after failed refresh: %v", err)
	}
}

func TestConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	ctx := context.Background()
	var refreshCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		time.Sleep(50 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"access": "fresh"})
	})
	mux.HandleFunc("/api/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 1})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ts := newTestTokens(t)
	if err := ts.SetTokens(ctx, "stale", "refresh-token"); err != nil {
		t.Fatal(err)
	}
	client := newTestClient(t, srv.URL, ts, nil)

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Profile(ctx)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1 shared refresh", got)
	}
}

func TestDecodeFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string][]string{
			"email":    {"Enter a valid email address."},
			"password": {"This field is required."},
		})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, newTestTokens(t), nil)

	_, err := client.Login(context.Background(), Credentials{Email: "bad", Password: ""})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.Status)
	}
	if len(apiErr.Fields["email"]) != 1 || len(apiErr.Fields["password"]) != 1 {
		t.Errorf("fields not decoded: %#v", apiErr.Fields)
	}
}

func TestNotFoundOnRemoveIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "No CartItem matches the given query."})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, newTestTokens(t), nil)

	if err := client.RemoveCartItem(context.Background(), 42); err != nil {
		t.Errorf("RemoveCartItem on absent item: %v", err)
	}
	if err := client.RemoveWishlistItem(context.Background(), 42); err != nil {
		t.Errorf("RemoveWishlistItem on absent item: %v", err)
	}
}
