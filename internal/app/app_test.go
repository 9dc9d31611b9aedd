package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"racketoutlet/internal/api"
	"racketoutlet/internal/localstore"
	"racketoutlet/internal/store"
	"racketoutlet/internal/tokens"
	"racketoutlet/pkg/domain"
)

type fixture struct {
	app    *App
	store  *store.Store
	tokens *tokens.Store
	kv     localstore.KV
}

func newFixture(t *testing.T, handler http.Handler, kv localstore.KV) *fixture {
	t.Helper()
	if kv == nil {
		kv = localstore.NewMemory()
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st := store.New()
	tk := tokens.NewStore(kv)
	a := New(Config{
		API:    api.NewClient(api.Config{BaseURL: srv.URL, Tokens: tk}),
		Store:  st,
		Tokens: tk,
		KV:     kv,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return &fixture{app: a, store: st, tokens: tk, kv: kv}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if err := f.tokens.SetTokens(ctx, "access", "refresh"); err != nil {
		t.Fatal(err)
	}
	f.store.Dispatch(store.LoggedIn{User: domain.User{ID: 1, Email: "a@b.c"}})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func testProduct(id int64, price string) domain.Product {
	return domain.Product{ID: id, Name: "racket", Price: decimal.RequireFromString(price)}
}

func TestLoginEstablishesSession(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/login/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"access":  "access-token",
			"refresh": "refresh-token",
			"user":    domain.User{ID: 9, Email: "player@example.com"},
		})
	})
	mux.HandleFunc("/api/cart/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, domain.Cart{ID: 4, Items: []domain.CartLine{
			{ID: 1, Product: testProduct(1, "100"), Quantity: 2},
		}})
	})
	mux.HandleFunc("/api/wishlist/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"items": []domain.WishlistItem{
			{ID: 1, Product: testProduct(3, "50")},
		}})
	})
	f := newFixture(t, mux, nil)

	if err := f.app.Login(ctx, api.Credentials{Email: "player@example.com", Password: "secret"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	state := f.store.State()
	if state.Auth.Status != store.Authenticated || state.Auth.User.ID != 9 {
		t.Errorf("auth = %+v, want authenticated user 9", state.Auth)
	}
	if len(state.Cart.Lines) != 1 || len(state.Wishlist.Items) != 1 {
		t.Errorf("cart/wishlist not loaded after login: %d/%d", len(state.Cart.Lines), len(state.Wishlist.Items))
	}
	if access, err := f.tokens.AccessToken(ctx); err != nil || access != "access-token" {
		t.Errorf("persisted access = %q, %v", access, err)
	}
	if user, err := f.tokens.User(ctx); err != nil || user.Email != "player@example.com" {
		t.Errorf("persisted user = %+v, %v", user, err)
	}
}

func TestLoginFailureRecordsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/login/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(t, w, map[string]string{"detail": "Invalid credentials."})
	})
	f := newFixture(t, mux, nil)

	err := f.app.Login(context.Background(), api.Credentials{Email: "x", Password: "y"})
	if err == nil {
		t.Fatal("Login succeeded against a rejecting server")
	}
	auth := f.store.State().Auth
	if auth.Status != store.Anonymous || auth.Err != "Invalid credentials." {
		t.Errorf("auth = %+v, want anonymous with server message", auth)
	}
}

func TestProtectedOperationsRequireAuth(t *testing.T) {
	var calls atomic.Int64
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}), nil)

	ctx := context.Background()
	for name, call := range map[string]func() error{
		"RefreshCart":     func() error { return f.app.RefreshCart(ctx) },
		"RefreshWishlist": func() error { return f.app.RefreshWishlist(ctx) },
		"LoadOrders":      func() error { return f.app.LoadOrders(ctx, 1, "") },
		"AddCartItem":     func() error { return f.app.AddCartItem(ctx, testProduct(1, "10"), 1) },
	} {
		if err := call(); !errors.Is(err, ErrAuthRequired) {
			t.Errorf("%s on anonymous session: %v, want ErrAuthRequired", name, err)
		}
	}
	if calls.Load() != 0 {
		t.Errorf("anonymous operations reached the network: %d calls", calls.Load())
	}
}

func TestLogoutClearsSessionAndPersistence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, http.NewServeMux(), nil)
	f.login(t)
	f.store.Dispatch(store.CartReplaced{Cart: domain.Cart{Items: []domain.CartLine{
		{ID: 1, Product: testProduct(1, "10"), Quantity: 1},
	}}})

	f.app.Logout(ctx)

	state := f.store.State()
	if state.Auth.Status != store.Anonymous || len(state.Cart.Lines) != 0 {
		t.Errorf("state not cleared: %+v", state.Auth)
	}
	if _, err := f.tokens.AccessToken(ctx); !errors.Is(err, tokens.ErrNoToken) {
		t.Errorf("access token survived logout: %v", err)
	}
	if _, err := f.tokens.RefreshToken(ctx); !errors.Is(err, tokens.ErrNoToken) {
		t.Errorf("refresh token survived logout: %v", err)
	}
}

func TestRestoreSession(t *testing.T) {
	ctx := context.Background()
	kv := localstore.NewMemory()

	first := newFixture(t, http.NewServeMux(), kv)
	if err := first.tokens.SetTokens(ctx, "access", "refresh"); err != nil {
		t.Fatal(err)
	}
	if err := first.tokens.SetUser(ctx, domain.User{ID: 5, Email: "back@example.com"}); err != nil {
		t.Fatal(err)
	}

	// A fresh store over the same KV, as after a restart.
	second := newFixture(t, http.NewServeMux(), kv)
	if err := second.app.RestoreSession(ctx); err != nil {
		t.Fatalf("RestoreSession: %v", err)
	}
	auth := second.store.State().Auth
	if auth.Status != store.Authenticated || auth.User.ID != 5 {
		t.Errorf("auth = %+v, want restored user 5", auth)
	}
}

func TestRestoreSessionEmptyKVStaysAnonymous(t *testing.T) {
	f := newFixture(t, http.NewServeMux(), nil)
	if err := f.app.RestoreSession(context.Background()); err != nil {
		t.Fatalf("RestoreSession on empty KV: %v", err)
	}
	if got := f.store.State().Auth.Status; got != store.Anonymous {
		t.Errorf("status = %q, want anonymous", got)
	}
}

func TestOptimisticCartUpdateFiresWithoutBlocking(t *testing.T) {
	release := make(chan struct{})
	var patched atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cart/items/1/", func(w http.ResponseWriter, r *http.Request) {
		<-release
		patched.Add(1)
		writeJSON(t, w, domain.CartLine{ID: 1, Product: testProduct(1, "10"), Quantity: 5})
	})
	f := newFixture(t, mux, nil)
	f.login(t)
	f.store.Dispatch(store.CartReplaced{Cart: domain.Cart{Items: []domain.CartLine{
		{ID: 1, Product: testProduct(1, "10"), Quantity: 2},
	}}})

	if err := f.app.UpdateCartItemQuantity(context.Background(), 1, 5); err != nil {
		t.Fatalf("UpdateCartItemQuantity: %v", err)
	}
	// The slice already reflects the input while the server call is parked.
	if got := f.store.State().Cart.Lines[0].Quantity; got != 5 {
		t.Errorf("quantity = %d before server resolution, want 5", got)
	}
	close(release)
	waitFor(t, "server PATCH", func() bool { return patched.Load() == 1 })
}

func TestWishlistRemoveFailureTriggersCorrectiveRefetch(t *testing.T) {
	items := []domain.WishlistItem{{ID: 1, Product: testProduct(7, "80")}}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/wishlist/remove/7/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(t, w, map[string]string{"detail": "storage unavailable"})
	})
	mux.HandleFunc("/api/wishlist/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"items": items})
	})
	f := newFixture(t, mux, nil)
	f.login(t)
	f.store.Dispatch(store.WishlistReplaced{Items: items})

	if err := f.app.RemoveWishlistItem(context.Background(), 7); err != nil {
		t.Fatalf("RemoveWishlistItem: %v", err)
	}
	// Optimistically gone first, then the corrective refetch brings it back.
	waitFor(t, "corrective refetch", func() bool {
		return f.store.State().Wishlist.Contains(7)
	})
}

func TestHomeVersionedCacheSkipsPayloadFetch(t *testing.T) {
	var payloadFetches atomic.Int64
	data := domain.HomeData{Banners: []domain.Banner{{ID: 1, Title: "summer open"}}}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/homepage/version/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]string{"version": "v7"})
	})
	mux.HandleFunc("/api/homepage/", func(w http.ResponseWriter, r *http.Request) {
		payloadFetches.Add(1)
		writeJSON(t, w, api.HomePayload{Version: "v7", Data: data})
	})
	f := newFixture(t, mux, nil)

	ctx := context.Background()
	if err := f.app.LoadHome(ctx); err != nil {
		t.Fatalf("first LoadHome: %v", err)
	}
	if err := f.app.LoadHome(ctx); err != nil {
		t.Fatalf("second LoadHome: %v", err)
	}
	if got := payloadFetches.Load(); got != 1 {
		t.Errorf("payload fetches = %d, want 1 (second load served from versioned cache)", got)
	}
	home := f.store.State().Home
	if !home.Loaded || home.Version != "v7" || len(home.Data.Banners) != 1 {
		t.Errorf("home = %+v, want cached v7 content", home)
	}
}

func TestLoadOrdersPassesSort(t *testing.T) {
	var gotOrdering string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		gotOrdering = r.URL.Query().Get("ordering")
		writeJSON(t, w, map[string]any{"count": 1, "results": []domain.Order{{ID: 1, OrderNumber: "RO-1"}}})
	})
	f := newFixture(t, mux, nil)
	f.login(t)

	if err := f.app.LoadOrders(context.Background(), 1, domain.OrderSortAmountDesc); err != nil {
		t.Fatalf("LoadOrders: %v", err)
	}
	if gotOrdering != "-total_amount" {
		t.Errorf("ordering param = %q, want -total_amount", gotOrdering)
	}
	orders := f.store.State().Orders
	if len(orders.Orders) != 1 || orders.Sort != domain.OrderSortAmountDesc {
		t.Errorf("orders slice = %+v", orders)
	}
}
