// Command storefront is a warm-up and diagnostic run of the client core: it
// restores any persisted session, loads the home content and, when
// authenticated, the cart and wishlist, then logs a summary.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"racketoutlet/internal/api"
	"racketoutlet/internal/app"
	"racketoutlet/internal/config"
	"racketoutlet/internal/localstore"
	"racketoutlet/internal/store"
	"racketoutlet/internal/tokens"
	"racketoutlet/internal/util"
)

func main() {
	configPath := flag.String("config", config.ConfigPath, "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	timeout, err := config.ParseHTTPTimeout(cfg.HTTPTimeout)
	if err != nil {
		log.Fatalf("failed to parse HTTP timeout: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	kv, err := localstore.Open(localstore.Config{
		Backend:       cfg.LocalStore,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		PostgresDSN:   cfg.PostgresDSN,
	})
	if err != nil {
		log.Fatalf("failed to open local store: %v", err)
	}

	st := store.New()
	tokenStore := tokens.NewStore(kv)
	client := api.NewClient(api.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: timeout,
		Tokens:  tokenStore,
		OnSessionExpired: func() {
			st.Dispatch(store.SessionCleared{})
		},
	})
	core := app.New(app.Config{
		API:           client,
		Store:         st,
		Tokens:        tokenStore,
		KV:            kv,
		Logger:        logger,
		PrefetchDepth: cfg.PrefetchDepth,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := core.RestoreSession(ctx); err != nil {
		log.Fatalf("failed to restore session: %v", err)
	}
	if err := core.LoadHome(ctx); err != nil {
		logger.Error("home content load failed", "error", err)
	}

	state := st.State()
	if state.Auth.Status == store.Authenticated {
		if err := core.RefreshCart(ctx); err != nil {
			logger.Error("cart load failed", "error", err)
		}
		if err := core.RefreshWishlist(ctx); err != nil {
			logger.Error("wishlist load failed", "error", err)
		}
		state = st.State()
	}

	logger.Info("storefront warm-up complete",
		"authenticated", state.Auth.Status == store.Authenticated,
		"user", state.Auth.User.Email,
		"cart_lines", len(state.Cart.Lines),
		"cart_total", state.Cart.Total(),
		"wishlist_items", len(state.Wishlist.Items),
		"home_version", state.Home.Version,
		"recently_viewed", len(state.Recent.Products),
	)
}
