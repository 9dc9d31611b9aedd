package app

import (
	"context"
	"errors"

	"racketoutlet/internal/api"
	"racketoutlet/internal/store"
	"racketoutlet/internal/tokens"
	"racketoutlet/pkg/domain"
)

// Login authenticates, persists the session and loads the cart and wishlist.
func (a *App) Login(ctx context.Context, creds api.Credentials) error {
	a.store.Dispatch(store.AuthPending{})
	result, err := a.api.Login(ctx, creds)
	if err != nil {
		a.store.Dispatch(store.AuthFailed{Err: errMessage(err)})
		return err
	}
	return a.establishSession(ctx, result)
}

// Register creates an account. The API returns tokens on success, so
// registration logs the new user straight in.
func (a *App) Register(ctx context.Context, reg api.Registration) error {
	a.store.Dispatch(store.AuthPending{})
	result, err := a.api.Register(ctx, reg)
	if err != nil {
		a.store.Dispatch(store.AuthFailed{Err: errMessage(err)})
		return err
	}
	return a.establishSession(ctx, result)
}

func (a *App) establishSession(ctx context.Context, result api.AuthResult) error {
	if err := a.tokens.SetTokens(ctx, result.Access, result.Refresh); err != nil {
		a.store.Dispatch(store.AuthFailed{Err: errMessage(err)})
		return err
	}
	if err := a.tokens.SetUser(ctx, result.User); err != nil {
		a.store.Dispatch(store.AuthFailed{Err: errMessage(err)})
		return err
	}
	a.store.Dispatch(store.LoggedIn{User: result.User})

	// Session-scoped data loads are best effort; the session itself is up.
	if err := a.RefreshCart(ctx); err != nil {
		a.logger.Warn("cart load after login failed", "error", err)
	}
	if err := a.RefreshWishlist(ctx); err != nil {
		a.logger.Warn("wishlist load after login failed", "error", err)
	}
	return nil
}

// Logout clears the persisted session and every session-scoped slice. It
// never fails: a broken KV still results in an anonymous state tree.
func (a *App) Logout(ctx context.Context) {
	if err := a.tokens.ClearSession(ctx); err != nil {
		a.logger.Warn("clearing persisted session failed", "error", err)
	}
	if err := a.kv.Delete(ctx, cartSnapshotKey); err != nil {
		a.logger.Warn("clearing cart snapshot failed", "error", err)
	}
	a.store.Dispatch(store.SessionCleared{})
}

// HandleSessionExpired is the api.Config.OnSessionExpired hook: the client
// has already cleared the persisted tokens, so only the state tree is reset.
func (a *App) HandleSessionExpired() {
	a.store.Dispatch(store.SessionCleared{})
}

// RestoreSession rebuilds the auth slice from persisted tokens and the cached
// user at startup. An empty or partial persisted session leaves the tree
// anonymous without error. It also restores the recently-viewed list.
func (a *App) RestoreSession(ctx context.Context) error {
	a.restoreRecent(ctx)

	access, err := a.tokens.AccessToken(ctx)
	if errors.Is(err, tokens.ErrNoToken) {
		return nil
	}
	if err != nil {
		return err
	}
	user, err := a.tokens.User(ctx)
	if errors.Is(err, tokens.ErrNoToken) {
		return nil
	}
	if err != nil {
		return err
	}
	if exp, err := tokens.AccessTokenExpiry(access); err == nil {
		a.logger.Debug("restored session", "user", user.Email, "access_expires", exp)
	}
	a.store.Dispatch(store.LoggedIn{User: user})

	if snapshot, ok := a.loadCartSnapshot(ctx); ok {
		a.store.Dispatch(store.CartReplaced{Cart: snapshot})
	}
	return nil
}

// UpdateProfile saves profile changes and refreshes the cached identity.
func (a *App) UpdateProfile(ctx context.Context, update api.ProfileUpdate) (domain.User, error) {
	if err := a.requireAuth(); err != nil {
		return domain.User{}, err
	}
	user, err := a.api.UpdateProfile(ctx, update)
	if err != nil {
		return domain.User{}, err
	}
	if err := a.tokens.SetUser(ctx, user); err != nil {
		a.logger.Warn("caching updated profile failed", "error", err)
	}
	a.store.Dispatch(store.UserUpdated{User: user})
	return user, nil
}

// ChangePassword is a pass-through for authenticated password changes.
func (a *App) ChangePassword(ctx context.Context, current, next string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	return a.api.ChangePassword(ctx, current, next)
}

// RequestPasswordReset asks the server to mail a reset token.
func (a *App) RequestPasswordReset(ctx context.Context, email string) error {
	return a.api.RequestPasswordReset(ctx, email)
}

// ConfirmPasswordReset completes a reset with the mailed token.
func (a *App) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return a.api.ConfirmPasswordReset(ctx, token, newPassword)
}
