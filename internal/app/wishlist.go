package app

import (
	"context"
	"time"

	"racketoutlet/internal/store"
	"racketoutlet/pkg/domain"
)

// RefreshWishlist replaces the wishlist slice with server truth.
func (a *App) RefreshWishlist(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	a.store.Dispatch(store.WishlistPending{})
	items, err := a.api.FetchWishlist(ctx)
	if err != nil {
		a.store.Dispatch(store.WishlistFailed{Err: errMessage(err)})
		return err
	}
	a.store.Dispatch(store.WishlistReplaced{Items: items})
	return nil
}

// AddWishlistItem adds optimistically and idempotently: a product already
// wishlisted stays a single entry, and the network call runs without
// blocking. Failures are logged only; the next refresh reconciles.
func (a *App) AddWishlistItem(ctx context.Context, product domain.Product) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if a.store.State().Wishlist.Contains(product.ID) {
		return nil
	}
	a.store.Dispatch(store.WishlistItemAdded{Item: domain.WishlistItem{
		Product: product.Summary(),
		AddedAt: time.Now(),
	}})
	go func() {
		if _, err := a.api.AddWishlistItem(ctx, product.ID); err != nil {
			a.logger.Warn("wishlist add failed, state diverged until next refresh",
				"product_id", product.ID, "error", err)
		}
	}()
	return nil
}

// RemoveWishlistItem removes optimistically. Unlike the other optimistic
// operations, a server failure here triggers a corrective full refetch so the
// item reappears rather than silently diverging.
func (a *App) RemoveWishlistItem(ctx context.Context, productID int64) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	a.store.Dispatch(store.WishlistItemRemoved{ProductID: productID})
	go func() {
		if err := a.api.RemoveWishlistItem(ctx, productID); err != nil {
			a.logger.Warn("wishlist removal failed, refetching to reconcile",
				"product_id", productID, "error", err)
			if err := a.RefreshWishlist(ctx); err != nil {
				a.logger.Warn("corrective wishlist refetch failed", "error", err)
			}
		}
	}()
	return nil
}
