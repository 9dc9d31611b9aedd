package app

import (
	"context"
	"encoding/json"
	"errors"

	"racketoutlet/internal/api"
	"racketoutlet/internal/localstore"
	"racketoutlet/internal/store"
	"racketoutlet/pkg/domain"
)

// RefreshCart replaces the cart slice wholesale with server truth and
// persists the snapshot. This is the reconciliation point for any drift left
// behind by failed optimistic updates.
func (a *App) RefreshCart(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	a.store.Dispatch(store.CartPending{})
	cart, err := a.api.FetchCart(ctx)
	if err != nil {
		a.store.Dispatch(store.CartFailed{Err: errMessage(err)})
		return err
	}
	a.store.Dispatch(store.CartReplaced{Cart: cart})
	a.saveCartSnapshot(ctx, cart)
	return nil
}

// AddCartItem adds optimistically: the line lands in the slice immediately,
// built from the request input, and the server's cart replaces it when the
// call resolves.
func (a *App) AddCartItem(ctx context.Context, product domain.Product, quantity int) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if quantity < 1 {
		quantity = 1
	}
	a.store.Dispatch(store.CartLineAdded{Line: domain.CartLine{
		Product:  product.Summary(),
		Quantity: quantity,
	}})

	cart, err := a.api.AddCartItem(ctx, api.CartItemInput{ProductID: product.ID, Quantity: quantity})
	if err != nil {
		a.store.Dispatch(store.CartFailed{Err: errMessage(err)})
		return err
	}
	a.store.Dispatch(store.CartReplaced{Cart: cart})
	a.saveCartSnapshot(ctx, cart)
	return nil
}

// UpdateCartItemQuantity updates a line optimistically. Quantity zero removes
// the line. The network call is fired without blocking; a failure is logged
// and the slice diverges from server truth until the next RefreshCart.
func (a *App) UpdateCartItemQuantity(ctx context.Context, lineID int64, quantity int) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if quantity <= 0 {
		return a.RemoveCartItem(ctx, lineID)
	}
	a.store.Dispatch(store.CartQuantitySet{LineID: lineID, Quantity: quantity})
	go func() {
		if _, err := a.api.UpdateCartItem(ctx, lineID, quantity); err != nil {
			a.logger.Warn("cart quantity update failed, state diverged until next refresh",
				"line_id", lineID, "quantity", quantity, "error", err)
		}
	}()
	return nil
}

// RemoveCartItem removes a line optimistically, same discipline as quantity
// updates. A 404 from the server means the line was already gone.
func (a *App) RemoveCartItem(ctx context.Context, lineID int64) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	a.store.Dispatch(store.CartLineRemoved{LineID: lineID})
	go func() {
		if err := a.api.RemoveCartItem(ctx, lineID); err != nil {
			a.logger.Warn("cart line removal failed, state diverged until next refresh",
				"line_id", lineID, "error", err)
		}
	}()
	return nil
}

// RemoveCartItems removes several lines pessimistically: the slice changes
// only after every removal is confirmed by the server. Used by checkout to
// clear ordered lines. Lines the server no longer has count as removed.
func (a *App) RemoveCartItems(ctx context.Context, lineIDs []int64) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	for _, id := range lineIDs {
		if err := a.api.RemoveCartItem(ctx, id); err != nil {
			a.store.Dispatch(store.CartFailed{Err: errMessage(err)})
			return err
		}
	}
	a.store.Dispatch(store.CartLinesRemoved{LineIDs: lineIDs})
	state := a.store.State().Cart
	a.saveCartSnapshot(ctx, domain.Cart{ID: state.ID, Items: state.Lines})
	return nil
}

func (a *App) saveCartSnapshot(ctx context.Context, cart domain.Cart) {
	data, err := json.Marshal(cart)
	if err != nil {
		a.logger.Warn("encoding cart snapshot failed", "error", err)
		return
	}
	if err := a.kv.Set(ctx, cartSnapshotKey, string(data)); err != nil {
		a.logger.Warn("persisting cart snapshot failed", "error", err)
	}
}

func (a *App) loadCartSnapshot(ctx context.Context) (domain.Cart, bool) {
	raw, err := a.kv.Get(ctx, cartSnapshotKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return domain.Cart{}, false
	}
	if err != nil {
		a.logger.Warn("loading cart snapshot failed", "error", err)
		return domain.Cart{}, false
	}
	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		a.logger.Warn("decoding cart snapshot failed", "error", err)
		return domain.Cart{}, false
	}
	return cart, true
}
