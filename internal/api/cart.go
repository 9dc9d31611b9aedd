package api

import (
	"context"
	"fmt"
	"net/http"

	"racketoutlet/pkg/domain"
)

// CartItemInput identifies a product and quantity for cart mutations.
type CartItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// FetchCart returns the session's cart, fresh from the server.
func (c *Client) FetchCart(ctx context.Context) (domain.Cart, error) {
	var cart domain.Cart
	if err := c.doJSON(ctx, http.MethodGet, "/api/cart/", nil, nil, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// AddCartItem adds a product to the cart; the server returns the full cart.
func (c *Client) AddCartItem(ctx context.Context, input CartItemInput) (domain.Cart, error) {
	var cart domain.Cart
	if err := c.doJSON(ctx, http.MethodPost, "/api/cart/items/", nil, input, &cart); err != nil {
		return domain.Cart{}, err
	}
	return cart, nil
}

// UpdateCartItem sets the quantity of a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, lineID int64, quantity int) (domain.CartLine, error) {
	payload := map[string]int{"quantity": quantity}
	var line domain.CartLine
	path := fmt.Sprintf("/api/cart/items/%d/", lineID)
	if err := c.doJSON(ctx, http.MethodPatch, path, nil, payload, &line); err != nil {
		return domain.CartLine{}, err
	}
	return line, nil
}

// RemoveCartItem deletes a cart line. Deleting an already-absent line is
// treated as success.
func (c *Client) RemoveCartItem(ctx context.Context, lineID int64) error {
	path := fmt.Sprintf("/api/cart/items/%d/", lineID)
	err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
	if IsNotFound(err) {
		return nil
	}
	return err
}
