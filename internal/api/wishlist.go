package api

import (
	"context"
	"fmt"
	"net/http"

	"racketoutlet/pkg/domain"
)

// FetchWishlist returns the session's wishlist items.
func (c *Client) FetchWishlist(ctx context.Context) ([]domain.WishlistItem, error) {
	var resp struct {
		Items []domain.WishlistItem `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/wishlist/", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddWishlistItem adds a product; the server enforces set semantics and
// returns the (new or existing) item.
func (c *Client) AddWishlistItem(ctx context.Context, productID int64) (domain.WishlistItem, error) {
	payload := map[string]int64{"product_id": productID}
	var item domain.WishlistItem
	if err := c.doJSON(ctx, http.MethodPost, "/api/wishlist/add/", nil, payload, &item); err != nil {
		return domain.WishlistItem{}, err
	}
	return item, nil
}

// RemoveWishlistItem removes a product from the wishlist. Removing an absent
// product is success, not an error.
func (c *Client) RemoveWishlistItem(ctx context.Context, productID int64) error {
	path := fmt.Sprintf("/api/wishlist/remove/%d/", productID)
	err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
	if IsNotFound(err) {
		return nil
	}
	return err
}
