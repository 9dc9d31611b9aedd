package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"racketoutlet/pkg/domain"
)

// OrderInput is the order creation payload.
type OrderInput struct {
	ShippingAddress     string          `json:"shipping_address"`
	BillingAddress      string          `json:"billing_address"`
	ShippingPersonName  string          `json:"shipping_person_name"`
	ShippingPersonPhone string          `json:"shipping_person_number"`
	PaymentMethod       string          `json:"payment_method"`
	Notes               string          `json:"notes,omitempty"`
	IdempotencyKey      string          `json:"idempotency_key,omitempty"`
	Items               []CartItemInput `json:"items"`
}

// OrderList is one page of order history.
type OrderList struct {
	Orders     []domain.Order
	Count      int
	Page       int
	TotalPages int
}

// Orders fetches a page of the user's order history, sorted by ordering.
func (c *Client) Orders(ctx context.Context, page int, ordering domain.OrderSort) (OrderList, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if ordering != "" {
		query.Set("ordering", string(ordering))
	}
	var resp struct {
		Count   int            `json:"count"`
		Results []domain.Order `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/", query, nil, &resp); err != nil {
		return OrderList{}, err
	}
	if page < 1 {
		page = 1
	}
	return OrderList{
		Orders:     resp.Results,
		Count:      resp.Count,
		Page:       page,
		TotalPages: domain.TotalPages(resp.Count, domain.DefaultPageSize),
	}, nil
}

// Order fetches one order.
func (c *Client) Order(ctx context.Context, id int64) (domain.Order, error) {
	var order domain.Order
	path := fmt.Sprintf("/api/orders/%d/", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// CreateOrder places a new order.
func (c *Client) CreateOrder(ctx context.Context, input OrderInput) (domain.Order, error) {
	var order domain.Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders/", nil, input, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// CreatePayment asks the server to open a provider payment for the order.
func (c *Client) CreatePayment(ctx context.Context, orderID int64) (domain.Payment, error) {
	var resp struct {
		Payment domain.Payment `json:"payment"`
	}
	path := fmt.Sprintf("/api/orders/%d/payment/", orderID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, nil, &resp); err != nil {
		return domain.Payment{}, err
	}
	return resp.Payment, nil
}

// VerifyPayment submits the widget's proof for server-side verification. The
// checkout is complete only when this succeeds.
func (c *Client) VerifyPayment(ctx context.Context, orderID int64, proof domain.PaymentProof) error {
	path := fmt.Sprintf("/api/orders/%d/payment/verify/", orderID)
	return c.doJSON(ctx, http.MethodPost, path, nil, proof, nil)
}

// FailPayment reports a failed payment attempt.
func (c *Client) FailPayment(ctx context.Context, orderID int64) error {
	path := fmt.Sprintf("/api/orders/%d/payment/fail/", orderID)
	return c.doJSON(ctx, http.MethodPost, path, nil, nil, nil)
}

// CancelPayment tells the server the user dismissed the payment flow.
func (c *Client) CancelPayment(ctx context.Context, orderID int64) error {
	path := fmt.Sprintf("/api/orders/%d/payment/cancel/", orderID)
	return c.doJSON(ctx, http.MethodPost, path, nil, nil, nil)
}
