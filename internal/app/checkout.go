package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"racketoutlet/internal/api"
	"racketoutlet/pkg/domain"
)

// ErrCheckoutSettled is returned when a completion is invoked on a checkout
// that has already been confirmed, failed or cancelled.
var ErrCheckoutSettled = errors.New("app: checkout already settled")

// Checkout is a pending payment flow. The external widget has exactly two
// legal completions, ConfirmPayment and CancelPayment, and neither is
// guaranteed to fire: an untouched checkout leaves the order provisional on
// the server for operator reconciliation, never forcibly resolved here.
type Checkout struct {
	Order   domain.Order
	Payment domain.Payment

	app     *App
	lineIDs []int64

	mu      sync.Mutex
	settled bool
}

// BeginCheckout places the order and opens the provider payment. With no
// explicit items the current cart is ordered, and those lines are cleared
// from the cart once payment is confirmed.
func (a *App) BeginCheckout(ctx context.Context, input api.OrderInput) (*Checkout, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}
	var lineIDs []int64
	if len(input.Items) == 0 {
		cart := a.store.State().Cart
		if len(cart.Lines) == 0 {
			return nil, errors.New("app: cannot check out an empty cart")
		}
		for _, line := range cart.Lines {
			input.Items = append(input.Items, api.CartItemInput{
				ProductID: line.Product.ID,
				Quantity:  line.Quantity,
			})
			lineIDs = append(lineIDs, line.ID)
		}
	}
	if input.IdempotencyKey == "" {
		input.IdempotencyKey = uuid.NewString()
	}

	order, err := a.api.CreateOrder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	payment, err := a.api.CreatePayment(ctx, order.ID)
	if err != nil {
		// The order stays provisional server-side; nothing to roll back here.
		return nil, fmt.Errorf("open payment for order %d: %w", order.ID, err)
	}
	a.logger.Info("checkout started",
		"order_id", order.ID, "order_number", order.OrderNumber,
		"amount", payment.Amount, "provider_order_id", payment.ProviderOrderID)
	return &Checkout{Order: order, Payment: payment, app: a, lineIDs: lineIDs}, nil
}

func (c *Checkout) settle() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.settled {
		return ErrCheckoutSettled
	}
	c.settled = true
	return nil
}

// ConfirmPayment submits the widget's proof for server-side verification.
// Verification failure marks the payment failed server-side and reports the
// error. On success the ordered lines leave the cart and the order history
// refreshes. One-shot: any completion after the first returns
// ErrCheckoutSettled.
func (c *Checkout) ConfirmPayment(ctx context.Context, proof domain.PaymentProof) error {
	if err := c.settle(); err != nil {
		return err
	}
	a := c.app
	if err := a.api.VerifyPayment(ctx, c.Order.ID, proof); err != nil {
		if failErr := a.api.FailPayment(ctx, c.Order.ID); failErr != nil {
			a.logger.Warn("marking payment failed did not reach the server",
				"order_id", c.Order.ID, "error", failErr)
		}
		return fmt.Errorf("verify payment for order %d: %w", c.Order.ID, err)
	}
	a.logger.Info("checkout confirmed", "order_id", c.Order.ID)

	if len(c.lineIDs) > 0 {
		if err := a.RemoveCartItems(ctx, c.lineIDs); err != nil {
			a.logger.Warn("clearing ordered cart lines failed", "order_id", c.Order.ID, "error", err)
		}
	}
	if err := a.LoadOrders(ctx, 1, domain.OrderSortDateDesc); err != nil {
		a.logger.Warn("order history refresh after checkout failed", "error", err)
	}
	return nil
}

// CancelPayment notifies the server the user dismissed the payment flow and
// abandons the checkout. One-shot, same as ConfirmPayment.
func (c *Checkout) CancelPayment(ctx context.Context) error {
	if err := c.settle(); err != nil {
		return err
	}
	if err := c.app.api.CancelPayment(ctx, c.Order.ID); err != nil {
		return fmt.Errorf("cancel payment for order %d: %w", c.Order.ID, err)
	}
	c.app.logger.Info("checkout cancelled", "order_id", c.Order.ID)
	return nil
}
