package app

import (
	"context"

	"racketoutlet/internal/store"
	"racketoutlet/pkg/domain"
)

// LoadOrders fetches one page of order history, sorted by date or amount.
func (a *App) LoadOrders(ctx context.Context, page int, sort domain.OrderSort) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if sort == "" {
		sort = domain.OrderSortDateDesc
	}
	a.store.Dispatch(store.OrdersPending{})
	list, err := a.api.Orders(ctx, page, sort)
	if err != nil {
		a.store.Dispatch(store.OrdersFailed{Err: errMessage(err)})
		return err
	}
	a.store.Dispatch(store.OrdersLoaded{
		Orders:     list.Orders,
		Count:      list.Count,
		Page:       list.Page,
		TotalPages: list.TotalPages,
		Sort:       sort,
	})
	return nil
}

// LoadOrder fetches one order's detail view.
func (a *App) LoadOrder(ctx context.Context, id int64) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	a.store.Dispatch(store.OrdersPending{})
	order, err := a.api.Order(ctx, id)
	if err != nil {
		a.store.Dispatch(store.OrdersFailed{Err: errMessage(err)})
		return err
	}
	a.store.Dispatch(store.OrderLoaded{Order: order})
	return nil
}
