package app

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/sync/errgroup"

	"racketoutlet/internal/localstore"
	"racketoutlet/internal/store"
	"racketoutlet/pkg/domain"
)

// SearchProducts shows the requested page. A filter change (anything but the
// page number) drops the whole page cache first. A cache-resident page is
// served synchronously with no network round-trip; a miss fetches the page
// and then speculatively warms up to the next prefetchDepth uncached pages in
// the background, each landing in the cache as it arrives. Prefetch failures
// are silent.
func (a *App) SearchProducts(ctx context.Context, filters domain.SearchFilters) error {
	filters = filters.Normalize()
	a.store.Dispatch(store.SearchPending{Filters: filters})

	if cached, ok := a.store.State().Search.CachedPage(filters.Page); ok {
		a.store.Dispatch(store.SearchPageServed{Page: filters.Page, Result: cached})
		return nil
	}

	result, err := a.api.SearchProducts(ctx, filters)
	if err != nil {
		a.store.Dispatch(store.SearchFailed{Err: errMessage(err)})
		return err
	}
	a.store.Dispatch(store.SearchPageLoaded{Page: filters.Page, Result: result, Display: true})

	a.prefetchPages(ctx, filters, domain.TotalPages(result.Count, filters.PageSize))
	return nil
}

// prefetchPages warms the next uncached pages concurrently. Each page is
// written back as its fetch completes; a page arriving after a filter change
// is dropped by the reducer's query check below.
func (a *App) prefetchPages(ctx context.Context, filters domain.SearchFilters, totalPages int) {
	resident := a.store.State().Search
	var pages []int
	for page := filters.Page + 1; page <= totalPages && len(pages) < a.prefetchDepth; page++ {
		if _, ok := resident.CachedPage(page); !ok {
			pages = append(pages, page)
		}
	}
	if len(pages) == 0 {
		return
	}

	go func() {
		var g errgroup.Group
		for _, page := range pages {
			pageFilters := filters
			pageFilters.Page = page
			g.Go(func() error {
				result, err := a.api.SearchProducts(ctx, pageFilters)
				if err != nil {
					return nil // speculative; a miss later just refetches
				}
				if a.store.State().Search.Filters.SameQuery(pageFilters) {
					a.store.Dispatch(store.SearchPageLoaded{Page: pageFilters.Page, Result: result})
				}
				return nil
			})
		}
		g.Wait()
	}()
}

// LoadProduct fetches the detail view. The view is recorded server-side by
// the endpoint itself, and the product lands at the front of the persisted
// recently-viewed list.
func (a *App) LoadProduct(ctx context.Context, id int64) (domain.Product, error) {
	a.store.Dispatch(store.ProductPending{})
	product, err := a.api.ProductByID(ctx, id)
	if err != nil {
		a.store.Dispatch(store.ProductFailed{Err: errMessage(err)})
		return domain.Product{}, err
	}
	a.store.Dispatch(store.ProductLoaded{Product: product})
	a.store.Dispatch(store.ProductViewed{Product: product})
	a.saveRecent(ctx)
	return product, nil
}

// LoadSubCategories fills one category's cached subcategories. A call for a
// category that is already cached or currently loading is a no-op: exactly
// one network request is made per category per session.
func (a *App) LoadSubCategories(ctx context.Context, categoryID int64) error {
	entry := a.store.State().SubCategories.Entries[categoryID]
	if entry.Loaded || entry.Loading {
		return nil
	}
	a.store.Dispatch(store.SubCategoriesPending{CategoryID: categoryID})
	items, err := a.api.SubCategoriesByCategory(ctx, categoryID)
	if err != nil {
		a.store.Dispatch(store.SubCategoriesFailed{CategoryID: categoryID, Err: errMessage(err)})
		return err
	}
	a.store.Dispatch(store.SubCategoriesLoaded{CategoryID: categoryID, Items: items})
	return nil
}

// LoadHighlights fetches the featured, deal-of-the-day and exclusive lists
// concurrently.
func (a *App) LoadHighlights(ctx context.Context) error {
	var featured, deal, exclusive []domain.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		featured, err = a.api.FeaturedProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		deal, err = a.api.DealOfTheDayProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		exclusive, err = a.api.ExclusiveProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	a.store.Dispatch(store.HighlightsLoaded{
		Featured:     featured,
		DealOfTheDay: deal,
		Exclusive:    exclusive,
	})
	return nil
}

func (a *App) saveRecent(ctx context.Context) {
	products := a.store.State().Recent.Products
	data, err := json.Marshal(products)
	if err != nil {
		a.logger.Warn("encoding recently viewed failed", "error", err)
		return
	}
	if err := a.kv.Set(ctx, recentKey, string(data)); err != nil {
		a.logger.Warn("persisting recently viewed failed", "error", err)
	}
}

func (a *App) restoreRecent(ctx context.Context) {
	raw, err := a.kv.Get(ctx, recentKey)
	if errors.Is(err, localstore.ErrNotFound) {
		return
	}
	if err != nil {
		a.logger.Warn("loading recently viewed failed", "error", err)
		return
	}
	var products []domain.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		a.logger.Warn("decoding recently viewed failed", "error", err)
		return
	}
	a.store.Dispatch(store.RecentRestored{Products: products})
}
