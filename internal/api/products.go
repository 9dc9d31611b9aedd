package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"racketoutlet/pkg/domain"
)

type pagedProducts struct {
	Count    int              `json:"count"`
	Next     string           `json:"next"`
	Previous string           `json:"previous"`
	Results  []domain.Product `json:"results"`
}

// orderingParam maps client sort options to the API's ordering parameter.
func orderingParam(sort domain.SortOption) string {
	switch sort {
	case domain.SortNameAsc:
		return "name"
	case domain.SortNameDesc:
		return "-name"
	case domain.SortPriceAsc:
		return "current_price_value"
	case domain.SortPriceDesc:
		return "-current_price_value"
	default:
		return "-created_at"
	}
}

// SearchProducts fetches one page of filtered search results.
func (c *Client) SearchProducts(ctx context.Context, filters domain.SearchFilters) (domain.ResultPage, error) {
	filters = filters.Normalize()
	query := url.Values{}
	if filters.Brand != "" {
		query.Set("brand", filters.Brand)
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.Type != "" {
		query.Set("type", filters.Type)
	}
	if filters.MinPrice != nil {
		query.Set("min_price", filters.MinPrice.String())
	}
	if filters.MaxPrice != nil {
		query.Set("max_price", filters.MaxPrice.String())
	}
	query.Set("ordering", orderingParam(filters.Sort))
	query.Set("page", strconv.Itoa(filters.Page))
	query.Set("page_size", strconv.Itoa(filters.PageSize))

	var resp pagedProducts
	if err := c.doJSON(ctx, http.MethodGet, "/api/products/", query, nil, &resp); err != nil {
		return domain.ResultPage{}, err
	}
	return domain.ResultPage{Products: resp.Results, Count: resp.Count}, nil
}

// ProductByID fetches the full product detail view.
func (c *Client) ProductByID(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	path := fmt.Sprintf("/api/products/view/%d/", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// ProductsBySubCategory lists a subcategory's products, paginated.
func (c *Client) ProductsBySubCategory(ctx context.Context, subCategoryID int64, page, pageSize int) (domain.ResultPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		query.Set("limit", strconv.Itoa(pageSize))
	}
	var resp pagedProducts
	path := fmt.Sprintf("/api/subcategories/%d/products/", subCategoryID)
	if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return domain.ResultPage{}, err
	}
	return domain.ResultPage{Products: resp.Results, Count: resp.Count}, nil
}

// SubCategoriesByCategory lists a category's subcategories.
func (c *Client) SubCategoriesByCategory(ctx context.Context, categoryID int64) ([]domain.SubCategory, error) {
	var resp struct {
		Results []domain.SubCategory `json:"results"`
	}
	path := fmt.Sprintf("/api/categories/%d/subcategories/", categoryID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Brands returns the global brand list.
func (c *Client) Brands(ctx context.Context) ([]string, error) {
	var resp struct {
		Brands []string `json:"brands"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/brands/", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Brands, nil
}

// FeaturedCategories lists categories flagged for the homepage.
func (c *Client) FeaturedCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.doJSON(ctx, http.MethodGet, "/api/categories/featured/", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// FeaturedProducts lists the featured highlight products.
func (c *Client) FeaturedProducts(ctx context.Context) ([]domain.Product, error) {
	return c.productList(ctx, "/api/products/featured/")
}

// DealOfTheDayProducts lists the deal-of-the-day products.
func (c *Client) DealOfTheDayProducts(ctx context.Context) ([]domain.Product, error) {
	return c.productList(ctx, "/api/products/deal-of-the-day/")
}

// ExclusiveProducts lists the exclusive products.
func (c *Client) ExclusiveProducts(ctx context.Context) ([]domain.Product, error) {
	return c.productList(ctx, "/api/products/exclusive/")
}

func (c *Client) productList(ctx context.Context, path string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}
