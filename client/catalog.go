package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/junaidrashid-git/yoruwear-api/cart"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/junaidrashid-git/yoruwear-api/pricing"
	"github.com/shopspring/decimal"
)

// ProductQuery mirrors the listing filters. Zero values are not sent.
type ProductQuery struct {
	Search     string
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     string
	Order      string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != nil {
		v.Set("category_id", strconv.FormatUint(uint64(*q.CategoryID), 10))
	}
	if q.MinPrice != nil {
		v.Set("min_price", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		v.Set("max_price", q.MaxPrice.String())
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	return v
}

func (c *Client) Products(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	path := "/api/products"
	if v := q.values(); len(v) > 0 {
		path += "?" + v.Encode()
	}
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+strconv.FormatUint(uint64(id), 10), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Quote asks the server to price a cart document.
func (c *Client) Quote(ctx context.Context, doc cart.Cart) (pricing.Summary, error) {
	var s pricing.Summary
	err := c.do(ctx, http.MethodPost, "/api/cart/quote", doc, &s)
	return s, err
}
