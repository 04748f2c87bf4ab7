package productcontroller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/junaidrashid-git/yoruwear-api/cache"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// sortable columns; anything else falls back to created_at
var sortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"name":       "name",
	"stock":      "stock",
}

// Filter narrows and orders the product listing.
type Filter struct {
	Search     string
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	SortBy     string
	Order      string
}

func (f Filter) normalized() Filter {
	f.Search = strings.TrimSpace(f.Search)
	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = "created_at"
	}
	f.Order = strings.ToLower(f.Order)
	if f.Order != "asc" && f.Order != "desc" {
		f.Order = "desc"
	}
	return f
}

// cacheKey is stable for equal filters.
func (f Filter) cacheKey() string {
	var b strings.Builder
	b.WriteString("products")
	if f.Search != "" {
		b.WriteString(":q=" + strings.ToLower(f.Search))
	}
	if f.CategoryID != nil {
		b.WriteString(":c=" + strconv.FormatUint(uint64(*f.CategoryID), 10))
	}
	if f.MinPrice != nil {
		b.WriteString(":min=" + f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		b.WriteString(":max=" + f.MaxPrice.String())
	}
	b.WriteString(":s=" + f.SortBy + ":" + f.Order)
	return b.String()
}

// Catalog serves the read-only storefront catalog, cached when redis is configured.
type Catalog struct {
	db    *gorm.DB
	cache *cache.Catalog
	log   *logrus.Logger
}

func NewCatalog(db *gorm.DB, c *cache.Catalog, log *logrus.Logger) *Catalog {
	return &Catalog{db: db, cache: c, log: log}
}

func (s *Catalog) Products(ctx context.Context, f Filter) ([]models.Product, error) {
	f = f.normalized()
	key := f.cacheKey()

	var products []models.Product
	if s.cache.Get(ctx, key, &products) {
		return products, nil
	}

	query := s.db.WithContext(ctx).Model(&models.Product{})
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}

	orderClause := fmt.Sprintf("%s %s", sortColumns[f.SortBy], f.Order)
	if err := query.Order(orderClause).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	s.cache.Set(ctx, key, products)
	return products, nil
}

func (s *Catalog) Product(ctx context.Context, id uint) (*models.Product, error) {
	key := "product:" + strconv.FormatUint(uint64(id), 10)
	var product models.Product
	if s.cache.Get(ctx, key, &product) {
		return &product, nil
	}
	if err := s.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	s.cache.Set(ctx, key, product)
	return &product, nil
}

func (s *Catalog) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if s.cache.Get(ctx, "categories", &categories) {
		return categories, nil
	}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	s.cache.Set(ctx, "categories", categories)
	return categories, nil
}

// Warm drops stale entries and preloads the default listing and categories.
func (s *Catalog) Warm(ctx context.Context) error {
	if !s.cache.Enabled() {
		return nil
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	if _, err := s.Categories(ctx); err != nil {
		return fmt.Errorf("warm categories: %w", err)
	}
	products, err := s.Products(ctx, Filter{})
	if err != nil {
		return fmt.Errorf("warm products: %w", err)
	}
	s.log.WithField("products", len(products)).Debug("catalog cache warmed")
	return nil
}
