package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetProducts lists products.
// Query: search, category_id, min_price, max_price, sort_by, order
func GetProducts(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := Filter{
			Search: c.Query("search"),
			SortBy: c.DefaultQuery("sort_by", "created_at"),
			Order:  c.DefaultQuery("order", "desc"),
		}

		if v := c.Query("min_price"); v != "" {
			mp, err := decimal.NewFromString(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
			f.MinPrice = &mp
		}
		if v := c.Query("max_price"); v != "" {
			mp, err := decimal.NewFromString(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
			f.MaxPrice = &mp
		}
		if v := c.Query("category_id"); v != "" {
			cid, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			id := uint(cid)
			f.CategoryID = &id
		}

		products, err := catalog.Products(c.Request.Context(), f)
		if err != nil {
			catalog.log.WithError(err).Error("list products failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
