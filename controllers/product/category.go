package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAllCategories returns all categories.
func GetAllCategories(catalog *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.Categories(c.Request.Context())
		if err != nil {
			catalog.log.WithError(err).Error("list categories failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}
