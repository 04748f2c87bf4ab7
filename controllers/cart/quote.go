package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/yoruwear-api/cart"
	"github.com/shopspring/decimal"
)

// POST /api/cart/quote
// Body: the cart document the storefront keeps in local storage. A code that
// is not a coupon comes back with couponApplied false.
func QuoteHandler(vatRate decimal.Decimal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc cart.Cart
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart payload"})
			return
		}
		c.JSON(http.StatusOK, doc.Summary(vatRate))
	}
}
