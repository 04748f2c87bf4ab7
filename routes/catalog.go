package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/yoruwear-api/controllers/cart"
	productcontroller "github.com/junaidrashid-git/yoruwear-api/controllers/product"
)

// SetupCatalogRoutes registers the public storefront endpoints.
func SetupCatalogRoutes(api *gin.RouterGroup, d *Deps) {
	products := api.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(d.Catalog))        // GET /api/products
		products.GET("/:id", productcontroller.GetProductByID(d.Catalog)) // GET /api/products/:id
	}

	api.GET("/categories", productcontroller.GetAllCategories(d.Catalog))

	api.POST("/cart/quote", cartControllers.QuoteHandler(d.vatRate()))
}
