package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/yoruwear-api/controllers/admin"
	orderControllers "github.com/junaidrashid-git/yoruwear-api/controllers/order"
	"github.com/junaidrashid-git/yoruwear-api/middleware"
)

// SetupAdminRoutes registers all "/api/admin/*" endpoints.
func SetupAdminRoutes(api *gin.RouterGroup, d *Deps) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(d.Tokens, d.Users, d.Config.AdminAPIKey))
	{
		adminGroup.GET("/dashboard", adminController.DashboardHandler(d.Reports, d.Log))

		// ─────────── Order Management ───────────
		orders := adminGroup.Group("/orders")
		{
			orders.GET("", adminController.ListOrdersHandler(d.Orders, d.Log))
			orders.GET("/export", adminController.ExportOrdersToExcel(d.Orders, d.Log))
			orders.PATCH("/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.Orders))

			// websocket endpoint for real-time order updates
			orders.GET("/ws", d.Feed.Handler())
		}
	}
}
