package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/yoruwear-api/controllers/order"
	"github.com/junaidrashid-git/yoruwear-api/middleware"
)

func SetupOrderRoutes(api *gin.RouterGroup, d *Deps) {
	orders := api.Group("/orders")
	{
		// Create a new order; a valid bearer token links it to the user
		orders.POST("", middleware.OptionalUser(d.Tokens), orderControllers.PlaceOrderHandler(d.Orders))

		// Fetch orders for a specific user
		orders.GET("/user/:userID", middleware.RequireUser(d.Tokens), orderControllers.GetUserOrdersHandler(d.Orders, d.Users))

		// Fetch one order by order number, or by id for its owner and admins
		orders.GET("/:orderID", middleware.OptionalUser(d.Tokens), orderControllers.GetOrderHandler(d.Orders, d.Users))
	}
}
