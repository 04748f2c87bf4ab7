package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/yoruwear-api/auth"
	"github.com/junaidrashid-git/yoruwear-api/middleware"
)

// SetupAuthRoutes registers all "/api/auth/*" endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, d *Deps) {
	authGroup := api.Group("/auth")
	authGroup.Use(d.AuthLimiter.Handler())
	{
		authGroup.POST("/register", auth.RegisterHandler(d.Auth))
		authGroup.POST("/login", auth.LoginHandler(d.Auth))
		authGroup.POST("/refresh", auth.RefreshHandler(d.Auth))

		requireUser := middleware.RequireUser(d.Tokens)
		authGroup.GET("/me", requireUser, auth.MeHandler(d.Auth))
		authGroup.PUT("/profile", requireUser, auth.UpdateProfileHandler(d.Auth))
		authGroup.POST("/logout", requireUser, auth.LogoutHandler(d.Auth))
	}
}
