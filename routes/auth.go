package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ChristianMadoz/libreM/auth"
	"github.com/ChristianMadoz/libreM/config"
	"github.com/ChristianMadoz/libreM/middleware"
	"github.com/ChristianMadoz/libreM/store"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, s store.Store, client *auth.IdentityClient, cfg *config.Config) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/google", auth.GoogleAuthHandler(s, client, cfg))
		authGroup.POST("/register", auth.RegisterHandler(s, cfg))
		authGroup.POST("/login", auth.LoginHandler(s, cfg))
		authGroup.POST("/logout", auth.LogoutHandler(s, cfg))

		authGroup.GET("/me", middleware.RequireSession(s), auth.MeHandler())
		authGroup.DELETE("/account", middleware.RequireSession(s), auth.DeleteAccountHandler(s, cfg))
	}
}
