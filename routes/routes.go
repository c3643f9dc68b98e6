package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChristianMadoz/libreM/auth"
	"github.com/ChristianMadoz/libreM/config"
	"github.com/ChristianMadoz/libreM/store"
)

// SetupRoutes is the single entry-point that wires every route group
// under the /api prefix.
func SetupRoutes(r *gin.Engine, s store.Store, cfg *config.Config) {
	identityClient := auth.NewIdentityClient()

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "postgres"})
		})

		SetupAuthRoutes(api, s, identityClient, cfg)
		SetupCatalogRoutes(api, s)
		SetupUserRoutes(api, s)
	}
}
