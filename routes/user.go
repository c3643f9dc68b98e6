package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/ChristianMadoz/libreM/controllers/cart"
	orderControllers "github.com/ChristianMadoz/libreM/controllers/order"
	productControllers "github.com/ChristianMadoz/libreM/controllers/product"
	userControllers "github.com/ChristianMadoz/libreM/controllers/user"
	"github.com/ChristianMadoz/libreM/middleware"
	"github.com/ChristianMadoz/libreM/store"
)

// SetupCatalogRoutes registers the public catalog endpoints.
func SetupCatalogRoutes(api *gin.RouterGroup, s store.Store) {
	api.GET("/products", productControllers.GetProducts(s))
	api.GET("/products/:product_id", productControllers.GetProductByID(s))
	api.GET("/categories", productControllers.GetCategories(s))
}

// SetupUserRoutes registers everything behind the session middleware:
// cart, favorites and orders.
func SetupUserRoutes(api *gin.RouterGroup, s store.Store) {
	protected := api.Group("")
	protected.Use(middleware.RequireSession(s))
	{
		// ──────────────── Shopping Cart ────────────────
		protected.GET("/cart", cartControllers.GetCartHandler(s))
		protected.POST("/cart", cartControllers.AddToCartHandler(s))
		protected.PUT("/cart/:product_id", cartControllers.UpdateCartItemHandler(s))
		protected.DELETE("/cart/:product_id", cartControllers.RemoveFromCartHandler(s))
		protected.DELETE("/cart", cartControllers.ClearCartHandler(s))

		// ──────────────── Favorites ────────────────
		protected.GET("/favorites", userControllers.GetFavorites(s))
		protected.POST("/favorites/:product_id", userControllers.AddFavorite(s))
		protected.DELETE("/favorites/:product_id", userControllers.RemoveFavorite(s))

		// ──────────────── Orders ────────────────
		protected.POST("/orders", orderControllers.CreateOrderHandler(s))
		protected.GET("/orders", orderControllers.GetOrdersHandler(s))
		protected.GET("/orders/:order_id", orderControllers.GetOrderHandler(s))
	}
}
