// Package userControllers serves the per-user favorites list.
package userControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChristianMadoz/libreM/auth"
	"github.com/ChristianMadoz/libreM/models"
	"github.com/ChristianMadoz/libreM/store"
)

// GET /api/favorites
func GetFavorites(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)
		ctx := c.Request.Context()

		ids, err := s.FavoriteIDs(ctx, identity.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch favorites"})
			return
		}

		products := []models.Product{}
		for _, id := range ids {
			product, err := s.ProductByID(ctx, id)
			if errors.Is(err, store.ErrProductNotFound) {
				continue // favorite points at a product that no longer exists
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch favorites"})
				return
			}
			products = append(products, *product)
		}

		c.JSON(http.StatusOK, gin.H{"favorites": ids, "products": products})
	}
}

// POST /api/favorites/:product_id
func AddFavorite(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)
		productID := c.Param("product_id")
		ctx := c.Request.Context()

		if _, err := s.ProductByID(ctx, productID); err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
			return
		}

		if err := s.AddFavorite(ctx, identity.UserID, productID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add favorite"})
			return
		}

		ids, err := s.FavoriteIDs(ctx, identity.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch favorites"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"favorites": ids})
	}
}

// DELETE /api/favorites/:product_id
func RemoveFavorite(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)
		ctx := c.Request.Context()

		if err := s.RemoveFavorite(ctx, identity.UserID, c.Param("product_id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove favorite"})
			return
		}

		ids, err := s.FavoriteIDs(ctx, identity.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch favorites"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"favorites": ids})
	}
}
