package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChristianMadoz/libreM/auth"
	"github.com/ChristianMadoz/libreM/store"
)

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GET /api/cart
func GetCartHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)

		view, err := Read(c.Request.Context(), s, identity.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": view})
	}
}

// POST /api/cart
func AddToCartHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)

		var in AddItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if in.Quantity == 0 {
			in.Quantity = 1
		}

		if err := AddItem(c.Request.Context(), s, identity.UserID, in); err != nil {
			respondCartError(c, err)
			return
		}

		view, err := Read(c.Request.Context(), s, identity.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": view})
	}
}

// PUT /api/cart/:product_id
func UpdateCartItemHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)

		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		err := UpdateItem(c.Request.Context(), s, identity.UserID, c.Param("product_id"), c.Query("color"), req.Quantity)
		if err != nil {
			respondCartError(c, err)
			return
		}

		view, err := Read(c.Request.Context(), s, identity.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": view})
	}
}

// DELETE /api/cart/:product_id
func RemoveFromCartHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)

		if err := RemoveItem(c.Request.Context(), s, identity.UserID, c.Param("product_id"), c.Query("color")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove item"})
			return
		}

		view, err := Read(c.Request.Context(), s, identity.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": view})
	}
}

// DELETE /api/cart
func ClearCartHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)

		if err := Clear(c.Request.Context(), s, identity.UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func respondCartError(c *gin.Context, err error) {
	if se, ok := store.IsStockError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     se.Error(),
			"product":   se.Name,
			"requested": se.Requested,
			"available": se.Available,
		})
		return
	}
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, store.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least 1"})
	case errors.Is(err, store.ErrItemNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
	case errors.Is(err, store.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
	}
}
