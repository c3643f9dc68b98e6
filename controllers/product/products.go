// Package productControllers serves the read-only catalog surface.
package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ChristianMadoz/libreM/store"
)

// GET /api/products
func GetProducts(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := store.ProductFilter{
			Search: c.Query("search"),
			Sort:   c.Query("sort"),
		}
		if v := c.Query("category"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				filter.CategoryID = id
			}
		}
		if v := c.Query("min_price"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				filter.MinPrice = &f
			}
		}
		if v := c.Query("max_price"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				filter.MaxPrice = &f
			}
		}

		products, err := s.ListProducts(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

// GET /api/products/:product_id
func GetProductByID(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := s.ProductByID(c.Request.Context(), c.Param("product_id"))
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

// GET /api/categories
func GetCategories(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := s.ListCategories(c.Request.Context(), 100)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}
