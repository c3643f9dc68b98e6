package orderControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChristianMadoz/libreM/auth"
	"github.com/ChristianMadoz/libreM/models"
	"github.com/ChristianMadoz/libreM/store"
)

type shippingData struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	Province   string `json:"province" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
}

// paymentData is accepted for API compatibility and discarded unread:
// no card is ever validated or charged.
type paymentData struct {
	CardNumber string `json:"card_number" binding:"required"`
	CardName   string `json:"card_name" binding:"required"`
	ExpiryDate string `json:"expiry_date" binding:"required"`
	CVV        string `json:"cvv" binding:"required"`
}

type createOrderRequest struct {
	ShippingData shippingData `json:"shipping_data" binding:"required"`
	PaymentData  paymentData  `json:"payment_data" binding:"required"`
}

// POST /api/orders
func CreateOrderHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		shipping := models.ShippingInfo{
			FullName:   req.ShippingData.FullName,
			Email:      req.ShippingData.Email,
			Phone:      req.ShippingData.Phone,
			Address:    req.ShippingData.Address,
			City:       req.ShippingData.City,
			Province:   req.ShippingData.Province,
			PostalCode: req.ShippingData.PostalCode,
		}

		order, err := CreateOrder(c.Request.Context(), s, identity.UserID, shipping)
		if err != nil {
			if se, ok := store.IsStockError(err); ok {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     se.Error(),
					"product":   se.Name,
					"requested": se.Requested,
					"available": se.Available,
				})
				return
			}
			if errors.Is(err, store.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
				return
			}
			log.Printf("❌ Checkout failed for %s: %v", identity.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
			return
		}

		log.Printf("✅ Order %s placed by %s", order.OrderNumber, identity.UserID)
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// GET /api/orders
func GetOrdersHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)

		orders, err := s.OrdersByUser(c.Request.Context(), identity.UserID, 100)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

// GET /api/orders/:order_id
func GetOrderHandler(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.IdentityFrom(c)

		order, err := s.OrderByID(c.Request.Context(), identity.UserID, c.Param("order_id"))
		if err != nil {
			if errors.Is(err, store.ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}
