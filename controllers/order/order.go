// Package orderControllers holds the checkout engine and order reads.
// CreateOrder is the only place stock moves: the whole conversion of a
// cart into an order runs inside one store transaction with row locks
// on the purchased products.
package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ChristianMadoz/libreM/models"
	"github.com/ChristianMadoz/libreM/store"
)

// orderNumberRetries bounds regeneration after a number collision.
// Collisions are vanishingly rare; running out means the store is lying.
const orderNumberRetries = 3

// CreateOrder converts the user's cart into an immutable order.
//
// Inside one transaction, cart lines are walked in ascending product id
// order (fixed lock order across concurrent checkouts, so they cannot
// deadlock). Each product is read under an exclusive row lock, checked
// against the requested quantity, decremented, and snapshotted. Any
// failure rolls the whole thing back: no partial stock movement or
// order row is ever observable. An order-number collision retries the
// entire transaction with a fresh number.
func CreateOrder(ctx context.Context, s store.Store, userID string, shipping models.ShippingInfo) (*models.Order, error) {
	var order *models.Order
	var err error

	for attempt := 0; attempt <= orderNumberRetries; attempt++ {
		order, err = createOrderOnce(ctx, s, userID, shipping)
		if errors.Is(err, store.ErrOrderNumberCollision) {
			continue
		}
		break
	}

	switch {
	case err == nil:
		return order, nil
	case errors.Is(err, store.ErrEmptyCart):
		return nil, err
	case isClientError(err):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %v", store.ErrCheckoutPersistence, err)
	}
}

func createOrderOnce(ctx context.Context, s store.Store, userID string, shipping models.ShippingInfo) (*models.Order, error) {
	cart, err := s.CartByUser(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		return nil, store.ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, store.ErrEmptyCart
	}

	// Fixed lock acquisition order across all checkouts.
	lines := append([]models.CartItem(nil), cart.Items...)
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductID != lines[j].ProductID {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].Color < lines[j].Color
	})

	var order *models.Order
	txErr := s.WithTx(ctx, func(tx store.Store) error {
		var items []models.OrderItem
		var total float64

		for _, line := range lines {
			product, err := tx.ProductForUpdate(ctx, line.ProductID)
			if errors.Is(err, store.ErrProductNotFound) {
				continue // product deleted since it was carted
			}
			if err != nil {
				return err
			}

			if product.Stock < line.Quantity {
				return &store.StockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: line.Quantity,
					Available: product.Stock,
				}
			}

			product.Stock -= line.Quantity
			product.Sold += line.Quantity
			if err := tx.SaveProduct(ctx, product); err != nil {
				return err
			}

			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  line.Quantity,
				Color:     line.Color,
				Image:     product.Image,
			})
			total += product.Price * float64(line.Quantity)
		}

		if len(items) == 0 {
			return store.ErrEmptyCart
		}

		o := &models.Order{
			ID:          newOrderID(),
			UserID:      userID,
			OrderNumber: newOrderNumber(),
			Items:       items,
			Shipping:    shipping,
			Total:       total,
			Status:      models.OrderStatusConfirmed,
			CreatedAt:   time.Now().UTC(),
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return store.ErrOrderNumberCollision
			}
			return err
		}
		order = o

		return tx.DeleteCart(ctx, userID)
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

func isClientError(err error) bool {
	if _, ok := store.IsStockError(err); ok {
		return true
	}
	return errors.Is(err, store.ErrEmptyCart)
}

func newOrderID() string {
	return "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// newOrderNumber mints a human-readable order number:
// ML-YYYYMMDD-XXXXXXXX.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ML-%s-%s", time.Now().Format("20060102"), suffix)
}
