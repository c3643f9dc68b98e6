// Package cartControllers implements the cart manager: line mutations
// with advisory stock checks, and the live-joined cart view. The stock
// checks here are UX only; the checkout transaction is the safety
// boundary for inventory.
package cartControllers

import (
	"context"
	"errors"
	"time"

	"github.com/ChristianMadoz/libreM/models"
	"github.com/ChristianMadoz/libreM/store"
)

type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
}

// ItemView is one cart line joined against the live catalog.
type ItemView struct {
	models.Product
	CartQuantity int     `json:"cart_quantity"`
	CartColor    string  `json:"cart_color,omitempty"`
	ItemTotal    float64 `json:"item_total"`
}

// View is the cart as returned to clients: live product data plus a
// computed total. Nothing in it is snapshotted.
type View struct {
	Items []ItemView `json:"items"`
	Total float64    `json:"total"`
}

// AddItem merges quantity into an existing (product, color) line or
// appends a new one, creating the cart lazily. Live stock must cover
// the resulting line quantity.
func AddItem(ctx context.Context, s store.Store, userID string, in AddItemInput) error {
	if in.Quantity < 1 {
		return store.ErrInvalidQuantity
	}

	product, err := s.ProductByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if product.Stock < in.Quantity {
		return &store.StockError{ProductID: product.ID, Name: product.Name, Requested: in.Quantity, Available: product.Stock}
	}

	cart, err := s.CartByUser(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		cart = &models.Cart{UserID: userID, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
		switch createErr := s.CreateCart(ctx, cart); {
		case errors.Is(createErr, store.ErrDuplicateKey):
			// lost a concurrent first-add race; use the winner's cart
			if cart, err = s.CartByUser(ctx, userID); err != nil {
				return err
			}
		case createErr != nil:
			return createErr
		}
	} else if err != nil {
		return err
	}

	for _, item := range cart.Items {
		if item.ProductID == in.ProductID && item.Color == in.Color {
			merged := item.Quantity + in.Quantity
			if product.Stock < merged {
				return &store.StockError{ProductID: product.ID, Name: product.Name, Requested: merged, Available: product.Stock}
			}
			item.Quantity = merged
			item.AddedAt = time.Now().UTC()
			if err := s.SaveCartItem(ctx, &item); err != nil {
				return err
			}
			return s.TouchCart(ctx, cart.CartID)
		}
	}

	newItem := models.CartItem{
		CartID:    cart.CartID,
		ProductID: in.ProductID,
		Color:     in.Color,
		Quantity:  in.Quantity,
		AddedAt:   time.Now().UTC(),
	}
	if err := s.AddCartItem(ctx, &newItem); err != nil {
		return err
	}
	return s.TouchCart(ctx, cart.CartID)
}

// UpdateItem replaces the quantity of an existing line.
func UpdateItem(ctx context.Context, s store.Store, userID, productID, color string, quantity int) error {
	if quantity < 1 {
		return store.ErrInvalidQuantity
	}

	product, err := s.ProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.Stock < quantity {
		return &store.StockError{ProductID: product.ID, Name: product.Name, Requested: quantity, Available: product.Stock}
	}

	cart, err := s.CartByUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, item := range cart.Items {
		if item.ProductID == productID && item.Color == color {
			item.Quantity = quantity
			if err := s.SaveCartItem(ctx, &item); err != nil {
				return err
			}
			return s.TouchCart(ctx, cart.CartID)
		}
	}
	return store.ErrItemNotInCart
}

// RemoveItem deletes a line. Removing a line that is not there is fine.
func RemoveItem(ctx context.Context, s store.Store, userID, productID, color string) error {
	cart, err := s.CartByUser(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.DeleteCartItem(ctx, cart.CartID, productID, color); err != nil {
		return err
	}
	return s.TouchCart(ctx, cart.CartID)
}

// Clear drops the cart entirely. Idempotent.
func Clear(ctx context.Context, s store.Store, userID string) error {
	return s.DeleteCart(ctx, userID)
}

// Read joins each line against the current catalog. Lines whose product
// has been deleted are dropped silently; prices and names are live.
func Read(ctx context.Context, s store.Store, userID string) (*View, error) {
	view := &View{Items: []ItemView{}}

	cart, err := s.CartByUser(ctx, userID)
	if errors.Is(err, store.ErrCartNotFound) {
		return view, nil
	}
	if err != nil {
		return nil, err
	}

	for _, item := range cart.Items {
		product, err := s.ProductByID(ctx, item.ProductID)
		if errors.Is(err, store.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		itemTotal := product.Price * float64(item.Quantity)
		view.Total += itemTotal
		view.Items = append(view.Items, ItemView{
			Product:      *product,
			CartQuantity: item.Quantity,
			CartColor:    item.Color,
			ItemTotal:    itemTotal,
		})
	}
	return view, nil
}
