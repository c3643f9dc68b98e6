package store

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the store and the components built on it.
// Handlers map these onto HTTP statuses; nothing here is retried
// automatically except the order-number collision inside checkout.
var (
	// auth
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidSession   = errors.New("invalid session")
	ErrSessionExpired   = errors.New("session expired")
	ErrUserNotFound     = errors.New("user not found")

	// accounts
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// catalog / cart
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrItemNotInCart    = errors.New("item not found in cart")
	ErrCartNotFound     = errors.New("cart not found")

	// checkout
	ErrEmptyCart            = errors.New("cart is empty")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderNumberCollision = errors.New("order number collision")
	ErrCheckoutPersistence  = errors.New("checkout could not be persisted")

	// external identity provider
	ErrIdentityExchange    = errors.New("failed to exchange session ID")
	ErrIdentityUnreachable = errors.New("failed to connect to auth service")

	// adapter-level
	ErrDuplicateKey = errors.New("duplicate key")
)

// StockError reports an insufficient-stock rejection with enough detail
// for the client to correct the request: product, requested, available.
type StockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

// IsStockError unwraps err into a *StockError if it is one.
func IsStockError(err error) (*StockError, bool) {
	var se *StockError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
