// Package store defines the storage-agnostic repository used by every
// component. The checkout engine depends only on this interface; the
// Postgres adapter and the in-memory test adapter both implement it.
package store

import (
	"context"

	"github.com/ChristianMadoz/libreM/models"
)

// ProductFilter narrows and orders catalog listings.
type ProductFilter struct {
	CategoryID int      // 0 = all categories
	Search     string   // matches name, description or category, case-insensitive
	MinPrice   *float64
	MaxPrice   *float64
	Sort       string // "price-asc", "price-desc", "rating", "discount"
	Limit      int    // 0 = adapter default
}

// Store is the single persistence surface of the application.
//
// WithTx runs fn against a store whose effects commit together or not
// at all. ProductForUpdate takes a row-level exclusive lock and is only
// meaningful inside WithTx; callers must lock products in ascending id
// order so concurrent checkouts cannot deadlock.
type Store interface {
	// users
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id, name string, picture, googleID *string) error
	DeleteUser(ctx context.Context, id string) error

	// favorites
	FavoriteIDs(ctx context.Context, userID string) ([]string, error)
	AddFavorite(ctx context.Context, userID, productID string) error
	RemoveFavorite(ctx context.Context, userID, productID string) error

	// sessions
	CreateSession(ctx context.Context, s *models.Session) error
	SessionByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteUserSessions(ctx context.Context, userID string) error

	// catalog
	ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error)
	ProductByID(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	CountProducts(ctx context.Context) (int64, error)
	ListCategories(ctx context.Context, limit int) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error

	// carts
	CartByUser(ctx context.Context, userID string) (*models.Cart, error)
	CreateCart(ctx context.Context, c *models.Cart) error
	TouchCart(ctx context.Context, cartID uint) error
	AddCartItem(ctx context.Context, item *models.CartItem) error
	SaveCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, cartID uint, productID, color string) error
	DeleteCart(ctx context.Context, userID string) error

	// orders
	CreateOrder(ctx context.Context, o *models.Order) error
	OrdersByUser(ctx context.Context, userID string, limit int) ([]models.Order, error)
	OrderByID(ctx context.Context, userID, orderID string) (*models.Order, error)

	// checkout support
	ProductForUpdate(ctx context.Context, id string) (*models.Product, error)
	SaveProduct(ctx context.Context, p *models.Product) error
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
