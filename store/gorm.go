package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ChristianMadoz/libreM/models"
)

// GormStore is the Postgres adapter. Open gorm with TranslateError so
// unique violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates/updates the schema for every entity.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Favorite{},
		&models.Session{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}

func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}

// ---------------- Users ----------------

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error, nil)
}

func (s *GormStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return &u, nil
}

func (s *GormStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return &u, nil
}

func (s *GormStore) UpdateUserProfile(ctx context.Context, id, name string, picture, googleID *string) error {
	updates := map[string]interface{}{"name": name}
	if picture != nil {
		updates["picture"] = *picture
	}
	if googleID != nil {
		updates["google_id"] = *googleID
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes a user and everything it owns: children first,
// parent last, one transaction.
func (s *GormStore) DeleteUser(ctx context.Context, id string) error {
	return s.WithTx(ctx, func(tx Store) error {
		g := tx.(*GormStore)
		db := g.db.WithContext(ctx)

		var orderIDs []string
		if err := db.Model(&models.Order{}).Where("user_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := db.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := db.Where("user_id = ?", id).Delete(&models.Order{}).Error; err != nil {
				return err
			}
		}

		var cart models.Cart
		err := db.Where("user_id = ?", id).First(&cart).Error
		if err == nil {
			if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := db.Delete(&cart).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := db.Where("user_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := db.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}

		res := db.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

// ---------------- Favorites ----------------

func (s *GormStore) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("product_id", &ids).Error
	return ids, err
}

func (s *GormStore) AddFavorite(ctx context.Context, userID, productID string) error {
	fav := models.Favorite{UserID: userID, ProductID: productID}
	err := s.db.WithContext(ctx).Create(&fav).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil // already a favorite
	}
	return err
}

func (s *GormStore) RemoveFavorite(ctx context.Context, userID, productID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{}).Error
}

// ---------------- Sessions ----------------

func (s *GormStore) CreateSession(ctx context.Context, sess *models.Session) error {
	return translate(s.db.WithContext(ctx).Create(sess).Error, nil)
}

func (s *GormStore) SessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	if err := s.db.WithContext(ctx).First(&sess, "token = ?", token).Error; err != nil {
		return nil, translate(err, ErrInvalidSession)
	}
	return &sess, nil
}

func (s *GormStore) DeleteSession(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

func (s *GormStore) DeleteUserSessions(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

// ---------------- Catalog ----------------

func (s *GormStore) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})

	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ?", pattern, pattern, pattern)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	switch f.Sort {
	case "price-asc":
		q = q.Order("price ASC")
	case "price-desc":
		q = q.Order("price DESC")
	case "rating":
		q = q.Order("rating DESC NULLS LAST")
	case "discount":
		q = q.Order("discount DESC")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 1000
	}

	var products []models.Product
	if err := q.Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *GormStore) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrProductNotFound)
	}
	return &p, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Create(p).Error, nil)
}

func (s *GormStore) DeleteProduct(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *GormStore) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (s *GormStore) ListCategories(ctx context.Context, limit int) ([]models.Category, error) {
	if limit <= 0 {
		limit = 100
	}
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("id").Limit(limit).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(s.db.WithContext(ctx).Create(c).Error, nil)
}

// ---------------- Carts ----------------

func (s *GormStore) CartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, translate(err, ErrCartNotFound)
	}
	return &cart, nil
}

func (s *GormStore) CreateCart(ctx context.Context, c *models.Cart) error {
	return translate(s.db.WithContext(ctx).Create(c).Error, nil)
}

func (s *GormStore) TouchCart(ctx context.Context, cartID uint) error {
	return s.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("cart_id = ?", cartID).
		Update("updated_at", gorm.Expr("NOW()")).Error
}

func (s *GormStore) AddCartItem(ctx context.Context, item *models.CartItem) error {
	return translate(s.db.WithContext(ctx).Create(item).Error, nil)
}

func (s *GormStore) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	return s.db.WithContext(ctx).Save(item).Error
}

// DeleteCartItem is idempotent: deleting a line that is not there is not an error.
func (s *GormStore) DeleteCartItem(ctx context.Context, cartID uint, productID, color string) error {
	return s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND color = ?", cartID, productID, color).
		Delete(&models.CartItem{}).Error
}

// DeleteCart removes the cart row and its items: items first, then the cart.
func (s *GormStore) DeleteCart(ctx context.Context, userID string) error {
	return s.WithTx(ctx, func(tx Store) error {
		g := tx.(*GormStore)
		db := g.db.WithContext(ctx)

		var cart models.Cart
		err := db.Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // nothing to clear
		}
		if err != nil {
			return err
		}
		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return db.Delete(&cart).Error
	})
}

// ---------------- Orders ----------------

func (s *GormStore) CreateOrder(ctx context.Context, o *models.Order) error {
	return translate(s.db.WithContext(ctx).Create(o).Error, nil)
}

func (s *GormStore) OrdersByUser(ctx context.Context, userID string, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *GormStore) OrderByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, translate(err, ErrOrderNotFound)
	}
	return &order, nil
}

// ---------------- Checkout support ----------------

// ProductForUpdate reads a product under SELECT ... FOR UPDATE. Only
// meaningful inside WithTx; the lock is held until the transaction ends.
func (s *GormStore) ProductForUpdate(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, ErrProductNotFound)
	}
	return &p, nil
}

func (s *GormStore) SaveProduct(ctx context.Context, p *models.Product) error {
	return s.db.WithContext(ctx).Save(p).Error
}

// WithTx runs fn against a store bound to one database transaction.
// fn returning an error rolls everything back.
func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
