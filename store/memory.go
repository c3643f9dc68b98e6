package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ChristianMadoz/libreM/models"
)

// MemoryStore implements Store over plain maps guarded by one mutex.
// It backs the unit tests: WithTx holds the mutex for the whole
// transaction, which serializes checkouts exactly the way row locks do
// in Postgres, and rollback restores a pre-transaction snapshot.
type MemoryStore struct {
	mu     sync.Mutex
	parent *MemoryStore // non-nil inside a transaction
	data   *memData
}

type memData struct {
	users      map[string]models.User
	favorites  []models.Favorite
	sessions   map[string]models.Session
	products   map[string]models.Product
	categories map[int]models.Category
	carts      map[string]models.Cart // keyed by user id
	orders     map[string]models.Order
	nextCartID uint
	nextFavID  uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: &memData{
		users:      map[string]models.User{},
		sessions:   map[string]models.Session{},
		products:   map[string]models.Product{},
		categories: map[int]models.Category{},
		carts:      map[string]models.Cart{},
		orders:     map[string]models.Order{},
		nextCartID: 1,
		nextFavID:  1,
	}}
}

func (m *MemoryStore) root() *MemoryStore {
	if m.parent != nil {
		return m.parent
	}
	return m
}

// lock takes the store mutex unless we are already inside a transaction.
func (m *MemoryStore) lock() func() {
	if m.parent != nil {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (d *memData) clone() *memData {
	c := &memData{
		users:      make(map[string]models.User, len(d.users)),
		favorites:  append([]models.Favorite(nil), d.favorites...),
		sessions:   make(map[string]models.Session, len(d.sessions)),
		products:   make(map[string]models.Product, len(d.products)),
		categories: make(map[int]models.Category, len(d.categories)),
		carts:      make(map[string]models.Cart, len(d.carts)),
		orders:     make(map[string]models.Order, len(d.orders)),
		nextCartID: d.nextCartID,
		nextFavID:  d.nextFavID,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.sessions {
		c.sessions[k] = v
	}
	for k, v := range d.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.carts {
		c.carts[k] = copyCart(v)
	}
	for k, v := range d.orders {
		c.orders[k] = copyOrder(v)
	}
	return c
}

func copyProduct(p models.Product) models.Product {
	p.Features = append([]string(nil), p.Features...)
	p.Colors = append([]string(nil), p.Colors...)
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		p.OriginalPrice = &op
	}
	if p.Rating != nil {
		r := *p.Rating
		p.Rating = &r
	}
	return p
}

func copyCart(c models.Cart) models.Cart {
	c.Items = append([]models.CartItem(nil), c.Items...)
	return c
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

func copyUser(u models.User) models.User {
	if u.GoogleID != nil {
		g := *u.GoogleID
		u.GoogleID = &g
	}
	if u.PasswordHash != nil {
		h := *u.PasswordHash
		u.PasswordHash = &h
	}
	if u.Picture != nil {
		p := *u.Picture
		u.Picture = &p
	}
	return u
}

// ---------------- Users ----------------

func (m *MemoryStore) CreateUser(ctx context.Context, u *models.User) error {
	defer m.lock()()
	d := m.root().data
	if _, ok := d.users[u.ID]; ok {
		return ErrDuplicateKey
	}
	for _, existing := range d.users {
		if existing.Email == u.Email {
			return ErrDuplicateKey
		}
	}
	d.users[u.ID] = copyUser(*u)
	return nil
}

func (m *MemoryStore) UserByID(ctx context.Context, id string) (*models.User, error) {
	defer m.lock()()
	u, ok := m.root().data.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u = copyUser(u)
	return &u, nil
}

func (m *MemoryStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	defer m.lock()()
	for _, u := range m.root().data.users {
		if u.Email == email {
			u = copyUser(u)
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryStore) UpdateUserProfile(ctx context.Context, id, name string, picture, googleID *string) error {
	defer m.lock()()
	d := m.root().data
	u, ok := d.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Name = name
	if picture != nil {
		p := *picture
		u.Picture = &p
	}
	if googleID != nil {
		g := *googleID
		u.GoogleID = &g
	}
	d.users[id] = u
	return nil
}

func (m *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	return m.WithTx(ctx, func(tx Store) error {
		t := tx.(*MemoryStore)
		d := t.root().data
		if _, ok := d.users[id]; !ok {
			return ErrUserNotFound
		}
		for oid, o := range d.orders {
			if o.UserID == id {
				delete(d.orders, oid)
			}
		}
		delete(d.carts, id)
		kept := d.favorites[:0]
		for _, f := range d.favorites {
			if f.UserID != id {
				kept = append(kept, f)
			}
		}
		d.favorites = kept
		for token, s := range d.sessions {
			if s.UserID == id {
				delete(d.sessions, token)
			}
		}
		delete(d.users, id)
		return nil
	})
}

// ---------------- Favorites ----------------

func (m *MemoryStore) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	defer m.lock()()
	ids := []string{}
	for _, f := range m.root().data.favorites {
		if f.UserID == userID {
			ids = append(ids, f.ProductID)
		}
	}
	return ids, nil
}

func (m *MemoryStore) AddFavorite(ctx context.Context, userID, productID string) error {
	defer m.lock()()
	d := m.root().data
	for _, f := range d.favorites {
		if f.UserID == userID && f.ProductID == productID {
			return nil
		}
	}
	d.favorites = append(d.favorites, models.Favorite{ID: d.nextFavID, UserID: userID, ProductID: productID})
	d.nextFavID++
	return nil
}

func (m *MemoryStore) RemoveFavorite(ctx context.Context, userID, productID string) error {
	defer m.lock()()
	d := m.root().data
	kept := d.favorites[:0]
	for _, f := range d.favorites {
		if !(f.UserID == userID && f.ProductID == productID) {
			kept = append(kept, f)
		}
	}
	d.favorites = kept
	return nil
}

// ---------------- Sessions ----------------

func (m *MemoryStore) CreateSession(ctx context.Context, s *models.Session) error {
	defer m.lock()()
	d := m.root().data
	if _, ok := d.sessions[s.Token]; ok {
		return ErrDuplicateKey
	}
	d.sessions[s.Token] = *s
	return nil
}

func (m *MemoryStore) SessionByToken(ctx context.Context, token string) (*models.Session, error) {
	defer m.lock()()
	s, ok := m.root().data.sessions[token]
	if !ok {
		return nil, ErrInvalidSession
	}
	return &s, nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, token string) error {
	defer m.lock()()
	delete(m.root().data.sessions, token)
	return nil
}

func (m *MemoryStore) DeleteUserSessions(ctx context.Context, userID string) error {
	defer m.lock()()
	d := m.root().data
	for token, s := range d.sessions {
		if s.UserID == userID {
			delete(d.sessions, token)
		}
	}
	return nil
}

// ---------------- Catalog ----------------

func (m *MemoryStore) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	defer m.lock()()
	d := m.root().data

	matches := func(p models.Product) bool {
		if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
			return false
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) &&
				!strings.Contains(strings.ToLower(p.Category), needle) {
				return false
			}
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			return false
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			return false
		}
		return true
	}

	var products []models.Product
	for _, p := range d.products {
		if matches(p) {
			products = append(products, copyProduct(p))
		}
	}

	sort.SliceStable(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	switch f.Sort {
	case "price-asc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case "price-desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case "rating":
		sort.SliceStable(products, func(i, j int) bool {
			ri, rj := -1.0, -1.0
			if products[i].Rating != nil {
				ri = *products[i].Rating
			}
			if products[j].Rating != nil {
				rj = *products[j].Rating
			}
			return ri > rj
		})
	case "discount":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Discount > products[j].Discount })
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 1000
	}
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (m *MemoryStore) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	defer m.lock()()
	p, ok := m.root().data.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p = copyProduct(p)
	return &p, nil
}

func (m *MemoryStore) CreateProduct(ctx context.Context, p *models.Product) error {
	defer m.lock()()
	d := m.root().data
	if _, ok := d.products[p.ID]; ok {
		return ErrDuplicateKey
	}
	d.products[p.ID] = copyProduct(*p)
	return nil
}

func (m *MemoryStore) DeleteProduct(ctx context.Context, id string) error {
	defer m.lock()()
	d := m.root().data
	if _, ok := d.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(d.products, id)
	return nil
}

func (m *MemoryStore) CountProducts(ctx context.Context) (int64, error) {
	defer m.lock()()
	return int64(len(m.root().data.products)), nil
}

func (m *MemoryStore) ListCategories(ctx context.Context, limit int) ([]models.Category, error) {
	defer m.lock()()
	if limit <= 0 {
		limit = 100
	}
	var categories []models.Category
	for _, c := range m.root().data.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	if len(categories) > limit {
		categories = categories[:limit]
	}
	return categories, nil
}

func (m *MemoryStore) CreateCategory(ctx context.Context, c *models.Category) error {
	defer m.lock()()
	d := m.root().data
	if _, ok := d.categories[c.ID]; ok {
		return ErrDuplicateKey
	}
	d.categories[c.ID] = *c
	return nil
}

// ---------------- Carts ----------------

func (m *MemoryStore) CartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	defer m.lock()()
	c, ok := m.root().data.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	c = copyCart(c)
	return &c, nil
}

func (m *MemoryStore) CreateCart(ctx context.Context, c *models.Cart) error {
	defer m.lock()()
	d := m.root().data
	if _, ok := d.carts[c.UserID]; ok {
		return ErrDuplicateKey
	}
	c.CartID = d.nextCartID
	d.nextCartID++
	d.carts[c.UserID] = copyCart(*c)
	return nil
}

func (m *MemoryStore) findCartByID(cartID uint) (string, models.Cart, bool) {
	for userID, c := range m.root().data.carts {
		if c.CartID == cartID {
			return userID, c, true
		}
	}
	return "", models.Cart{}, false
}

func (m *MemoryStore) TouchCart(ctx context.Context, cartID uint) error {
	defer m.lock()()
	userID, c, ok := m.findCartByID(cartID)
	if !ok {
		return ErrCartNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	m.root().data.carts[userID] = c
	return nil
}

func (m *MemoryStore) AddCartItem(ctx context.Context, item *models.CartItem) error {
	defer m.lock()()
	userID, c, ok := m.findCartByID(item.CartID)
	if !ok {
		return ErrCartNotFound
	}
	for _, existing := range c.Items {
		if existing.ProductID == item.ProductID && existing.Color == item.Color {
			return ErrDuplicateKey
		}
	}
	c.Items = append(c.Items, *item)
	m.root().data.carts[userID] = c
	return nil
}

func (m *MemoryStore) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	defer m.lock()()
	userID, c, ok := m.findCartByID(item.CartID)
	if !ok {
		return ErrCartNotFound
	}
	for i, existing := range c.Items {
		if existing.ProductID == item.ProductID && existing.Color == item.Color {
			c.Items[i] = *item
			m.root().data.carts[userID] = c
			return nil
		}
	}
	c.Items = append(c.Items, *item)
	m.root().data.carts[userID] = c
	return nil
}

func (m *MemoryStore) DeleteCartItem(ctx context.Context, cartID uint, productID, color string) error {
	defer m.lock()()
	userID, c, ok := m.findCartByID(cartID)
	if !ok {
		return nil
	}
	kept := c.Items[:0]
	for _, item := range c.Items {
		if !(item.ProductID == productID && item.Color == color) {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	m.root().data.carts[userID] = c
	return nil
}

func (m *MemoryStore) DeleteCart(ctx context.Context, userID string) error {
	defer m.lock()()
	delete(m.root().data.carts, userID)
	return nil
}

// ---------------- Orders ----------------

func (m *MemoryStore) CreateOrder(ctx context.Context, o *models.Order) error {
	defer m.lock()()
	d := m.root().data
	if _, ok := d.orders[o.ID]; ok {
		return ErrDuplicateKey
	}
	for _, existing := range d.orders {
		if existing.OrderNumber == o.OrderNumber {
			return ErrDuplicateKey
		}
	}
	d.orders[o.ID] = copyOrder(*o)
	return nil
}

func (m *MemoryStore) OrdersByUser(ctx context.Context, userID string, limit int) ([]models.Order, error) {
	defer m.lock()()
	if limit <= 0 {
		limit = 100
	}
	var orders []models.Order
	for _, o := range m.root().data.orders {
		if o.UserID == userID {
			orders = append(orders, copyOrder(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (m *MemoryStore) OrderByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	defer m.lock()()
	o, ok := m.root().data.orders[orderID]
	if !ok || o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	o = copyOrder(o)
	return &o, nil
}

// ---------------- Checkout support ----------------

// ProductForUpdate matches the Postgres adapter's contract: inside
// WithTx the whole store is locked, so the read is exclusive by construction.
func (m *MemoryStore) ProductForUpdate(ctx context.Context, id string) (*models.Product, error) {
	return m.ProductByID(ctx, id)
}

func (m *MemoryStore) SaveProduct(ctx context.Context, p *models.Product) error {
	defer m.lock()()
	d := m.root().data
	if _, ok := d.products[p.ID]; !ok {
		return ErrProductNotFound
	}
	d.products[p.ID] = copyProduct(*p)
	return nil
}

// WithTx serializes the transaction behind the store mutex and restores
// a snapshot if fn fails, so partial effects are never observable.
func (m *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	if m.parent != nil {
		return fn(m) // already inside a transaction
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	tx := &MemoryStore{parent: m}
	if err := fn(tx); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}
