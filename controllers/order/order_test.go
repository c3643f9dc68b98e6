package orderControllers

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartControllers "github.com/ChristianMadoz/libreM/controllers/cart"
	"github.com/ChristianMadoz/libreM/models"
	"github.com/ChristianMadoz/libreM/store"
)

func newCheckoutFixture(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()

	products := []models.Product{
		{ID: "prod_a", Name: "Laptop", Price: 100, Stock: 10, Image: "a.jpg", Seller: "x", Description: "d", Category: "Tech", CategoryID: 1},
		{ID: "prod_b", Name: "Phone", Price: 50, Stock: 5, Image: "b.jpg", Seller: "x", Description: "d", Category: "Tech", CategoryID: 1},
	}
	for i := range products {
		require.NoError(t, s.CreateProduct(ctx, &products[i]))
	}

	users := []models.User{
		{ID: "user_1", Email: "one@example.com", Name: "One", CreatedAt: time.Now()},
		{ID: "user_2", Email: "two@example.com", Name: "Two", CreatedAt: time.Now()},
	}
	for i := range users {
		require.NoError(t, s.CreateUser(ctx, &users[i]))
	}
	return s
}

func addToCart(t *testing.T, s store.Store, userID, productID string, qty int) {
	t.Helper()
	err := cartControllers.AddItem(context.Background(), s, userID, cartControllers.AddItemInput{
		ProductID: productID,
		Quantity:  qty,
	})
	require.NoError(t, err)
}

var shipping = models.ShippingInfo{
	FullName: "One Tester", Email: "one@example.com", Phone: "123",
	Address: "Calle 1", City: "Madrid", Province: "Madrid", PostalCode: "28001",
}

func TestCreateOrderEmptyCart(t *testing.T) {
	s := newCheckoutFixture(t)
	ctx := context.Background()

	// no cart at all
	_, err := CreateOrder(ctx, s, "user_1", shipping)
	require.ErrorIs(t, err, store.ErrEmptyCart)

	// cart exists but has no lines
	addToCart(t, s, "user_1", "prod_a", 1)
	require.NoError(t, cartControllers.RemoveItem(ctx, s, "user_1", "prod_a", ""))
	_, err = CreateOrder(ctx, s, "user_1", shipping)
	require.ErrorIs(t, err, store.ErrEmptyCart)

	// no order, no stock movement
	orders, err := s.OrdersByUser(ctx, "user_1", 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
	p, err := s.ProductByID(ctx, "prod_a")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)
}

func TestCreateOrderSuccess(t *testing.T) {
	s := newCheckoutFixture(t)
	ctx := context.Background()

	addToCart(t, s, "user_1", "prod_a", 2)
	addToCart(t, s, "user_1", "prod_b", 3)

	order, err := CreateOrder(ctx, s, "user_1", shipping)
	require.NoError(t, err)

	assert.Equal(t, "user_1", order.UserID)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.InDelta(t, 2*100.0+3*50.0, order.Total, 1e-9)
	assert.Len(t, order.Items, 2)
	assert.Regexp(t, regexp.MustCompile(`^ML-\d{8}-[0-9A-F]{8}$`), order.OrderNumber)

	// stock moved, sold moved
	pa, _ := s.ProductByID(ctx, "prod_a")
	pb, _ := s.ProductByID(ctx, "prod_b")
	assert.Equal(t, 8, pa.Stock)
	assert.Equal(t, 2, pa.Sold)
	assert.Equal(t, 2, pb.Stock)
	assert.Equal(t, 3, pb.Sold)

	// cart fully cleared
	_, err = s.CartByUser(ctx, "user_1")
	assert.ErrorIs(t, err, store.ErrCartNotFound)

	// order readable back
	got, err := s.OrderByID(ctx, "user_1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	s := newCheckoutFixture(t)
	ctx := context.Background()

	// prod_a is fine, prod_b asks for more than exists. Lock order is
	// ascending product id, so prod_a is decremented first inside the
	// transaction and must be restored by the rollback.
	addToCart(t, s, "user_1", "prod_a", 2)
	addToCart(t, s, "user_1", "prod_b", 6)

	_, err := CreateOrder(ctx, s, "user_1", shipping)
	se, ok := store.IsStockError(err)
	require.True(t, ok, "expected StockError, got %v", err)
	assert.Equal(t, "Phone", se.Name)
	assert.Equal(t, 6, se.Requested)
	assert.Equal(t, 5, se.Available)

	// nothing moved
	pa, _ := s.ProductByID(ctx, "prod_a")
	pb, _ := s.ProductByID(ctx, "prod_b")
	assert.Equal(t, 10, pa.Stock)
	assert.Equal(t, 0, pa.Sold)
	assert.Equal(t, 5, pb.Stock)

	// cart untouched
	cart, err := s.CartByUser(ctx, "user_1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)

	// no order persisted
	orders, _ := s.OrdersByUser(ctx, "user_1", 0)
	assert.Empty(t, orders)
}

func TestOrderSnapshotImmuneToCatalogEdits(t *testing.T) {
	s := newCheckoutFixture(t)
	ctx := context.Background()

	addToCart(t, s, "user_1", "prod_a", 1)
	order, err := CreateOrder(ctx, s, "user_1", shipping)
	require.NoError(t, err)
	require.InDelta(t, 100.0, order.Total, 1e-9)

	// raise the price after the order exists
	p, err := s.ProductByID(ctx, "prod_a")
	require.NoError(t, err)
	p.Price = 999
	p.Name = "Renamed Laptop"
	require.NoError(t, s.SaveProduct(ctx, p))

	got, err := s.OrderByID(ctx, "user_1", order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got.Total, 1e-9)
	assert.InDelta(t, 100.0, got.Items[0].Price, 1e-9)
	assert.Equal(t, "Laptop", got.Items[0].Name)
}

func TestSequentialCheckoutsExhaustStock(t *testing.T) {
	s := newCheckoutFixture(t)
	ctx := context.Background()

	// both carts filled while stock (10) still covers each request of 6
	addToCart(t, s, "user_1", "prod_a", 6)
	addToCart(t, s, "user_2", "prod_a", 6)

	// first checkout wins: stock 10 -> 4
	_, err := CreateOrder(ctx, s, "user_1", shipping)
	require.NoError(t, err)
	p, _ := s.ProductByID(ctx, "prod_a")
	require.Equal(t, 4, p.Stock)

	// second checkout finds only 4 left and fails, stock unchanged
	_, err = CreateOrder(ctx, s, "user_2", shipping)
	se, ok := store.IsStockError(err)
	require.True(t, ok, "expected StockError, got %v", err)
	assert.Equal(t, 6, se.Requested)
	assert.Equal(t, 4, se.Available)

	p, _ = s.ProductByID(ctx, "prod_a")
	assert.Equal(t, 4, p.Stock)

	// the advisory cart check also refuses new adds beyond live stock
	err = cartControllers.AddItem(ctx, s, "user_1", cartControllers.AddItemInput{ProductID: "prod_a", Quantity: 6})
	_, ok = store.IsStockError(err)
	assert.True(t, ok)
}

func TestConcurrentCheckoutsAdmitOneWinner(t *testing.T) {
	s := newCheckoutFixture(t)
	ctx := context.Background()

	// combined demand 12 > stock 10: at most one of the two may succeed
	addToCart(t, s, "user_1", "prod_a", 6)
	addToCart(t, s, "user_2", "prod_a", 6)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []string{"user_1", "user_2"} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = CreateOrder(ctx, s, userID, shipping)
		}(i, userID)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			_, ok := store.IsStockError(err)
			require.True(t, ok, "loser must fail with StockError, got %v", err)
		}
	}
	require.Equal(t, 1, successes)

	p, _ := s.ProductByID(ctx, "prod_a")
	assert.Equal(t, 4, p.Stock)
	assert.Equal(t, 6, p.Sold)
}

// collidingStore forces order inserts to fail with a unique violation a
// set number of times, the way a duplicate order number would. A
// negative count fails every insert. WithTx is wrapped so the forced
// failures also apply to the transactional store handed to the callback.
type collidingStore struct {
	store.Store
	failures *int
}

func (cs *collidingStore) CreateOrder(ctx context.Context, o *models.Order) error {
	if *cs.failures != 0 {
		if *cs.failures > 0 {
			*cs.failures--
		}
		return store.ErrDuplicateKey
	}
	return cs.Store.CreateOrder(ctx, o)
}

func (cs *collidingStore) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	return cs.Store.WithTx(ctx, func(tx store.Store) error {
		return fn(&collidingStore{Store: tx, failures: cs.failures})
	})
}

func TestCreateOrderRetriesNumberCollision(t *testing.T) {
	s := newCheckoutFixture(t)
	ctx := context.Background()
	addToCart(t, s, "user_1", "prod_a", 2)

	// two consecutive unique violations, then the insert goes through
	failures := 2
	cs := &collidingStore{Store: s, failures: &failures}

	order, err := CreateOrder(ctx, cs, "user_1", shipping)
	require.NoError(t, err, "a bounded collision streak must be invisible to the caller")
	assert.Zero(t, failures)

	// the two rolled-back attempts left no trace: stock moved exactly once
	p, err := s.ProductByID(ctx, "prod_a")
	require.NoError(t, err)
	assert.Equal(t, 8, p.Stock)
	assert.Equal(t, 2, p.Sold)

	_, err = s.CartByUser(ctx, "user_1")
	assert.ErrorIs(t, err, store.ErrCartNotFound)

	got, err := s.OrderByID(ctx, "user_1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)
}

func TestCreateOrderCollisionExhaustion(t *testing.T) {
	s := newCheckoutFixture(t)
	ctx := context.Background()
	addToCart(t, s, "user_1", "prod_a", 2)

	// every insert collides; retries run out
	failures := -1
	cs := &collidingStore{Store: s, failures: &failures}

	_, err := CreateOrder(ctx, cs, "user_1", shipping)
	require.ErrorIs(t, err, store.ErrCheckoutPersistence)

	// everything rolled back: stock, sold counter and cart untouched
	p, err := s.ProductByID(ctx, "prod_a")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, 0, p.Sold)

	cart, err := s.CartByUser(ctx, "user_1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	orders, err := s.OrdersByUser(ctx, "user_1", 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestCheckoutSkipsDeletedProducts(t *testing.T) {
	s := newCheckoutFixture(t)
	ctx := context.Background()

	addToCart(t, s, "user_1", "prod_a", 1)
	addToCart(t, s, "user_1", "prod_b", 1)

	// prod_b disappears from the catalog before checkout; its line is
	// dropped instead of failing the order
	require.NoError(t, s.DeleteProduct(ctx, "prod_b"))

	order, err := CreateOrder(ctx, s, "user_1", shipping)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "prod_a", order.Items[0].ProductID)
	assert.InDelta(t, 100.0, order.Total, 1e-9)
}
