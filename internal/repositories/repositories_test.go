package repositories_test

import (
	"context"
	"errors"
	"testing"

	"tokostore/internal/models"
	"tokostore/internal/repositories"
	"tokostore/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_DecrementStock(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	product := testutil.CreateProduct(t, store, "Lamp", "19.99", 3)

	require.NoError(t, store.Products.DecrementStock(ctx, product.ID, 2))

	err := store.Products.DecrementStock(ctx, product.ID, 2)
	assert.True(t, errors.Is(err, repositories.ErrInsufficientStock))

	fetched, err := store.Products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.Stock, "failed decrement must not touch stock")
}

func TestProductRepository_Filters(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()

	shoes := &models.Category{Name: "Shoes"}
	require.NoError(t, store.Categories.Create(ctx, shoes))

	runner := &models.Product{Name: "Trail Runner", Price: testutil.Price("89.00"), Stock: 4, CategoryID: &shoes.ID, IsFeatured: true}
	require.NoError(t, store.Products.Create(ctx, runner))
	testutil.CreateProduct(t, store, "Wool Socks", "9.00", 0)

	all, err := store.Products.GetAll(ctx, repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCategory, err := store.Products.GetAll(ctx, repositories.ProductFilter{CategoryID: shoes.ID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Trail Runner", byCategory[0].Name)
	assert.Equal(t, "Shoes", byCategory[0].CategoryName)

	featured, err := store.Products.GetAll(ctx, repositories.ProductFilter{FeaturedOnly: true})
	require.NoError(t, err)
	assert.Len(t, featured, 1)

	searched, err := store.Products.GetAll(ctx, repositories.ProductFilter{Search: "SOCK"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "Wool Socks", searched[0].Name)

	stats, err := store.Products.Stats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, models.ProductStats{TotalProducts: 2, LowStock: 2, OutOfStock: 1, FeaturedProducts: 1}, stats)
}

func TestProductRepository_GetByIDNotFound(t *testing.T) {
	store, _ := testutil.NewStore(t)

	_, err := store.Products.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestCategoryRepository_DeleteDetachesProducts(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()

	category := &models.Category{Name: "Hats"}
	require.NoError(t, store.Categories.Create(ctx, category))
	hat := &models.Product{Name: "Beanie", Price: testutil.Price("15.00"), Stock: 2, CategoryID: &category.ID}
	require.NoError(t, store.Products.Create(ctx, hat))

	require.NoError(t, store.Categories.Delete(ctx, category.ID))

	fetched, err := store.Products.GetByID(ctx, hat.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.CategoryID)

	err = store.Categories.Delete(ctx, category.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestCartRepository_GetOrCreateAndOwnership(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, store, "alice")
	bob := testutil.CreateUser(t, store, "bob")
	product := testutil.CreateProduct(t, store, "Mug", "7.50", 10)

	_, err := store.Carts.GetByUserID(ctx, alice.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	cart, err := store.Carts.GetOrCreate(ctx, alice.ID)
	require.NoError(t, err)
	again, err := store.Carts.GetOrCreate(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID, "one cart per user")

	item := &models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2}
	require.NoError(t, store.Carts.CreateItem(ctx, item))

	owned, err := store.Carts.GetItemForUser(ctx, item.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, owned.Quantity)
	require.NotNil(t, owned.Product)
	assert.Equal(t, "Mug", owned.Product.Name)

	_, err = store.Carts.GetItemForUser(ctx, item.ID, bob.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	loaded, err := store.Carts.GetByUserID(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.True(t, loaded.TotalPrice.Equal(testutil.Price("15.00")))

	require.NoError(t, store.Carts.ClearItems(ctx, cart.ID))
	loaded, err = store.Carts.GetByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
	assert.True(t, loaded.TotalPrice.IsZero())
}

func TestOrderRepository_CreateListAndStats(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, store, "alice")
	bob := testutil.CreateUser(t, store, "bob")
	product := testutil.CreateProduct(t, store, "Kettle", "30.00", 5)

	newOrder := func(user *models.User, status models.OrderStatus) *models.Order {
		order := &models.Order{
			UserID:          user.ID,
			TotalAmount:     testutil.Price("60.00"),
			Status:          status,
			ShippingAddress: "1 Main St",
			PhoneNumber:     "555-0100",
			Items:           []models.OrderItem{{ProductID: product.ID, Quantity: 2, Price: testutil.Price("30.00")}},
		}
		require.NoError(t, store.Orders.Create(ctx, order))
		return order
	}
	delivered := newOrder(alice, models.OrderStatusDelivered)
	newOrder(alice, models.OrderStatusPending)
	newOrder(bob, models.OrderStatusPending)

	fetched, err := store.Orders.GetByID(ctx, delivered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", fetched.UserName)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "Kettle", fetched.Items[0].ProductName)
	assert.True(t, fetched.Items[0].Subtotal.Equal(testutil.Price("60")))

	_, err = store.Orders.GetForUser(ctx, delivered.ID, bob.ID)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))

	aliceOrders, err := store.Orders.GetAll(ctx, repositories.OrderFilter{UserID: alice.ID})
	require.NoError(t, err)
	assert.Len(t, aliceOrders, 2)

	pending, err := store.Orders.GetAll(ctx, repositories.OrderFilter{Status: models.OrderStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	count, err := store.Orders.CountItemsForProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	stats, err := store.Orders.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.PendingOrders)
	assert.Equal(t, int64(0), stats.ProcessingOrders)
	assert.Equal(t, int64(1), stats.CompletedOrders)
	assert.True(t, stats.TotalRevenue.Equal(testutil.Price("60")), "got %s", stats.TotalRevenue)

	require.NoError(t, store.Orders.UpdateStatus(ctx, delivered.ID, models.OrderStatusCancelled))
	err = store.Orders.UpdateStatus(ctx, "missing", models.OrderStatusCancelled)
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestStore_TransactionRollsBack(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	product := testutil.CreateProduct(t, store, "Vase", "12.00", 4)

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Products.DecrementStock(ctx, product.ID, 3); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	fetched, err := store.Products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, fetched.Stock)
}

func TestTokenRepository(t *testing.T) {
	store, _ := testutil.NewStore(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, store, "carol")

	token := &models.AuthToken{UserID: user.ID, Token: "abc"}
	require.NoError(t, store.Tokens.Create(ctx, token))

	byUser, err := store.Tokens.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc", byUser.Token)

	require.NoError(t, store.Tokens.DeleteByToken(ctx, "abc"))
	_, err = store.Tokens.GetByToken(ctx, "abc")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
	assert.True(t, errors.Is(store.Tokens.DeleteByToken(ctx, "abc"), repositories.ErrNotFound))
}
