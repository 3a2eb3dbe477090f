package service

import (
	"testing"

	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderFixture struct {
	db      *gorm.DB
	svc     OrderService
	cart    CartService
	user    *model.User
	product *model.Product
	cleared int
}

func setupOrderService(t *testing.T) *orderFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	fx := &orderFixture{db: testDB}

	fx.user = &model.User{
		Email:        "customer@example.com",
		PasswordHash: "hash",
		Name:         "Customer",
		Role:         model.RoleUser,
	}
	testDB.Create(fx.user)

	fx.product = &model.Product{
		Name:          "Sourdough Loaf",
		Slug:          "sourdough-loaf",
		Price:         8.50,
		Category:      model.CategoryBread,
		StockQuantity: 10,
		IsActive:      true,
	}
	testDB.Create(fx.product)

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)

	fx.cart = NewCartService(cartRepo, productRepo, nil)
	fx.svc = NewOrderService(
		repository.NewOrderRepository(testDB),
		cartRepo,
		productRepo,
		testDB,
		func(userID uint) { fx.cleared++ },
	)
	return fx
}

func TestOrderService_CreateOrderFromCart(t *testing.T) {
	fx := setupOrderService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.cart.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 3})
	require.NoError(t, err)

	order, err := fx.svc.CreateOrderFromCart(fx.user.ID, "", "ring the bell", model.FulfillmentPickup)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.NotEmpty(t, order.Code)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.InDelta(t, 25.50, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Sourdough Loaf", order.Items[0].Name)

	// Stock decremented, sales counted, cart emptied.
	var product model.Product
	fx.db.First(&product, fx.product.ID)
	assert.Equal(t, 7, product.StockQuantity)
	assert.Equal(t, 3, product.SalesCount)

	lines, _ := fx.cart.GetUserCart(fx.user.ID)
	assert.Len(t, lines, 0)
	assert.Equal(t, 1, fx.cleared)
}

func TestOrderService_EmptyCart(t *testing.T) {
	fx := setupOrderService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.svc.CreateOrderFromCart(fx.user.ID, "", "", model.FulfillmentPickup)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_DeliveryRequiresAddress(t *testing.T) {
	fx := setupOrderService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.cart.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = fx.svc.CreateOrderFromCart(fx.user.ID, "", "", model.FulfillmentDelivery)
	assert.ErrorIs(t, err, ErrInvalidFulfillment)
}

func TestOrderService_InsufficientStock(t *testing.T) {
	fx := setupOrderService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.cart.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 11})
	require.NoError(t, err)

	_, err = fx.svc.CreateOrderFromCart(fx.user.ID, "", "", model.FulfillmentPickup)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing was committed: cart intact, stock intact.
	lines, _ := fx.cart.GetUserCart(fx.user.ID)
	assert.Len(t, lines, 1)
	var product model.Product
	fx.db.First(&product, fx.product.ID)
	assert.Equal(t, 10, product.StockQuantity)
}

func TestOrderService_CustomLinePricedFromAttributes(t *testing.T) {
	fx := setupOrderService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.cart.AddToCart(fx.user.ID, AddLineInput{
		Quantity:   1,
		Attributes: model.JSONMap{"name": "Wedding Cake", "price": 120.0, "message": "Congratulations"},
	})
	require.NoError(t, err)

	order, err := fx.svc.CreateOrderFromCart(fx.user.ID, "", "", model.FulfillmentPickup)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Wedding Cake", order.Items[0].Name)
	assert.InDelta(t, 120.0, order.TotalAmount, 0.001)
}

func TestOrderService_GetOrderByID_OwnershipEnforced(t *testing.T) {
	fx := setupOrderService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.cart.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := fx.svc.CreateOrderFromCart(fx.user.ID, "", "", model.FulfillmentPickup)
	require.NoError(t, err)

	found, err := fx.svc.GetOrderByID(fx.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Code, found.Code)

	_, err = fx.svc.GetOrderByID(fx.user.ID+1, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	fx := setupOrderService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.cart.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 1})
	require.NoError(t, err)

	order, err := fx.svc.CreateOrderFromCart(fx.user.ID, "", "", model.FulfillmentPickup)
	require.NoError(t, err)

	require.NoError(t, fx.svc.UpdateOrderStatus(order.ID, model.OrderStatusReady))

	found, err := fx.svc.GetOrderByID(fx.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusReady, found.Status)

	assert.ErrorIs(t, fx.svc.UpdateOrderStatus(9999, model.OrderStatusReady), ErrOrderNotFound)
}
