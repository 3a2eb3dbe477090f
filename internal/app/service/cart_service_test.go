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

type cartFixture struct {
	db       *gorm.DB
	svc      CartService
	user     *model.User
	product  *model.Product
	variant  *model.ProductVariant
	notified []uint
}

func setupCartService(t *testing.T) *cartFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	fx := &cartFixture{db: testDB}

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
		StockQuantity: 50,
		IsActive:      true,
	}
	testDB.Create(fx.product)

	fx.variant = &model.ProductVariant{
		ProductID:  fx.product.ID,
		Name:       "Whole",
		PriceDelta: 1.50,
	}
	testDB.Create(fx.variant)

	fx.svc = NewCartService(
		repository.NewCartRepository(testDB),
		repository.NewProductRepository(testDB),
		func(userID uint) { fx.notified = append(fx.notified, userID) },
	)
	return fx
}

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero becomes one", 0, 1},
		{"negative becomes one", -5, 1},
		{"in range unchanged", 42, 42},
		{"upper bound kept", 999, 999},
		{"over cap clamped", 10000, 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampQuantity(tt.in))
		})
	}
}

func TestCartService_AddToCart_DerivesLineID(t *testing.T) {
	fx := setupCartService(t)
	defer db.CleanupTestDB(fx.db)

	lines, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{
		ProductID: &fx.product.ID,
		VariantID: &fx.variant.ID,
		Quantity:  2,
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "p1-v1", lines[0].LineID)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartService_AddToCart_MergesSameLine(t *testing.T) {
	fx := setupCartService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 2})
	require.NoError(t, err)

	lines, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 3})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestCartService_AddToCart_MergeClampsAtMax(t *testing.T) {
	fx := setupCartService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 998})
	require.NoError(t, err)

	lines, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 5})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 999, lines[0].Quantity)
}

func TestCartService_AddToCart_CustomLinesNeverMerge(t *testing.T) {
	fx := setupCartService(t)
	defer db.CleanupTestDB(fx.db)

	attrs := model.JSONMap{"message": "Happy Birthday", "price": 45.0, "name": "Custom Cake"}

	_, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{Quantity: 1, Attributes: attrs})
	require.NoError(t, err)

	lines, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{Quantity: 1, Attributes: attrs})
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.NotEqual(t, lines[0].LineID, lines[1].LineID)
}

func TestCartService_AddToCart_UnknownProduct(t *testing.T) {
	fx := setupCartService(t)
	defer db.CleanupTestDB(fx.db)

	missing := uint(9999)
	_, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &missing, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_UpdateQuantity_Clamps(t *testing.T) {
	fx := setupCartService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 5})
	require.NoError(t, err)

	lines, err := fx.svc.UpdateQuantity(fx.user.ID, "p1", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, lines[0].Quantity)

	lines, err = fx.svc.UpdateQuantity(fx.user.ID, "p1", 10000)
	require.NoError(t, err)
	assert.Equal(t, 999, lines[0].Quantity)
}

func TestCartService_UpdateQuantity_MissingLineIsNoop(t *testing.T) {
	fx := setupCartService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 2})
	require.NoError(t, err)

	lines, err := fx.svc.UpdateQuantity(fx.user.ID, "p42-v7", 9)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartService_RemoveLine_Idempotent(t *testing.T) {
	fx := setupCartService(t)
	defer db.CleanupTestDB(fx.db)

	_, err := fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 2})
	require.NoError(t, err)

	lines, err := fx.svc.RemoveLine(fx.user.ID, "p1")
	require.NoError(t, err)
	assert.Len(t, lines, 0)

	// Removing again is not an error.
	lines, err = fx.svc.RemoveLine(fx.user.ID, "p1")
	require.NoError(t, err)
	assert.Len(t, lines, 0)
}

func TestCartService_ClearCart(t *testing.T) {
	fx := setupCartService(t)
	defer db.CleanupTestDB(fx.db)

	fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 2})
	fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, VariantID: &fx.variant.ID, Quantity: 1})

	require.NoError(t, fx.svc.ClearCart(fx.user.ID))

	lines, err := fx.svc.GetUserCart(fx.user.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 0)
}

func TestCartService_NotifiesOnEveryMutation(t *testing.T) {
	fx := setupCartService(t)
	defer db.CleanupTestDB(fx.db)

	fx.svc.AddToCart(fx.user.ID, AddLineInput{ProductID: &fx.product.ID, Quantity: 2})
	fx.svc.UpdateQuantity(fx.user.ID, "p1", 4)
	fx.svc.UpdateQuantity(fx.user.ID, "missing-line", 4) // no-op still notifies
	fx.svc.RemoveLine(fx.user.ID, "p1")
	fx.svc.ClearCart(fx.user.ID)

	assert.Len(t, fx.notified, 5)
	for _, id := range fx.notified {
		assert.Equal(t, fx.user.ID, id)
	}
}
