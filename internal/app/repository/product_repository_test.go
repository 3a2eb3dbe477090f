package repository

import (
	"testing"

	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return testDB, NewProductRepository(testDB)
}

func TestProductRepository_CreateWithVariants(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Name:          "Birthday Cake",
		Slug:          "birthday-cake",
		Price:         32.00,
		Category:      model.CategoryCake,
		StockQuantity: 5,
		IsActive:      true,
		Variants: []model.ProductVariant{
			{Name: "6 inch", PriceDelta: 0},
			{Name: "8 inch", PriceDelta: 12.00},
		},
	}

	err := repo.Create(product)
	require.NoError(t, err)
	assert.NotZero(t, product.ID)

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Len(t, found.Variants, 2)
}

func TestProductRepository_FindBySlug(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	require.NoError(t, repo.Create(&model.Product{
		Name: "Rye Bread", Slug: "rye-bread", Price: 6.00,
		Category: model.CategoryBread, IsActive: true,
	}))

	found, err := repo.FindBySlug("rye-bread")
	require.NoError(t, err)
	assert.Equal(t, "Rye Bread", found.Name)

	_, err = repo.FindBySlug("no-such-bread")
	assert.Error(t, err)
}

func TestProductRepository_FindAll_Filters(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	seed := []*model.Product{
		{Name: "Croissant", Slug: "croissant", Price: 3.20, Category: model.CategoryPastry, IsActive: true},
		{Name: "Almond Croissant", Slug: "almond-croissant", Price: 4.20, Category: model.CategoryPastry, IsActive: true},
		{Name: "Baguette", Slug: "baguette", Price: 4.00, Category: model.CategoryBread, IsActive: true},
		{Name: "Day-old Baguette", Slug: "day-old-baguette", Price: 2.00, Category: model.CategoryBread, IsActive: false},
	}
	for _, p := range seed {
		require.NoError(t, repo.Create(p))
	}

	pastries, total, err := repo.FindAll(ProductFilter{Category: model.CategoryPastry})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, pastries, 2)

	active, total, err := repo.FindAll(ProductFilter{Category: model.CategoryBread, ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Baguette", active[0].Name)

	matched, _, err := repo.FindAll(ProductFilter{Search: "croissant"})
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	page1, total, err := repo.FindAll(ProductFilter{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page1, 3)

	min, max := 3.00, 4.10
	priced, total, err := repo.FindAll(ProductFilter{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, p := range priced {
		assert.GreaterOrEqual(t, p.Price, min)
		assert.LessOrEqual(t, p.Price, max)
	}
}

func TestProductRepository_IncrementSalesCount(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Name: "Canele", Slug: "canele", Price: 3.80,
		Category: model.CategoryPastry, IsActive: true,
	}
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.IncrementSalesCount(product.ID, 3))
	require.NoError(t, repo.IncrementSalesCount(product.ID, 2))

	found, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.SalesCount)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		Name: "Seasonal Stollen", Slug: "stollen", Price: 14.00,
		Category: model.CategoryBread, IsActive: true,
	}
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.Delete(product.ID))

	_, err := repo.FindByID(product.ID)
	assert.Error(t, err)
}
