package repository

import (
	"testing"

	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCartRepository(testDB)

	// Create test user
	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	// Create test product
	product := &model.Product{
		Name:          "Sourdough Loaf",
		Slug:          "sourdough-loaf",
		Price:         8.50,
		Category:      model.CategoryBread,
		StockQuantity: 10,
		IsActive:      true,
	}
	testDB.Create(product)

	return testDB, repo, user, product
}

func TestCartRepository_Create(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	line := &model.CartLine{
		UserID:    user.ID,
		LineID:    "p1",
		ProductID: &product.ID,
		Quantity:  2,
	}

	err := repo.Create(line)
	assert.NoError(t, err)
	assert.NotZero(t, line.ID)
}

func TestCartRepository_FindByUserID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	line1 := &model.CartLine{UserID: user.ID, LineID: "p1", ProductID: &product.ID, Quantity: 2}
	line2 := &model.CartLine{UserID: user.ID, LineID: "p1-v3", ProductID: &product.ID, Quantity: 1}

	repo.Create(line1)
	repo.Create(line2)

	lines, err := repo.FindByUserID(user.ID)
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestCartRepository_FindByUserAndLine(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	line := &model.CartLine{
		UserID:    user.ID,
		LineID:    "p1",
		ProductID: &product.ID,
		Quantity:  3,
	}
	repo.Create(line)

	found, err := repo.FindByUserAndLine(user.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, line.ID, found.ID)
	assert.Equal(t, 3, found.Quantity)

	_, err = repo.FindByUserAndLine(user.ID, "p999")
	assert.Error(t, err)
}

func TestCartRepository_AttributesRoundTrip(t *testing.T) {
	testDB, repo, user, _ := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	line := &model.CartLine{
		UserID:   user.ID,
		LineID:   "3f9a1c2e",
		Quantity: 1,
		Attributes: model.JSONMap{
			"message": "Happy Birthday",
			"tiers":   float64(3),
		},
	}
	require.NoError(t, repo.Create(line))

	found, err := repo.FindByUserAndLine(user.ID, "3f9a1c2e")
	require.NoError(t, err)
	assert.Equal(t, "Happy Birthday", found.Attributes["message"])
	assert.Equal(t, float64(3), found.Attributes["tiers"])
}

func TestCartRepository_Update(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	line := &model.CartLine{
		UserID:    user.ID,
		LineID:    "p1",
		ProductID: &product.ID,
		Quantity:  2,
	}
	repo.Create(line)

	line.Quantity = 5
	err := repo.Update(line)
	assert.NoError(t, err)

	updated, _ := repo.FindByUserAndLine(user.ID, "p1")
	assert.Equal(t, 5, updated.Quantity)
}

func TestCartRepository_DeleteByLineID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	line := &model.CartLine{
		UserID:    user.ID,
		LineID:    "p1",
		ProductID: &product.ID,
		Quantity:  2,
	}
	repo.Create(line)

	err := repo.DeleteByLineID(user.ID, "p1")
	assert.NoError(t, err)

	_, err = repo.FindByUserAndLine(user.ID, "p1")
	assert.Error(t, err)
}

func TestCartRepository_DeleteByUserID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	repo.Create(&model.CartLine{UserID: user.ID, LineID: "p1", ProductID: &product.ID, Quantity: 1})
	repo.Create(&model.CartLine{UserID: user.ID, LineID: "p1-v2", ProductID: &product.ID, Quantity: 2})

	err := repo.DeleteByUserID(user.ID)
	assert.NoError(t, err)

	lines, _ := repo.FindByUserID(user.ID)
	assert.Len(t, lines, 0)
}
