package controller

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/internal/app/service"
	"github.com/ovenlab/bakehouse-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type favoriteControllerFixture struct {
	db       *gorm.DB
	router   *gin.Engine
	user     model.User
	products []model.Product
}

func setupFavoriteControllerTest(t *testing.T) *favoriteControllerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	fixture := &favoriteControllerFixture{db: database}

	fixture.user = model.User{Email: "customer@example.com", PasswordHash: "x", Name: "Customer"}
	require.NoError(t, database.Create(&fixture.user).Error)

	for _, p := range []model.Product{
		{Name: "Croissant", Slug: "croissant", Price: 3.20, Category: model.CategoryPastry, IsActive: true},
		{Name: "Baguette", Slug: "baguette", Price: 4.00, Category: model.CategoryBread, IsActive: true},
		{Name: "Eclair", Slug: "eclair", Price: 4.50, Category: model.CategoryPastry, IsActive: true},
	} {
		require.NoError(t, database.Create(&p).Error)
		fixture.products = append(fixture.products, p)
	}

	favoriteRepo := repository.NewFavoriteRepository(database)
	productRepo := repository.NewProductRepository(database)
	ctrl := NewFavoriteController(service.NewFavoriteService(favoriteRepo, productRepo))

	router := gin.New()
	group := router.Group("/api/v1/favorites", authAs(fixture.user.ID))
	group.GET("", ctrl.GetFavorites)
	group.POST("/toggle", ctrl.ToggleFavorite)
	group.POST("/check", ctrl.CheckFavorites)

	fixture.router = router
	return fixture
}

func TestFavoriteController_Toggle(t *testing.T) {
	f := setupFavoriteControllerTest(t)

	payload := `{"product_id": ` + itoa(f.products[0].ID) + `}`

	w := doJSON(t, f.router, "POST", "/api/v1/favorites/toggle", payload)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_favorite":true`)

	// Second toggle removes it.
	w = doJSON(t, f.router, "POST", "/api/v1/favorites/toggle", payload)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_favorite":false`)
}

func TestFavoriteController_Toggle_UnknownProduct(t *testing.T) {
	f := setupFavoriteControllerTest(t)

	w := doJSON(t, f.router, "POST", "/api/v1/favorites/toggle", `{"product_id": 9999}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")
}

func TestFavoriteController_List(t *testing.T) {
	f := setupFavoriteControllerTest(t)

	for _, p := range f.products {
		doJSON(t, f.router, "POST", "/api/v1/favorites/toggle", `{"product_id": `+itoa(p.ID)+`}`)
	}

	w := doJSON(t, f.router, "GET", "/api/v1/favorites?page=1&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data       []model.Favorite `json:"data"`
		Total      int64            `json:"total"`
		TotalPages int64            `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, int64(3), body.Total)
	assert.Equal(t, int64(2), body.TotalPages)

	// The embedded product is preloaded for rendering.
	require.NotZero(t, body.Data[0].Product.ID)
}

func TestFavoriteController_Check(t *testing.T) {
	f := setupFavoriteControllerTest(t)

	doJSON(t, f.router, "POST", "/api/v1/favorites/toggle", `{"product_id": `+itoa(f.products[0].ID)+`}`)
	doJSON(t, f.router, "POST", "/api/v1/favorites/toggle", `{"product_id": `+itoa(f.products[2].ID)+`}`)

	w := doJSON(t, f.router, "POST", "/api/v1/favorites/check",
		`{"product_ids": [`+itoa(f.products[0].ID)+`, `+itoa(f.products[1].ID)+`]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Favorites []uint `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []uint{f.products[0].ID}, body.Favorites)
}

func TestFavoriteController_Check_NoFavorites(t *testing.T) {
	f := setupFavoriteControllerTest(t)

	w := doJSON(t, f.router, "POST", "/api/v1/favorites/check",
		`{"product_ids": [`+itoa(f.products[0].ID)+`]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"favorites":[]`)
}
