package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/internal/app/service"
	"github.com/ovenlab/bakehouse-backend/internal/db"
	"github.com/ovenlab/bakehouse-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// authAs stubs the auth middleware with a fixed user.
func authAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

type cartControllerFixture struct {
	db       *gorm.DB
	router   *gin.Engine
	user     model.User
	product  model.Product
	notified []uint
}

func setupCartControllerTest(t *testing.T) *cartControllerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	fixture := &cartControllerFixture{db: database}

	fixture.user = model.User{Email: "customer@example.com", PasswordHash: "x", Name: "Customer"}
	require.NoError(t, database.Create(&fixture.user).Error)

	fixture.product = model.Product{
		Name:          "Sourdough Loaf",
		Slug:          "sourdough-loaf",
		Price:         6.50,
		Category:      model.CategoryBread,
		StockQuantity: 20,
		IsActive:      true,
	}
	require.NoError(t, database.Create(&fixture.product).Error)

	cartRepo := repository.NewCartRepository(database)
	productRepo := repository.NewProductRepository(database)
	cartService := service.NewCartService(cartRepo, productRepo, func(userID uint) {
		fixture.notified = append(fixture.notified, userID)
	})
	ctrl := NewCartController(cartService)

	router := gin.New()
	mount := func(group *gin.RouterGroup) {
		group.GET("", ctrl.GetCart)
		group.POST("/add", ctrl.AddToCart)
		group.PUT("/update", ctrl.UpdateQuantity)
		group.DELETE("/items/:line_id", ctrl.RemoveLine)
		group.POST("/clear", ctrl.ClearCart)
	}
	mount(router.Group("/api/v1/cart", authAs(fixture.user.ID)))
	// Legacy aliases served by the same handlers.
	mount(router.Group("/api/cart", authAs(fixture.user.ID)))
	mount(router.Group("/cart", authAs(fixture.user.ID)))

	fixture.router = router
	return fixture
}

type cartBody struct {
	Items []model.CartLine `json:"items"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCartController_AddToCart(t *testing.T) {
	f := setupCartControllerTest(t)

	w := doJSON(t, f.router, "POST", "/api/v1/cart/add",
		`{"product_id": `+itoa(f.product.ID)+`, "quantity": 2}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body cartBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "p"+itoa(f.product.ID), body.Items[0].LineID)
	assert.Equal(t, 2, body.Items[0].Quantity)
	assert.Len(t, f.notified, 1)
}

func TestCartController_AddToCart_MergesSameLine(t *testing.T) {
	f := setupCartControllerTest(t)

	payload := `{"product_id": ` + itoa(f.product.ID) + `, "quantity": 2}`
	doJSON(t, f.router, "POST", "/api/v1/cart/add", payload)
	w := doJSON(t, f.router, "POST", "/api/v1/cart/add", payload)

	require.Equal(t, http.StatusOK, w.Code)

	var body cartBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, 4, body.Items[0].Quantity)
}

func TestCartController_AddToCart_UnknownProduct(t *testing.T) {
	f := setupCartControllerTest(t)

	w := doJSON(t, f.router, "POST", "/api/v1/cart/add",
		`{"product_id": 9999, "quantity": 1}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")
}

func TestCartController_AddToCart_CustomLineWithAttributes(t *testing.T) {
	f := setupCartControllerTest(t)

	w := doJSON(t, f.router, "POST", "/api/v1/cart/add",
		`{"quantity": 1, "attributes": {"name": "Wedding Cake", "price": 120, "message": "Congratulations"}}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body cartBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.NotEmpty(t, body.Items[0].LineID)
	assert.Equal(t, "Congratulations", body.Items[0].Attributes["message"])
}

func TestCartController_UpdateQuantity(t *testing.T) {
	f := setupCartControllerTest(t)

	doJSON(t, f.router, "POST", "/api/v1/cart/add",
		`{"product_id": `+itoa(f.product.ID)+`, "quantity": 2}`)

	w := doJSON(t, f.router, "PUT", "/api/v1/cart/update",
		`{"line_id": "p`+itoa(f.product.ID)+`", "quantity": 5}`)

	require.Equal(t, http.StatusOK, w.Code)

	var body cartBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, 5, body.Items[0].Quantity)
}

func TestCartController_UpdateQuantity_MissingLineIsNoop(t *testing.T) {
	f := setupCartControllerTest(t)

	doJSON(t, f.router, "POST", "/api/v1/cart/add",
		`{"product_id": `+itoa(f.product.ID)+`, "quantity": 2}`)

	w := doJSON(t, f.router, "PUT", "/api/v1/cart/update",
		`{"line_id": "p424242", "quantity": 9}`)

	// The cart comes back unchanged instead of an error.
	require.Equal(t, http.StatusOK, w.Code)

	var body cartBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, 2, body.Items[0].Quantity)
}

func TestCartController_RemoveLine_Idempotent(t *testing.T) {
	f := setupCartControllerTest(t)

	doJSON(t, f.router, "POST", "/api/v1/cart/add",
		`{"product_id": `+itoa(f.product.ID)+`, "quantity": 2}`)

	lineID := "p" + itoa(f.product.ID)

	w := doJSON(t, f.router, "DELETE", "/api/v1/cart/items/"+lineID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body cartBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Items)

	// Removing again still succeeds.
	w = doJSON(t, f.router, "DELETE", "/api/v1/cart/items/"+lineID, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartController_ClearCart(t *testing.T) {
	f := setupCartControllerTest(t)

	doJSON(t, f.router, "POST", "/api/v1/cart/add",
		`{"product_id": `+itoa(f.product.ID)+`, "quantity": 2}`)

	w := doJSON(t, f.router, "POST", "/api/v1/cart/clear", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)

	w = doJSON(t, f.router, "GET", "/api/v1/cart", "")
	var body cartBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Items)
}

func TestCartController_LegacyAliases(t *testing.T) {
	f := setupCartControllerTest(t)

	payload := `{"product_id": ` + itoa(f.product.ID) + `, "quantity": 1}`

	for _, path := range []string{"/api/v1/cart/add", "/api/cart/add", "/cart/add"} {
		w := doJSON(t, f.router, "POST", path, payload)
		assert.Equal(t, http.StatusOK, w.Code, "alias %s", path)
		assert.Contains(t, w.Body.String(), `"items"`)
	}

	// Three adds through three aliases merged into one line.
	w := doJSON(t, f.router, "GET", "/cart", "")
	var body cartBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, 3, body.Items[0].Quantity)
}

func TestCartController_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	cartRepo := repository.NewCartRepository(database)
	productRepo := repository.NewProductRepository(database)
	ctrl := NewCartController(service.NewCartService(cartRepo, productRepo, nil))

	router := gin.New()
	router.GET("/api/v1/cart", ctrl.GetCart)

	w := doJSON(t, router, "GET", "/api/v1/cart", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
