package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/service"
	apperrors "github.com/ovenlab/bakehouse-backend/internal/errors"
	"github.com/ovenlab/bakehouse-backend/internal/middleware"
)

// CartController serves the storefront cart API. Every success body carries
// the full cart under "items" so the client can replace its state wholesale.
type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID  *uint         `json:"product_id"`
	VariantID  *uint         `json:"variant_id"`
	Quantity   int           `json:"quantity" binding:"required"`
	Attributes model.JSONMap `json:"attributes"`
	LineID     string        `json:"line_id"`
}

type UpdateCartRequest struct {
	LineID   string `json:"line_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// GetCart returns the user's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	items, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

// AddToCart adds a line to the cart, merging quantity into an existing line
// with the same derived line id
// POST /api/v1/cart/add
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid cart data")
		return
	}

	items, err := ctrl.cartService.AddToCart(userID, service.AddLineInput{
		ProductID:  req.ProductID,
		VariantID:  req.VariantID,
		Quantity:   req.Quantity,
		Attributes: req.Attributes,
		LineID:     req.LineID,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found for cart add", map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.NotFound(c, apperrors.ProductNotFound, "product not found")
			return
		}
		if errors.Is(err, service.ErrVariantNotFound) || errors.Is(err, service.ErrVariantMismatch) {
			apperrors.NotFound(c, apperrors.ProductVariantNotFound, "product variant not found")
			return
		}
		log.Error("Failed to add to cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add to cart")
		return
	}

	log.Info("Cart line added", map[string]interface{}{
		"user_id":    userID,
		"line_count": len(items),
	})

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

// UpdateQuantity sets the quantity of a cart line. An unknown line id is a
// no-op that still returns the current cart.
// PUT /api/v1/cart/update
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid cart data")
		return
	}

	items, err := ctrl.cartService.UpdateQuantity(userID, req.LineID, req.Quantity)
	if err != nil {
		log.Error("Failed to update cart quantity", err, map[string]interface{}{
			"user_id": userID,
			"line_id": req.LineID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

// RemoveLine removes a cart line; removing a missing line succeeds
// DELETE /api/v1/cart/items/:line_id
func (ctrl *CartController) RemoveLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	lineID := c.Param("line_id")
	if lineID == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "line id is required")
		return
	}

	items, err := ctrl.cartService.RemoveLine(userID, lineID)
	if err != nil {
		log.Error("Failed to remove cart line", err, map[string]interface{}{
			"user_id": userID,
			"line_id": lineID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove cart line")
		return
	}

	log.Info("Cart line removed", map[string]interface{}{
		"user_id": userID,
		"line_id": lineID,
	})

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

// ClearCart empties the cart
// POST /api/v1/cart/clear
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		log.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "clear cart")
		return
	}

	log.Info("Cart cleared", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"items": []model.CartLine{},
	})
}
