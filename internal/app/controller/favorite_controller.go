package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ovenlab/bakehouse-backend/internal/app/service"
	apperrors "github.com/ovenlab/bakehouse-backend/internal/errors"
	"github.com/ovenlab/bakehouse-backend/internal/middleware"
)

type FavoriteController struct {
	favoriteService service.FavoriteService
}

func NewFavoriteController(favoriteService service.FavoriteService) *FavoriteController {
	return &FavoriteController{
		favoriteService: favoriteService,
	}
}

type ToggleFavoriteRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

type CheckFavoritesRequest struct {
	ProductIDs []uint `json:"product_ids"`
}

// GetFavorites returns the user's favorites with embedded products
// GET /api/v1/favorites
func (ctrl *FavoriteController) GetFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	favorites, total, err := ctrl.favoriteService.GetUserFavorites(userID, page, limit)
	if err != nil {
		log.Error("Failed to fetch favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        favorites,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": totalPages(total, limit),
	})
}

// ToggleFavorite flips favorite state for a product and returns the result
// POST /api/v1/favorites/toggle
func (ctrl *FavoriteController) ToggleFavorite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	var req ToggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid toggle favorite request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "product_id is required")
		return
	}

	isFavorite, err := ctrl.favoriteService.ToggleFavorite(userID, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found for favorite toggle", map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.NotFound(c, apperrors.ProductNotFound, "product not found")
			return
		}
		log.Error("Failed to toggle favorite", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "toggle favorite")
		return
	}

	log.Info("Favorite toggled", map[string]interface{}{
		"user_id":     userID,
		"product_id":  req.ProductID,
		"is_favorite": isFavorite,
	})

	c.JSON(http.StatusOK, gin.H{
		"is_favorite": isFavorite,
	})
}

// CheckFavorites returns which of the given product ids the user favorited.
// An empty id list checks all of the user's favorites.
// POST /api/v1/favorites/check
func (ctrl *FavoriteController) CheckFavorites(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	var req CheckFavoritesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid check favorites request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request data")
		return
	}

	favorited, err := ctrl.favoriteService.CheckFavorites(userID, req.ProductIDs)
	if err != nil {
		log.Error("Failed to check favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "check favorites")
		return
	}

	if favorited == nil {
		favorited = []uint{}
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": favorited,
	})
}
