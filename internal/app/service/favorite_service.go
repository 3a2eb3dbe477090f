package service

import (
	"errors"

	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"gorm.io/gorm"
)

type FavoriteService interface {
	GetUserFavorites(userID uint, page, limit int) ([]model.Favorite, int64, error)
	ToggleFavorite(userID, productID uint) (bool, error)
	CheckFavorites(userID uint, productIDs []uint) ([]uint, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	productRepo repository.ProductRepository,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

func (s *favoriteService) GetUserFavorites(userID uint, page, limit int) ([]model.Favorite, int64, error) {
	logger.Debug("Fetching user favorites", map[string]interface{}{
		"user_id": userID,
		"page":    page,
		"limit":   limit,
	})

	favorites, total, err := s.favoriteRepo.FindByUserID(userID, page, limit)
	if err != nil {
		logger.Error("Failed to fetch user favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	logger.Info("User favorites fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(favorites),
		"total":   total,
	})
	return favorites, total, nil
}

// ToggleFavorite flips the favorite state for (userID, productID) and
// returns the resulting state: true when the product is now favorited.
func (s *favoriteService) ToggleFavorite(userID, productID uint) (bool, error) {
	logger.Info("Toggling favorite", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot toggle favorite: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return false, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, err
	}

	existing, err := s.favoriteRepo.FindByUserAndProduct(userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing favorite", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, err
	}

	if existing != nil {
		if err := s.favoriteRepo.Delete(userID, productID); err != nil {
			logger.Error("Failed to delete favorite", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			return false, err
		}
		logger.Info("Favorite removed", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, nil
	}

	favorite := &model.Favorite{
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		logger.Error("Failed to create favorite", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return false, err
	}

	logger.Info("Favorite added", map[string]interface{}{
		"favorite_id": favorite.ID,
		"user_id":     userID,
		"product_id":  productID,
	})
	return true, nil
}

// CheckFavorites returns the subset of productIDs the user has favorited.
// An empty productIDs slice checks the whole favorites set.
func (s *favoriteService) CheckFavorites(userID uint, productIDs []uint) ([]uint, error) {
	logger.Debug("Checking favorites", map[string]interface{}{
		"user_id": userID,
		"count":   len(productIDs),
	})

	ids, err := s.favoriteRepo.FindProductIDsByUser(userID, productIDs)
	if err != nil {
		logger.Error("Failed to check favorites", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return ids, nil
}
