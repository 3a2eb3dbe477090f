package repository

import (
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(favorite *model.Favorite) error
	FindByUserID(userID uint, page, limit int) ([]model.Favorite, int64, error)
	FindByUserAndProduct(userID, productID uint) (*model.Favorite, error)
	FindProductIDsByUser(userID uint, productIDs []uint) ([]uint, error)
	Delete(userID, productID uint) error
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(favorite *model.Favorite) error {
	logger.Debug("Creating favorite in database", map[string]interface{}{
		"user_id":    favorite.UserID,
		"product_id": favorite.ProductID,
	})

	if err := r.db.Create(favorite).Error; err != nil {
		logger.Error("Failed to create favorite in database", err, map[string]interface{}{
			"user_id":    favorite.UserID,
			"product_id": favorite.ProductID,
		})
		return err
	}

	logger.Debug("Favorite created in database", map[string]interface{}{
		"favorite_id": favorite.ID,
		"user_id":     favorite.UserID,
		"product_id":  favorite.ProductID,
	})
	return nil
}

func (r *favoriteRepository) FindByUserID(userID uint, page, limit int) ([]model.Favorite, int64, error) {
	logger.Debug("Finding favorites by user ID in database", map[string]interface{}{
		"user_id": userID,
		"page":    page,
		"limit":   limit,
	})

	query := r.db.Model(&model.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count favorites in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}

	var favorites []model.Favorite
	err := query.Preload("Product").Order("created_at DESC").Find(&favorites).Error
	if err != nil {
		logger.Error("Failed to find favorites by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	logger.Debug("Favorites found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(favorites),
		"total":   total,
	})
	return favorites, total, nil
}

func (r *favoriteRepository) FindByUserAndProduct(userID, productID uint) (*model.Favorite, error) {
	logger.Debug("Finding favorite by user and product in database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	var favorite model.Favorite
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).First(&favorite).Error
	if err != nil {
		logger.Error("Failed to find favorite by user and product in database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, err
	}

	return &favorite, nil
}

// FindProductIDsByUser returns the subset of productIDs the user has favorited.
func (r *favoriteRepository) FindProductIDsByUser(userID uint, productIDs []uint) ([]uint, error) {
	logger.Debug("Finding favorited product IDs in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(productIDs),
	})

	query := r.db.Model(&model.Favorite{}).Where("user_id = ?", userID)
	if len(productIDs) > 0 {
		query = query.Where("product_id IN ?", productIDs)
	}

	var ids []uint
	if err := query.Pluck("product_id", &ids).Error; err != nil {
		logger.Error("Failed to find favorited product IDs in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return ids, nil
}

func (r *favoriteRepository) Delete(userID, productID uint) error {
	logger.Debug("Deleting favorite from database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&model.Favorite{}).Error; err != nil {
		logger.Error("Failed to delete favorite from database", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return err
	}

	logger.Debug("Favorite deleted from database", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}
