package repository

import (
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(line *model.CartLine) error
	FindByUserID(userID uint) ([]model.CartLine, error)
	FindByUserAndLine(userID uint, lineID string) (*model.CartLine, error)
	Update(line *model.CartLine) error
	DeleteByLineID(userID uint, lineID string) error
	DeleteByUserID(userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(line *model.CartLine) error {
	logger.Debug("Creating cart line in database", map[string]interface{}{
		"user_id":  line.UserID,
		"line_id":  line.LineID,
		"quantity": line.Quantity,
	})

	if err := r.db.Create(line).Error; err != nil {
		logger.Error("Failed to create cart line in database", err, map[string]interface{}{
			"user_id": line.UserID,
			"line_id": line.LineID,
		})
		return err
	}

	logger.Debug("Cart line created in database", map[string]interface{}{
		"cart_line_id": line.ID,
		"user_id":      line.UserID,
		"line_id":      line.LineID,
	})
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) ([]model.CartLine, error) {
	logger.Debug("Finding cart lines by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var lines []model.CartLine
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		logger.Error("Failed to find cart lines by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart lines found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(lines),
	})
	return lines, nil
}

func (r *cartRepository) FindByUserAndLine(userID uint, lineID string) (*model.CartLine, error) {
	logger.Debug("Finding cart line by user and line ID in database", map[string]interface{}{
		"user_id": userID,
		"line_id": lineID,
	})

	var line model.CartLine
	err := r.db.Where("user_id = ? AND line_id = ?", userID, lineID).First(&line).Error
	if err != nil {
		logger.Error("Failed to find cart line by user and line ID in database", err, map[string]interface{}{
			"user_id": userID,
			"line_id": lineID,
		})
		return nil, err
	}

	return &line, nil
}

func (r *cartRepository) Update(line *model.CartLine) error {
	logger.Debug("Updating cart line in database", map[string]interface{}{
		"cart_line_id": line.ID,
		"user_id":      line.UserID,
		"line_id":      line.LineID,
		"quantity":     line.Quantity,
	})

	if err := r.db.Save(line).Error; err != nil {
		logger.Error("Failed to update cart line in database", err, map[string]interface{}{
			"cart_line_id": line.ID,
			"user_id":      line.UserID,
		})
		return err
	}

	logger.Debug("Cart line updated in database", map[string]interface{}{
		"cart_line_id": line.ID,
		"user_id":      line.UserID,
	})
	return nil
}

func (r *cartRepository) DeleteByLineID(userID uint, lineID string) error {
	logger.Debug("Deleting cart line from database", map[string]interface{}{
		"user_id": userID,
		"line_id": lineID,
	})

	if err := r.db.Where("user_id = ? AND line_id = ?", userID, lineID).Delete(&model.CartLine{}).Error; err != nil {
		logger.Error("Failed to delete cart line from database", err, map[string]interface{}{
			"user_id": userID,
			"line_id": lineID,
		})
		return err
	}

	logger.Debug("Cart line deleted from database", map[string]interface{}{
		"user_id": userID,
		"line_id": lineID,
	})
	return nil
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Deleting cart lines by user ID from database", map[string]interface{}{
		"user_id": userID,
	})

	if err := r.db.Where("user_id = ?", userID).Delete(&model.CartLine{}).Error; err != nil {
		logger.Error("Failed to delete cart lines by user ID from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Debug("Cart lines deleted by user ID from database", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
