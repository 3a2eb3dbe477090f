package repository

import (
	"time"

	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"gorm.io/gorm"
)

type BannerRepository interface {
	Create(banner *model.Banner) error
	FindByID(id uint) (*model.Banner, error)
	FindActive() ([]model.Banner, error)
	FindAll() ([]model.Banner, error)
	Update(banner *model.Banner) error
	Delete(id uint) error
	ActivateWindowed(now time.Time) (int64, error)
	DeactivateExpired(now time.Time) (int64, error)
}

type bannerRepository struct {
	db *gorm.DB
}

func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Create(banner *model.Banner) error {
	if err := r.db.Create(banner).Error; err != nil {
		logger.Error("Failed to create banner in database", err, map[string]interface{}{
			"title": banner.Title,
		})
		return err
	}
	return nil
}

func (r *bannerRepository) FindByID(id uint) (*model.Banner, error) {
	var banner model.Banner
	if err := r.db.First(&banner, id).Error; err != nil {
		logger.Error("Failed to find banner by ID in database", err, map[string]interface{}{
			"banner_id": id,
		})
		return nil, err
	}
	return &banner, nil
}

func (r *bannerRepository) FindActive() ([]model.Banner, error) {
	var banners []model.Banner
	err := r.db.Where("is_active = ?", true).
		Order("position ASC, id ASC").
		Find(&banners).Error
	if err != nil {
		logger.Error("Failed to find active banners in database", err)
		return nil, err
	}
	return banners, nil
}

func (r *bannerRepository) FindAll() ([]model.Banner, error) {
	var banners []model.Banner
	if err := r.db.Order("position ASC, id ASC").Find(&banners).Error; err != nil {
		logger.Error("Failed to find banners in database", err)
		return nil, err
	}
	return banners, nil
}

func (r *bannerRepository) Update(banner *model.Banner) error {
	if err := r.db.Save(banner).Error; err != nil {
		logger.Error("Failed to update banner in database", err, map[string]interface{}{
			"banner_id": banner.ID,
		})
		return err
	}
	return nil
}

func (r *bannerRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Banner{}, id).Error; err != nil {
		logger.Error("Failed to delete banner from database", err, map[string]interface{}{
			"banner_id": id,
		})
		return err
	}
	return nil
}

// ActivateWindowed flips on banners whose display window contains now.
func (r *bannerRepository) ActivateWindowed(now time.Time) (int64, error) {
	result := r.db.Model(&model.Banner{}).
		Where("is_active = ?", false).
		Where("starts_at IS NOT NULL AND starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at > ?", now).
		Update("is_active", true)
	if result.Error != nil {
		logger.Error("Failed to activate windowed banners", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeactivateExpired flips off banners whose window has closed.
func (r *bannerRepository) DeactivateExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Banner{}).
		Where("is_active = ?", true).
		Where("ends_at IS NOT NULL AND ends_at <= ?", now).
		Update("is_active", false)
	if result.Error != nil {
		logger.Error("Failed to deactivate expired banners", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
