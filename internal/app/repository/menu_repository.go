package repository

import (
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"gorm.io/gorm"
)

type MenuRepository interface {
	Create(item *model.MenuItem) error
	FindByID(id uint) (*model.MenuItem, error)
	FindByMenu(menu string, activeOnly bool) ([]model.MenuItem, error)
	Update(item *model.MenuItem) error
	Delete(id uint) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(item *model.MenuItem) error {
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create menu item in database", err, map[string]interface{}{
			"menu":  item.Menu,
			"label": item.Label,
		})
		return err
	}
	return nil
}

func (r *menuRepository) FindByID(id uint) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.First(&item, id).Error; err != nil {
		logger.Error("Failed to find menu item by ID in database", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return nil, err
	}
	return &item, nil
}

// FindByMenu returns top-level items of a menu with children preloaded.
func (r *menuRepository) FindByMenu(menu string, activeOnly bool) ([]model.MenuItem, error) {
	query := r.db.Where("menu = ? AND parent_id IS NULL", menu)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var items []model.MenuItem
	err := query.
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			if activeOnly {
				db = db.Where("is_active = ?", true)
			}
			return db.Order("position ASC, id ASC")
		}).
		Order("position ASC, id ASC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find menu items in database", err, map[string]interface{}{
			"menu": menu,
		})
		return nil, err
	}
	return items, nil
}

func (r *menuRepository) Update(item *model.MenuItem) error {
	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update menu item in database", err, map[string]interface{}{
			"menu_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *menuRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.MenuItem{}, id).Error; err != nil {
		logger.Error("Failed to delete menu item from database", err, map[string]interface{}{
			"menu_item_id": id,
		})
		return err
	}
	return nil
}
