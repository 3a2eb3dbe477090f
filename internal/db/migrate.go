package db

import (
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.ProductVariant{},
		&model.CartLine{},
		&model.Favorite{},
		&model.Topic{},
		&model.Post{},
		&model.Banner{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedTopics(); err != nil {
		logger.Error("Failed to seed topics", err)
		return err
	}

	if err := seedMenus(); err != nil {
		logger.Error("Failed to seed menus", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedTopics creates the default content topics the storefront links to.
func seedTopics() error {
	var count int64
	if err := DB.Model(&model.Topic{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Topics already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding topic data...")

	topics := []model.Topic{
		{Name: "Shop News", Slug: "news", Description: "Announcements and opening hours", Position: 1},
		{Name: "Recipes", Slug: "recipes", Description: "Baking recipes from our kitchen", Position: 2},
		{Name: "Behind the Oven", Slug: "behind-the-oven", Description: "Stories from the bakery", Position: 3},
	}

	for _, topic := range topics {
		if err := DB.Create(&topic).Error; err != nil {
			logger.Error("Failed to create topic", err, map[string]interface{}{
				"topic": topic.Name,
			})
			return err
		}
	}

	logger.Info("Topics seeded successfully", map[string]interface{}{
		"total_topics": len(topics),
	})
	return nil
}

// seedMenus creates the default header/footer navigation.
func seedMenus() error {
	var count int64
	if err := DB.Model(&model.MenuItem{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Menus already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding menu data...")

	items := []model.MenuItem{
		{Menu: "header", Label: "Shop", URL: "/products", Position: 1},
		{Menu: "header", Label: "Favorites", URL: "/favorites", Position: 2},
		{Menu: "header", Label: "News", URL: "/posts?topic=news", Position: 3},
		{Menu: "footer", Label: "About", URL: "/posts/about", Position: 1},
		{Menu: "footer", Label: "Contact", URL: "/posts/contact", Position: 2},
	}

	for _, item := range items {
		if err := DB.Create(&item).Error; err != nil {
			logger.Error("Failed to create menu item", err, map[string]interface{}{
				"label": item.Label,
			})
			return err
		}
	}

	logger.Info("Menus seeded successfully", map[string]interface{}{
		"total_items": len(items),
	})
	return nil
}
