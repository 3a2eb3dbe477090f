package repository

import (
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"gorm.io/gorm"
)

// PostFilter narrows FindAll. Zero values mean "no filter".
type PostFilter struct {
	TopicID       *uint
	PublishedOnly bool
	Tag           string
	Page          int
	Limit         int
}

type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id uint) (*model.Post, error)
	FindBySlug(slug string) (*model.Post, error)
	FindAll(filter PostFilter) ([]model.Post, int64, error)
	Update(post *model.Post) error
	Delete(id uint) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *model.Post) error {
	logger.Debug("Creating post in database", map[string]interface{}{
		"title": post.Title,
		"slug":  post.Slug,
	})

	if err := r.db.Create(post).Error; err != nil {
		logger.Error("Failed to create post in database", err, map[string]interface{}{
			"slug": post.Slug,
		})
		return err
	}

	logger.Debug("Post created in database", map[string]interface{}{
		"post_id": post.ID,
		"slug":    post.Slug,
	})
	return nil
}

func (r *postRepository) FindByID(id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("Topic").First(&post, id).Error; err != nil {
		logger.Error("Failed to find post by ID in database", err, map[string]interface{}{
			"post_id": id,
		})
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindBySlug(slug string) (*model.Post, error) {
	var post model.Post
	if err := r.db.Where("slug = ?", slug).Preload("Topic").First(&post).Error; err != nil {
		logger.Error("Failed to find post by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindAll(filter PostFilter) ([]model.Post, int64, error) {
	query := r.db.Model(&model.Post{})
	if filter.TopicID != nil {
		query = query.Where("topic_id = ?", *filter.TopicID)
	}
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Tag != "" {
		query = query.Where("? = ANY(tags)", filter.Tag)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count posts in database", err)
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		query = query.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var posts []model.Post
	err := query.Preload("Topic").Order("created_at DESC").Find(&posts).Error
	if err != nil {
		logger.Error("Failed to find posts in database", err)
		return nil, 0, err
	}

	logger.Debug("Posts found in database", map[string]interface{}{
		"count": len(posts),
		"total": total,
	})
	return posts, total, nil
}

func (r *postRepository) Update(post *model.Post) error {
	logger.Debug("Updating post in database", map[string]interface{}{
		"post_id": post.ID,
	})

	if err := r.db.Save(post).Error; err != nil {
		logger.Error("Failed to update post in database", err, map[string]interface{}{
			"post_id": post.ID,
		})
		return err
	}
	return nil
}

func (r *postRepository) Delete(id uint) error {
	logger.Debug("Deleting post from database", map[string]interface{}{
		"post_id": id,
	})

	if err := r.db.Delete(&model.Post{}, id).Error; err != nil {
		logger.Error("Failed to delete post from database", err, map[string]interface{}{
			"post_id": id,
		})
		return err
	}
	return nil
}
