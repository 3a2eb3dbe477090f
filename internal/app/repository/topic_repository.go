package repository

import (
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"gorm.io/gorm"
)

type TopicRepository interface {
	Create(topic *model.Topic) error
	FindByID(id uint) (*model.Topic, error)
	FindBySlug(slug string) (*model.Topic, error)
	FindAll() ([]model.Topic, error)
	Update(topic *model.Topic) error
	Delete(id uint) error
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(topic *model.Topic) error {
	if err := r.db.Create(topic).Error; err != nil {
		logger.Error("Failed to create topic in database", err, map[string]interface{}{
			"slug": topic.Slug,
		})
		return err
	}
	return nil
}

func (r *topicRepository) FindByID(id uint) (*model.Topic, error) {
	var topic model.Topic
	if err := r.db.First(&topic, id).Error; err != nil {
		logger.Error("Failed to find topic by ID in database", err, map[string]interface{}{
			"topic_id": id,
		})
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) FindBySlug(slug string) (*model.Topic, error) {
	var topic model.Topic
	if err := r.db.Where("slug = ?", slug).First(&topic).Error; err != nil {
		logger.Error("Failed to find topic by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) FindAll() ([]model.Topic, error) {
	var topics []model.Topic
	if err := r.db.Order("position ASC, id ASC").Find(&topics).Error; err != nil {
		logger.Error("Failed to find topics in database", err)
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) Update(topic *model.Topic) error {
	if err := r.db.Save(topic).Error; err != nil {
		logger.Error("Failed to update topic in database", err, map[string]interface{}{
			"topic_id": topic.ID,
		})
		return err
	}
	return nil
}

func (r *topicRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Topic{}, id).Error; err != nil {
		logger.Error("Failed to delete topic from database", err, map[string]interface{}{
			"topic_id": id,
		})
		return err
	}
	return nil
}
