package service

import (
	"errors"
	"time"

	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrTopicNotFound  = errors.New("topic not found")
	ErrBannerNotFound = errors.New("banner not found")
	ErrMenuNotFound   = errors.New("menu item not found")
)

type PostListOptions struct {
	TopicSlug     string
	Tag           string
	PublishedOnly bool
	Page          int
	Limit         int
}

// ContentService serves the editorial surface: posts, topics, banners
// and navigation menus.
type ContentService interface {
	ListPosts(opts PostListOptions) ([]model.Post, int64, error)
	GetPostBySlug(slug string) (*model.Post, error)
	CreatePost(post *model.Post) error
	UpdatePost(post *model.Post) error
	DeletePost(id uint) error

	ListTopics() ([]model.Topic, error)
	CreateTopic(topic *model.Topic) error
	UpdateTopic(topic *model.Topic) error
	DeleteTopic(id uint) error

	ListActiveBanners() ([]model.Banner, error)
	ListAllBanners() ([]model.Banner, error)
	CreateBanner(banner *model.Banner) error
	UpdateBanner(banner *model.Banner) error
	DeleteBanner(id uint) error

	GetMenu(menu string, activeOnly bool) ([]model.MenuItem, error)
	CreateMenuItem(item *model.MenuItem) error
	UpdateMenuItem(item *model.MenuItem) error
	DeleteMenuItem(id uint) error
}

type contentService struct {
	postRepo   repository.PostRepository
	topicRepo  repository.TopicRepository
	bannerRepo repository.BannerRepository
	menuRepo   repository.MenuRepository
}

func NewContentService(
	postRepo repository.PostRepository,
	topicRepo repository.TopicRepository,
	bannerRepo repository.BannerRepository,
	menuRepo repository.MenuRepository,
) ContentService {
	return &contentService{
		postRepo:   postRepo,
		topicRepo:  topicRepo,
		bannerRepo: bannerRepo,
		menuRepo:   menuRepo,
	}
}

func (s *contentService) ListPosts(opts PostListOptions) ([]model.Post, int64, error) {
	logger.Debug("Listing posts", map[string]interface{}{
		"topic": opts.TopicSlug,
		"tag":   opts.Tag,
		"page":  opts.Page,
		"limit": opts.Limit,
	})

	filter := repository.PostFilter{
		PublishedOnly: opts.PublishedOnly,
		Tag:           opts.Tag,
		Page:          opts.Page,
		Limit:         opts.Limit,
	}

	if opts.TopicSlug != "" {
		topic, err := s.topicRepo.FindBySlug(opts.TopicSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrTopicNotFound
			}
			return nil, 0, err
		}
		filter.TopicID = &topic.ID
	}

	posts, total, err := s.postRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to list posts", err)
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *contentService) GetPostBySlug(slug string) (*model.Post, error) {
	post, err := s.postRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Post not found", map[string]interface{}{
				"slug": slug,
			})
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *contentService) CreatePost(post *model.Post) error {
	if post.Published && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	logger.Info("Creating post", map[string]interface{}{
		"title": post.Title,
		"slug":  post.Slug,
	})
	return s.postRepo.Create(post)
}

func (s *contentService) UpdatePost(post *model.Post) error {
	existing, err := s.postRepo.FindByID(post.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	// First publish stamps the timestamp once.
	if post.Published && !existing.Published && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	logger.Info("Updating post", map[string]interface{}{
		"post_id": post.ID,
	})
	return s.postRepo.Update(post)
}

func (s *contentService) DeletePost(id uint) error {
	if _, err := s.postRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return s.postRepo.Delete(id)
}

func (s *contentService) ListTopics() ([]model.Topic, error) {
	return s.topicRepo.FindAll()
}

func (s *contentService) CreateTopic(topic *model.Topic) error {
	logger.Info("Creating topic", map[string]interface{}{
		"name": topic.Name,
		"slug": topic.Slug,
	})
	return s.topicRepo.Create(topic)
}

func (s *contentService) UpdateTopic(topic *model.Topic) error {
	if _, err := s.topicRepo.FindByID(topic.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return err
	}
	return s.topicRepo.Update(topic)
}

func (s *contentService) DeleteTopic(id uint) error {
	if _, err := s.topicRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return err
	}
	return s.topicRepo.Delete(id)
}

func (s *contentService) ListActiveBanners() ([]model.Banner, error) {
	return s.bannerRepo.FindActive()
}

func (s *contentService) ListAllBanners() ([]model.Banner, error) {
	return s.bannerRepo.FindAll()
}

func (s *contentService) CreateBanner(banner *model.Banner) error {
	// A banner with no start time and no explicit state goes live at once.
	if banner.StartsAt == nil && banner.EndsAt == nil {
		banner.IsActive = true
	}

	logger.Info("Creating banner", map[string]interface{}{
		"title": banner.Title,
	})
	return s.bannerRepo.Create(banner)
}

func (s *contentService) UpdateBanner(banner *model.Banner) error {
	if _, err := s.bannerRepo.FindByID(banner.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBannerNotFound
		}
		return err
	}
	return s.bannerRepo.Update(banner)
}

func (s *contentService) DeleteBanner(id uint) error {
	if _, err := s.bannerRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBannerNotFound
		}
		return err
	}
	return s.bannerRepo.Delete(id)
}

func (s *contentService) GetMenu(menu string, activeOnly bool) ([]model.MenuItem, error) {
	return s.menuRepo.FindByMenu(menu, activeOnly)
}

func (s *contentService) CreateMenuItem(item *model.MenuItem) error {
	logger.Info("Creating menu item", map[string]interface{}{
		"menu":  item.Menu,
		"label": item.Label,
	})
	return s.menuRepo.Create(item)
}

func (s *contentService) UpdateMenuItem(item *model.MenuItem) error {
	if _, err := s.menuRepo.FindByID(item.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuNotFound
		}
		return err
	}
	return s.menuRepo.Update(item)
}

func (s *contentService) DeleteMenuItem(id uint) error {
	if _, err := s.menuRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuNotFound
		}
		return err
	}
	return s.menuRepo.Delete(id)
}
