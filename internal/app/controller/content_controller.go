package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/service"
	apperrors "github.com/ovenlab/bakehouse-backend/internal/errors"
	"github.com/ovenlab/bakehouse-backend/internal/middleware"
)

// ContentController serves the editorial surface: posts, topics, banners
// and navigation menus. Reads are public, writes are admin-only.
type ContentController struct {
	contentService service.ContentService
}

func NewContentController(contentService service.ContentService) *ContentController {
	return &ContentController{
		contentService: contentService,
	}
}

type PostRequest struct {
	TopicID   *uint    `json:"topic_id"`
	Title     string   `json:"title" binding:"required"`
	Slug      string   `json:"slug" binding:"required"`
	Excerpt   string   `json:"excerpt"`
	Body      string   `json:"body"`
	ImageURL  string   `json:"image_url"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

type TopicRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type BannerRequest struct {
	Title    string     `json:"title" binding:"required"`
	ImageURL string     `json:"image_url" binding:"required"`
	LinkURL  string     `json:"link_url"`
	Position int        `json:"position"`
	IsActive bool       `json:"is_active"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

type MenuItemRequest struct {
	Menu     string `json:"menu" binding:"required"`
	ParentID *uint  `json:"parent_id"`
	Label    string `json:"label" binding:"required"`
	URL      string `json:"url" binding:"required"`
	Position int    `json:"position"`
	IsActive *bool  `json:"is_active"`
}

// ==================== Posts ====================

// ListPosts returns published posts with optional topic/tag filters
// GET /api/v1/posts
func (ctrl *ContentController) ListPosts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	posts, total, err := ctrl.contentService.ListPosts(service.PostListOptions{
		TopicSlug:     c.Query("topic"),
		Tag:           c.Query("tag"),
		PublishedOnly: true,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			apperrors.NotFound(c, apperrors.TopicNotFound, "topic not found")
			return
		}
		log.Error("Failed to list posts", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       posts,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"total_pages": totalPages(total, limit),
	})
}

// GetPost returns a post by slug
// GET /api/v1/posts/:slug
func (ctrl *ContentController) GetPost(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	slug := c.Param("slug")

	post, err := ctrl.contentService.GetPostBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			apperrors.NotFound(c, apperrors.PostNotFound, "post not found")
			return
		}
		log.Error("Failed to get post", err, map[string]interface{}{
			"slug": slug,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post": post,
	})
}

// CreatePost creates a post (Admin only)
// POST /api/v1/admin/posts
func (ctrl *ContentController) CreatePost(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create post request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid post data")
		return
	}

	post := &model.Post{
		TopicID:   req.TopicID,
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		Tags:      pq.StringArray(req.Tags),
		Published: req.Published,
	}

	if err := ctrl.contentService.CreatePost(post); err != nil {
		log.Error("Failed to create post", err, map[string]interface{}{
			"slug": req.Slug,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create post")
		return
	}

	log.Info("Post created", map[string]interface{}{
		"post_id": post.ID,
		"slug":    post.Slug,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

// UpdatePost updates a post (Admin only)
// PUT /api/v1/admin/posts/:id
func (ctrl *ContentController) UpdatePost(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid post id")
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid post data")
		return
	}

	post := &model.Post{
		ID:        uint(id),
		TopicID:   req.TopicID,
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		Tags:      pq.StringArray(req.Tags),
		Published: req.Published,
	}

	if err := ctrl.contentService.UpdatePost(post); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			apperrors.NotFound(c, apperrors.PostNotFound, "post not found")
			return
		}
		log.Error("Failed to update post", err, map[string]interface{}{
			"post_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// DeletePost deletes a post (Admin only)
// DELETE /api/v1/admin/posts/:id
func (ctrl *ContentController) DeletePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid post id")
		return
	}

	if err := ctrl.contentService.DeletePost(uint(id)); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			apperrors.NotFound(c, apperrors.PostNotFound, "post not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted successfully",
	})
}

// ==================== Topics ====================

// ListTopics returns all topics ordered by position
// GET /api/v1/topics
func (ctrl *ContentController) ListTopics(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	topics, err := ctrl.contentService.ListTopics()
	if err != nil {
		log.Error("Failed to list topics", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list topics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topics": topics,
	})
}

// CreateTopic creates a topic (Admin only)
// POST /api/v1/admin/topics
func (ctrl *ContentController) CreateTopic(c *gin.Context) {
	var req TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid topic data")
		return
	}

	topic := &model.Topic{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Position:    req.Position,
	}

	if err := ctrl.contentService.CreateTopic(topic); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create topic")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Topic created successfully",
		"topic":   topic,
	})
}

// UpdateTopic updates a topic (Admin only)
// PUT /api/v1/admin/topics/:id
func (ctrl *ContentController) UpdateTopic(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid topic id")
		return
	}

	var req TopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid topic data")
		return
	}

	topic := &model.Topic{
		ID:          uint(id),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Position:    req.Position,
	}

	if err := ctrl.contentService.UpdateTopic(topic); err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			apperrors.NotFound(c, apperrors.TopicNotFound, "topic not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update topic")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Topic updated successfully",
		"topic":   topic,
	})
}

// DeleteTopic deletes a topic (Admin only)
// DELETE /api/v1/admin/topics/:id
func (ctrl *ContentController) DeleteTopic(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid topic id")
		return
	}

	if err := ctrl.contentService.DeleteTopic(uint(id)); err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			apperrors.NotFound(c, apperrors.TopicNotFound, "topic not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete topic")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Topic deleted successfully",
	})
}

// ==================== Banners ====================

// ListBanners returns banners currently visible on the storefront
// GET /api/v1/banners
func (ctrl *ContentController) ListBanners(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	banners, err := ctrl.contentService.ListActiveBanners()
	if err != nil {
		log.Error("Failed to list banners", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list banners")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"banners": banners,
	})
}

// ListAllBanners returns every banner including inactive ones (Admin only)
// GET /api/v1/admin/banners
func (ctrl *ContentController) ListAllBanners(c *gin.Context) {
	banners, err := ctrl.contentService.ListAllBanners()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list banners")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"banners": banners,
	})
}

// CreateBanner creates a banner (Admin only)
// POST /api/v1/admin/banners
func (ctrl *ContentController) CreateBanner(c *gin.Context) {
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid banner data")
		return
	}

	banner := &model.Banner{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		IsActive: req.IsActive,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}

	if err := ctrl.contentService.CreateBanner(banner); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create banner")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Banner created successfully",
		"banner":  banner,
	})
}

// UpdateBanner updates a banner (Admin only)
// PUT /api/v1/admin/banners/:id
func (ctrl *ContentController) UpdateBanner(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid banner id")
		return
	}

	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid banner data")
		return
	}

	banner := &model.Banner{
		ID:       uint(id),
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		IsActive: req.IsActive,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}

	if err := ctrl.contentService.UpdateBanner(banner); err != nil {
		if errors.Is(err, service.ErrBannerNotFound) {
			apperrors.NotFound(c, apperrors.BannerNotFound, "banner not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update banner")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Banner updated successfully",
		"banner":  banner,
	})
}

// DeleteBanner deletes a banner (Admin only)
// DELETE /api/v1/admin/banners/:id
func (ctrl *ContentController) DeleteBanner(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid banner id")
		return
	}

	if err := ctrl.contentService.DeleteBanner(uint(id)); err != nil {
		if errors.Is(err, service.ErrBannerNotFound) {
			apperrors.NotFound(c, apperrors.BannerNotFound, "banner not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete banner")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Banner deleted successfully",
	})
}

// ==================== Menus ====================

// GetMenu returns the active items of a named navigation menu
// GET /api/v1/menus/:menu
func (ctrl *ContentController) GetMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	menu := c.Param("menu")

	items, err := ctrl.contentService.GetMenu(menu, true)
	if err != nil {
		log.Error("Failed to get menu", err, map[string]interface{}{
			"menu": menu,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"menu":  menu,
		"items": items,
	})
}

// CreateMenuItem creates a navigation menu item (Admin only)
// POST /api/v1/admin/menus
func (ctrl *ContentController) CreateMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid menu item data")
		return
	}

	item := &model.MenuItem{
		Menu:     req.Menu,
		ParentID: req.ParentID,
		Label:    req.Label,
		URL:      req.URL,
		Position: req.Position,
		IsActive: true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := ctrl.contentService.CreateMenuItem(item); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create menu item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Menu item created successfully",
		"item":    item,
	})
}

// UpdateMenuItem updates a navigation menu item (Admin only)
// PUT /api/v1/admin/menus/:id
func (ctrl *ContentController) UpdateMenuItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid menu item id")
		return
	}

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid menu item data")
		return
	}

	item := &model.MenuItem{
		ID:       uint(id),
		Menu:     req.Menu,
		ParentID: req.ParentID,
		Label:    req.Label,
		URL:      req.URL,
		Position: req.Position,
		IsActive: true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := ctrl.contentService.UpdateMenuItem(item); err != nil {
		if errors.Is(err, service.ErrMenuNotFound) {
			apperrors.NotFound(c, apperrors.MenuNotFound, "menu item not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item updated successfully",
		"item":    item,
	})
}

// DeleteMenuItem deletes a navigation menu item (Admin only)
// DELETE /api/v1/admin/menus/:id
func (ctrl *ContentController) DeleteMenuItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid menu item id")
		return
	}

	if err := ctrl.contentService.DeleteMenuItem(uint(id)); err != nil {
		if errors.Is(err, service.ErrMenuNotFound) {
			apperrors.NotFound(c, apperrors.MenuNotFound, "menu item not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item deleted successfully",
	})
}
