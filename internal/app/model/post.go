package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Post is an editorial content page (recipes, shop news) shown on the
// storefront and managed from the back-office.
type Post struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	TopicID     *uint          `gorm:"index" json:"topic_id,omitempty"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt     string         `gorm:"type:text" json:"excerpt"`
	Body        string         `gorm:"type:text" json:"body"`
	ImageURL    string         `json:"image_url"`
	Tags        pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"tags"`
	Published   bool           `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Topic *Topic `gorm:"foreignKey:TopicID" json:"topic,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

// Topic groups posts into storefront sections.
type Topic struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description string         `gorm:"type:text" json:"description"`
	Position    int            `gorm:"default:0" json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Posts []Post `gorm:"foreignKey:TopicID" json:"posts,omitempty"`
}

func (Topic) TableName() string {
	return "topics"
}
