package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogPost represents a complete blog post with metadata
type BlogPost struct {
	ID               uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Heading          string    `json:"heading" db:"heading" gorm:"type:text"`
	PageTitle        string    `json:"pageTitle" db:"page_title" gorm:"type:text"`
	Content          string    `json:"content" db:"content" gorm:"type:text"`
	ShortDescription string    `json:"shortDescription" db:"short_description" gorm:"type:text"`
	FeaturedImageURL string    `json:"featuredImageUrl" db:"featured_image_url" gorm:"column:featured_image_url;type:text"`
	URLHandle        string    `json:"urlHandle" db:"url_handle" gorm:"column:url_handle;type:text;index:idx_blog_post_url_handle"`
	PublishedDate    time.Time `json:"publishedDate" db:"published_date" gorm:"type:timestamp"`
	Author           string    `json:"author" db:"author" gorm:"type:text"`
	Visible          bool      `json:"visible" db:"visible" gorm:"not null;default:false"`
	Tags             []Tag     `json:"tags" gorm:"many2many:blog_post_tags;"`
}

func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
