package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is a label attachable to blog posts. Name is a short code, DisplayName the human label.
type Tag struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string    `json:"name" db:"name" gorm:"type:text;not null"`
	DisplayName string    `json:"displayName" db:"display_name" gorm:"type:text;not null"`

	BlogPosts []BlogPost `json:"-" gorm:"many2many:blog_post_tags;"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
