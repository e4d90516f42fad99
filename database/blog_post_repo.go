package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/bloggie/models"
	"gorm.io/gorm"
)

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// GetAll returns all blog posts with their tags
func (r *BlogPostRepo) GetAll(ctx context.Context) ([]models.BlogPost, error) {
	blogPosts := []models.BlogPost{}
	if err := r.db.WithContext(ctx).Preload("Tags").Find(&blogPosts).Error; err != nil {
		return nil, fmt.Errorf("find blog posts: %w", err)
	}
	return blogPosts, nil
}

// Get returns a blog post with its tags, or nil when there is none
func (r *BlogPostRepo) Get(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var blogPost models.BlogPost
	err := r.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&blogPost).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog post %s: %w", id, err)
	}
	return &blogPost, nil
}

// Add inserts a new blog post together with its tag links
func (r *BlogPostRepo) Add(ctx context.Context, blogPost *models.BlogPost) (*models.BlogPost, error) {
	// Tags already exist; only the join rows are written.
	err := r.db.WithContext(ctx).
		Omit("Tags.*").
		Create(blogPost).Error
	if err != nil {
		return nil, fmt.Errorf("create blog post: %w", err)
	}
	return blogPost, nil
}

// Update overwrites every field of the stored post and replaces its tag set.
// It returns nil when no such post exists.
func (r *BlogPostRepo) Update(ctx context.Context, blogPost *models.BlogPost) (*models.BlogPost, error) {
	existing, err := r.Get(ctx, blogPost.ID)
	if err != nil || existing == nil {
		return nil, err
	}

	existing.Heading = blogPost.Heading
	existing.PageTitle = blogPost.PageTitle
	existing.Content = blogPost.Content
	existing.ShortDescription = blogPost.ShortDescription
	existing.FeaturedImageURL = blogPost.FeaturedImageURL
	existing.URLHandle = blogPost.URLHandle
	existing.PublishedDate = blogPost.PublishedDate
	existing.Author = blogPost.Author
	existing.Visible = blogPost.Visible

	db := r.db.WithContext(ctx)
	if err := db.Omit("Tags").Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update blog post %s: %w", blogPost.ID, err)
	}

	association := db.Model(existing).Omit("Tags.*").Association("Tags")
	if len(blogPost.Tags) == 0 {
		err = association.Clear()
	} else {
		err = association.Replace(blogPost.Tags)
	}
	if err != nil {
		return nil, fmt.Errorf("replace tags of blog post %s: %w", blogPost.ID, err)
	}
	existing.Tags = append([]models.Tag{}, blogPost.Tags...)

	return existing, nil
}

// Delete removes the blog post and its tag links, returning the removed post.
// It returns nil when no such post exists.
func (r *BlogPostRepo) Delete(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	existing, err := r.Get(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Select("Tags").Delete(existing).Error; err != nil {
		return nil, fmt.Errorf("delete blog post %s: %w", id, err)
	}
	return existing, nil
}
