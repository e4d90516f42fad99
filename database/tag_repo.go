package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/bloggie/models"
	"gorm.io/gorm"
)

// Defaults applied by GetAll when the caller leaves paging unset.
const (
	DefaultTagPageNumber = 1
	DefaultTagPageSize   = 100

	// Unpaged as PageSize returns every matching row.
	Unpaged = -1
)

// TagListParams selects a page of tags. Zero PageNumber and PageSize take the defaults.
type TagListParams struct {
	SearchQuery   string
	SortBy        string
	SortDirection string
	PageNumber    int
	PageSize      int
}

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// Add inserts a new tag. Duplicate names are allowed.
func (r *TagRepo) Add(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// Count returns the number of rows in the tags table. It never applies a search filter.
func (r *TagRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Tag{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return count, nil
}

// GetAll returns one page of tags matching params.
func (r *TagRepo) GetAll(ctx context.Context, params TagListParams) ([]models.Tag, error) {
	if params.PageNumber == 0 {
		params.PageNumber = DefaultTagPageNumber
	}
	if params.PageSize == 0 {
		params.PageSize = DefaultTagPageSize
	}

	query := newTagQuery().
		Search(params.SearchQuery).
		Sort(params.SortBy, params.SortDirection)
	if params.PageSize != Unpaged {
		query = query.Page(params.PageNumber, params.PageSize)
	}

	tags := []models.Tag{}
	if err := query.apply(r.db.WithContext(ctx).Model(&models.Tag{})).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	return tags, nil
}

// Get returns the tag with id, or nil when there is none.
func (r *TagRepo) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag %s: %w", id, err)
	}
	return &tag, nil
}

// Update overwrites name and display name of the stored tag with tag.ID.
// It returns nil when no such tag exists.
func (r *TagRepo) Update(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	existing, err := r.Get(ctx, tag.ID)
	if err != nil || existing == nil {
		return nil, err
	}

	existing.Name = tag.Name
	existing.DisplayName = tag.DisplayName

	if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update tag %s: %w", tag.ID, err)
	}
	return existing, nil
}

// Delete removes the tag and its blog post links, returning the removed row.
// It returns nil when no such tag exists.
func (r *TagRepo) Delete(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	existing, err := r.Get(ctx, id)
	if err != nil || existing == nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Select("BlogPosts").Delete(existing).Error; err != nil {
		return nil, fmt.Errorf("delete tag %s: %w", id, err)
	}
	return existing, nil
}
