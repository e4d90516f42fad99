package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/bloggie/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlogPost(heading string, tags ...models.Tag) models.BlogPost {
	return models.BlogPost{
		Heading:          heading,
		PageTitle:        heading + " | Bloggie",
		Content:          "<p>" + heading + "</p>",
		ShortDescription: "About " + heading,
		FeaturedImageURL: "https://images.example.com/" + heading + ".png",
		URLHandle:        heading,
		PublishedDate:    time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Author:           "ana",
		Visible:          true,
		Tags:             tags,
	}
}

func TestBlogPostRepo_AddWithTags(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogPostRepo(db)
	ctx := context.Background()
	tags := addTags(t, NewTagRepo(db), "go", "rust")

	post := newBlogPost("first", tags...)
	added, err := repo.Add(ctx, &post)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, added.ID)

	got, err := repo.Get(ctx, added.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Heading)
	assert.Equal(t, "first | Bloggie", got.PageTitle)
	assert.Equal(t, "ana", got.Author)
	assert.True(t, got.Visible)
	assert.True(t, post.PublishedDate.Equal(got.PublishedDate))
	assert.ElementsMatch(t, []string{"go", "rust"}, tagNames(got.Tags))
}

func TestBlogPostRepo_AddDoesNotTouchTags(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogPostRepo(db)
	tagRepo := NewTagRepo(db)
	ctx := context.Background()
	tag := addTags(t, tagRepo, "go")[0]

	// A stale copy of the tag must only be linked, never written back.
	stale := tag
	stale.DisplayName = "Changed"
	post := newBlogPost("first", stale)
	_, err := repo.Add(ctx, &post)
	require.NoError(t, err)

	got, err := tagRepo.Get(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Display go", got.DisplayName)
}

func TestBlogPostRepo_GetAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogPostRepo(db)
	ctx := context.Background()
	tags := addTags(t, NewTagRepo(db), "go")

	for _, post := range []models.BlogPost{newBlogPost("tagged", tags...), newBlogPost("untagged")} {
		_, err := repo.Add(ctx, &post)
		require.NoError(t, err)
	}

	posts, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	byHeading := map[string]models.BlogPost{}
	for _, post := range posts {
		byHeading[post.Heading] = post
	}
	assert.Equal(t, []string{"go"}, tagNames(byHeading["tagged"].Tags))
	assert.Empty(t, byHeading["untagged"].Tags)
}

func TestBlogPostRepo_GetMissingReturnsNil(t *testing.T) {
	repo := NewBlogPostRepo(newTestDB(t))

	got, err := repo.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBlogPostRepo_UpdateReplacesFieldsAndTags(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogPostRepo(db)
	ctx := context.Background()
	tags := addTags(t, NewTagRepo(db), "go", "rust", "zig")

	post := newBlogPost("first", tags[0], tags[1])
	_, err := repo.Add(ctx, &post)
	require.NoError(t, err)

	changed := newBlogPost("second", tags[2])
	changed.ID = post.ID
	changed.Visible = false
	updated, err := repo.Update(ctx, &changed)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, []string{"zig"}, tagNames(updated.Tags))

	got, err := repo.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Heading)
	assert.Equal(t, "second", got.URLHandle)
	assert.False(t, got.Visible)
	assert.Equal(t, []string{"zig"}, tagNames(got.Tags))
	assert.Equal(t, int64(1), countJoinRows(t, db))
}

func TestBlogPostRepo_UpdateWithNoTagsClearsLinks(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogPostRepo(db)
	ctx := context.Background()
	tags := addTags(t, NewTagRepo(db), "go", "rust")

	post := newBlogPost("first", tags...)
	_, err := repo.Add(ctx, &post)
	require.NoError(t, err)

	changed := newBlogPost("first")
	changed.ID = post.ID
	_, err = repo.Update(ctx, &changed)
	require.NoError(t, err)

	got, err := repo.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.Zero(t, countJoinRows(t, db))

	// The tags themselves survive.
	count, err := NewTagRepo(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBlogPostRepo_UpdateMissingReturnsNil(t *testing.T) {
	repo := NewBlogPostRepo(newTestDB(t))

	post := newBlogPost("ghost")
	post.ID = uuid.New()
	updated, err := repo.Update(context.Background(), &post)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestBlogPostRepo_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogPostRepo(db)
	ctx := context.Background()
	tags := addTags(t, NewTagRepo(db), "go", "rust")

	post := newBlogPost("first", tags...)
	_, err := repo.Add(ctx, &post)
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "first", deleted.Heading)

	got, err := repo.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, countJoinRows(t, db))

	count, err := NewTagRepo(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBlogPostRepo_DeleteMissingReturnsNil(t *testing.T) {
	repo := NewBlogPostRepo(newTestDB(t))

	deleted, err := repo.Delete(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, deleted)
}
