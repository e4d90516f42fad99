package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/bloggie/database"
	"github.com/rpupo63/bloggie/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	pathBlogPostsAdd  = "/AdminBlogPosts/Add"
	pathBlogPostsList = "/AdminBlogPosts/List"
	pathBlogPostsEdit = "/AdminBlogPosts/Edit"
)

// blogPostStore is the slice of the blog post repository the handlers use.
type blogPostStore interface {
	Add(ctx context.Context, blogPost *models.BlogPost) (*models.BlogPost, error)
	GetAll(ctx context.Context) ([]models.BlogPost, error)
	Get(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	Update(ctx context.Context, blogPost *models.BlogPost) (*models.BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
}

type blogPostHandler struct {
	responder    Responder
	renderer     Renderer
	logger       zerolog.Logger
	blogPostRepo blogPostStore
	tagRepo      tagStore
}

func newBlogPostHandler(blogPostRepo blogPostStore, tagRepo tagStore, renderer Renderer) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder:    NewResponder(logger),
		renderer:     renderer,
		logger:       logger,
		blogPostRepo: blogPostRepo,
		tagRepo:      tagRepo,
	}
}

func blogPostEditPath(id uuid.UUID) string {
	return pathBlogPostsEdit + "/" + id.String()
}

// allTags loads every tag for the selectable list. There is no paging here.
func (h blogPostHandler) allTags(ctx context.Context) ([]models.Tag, error) {
	return h.tagRepo.GetAll(ctx, database.TagListParams{PageSize: database.Unpaged})
}

// resolveTags looks up each submitted id. Ids that do not parse or match no tag are dropped.
func (h blogPostHandler) resolveTags(ctx context.Context, rawIDs []string) ([]models.Tag, error) {
	tags := []models.Tag{}
	for _, id := range parseTagIDs(rawIDs) {
		tag, err := h.tagRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if tag != nil {
			tags = append(tags, *tag)
		}
	}
	return tags, nil
}

// addBlogPostForm renders an empty blog post form with every tag selectable
func (h blogPostHandler) addBlogPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.allTags(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}

		h.renderer.Render(w, r, http.StatusOK, viewBlogPostsAdd, AddBlogPostRequest{
			Tags: tagSelectList(tags, nil),
		})
	}
}

// addBlogPost creates a blog post with the selected tags and returns to a cleared add form
func (h blogPostHandler) addBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddBlogPostRequest
		if err := decodeRequest(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		blogPost := blogPostFromAddRequest(req)

		tags, err := h.resolveTags(r.Context(), req.SelectedTags)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}
		blogPost.Tags = tags

		if _, err := h.blogPostRepo.Add(r.Context(), &blogPost); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create blog post", "blog_post", err))
			return
		}

		h.logger.Info().
			Str("blogPostID", blogPost.ID.String()).
			Int("tags", len(blogPost.Tags)).
			Msg("blog post added")
		h.responder.Redirect(w, r, pathBlogPostsAdd)
	}
}

// listBlogPosts renders every blog post with its tags
func (h blogPostHandler) listBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPosts, err := h.blogPostRepo.GetAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog posts", "blog_posts", err))
			return
		}

		h.renderer.Render(w, r, http.StatusOK, viewBlogPostsList, blogPosts)
	}
}

// editBlogPostForm renders the edit form, or an empty view when the post does not exist
func (h blogPostHandler) editBlogPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			h.renderer.Render(w, r, http.StatusOK, viewBlogPostsEdit, nil)
			return
		}

		blogPost, err := h.blogPostRepo.Get(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find blog post", "blog_post", err))
			return
		}
		if blogPost == nil {
			h.renderer.Render(w, r, http.StatusOK, viewBlogPostsEdit, nil)
			return
		}

		tags, err := h.allTags(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}

		h.renderer.Render(w, r, http.StatusOK, viewBlogPostsEdit, editBlogPostRequestFromBlogPost(*blogPost, tags))
	}
}

// editBlogPost overwrites the post, replaces its tag set and returns to its edit form
func (h blogPostHandler) editBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EditBlogPostRequest
		if err := decodeRequest(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.ID = entityID(r, req.ID)

		blogPost := blogPostFromEditRequest(req)

		tags, err := h.resolveTags(r.Context(), req.SelectedTags)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}
		blogPost.Tags = tags

		updated, err := h.blogPostRepo.Update(r.Context(), &blogPost)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update blog post", "blog_post", err))
			return
		}

		if updated != nil {
			h.logger.Info().Str("blogPostID", req.ID.String()).Msg("blog post updated")
		} else {
			h.logger.Warn().Str("blogPostID", req.ID.String()).Msg("blog post to update not found")
		}
		h.responder.Redirect(w, r, blogPostEditPath(req.ID))
	}
}

// deleteBlogPost removes the post, returning to the list, or to the edit form when it was not found
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EditBlogPostRequest
		if err := decodeRequest(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.ID = entityID(r, req.ID)

		deleted, err := h.blogPostRepo.Delete(r.Context(), req.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete blog post", "blog_post", err))
			return
		}

		if deleted != nil {
			h.logger.Info().Str("blogPostID", req.ID.String()).Msg("blog post deleted")
			h.responder.Redirect(w, r, pathBlogPostsList)
			return
		}

		h.responder.Redirect(w, r, blogPostEditPath(req.ID))
	}
}
