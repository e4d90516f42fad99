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
	pathTagsAdd  = "/AdminTags/Add"
	pathTagsList = "/AdminTags/List"
	pathTagsEdit = "/AdminTags/Edit"
)

// tagStore is the slice of the tag repository the handlers use.
type tagStore interface {
	Add(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	Count(ctx context.Context) (int64, error)
	GetAll(ctx context.Context, params database.TagListParams) ([]models.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.Tag, error)
}

type tagHandler struct {
	responder Responder
	renderer  Renderer
	logger    zerolog.Logger
	tagRepo   tagStore
}

func newTagHandler(tagRepo tagStore, renderer Renderer) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		renderer:  renderer,
		logger:    logger,
		tagRepo:   tagRepo,
	}
}

func tagEditPath(id uuid.UUID) string {
	return pathTagsEdit + "/" + id.String()
}

// addTagForm renders an empty tag form
func (h tagHandler) addTagForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, http.StatusOK, viewTagsAdd, AddTagView{})
	}
}

// addTag creates a tag and returns to a cleared add form.
// Missing fields re-render the form with their messages.
func (h tagHandler) addTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddTagRequest
		if err := decodeRequest(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
			renderInvalid(w, r, h.renderer, h.responder, viewTagsAdd, AddTagView{AddTagRequest: req, Errors: fieldErrs}, fieldErrs)
			return
		}

		tag := tagFromAddRequest(req)
		if _, err := h.tagRepo.Add(r.Context(), &tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create tag", "tag", err))
			return
		}

		h.logger.Info().Str("tagID", tag.ID.String()).Str("name", tag.Name).Msg("tag added")
		h.responder.Redirect(w, r, pathTagsAdd)
	}
}

// listTags renders one page of tags.
// Page math uses the unfiltered row count even when a search narrows the results.
func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := database.TagListParams{
			SearchQuery:   q.Get("searchQuery"),
			SortBy:        q.Get("sortBy"),
			SortDirection: q.Get("sortDirection"),
			PageNumber:    queryInt(q, "pageNumber", defaultTagPageNumber),
			PageSize:      queryPositiveInt(q, "pageSize", defaultTagPageSize),
		}

		totalRecords, err := h.tagRepo.Count(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count tags", "tags", err))
			return
		}

		pages := totalPages(totalRecords, params.PageSize)
		params.PageNumber = clampPageNumber(params.PageNumber, pages)

		tags, err := h.tagRepo.GetAll(r.Context(), params)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}

		h.renderer.Render(w, r, http.StatusOK, viewTagsList, TagListView{
			Tags:          tags,
			TotalPages:    pages,
			SearchQuery:   params.SearchQuery,
			SortBy:        params.SortBy,
			SortDirection: params.SortDirection,
			PageNumber:    params.PageNumber,
			PageSize:      params.PageSize,
		})
	}
}

// editTagForm renders the edit form, or an empty view when the tag does not exist.
func (h tagHandler) editTagForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			h.renderer.Render(w, r, http.StatusOK, viewTagsEdit, nil)
			return
		}

		tag, err := h.tagRepo.Get(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tag", "tag", err))
			return
		}
		if tag == nil {
			h.renderer.Render(w, r, http.StatusOK, viewTagsEdit, nil)
			return
		}

		h.renderer.Render(w, r, http.StatusOK, viewTagsEdit, editTagRequestFromTag(*tag))
	}
}

// editTag overwrites the tag and returns to its edit form.
func (h tagHandler) editTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EditTagRequest
		if err := decodeRequest(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.ID = entityID(r, req.ID)

		tag := tagFromEditRequest(req)
		updated, err := h.tagRepo.Update(r.Context(), &tag)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update tag", "tag", err))
			return
		}

		// Both outcomes go back to the edit form; a missing tag shows as an empty view there.
		if updated != nil {
			h.logger.Info().Str("tagID", req.ID.String()).Msg("tag updated")
		} else {
			h.logger.Warn().Str("tagID", req.ID.String()).Msg("tag to update not found")
		}
		h.responder.Redirect(w, r, tagEditPath(req.ID))
	}
}

// deleteTag removes the tag, returning to the list, or to the edit form when it was not found.
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EditTagRequest
		if err := decodeRequest(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		req.ID = entityID(r, req.ID)

		deleted, err := h.tagRepo.Delete(r.Context(), req.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete tag", "tag", err))
			return
		}

		if deleted != nil {
			h.logger.Info().Str("tagID", req.ID.String()).Msg("tag deleted")
			h.responder.Redirect(w, r, pathTagsList)
			return
		}

		h.responder.Redirect(w, r, tagEditPath(req.ID))
	}
}
