package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagRoutes(h tagHandler) http.Handler {
	r := chi.NewRouter()
	r.Get(pathTagsAdd, h.addTagForm())
	r.Post(pathTagsAdd, h.addTag())
	r.Get(pathTagsList, h.listTags())
	r.Get(pathTagsEdit+"/{id}", h.editTagForm())
	r.Post(pathTagsEdit, h.editTag())
	r.Post(pathTagsEdit+"/{id}", h.editTag())
	r.Post("/AdminTags/Delete", h.deleteTag())
	return r
}

func newTestTagHandler() (*fakeTagStore, *recordingRenderer, http.Handler) {
	store := &fakeTagStore{}
	renderer := &recordingRenderer{}
	return store, renderer, tagRoutes(newTagHandler(store, renderer))
}

func TestAddTag_RedirectsToEmptyForm(t *testing.T) {
	store, _, routes := newTestTagHandler()

	rec := postForm(t, routes, pathTagsAdd, url.Values{"name": {"go"}, "displayName": {"Go"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, pathTagsAdd, rec.Header().Get("Location"))
	require.Len(t, store.tags, 1)
	assert.Equal(t, "go", store.tags[0].Name)
	assert.Equal(t, "Go", store.tags[0].DisplayName)
}

func TestAddTag_InvalidReRendersWithMessages(t *testing.T) {
	store, renderer, routes := newTestTagHandler()

	rec := postForm(t, routes, pathTagsAdd, url.Values{"name": {"  "}, "displayName": {""}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.tags)

	call := renderer.last(t)
	assert.Equal(t, viewTagsAdd, call.view)
	view, ok := call.model.(AddTagView)
	require.True(t, ok)
	assert.Equal(t, "Name is required.", view.Errors["name"])
	assert.Equal(t, "Display Name is required.", view.Errors["displayName"])
}

func TestAddTag_StoreFailure(t *testing.T) {
	store, _, routes := newTestTagHandler()
	store.err = errStoreDown

	rec := postForm(t, routes, pathTagsAdd, url.Values{"name": {"go"}, "displayName": {"Go"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to create tag tag")
	assert.NotContains(t, rec.Body.String(), errStoreDown.Error())
}

func TestAddTag_InvalidJSONClientGetsBadRequest(t *testing.T) {
	store, renderer, routes := newTestTagHandler()

	req := httptest.NewRequest(http.MethodPost, pathTagsAdd, strings.NewReader(`{"name":"go"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.tags)
	assert.Empty(t, renderer.calls)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "displayName", body.Field)
	assert.Equal(t, "Display Name is required.", body.Details)
	assert.Equal(t, "bad request: missing required field: Display Name is required.", body.Error)
}

func TestListTags_Paging(t *testing.T) {
	tests := []struct {
		name           string
		stored         int
		query          string
		wantPageNumber int
		wantPageSize   int
		wantTotalPages int
	}{
		{name: "defaults", stored: 7, query: "", wantPageNumber: 1, wantPageSize: 3, wantTotalPages: 3},
		{name: "page past the end steps back once", stored: 7, query: "?pageNumber=5&pageSize=3", wantPageNumber: 4, wantPageSize: 3, wantTotalPages: 3},
		{name: "last page is kept", stored: 7, query: "?pageNumber=3&pageSize=3", wantPageNumber: 3, wantPageSize: 3, wantTotalPages: 3},
		{name: "empty table", stored: 0, query: "?pageNumber=1", wantPageNumber: 1, wantPageSize: 3, wantTotalPages: 0},
		{name: "page zero steps forward once", stored: 7, query: "?pageNumber=0&pageSize=-2", wantPageNumber: 1, wantPageSize: 3, wantTotalPages: 3},
		{name: "negative page steps forward only once", stored: 7, query: "?pageNumber=-3&pageSize=3", wantPageNumber: -2, wantPageSize: 3, wantTotalPages: 3},
		{name: "garbage values use the defaults", stored: 7, query: "?pageNumber=abc&pageSize=x", wantPageNumber: 1, wantPageSize: 3, wantTotalPages: 3},
		{name: "larger page size", stored: 7, query: "?pageSize=5&pageNumber=2", wantPageNumber: 2, wantPageSize: 5, wantTotalPages: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, renderer, routes := newTestTagHandler()
			for i := 0; i < tt.stored; i++ {
				store.seed("tag")
			}

			rec := get(t, routes, pathTagsList+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)

			require.NotNil(t, store.lastParams)
			assert.Equal(t, tt.wantPageNumber, store.lastParams.PageNumber)
			assert.Equal(t, tt.wantPageSize, store.lastParams.PageSize)

			view, ok := renderer.last(t).model.(TagListView)
			require.True(t, ok)
			assert.Equal(t, tt.wantTotalPages, view.TotalPages)
			assert.Equal(t, tt.wantPageNumber, view.PageNumber)
		})
	}
}

func TestListTags_SearchUsesUnfilteredCount(t *testing.T) {
	store, renderer, routes := newTestTagHandler()
	store.seed("go", "rust", "zig", "c", "java", "kotlin", "scala")

	rec := get(t, routes, pathTagsList+"?searchQuery=go&sortBy=name&sortDirection=desc")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "go", store.lastParams.SearchQuery)
	assert.Equal(t, "name", store.lastParams.SortBy)
	assert.Equal(t, "desc", store.lastParams.SortDirection)

	view := renderer.last(t).model.(TagListView)
	assert.Len(t, view.Tags, 1)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, "go", view.SearchQuery)
}

func TestEditTagForm(t *testing.T) {
	store, renderer, routes := newTestTagHandler()
	tag := store.seed("go")[0]

	rec := get(t, routes, tagEditPath(tag.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	call := renderer.last(t)
	assert.Equal(t, viewTagsEdit, call.view)
	assert.Equal(t, EditTagRequest{ID: tag.ID, Name: "go", DisplayName: "GO"}, call.model)
}

func TestEditTagForm_MissingRendersEmptyView(t *testing.T) {
	_, renderer, routes := newTestTagHandler()

	for _, path := range []string{tagEditPath(uuid.New()), pathTagsEdit + "/not-a-uuid"} {
		rec := get(t, routes, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		call := renderer.last(t)
		assert.Equal(t, viewTagsEdit, call.view)
		assert.Nil(t, call.model)
	}
}

func TestEditTag(t *testing.T) {
	store, _, routes := newTestTagHandler()
	tag := store.seed("go")[0]

	rec := postForm(t, routes, pathTagsEdit, url.Values{
		"id":          {tag.ID.String()},
		"name":        {"golang"},
		"displayName": {"Golang"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, tagEditPath(tag.ID), rec.Header().Get("Location"))
	assert.Equal(t, "golang", store.tags[0].Name)
	assert.Equal(t, "Golang", store.tags[0].DisplayName)
}

func TestEditTag_IDFromRoute(t *testing.T) {
	store, _, routes := newTestTagHandler()
	tag := store.seed("go")[0]

	rec := postForm(t, routes, tagEditPath(tag.ID), url.Values{"name": {"gopher"}, "displayName": {"Gopher"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "gopher", store.tags[0].Name)
}

func TestEditTag_MissingRedirectsToEditForm(t *testing.T) {
	store, _, routes := newTestTagHandler()
	store.seed("go")
	missing := uuid.New()

	rec := postForm(t, routes, pathTagsEdit, url.Values{"id": {missing.String()}, "name": {"x"}, "displayName": {"X"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, tagEditPath(missing), rec.Header().Get("Location"))
	assert.Equal(t, "go", store.tags[0].Name)
}

func TestDeleteTag(t *testing.T) {
	store, _, routes := newTestTagHandler()
	tag := store.seed("go", "rust")[0]

	rec := postForm(t, routes, "/AdminTags/Delete", url.Values{"id": {tag.ID.String()}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, pathTagsList, rec.Header().Get("Location"))
	require.Len(t, store.tags, 1)
	assert.Equal(t, "rust", store.tags[0].Name)
}

func TestDeleteTag_MissingRedirectsToEditForm(t *testing.T) {
	store, _, routes := newTestTagHandler()
	store.seed("go")
	missing := uuid.New()

	rec := postForm(t, routes, "/AdminTags/Delete", url.Values{"id": {missing.String()}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, tagEditPath(missing), rec.Header().Get("Location"))
	assert.Len(t, store.tags, 1)
}
