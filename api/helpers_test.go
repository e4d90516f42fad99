package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/bloggie/database"
	"github.com/rpupo63/bloggie/models"
	"github.com/stretchr/testify/require"
)

type renderCall struct {
	status int
	view   string
	model  any
}

// recordingRenderer captures what handlers render instead of executing templates.
type recordingRenderer struct {
	calls []renderCall
}

func (r *recordingRenderer) Render(w http.ResponseWriter, _ *http.Request, status int, view string, model any) {
	r.calls = append(r.calls, renderCall{status: status, view: view, model: model})
	w.WriteHeader(status)
}

func (r *recordingRenderer) last(t *testing.T) renderCall {
	t.Helper()
	require.NotEmpty(t, r.calls, "nothing was rendered")
	return r.calls[len(r.calls)-1]
}

// fakeTagStore keeps tags in memory. GetAll filters by name only and records its params.
type fakeTagStore struct {
	tags       []models.Tag
	lastParams *database.TagListParams
	err        error
}

func (s *fakeTagStore) seed(names ...string) []models.Tag {
	for _, name := range names {
		s.tags = append(s.tags, models.Tag{ID: uuid.New(), Name: name, DisplayName: strings.ToUpper(name)})
	}
	return s.tags
}

func (s *fakeTagStore) Add(_ context.Context, tag *models.Tag) (*models.Tag, error) {
	if s.err != nil {
		return nil, s.err
	}
	tag.ID = uuid.New()
	s.tags = append(s.tags, *tag)
	return tag, nil
}

func (s *fakeTagStore) Count(context.Context) (int64, error) {
	return int64(len(s.tags)), s.err
}

func (s *fakeTagStore) GetAll(_ context.Context, params database.TagListParams) ([]models.Tag, error) {
	s.lastParams = &params
	if s.err != nil {
		return nil, s.err
	}
	tags := []models.Tag{}
	for _, tag := range s.tags {
		if params.SearchQuery == "" || strings.Contains(tag.Name, params.SearchQuery) {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func (s *fakeTagStore) find(id uuid.UUID) int {
	for i, tag := range s.tags {
		if tag.ID == id {
			return i
		}
	}
	return -1
}

func (s *fakeTagStore) Get(_ context.Context, id uuid.UUID) (*models.Tag, error) {
	if s.err != nil {
		return nil, s.err
	}
	i := s.find(id)
	if i < 0 {
		return nil, nil
	}
	tag := s.tags[i]
	return &tag, nil
}

func (s *fakeTagStore) Update(_ context.Context, tag *models.Tag) (*models.Tag, error) {
	i := s.find(tag.ID)
	if i < 0 {
		return nil, nil
	}
	s.tags[i].Name = tag.Name
	s.tags[i].DisplayName = tag.DisplayName
	updated := s.tags[i]
	return &updated, nil
}

func (s *fakeTagStore) Delete(_ context.Context, id uuid.UUID) (*models.Tag, error) {
	i := s.find(id)
	if i < 0 {
		return nil, nil
	}
	deleted := s.tags[i]
	s.tags = append(s.tags[:i], s.tags[i+1:]...)
	return &deleted, nil
}

// fakeBlogPostStore keeps blog posts in memory.
type fakeBlogPostStore struct {
	posts []models.BlogPost
}

func (s *fakeBlogPostStore) Add(_ context.Context, blogPost *models.BlogPost) (*models.BlogPost, error) {
	blogPost.ID = uuid.New()
	s.posts = append(s.posts, *blogPost)
	return blogPost, nil
}

func (s *fakeBlogPostStore) GetAll(context.Context) ([]models.BlogPost, error) {
	return append([]models.BlogPost{}, s.posts...), nil
}

func (s *fakeBlogPostStore) find(id uuid.UUID) int {
	for i, post := range s.posts {
		if post.ID == id {
			return i
		}
	}
	return -1
}

func (s *fakeBlogPostStore) Get(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	i := s.find(id)
	if i < 0 {
		return nil, nil
	}
	post := s.posts[i]
	return &post, nil
}

func (s *fakeBlogPostStore) Update(_ context.Context, blogPost *models.BlogPost) (*models.BlogPost, error) {
	i := s.find(blogPost.ID)
	if i < 0 {
		return nil, nil
	}
	s.posts[i] = *blogPost
	updated := s.posts[i]
	return &updated, nil
}

func (s *fakeBlogPostStore) Delete(_ context.Context, id uuid.UUID) (*models.BlogPost, error) {
	i := s.find(id)
	if i < 0 {
		return nil, nil
	}
	deleted := s.posts[i]
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return &deleted, nil
}

var errStoreDown = errors.New("store unavailable")

func postForm(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
