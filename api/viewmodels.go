package api

import (
	"maps"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/bloggie/auth"
	"github.com/rpupo63/bloggie/errs"
	"github.com/rpupo63/bloggie/models"
	"github.com/rpupo63/bloggie/util"
)

// publishedDateLayout is the value format of an HTML datetime-local input.
const publishedDateLayout = "2006-01-02T15:04"

// FieldErrors maps a request field to its validation message.
type FieldErrors map[string]string

// apiErr reports the first field, in name order, as a bad request.
func (fe FieldErrors) apiErr() *errs.ApiErr {
	fields := slices.Sorted(maps.Keys(fe))
	if len(fields) == 0 {
		return errs.NewBadRequestError("", "invalid request")
	}
	field := fields[0]
	if strings.HasSuffix(fe[field], "is required.") {
		return errs.NewMissingRequiredFieldError(field, fe[field])
	}
	return errs.NewBadRequestError(field, fe[field])
}

// SelectListItem is one option of a multi-select input.
type SelectListItem struct {
	Text     string `json:"text"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// Tags

type AddTagRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

func (req AddTagRequest) Validate() FieldErrors {
	fieldErrs := FieldErrors{}
	if strings.TrimSpace(req.Name) == "" {
		fieldErrs["name"] = "Name is required."
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		fieldErrs["displayName"] = "Display Name is required."
	}
	return fieldErrs
}

type EditTagRequest struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
}

// AddTagView is the model of the tag add form.
type AddTagView struct {
	AddTagRequest
	Errors FieldErrors `json:"errors,omitempty"`
}

// TagListView is the model of the tag list, including the paging and sort state.
type TagListView struct {
	Tags          []models.Tag `json:"tags"`
	TotalPages    int          `json:"totalPages"`
	SearchQuery   string       `json:"searchQuery"`
	SortBy        string       `json:"sortBy"`
	SortDirection string       `json:"sortDirection"`
	PageNumber    int          `json:"pageNumber"`
	PageSize      int          `json:"pageSize"`
}

func tagFromAddRequest(req AddTagRequest) models.Tag {
	return models.Tag{
		Name:        req.Name,
		DisplayName: req.DisplayName,
	}
}

func tagFromEditRequest(req EditTagRequest) models.Tag {
	return models.Tag{
		ID:          req.ID,
		Name:        req.Name,
		DisplayName: req.DisplayName,
	}
}

func editTagRequestFromTag(tag models.Tag) EditTagRequest {
	return EditTagRequest{
		ID:          tag.ID,
		Name:        tag.Name,
		DisplayName: tag.DisplayName,
	}
}

// tagSelectList lists every tag as an option, marking the ids in selected.
func tagSelectList(tags []models.Tag, selected []string) []SelectListItem {
	isSelected := make(map[string]bool, len(selected))
	for _, id := range selected {
		isSelected[id] = true
	}

	items := make([]SelectListItem, 0, len(tags))
	for _, tag := range tags {
		value := tag.ID.String()
		items = append(items, SelectListItem{
			Text:     tag.Name,
			Value:    value,
			Selected: isSelected[value],
		})
	}
	return items
}

// Blog posts

type AddBlogPostRequest struct {
	Heading          string           `json:"heading"`
	PageTitle        string           `json:"pageTitle"`
	Content          string           `json:"content"`
	ShortDescription string           `json:"shortDescription"`
	FeaturedImageURL string           `json:"featuredImageUrl"`
	URLHandle        string           `json:"urlHandle"`
	PublishedDate    string           `json:"publishedDate"`
	Author           string           `json:"author"`
	Visible          bool             `json:"visible"`
	Tags             []SelectListItem `json:"tags,omitempty"`
	SelectedTags     []string         `json:"selectedTags"`
}

type EditBlogPostRequest struct {
	ID uuid.UUID `json:"id"`
	AddBlogPostRequest
}

// parsePublishedDate accepts RFC 3339, datetime-local and plain dates.
// Anything else yields the zero time.
func parsePublishedDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, publishedDateLayout, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatPublishedDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(publishedDateLayout)
}

// blogPostFromAddRequest maps every field except the tag set, which needs store lookups.
// A blank URL handle is derived from the heading.
func blogPostFromAddRequest(req AddBlogPostRequest) models.BlogPost {
	urlHandle := strings.TrimSpace(req.URLHandle)
	if urlHandle == "" {
		urlHandle = util.Slugify(req.Heading)
	}

	return models.BlogPost{
		Heading:          req.Heading,
		PageTitle:        req.PageTitle,
		Content:          req.Content,
		ShortDescription: req.ShortDescription,
		FeaturedImageURL: req.FeaturedImageURL,
		URLHandle:        urlHandle,
		PublishedDate:    parsePublishedDate(req.PublishedDate),
		Author:           req.Author,
		Visible:          req.Visible,
	}
}

func blogPostFromEditRequest(req EditBlogPostRequest) models.BlogPost {
	blogPost := blogPostFromAddRequest(req.AddBlogPostRequest)
	blogPost.ID = req.ID
	return blogPost
}

func editBlogPostRequestFromBlogPost(blogPost models.BlogPost, allTags []models.Tag) EditBlogPostRequest {
	selected := make([]string, 0, len(blogPost.Tags))
	for _, tag := range blogPost.Tags {
		selected = append(selected, tag.ID.String())
	}

	return EditBlogPostRequest{
		ID: blogPost.ID,
		AddBlogPostRequest: AddBlogPostRequest{
			Heading:          blogPost.Heading,
			PageTitle:        blogPost.PageTitle,
			Content:          blogPost.Content,
			ShortDescription: blogPost.ShortDescription,
			FeaturedImageURL: blogPost.FeaturedImageURL,
			URLHandle:        blogPost.URLHandle,
			PublishedDate:    formatPublishedDate(blogPost.PublishedDate),
			Author:           blogPost.Author,
			Visible:          blogPost.Visible,
			Tags:             tagSelectList(allTags, selected),
			SelectedTags:     selected,
		},
	}
}

// parseTagIDs keeps the ids that parse as UUIDs, in order.
func parseTagIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Accounts

type LoginRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	ReturnURL string `json:"returnUrl"`
}

func (req LoginRequest) Validate() FieldErrors {
	fieldErrs := FieldErrors{}
	if strings.TrimSpace(req.Username) == "" {
		fieldErrs["username"] = "Username is required."
	}
	if req.Password == "" {
		fieldErrs["password"] = "Password is required."
	} else if len(req.Password) < auth.MinPasswordLength {
		fieldErrs["password"] = "Password has to be at least 6 characters"
	}
	return fieldErrs
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req RegisterRequest) Validate() FieldErrors {
	fieldErrs := FieldErrors{}
	if strings.TrimSpace(req.Username) == "" {
		fieldErrs["username"] = "Username is required."
	}
	if strings.TrimSpace(req.Email) == "" {
		fieldErrs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		fieldErrs["email"] = "Invalid email address."
	}
	if req.Password == "" {
		fieldErrs["password"] = "Password is required."
	} else if len(req.Password) < auth.MinPasswordLength {
		fieldErrs["password"] = "Password has to be at least 6 characters"
	}
	return fieldErrs
}

// LoginView is the model of the login form. The password is never echoed back.
type LoginView struct {
	Username  string      `json:"username"`
	ReturnURL string      `json:"returnUrl"`
	Errors    FieldErrors `json:"errors,omitempty"`
}

type RegisterView struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Errors   FieldErrors `json:"errors,omitempty"`
}

func principalFromUser(user models.User) auth.Principal {
	return auth.Principal{
		UserID:   user.ID,
		UserName: user.UserName,
		Roles:    user.RoleNames(),
	}
}
