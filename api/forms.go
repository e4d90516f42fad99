package api

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/bloggie/errs"
)

const maxFormBytes = 10 << 20

// formBinder is implemented by request models that can be filled from posted form values.
type formBinder interface {
	bindForm(form url.Values)
}

// decodeRequest fills dst from a JSON body or from form values, depending on Content-Type.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst formBinder) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(dst); err != nil {
			return errs.NewMalformedPayloadError("json", err)
		}
		return nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormBytes); err != nil {
			return errs.NewMalformedPayloadError("form", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return errs.NewMalformedPayloadError("form", err)
	}

	dst.bindForm(r.PostForm)
	return nil
}

// renderInvalid re-renders a form with its field errors. JSON clients get a 400 instead.
func renderInvalid(w http.ResponseWriter, r *http.Request, renderer Renderer, responder Responder, view string, model any, fieldErrs FieldErrors) {
	if wantsJSON(r) {
		responder.WriteError(w, fieldErrs.apiErr())
		return
	}
	renderer.Render(w, r, http.StatusOK, view, model)
}

// formBool reads a checkbox style value. Missing means false.
func formBool(form url.Values, key string) bool {
	v := strings.TrimSpace(form.Get(key))
	if strings.EqualFold(v, "on") {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

// entityID returns the id carried by the request body, falling back to the {id}
// route parameter. Unparseable ids become uuid.Nil, which matches no row.
func entityID(r *http.Request, bodyID uuid.UUID) uuid.UUID {
	if bodyID != uuid.Nil {
		return bodyID
	}
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// queryInt reads an integer query parameter as given. Missing or unparseable values
// return fallback.
func queryInt(q url.Values, key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil {
		return fallback
	}
	return v
}

// queryPositiveInt is queryInt that also rejects zero and negative values.
func queryPositiveInt(q url.Values, key string, fallback int) int {
	if v := queryInt(q, key, fallback); v > 0 {
		return v
	}
	return fallback
}

func (req *AddTagRequest) bindForm(form url.Values) {
	req.Name = form.Get("name")
	req.DisplayName = form.Get("displayName")
}

func (req *EditTagRequest) bindForm(form url.Values) {
	if id, err := uuid.Parse(form.Get("id")); err == nil {
		req.ID = id
	}
	req.Name = form.Get("name")
	req.DisplayName = form.Get("displayName")
}

func (req *AddBlogPostRequest) bindForm(form url.Values) {
	req.Heading = form.Get("heading")
	req.PageTitle = form.Get("pageTitle")
	req.Content = form.Get("content")
	req.ShortDescription = form.Get("shortDescription")
	req.FeaturedImageURL = form.Get("featuredImageUrl")
	req.URLHandle = form.Get("urlHandle")
	req.PublishedDate = form.Get("publishedDate")
	req.Author = form.Get("author")
	req.Visible = formBool(form, "visible")
	req.SelectedTags = form["selectedTags"]
}

func (req *EditBlogPostRequest) bindForm(form url.Values) {
	if id, err := uuid.Parse(form.Get("id")); err == nil {
		req.ID = id
	}
	req.AddBlogPostRequest.bindForm(form)
}

func (req *LoginRequest) bindForm(form url.Values) {
	req.Username = form.Get("username")
	req.Password = form.Get("password")
	req.ReturnURL = form.Get("returnUrl")
}

func (req *RegisterRequest) bindForm(form url.Values) {
	req.Username = form.Get("username")
	req.Email = form.Get("email")
	req.Password = form.Get("password")
}
