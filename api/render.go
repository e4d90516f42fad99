package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rpupo63/bloggie/auth"
	"github.com/rs/zerolog"
)

//go:embed templates
var templatesFS embed.FS

// View names known to the renderer.
const (
	viewTagsAdd          = "tags/add"
	viewTagsList         = "tags/list"
	viewTagsEdit         = "tags/edit"
	viewBlogPostsAdd     = "blogposts/add"
	viewBlogPostsList    = "blogposts/list"
	viewBlogPostsEdit    = "blogposts/edit"
	viewAccountsLogin    = "accounts/login"
	viewAccountsRegister = "accounts/register"
	viewAccountsDenied   = "accounts/access_denied"
)

// Renderer hands a model to a view. The handlers know nothing else about presentation.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, view string, model any)
}

// viewData is what every HTML template receives.
type viewData struct {
	Principal *auth.Principal
	Model     any
}

// viewRenderer renders HTML templates, or the bare model as JSON when the client asks for it.
type viewRenderer struct {
	templates map[string]*template.Template
	responder Responder
	logger    zerolog.Logger
}

func newViewRenderer(logger zerolog.Logger) (*viewRenderer, error) {
	templates, err := parseTemplates(templatesFS)
	if err != nil {
		return nil, err
	}
	return &viewRenderer{
		templates: templates,
		responder: NewResponder(logger),
		logger:    logger,
	}, nil
}

func parseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	policy := bluemonday.UGCPolicy()
	funcs := template.FuncMap{
		// sanitizeHTML lets rich post content through with unsafe markup stripped.
		"sanitizeHTML": func(s string) template.HTML {
			return template.HTML(policy.Sanitize(s))
		},
		"add": func(a, b int) int { return a + b },
	}

	pages, err := fs.Glob(fsys, "templates/*/*.html")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := strings.TrimSuffix(strings.TrimPrefix(page, "templates/"), path.Ext(page))
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "templates/layout.html", "templates/fields.html", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (v *viewRenderer) Render(w http.ResponseWriter, r *http.Request, status int, view string, model any) {
	if wantsJSON(r) {
		v.responder.WriteJSON(w, status, model)
		return
	}

	tmpl, ok := v.templates[view]
	if !ok {
		v.logger.Error().Str("view", view).Msg("unknown view")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	data := viewData{Model: model}
	if p, ok := ctxGetPrincipal(r.Context()); ok {
		data.Principal = &p
	}

	// Render into a buffer so a template error does not leave a half written page.
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		v.logger.Error().Err(err).Str("view", view).Msg("error rendering view")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		v.logger.Error().Err(err).Msg("error writing response")
	}
}
