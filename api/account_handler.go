package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rpupo63/bloggie/auth"
	"github.com/rpupo63/bloggie/errs"
	"github.com/rpupo63/bloggie/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	pathLogin        = "/Accounts/Login"
	pathLogout       = "/Accounts/Logout"
	pathRegister     = "/Accounts/Register"
	pathAccessDenied = "/Accounts/AccessDenied"

	authCookieName = "bloggie_auth"
)

// userStore is the slice of the user repository the account handlers use.
type userStore interface {
	FindByUserName(ctx context.Context, userName string) (*models.User, error)
	Create(ctx context.Context, user *models.User, roleNames ...string) (*models.User, error)
}

type accountHandler struct {
	responder    Responder
	renderer     Renderer
	logger       zerolog.Logger
	userRepo     userStore
	tokens       *auth.TokenIssuer
	secureCookie bool
}

func newAccountHandler(userRepo userStore, tokens *auth.TokenIssuer, renderer Renderer, secureCookie bool) accountHandler {
	logger := log.With().Str("handlerName", "accountHandler").Logger()

	return accountHandler{
		responder:    NewResponder(logger),
		renderer:     renderer,
		logger:       logger,
		userRepo:     userRepo,
		tokens:       tokens,
		secureCookie: secureCookie,
	}
}

// localReturnURL keeps only same-site paths so a login cannot bounce the user elsewhere.
func localReturnURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return "/"
	}
	return raw
}

func (h accountHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL() / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h accountHandler) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h accountHandler) loginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, http.StatusOK, viewAccountsLogin, LoginView{
			ReturnURL: r.URL.Query().Get("ReturnUrl"),
		})
	}
}

// login checks the credentials and, on success, sets the session cookie.
// Bad credentials re-render the form without saying which part was wrong.
func (h accountHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeRequest(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		view := LoginView{Username: req.Username, ReturnURL: req.ReturnURL}
		if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
			view.Errors = fieldErrs
			renderInvalid(w, r, h.renderer, h.responder, viewAccountsLogin, view, fieldErrs)
			return
		}

		user, err := h.userRepo.FindByUserName(r.Context(), req.Username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}

		ok := false
		if user != nil {
			ok, err = auth.CheckPassword(req.Password, user.PasswordHash)
			if err != nil {
				h.logger.Error().Err(err).Str("userName", req.Username).Msg("error checking password")
				ok = false
			}
		}
		if !ok {
			h.logger.Warn().Str("userName", req.Username).Msg("failed login")
			view.Errors = FieldErrors{"username": "Invalid username or password."}
			renderInvalid(w, r, h.renderer, h.responder, viewAccountsLogin, view, view.Errors)
			return
		}

		token, err := h.tokens.Issue(principalFromUser(*user))
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("issue session token", err))
			return
		}
		h.setAuthCookie(w, token)

		h.logger.Info().Str("userID", user.ID.String()).Msg("user logged in")
		h.responder.Redirect(w, r, localReturnURL(req.ReturnURL))
	}
}

func (h accountHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.clearAuthCookie(w)
		h.responder.Redirect(w, r, "/")
	}
}

func (h accountHandler) registerForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, http.StatusOK, viewAccountsRegister, RegisterView{})
	}
}

// register creates a user in the User role. A taken user name re-renders the form.
func (h accountHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeRequest(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		view := RegisterView{Username: req.Username, Email: req.Email}
		if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
			view.Errors = fieldErrs
			renderInvalid(w, r, h.renderer, h.responder, viewAccountsRegister, view, fieldErrs)
			return
		}

		existing, err := h.userRepo.FindByUserName(r.Context(), req.Username)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if existing != nil {
			h.usernameTaken(w, r, view)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("hash password", err))
			return
		}

		user := models.User{
			UserName:     strings.TrimSpace(req.Username),
			Email:        strings.TrimSpace(req.Email),
			PasswordHash: hash,
		}
		if _, err := h.userRepo.Create(r.Context(), &user, models.RoleUser); err != nil {
			dbErr := wrapDatabaseError("create user", "user", err)
			// A concurrent registration can win between the lookup and the insert.
			if errs.IsAlreadyExists(dbErr) {
				h.usernameTaken(w, r, view)
				return
			}
			h.responder.WriteError(w, dbErr)
			return
		}

		h.logger.Info().Str("userID", user.ID.String()).Msg("user registered")
		h.responder.Redirect(w, r, pathRegister)
	}
}

func (h accountHandler) usernameTaken(w http.ResponseWriter, r *http.Request, view RegisterView) {
	view.Errors = FieldErrors{"username": "Username is already taken."}
	renderInvalid(w, r, h.renderer, h.responder, viewAccountsRegister, view, view.Errors)
}

func (h accountHandler) accessDenied() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, http.StatusForbidden, viewAccountsDenied, nil)
	}
}
