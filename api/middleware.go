package api

import (
	"net/http"
	"net/url"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/rpupo63/bloggie/auth"
	"github.com/rpupo63/bloggie/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authMiddleware struct {
	responder  Responder
	logger     zerolog.Logger
	tokens     *auth.TokenIssuer
	authorizer auth.Authorizer
}

func newAuthMiddleware(tokens *auth.TokenIssuer, authorizer auth.Authorizer) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder:  NewResponder(logger),
		logger:     logger,
		tokens:     tokens,
		authorizer: authorizer,
	}
}

// authenticate puts the caller's principal in the context when the request carries a valid token.
// Requests without one pass through anonymously. An invalid bearer token is rejected, while a stale
// cookie is only dropped.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			raw, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || strings.TrimSpace(raw) == "" {
				m.responder.WriteError(w, errs.NewMissingTokenError())
				return
			}

			p, err := m.tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				m.responder.WriteError(w, errs.NewInvalidTokenError(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(ctxWithPrincipal(r.Context(), p)))
			return
		}

		cookie, err := r.Cookie(authCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		p, err := m.tokens.Parse(cookie.Value)
		if err != nil {
			m.logger.Debug().Err(err).Msg("ignoring invalid session cookie")
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithPrincipal(r.Context(), p)))
	})
}

// requireRole lets the request through only when the authorizer permits the caller in role.
// Browsers are redirected to the login or access denied page, JSON clients get 401 or 403.
func (m authMiddleware) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := ctxGetPrincipal(r.Context())
			if !ok {
				if wantsJSON(r) {
					m.responder.WriteError(w, errs.NewMissingTokenError())
					return
				}
				m.responder.Redirect(w, r, pathLogin+"?ReturnUrl="+url.QueryEscape(r.URL.RequestURI()))
				return
			}

			if !m.authorizer.Permits(p, role) {
				m.logger.Warn().
					Str("userID", p.UserID.String()).
					Str("requiredRole", role).
					Str("path", r.URL.Path).
					Msg("access denied")
				if wantsJSON(r) {
					m.responder.WriteError(w, errs.NewInsufficientRoleError(role))
					return
				}
				m.responder.Redirect(w, r, pathAccessDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// corsMiddleware allows the configured origins to call the admin with credentials.
// No origins means no CORS headers at all.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// HTTPLoggingMiddleware logs each request at a level picked from its status code.
// Development uses a colored console writer.
func HTTPLoggingMiddleware(development bool) func(http.Handler) http.Handler {
	logger := log.Logger
	if development {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(srw, r)

			var logEvent *zerolog.Event
			switch {
			case srw.status >= 500:
				logEvent = logger.Error()
			case srw.status >= 400:
				logEvent = logger.Warn()
			default:
				logEvent = logger.Info()
			}

			logEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP Request")
		})
	}
}
