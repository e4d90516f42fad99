package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/bloggie/auth"
	"github.com/rpupo63/bloggie/config"
	"github.com/rpupo63/bloggie/database"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg *config.Config, database database.Database) (Server, error) {
	startupTime := time.Now()

	router, err := newRouter(database,
		withTokens(auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL())),
		withAcceptedOrigins(cfg.AcceptedOrigins),
		withDevelopment(cfg.IsDevelopment()),
		withStartupTime(startupTime),
	)
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	tokens          *auth.TokenIssuer
	authorizer      auth.Authorizer
	acceptedOrigins []string
	development     bool
	startupTime     time.Time
}

func withTokens(tokens *auth.TokenIssuer) func(*router) {
	return func(r *router) {
		r.tokens = tokens
	}
}

func withAuthorizer(authorizer auth.Authorizer) func(*router) {
	return func(r *router) {
		r.authorizer = authorizer
	}
}

func withAcceptedOrigins(origins []string) func(*router) {
	return func(r *router) {
		r.acceptedOrigins = origins
	}
}

func withDevelopment(development bool) func(*router) {
	return func(r *router) {
		r.development = development
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, opts ...func(*router)) (*chi.Mux, error) {
	router := router{
		authorizer:  auth.RoleAuthorizer{},
		startupTime: time.Now(),
	}
	for _, opt := range opts {
		opt(&router)
	}

	renderer, err := newViewRenderer(log.With().Str("handlerName", "viewRenderer").Logger())
	if err != nil {
		return nil, err
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware(router.development))
	if len(router.acceptedOrigins) > 0 {
		chiRouter.Use(corsMiddleware(router.acceptedOrigins))
	}

	// Initialize all handlers
	handlers := initializeHandlers(database, router.tokens, renderer, !router.development)

	// Initialize auth middleware
	authMiddleware := newAuthMiddleware(router.tokens, router.authorizer)
	chiRouter.Use(authMiddleware.authenticate)

	chiRouter.Get("/healthz", router.healthz())
	chiRouter.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, pathBlogPostsList, http.StatusSeeOther)
	})

	// Setup all route types
	setupAccountRoutes(chiRouter, handlers)
	setupAdminRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter, nil
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (rt router) healthz() http.HandlerFunc {
	responder := NewResponder(log.Logger)
	return func(w http.ResponseWriter, r *http.Request) {
		responder.WriteJSON(w, http.StatusOK, healthResponse{
			Status: "ok",
			Uptime: time.Since(rt.startupTime).Round(time.Second).String(),
		})
	}
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
