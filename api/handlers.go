package api

import (
	"github.com/rpupo63/bloggie/auth"
	"github.com/rpupo63/bloggie/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, tokens *auth.TokenIssuer, renderer Renderer, secureCookie bool) *routeHandlers {
	return &routeHandlers{
		tagHandler:      newTagHandler(database.TagRepo(), renderer),
		blogPostHandler: newBlogPostHandler(database.BlogPostRepo(), database.TagRepo(), renderer),
		accountHandler:  newAccountHandler(database.UserRepo(), tokens, renderer, secureCookie),
	}
}
