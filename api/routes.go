package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/bloggie/models"
)

// setupAccountRoutes sets up the anonymous account pages
func setupAccountRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get(pathLogin, handlers.accountHandler.loginForm())
	r.Post(pathLogin, handlers.accountHandler.login())
	r.Post(pathLogout, handlers.accountHandler.logout())
	r.Get(pathRegister, handlers.accountHandler.registerForm())
	r.Post(pathRegister, handlers.accountHandler.register())
	r.Get(pathAccessDenied, handlers.accountHandler.accessDenied())
}

// setupAdminRoutes sets up the tag and blog post back-office behind the Admin role
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.requireRole(models.RoleAdmin))

		// Tag Handler endpoints
		r.Get(pathTagsAdd, handlers.tagHandler.addTagForm())
		r.Post(pathTagsAdd, handlers.tagHandler.addTag())
		r.Get(pathTagsList, handlers.tagHandler.listTags())
		r.Get(pathTagsEdit+"/{id}", handlers.tagHandler.editTagForm())
		r.Post(pathTagsEdit, handlers.tagHandler.editTag())
		r.Post(pathTagsEdit+"/{id}", handlers.tagHandler.editTag())
		r.Post("/AdminTags/Delete", handlers.tagHandler.deleteTag())

		// Blog Post Handler endpoints
		r.Get(pathBlogPostsAdd, handlers.blogPostHandler.addBlogPostForm())
		r.Post(pathBlogPostsAdd, handlers.blogPostHandler.addBlogPost())
		r.Get(pathBlogPostsList, handlers.blogPostHandler.listBlogPosts())
		r.Get(pathBlogPostsEdit+"/{id}", handlers.blogPostHandler.editBlogPostForm())
		r.Post(pathBlogPostsEdit, handlers.blogPostHandler.editBlogPost())
		r.Post(pathBlogPostsEdit+"/{id}", handlers.blogPostHandler.editBlogPost())
		r.Post("/AdminBlogPosts/Delete", handlers.blogPostHandler.deleteBlogPost())
	})
}
