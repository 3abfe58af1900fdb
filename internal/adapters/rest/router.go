package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/harborblog/backend/internal/adapters/auth"
	"github.com/harborblog/backend/internal/platform/filestore"
)

// NewRouter builds the full route tree. Reads run behind optional
// authentication so projections can be viewer-relative; mutations require
// a valid token.
func NewRouter(
	authn *auth.Authenticator,
	files *filestore.DiskStore,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	postHandler *PostHandler,
	commentHandler *CommentHandler,
	categoryHandler *CategoryHandler,
	healthHandler *HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health/live", healthHandler.GetLiveness)
	r.Get("/health/ready", healthHandler.GetReadiness)

	// Uploaded media is served straight from the upload directory.
	r.Handle(filestore.PublicPrefix+"*", http.StripPrefix(filestore.PublicPrefix, http.FileServer(http.Dir(files.BaseDir()))))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", authHandler.Register)
		api.Post("/auth/login", authHandler.Login)

		api.Group(func(reads chi.Router) {
			reads.Use(authn.OptionalAuth)

			reads.Get("/posts", postHandler.ListPosts)
			reads.Get("/posts/{postID}", postHandler.GetPost)
			reads.Get("/posts/{postID}/comments", commentHandler.ListComments)
			reads.Get("/posts/{postID}/comments/{commentID}", commentHandler.GetComment)

			reads.Get("/categories", categoryHandler.ListCategories)
			reads.Get("/categories/{categoryID}", categoryHandler.GetCategory)
			reads.Get("/categories/{categoryID}/posts", postHandler.ListByCategory)

			reads.Get("/users/{userID}/profile", userHandler.GetPublicProfile)
			reads.Get("/users/{userID}/posts", postHandler.ListByAuthor)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(authn.RequireAuth)

			protected.Post("/posts", postHandler.CreatePost)
			protected.Put("/posts/{postID}", postHandler.UpdatePost)
			protected.Delete("/posts/{postID}", postHandler.DeletePost)
			protected.Post("/posts/{postID}/like", postHandler.ToggleLike)

			protected.Post("/posts/{postID}/comments", commentHandler.CreateComment)
			protected.Put("/posts/{postID}/comments/{commentID}", commentHandler.UpdateComment)
			protected.Delete("/posts/{postID}/comments/{commentID}", commentHandler.DeleteComment)
			protected.Post("/comments/{commentID}/like", commentHandler.ToggleLike)

			protected.Post("/categories", categoryHandler.CreateCategory)

			protected.Get("/users/me", userHandler.GetMe)
			protected.Put("/users/me", userHandler.UpdateMe)

			protected.Get("/users", userHandler.ListUsers)
			protected.Put("/users/{userID}/roles/admin", userHandler.GrantAdmin)
			protected.Delete("/users/{userID}/roles/admin", userHandler.RevokeAdmin)
			protected.Put("/users/{userID}/activate", userHandler.ActivateUser)
			protected.Delete("/users/{userID}", userHandler.DeactivateUser)
		})
	})

	return r
}
