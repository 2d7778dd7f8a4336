package routes

import (
	"net/http"

	"github.com/meeplemeet/meeplemeet/internal/app"
	"github.com/meeplemeet/meeplemeet/internal/handler"
	"github.com/meeplemeet/meeplemeet/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler()
	auth := handler.NewAuthHandler(app.AuthService)
	user := handler.NewUserHandler(app.UserRepository, app.TagRepository)
	event := handler.NewEventHandler(app.EventRepository, app.UserRepository)
	comment := handler.NewCommentHandler(app.CommentRepository, app.EventRepository)
	tag := handler.NewTagHandler(app.TagRepository)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /health", health.Health)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()
	mux.HandleFunc("POST /auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /auth/request-password-reset", rateLimiter(auth.RequestPasswordReset))
	mux.HandleFunc("POST /auth/reset-password", rateLimiter(auth.ResetPassword))

	// Users
	mux.HandleFunc("GET /api/me", middleware.RequireAuth(user.Me))
	mux.HandleFunc("GET /api/users", middleware.RequireAuth(user.List))
	mux.HandleFunc("GET /api/users/{id}", user.Get)
	mux.HandleFunc("POST /api/users/{id}/tags/{tagID}", middleware.RequireAuth(user.AssignTag))
	mux.HandleFunc("DELETE /api/users/{id}/tags/{tagID}", middleware.RequireAuth(user.RemoveTag))

	// Events
	mux.HandleFunc("GET /api/events", middleware.RequireAuth(event.List))
	mux.HandleFunc("GET /api/events/public", event.ListPublic)
	mux.HandleFunc("GET /api/events/{id}", event.Get)
	mux.HandleFunc("POST /api/events", middleware.RequireAuth(event.Create))
	mux.HandleFunc("PATCH /api/events/{id}", middleware.RequireAuth(event.Update))
	mux.HandleFunc("DELETE /api/events/{id}", middleware.RequireAuth(event.Delete))
	mux.HandleFunc("POST /api/events/{id}/join", middleware.RequireAuth(event.Join))
	mux.HandleFunc("POST /api/events/{id}/leave", middleware.RequireAuth(event.Leave))

	// Comments
	mux.HandleFunc("GET /api/events/{id}/comments", comment.ListByEvent)
	mux.HandleFunc("POST /api/comments", middleware.RequireAuth(comment.Create))
	mux.HandleFunc("PATCH /api/comments/{id}", middleware.RequireAuth(comment.Update))
	mux.HandleFunc("DELETE /api/comments/{id}", middleware.RequireAuth(comment.Delete))

	// Tags
	mux.HandleFunc("GET /api/tags", tag.List)
	mux.HandleFunc("POST /api/tags", middleware.RequireAuth(tag.Create))
	mux.HandleFunc("DELETE /api/tags/{id}", middleware.RequireAuth(tag.Delete))

	// Global middleware
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.Signer),
	)
}
