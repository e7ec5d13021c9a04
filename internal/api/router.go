package api

import (
	"net/http"

	"github.com/dpark/spacehub/internal/api/handlers"
	"github.com/dpark/spacehub/internal/api/middleware"
	"github.com/dpark/spacehub/internal/service"
	"github.com/dpark/spacehub/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, hub *websocket.Hub, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	attendanceHandler := handlers.NewAttendanceHandler(services.Attendance, services.Auth, hub, logger)
	leaderboardHandler := handlers.NewLeaderboardHandler(services.Leaderboard, logger)
	feedHandler := handlers.NewFeedHandler(services.Feed, logger)
	notificationHandler := handlers.NewNotificationHandler(services.Notification, logger)
	pushHandler := handlers.NewPushHandler(services.Push, logger)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth, logger)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth, logger))

			// Attendance routes
			r.Route("/attendance", func(r chi.Router) {
				r.Post("/toggle", attendanceHandler.Toggle)
				r.Get("/status", attendanceHandler.Status)
				r.Get("/present", attendanceHandler.Present)
			})

			// Leaderboard
			r.Get("/leaderboard", leaderboardHandler.Get)

			// Feed routes
			r.Route("/posts", func(r chi.Router) {
				r.Post("/", feedHandler.CreatePost)
				r.Get("/", feedHandler.ListPosts)
				r.Post("/{postId}/like", feedHandler.ToggleLike)
				r.Post("/{postId}/comments", feedHandler.AddComment)
			})
			r.Delete("/comments/{commentId}", feedHandler.DeleteComment)

			// Notification routes
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Post("/{id}/read", notificationHandler.MarkRead)
			})

			// Push subscription routes
			r.Route("/push/subscriptions", func(r chi.Router) {
				r.Post("/", pushHandler.Subscribe)
				r.Delete("/", pushHandler.Unsubscribe)
			})

			// Admin routes (role checked against storage on every call)
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly(services.Auth, logger))
				r.Post("/admin/sessions/{sessionId}/close", attendanceHandler.AdminClose)
			})
		})

		// WebSocket endpoint (token in query, authenticated in the handler)
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
