package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wearvirtually/wearvirtually-api/internal/config"
	"github.com/wearvirtually/wearvirtually-api/internal/handler"
	"github.com/wearvirtually/wearvirtually-api/internal/middleware"
	"github.com/wearvirtually/wearvirtually-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	RealtimeHandler     *handler.RealtimeHandler
	ChatHandler         *handler.ChatHandler
	NotificationHandler *handler.NotificationHandler
	OrderHandler        *handler.OrderHandler
	FriendHandler       *handler.FriendHandler
	PostHandler         *handler.PostHandler
	CatalogHandler      *handler.CatalogHandler
	TryOnHandler        *handler.TryOnHandler
	UploadHandler       *handler.UploadHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Realtime socket. Identity is announced in-band on the socket, so the
	// upgrade route stays outside the JWT group.
	if deps.RealtimeHandler != nil {
		realtime := app.Group("/api/v1/realtime")
		deps.RealtimeHandler.Register(realtime)
	}

	if deps.ChatHandler != nil {
		chat := app.Group("/api/v1/chat", jwtMiddleware, middleware.RateLimit("chat", 60, time.Minute))
		deps.ChatHandler.Register(chat)
	}

	if deps.NotificationHandler != nil {
		notifications := app.Group("/api/v1/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.OrderHandler != nil {
		orders := app.Group("/api/v1/orders", jwtMiddleware)
		deps.OrderHandler.Register(orders)
	}

	if deps.FriendHandler != nil {
		friends := app.Group("/api/v1/friends", jwtMiddleware)
		deps.FriendHandler.Register(friends)
	}

	if deps.PostHandler != nil {
		posts := app.Group("/api/v1/posts", jwtMiddleware)
		deps.PostHandler.Register(posts)
	}

	if deps.CatalogHandler != nil {
		products := app.Group("/api/v1/products", jwtMiddleware)
		deps.CatalogHandler.Register(products)
	}

	if deps.TryOnHandler != nil {
		tryOn := app.Group("/api/v1/try-on", jwtMiddleware)
		deps.TryOnHandler.Register(tryOn)
	}

	if deps.UploadHandler != nil {
		uploads := app.Group("/api/v1/uploads", jwtMiddleware, middleware.RateLimit("uploads", 20, time.Minute))
		deps.UploadHandler.Register(uploads)
	}
}
