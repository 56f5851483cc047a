package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/m-curtis/altmeta/internal/handler"
	"github.com/m-curtis/altmeta/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Title     *handler.TitleHandler
	Thumbnail *handler.ThumbnailHandler
	Video     *handler.VideoHandler
	User      *handler.UserHandler
	Status    *handler.StatusHandler
	Reload    *handler.ReloadHandler
	Health    *handler.HealthHandler
	Compat    *handler.CompatHandler
}

// Options controls optional route groups.
type Options struct {
	CORSOrigins   string
	CompatEnabled bool
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, opts Options) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(opts.CORSOrigins))
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics sit outside the rate-limited groups
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	queryLimit := middleware.NewQueryRateLimiter().Handler()
	reloadLimit := middleware.NewReloadRateLimiter().Handler()

	// Native API
	api := app.Group("/api", queryLimit)

	api.Get("/status", h.Status.Get)
	api.Post("/reload", h.Reload.Trigger, reloadLimit)

	api.Get("/titles", h.Title.List)
	api.Get("/titles/uuid/:uuid", h.Title.GetByUUID)
	api.Get("/titles/video_id/:videoId", h.Title.GetByVideo)
	api.Get("/titles/user_id/:userId", h.Title.GetByUser)

	api.Get("/thumbnails", h.Thumbnail.List)
	api.Get("/thumbnails/uuid/:uuid", h.Thumbnail.GetByUUID)
	api.Get("/thumbnails/video_id/:videoId", h.Thumbnail.GetByVideo)
	api.Get("/thumbnails/user_id/:userId", h.Thumbnail.GetByUser)

	api.Get("/videos/:videoId", h.Video.Get)
	api.Get("/videos/:videoId/random", h.Video.GetRandomSample)
	api.Get("/search/:hashPrefix", h.Video.Search)

	api.Get("/users/user_id/:userId", h.User.Get)

	// Emulation of the upstream submission server's read endpoints
	if opts.CompatEnabled {
		compatLimit := middleware.NewCompatRateLimiter().Handler()
		sb := app.Group("/sbserver", compatLimit)

		sb.Get("/api/branding", h.Compat.GetBranding)
		sb.Get("/api/branding/:hashPrefix", h.Compat.GetBrandingChunk)
		sb.Get("/api/userInfo", h.Compat.GetUserInfo)
		sb.Post("/api/branding", h.Compat.SubmitNotSupported)
		sb.All("/*", h.Compat.NotEmulated)
	}
}
