package routes

import (
	"jobber/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Registry wires handlers onto the fiber app. All dependencies come in
// through the constructor; nothing is built here.
type Registry struct {
	health *handler.HealthHandler
	jobs   *handler.JobsHandler
	review *handler.ReviewHandler
	feed   *handler.FeedHandler
	admin  *handler.AdminHandler
}

func NewRegistry(
	health *handler.HealthHandler,
	jobs *handler.JobsHandler,
	review *handler.ReviewHandler,
	feed *handler.FeedHandler,
	admin *handler.AdminHandler,
) *Registry {
	return &Registry{
		health: health,
		jobs:   jobs,
		review: review,
		feed:   feed,
		admin:  admin,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.feed.RegisterRoutes(app)
	r.review.RegisterRoutes(app)

	api := app.Group("/api")
	r.jobs.RegisterRoutes(api)

	admin := app.Group("/admin")
	r.admin.RegisterRoutes(admin)
}
