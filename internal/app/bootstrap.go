package app

import (
	"fmt"
	"strings"

	"jobber/internal/delivery/http/handler"
	"jobber/internal/delivery/http/middleware"
	"jobber/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New assembles the fiber app on top of a built container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	errMw := middleware.NewErrorMiddleware(c.Logger)
	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())

	authMw := middleware.NewAdminAuthMiddleware(c.JWT)
	baseURL := c.Config.App.BaseURL

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB),
		handler.NewJobsHandler(c.Listings, baseURL),
		handler.NewReviewHandler(c.Reviews),
		handler.NewFeedHandler(c.Feed),
		handler.NewAdminHandler(c.Listings, c.JWT, c.Config.Admin, authMw, baseURL),
	)
	registry.Register(f)

	return &App{Fiber: f, Container: c}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
