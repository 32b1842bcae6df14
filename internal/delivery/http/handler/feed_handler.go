package handler

import (
	"jobber/internal/delivery/http/middleware"
	"jobber/internal/delivery/http/response"
	"jobber/internal/feed"

	"github.com/gofiber/fiber/v3"
)

type FeedHandler struct {
	builder *feed.Builder
}

func NewFeedHandler(builder *feed.Builder) *FeedHandler {
	return &FeedHandler{builder: builder}
}

func (h *FeedHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/feed", h.HandleFeed)
}

func (h *FeedHandler) HandleFeed(c fiber.Ctx) error {
	xml, err := h.builder.RenderRSS(c.Context(), c.Query("query"), feed.DefaultLimit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	c.Set(fiber.HeaderContentType, "text/xml; charset=utf-8")
	return c.SendString(xml)
}
