package handler

import (
	"errors"

	"jobber/internal/delivery/http/middleware"
	"jobber/internal/usecase/review"

	"github.com/gofiber/fiber/v3"
)

// ReviewHandler receives inbound-email webhooks from the mail provider. The
// provider posts form fields: "sender" is the reviewer address and
// "stripped-text" the reply with quoted history removed.
type ReviewHandler struct {
	reviews *review.Service
}

func NewReviewHandler(reviews *review.Service) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/review/email/:token", h.HandleEmailReview)
}

func (h *ReviewHandler) HandleEmailReview(c fiber.Ctx) error {
	sender := c.FormValue("sender")
	reply := c.FormValue("stripped-text")

	_, err := h.reviews.ApproveViaEmail(c.Context(), c.Params("token"), sender, reply)
	if err != nil {
		// Every rejection looks identical from the outside; the audit log
		// has the real reason.
		if errors.Is(err, review.ErrUnauthorizedSender) ||
			errors.Is(err, review.ErrInvalidReply) ||
			errors.Is(err, review.ErrUnknownToken) ||
			errors.Is(err, review.ErrTokenAlreadyUsed) {
			return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
		}
		return err
	}

	return c.SendString("okay")
}
