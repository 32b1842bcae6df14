package handler

import (
	"strconv"

	"jobber/internal/config"
	"jobber/internal/delivery/http/dto"
	"jobber/internal/delivery/http/middleware"
	"jobber/internal/delivery/http/response"
	"jobber/internal/pkg/jwt"
	"jobber/internal/usecase/listing"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// AdminHandler covers the single-admin surface: logging in and publishing
// reviewed jobs from the web.
type AdminHandler struct {
	listings *listing.Service
	jwt      jwt.Service
	cfg      config.AdminConfig
	authMw   *middleware.AdminAuthMiddleware
	baseURL  string
}

func NewAdminHandler(
	listings *listing.Service,
	jwtSvc jwt.Service,
	cfg config.AdminConfig,
	authMw *middleware.AdminAuthMiddleware,
	baseURL string,
) *AdminHandler {
	return &AdminHandler{
		listings: listings,
		jwt:      jwtSvc,
		cfg:      cfg,
		authMw:   authMw,
		baseURL:  baseURL,
	}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/login", h.HandleLogin)

	protected := r.Group("", h.authMw.Middleware())
	protected.Post("/jobs/:id/publish", h.HandlePublish)
}

func (h *AdminHandler) HandleLogin(c fiber.Ctx) error {
	var req loginRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if h.cfg.PasswordHash == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(req.Password)); err != nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	}

	token, err := h.jwt.GenerateAdminToken()
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	return response.Success(c, fiber.StatusOK, "success", loginResponse{Token: token})
}

func (h *AdminHandler) HandlePublish(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	}

	job, err := h.listings.ApproveViaWeb(c.Context(), id)
	if err != nil {
		return mapListingError(err)
	}
	return response.Success(c, fiber.StatusOK, "job published", dto.NewJobResponse(job, h.baseURL))
}
