package handler

import (
	"errors"
	"strconv"

	"jobber/internal/delivery/http/dto"
	"jobber/internal/delivery/http/middleware"
	"jobber/internal/delivery/http/response"
	"jobber/internal/model"
	"jobber/internal/repository"
	"jobber/internal/usecase/listing"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	listings *listing.Service
	baseURL  string
}

func NewJobsHandler(listings *listing.Service, baseURL string) *JobsHandler {
	return &JobsHandler{listings: listings, baseURL: baseURL}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	r.Post("/jobs", h.HandleSubmit)
	r.Get("/jobs", h.HandleList)
	r.Get("/jobs/search", h.HandleSearch)
	r.Get("/jobs/:id", h.HandleShow)
	r.Get("/edit/:id/:token", h.HandleGetForEdit)
	r.Put("/edit/:id/:token", h.HandleEdit)
}

func (h *JobsHandler) HandleSubmit(c fiber.Ctx) error {
	var req dto.SubmitJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	job, err := h.listings.Submit(c.Context(), req.ToInput())
	if err != nil {
		return mapListingError(err)
	}

	return response.Success(c, fiber.StatusCreated, "job submitted for review",
		dto.NewSubmittedJobResponse(job, h.baseURL))
}

func (h *JobsHandler) HandleList(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	jobs, err := h.listings.ListPublished(c.Context(), limit)
	if err != nil {
		return mapListingError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", dto.NewJobResponses(jobs, h.baseURL))
}

func (h *JobsHandler) HandleSearch(c fiber.Ctx) error {
	query := c.Query("query")
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	jobs, err := h.listings.SearchPublished(c.Context(), query, limit)
	if err != nil {
		return mapListingError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", dto.NewJobResponses(jobs, h.baseURL))
}

func (h *JobsHandler) HandleShow(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	}

	job, err := h.listings.GetPublished(c.Context(), id)
	if err != nil {
		return mapListingError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", dto.NewJobResponse(job, h.baseURL))
}

func (h *JobsHandler) HandleGetForEdit(c fiber.Ctx) error {
	job, err := h.jobForEdit(c)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, "success",
		dto.NewSubmittedJobResponse(job, h.baseURL))
}

func (h *JobsHandler) HandleEdit(c fiber.Ctx) error {
	job, err := h.jobForEdit(c)
	if err != nil {
		return err
	}

	var req dto.SubmitJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	job, err = h.listings.Edit(c.Context(), job.AdminToken, req.ToInput())
	if err != nil {
		return mapListingError(err)
	}
	return response.Success(c, fiber.StatusOK, "job updated and submitted for review",
		dto.NewSubmittedJobResponse(job, h.baseURL))
}

// jobForEdit resolves the edit link. The admin token is the credential; the
// id in the path has to match it or the link counts as unknown.
func (h *JobsHandler) jobForEdit(c fiber.Ctx) (*model.Job, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return nil, middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	}

	job, err := h.listings.GetByAdminToken(c.Context(), c.Params("token"))
	if err != nil {
		return nil, mapListingError(err)
	}
	if job.ID != id {
		return nil, middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, nil)
	}
	return job, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func mapListingError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, repository.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Not found", nil, err)
	case errors.Is(err, model.ErrMissingField),
		errors.Is(err, model.ErrInvalidJobType),
		errors.Is(err, model.ErrInvalidContactMethod),
		errors.Is(err, model.ErrInvalidRemoteWork),
		errors.Is(err, model.ErrInvalidCountryCode):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
