package vacancyapi

import (
	"github.com/clarify-hr/clarify/hiring/vacancy"
	"github.com/clarify-hr/clarify/hiring/vacancy/vacancysrv"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for vacancy operations
type Handlers struct {
	service *vacancysrv.VacancyService
}

// NewHandlers creates a new vacancy handlers instance
func NewHandlers(service *vacancysrv.VacancyService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// CreateVacancy creates a new vacancy posting
// POST /api/vacancies
func (h *Handlers) CreateVacancy(c *fiber.Ctx) error {
	var req vacancy.CreateVacancyRequest
	if err := c.BodyParser(&req); err != nil {
		return vacancy.ErrInvalidVacancyData().WithDetail("parse_error", err.Error())
	}

	newVacancy, err := h.service.CreateVacancy(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newVacancy)
}

// GetVacancyByID retrieves a vacancy by ID
// GET /api/vacancies/:id
func (h *Handlers) GetVacancyByID(c *fiber.Ctx) error {
	vacancyID := kernel.VacancyID(c.Params("id"))
	if vacancyID.IsEmpty() {
		return vacancy.ErrVacancyNotFound().WithDetail("id", "missing or empty")
	}

	resp, err := h.service.GetVacancyByID(c.Context(), vacancyID)
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

// ListVacancies retrieves all vacancies with pagination
// GET /api/vacancies
func (h *Handlers) ListVacancies(c *fiber.Ctx) error {
	pagination := parsePaginationOptions(c)

	vacancies, err := h.service.ListVacancies(c.Context(), pagination)
	if err != nil {
		return err
	}

	return c.JSON(vacancies)
}

// ListPublishedVacancies retrieves only published vacancies
// GET /api/vacancies/published
func (h *Handlers) ListPublishedVacancies(c *fiber.Ctx) error {
	pagination := parsePaginationOptions(c)

	vacancies, err := h.service.ListPublishedVacancies(c.Context(), pagination)
	if err != nil {
		return err
	}

	return c.JSON(vacancies)
}

// SearchVacancies searches vacancies by various criteria
// POST /api/vacancies/search
func (h *Handlers) SearchVacancies(c *fiber.Ctx) error {
	var req vacancy.SearchVacanciesRequest
	if err := c.BodyParser(&req); err != nil {
		return vacancy.ErrInvalidVacancyData().WithDetail("parse_error", err.Error())
	}

	vacancies, err := h.service.SearchVacancies(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(vacancies)
}

// UpdateVacancy updates an existing vacancy
// PUT /api/vacancies/:id
func (h *Handlers) UpdateVacancy(c *fiber.Ctx) error {
	vacancyID := kernel.VacancyID(c.Params("id"))
	if vacancyID.IsEmpty() {
		return vacancy.ErrVacancyNotFound().WithDetail("id", "missing or empty")
	}

	var req vacancy.UpdateVacancyRequest
	if err := c.BodyParser(&req); err != nil {
		return vacancy.ErrInvalidVacancyData().WithDetail("parse_error", err.Error())
	}

	updatedVacancy, err := h.service.UpdateVacancy(c.Context(), vacancyID, req)
	if err != nil {
		return err
	}

	return c.JSON(updatedVacancy)
}

// DeleteVacancy deletes a vacancy
// DELETE /api/vacancies/:id
func (h *Handlers) DeleteVacancy(c *fiber.Ctx) error {
	vacancyID := kernel.VacancyID(c.Params("id"))
	if vacancyID.IsEmpty() {
		return vacancy.ErrVacancyNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteVacancy(c.Context(), vacancyID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// PublishVacancy marks a vacancy as published
// POST /api/vacancies/:id/publish
func (h *Handlers) PublishVacancy(c *fiber.Ctx) error {
	vacancyID := kernel.VacancyID(c.Params("id"))
	if vacancyID.IsEmpty() {
		return vacancy.ErrVacancyNotFound().WithDetail("id", "missing or empty")
	}

	entity, err := h.service.PublishVacancy(c.Context(), vacancyID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Vacancy published successfully",
		"vacancy": entity,
	})
}

// UnpublishVacancy pulls a published vacancy back to draft
// POST /api/vacancies/:id/unpublish
func (h *Handlers) UnpublishVacancy(c *fiber.Ctx) error {
	vacancyID := kernel.VacancyID(c.Params("id"))
	if vacancyID.IsEmpty() {
		return vacancy.ErrVacancyNotFound().WithDetail("id", "missing or empty")
	}

	entity, err := h.service.UnpublishVacancy(c.Context(), vacancyID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Vacancy unpublished successfully",
		"vacancy": entity,
	})
}

// CloseVacancy stops a vacancy from accepting applications
// POST /api/vacancies/:id/close
func (h *Handlers) CloseVacancy(c *fiber.Ctx) error {
	vacancyID := kernel.VacancyID(c.Params("id"))
	if vacancyID.IsEmpty() {
		return vacancy.ErrVacancyNotFound().WithDetail("id", "missing or empty")
	}

	entity, err := h.service.CloseVacancy(c.Context(), vacancyID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Vacancy closed successfully",
		"vacancy": entity,
	})
}

// ArchiveVacancy archives a vacancy
// POST /api/vacancies/:id/archive
func (h *Handlers) ArchiveVacancy(c *fiber.Ctx) error {
	vacancyID := kernel.VacancyID(c.Params("id"))
	if vacancyID.IsEmpty() {
		return vacancy.ErrVacancyNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.ArchiveVacancy(c.Context(), vacancyID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Vacancy archived successfully",
	})
}

// GetVacancyStats retrieves statistics for a vacancy
// GET /api/vacancies/:id/stats
func (h *Handlers) GetVacancyStats(c *fiber.Ctx) error {
	vacancyID := kernel.VacancyID(c.Params("id"))
	if vacancyID.IsEmpty() {
		return vacancy.ErrVacancyNotFound().WithDetail("id", "missing or empty")
	}

	stats, err := h.service.GetVacancyStats(c.Context(), vacancyID)
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

// ============================================================================
// Helper Functions
// ============================================================================

// parsePaginationOptions extracts pagination options from query parameters
func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return kernel.PaginationOptions{
		Page:     page,
		PageSize: pageSize,
	}
}

// RegisterRoutes registers all vacancy routes
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	api := app.Group("/api/vacancies")

	api.Get("/", handlers.ListVacancies)
	api.Get("/published", handlers.ListPublishedVacancies)
	api.Get("/:id", handlers.GetVacancyByID)
	api.Get("/:id/stats", handlers.GetVacancyStats)

	api.Post("/search", handlers.SearchVacancies)

	api.Post("/", handlers.CreateVacancy)
	api.Put("/:id", handlers.UpdateVacancy)

	api.Post("/:id/publish", handlers.PublishVacancy)
	api.Post("/:id/unpublish", handlers.UnpublishVacancy)
	api.Post("/:id/close", handlers.CloseVacancy)
	api.Post("/:id/archive", handlers.ArchiveVacancy)

	api.Delete("/:id", handlers.DeleteVacancy)
}
