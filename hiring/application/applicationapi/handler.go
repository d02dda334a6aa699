package applicationapi

import (
	"io"

	"github.com/clarify-hr/clarify/hiring/application"
	"github.com/clarify-hr/clarify/hiring/application/applicationsrv"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for application operations
type Handlers struct {
	service *applicationsrv.ApplicationService
}

// NewHandlers creates a new application handlers instance
func NewHandlers(service *applicationsrv.ApplicationService) *Handlers {
	return &Handlers{
		service: service,
	}
}

// SubmitApplication accepts a public multipart submission with a resume file
// POST /api/applications
func (h *Handlers) SubmitApplication(c *fiber.Ctx) error {
	req := application.SubmitApplicationRequest{
		VacancyID: kernel.VacancyID(c.FormValue("vacancy_id")),
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Email:     kernel.Email(c.FormValue("email")),
	}

	fileName, contentType, fileData, err := readFormFile(c, "resume")
	if err != nil {
		return err
	}
	req.FileName = fileName
	req.ContentType = contentType
	req.FileData = fileData

	resp, err := h.service.SubmitApplication(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetApplicationByID retrieves an application by ID
// GET /api/applications/:id
func (h *Handlers) GetApplicationByID(c *fiber.Ctx) error {
	applicationID := kernel.ApplicationID(c.Params("id"))
	if applicationID.IsEmpty() {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	app, err := h.service.GetApplicationByID(c.Context(), applicationID)
	if err != nil {
		return err
	}

	return c.JSON(app)
}

// ListApplications retrieves all applications with pagination
// GET /api/applications
func (h *Handlers) ListApplications(c *fiber.Ctx) error {
	pagination := parsePaginationOptions(c)

	applications, err := h.service.ListApplications(c.Context(), pagination)
	if err != nil {
		return err
	}

	return c.JSON(applications)
}

// ListApplicationsByVacancy retrieves applications for a specific vacancy
// GET /api/applications/by-vacancy/:vacancyId
func (h *Handlers) ListApplicationsByVacancy(c *fiber.Ctx) error {
	vacancyID := kernel.VacancyID(c.Params("vacancyId"))
	if vacancyID.IsEmpty() {
		return application.ErrInvalidRequest().WithDetail("vacancy_id", "missing or empty")
	}

	pagination := parsePaginationOptions(c)

	applications, err := h.service.ListApplicationsByVacancy(c.Context(), vacancyID, pagination)
	if err != nil {
		return err
	}

	return c.JSON(applications)
}

// DownloadResume downloads the stored resume file for an application
// GET /api/applications/:id/resume
func (h *Handlers) DownloadResume(c *fiber.Ctx) error {
	applicationID := kernel.ApplicationID(c.Params("id"))
	if applicationID.IsEmpty() {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	stream, filename, err := h.service.DownloadResume(c.Context(), applicationID)
	if err != nil {
		return err
	}

	c.Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Set("Content-Type", "application/octet-stream")

	return c.SendStream(stream)
}

// UpdateApplicationStatus updates the status of an application
// PATCH /api/applications/:id/status
func (h *Handlers) UpdateApplicationStatus(c *fiber.Ctx) error {
	applicationID := kernel.ApplicationID(c.Params("id"))
	if applicationID.IsEmpty() {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	var req application.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	if err := h.service.UpdateApplicationStatus(c.Context(), applicationID, req.Status); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Application status updated successfully",
		"status":  req.Status,
	})
}

// ArchiveApplication archives an application
// POST /api/applications/:id/archive
func (h *Handlers) ArchiveApplication(c *fiber.Ctx) error {
	applicationID := kernel.ApplicationID(c.Params("id"))
	if applicationID.IsEmpty() {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.ArchiveApplication(c.Context(), applicationID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Application archived successfully",
	})
}

// UnarchiveApplication unarchives an application
// POST /api/applications/:id/unarchive
func (h *Handlers) UnarchiveApplication(c *fiber.Ctx) error {
	applicationID := kernel.ApplicationID(c.Params("id"))
	if applicationID.IsEmpty() {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.UnarchiveApplication(c.Context(), applicationID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Application unarchived successfully",
	})
}

// DeleteApplication deletes an application
// DELETE /api/applications/:id
func (h *Handlers) DeleteApplication(c *fiber.Ctx) error {
	applicationID := kernel.ApplicationID(c.Params("id"))
	if applicationID.IsEmpty() {
		return application.ErrApplicationNotFound().WithDetail("id", "missing or empty")
	}

	if err := h.service.DeleteApplication(c.Context(), applicationID); err != nil {
		return err
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}

// ParseResume extracts text from an uploaded resume without creating an application
// POST /api/analysis/parse
func (h *Handlers) ParseResume(c *fiber.Ctx) error {
	_, _, fileData, err := readFormFile(c, "resume")
	if err != nil {
		return err
	}

	text, err := h.service.ParseResume(c.Context(), fileData)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"text": text,
	})
}

// MatchResume scores an uploaded resume against a vacancy without creating an application
// POST /api/analysis/match
func (h *Handlers) MatchResume(c *fiber.Ctx) error {
	vacancyID := kernel.VacancyID(c.FormValue("vacancy_id"))
	if vacancyID.IsEmpty() {
		return application.ErrInvalidRequest().WithDetail("vacancy_id", "missing or empty")
	}

	_, _, fileData, err := readFormFile(c, "resume")
	if err != nil {
		return err
	}

	report, err := h.service.MatchResume(c.Context(), vacancyID, fileData)
	if err != nil {
		return err
	}

	return c.JSON(report)
}

// ============================================================================
// Helper Functions
// ============================================================================

// readFormFile pulls one uploaded file out of the multipart form
func readFormFile(c *fiber.Ctx, field string) (string, string, []byte, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", "", nil, application.ErrInvalidRequest().WithDetail("file_error", err.Error())
	}

	fileContent, err := file.Open()
	if err != nil {
		return "", "", nil, application.ErrInvalidRequest().WithDetail("file_open_error", err.Error())
	}
	defer fileContent.Close()

	fileData, err := io.ReadAll(fileContent)
	if err != nil {
		return "", "", nil, application.ErrInvalidRequest().WithDetail("file_read_error", err.Error())
	}

	return file.Filename, file.Header.Get("Content-Type"), fileData, nil
}

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

// RegisterRoutes registers all application routes
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	api := app.Group("/api/applications")

	api.Post("/", handlers.SubmitApplication)
	api.Get("/", handlers.ListApplications)
	api.Get("/by-vacancy/:vacancyId", handlers.ListApplicationsByVacancy)
	api.Get("/:id", handlers.GetApplicationByID)
	api.Get("/:id/resume", handlers.DownloadResume)

	api.Patch("/:id/status", handlers.UpdateApplicationStatus)
	api.Post("/:id/archive", handlers.ArchiveApplication)
	api.Post("/:id/unarchive", handlers.UnarchiveApplication)
	api.Delete("/:id", handlers.DeleteApplication)

	analysis := app.Group("/api/analysis")
	analysis.Post("/parse", handlers.ParseResume)
	analysis.Post("/match", handlers.MatchResume)
}
