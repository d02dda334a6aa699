package vacancy

import (
	"net/http"

	"github.com/clarify-hr/clarify/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("VACANCY")

// Error codes
var (
	CodeVacancyNotFound        = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Vacancy not found")
	CodeVacancyAlreadyExists   = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Vacancy already exists")
	CodeVacancyArchived        = ErrRegistry.Register("ARCHIVED", errx.TypeBusiness, http.StatusForbidden, "Vacancy is archived")
	CodeVacancyNotArchived     = ErrRegistry.Register("NOT_ARCHIVED", errx.TypeBusiness, http.StatusBadRequest, "Vacancy is not archived")
	CodeVacancyAlreadyArchived = ErrRegistry.Register("ALREADY_ARCHIVED", errx.TypeBusiness, http.StatusConflict, "Vacancy is already archived")
	CodeVacancyNotPublished    = ErrRegistry.Register("NOT_PUBLISHED", errx.TypeBusiness, http.StatusConflict, "Vacancy is not published")
	CodeVacancyHasApplications = ErrRegistry.Register("HAS_APPLICATIONS", errx.TypeBusiness, http.StatusConflict, "Cannot delete vacancy with applications")
	CodeCannotPublish          = ErrRegistry.Register("CANNOT_PUBLISH", errx.TypeBusiness, http.StatusBadRequest, "Vacancy cannot be published in current state")
	CodeInvalidVacancyData     = ErrRegistry.Register("INVALID_DATA", errx.TypeValidation, http.StatusBadRequest, "Invalid vacancy data")
)

// Helper functions
func ErrVacancyNotFound() *errx.Error {
	return ErrRegistry.New(CodeVacancyNotFound)
}

func ErrVacancyAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeVacancyAlreadyExists)
}

func ErrVacancyArchived() *errx.Error {
	return ErrRegistry.New(CodeVacancyArchived)
}

func ErrVacancyNotArchived() *errx.Error {
	return ErrRegistry.New(CodeVacancyNotArchived)
}

func ErrVacancyAlreadyArchived() *errx.Error {
	return ErrRegistry.New(CodeVacancyAlreadyArchived)
}

func ErrVacancyNotPublished() *errx.Error {
	return ErrRegistry.New(CodeVacancyNotPublished)
}

func ErrVacancyHasApplications() *errx.Error {
	return ErrRegistry.New(CodeVacancyHasApplications)
}

func ErrCannotPublish() *errx.Error {
	return ErrRegistry.New(CodeCannotPublish)
}

func ErrInvalidVacancyData() *errx.Error {
	return ErrRegistry.New(CodeInvalidVacancyData)
}
