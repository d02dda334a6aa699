package application

import (
	"net/http"

	"github.com/clarify-hr/clarify/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("APPLICATION")

// Error codes
var (
	CodeApplicationNotFound        = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application not found")
	CodeApplicationAlreadyExists   = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Application already exists")
	CodeApplicationArchived        = ErrRegistry.Register("ARCHIVED", errx.TypeBusiness, http.StatusForbidden, "Application is archived")
	CodeApplicationNotArchived     = ErrRegistry.Register("NOT_ARCHIVED", errx.TypeBusiness, http.StatusBadRequest, "Application is not archived")
	CodeApplicationAlreadyArchived = ErrRegistry.Register("ALREADY_ARCHIVED", errx.TypeBusiness, http.StatusConflict, "Application is already archived")
	CodeVacancyNotAccepting        = ErrRegistry.Register("VACANCY_NOT_ACCEPTING", errx.TypeBusiness, http.StatusForbidden, "Vacancy is not accepting applications")
	CodeResumeNotFound             = ErrRegistry.Register("RESUME_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Resume not found")
	CodeFileSizeTooLarge           = ErrRegistry.Register("FILE_SIZE_TOO_LARGE", errx.TypeValidation, http.StatusBadRequest, "File size exceeds maximum allowed")
	CodeInvalidFileType            = ErrRegistry.Register("INVALID_FILE_TYPE", errx.TypeValidation, http.StatusBadRequest, "Invalid file type")
	CodeInvalidStatusTransition    = ErrRegistry.Register("INVALID_STATUS_TRANSITION", errx.TypeBusiness, http.StatusBadRequest, "Invalid status transition")
	CodeInvalidRequest             = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeResumeUnreadable           = ErrRegistry.Register("RESUME_UNREADABLE", errx.TypeValidation, http.StatusUnprocessableEntity, "Could not extract text from resume")
	CodeNotScored                  = ErrRegistry.Register("NOT_SCORED", errx.TypeBusiness, http.StatusConflict, "Application has no match report")
)

// Helper functions
func ErrApplicationNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicationNotFound)
}

func ErrApplicationAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeApplicationAlreadyExists)
}

func ErrApplicationArchived() *errx.Error {
	return ErrRegistry.New(CodeApplicationArchived)
}

func ErrApplicationNotArchived() *errx.Error {
	return ErrRegistry.New(CodeApplicationNotArchived)
}

func ErrApplicationAlreadyArchived() *errx.Error {
	return ErrRegistry.New(CodeApplicationAlreadyArchived)
}

func ErrVacancyNotAccepting() *errx.Error {
	return ErrRegistry.New(CodeVacancyNotAccepting)
}

func ErrResumeNotFound() *errx.Error {
	return ErrRegistry.New(CodeResumeNotFound)
}

func ErrFileSizeTooLarge() *errx.Error {
	return ErrRegistry.New(CodeFileSizeTooLarge)
}

func ErrInvalidFileType() *errx.Error {
	return ErrRegistry.New(CodeInvalidFileType)
}

func ErrInvalidStatusTransition() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatusTransition)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrResumeUnreadable() *errx.Error {
	return ErrRegistry.New(CodeResumeUnreadable)
}

func ErrNotScored() *errx.Error {
	return ErrRegistry.New(CodeNotScored)
}
