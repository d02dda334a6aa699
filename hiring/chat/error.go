package chat

import (
	"net/http"

	"github.com/clarify-hr/clarify/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("CHAT")

// Error codes
var (
	CodeSessionNotFound = ErrRegistry.Register("SESSION_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Chat session not found")
	CodeInvalidPayload  = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeValidation, http.StatusBadRequest, "Invalid message payload")
	CodeFinalizeFailed  = ErrRegistry.Register("FINALIZE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to persist clarifications")
	CodeSessionExpired  = ErrRegistry.Register("SESSION_EXPIRED", errx.TypeNotFound, http.StatusGone, "Chat session has expired")
	CodeInvalidRequest  = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
)

// Helper functions
func ErrSessionNotFound() *errx.Error {
	return ErrRegistry.New(CodeSessionNotFound)
}

func ErrInvalidPayload() *errx.Error {
	return ErrRegistry.New(CodeInvalidPayload)
}

func ErrFinalizeFailed() *errx.Error {
	return ErrRegistry.New(CodeFinalizeFailed)
}

func ErrSessionExpired() *errx.Error {
	return ErrRegistry.New(CodeSessionExpired)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}
