package errx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNamespacesCodes(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("NOT_FOUND", TypeNotFound, http.StatusNotFound, "thing not found")

	assert.Equal(t, Code("TEST_NOT_FOUND"), code)

	err := reg.New(code)
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "thing not found", err.Message)
}

func TestUnregisteredCode(t *testing.T) {
	reg := NewRegistry("TEST")
	err := reg.New("TEST_UNKNOWN")

	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestWithCauseUnwraps(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("BOOM", TypeInternal, http.StatusInternalServerError, "boom")

	cause := errors.New("disk on fire")
	err := reg.New(code).WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestWithDetails(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("BAD", TypeValidation, http.StatusBadRequest, "bad input")

	err := reg.New(code).
		WithDetail("field", "email").
		WithDetails(map[string]any{"reason": "empty"})

	require.Len(t, err.Details, 2)

	resp := err.ToHTTPResponse()
	assert.Equal(t, Code("TEST_BAD"), resp["code"])
	assert.Equal(t, err.Details, resp["details"])
}

func TestWrapMapsTypeToStatus(t *testing.T) {
	err := Wrap(errors.New("timeout"), "upstream call failed", TypeExternal)

	assert.Equal(t, TypeExternal, err.Type)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
	assert.Equal(t, "upstream call failed", err.Message)
}
