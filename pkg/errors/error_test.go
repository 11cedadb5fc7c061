package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessError(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewAccessError(cause)

	// the cause stays available for logs but never reaches the message
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, AccessErrorMessage, err.Message())
	assert.Equal(t, ErrUnavailable, err.Code())
	assert.True(t, IsAccessError(err))
	assert.False(t, IsValidationError(err))
	assert.Equal(t, cause, Unwrap(err))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("IBAN invalid")

	assert.Equal(t, "IBAN invalid", err.Error())
	assert.Equal(t, "IBAN invalid", err.Message())
	assert.True(t, IsValidationError(err))
	assert.False(t, IsAccessError(err))
}

func TestWrapKeepsCode(t *testing.T) {
	inner := NewAppError(ErrNotFound, "mandate not found", nil)
	wrapped := Wrap(inner, "loading mandate")

	var appErr *AppError
	assert.True(t, As(wrapped, &appErr))
	assert.Equal(t, ErrNotFound, appErr.Code())

	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestToHTTPError(t *testing.T) {
	t.Run("access error hides the transport cause", func(t *testing.T) {
		err := NewAccessError(fmt.Errorf("secret internal detail"))
		httpErr := ToHTTPError(err)

		assert.Equal(t, http.StatusBadGateway, httpErr.Code)
		assert.Equal(t, AccessErrorMessage, httpErr.Message)
		assert.NotContains(t, fmt.Sprint(httpErr.Message), "secret internal detail")
	})

	t.Run("validation error maps to bad request", func(t *testing.T) {
		httpErr := ToHTTPError(NewValidationError("two invoices"))

		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		assert.Equal(t, "two invoices", httpErr.Message)
	})

	t.Run("plain errors become internal", func(t *testing.T) {
		httpErr := ToHTTPError(fmt.Errorf("boom"))

		assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
	})

	t.Run("unknown code falls back to internal", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus("SOMETHING_ELSE"))
	})
}
