package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeAlreadyExists, NormalizeErrorCode("ALREADY_EXISTS"))
	assert.Equal(t, ErrCodeForbidden, NormalizeErrorCode("FORBIDDEN"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode("INVALID_TITLE"))
	// unknown codes pass through unchanged
	assert.Equal(t, "SOMETHING_ELSE", NormalizeErrorCode("SOMETHING_ELSE"))
}

func TestDomainErrorStatusRoundTrip(t *testing.T) {
	// a domain validation code must land on 400 after normalization
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(NormalizeErrorCode("INVALID_NAME")))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(NormalizeErrorCode("ALREADY_EXISTS")))
}
