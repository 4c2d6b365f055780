package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/promanage/backend/internal/domain/shared"
	"github.com/promanage/backend/internal/interfaces/http/dto"
	"github.com/promanage/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getUserID extracts the user ID from JWT claims or returns an error
func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr := middleware.GetJWTUserID(c)
	if userIDStr == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return uuid.Parse(userIDStr)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// Conflict sends a 409 conflict response
func (h *BaseHandler) Conflict(c *gin.Context, message string) {
	h.Error(c, http.StatusConflict, dto.ErrCodeConflict, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, domainErr.Message))
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
