package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/promanage/backend/internal/application/identity"
	"github.com/promanage/backend/internal/domain/identity"
)

// EmployeeHandler serves manager-driven employee onboarding
type EmployeeHandler struct {
	BaseHandler
	identity *appidentity.Service
}

// NewEmployeeHandler creates an employee handler
func NewEmployeeHandler(identity *appidentity.Service) *EmployeeHandler {
	return &EmployeeHandler{identity: identity}
}

type createEmployeeRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password"`
}

// CreateEmployee handles POST /api/employees/create-employee
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "email and full_name are required")
		return
	}

	result, err := h.identity.CreateEmployee(c.Request.Context(), actorID, appidentity.CreateEmployeeInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ListEmployees handles GET /api/employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	employees, err := h.identity.ListEmployees(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employees)
}

// UpdatePreferences handles PUT /api/profile/preferences
func (h *EmployeeHandler) UpdatePreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var prefs identity.NotificationPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		h.BadRequest(c, "invalid preferences payload")
		return
	}

	profile, err := h.identity.UpdatePreferences(c.Request.Context(), userID, prefs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}
