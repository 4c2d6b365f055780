package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/promanage/backend/internal/application/identity"
)

// AuthHandler serves login
type AuthHandler struct {
	BaseHandler
	identity *appidentity.Service
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(identity *appidentity.Service) *AuthHandler {
	return &AuthHandler{identity: identity}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "email and password are required")
		return
	}

	result, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
