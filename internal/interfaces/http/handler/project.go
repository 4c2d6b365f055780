package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appproject "github.com/promanage/backend/internal/application/project"
	"github.com/promanage/backend/internal/domain/project"
)

// ProjectHandler serves project CRUD
type ProjectHandler struct {
	BaseHandler
	projects *appproject.Service
}

// NewProjectHandler creates a project handler
func NewProjectHandler(projects *appproject.Service) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "name is required")
		return
	}

	p, err := h.projects.Create(c.Request.Context(), actorID, appproject.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	list, err := h.projects.List(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid project id")
		return
	}

	p, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Update handles PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid project id")
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "invalid request body")
		return
	}

	in := appproject.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Status != nil {
		status := project.Status(*req.Status)
		in.Status = &status
	}

	p, err := h.projects.Update(c.Request.Context(), actorID, id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete handles DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid project id")
		return
	}

	if err := h.projects.Delete(c.Request.Context(), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
