package project

import "github.com/promanage/backend/internal/domain/project"

// CreateProjectInput carries the fields needed to create a project
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput carries optional field changes. Nil means unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *project.Status
}
