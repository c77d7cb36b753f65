package models

import "time"

// Phase is the delivery phase a project is in.
type Phase string

const (
	PhaseDesign       Phase = "Design"
	PhaseBid          Phase = "Bid"
	PhaseConstruction Phase = "Construction"
	PhaseCloseout     Phase = "Closeout"
)

// Project is an engineering project that references catalog equipment.
type Project struct {
	ID   int64  `json:"project_id" db:"project_id"`
	Name string `json:"name" db:"name" validate:"required"`
	// Client is the owner or municipality the project is delivered for.
	Client    *string `json:"client,omitempty" db:"client"`
	JobNumber *string `json:"job_number,omitempty" db:"job_number"`
	Phase     *Phase  `json:"phase,omitempty" db:"phase"`
	CreatedAt time.Time `json:"created_date" db:"created_date"`
	Notes     *string `json:"notes,omitempty" db:"notes"`
}

// CreateProjectRequest is the request body for creating a project
type CreateProjectRequest struct {
	Name      string  `json:"name" validate:"required"`
	Client    *string `json:"client,omitempty"`
	JobNumber *string `json:"job_number,omitempty"`
	Phase     *Phase  `json:"phase,omitempty" validate:"omitempty,oneof=Design Bid Construction Closeout"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateProjectRequest is the request body for updating a project. Only the
// fields set here are mutable; anything else on the row is fixed after create.
type UpdateProjectRequest struct {
	Name      *string `json:"name,omitempty"`
	Client    *string `json:"client,omitempty"`
	JobNumber *string `json:"job_number,omitempty"`
	Phase     *Phase  `json:"phase,omitempty" validate:"omitempty,oneof=Design Bid Construction Closeout"`
	Notes     *string `json:"notes,omitempty"`
}

// ProjectResponse is the API response for project operations
type ProjectResponse struct {
	Project
}

// ProjectListResponse is the API response for listing projects
type ProjectListResponse struct {
	Items      []Project `json:"items"`
	TotalCount int       `json:"total_count"`
}
