package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/project"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/tracing"
)

// ProjectHandler handles project CRUD operations
type ProjectHandler struct {
	projectRepo project.ProjectRepository
	logger      ectologger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectRepo project.ProjectRepository, logger ectologger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// RegisterRoutes registers project routes
func (h *ProjectHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/projects", h.List)
	g.POST("/projects", h.Create)
	g.GET("/projects/:id", h.Get)
	g.PUT("/projects/:id", h.Update)
	g.DELETE("/projects/:id", h.Delete)
}

// List returns all projects, most recently created first
func (h *ProjectHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.List")
	defer span.End()

	items, err := h.projectRepo.List(ctx)
	if err != nil {
		return passthrough(err, "failed to list projects")
	}

	return SuccessResponse(c, models.ProjectListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// Create creates a new project
func (h *ProjectHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.Create")
	defer span.End()

	var req models.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	result, err := h.projectRepo.Create(ctx, req)
	if err != nil {
		return passthrough(err, "failed to create project")
	}

	return CreatedResponse(c, models.ProjectResponse{Project: *result})
}

// Get returns a single project by ID
func (h *ProjectHandler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.Get")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.projectRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get project")
	}
	if result == nil {
		return NotFound("project not found")
	}

	return SuccessResponse(c, models.ProjectResponse{Project: *result})
}

// Update updates a project
func (h *ProjectHandler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.Update")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	existing, err := h.projectRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get project")
	}
	if existing == nil {
		return NotFound("project not found")
	}

	result, err := h.projectRepo.Update(ctx, id, req)
	if err != nil {
		return passthrough(err, "failed to update project")
	}

	return SuccessResponse(c, models.ProjectResponse{Project: *result})
}

// Delete deletes a project and, through the schema, its equipment list
func (h *ProjectHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "project_handler.Delete")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.projectRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get project")
	}
	if existing == nil {
		return NotFound("project not found")
	}

	if err := h.projectRepo.Delete(ctx, id); err != nil {
		return passthrough(err, "failed to delete project")
	}

	return NoContentResponse(c)
}
