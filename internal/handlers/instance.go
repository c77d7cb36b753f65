package handlers

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/instance"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/project"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/quote"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/tracing"
)

// InstanceHandler handles project equipment list operations
type InstanceHandler struct {
	instanceRepo instance.InstanceRepository
	projectRepo  project.ProjectRepository
	quoteRepo    quote.QuoteRepository
	logger       ectologger.Logger
}

// NewInstanceHandler creates a new instance handler
func NewInstanceHandler(
	instanceRepo instance.InstanceRepository,
	projectRepo project.ProjectRepository,
	quoteRepo quote.QuoteRepository,
	logger ectologger.Logger,
) *InstanceHandler {
	return &InstanceHandler{
		instanceRepo: instanceRepo,
		projectRepo:  projectRepo,
		quoteRepo:    quoteRepo,
		logger:       logger,
	}
}

// RegisterRoutes registers instance routes
func (h *InstanceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/projects/:id/equipment", h.ListByProject)
	g.POST("/project-equipment", h.Create)
	g.GET("/project-equipment/:id", h.Get)
	g.PUT("/project-equipment/:id", h.Update)
	g.DELETE("/project-equipment/:id", h.Delete)
}

// ListByProject returns a project's equipment list joined with catalog and
// selected quote data, ordered by P&ID tag
func (h *InstanceHandler) ListByProject(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "instance_handler.ListByProject")
	defer span.End()

	projectID, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	proj, err := h.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return passthrough(err, "failed to get project")
	}
	if proj == nil {
		return NotFound("project not found")
	}

	items, err := h.instanceRepo.ListByProject(ctx, projectID)
	if err != nil {
		return passthrough(err, "failed to list project equipment")
	}

	return SuccessResponse(c, models.ProjectEquipmentListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// Create places a catalog equipment item on a project
func (h *InstanceHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "instance_handler.Create")
	defer span.End()

	var req models.CreateProjectEquipmentRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	if req.SelectedQuoteID != nil {
		if err := h.checkQuoteMatch(c, *req.SelectedQuoteID, req.EquipmentID); err != nil {
			return err
		}
	}

	result, err := h.instanceRepo.Create(ctx, req)
	if err != nil {
		return passthrough(err, "failed to create project equipment")
	}

	return CreatedResponse(c, models.ProjectEquipmentResponse{ProjectEquipment: *result})
}

// Get returns a single instance by ID
func (h *InstanceHandler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "instance_handler.Get")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.instanceRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get project equipment")
	}
	if result == nil {
		return NotFound("project equipment not found")
	}

	return SuccessResponse(c, models.ProjectEquipmentResponse{ProjectEquipment: *result})
}

// Update updates an instance. Selecting a quote requires the quote to belong
// to the instance's equipment item.
func (h *InstanceHandler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "instance_handler.Update")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateProjectEquipmentRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	existing, err := h.instanceRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get project equipment")
	}
	if existing == nil {
		return NotFound("project equipment not found")
	}

	if req.SelectedQuoteID != nil && !req.ClearSelectedQuote {
		if err := h.checkQuoteMatch(c, *req.SelectedQuoteID, existing.EquipmentID); err != nil {
			return err
		}
	}

	result, err := h.instanceRepo.Update(ctx, id, req)
	if err != nil {
		return passthrough(err, "failed to update project equipment")
	}

	return SuccessResponse(c, models.ProjectEquipmentResponse{ProjectEquipment: *result})
}

// Delete removes an instance from its project
func (h *InstanceHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "instance_handler.Delete")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.instanceRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get project equipment")
	}
	if existing == nil {
		return NotFound("project equipment not found")
	}

	if err := h.instanceRepo.Delete(ctx, id); err != nil {
		return passthrough(err, "failed to delete project equipment")
	}

	return NoContentResponse(c)
}

// checkQuoteMatch rejects quote selections that point at a quote for a
// different catalog item.
func (h *InstanceHandler) checkQuoteMatch(c echo.Context, quoteID, equipmentID int64) error {
	ctx := c.Request().Context()

	q, err := h.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		return passthrough(err, "failed to get quote")
	}
	if q == nil {
		return BadRequest("selected quote does not exist")
	}
	if q.EquipmentID != equipmentID {
		return httperror.NewHTTPErrorf(http.StatusBadRequest, "quote %d is for a different equipment item", quoteID)
	}

	return nil
}
