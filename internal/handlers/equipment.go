package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/equipment"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/tracing"
)

// EquipmentHandler handles catalog equipment operations
type EquipmentHandler struct {
	equipmentRepo equipment.EquipmentRepository
	logger        ectologger.Logger
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(equipmentRepo equipment.EquipmentRepository, logger ectologger.Logger) *EquipmentHandler {
	return &EquipmentHandler{
		equipmentRepo: equipmentRepo,
		logger:        logger,
	}
}

// RegisterRoutes registers equipment routes
func (h *EquipmentHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/equipment", h.List)
	g.POST("/equipment", h.Create)
	g.GET("/equipment/search", h.Search)
	g.GET("/equipment/types", h.Types)
	g.GET("/equipment/:id", h.Get)
	g.PUT("/equipment/:id", h.Update)
	g.DELETE("/equipment/:id", h.Delete)
}

// List returns catalog equipment, optionally filtered by ?type=
func (h *EquipmentHandler) List(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "equipment_handler.List")
	defer span.End()

	items, err := h.equipmentRepo.List(ctx, c.QueryParam("type"))
	if err != nil {
		return passthrough(err, "failed to list equipment")
	}

	return SuccessResponse(c, models.EquipmentListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// Search matches ?q= against manufacturer, model and type
func (h *EquipmentHandler) Search(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "equipment_handler.Search")
	defer span.End()

	term := c.QueryParam("q")
	if term == "" {
		return BadRequest("missing search term q")
	}

	items, err := h.equipmentRepo.Search(ctx, term)
	if err != nil {
		return passthrough(err, "failed to search equipment")
	}

	return SuccessResponse(c, models.EquipmentListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// Types returns the distinct equipment types present in the catalog
func (h *EquipmentHandler) Types(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "equipment_handler.Types")
	defer span.End()

	types, err := h.equipmentRepo.Types(ctx)
	if err != nil {
		return passthrough(err, "failed to list equipment types")
	}

	return SuccessResponse(c, models.EquipmentTypesResponse{Types: types})
}

// Create adds a new catalog entry
func (h *EquipmentHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "equipment_handler.Create")
	defer span.End()

	var req models.CreateEquipmentRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	result, err := h.equipmentRepo.Create(ctx, req)
	if err != nil {
		return passthrough(err, "failed to create equipment")
	}

	return CreatedResponse(c, models.EquipmentResponse{Equipment: *result})
}

// Get returns a single catalog entry by ID
func (h *EquipmentHandler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "equipment_handler.Get")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get equipment")
	}
	if result == nil {
		return NotFound("equipment not found")
	}

	return SuccessResponse(c, models.EquipmentResponse{Equipment: *result})
}

// Update updates a catalog entry
func (h *EquipmentHandler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "equipment_handler.Update")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateEquipmentRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	existing, err := h.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get equipment")
	}
	if existing == nil {
		return NotFound("equipment not found")
	}

	result, err := h.equipmentRepo.Update(ctx, id, req)
	if err != nil {
		return passthrough(err, "failed to update equipment")
	}

	return SuccessResponse(c, models.EquipmentResponse{Equipment: *result})
}

// Delete removes a catalog entry unless a project still uses it
func (h *EquipmentHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "equipment_handler.Delete")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get equipment")
	}
	if existing == nil {
		return NotFound("equipment not found")
	}

	if err := h.equipmentRepo.Delete(ctx, id); err != nil {
		return passthrough(err, "failed to delete equipment")
	}

	return NoContentResponse(c)
}
