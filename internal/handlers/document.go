package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/document"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/equipment"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/tracing"
)

// DocumentHandler handles equipment document metadata operations
type DocumentHandler struct {
	documentRepo  document.DocumentRepository
	equipmentRepo equipment.EquipmentRepository
	logger        ectologger.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentRepo document.DocumentRepository, equipmentRepo equipment.EquipmentRepository, logger ectologger.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentRepo:  documentRepo,
		equipmentRepo: equipmentRepo,
		logger:        logger,
	}
}

// RegisterRoutes registers document routes
func (h *DocumentHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/equipment/:id/documents", h.ListByEquipment)
	g.POST("/documents", h.Create)
	g.GET("/documents/:id", h.Get)
	g.PUT("/documents/:id", h.Update)
	g.DELETE("/documents/:id", h.Delete)
}

// ListByEquipment returns documents for a catalog entry, newest upload first,
// optionally filtered by ?type=
func (h *DocumentHandler) ListByEquipment(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "document_handler.ListByEquipment")
	defer span.End()

	equipmentID, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	e, err := h.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return passthrough(err, "failed to get equipment")
	}
	if e == nil {
		return NotFound("equipment not found")
	}

	items, err := h.documentRepo.ListByEquipment(ctx, equipmentID, c.QueryParam("type"))
	if err != nil {
		return passthrough(err, "failed to list documents")
	}

	return SuccessResponse(c, models.DocumentListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// Create registers document metadata against a catalog entry
func (h *DocumentHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "document_handler.Create")
	defer span.End()

	var req models.CreateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	result, err := h.documentRepo.Create(ctx, req)
	if err != nil {
		return passthrough(err, "failed to create document")
	}

	return CreatedResponse(c, models.DocumentResponse{Document: *result})
}

// Get returns a single document record by ID
func (h *DocumentHandler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "document_handler.Get")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.documentRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get document")
	}
	if result == nil {
		return NotFound("document not found")
	}

	return SuccessResponse(c, models.DocumentResponse{Document: *result})
}

// Update updates a document record
func (h *DocumentHandler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "document_handler.Update")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	existing, err := h.documentRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get document")
	}
	if existing == nil {
		return NotFound("document not found")
	}

	result, err := h.documentRepo.Update(ctx, id, req)
	if err != nil {
		return passthrough(err, "failed to update document")
	}

	return SuccessResponse(c, models.DocumentResponse{Document: *result})
}

// Delete removes a document record, leaving the file on disk alone
func (h *DocumentHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "document_handler.Delete")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.documentRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get document")
	}
	if existing == nil {
		return NotFound("document not found")
	}

	if err := h.documentRepo.Delete(ctx, id); err != nil {
		return passthrough(err, "failed to delete document")
	}

	return NoContentResponse(c)
}
