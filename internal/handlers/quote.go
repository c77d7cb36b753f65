package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/equipment"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/quote"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/tracing"
)

// QuoteHandler handles vendor quote operations
type QuoteHandler struct {
	quoteRepo     quote.QuoteRepository
	equipmentRepo equipment.EquipmentRepository
	logger        ectologger.Logger
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteRepo quote.QuoteRepository, equipmentRepo equipment.EquipmentRepository, logger ectologger.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteRepo:     quoteRepo,
		equipmentRepo: equipmentRepo,
		logger:        logger,
	}
}

// RegisterRoutes registers quote routes
func (h *QuoteHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/equipment/:id/quotes", h.ListByEquipment)
	g.GET("/equipment/:id/quotes/current", h.GetCurrent)
	g.POST("/quotes", h.Create)
	g.GET("/quotes/:id", h.Get)
	g.PUT("/quotes/:id", h.Update)
	g.DELETE("/quotes/:id", h.Delete)
}

// ListByEquipment returns all quotes for a catalog entry, newest first
func (h *QuoteHandler) ListByEquipment(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "quote_handler.ListByEquipment")
	defer span.End()

	equipmentID, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.checkEquipment(c, equipmentID); err != nil {
		return err
	}

	items, err := h.quoteRepo.ListByEquipment(ctx, equipmentID)
	if err != nil {
		return passthrough(err, "failed to list quotes")
	}

	return SuccessResponse(c, models.QuoteListResponse{
		Items:      items,
		TotalCount: len(items),
	})
}

// GetCurrent returns the quote flagged current for a catalog entry
func (h *QuoteHandler) GetCurrent(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "quote_handler.GetCurrent")
	defer span.End()

	equipmentID, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.checkEquipment(c, equipmentID); err != nil {
		return err
	}

	result, err := h.quoteRepo.GetCurrent(ctx, equipmentID)
	if err != nil {
		return passthrough(err, "failed to get current quote")
	}
	if result == nil {
		return NotFound("no current quote for this equipment")
	}

	return SuccessResponse(c, models.QuoteResponse{Quote: *result})
}

// Create records a vendor quote
func (h *QuoteHandler) Create(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "quote_handler.Create")
	defer span.End()

	var req models.CreateQuoteRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	result, err := h.quoteRepo.Create(ctx, req)
	if err != nil {
		return passthrough(err, "failed to create quote")
	}

	return CreatedResponse(c, models.QuoteResponse{Quote: *result})
}

// Get returns a single quote by ID
func (h *QuoteHandler) Get(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "quote_handler.Get")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get quote")
	}
	if result == nil {
		return NotFound("quote not found")
	}

	return SuccessResponse(c, models.QuoteResponse{Quote: *result})
}

// Update updates a quote
func (h *QuoteHandler) Update(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "quote_handler.Update")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdateQuoteRequest
	if err := c.Bind(&req); err != nil {
		return BadRequest("invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return BadRequest(err.Error())
	}

	existing, err := h.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get quote")
	}
	if existing == nil {
		return NotFound("quote not found")
	}

	result, err := h.quoteRepo.Update(ctx, id, req)
	if err != nil {
		return passthrough(err, "failed to update quote")
	}

	return SuccessResponse(c, models.QuoteResponse{Quote: *result})
}

// Delete removes a quote; instances that selected it lose the selection
func (h *QuoteHandler) Delete(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "quote_handler.Delete")
	defer span.End()

	id, err := ParseID(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return passthrough(err, "failed to get quote")
	}
	if existing == nil {
		return NotFound("quote not found")
	}

	if err := h.quoteRepo.Delete(ctx, id); err != nil {
		return passthrough(err, "failed to delete quote")
	}

	return NoContentResponse(c)
}

func (h *QuoteHandler) checkEquipment(c echo.Context, equipmentID int64) error {
	ctx := c.Request().Context()

	e, err := h.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return passthrough(err, "failed to get equipment")
	}
	if e == nil {
		return NotFound("equipment not found")
	}

	return nil
}
