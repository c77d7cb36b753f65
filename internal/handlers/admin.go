package handlers

import (
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/document"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/equipment"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/instance"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/project"
	"github.com/ShawnLiGH/wwtp-equipment-tool/internal/repositories/quote"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/database"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/tracing"
)

// AdminHandler handles database maintenance operations
type AdminHandler struct {
	migrations    *database.MigrationService
	projectRepo   project.ProjectRepository
	equipmentRepo equipment.EquipmentRepository
	instanceRepo  instance.InstanceRepository
	quoteRepo     quote.QuoteRepository
	documentRepo  document.DocumentRepository
	logger        ectologger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	migrations *database.MigrationService,
	projectRepo project.ProjectRepository,
	equipmentRepo equipment.EquipmentRepository,
	instanceRepo instance.InstanceRepository,
	quoteRepo quote.QuoteRepository,
	documentRepo document.DocumentRepository,
	logger ectologger.Logger,
) *AdminHandler {
	return &AdminHandler{
		migrations:    migrations,
		projectRepo:   projectRepo,
		equipmentRepo: equipmentRepo,
		instanceRepo:  instanceRepo,
		quoteRepo:     quoteRepo,
		documentRepo:  documentRepo,
		logger:        logger,
	}
}

// RegisterRoutes registers admin routes
func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/admin/reset", h.Reset)
	g.GET("/admin/stats", h.Stats)
}

// StatsResponse reports row counts per table
type StatsResponse struct {
	Projects         int `json:"projects"`
	Equipment        int `json:"equipment"`
	ProjectEquipment int `json:"project_equipment"`
	Quotes           int `json:"quotes"`
	Documents        int `json:"documents"`
}

// Reset drops every table and recreates the schema empty. It destroys all
// data and therefore requires ?confirm=true.
func (h *AdminHandler) Reset(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "admin_handler.Reset")
	defer span.End()

	if c.QueryParam("confirm") != "true" {
		return BadRequest("reset destroys all data; repeat the request with ?confirm=true")
	}

	h.logger.WithContext(ctx).Warn("resetting database")

	if err := h.migrations.Reset(); err != nil {
		return passthrough(err, "failed to reset database")
	}

	return SuccessResponse(c, map[string]string{"message": "database reset"})
}

// Stats returns row counts for every table
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "admin_handler.Stats")
	defer span.End()

	var stats StatsResponse
	var err error

	if stats.Projects, err = h.projectRepo.Count(ctx); err != nil {
		return passthrough(err, "failed to count projects")
	}
	if stats.Equipment, err = h.equipmentRepo.Count(ctx); err != nil {
		return passthrough(err, "failed to count equipment")
	}
	if stats.ProjectEquipment, err = h.instanceRepo.Count(ctx); err != nil {
		return passthrough(err, "failed to count project equipment")
	}
	if stats.Quotes, err = h.quoteRepo.Count(ctx); err != nil {
		return passthrough(err, "failed to count quotes")
	}
	if stats.Documents, err = h.documentRepo.Count(ctx); err != nil {
		return passthrough(err, "failed to count documents")
	}

	return SuccessResponse(c, stats)
}
