package equipment

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/database"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/tracing"
)

// EquipmentRepository defines the interface for catalog operations
type EquipmentRepository interface {
	Create(ctx context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error)
	GetByID(ctx context.Context, id int64) (*models.Equipment, error)
	List(ctx context.Context, equipmentType string) ([]models.Equipment, error)
	Search(ctx context.Context, term string) ([]models.Equipment, error)
	Types(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id int64, req models.UpdateEquipmentRequest) (*models.Equipment, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Repository implements EquipmentRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new equipment repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "equipment_master"

var columns = []string{
	"equipment_id", "manufacturer", "model", "equipment_type", "equipment_subtype",
	"power_hp", "flow_gpm", "head_ft", "voltage", "rpm",
	"power_hp_verified", "flow_gpm_verified", "head_ft_verified",
	"material", "connection_size", "weight_lbs", "notes", "created_date",
}

// Create inserts a new catalog entry and returns the stored row.
func (r *Repository) Create(ctx context.Context, req models.CreateEquipmentRequest) (*models.Equipment, error) {
	ctx, span := tracing.StartSpan(ctx, "EquipmentRepository.Create")
	defer span.End()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols(
		"manufacturer", "model", "equipment_type", "equipment_subtype",
		"power_hp", "flow_gpm", "head_ft", "voltage", "rpm",
		"power_hp_verified", "flow_gpm_verified", "head_ft_verified",
		"material", "connection_size", "weight_lbs", "notes",
	)
	sb.Values(
		req.Manufacturer, req.Model, req.EquipmentType, req.EquipmentSubtype,
		req.PowerHP, req.FlowGPM, req.HeadFt, req.Voltage, req.RPM,
		req.PowerHPVerified, req.FlowGPMVerified, req.HeadFtVerified,
		req.Material, req.ConnectionSize, req.WeightLbs, req.Notes,
	)

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusConflict, "equipment %s %s already exists in the catalog", req.Manufacturer, req.Model)
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to create equipment")
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read generated equipment id: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"equipment_id": id,
		"manufacturer": req.Manufacturer,
		"model":        req.Model,
	}).Info("created equipment")

	return r.GetByID(ctx, id)
}

// GetByID gets a catalog entry by ID. Returns nil when no matching row exists.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Equipment, error) {
	ctx, span := tracing.StartSpan(ctx, "EquipmentRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("equipment_id", id))

	query, args := sb.Build()

	var e models.Equipment
	err := r.db.GetContext(ctx, &e, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get equipment by ID")
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}

	return &e, nil
}

// List returns catalog entries ordered by manufacturer then model, optionally
// filtered to a single equipment type.
func (r *Repository) List(ctx context.Context, equipmentType string) ([]models.Equipment, error) {
	ctx, span := tracing.StartSpan(ctx, "EquipmentRepository.List")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	if equipmentType != "" {
		sb.Where(sb.Equal("equipment_type", equipmentType))
	}
	sb.OrderBy("manufacturer", "model")

	query, args := sb.Build()

	var items []models.Equipment
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list equipment")
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}

	return items, nil
}

// Search matches term case-insensitively against manufacturer, model and
// equipment type.
func (r *Repository) Search(ctx context.Context, term string) ([]models.Equipment, error) {
	ctx, span := tracing.StartSpan(ctx, "EquipmentRepository.Search")
	defer span.End()

	pattern := "%" + strings.ToLower(term) + "%"

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Or(
		sb.Like("LOWER(manufacturer)", pattern),
		sb.Like("LOWER(model)", pattern),
		sb.Like("LOWER(equipment_type)", pattern),
	))
	sb.OrderBy("manufacturer", "model")

	query, args := sb.Build()

	var items []models.Equipment
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to search equipment")
		return nil, fmt.Errorf("failed to search equipment: %w", err)
	}

	return items, nil
}

// Types returns the distinct equipment types present in the catalog.
func (r *Repository) Types(ctx context.Context) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "EquipmentRepository.Types")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("equipment_type")
	sb.From(tableName)
	sb.Distinct()
	sb.OrderBy("equipment_type")

	query, args := sb.Build()

	var types []string
	err := r.db.SelectContext(ctx, &types, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list equipment types")
		return nil, fmt.Errorf("failed to list equipment types: %w", err)
	}

	return types, nil
}

// Update applies the set fields of req to the catalog entry. A request with
// no fields set is a no-op and returns the row untouched.
func (r *Repository) Update(ctx context.Context, id int64, req models.UpdateEquipmentRequest) (*models.Equipment, error) {
	ctx, span := tracing.StartSpan(ctx, "EquipmentRepository.Update")
	defer span.End()

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)

	assignments := []string{}
	if req.Manufacturer != nil {
		assignments = append(assignments, sb.Assign("manufacturer", *req.Manufacturer))
	}
	if req.Model != nil {
		assignments = append(assignments, sb.Assign("model", *req.Model))
	}
	if req.EquipmentType != nil {
		assignments = append(assignments, sb.Assign("equipment_type", *req.EquipmentType))
	}
	if req.EquipmentSubtype != nil {
		assignments = append(assignments, sb.Assign("equipment_subtype", *req.EquipmentSubtype))
	}
	if req.PowerHP != nil {
		assignments = append(assignments, sb.Assign("power_hp", *req.PowerHP))
	}
	if req.FlowGPM != nil {
		assignments = append(assignments, sb.Assign("flow_gpm", *req.FlowGPM))
	}
	if req.HeadFt != nil {
		assignments = append(assignments, sb.Assign("head_ft", *req.HeadFt))
	}
	if req.Voltage != nil {
		assignments = append(assignments, sb.Assign("voltage", *req.Voltage))
	}
	if req.RPM != nil {
		assignments = append(assignments, sb.Assign("rpm", *req.RPM))
	}
	if req.PowerHPVerified != nil {
		assignments = append(assignments, sb.Assign("power_hp_verified", *req.PowerHPVerified))
	}
	if req.FlowGPMVerified != nil {
		assignments = append(assignments, sb.Assign("flow_gpm_verified", *req.FlowGPMVerified))
	}
	if req.HeadFtVerified != nil {
		assignments = append(assignments, sb.Assign("head_ft_verified", *req.HeadFtVerified))
	}
	if req.Material != nil {
		assignments = append(assignments, sb.Assign("material", *req.Material))
	}
	if req.ConnectionSize != nil {
		assignments = append(assignments, sb.Assign("connection_size", *req.ConnectionSize))
	}
	if req.WeightLbs != nil {
		assignments = append(assignments, sb.Assign("weight_lbs", *req.WeightLbs))
	}
	if req.Notes != nil {
		assignments = append(assignments, sb.Assign("notes", *req.Notes))
	}

	if len(assignments) == 0 {
		return r.GetByID(ctx, id)
	}

	sb.Set(assignments...)
	sb.Where(sb.Equal("equipment_id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusConflict, "another catalog entry already uses that manufacturer and model")
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to update equipment")
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"equipment_id":  id,
		"rows_affected": rowsAffected,
	}).Info("updated equipment")

	return r.GetByID(ctx, id)
}

// Delete removes a catalog entry. Entries still placed on a project are
// protected by the instance foreign key and surface as a conflict.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "EquipmentRepository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(sb.Equal("equipment_id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return httperror.NewHTTPErrorf(http.StatusConflict, "equipment %d is used by one or more projects and cannot be deleted", id)
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete equipment")
		return fmt.Errorf("failed to delete equipment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"equipment_id":  id,
		"rows_affected": rowsAffected,
	}).Info("deleted equipment")

	return nil
}

// Count returns the total number of catalog entries.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "EquipmentRepository.Count")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From(tableName)

	query, args := sb.Build()

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count equipment")
		return 0, fmt.Errorf("failed to count equipment: %w", err)
	}

	return count, nil
}
