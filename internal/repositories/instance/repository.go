package instance

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/database"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"
)

// InstanceRepository defines the interface for project equipment instances
type InstanceRepository interface {
	Create(ctx context.Context, req models.CreateProjectEquipmentRequest) (*models.ProjectEquipment, error)
	GetByID(ctx context.Context, id int64) (*models.ProjectEquipment, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.ProjectEquipmentDetail, error)
	Update(ctx context.Context, id int64, req models.UpdateProjectEquipmentRequest) (*models.ProjectEquipment, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Repository implements InstanceRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new instance repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "project_equipment"

var columns = []string{
	"instance_id", "project_id", "equipment_id", "pid_tag", "status",
	"quantity", "location", "notes", "selected_quote_id",
}

// Create places a catalog equipment item on a project. Status defaults to
// "new" and quantity to 1 when the request leaves them empty.
func (r *Repository) Create(ctx context.Context, req models.CreateProjectEquipmentRequest) (*models.ProjectEquipment, error) {
	ctx, span := tracing.StartSpan(ctx, "InstanceRepository.Create")
	defer span.End()

	status := req.Status
	if status == "" {
		status = models.StatusNew
	}
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("project_id", "equipment_id", "pid_tag", "status", "quantity", "location", "notes", "selected_quote_id")
	sb.Values(req.ProjectID, req.EquipmentID, req.PIDTag, status, quantity, req.Location, req.Notes, req.SelectedQuoteID)

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusConflict, "tag %q is already used in project %d", derefString(req.PIDTag), req.ProjectID)
		}
		if database.IsForeignKeyViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "project, equipment or quote reference does not exist")
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to create project equipment")
		return nil, fmt.Errorf("failed to create project equipment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read generated instance id: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"instance_id":  id,
		"project_id":   req.ProjectID,
		"equipment_id": req.EquipmentID,
	}).Info("created project equipment")

	return r.GetByID(ctx, id)
}

// GetByID gets an instance by ID. Returns nil when no matching row exists.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.ProjectEquipment, error) {
	ctx, span := tracing.StartSpan(ctx, "InstanceRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("instance_id", id))

	query, args := sb.Build()

	var pe models.ProjectEquipment
	err := r.db.GetContext(ctx, &pe, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get project equipment by ID")
		return nil, fmt.Errorf("failed to get project equipment: %w", err)
	}

	return &pe, nil
}

// ListByProject returns a project's equipment list joined with catalog data
// and the selected quote, ordered by P&ID tag.
func (r *Repository) ListByProject(ctx context.Context, projectID int64) ([]models.ProjectEquipmentDetail, error) {
	ctx, span := tracing.StartSpan(ctx, "InstanceRepository.ListByProject")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(
		"pe.instance_id", "pe.project_id", "pe.equipment_id", "pe.pid_tag", "pe.status",
		"pe.quantity", "pe.location", "pe.notes", "pe.selected_quote_id",
		"em.manufacturer", "em.model", "em.equipment_type", "em.equipment_subtype",
		"em.power_hp", "em.flow_gpm", "em.head_ft",
		"q.vendor", "q.price", "q.currency", "q.lead_time_weeks",
	)
	sb.From(tableName + " pe")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "equipment_master em", "pe.equipment_id = em.equipment_id")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "quotes q", "pe.selected_quote_id = q.quote_id")
	sb.Where(sb.Equal("pe.project_id", projectID))
	sb.OrderBy("pe.pid_tag")

	query, args := sb.Build()

	var items []models.ProjectEquipmentDetail
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list project equipment")
		return nil, fmt.Errorf("failed to list project equipment: %w", err)
	}

	return items, nil
}

// Update applies the set fields of req to the instance. ClearSelectedQuote
// nulls the quote selection and wins over SelectedQuoteID. A request with no
// fields set is a no-op and returns the row untouched.
func (r *Repository) Update(ctx context.Context, id int64, req models.UpdateProjectEquipmentRequest) (*models.ProjectEquipment, error) {
	ctx, span := tracing.StartSpan(ctx, "InstanceRepository.Update")
	defer span.End()

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)

	assignments := []string{}
	if req.PIDTag != nil {
		assignments = append(assignments, sb.Assign("pid_tag", *req.PIDTag))
	}
	if req.Status != nil {
		assignments = append(assignments, sb.Assign("status", *req.Status))
	}
	if req.Quantity != nil {
		assignments = append(assignments, sb.Assign("quantity", *req.Quantity))
	}
	if req.Location != nil {
		assignments = append(assignments, sb.Assign("location", *req.Location))
	}
	if req.Notes != nil {
		assignments = append(assignments, sb.Assign("notes", *req.Notes))
	}
	if req.ClearSelectedQuote {
		assignments = append(assignments, sb.Assign("selected_quote_id", nil))
	} else if req.SelectedQuoteID != nil {
		assignments = append(assignments, sb.Assign("selected_quote_id", *req.SelectedQuoteID))
	}

	if len(assignments) == 0 {
		return r.GetByID(ctx, id)
	}

	sb.Set(assignments...)
	sb.Where(sb.Equal("instance_id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusConflict, "tag %q is already used in this project", derefString(req.PIDTag))
		}
		if database.IsForeignKeyViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "selected quote does not exist")
		}
		if database.IsCheckViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid status or quantity")
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to update project equipment")
		return nil, fmt.Errorf("failed to update project equipment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"instance_id":   id,
		"rows_affected": rowsAffected,
	}).Info("updated project equipment")

	return r.GetByID(ctx, id)
}

// Delete removes an instance from its project. The catalog entry, quotes and
// documents are untouched.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "InstanceRepository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(sb.Equal("instance_id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete project equipment")
		return fmt.Errorf("failed to delete project equipment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"instance_id":   id,
		"rows_affected": rowsAffected,
	}).Info("deleted project equipment")

	return nil
}

// Count returns the total number of instances across all projects.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "InstanceRepository.Count")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From(tableName)

	query, args := sb.Build()

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count project equipment")
		return 0, fmt.Errorf("failed to count project equipment: %w", err)
	}

	return count, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
