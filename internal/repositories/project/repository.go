package project

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/database"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/models"
	"github.com/ShawnLiGH/wwtp-equipment-tool/pkg/tracing"
)

// ProjectRepository defines the interface for project operations
type ProjectRepository interface {
	Create(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, id int64, req models.UpdateProjectRequest) (*models.Project, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Repository implements ProjectRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new project repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "projects"

var columns = []string{"project_id", "name", "client", "job_number", "phase", "created_date", "notes"}

// Create inserts a new project and returns the stored row.
func (r *Repository) Create(ctx context.Context, req models.CreateProjectRequest) (*models.Project, error) {
	ctx, span := tracing.StartSpan(ctx, "ProjectRepository.Create")
	defer span.End()

	now := time.Now()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("name", "client", "job_number", "phase", "created_date", "notes")
	sb.Values(req.Name, req.Client, req.JobNumber, req.Phase, now, req.Notes)

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusConflict, "a project with job number %q already exists", deref(req.JobNumber))
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to create project")
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read generated project id: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"project_id": id,
		"name":       req.Name,
	}).Info("created project")

	return r.GetByID(ctx, id)
}

// GetByID gets a project by ID. Returns nil when no matching row exists.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	ctx, span := tracing.StartSpan(ctx, "ProjectRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("project_id", id))

	query, args := sb.Build()

	var p models.Project
	err := r.db.GetContext(ctx, &p, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get project by ID")
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &p, nil
}

// List returns all projects, most recently created first.
func (r *Repository) List(ctx context.Context) ([]models.Project, error) {
	ctx, span := tracing.StartSpan(ctx, "ProjectRepository.List")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.OrderBy("created_date DESC")

	query, args := sb.Build()

	var items []models.Project
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list projects")
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return items, nil
}

// Update applies the set fields of req to the project. A request with no
// fields set is a no-op and returns the row untouched.
func (r *Repository) Update(ctx context.Context, id int64, req models.UpdateProjectRequest) (*models.Project, error) {
	ctx, span := tracing.StartSpan(ctx, "ProjectRepository.Update")
	defer span.End()

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)

	assignments := []string{}
	if req.Name != nil {
		assignments = append(assignments, sb.Assign("name", *req.Name))
	}
	if req.Client != nil {
		assignments = append(assignments, sb.Assign("client", *req.Client))
	}
	if req.JobNumber != nil {
		assignments = append(assignments, sb.Assign("job_number", *req.JobNumber))
	}
	if req.Phase != nil {
		assignments = append(assignments, sb.Assign("phase", *req.Phase))
	}
	if req.Notes != nil {
		assignments = append(assignments, sb.Assign("notes", *req.Notes))
	}

	if len(assignments) == 0 {
		return r.GetByID(ctx, id)
	}

	sb.Set(assignments...)
	sb.Where(sb.Equal("project_id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusConflict, "a project with job number %q already exists", deref(req.JobNumber))
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to update project")
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"project_id":    id,
		"rows_affected": rowsAffected,
	}).Info("updated project")

	return r.GetByID(ctx, id)
}

// Delete removes a project. Its equipment instances go with it (cascade).
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "ProjectRepository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(sb.Equal("project_id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete project")
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"project_id":    id,
		"rows_affected": rowsAffected,
	}).Info("deleted project")

	return nil
}

// Count returns the total number of projects.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "ProjectRepository.Count")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From(tableName)

	query, args := sb.Build()

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count projects")
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}

	return count, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
