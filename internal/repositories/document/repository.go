package document

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
)

// DocumentRepository defines the interface for equipment document metadata
type DocumentRepository interface {
	Create(ctx context.Context, req models.CreateDocumentRequest) (*models.Document, error)
	GetByID(ctx context.Context, id int64) (*models.Document, error)
	ListByEquipment(ctx context.Context, equipmentID int64, documentType string) ([]models.Document, error)
	Update(ctx context.Context, id int64, req models.UpdateDocumentRequest) (*models.Document, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Repository implements DocumentRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new document repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "documents"

var columns = []string{
	"document_id", "equipment_id", "document_type", "file_name", "file_path",
	"file_size_kb", "version", "document_date", "notes", "uploaded_date",
}

// Create registers document metadata against a catalog entry. The underlying
// file is managed elsewhere.
func (r *Repository) Create(ctx context.Context, req models.CreateDocumentRequest) (*models.Document, error) {
	ctx, span := tracing.StartSpan(ctx, "DocumentRepository.Create")
	defer span.End()

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("equipment_id", "document_type", "file_name", "file_path", "file_size_kb", "version", "document_date", "notes")
	sb.Values(req.EquipmentID, req.DocumentType, req.FileName, req.FilePath, req.FileSizeKB, req.Version, req.DocumentDate, req.Notes)

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "equipment %d does not exist", req.EquipmentID)
		}
		if database.IsCheckViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid document type %q", req.DocumentType)
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to create document")
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read generated document id: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id":  id,
		"equipment_id": req.EquipmentID,
		"file_name":    req.FileName,
	}).Info("created document")

	return r.GetByID(ctx, id)
}

// GetByID gets a document by ID. Returns nil when no matching row exists.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	ctx, span := tracing.StartSpan(ctx, "DocumentRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("document_id", id))

	query, args := sb.Build()

	var d models.Document
	err := r.db.GetContext(ctx, &d, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get document by ID")
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &d, nil
}

// ListByEquipment returns documents for a catalog entry, newest upload first,
// optionally filtered by document type.
func (r *Repository) ListByEquipment(ctx context.Context, equipmentID int64, documentType string) ([]models.Document, error) {
	ctx, span := tracing.StartSpan(ctx, "DocumentRepository.ListByEquipment")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("equipment_id", equipmentID))
	if documentType != "" {
		sb.Where(sb.Equal("document_type", documentType))
	}
	sb.OrderBy("uploaded_date DESC")

	query, args := sb.Build()

	var items []models.Document
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list documents")
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return items, nil
}

// Update applies the set fields of req to the document record. A request with
// no fields set is a no-op and returns the row untouched.
func (r *Repository) Update(ctx context.Context, id int64, req models.UpdateDocumentRequest) (*models.Document, error) {
	ctx, span := tracing.StartSpan(ctx, "DocumentRepository.Update")
	defer span.End()

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)

	assignments := []string{}
	if req.DocumentType != nil {
		assignments = append(assignments, sb.Assign("document_type", *req.DocumentType))
	}
	if req.FileName != nil {
		assignments = append(assignments, sb.Assign("file_name", *req.FileName))
	}
	if req.FilePath != nil {
		assignments = append(assignments, sb.Assign("file_path", *req.FilePath))
	}
	if req.FileSizeKB != nil {
		assignments = append(assignments, sb.Assign("file_size_kb", *req.FileSizeKB))
	}
	if req.Version != nil {
		assignments = append(assignments, sb.Assign("version", *req.Version))
	}
	if req.DocumentDate != nil {
		assignments = append(assignments, sb.Assign("document_date", *req.DocumentDate))
	}
	if req.Notes != nil {
		assignments = append(assignments, sb.Assign("notes", *req.Notes))
	}

	if len(assignments) == 0 {
		return r.GetByID(ctx, id)
	}

	sb.Set(assignments...)
	sb.Where(sb.Equal("document_id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsCheckViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "invalid document type")
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to update document")
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id":   id,
		"rows_affected": rowsAffected,
	}).Info("updated document")

	return r.GetByID(ctx, id)
}

// Delete removes a document record. The file on disk is left alone.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "DocumentRepository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(sb.Equal("document_id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete document")
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id":   id,
		"rows_affected": rowsAffected,
	}).Info("deleted document")

	return nil
}

// Count returns the total number of document records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "DocumentRepository.Count")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From(tableName)

	query, args := sb.Build()

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count documents")
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}
