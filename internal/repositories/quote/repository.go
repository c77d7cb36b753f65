package quote

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

// QuoteRepository defines the interface for vendor quote operations
type QuoteRepository interface {
	Create(ctx context.Context, req models.CreateQuoteRequest) (*models.Quote, error)
	GetByID(ctx context.Context, id int64) (*models.Quote, error)
	ListByEquipment(ctx context.Context, equipmentID int64) ([]models.Quote, error)
	GetCurrent(ctx context.Context, equipmentID int64) (*models.Quote, error)
	Update(ctx context.Context, id int64, req models.UpdateQuoteRequest) (*models.Quote, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Repository implements QuoteRepository
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new quote repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

const tableName = "quotes"

var columns = []string{
	"quote_id", "equipment_id", "vendor", "price", "currency", "lead_time_weeks",
	"quote_date", "quote_number", "quote_file_path", "is_current", "notes", "created_date",
}

// Create records a vendor quote for a catalog equipment item. Currency
// defaults to USD and is_current to true.
func (r *Repository) Create(ctx context.Context, req models.CreateQuoteRequest) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.Create")
	defer span.End()

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	isCurrent := true
	if req.IsCurrent != nil {
		isCurrent = *req.IsCurrent
	}

	sb := database.NewInsertBuilder()
	sb.InsertInto(tableName)
	sb.Cols("equipment_id", "vendor", "price", "currency", "lead_time_weeks", "quote_date", "quote_number", "quote_file_path", "is_current", "notes")
	sb.Values(req.EquipmentID, req.Vendor, req.Price, currency, req.LeadTimeWeeks, req.QuoteDate, req.QuoteNumber, req.QuoteFilePath, isCurrent, req.Notes)

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, httperror.NewHTTPErrorf(http.StatusBadRequest, "equipment %d does not exist", req.EquipmentID)
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to create quote")
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read generated quote id: %w", err)
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"quote_id":     id,
		"equipment_id": req.EquipmentID,
		"vendor":       req.Vendor,
	}).Info("created quote")

	return r.GetByID(ctx, id)
}

// GetByID gets a quote by ID. Returns nil when no matching row exists.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.GetByID")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("quote_id", id))

	query, args := sb.Build()

	var q models.Quote
	err := r.db.GetContext(ctx, &q, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get quote by ID")
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	return &q, nil
}

// ListByEquipment returns all quotes for a catalog entry, newest quote date
// first.
func (r *Repository) ListByEquipment(ctx context.Context, equipmentID int64) ([]models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.ListByEquipment")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("equipment_id", equipmentID))
	sb.OrderBy("quote_date DESC")

	query, args := sb.Build()

	var items []models.Quote
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to list quotes")
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	return items, nil
}

// GetCurrent returns the current quote for a catalog entry, or nil when none
// is flagged. When several carry the flag the oldest row wins, so the answer
// is stable.
func (r *Repository) GetCurrent(ctx context.Context, equipmentID int64) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.GetCurrent")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(columns...)
	sb.From(tableName)
	sb.Where(sb.Equal("equipment_id", equipmentID))
	sb.Where(sb.Equal("is_current", true))
	sb.OrderBy("quote_id ASC")
	sb.Limit(1)

	query, args := sb.Build()

	var q models.Quote
	err := r.db.GetContext(ctx, &q, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("failed to get current quote")
		return nil, fmt.Errorf("failed to get current quote: %w", err)
	}

	return &q, nil
}

// Update applies the set fields of req to the quote. A request with no fields
// set is a no-op and returns the row untouched.
func (r *Repository) Update(ctx context.Context, id int64, req models.UpdateQuoteRequest) (*models.Quote, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.Update")
	defer span.End()

	sb := database.NewUpdateBuilder()
	sb.Update(tableName)

	assignments := []string{}
	if req.Vendor != nil {
		assignments = append(assignments, sb.Assign("vendor", *req.Vendor))
	}
	if req.Price != nil {
		assignments = append(assignments, sb.Assign("price", *req.Price))
	}
	if req.Currency != nil {
		assignments = append(assignments, sb.Assign("currency", *req.Currency))
	}
	if req.LeadTimeWeeks != nil {
		assignments = append(assignments, sb.Assign("lead_time_weeks", *req.LeadTimeWeeks))
	}
	if req.QuoteDate != nil {
		assignments = append(assignments, sb.Assign("quote_date", *req.QuoteDate))
	}
	if req.QuoteNumber != nil {
		assignments = append(assignments, sb.Assign("quote_number", *req.QuoteNumber))
	}
	if req.QuoteFilePath != nil {
		assignments = append(assignments, sb.Assign("quote_file_path", *req.QuoteFilePath))
	}
	if req.IsCurrent != nil {
		assignments = append(assignments, sb.Assign("is_current", *req.IsCurrent))
	}
	if req.Notes != nil {
		assignments = append(assignments, sb.Assign("notes", *req.Notes))
	}

	if len(assignments) == 0 {
		return r.GetByID(ctx, id)
	}

	sb.Set(assignments...)
	sb.Where(sb.Equal("quote_id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to update quote")
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"quote_id":      id,
		"rows_affected": rowsAffected,
	}).Info("updated quote")

	return r.GetByID(ctx, id)
}

// Delete removes a quote. Instances that had selected it fall back to no
// selection (the foreign key sets selected_quote_id to null).
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.Delete")
	defer span.End()

	sb := database.NewDeleteBuilder()
	sb.DeleteFrom(tableName)
	sb.Where(sb.Equal("quote_id", id))

	query, args := sb.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to delete quote")
		return fmt.Errorf("failed to delete quote: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"quote_id":      id,
		"rows_affected": rowsAffected,
	}).Info("deleted quote")

	return nil
}

// Count returns the total number of quotes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "QuoteRepository.Count")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)")
	sb.From(tableName)

	query, args := sb.Build()

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("failed to count quotes")
		return 0, fmt.Errorf("failed to count quotes: %w", err)
	}

	return count, nil
}
