package models

import "time"

// Quote is vendor pricing for a catalog equipment item. The is_current flag
// is advisory: the store does not prevent multiple current quotes for one
// item, callers manage the flag manually.
type Quote struct {
	ID          int64 `json:"quote_id" db:"quote_id"`
	EquipmentID int64 `json:"equipment_id" db:"equipment_id"`

	Vendor        string     `json:"vendor" db:"vendor" validate:"required"`
	Price         *float64   `json:"price,omitempty" db:"price"`
	Currency      string     `json:"currency" db:"currency"`
	LeadTimeWeeks *int64     `json:"lead_time_weeks,omitempty" db:"lead_time_weeks"`
	QuoteDate     *time.Time `json:"quote_date,omitempty" db:"quote_date"`
	QuoteNumber   *string    `json:"quote_number,omitempty" db:"quote_number"`
	// QuoteFilePath is a relative path into the external file tree; the store
	// never reads or validates the file.
	QuoteFilePath *string `json:"quote_file_path,omitempty" db:"quote_file_path"`

	IsCurrent bool      `json:"is_current" db:"is_current"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_date" db:"created_date"`
}

// CreateQuoteRequest is the request body for creating a quote. Currency
// defaults to USD and is_current to true.
type CreateQuoteRequest struct {
	EquipmentID int64  `json:"equipment_id" validate:"required"`
	Vendor      string `json:"vendor" validate:"required"`

	Price         *float64   `json:"price,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	LeadTimeWeeks *int64     `json:"lead_time_weeks,omitempty"`
	QuoteDate     *time.Time `json:"quote_date,omitempty"`
	QuoteNumber   *string    `json:"quote_number,omitempty"`
	QuoteFilePath *string    `json:"quote_file_path,omitempty"`
	IsCurrent     *bool      `json:"is_current,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// UpdateQuoteRequest is the request body for updating a quote
type UpdateQuoteRequest struct {
	Vendor        *string    `json:"vendor,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	Currency      *string    `json:"currency,omitempty"`
	LeadTimeWeeks *int64     `json:"lead_time_weeks,omitempty"`
	QuoteDate     *time.Time `json:"quote_date,omitempty"`
	QuoteNumber   *string    `json:"quote_number,omitempty"`
	QuoteFilePath *string    `json:"quote_file_path,omitempty"`
	IsCurrent     *bool      `json:"is_current,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// QuoteResponse is the API response for quote operations
type QuoteResponse struct {
	Quote
}

// QuoteListResponse is the API response for listing an equipment item's quotes
type QuoteListResponse struct {
	Items      []Quote `json:"items"`
	TotalCount int     `json:"total_count"`
}
