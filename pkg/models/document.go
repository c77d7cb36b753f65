package models

import "time"

// DocumentType categorizes an attached equipment document.
type DocumentType string

const (
	DocumentTypeCutsheet  DocumentType = "cutsheet"
	DocumentTypeSpec      DocumentType = "spec"
	DocumentTypeSubmittal DocumentType = "submittal"
	DocumentTypeQuote     DocumentType = "quote"
	DocumentTypeManual    DocumentType = "manual"
	DocumentTypeOther     DocumentType = "other"
)

// Document is file metadata attached to a catalog equipment item. The file
// itself lives in an external blob tree keyed by FilePath; deleting the record
// does not touch the file.
type Document struct {
	ID          int64 `json:"document_id" db:"document_id"`
	EquipmentID int64 `json:"equipment_id" db:"equipment_id"`

	DocumentType DocumentType `json:"document_type" db:"document_type"`
	FileName     string       `json:"file_name" db:"file_name"`
	FilePath     string       `json:"file_path" db:"file_path"`
	FileSizeKB   *int64       `json:"file_size_kb,omitempty" db:"file_size_kb"`
	Version      *string      `json:"version,omitempty" db:"version"`
	DocumentDate *time.Time   `json:"document_date,omitempty" db:"document_date"`

	Notes      *string   `json:"notes,omitempty" db:"notes"`
	UploadedAt time.Time `json:"uploaded_date" db:"uploaded_date"`
}

// CreateDocumentRequest is the request body for registering a document
type CreateDocumentRequest struct {
	EquipmentID  int64        `json:"equipment_id" validate:"required"`
	DocumentType DocumentType `json:"document_type" validate:"required,oneof=cutsheet spec submittal quote manual other"`
	FileName     string       `json:"file_name" validate:"required"`
	FilePath     string       `json:"file_path" validate:"required"`

	FileSizeKB   *int64     `json:"file_size_kb,omitempty"`
	Version      *string    `json:"version,omitempty"`
	DocumentDate *time.Time `json:"document_date,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
}

// UpdateDocumentRequest is the request body for updating document metadata
type UpdateDocumentRequest struct {
	DocumentType *DocumentType `json:"document_type,omitempty" validate:"omitempty,oneof=cutsheet spec submittal quote manual other"`
	FileName     *string       `json:"file_name,omitempty"`
	FilePath     *string       `json:"file_path,omitempty"`
	FileSizeKB   *int64        `json:"file_size_kb,omitempty"`
	Version      *string       `json:"version,omitempty"`
	DocumentDate *time.Time    `json:"document_date,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
}

// DocumentResponse is the API response for document operations
type DocumentResponse struct {
	Document
}

// DocumentListResponse is the API response for listing equipment documents
type DocumentListResponse struct {
	Items      []Document `json:"items"`
	TotalCount int        `json:"total_count"`
}
