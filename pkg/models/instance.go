package models

// InstanceStatus is the disposition of an equipment instance within a project.
type InstanceStatus string

const (
	StatusExisting InstanceStatus = "existing"
	StatusNew      InstanceStatus = "new"
	StatusReplace  InstanceStatus = "replace"
	StatusRemove   InstanceStatus = "remove"
	StatusTBD      InstanceStatus = "TBD"
)

// ProjectEquipment is one use of a catalog equipment item within a project,
// identified by a project-scoped P&ID tag.
type ProjectEquipment struct {
	ID          int64 `json:"instance_id" db:"instance_id"`
	ProjectID   int64 `json:"project_id" db:"project_id"`
	EquipmentID int64 `json:"equipment_id" db:"equipment_id"`

	PIDTag   *string        `json:"pid_tag,omitempty" db:"pid_tag"`
	Status   InstanceStatus `json:"status" db:"status"`
	Quantity int64          `json:"quantity" db:"quantity"`
	Location *string        `json:"location,omitempty" db:"location"`
	Notes    *string        `json:"notes,omitempty" db:"notes"`

	// SelectedQuoteID must reference a quote for the same equipment item.
	// The storage layer does not enforce that match; callers do.
	SelectedQuoteID *int64 `json:"selected_quote_id,omitempty" db:"selected_quote_id"`
}

// ProjectEquipmentDetail is an instance joined with its catalog row and, when
// one is selected, its quote. Quote fields are null when no quote is selected.
type ProjectEquipmentDetail struct {
	ProjectEquipment

	Manufacturer     string  `json:"manufacturer" db:"manufacturer"`
	Model            string  `json:"model" db:"model"`
	EquipmentType    string  `json:"equipment_type" db:"equipment_type"`
	EquipmentSubtype *string `json:"equipment_subtype,omitempty" db:"equipment_subtype"`
	PowerHP          *float64 `json:"power_hp,omitempty" db:"power_hp"`
	FlowGPM          *float64 `json:"flow_gpm,omitempty" db:"flow_gpm"`
	HeadFt           *float64 `json:"head_ft,omitempty" db:"head_ft"`

	Vendor        *string  `json:"vendor,omitempty" db:"vendor"`
	Price         *float64 `json:"price,omitempty" db:"price"`
	Currency      *string  `json:"currency,omitempty" db:"currency"`
	LeadTimeWeeks *int64   `json:"lead_time_weeks,omitempty" db:"lead_time_weeks"`
}

// CreateProjectEquipmentRequest is the request body for adding an equipment
// instance to a project. Status defaults to "new" and quantity to 1.
type CreateProjectEquipmentRequest struct {
	ProjectID   int64 `json:"project_id" validate:"required"`
	EquipmentID int64 `json:"equipment_id" validate:"required"`

	PIDTag          *string        `json:"pid_tag,omitempty"`
	Status          InstanceStatus `json:"status,omitempty" validate:"omitempty,oneof=existing new replace remove TBD"`
	Quantity        int64          `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Location        *string        `json:"location,omitempty"`
	Notes           *string        `json:"notes,omitempty"`
	SelectedQuoteID *int64         `json:"selected_quote_id,omitempty"`
}

// UpdateProjectEquipmentRequest is the request body for updating an instance.
// ClearSelectedQuote removes the quote selection; it wins over
// SelectedQuoteID when both are set.
type UpdateProjectEquipmentRequest struct {
	PIDTag             *string         `json:"pid_tag,omitempty"`
	Status             *InstanceStatus `json:"status,omitempty" validate:"omitempty,oneof=existing new replace remove TBD"`
	Quantity           *int64          `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Location           *string         `json:"location,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
	SelectedQuoteID    *int64          `json:"selected_quote_id,omitempty"`
	ClearSelectedQuote bool            `json:"clear_selected_quote,omitempty"`
}

// ProjectEquipmentResponse is the API response for instance operations
type ProjectEquipmentResponse struct {
	ProjectEquipment
}

// ProjectEquipmentListResponse is the API response for listing a project's
// equipment.
type ProjectEquipmentListResponse struct {
	Items      []ProjectEquipmentDetail `json:"items"`
	TotalCount int                      `json:"total_count"`
}
