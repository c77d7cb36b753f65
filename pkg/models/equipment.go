package models

import "time"

// Equipment is a manufacturer/model entry in the master catalog, independent
// of any project. Rated parameters are stored twice: as extracted from the
// cut sheet and, once an engineer has checked them, as verified values.
type Equipment struct {
	ID           int64  `json:"equipment_id" db:"equipment_id"`
	Manufacturer string `json:"manufacturer" db:"manufacturer" validate:"required"`
	Model        string `json:"model" db:"model" validate:"required"`
	// EquipmentType is the broad category (Pump, Mixer, Blower, Screen, ...).
	EquipmentType    string  `json:"equipment_type" db:"equipment_type" validate:"required"`
	EquipmentSubtype *string `json:"equipment_subtype,omitempty" db:"equipment_subtype"`

	PowerHP *float64 `json:"power_hp,omitempty" db:"power_hp"`
	FlowGPM *float64 `json:"flow_gpm,omitempty" db:"flow_gpm"`
	HeadFt  *float64 `json:"head_ft,omitempty" db:"head_ft"`
	Voltage *string  `json:"voltage,omitempty" db:"voltage"`
	RPM     *float64 `json:"rpm,omitempty" db:"rpm"`

	PowerHPVerified *float64 `json:"power_hp_verified,omitempty" db:"power_hp_verified"`
	FlowGPMVerified *float64 `json:"flow_gpm_verified,omitempty" db:"flow_gpm_verified"`
	HeadFtVerified  *float64 `json:"head_ft_verified,omitempty" db:"head_ft_verified"`

	Material       *string  `json:"material,omitempty" db:"material"`
	ConnectionSize *string  `json:"connection_size,omitempty" db:"connection_size"`
	WeightLbs      *float64 `json:"weight_lbs,omitempty" db:"weight_lbs"`

	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_date" db:"created_date"`
}

// CreateEquipmentRequest is the request body for adding catalog equipment
type CreateEquipmentRequest struct {
	Manufacturer  string `json:"manufacturer" validate:"required"`
	Model         string `json:"model" validate:"required"`
	EquipmentType string `json:"equipment_type" validate:"required"`

	EquipmentSubtype *string  `json:"equipment_subtype,omitempty"`
	PowerHP          *float64 `json:"power_hp,omitempty"`
	FlowGPM          *float64 `json:"flow_gpm,omitempty"`
	HeadFt           *float64 `json:"head_ft,omitempty"`
	Voltage          *string  `json:"voltage,omitempty"`
	RPM              *float64 `json:"rpm,omitempty"`
	PowerHPVerified  *float64 `json:"power_hp_verified,omitempty"`
	FlowGPMVerified  *float64 `json:"flow_gpm_verified,omitempty"`
	HeadFtVerified   *float64 `json:"head_ft_verified,omitempty"`
	Material         *string  `json:"material,omitempty"`
	ConnectionSize   *string  `json:"connection_size,omitempty"`
	WeightLbs        *float64 `json:"weight_lbs,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

// UpdateEquipmentRequest is the request body for updating catalog equipment
type UpdateEquipmentRequest struct {
	Manufacturer     *string  `json:"manufacturer,omitempty"`
	Model            *string  `json:"model,omitempty"`
	EquipmentType    *string  `json:"equipment_type,omitempty"`
	EquipmentSubtype *string  `json:"equipment_subtype,omitempty"`
	PowerHP          *float64 `json:"power_hp,omitempty"`
	FlowGPM          *float64 `json:"flow_gpm,omitempty"`
	HeadFt           *float64 `json:"head_ft,omitempty"`
	Voltage          *string  `json:"voltage,omitempty"`
	RPM              *float64 `json:"rpm,omitempty"`
	PowerHPVerified  *float64 `json:"power_hp_verified,omitempty"`
	FlowGPMVerified  *float64 `json:"flow_gpm_verified,omitempty"`
	HeadFtVerified   *float64 `json:"head_ft_verified,omitempty"`
	Material         *string  `json:"material,omitempty"`
	ConnectionSize   *string  `json:"connection_size,omitempty"`
	WeightLbs        *float64 `json:"weight_lbs,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
}

// EquipmentResponse is the API response for equipment operations
type EquipmentResponse struct {
	Equipment
}

// EquipmentListResponse is the API response for listing or searching equipment
type EquipmentListResponse struct {
	Items      []Equipment `json:"items"`
	TotalCount int         `json:"total_count"`
}

// EquipmentTypesResponse lists the distinct equipment types present in the
// catalog.
type EquipmentTypesResponse struct {
	Types []string `json:"types"`
}
