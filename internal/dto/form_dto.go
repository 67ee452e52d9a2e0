package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreateFormRequest represents the request to create a form
// @Description fieldsSchema is the ordered array of field descriptors; it is
// @Description validated structurally before the form is stored
type CreateFormRequest struct {
	Title        string          `json:"title" binding:"required,min=1,max=255" example:"Intake Assessment"`
	Description  string          `json:"description" binding:"max=1000" example:"New patient intake form"`
	FieldsSchema json.RawMessage `json:"fieldsSchema" swaggertype:"object"`
}

// UpdateFormRequest represents the request to update a form.
// Changing fieldsSchema bumps the form version.
type UpdateFormRequest struct {
	Title        *string         `json:"title" binding:"omitempty,min=1,max=255"`
	Description  *string         `json:"description" binding:"omitempty,max=1000"`
	FieldsSchema json.RawMessage `json:"fieldsSchema,omitempty" swaggertype:"object"`
}

// UpdateFormStatusRequest represents a form lifecycle transition
type UpdateFormStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft active inactive archived" example:"active"`
}

// FormResponse represents the form response
type FormResponse struct {
	ID           uuid.UUID       `json:"formId"`
	BusinessID   uuid.UUID       `json:"businessId"`
	CreatedBy    uuid.UUID       `json:"createdBy"`
	Title        string          `json:"title" example:"Intake Assessment"`
	Description  string          `json:"description,omitempty"`
	Status       string          `json:"status" example:"active"`
	Version      int             `json:"version" example:"3"`
	FieldsSchema json.RawMessage `json:"fieldsSchema" swaggertype:"object"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ControlResponse is one rendered form control bound to its current value
type ControlResponse struct {
	FieldID     string   `json:"fieldId" example:"pain_level"`
	Type        string   `json:"type" example:"select"`
	Label       string   `json:"label" example:"Pain Level"`
	Description string   `json:"description,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	Value       string   `json:"value,omitempty"`
	Selected    []string `json:"selected,omitempty"`
	Disabled    bool     `json:"disabled"`
}

// RenderedFormResponse represents a form rendered for fill or preview
type RenderedFormResponse struct {
	FormID   uuid.UUID         `json:"formId"`
	Title    string            `json:"title"`
	Version  int               `json:"version"`
	Mode     string            `json:"mode" example:"fill"`
	Controls []ControlResponse `json:"controls"`
}
