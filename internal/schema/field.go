package schema

import (
	"encoding/json"
	"fmt"
)

// FieldType represents the input type of a form field
type FieldType string

// FieldType constants
const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeDate     FieldType = "date"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "phone"
	FieldTypeNumber   FieldType = "number"
)

// IsValid reports whether the field type is one of the supported types
func (t FieldType) IsValid() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect, FieldTypeRadio,
		FieldTypeCheckbox, FieldTypeDate, FieldTypeEmail, FieldTypePhone, FieldTypeNumber:
		return true
	default:
		return false
	}
}

// IsChoice reports whether the field type carries an options list
func (t FieldType) IsChoice() bool {
	return t == FieldTypeSelect || t == FieldTypeRadio || t == FieldTypeCheckbox
}

// IsMultiValued reports whether the field value is a list rather than a scalar
func (t FieldType) IsMultiValued() bool {
	return t == FieldTypeCheckbox
}

// FieldDescriptor describes a single field of a form schema
type FieldDescriptor struct {
	ID          string    `json:"id"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
}

// Schema is an ordered sequence of field descriptors. A schema is immutable
// input to rendering, validation and export; consumers never mutate it.
type Schema []FieldDescriptor

// Parse decodes and validates a raw fields_schema JSON document
func Parse(raw []byte) (Schema, error) {
	if len(raw) == 0 {
		return Schema{}, nil
	}

	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("malformed fields schema: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the schema-level invariants: non-empty unique field ids,
// known field types, and no duplicate option strings within a choice field.
// An empty options list on a choice field is tolerated; it renders no choices.
func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s))

	for i, field := range s {
		if field.ID == "" {
			return fmt.Errorf("field %d: missing id", i)
		}
		if seen[field.ID] {
			return fmt.Errorf("field %d: duplicate id %q", i, field.ID)
		}
		seen[field.ID] = true

		if !field.Type.IsValid() {
			return fmt.Errorf("field %q: unknown type %q", field.ID, field.Type)
		}

		if field.Type.IsChoice() {
			options := make(map[string]bool, len(field.Options))
			for _, opt := range field.Options {
				if options[opt] {
					return fmt.Errorf("field %q: duplicate option %q", field.ID, opt)
				}
				options[opt] = true
			}
		}
	}

	return nil
}

// FieldByID returns the descriptor with the given id, if present
func (s Schema) FieldByID(id string) (FieldDescriptor, bool) {
	for _, field := range s {
		if field.ID == id {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// Encode serializes the schema back to its JSON document form
func (s Schema) Encode() ([]byte, error) {
	return json.Marshal(s)
}
