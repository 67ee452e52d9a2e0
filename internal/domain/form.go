package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FormStatus represents the lifecycle status of a form
type FormStatus string

const (
	FormStatusDraft    FormStatus = "draft"
	FormStatusActive   FormStatus = "active"
	FormStatusInactive FormStatus = "inactive"
	FormStatusArchived FormStatus = "archived"
)

// Form represents a named, versioned intake form belonging to a business.
// FieldsSchema holds the ordered field descriptors as JSON; submissions keep
// the field ids that were current at fill time, so schema edits never rewrite
// stored submission data.
type Form struct {
	BaseModel
	BusinessID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_forms_business_id" json:"business_id"`
	CreatedBy    uuid.UUID      `gorm:"type:uuid;not null;index:idx_forms_created_by" json:"created_by"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Status       FormStatus     `gorm:"type:varchar(50);not null;default:'draft';index:idx_forms_status" json:"status"`
	Version      int            `gorm:"type:int;not null;default:1" json:"version"`
	FieldsSchema datatypes.JSON `gorm:"type:jsonb" json:"fields_schema"`
	Business     Business       `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"business,omitempty"`
	Submissions  []Submission   `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"submissions,omitempty"`
}

// AcceptsSubmissions reports whether new submissions may be created
func (f *Form) AcceptsSubmissions() bool {
	return f.Status == FormStatusActive
}

// TableName specifies the table name for Form
func (Form) TableName() string {
	return "forms"
}
