package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmissionStatus represents the review-workflow status of a submission
type SubmissionStatus string

const (
	SubmissionStatusDraft     SubmissionStatus = "draft"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusReviewed  SubmissionStatus = "reviewed"
	SubmissionStatusApproved  SubmissionStatus = "approved"
	SubmissionStatusRejected  SubmissionStatus = "rejected"
)

// Submission represents one filled instance of a form, optionally tied to a
// client, progressing through the review workflow
type Submission struct {
	BaseModel
	FormID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_submissions_form_id" json:"form_id"`
	BusinessID     uuid.UUID        `gorm:"type:uuid;not null;index:idx_submissions_business_id" json:"business_id"`
	ClientID       *uuid.UUID       `gorm:"type:uuid;index:idx_submissions_client_id" json:"client_id"`
	SubmittedBy    uuid.UUID        `gorm:"type:uuid;not null;index:idx_submissions_submitted_by" json:"submitted_by"`
	Status         SubmissionStatus `gorm:"type:varchar(50);not null;default:'draft';index:idx_submissions_status" json:"status"`
	SubmissionData datatypes.JSON   `gorm:"type:jsonb" json:"submission_data"`
	SubmittedAt    *time.Time       `gorm:"type:timestamp" json:"submitted_at,omitempty"`
	ReviewedBy     *uuid.UUID       `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time       `gorm:"type:timestamp" json:"reviewed_at,omitempty"`
	Notes          string           `gorm:"type:text" json:"notes"`
	Form           Form             `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"form,omitempty"`
	Client         *Client          `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// IsTerminal reports whether no further edits or transitions are allowed
func (s *Submission) IsTerminal() bool {
	return s.Status == SubmissionStatusApproved || s.Status == SubmissionStatusRejected
}

// IsEditable reports whether the given user may still edit submission data.
// Drafts and submitted entries stay editable for the original submitter.
func (s *Submission) IsEditable(userID uuid.UUID) bool {
	if s.IsTerminal() || s.Status == SubmissionStatusReviewed {
		return false
	}
	return s.SubmittedBy == userID
}

// TableName specifies the table name for Submission
func (Submission) TableName() string {
	return "submissions"
}
