package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreateSubmissionRequest represents the request to start a submission draft
type CreateSubmissionRequest struct {
	ClientID *uuid.UUID      `json:"clientId,omitempty"`
	Data     json.RawMessage `json:"data,omitempty" swaggertype:"object"`
}

// UpdateSubmissionRequest represents the request to update submission data
type UpdateSubmissionRequest struct {
	ClientID *uuid.UUID      `json:"clientId,omitempty"`
	Data     json.RawMessage `json:"data" swaggertype:"object"`
}

// ReviewSubmissionRequest represents an approve/reject decision
type ReviewSubmissionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected" example:"approved"`
	Notes    string `json:"notes" binding:"max=2000" example:"Reviewed and confirmed with patient"`
}

// SubmissionResponse represents the submission response
type SubmissionResponse struct {
	ID          uuid.UUID       `json:"submissionId"`
	FormID      uuid.UUID       `json:"formId"`
	BusinessID  uuid.UUID       `json:"businessId"`
	ClientID    *uuid.UUID      `json:"clientId,omitempty"`
	SubmittedBy uuid.UUID       `json:"submittedBy"`
	Status      string          `json:"status" example:"submitted"`
	Data        json.RawMessage `json:"data" swaggertype:"object"`
	SubmittedAt *time.Time      `json:"submittedAt,omitempty"`
	ReviewedBy  *uuid.UUID      `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewedAt,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
