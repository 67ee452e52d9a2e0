package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateClientRequest represents the request to create a client record
type CreateClientRequest struct {
	FirstName   string     `json:"firstName" binding:"required,min=1,max=100" example:"Jane"`
	LastName    string     `json:"lastName" binding:"max=100" example:"Doe"`
	Email       string     `json:"email" binding:"omitempty,email" example:"jane.doe@example.com"`
	Phone       string     `json:"phone" binding:"max=50" example:"+1-555-0100"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" example:"1985-06-15T00:00:00Z"`
	Notes       string     `json:"notes" binding:"max=2000"`
}

// UpdateClientRequest represents the request to update a client record.
// All fields are optional.
type UpdateClientRequest struct {
	FirstName   *string    `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName    *string    `json:"lastName" binding:"omitempty,max=100"`
	Email       *string    `json:"email" binding:"omitempty,email"`
	Phone       *string    `json:"phone" binding:"omitempty,max=50"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Notes       *string    `json:"notes" binding:"omitempty,max=2000"`
}

// ClientResponse represents the client response
type ClientResponse struct {
	ID          uuid.UUID  `json:"clientId"`
	BusinessID  uuid.UUID  `json:"businessId"`
	FirstName   string     `json:"firstName" example:"Jane"`
	LastName    string     `json:"lastName" example:"Doe"`
	DisplayName string     `json:"displayName" example:"Jane Doe"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
