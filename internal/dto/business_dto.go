package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateBusinessRequest represents the request to create a new business
// @Description Request body for creating a new business (tenant)
type CreateBusinessRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255" example:"Sunrise Physical Therapy"`
	Description string `json:"description" binding:"max=1000" example:"Outpatient physical therapy clinic"`
}

// UpdateBusinessRequest represents the request to update a business.
// All fields are optional.
type UpdateBusinessRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255" example:"Sunrise Physical Therapy"`
	Description *string `json:"description" binding:"omitempty,max=1000" example:"Updated description"`
}

// BusinessResponse represents the business response
type BusinessResponse struct {
	ID          uuid.UUID `json:"businessId" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	OwnerID     uuid.UUID `json:"ownerId" example:"b2c3d4e5-f6a7-8901-bcde-f12345678901"`
	Name        string    `json:"name" example:"Sunrise Physical Therapy"`
	Description string    `json:"description" example:"Outpatient physical therapy clinic"`
	CreatedAt   time.Time `json:"createdAt" example:"2024-01-15T10:30:00Z"`
	UpdatedAt   time.Time `json:"updatedAt" example:"2024-01-15T14:20:00Z"`
}

// BusinessMemberResponse represents a business member
type BusinessMemberResponse struct {
	MemberID   uuid.UUID `json:"memberId"`
	BusinessID uuid.UUID `json:"businessId"`
	UserID     uuid.UUID `json:"userId"`
	UserEmail  string    `json:"userEmail,omitempty"`
	UserName   string    `json:"userName,omitempty"`
	RoleName   string    `json:"roleName"`
	JoinedAt   time.Time `json:"joinedAt"`
}

// AddBusinessMemberRequest represents the request to add a member
type AddBusinessMemberRequest struct {
	UserID   uuid.UUID `json:"userId" binding:"required"`
	RoleName string    `json:"roleName" binding:"required,oneof=MANAGER STAFF"`
}

// UpdateBusinessMemberRoleRequest represents the request to update member role
type UpdateBusinessMemberRoleRequest struct {
	RoleName string `json:"roleName" binding:"required,oneof=MANAGER STAFF"`
}

// UsagePair reports current usage against the plan limit for one resource.
// A limit of -1 means unlimited.
type UsagePair struct {
	Used  int64 `json:"used" example:"4"`
	Limit int64 `json:"limit" example:"25"`
}

// BusinessUsageResponse reports plan usage for a business
type BusinessUsageResponse struct {
	BusinessID           uuid.UUID `json:"businessId"`
	Tier                 string    `json:"tier" example:"FREE"`
	Forms                UsagePair `json:"forms"`
	Members              UsagePair `json:"members"`
	Clients              UsagePair `json:"clients"`
	SubmissionsThisMonth UsagePair `json:"submissionsThisMonth"`
}

// BillingResponse reports the subscription and upgrade URLs for a business
type BillingResponse struct {
	BusinessID  uuid.UUID `json:"businessId"`
	Tier        string    `json:"tier" example:"FREE"`
	CheckoutURL string    `json:"checkoutUrl,omitempty" example:"https://billing.example.com/checkout/abc"`
}

// CreateCheckoutRequest represents the request to start a plan upgrade
type CreateCheckoutRequest struct {
	Tier string `json:"tier" binding:"required,oneof=PRO ENTERPRISE"`
}
