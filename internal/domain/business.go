package domain

import (
	"time"

	"github.com/google/uuid"
)

// Business represents a tenant organization owning clients, forms and staff
type Business struct {
	BaseModel
	OwnerID     uuid.UUID        `gorm:"type:uuid;not null;index:idx_businesses_owner_id" json:"owner_id"`
	Name        string           `gorm:"type:varchar(255);not null" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Members     []BusinessMember `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Clients     []Client         `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"clients,omitempty"`
	Forms       []Form           `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"forms,omitempty"`
}

// MemberRole represents the role of a business member
type MemberRole string

const (
	MemberRoleOwner   MemberRole = "OWNER"
	MemberRoleManager MemberRole = "MANAGER"
	MemberRoleStaff   MemberRole = "STAFF"
)

// BusinessMember represents a staff member of a business
type BusinessMember struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID  `gorm:"type:uuid;not null;index:idx_business_members_business_id;uniqueIndex:uq_business_members_business_user" json:"business_id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_business_members_user_id;uniqueIndex:uq_business_members_business_user" json:"user_id"`
	RoleName   MemberRole `gorm:"type:varchar(50);not null;index:idx_business_members_role" json:"role_name"`
	JoinedAt   time.Time  `gorm:"type:timestamp;not null;default:now()" json:"joined_at"`
	Business   Business   `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"business,omitempty"`
}

// TableName specifies the table name for Business
func (Business) TableName() string {
	return "businesses"
}

// TableName specifies the table name for BusinessMember
func (BusinessMember) TableName() string {
	return "business_members"
}
