package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client represents a patient record subject within a business
type Client struct {
	BaseModel
	BusinessID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_clients_business_id" json:"business_id"`
	FirstName   string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string     `gorm:"type:varchar(100)" json:"last_name"`
	Email       string     `gorm:"type:varchar(255)" json:"email"`
	Phone       string     `gorm:"type:varchar(50)" json:"phone"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes"`
	Business    Business   `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"business,omitempty"`
}

// DisplayName returns "first last" trimmed of surrounding whitespace
func (c *Client) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}
