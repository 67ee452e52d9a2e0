package domain

import "strings"

// User represents an authenticated staff account, kept locally for
// submitter/reviewer name resolution in exports
type User struct {
	BaseModel
	Email     string `gorm:"type:varchar(255);not null;uniqueIndex:uq_users_email" json:"email"`
	FirstName string `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string `gorm:"type:varchar(100)" json:"last_name"`
}

// DisplayName returns "first last" trimmed of surrounding whitespace
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Initials returns the upper-cased first letters of first and last name.
// Both names empty yields "" and callers fall back to "UU".
func (u *User) Initials() string {
	var b strings.Builder
	for _, name := range []string{u.FirstName, u.LastName} {
		for _, r := range name {
			b.WriteString(strings.ToUpper(string(r)))
			break
		}
	}
	return b.String()
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
