package models

import "time"

// Roles a user can hold.
const (
	RoleCustomer  = "customer"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// DefaultAvatarURL is assigned when a user registers without an avatar.
const DefaultAvatarURL = "https://avatar.iran.liara.run/public/boy?username=Ash"

// User represents an account in the storefront.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName string    `gorm:"size:255;not null" json:"firstName"`
	LastName  string    `gorm:"size:255;not null" json:"lastName"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never exposed
	Role      string    `gorm:"size:20;not null;default:'customer'" json:"role"`
	IsBlocked bool      `gorm:"not null;default:false" json:"isBlocked"`
	Img       string    `gorm:"size:512" json:"img"`
	// Password-reset state. Both fields are cleared once the token is consumed.
	ResetPasswordToken   *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
}

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
