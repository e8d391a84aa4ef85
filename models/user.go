package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. The role field discriminates what a user may do; there is one
// users table for all three portals.
const (
	RoleCustomer = "customer"
	RoleTailor   = "tailor"
	RoleAdmin    = "admin"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleTailor || role == RoleAdmin
}

// User represents a user in the system (customer, tailor or admin)
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"not null;default:'customer'" json:"role"`
	Phone        string         `json:"phone"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
