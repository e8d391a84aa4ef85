package models

import (
	"time"

	"gorm.io/gorm"
)

// Lead statuses.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadConverted = "converted"
	LeadClosed    = "closed"
)

// Lead is an inquiry submitted from the public marketing site.
type Lead struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"not null" json:"email"`
	Phone     string         `json:"phone"`
	Message   string         `json:"message"`
	Source    string         `json:"source"` // e.g. "website", "referral"
	Status    string         `gorm:"not null;default:'new'" json:"status"` // new, contacted, converted, closed
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Lead model
func (Lead) TableName() string {
	return "leads"
}
