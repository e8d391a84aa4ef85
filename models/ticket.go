package models

import (
	"time"

	"gorm.io/gorm"
)

// Ticket statuses.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketClosed     = "closed"
)

// Ticket is a customer support request, optionally tied to an order.
type Ticket struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	OrderID   *uint          `gorm:"index" json:"order_id,omitempty"`
	Order     *Order         `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Subject   string         `gorm:"not null" json:"subject"`
	Message   string         `gorm:"not null" json:"message"`
	Status    string         `gorm:"not null;default:'open'" json:"status"` // open, in_progress, closed
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Ticket model
func (Ticket) TableName() string {
	return "tickets"
}
