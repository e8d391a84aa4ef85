package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the closed set of states an order can be in.
type OrderStatus string

const (
	StatusPending      OrderStatus = "pending"
	StatusConfirmed    OrderStatus = "confirmed"
	StatusStitching    OrderStatus = "stitching"
	StatusFinishing    OrderStatus = "finishing"
	StatusQualityCheck OrderStatus = "quality_check"
	StatusReady        OrderStatus = "ready"
	StatusShipped      OrderStatus = "shipped"
	StatusDelivered    OrderStatus = "delivered"
	StatusCancelled    OrderStatus = "cancelled"
)

// AllStatuses lists every valid status in production order, cancelled last.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusStitching,
	StatusFinishing,
	StatusQualityCheck,
	StatusReady,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// tailorMoves is the fixed adjacency table for tailor-initiated transitions.
// Tailors work the production stages; shipping, delivery and cancellation are
// admin operations. The back-edges to stitching cover rework.
var tailorMoves = map[OrderStatus][]OrderStatus{
	StatusPending:      {StatusConfirmed, StatusStitching},
	StatusConfirmed:    {StatusStitching},
	StatusStitching:    {StatusFinishing},
	StatusFinishing:    {StatusQualityCheck, StatusStitching},
	StatusQualityCheck: {StatusReady, StatusStitching},
}

// Valid reports whether s is one of the enumerated statuses.
func (s OrderStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// TailorCanMove reports whether a tailor may move an order from s to target.
func (s OrderStatus) TailorCanMove(target OrderStatus) bool {
	for _, v := range tailorMoves[s] {
		if v == target {
			return true
		}
	}
	return false
}

// Order represents one manufacturing job in the system
type Order struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Token             string         `gorm:"column:order_id;uniqueIndex;not null" json:"order_id"` // human-readable token, used in public tracking URLs
	Style             string         `gorm:"not null" json:"style"`
	FabricName        string         `json:"fabric_name"`
	FabricColor       string         `json:"fabric_color"`
	FabricID          *uint          `gorm:"index" json:"fabric_id,omitempty"` // optional catalog reference
	Fabric            *Fabric        `gorm:"foreignKey:FabricID" json:"fabric,omitempty"`
	Price             float64        `gorm:"not null" json:"price"`
	Status            OrderStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	EstimatedDelivery *time.Time     `json:"estimated_delivery,omitempty"`
	CustomerID        uint           `gorm:"not null;index" json:"customer_id"`
	Customer          User           `gorm:"foreignKey:CustomerID" json:"customer"`
	TailorID          *uint          `gorm:"index" json:"tailor_id"` // nullable, assigned by admin
	Tailor            *User          `gorm:"foreignKey:TailorID" json:"tailor,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderStatusHistory is one append-only audit entry for an order's status.
// Rows are never updated or deleted; the newest entry's status always matches
// the order's current status.
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Note      string      `json:"note"`
	ActorID   *uint       `gorm:"index" json:"actor_id,omitempty"` // user who made the change, if known
	Actor     *User       `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName specifies the table name for the OrderStatusHistory model
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
