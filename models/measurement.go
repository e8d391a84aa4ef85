package models

import (
	"time"
)

// Measurement holds a customer's body measurements in inches. At most one row
// per user; deleting the user cascades.
type Measurement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Chest        float64   `json:"chest"`
	Waist        float64   `json:"waist"`
	Shoulders    float64   `json:"shoulders"`
	ArmLength    float64   `json:"arm_length"`
	JacketLength float64   `json:"jacket_length"`
	Neck         float64   `json:"neck"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Measurement model
func (Measurement) TableName() string {
	return "measurements"
}
