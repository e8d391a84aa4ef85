package models

import (
	"time"

	"gorm.io/gorm"
)

// Fabric is one catalog entry customers can pick for an order.
type Fabric struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Color         string         `gorm:"not null" json:"color"`
	PricePerMeter float64        `json:"price_per_meter"`
	InStock       bool           `gorm:"default:true" json:"in_stock"`
	SwatchS3Key   *string        `json:"swatch_s3_key,omitempty"`      // nullable, S3 key for the swatch photo
	SwatchURL     *string        `gorm:"-" json:"swatch_url,omitempty"` // computed field, presigned URL for the swatch
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Fabric model
func (Fabric) TableName() string {
	return "fabrics"
}
