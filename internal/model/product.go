package model

import "github.com/shopspring/decimal"

// Product is a catalog entry. Stock is stored as a decimal because line
// quantities can be fractional (2.5 kg); it may go negative under
// oversell, which is accepted behaviour rather than an error.
type Product struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null;index" json:"name" validate:"required"`
	Description string `json:"description"`
	HSNCode     string `gorm:"type:varchar(20)" json:"hsn_code"`
	Unit        string `gorm:"type:varchar(20);default:'pc'" json:"unit"`

	Price   decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	GSTRate decimal.Decimal `gorm:"type:numeric;default:18" json:"gst_rate"` // percentage
	Stock   decimal.Decimal `gorm:"type:numeric;default:0" json:"stock"`

	Category string `gorm:"type:varchar(100);default:'General'" json:"category"`
}
