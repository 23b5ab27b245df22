package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoreSettings is the single row of store-wide pricing configuration.
// DeliveryEnabled and GlobalDiscountEnabled are per-transaction toggles:
// checkout resets them to off but keeps the numeric values, so the next
// sale starts undiscounted with the last-used amounts one click away.
type StoreSettings struct {
	ID              int             `gorm:"primaryKey"`
	DeliveryEnabled bool            `gorm:"not null;default:false"`
	DeliveryPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	GlobalDiscountEnabled bool            `gorm:"not null;default:false"`
	GlobalDiscountType    string          `gorm:"type:varchar(20);not null;default:'percentage'"`
	GlobalDiscountValue   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	// LowStockThreshold is the store-wide default; products may override it.
	LowStockThreshold int `gorm:"not null;default:5"`

	UpdatedAt time.Time
}

// SettingsRowID is the fixed primary key of the singleton settings row.
const SettingsRowID = 1
