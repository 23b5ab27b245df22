package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock status values derived from (stock, threshold). Never stored.
const (
	StatusInStock    = "in_stock"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

// Catalog discount types. A product's discount is copied into the cart
// line when the product is added, so later catalog edits never change an
// in-progress transaction.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed" // amount off per unit
)

// Product is a catalog entry. Barcode is the lookup key for scanning and
// for bulk-import merging.
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode  string    `gorm:"uniqueIndex;not null"`
	Name     string    `gorm:"index;not null"`
	Category string    `gorm:"not null"`
	// UnitPrice is the undiscounted sale price per unit.
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
	// LowStockThreshold overrides the store-wide default when set.
	LowStockThreshold *int
	// DiscountType / DiscountValue define an optional catalog discount
	// applied automatically at cart-add time.
	DiscountType  *string         `gorm:"type:varchar(20)"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Supplier      string
	ImageURL      *string
	Active        bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Status derives the stock status from the current stock count and the
// effective threshold (per-product override, else the store-wide default).
// stock == 0 is always out_of_stock regardless of threshold; the threshold
// only distinguishes low from in-stock for stock > 0.
func (p *Product) Status(globalThreshold int) string {
	if p.Stock == 0 {
		return StatusOutOfStock
	}
	threshold := globalThreshold
	if p.LowStockThreshold != nil {
		threshold = *p.LowStockThreshold
	}
	if p.Stock <= threshold {
		return StatusLowStock
	}
	return StatusInStock
}
