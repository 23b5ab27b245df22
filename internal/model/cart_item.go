package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of an operator's in-progress transaction. Name,
// price and the catalog discount are snapshotted at add time. Quantity is
// always ≥ 1: decrementing past 1 is a no-op, removing the line is an
// explicit operation. A product occupies at most one line per operator
// cart; adding it again increments the quantity.
type CartItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OperatorID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_operator_product"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_operator_product"`
	Name          string          `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity      int             `gorm:"not null;default:1"`
	DiscountType  *string         `gorm:"type:varchar(20)"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
