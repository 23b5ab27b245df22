package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types.
const (
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
	MovementImport     = "import"
)

// StockMovement is an audit record of one stock change. Quantity is the
// signed delta actually applied — at checkout a clamped decrement records
// the clamped amount, so drift between sold and decremented quantities is
// visible by comparing movements against sale items.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Quantity    int       `gorm:"not null"`
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"index"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
