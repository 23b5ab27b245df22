package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the register.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// Sync status of a sale with respect to the external sync collaborator.
// A sale created while the terminal is offline (or while the collaborator
// is unreachable) starts as pending; only an acknowledgement from the
// collaborator flips it to synced.
const (
	SyncSynced  = "synced"
	SyncPending = "pending"
)

// Sale is an immutable record of one completed transaction. Items are a
// frozen snapshot of the cart at commit time — catalog edits or product
// deletion never affect past sales. The only field ever updated after
// creation is the sync bookkeeping (SyncStatus and retry columns).
type Sale struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceiptNumber int       `gorm:"uniqueIndex;not null"`
	OperatorID    uuid.UUID `gorm:"type:uuid;index;not null"`
	// Subtotal is the sum of discounted line totals (item discounts applied,
	// global discount not yet applied).
	Subtotal decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// TotalDiscount = Σ per-item (undiscounted − discounted) + global
	// discount amount, in that order of application.
	TotalDiscount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DeliveryFee   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(10);not null"`
	SyncStatus    string          `gorm:"type:varchar(10);not null;default:'synced';index"`
	// OfflineID deduplicates sales replayed from an offline terminal.
	OfflineID *string `gorm:"uniqueIndex"`

	// Sync retry bookkeeping, managed by the sync worker and retry cron.
	SyncAttempts  int `gorm:"not null;default:0"`
	NextSyncAt    *time.Time
	LastSyncError *string

	CreatedAt time.Time `gorm:"index"`

	Items    []SaleItem `gorm:"foreignKey:SaleID"`
	Operator *User      `gorm:"foreignKey:OperatorID"`
}

// SaleItem is one frozen cart line inside a Sale.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity  int             `gorm:"not null"`
	// Discount snapshot copied from the cart line (itself copied from the
	// catalog at add time).
	DiscountType  *string         `gorm:"type:varchar(20)"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	// LineTotal is the discounted line total as charged.
	LineTotal decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}
