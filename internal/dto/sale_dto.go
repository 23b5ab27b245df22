package dto

import "github.com/shopspring/decimal"

// CheckoutRequest commits the operator's cart as a sale.
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash card"`
	// Offline marks the sale as created while disconnected; it is stored
	// pending and handed to the sync worker instead of being acknowledged
	// inline.
	Offline bool `json:"offline"`
	// OfflineID deduplicates replays of the same offline sale.
	OfflineID *string `json:"offline_id" validate:"omitempty,uuid"`
	// CustomerEmail: when present, a receipt PDF is mailed asynchronously.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type SaleItemResponse struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	DiscountType  *string         `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	ReceiptNumber int                `json:"receipt_number"`
	OperatorID    string             `json:"operator_id"`
	Operator      string             `json:"operator,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TotalDiscount decimal.Decimal    `json:"total_discount"`
	DeliveryFee   decimal.Decimal    `json:"delivery_fee"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	SyncStatus    string             `json:"sync_status"`
	CreatedAt     string             `json:"created_at"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date          string `form:"date"` // YYYY-MM-DD; empty = all
	PaymentMethod string `form:"payment_method" validate:"omitempty,oneof=cash card"`
	SyncStatus    string `form:"sync_status"    validate:"omitempty,oneof=synced pending"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
