package dto

import "github.com/shopspring/decimal"

// AddCartItemRequest adds a product to the operator's cart, located either
// by product id or by scanned barcode (exactly one must be set).
type AddCartItemRequest struct {
	ProductID *string `json:"product_id" validate:"omitempty,uuid"`
	Barcode   *string `json:"barcode"`
	Quantity  int     `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

// UpdateCartItemRequest changes a line's quantity. Decrementing at
// quantity 1 is a no-op: removing the last unit is an explicit DELETE.
type UpdateCartItemRequest struct {
	Op string `json:"op" validate:"required,oneof=increment decrement"`
}

type CartItemResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	DiscountType  *string         `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// CartResponse carries the live-priced view of the in-progress
// transaction, re-derived from the cart and current settings on every read.
type CartResponse struct {
	Items          []CartItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	GlobalDiscount decimal.Decimal    `json:"global_discount"`
	TotalDiscount  decimal.Decimal    `json:"total_discount"`
	DeliveryFee    decimal.Decimal    `json:"delivery_fee"`
	Total          decimal.Decimal    `json:"total"`
}
