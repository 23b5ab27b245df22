package dto

import "github.com/shopspring/decimal"

// UpdateSettingsRequest replaces the store-wide pricing settings.
type UpdateSettingsRequest struct {
	DeliveryEnabled bool            `json:"delivery_enabled"`
	DeliveryPrice   decimal.Decimal `json:"delivery_price" validate:"min=0"`

	GlobalDiscountEnabled bool            `json:"global_discount_enabled"`
	GlobalDiscountType    string          `json:"global_discount_type"  validate:"required,oneof=percentage fixed"`
	GlobalDiscountValue   decimal.Decimal `json:"global_discount_value" validate:"min=0"`

	LowStockThreshold int `json:"low_stock_threshold" validate:"min=0"`
}

type SettingsResponse struct {
	DeliveryEnabled bool            `json:"delivery_enabled"`
	DeliveryPrice   decimal.Decimal `json:"delivery_price"`

	GlobalDiscountEnabled bool            `json:"global_discount_enabled"`
	GlobalDiscountType    string          `json:"global_discount_type"`
	GlobalDiscountValue   decimal.Decimal `json:"global_discount_value"`

	LowStockThreshold int `json:"low_stock_threshold"`
}
