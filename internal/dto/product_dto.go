package dto

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Barcode           string          `json:"barcode"  validate:"required"`
	Name              string          `json:"name"     validate:"required"`
	Category          string          `json:"category" validate:"required"`
	UnitPrice         decimal.Decimal `json:"unit_price" validate:"min=0"`
	Stock             int             `json:"stock"      validate:"min=0"`
	LowStockThreshold *int            `json:"low_stock_threshold" validate:"omitempty,min=0"`
	DiscountType      *string         `json:"discount_type"  validate:"omitempty,oneof=percentage fixed"`
	DiscountValue     decimal.Decimal `json:"discount_value" validate:"min=0"`
	Supplier          string          `json:"supplier"`
	ImageURL          *string         `json:"image_url"`
}

type UpdateProductRequest struct {
	Barcode           string          `json:"barcode"  validate:"required"`
	Name              string          `json:"name"     validate:"required"`
	Category          string          `json:"category" validate:"required"`
	UnitPrice         decimal.Decimal `json:"unit_price" validate:"min=0"`
	Stock             int             `json:"stock"      validate:"min=0"`
	LowStockThreshold *int            `json:"low_stock_threshold" validate:"omitempty,min=0"`
	DiscountType      *string         `json:"discount_type"  validate:"omitempty,oneof=percentage fixed"`
	DiscountValue     decimal.Decimal `json:"discount_value" validate:"min=0"`
	Supplier          string          `json:"supplier"`
	ImageURL          *string         `json:"image_url"`
}

// BulkImportRequest upserts products by barcode: a matching barcode merges
// fields into the existing product (keeping its id), an unknown barcode
// inserts a new product.
type BulkImportRequest struct {
	Products []CreateProductRequest `json:"products" validate:"required,min=1,dive"`
}

type BulkImportResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Barcode  string `form:"barcode"`
	Status   string `form:"status"` // in_stock | low_stock | out_of_stock
	Active   string `form:"active"` // "false" = inactive, "all" = everything, default active
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductResponse struct {
	ID                string          `json:"id"`
	Barcode           string          `json:"barcode"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Stock             int             `json:"stock"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty"`
	DiscountType      *string         `json:"discount_type,omitempty"`
	DiscountValue     decimal.Decimal `json:"discount_value"`
	Supplier          string          `json:"supplier,omitempty"`
	ImageURL          *string         `json:"image_url,omitempty"`
	// Status is derived from (stock, threshold) at read time, never stored.
	Status    string `json:"status"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Reason string `json:"reason" validate:"required,min=3"`
}

type StockAlertResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Barcode   string `json:"barcode"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
	Status    string `json:"status"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	Product     string  `json:"product,omitempty"`
	Type        string  `json:"type"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason,omitempty"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// PriceLookupResponse is the public price-check view: just enough for a
// customer-facing kiosk, nothing about suppliers or margins.
type PriceLookupResponse struct {
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountType  *string         `json:"discount_type,omitempty"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	Status        string          `json:"status"`
}

type MovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Type      string `form:"type"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}
