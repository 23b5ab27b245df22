package dto

import "github.com/shopspring/decimal"

// ReportFilter bounds a report to a date range (inclusive, YYYY-MM-DD).
type ReportFilter struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// SalesSummaryResponse is the read-only snapshot consumed by the
// reporting collaborator.
type SalesSummaryResponse struct {
	From          string          `json:"from,omitempty"`
	To            string          `json:"to,omitempty"`
	SaleCount     int64           `json:"sale_count"`
	Revenue       decimal.Decimal `json:"revenue"`
	DiscountGiven decimal.Decimal `json:"discount_given"`
	DeliveryFees  decimal.Decimal `json:"delivery_fees"`
	CashTotal     decimal.Decimal `json:"cash_total"`
	CardTotal     decimal.Decimal `json:"card_total"`
	PendingSync   int64           `json:"pending_sync"`
}

type TopProductResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ValuationResponse totals the catalog at current prices and stock.
type ValuationResponse struct {
	ProductCount int64           `json:"product_count"`
	UnitsInStock int64           `json:"units_in_stock"`
	StockValue   decimal.Decimal `json:"stock_value"`
	OutOfStock   int64           `json:"out_of_stock"`
	LowStock     int64           `json:"low_stock"`
}
