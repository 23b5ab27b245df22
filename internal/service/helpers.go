package service

import (
	"context"
	"time"

	"counterpos/internal/dto"
	"counterpos/internal/model"
	"counterpos/internal/pricing"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available, or
// calls fn(nil) directly when db is nil (unit test mode with stub repos).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// pricingSettings converts the stored settings row into the immutable
// snapshot the calculator consumes. Both the live cart preview and the
// checkout commit go through this, so display and charge use identical
// inputs.
func pricingSettings(s *model.StoreSettings) pricing.Settings {
	return pricing.Settings{
		DeliveryEnabled:       s.DeliveryEnabled,
		DeliveryPrice:         s.DeliveryPrice,
		GlobalDiscountEnabled: s.GlobalDiscountEnabled,
		GlobalDiscountType:    s.GlobalDiscountType,
		GlobalDiscountValue:   s.GlobalDiscountValue,
	}
}

// cartLines maps cart items to calculator lines.
func cartLines(items []model.CartItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, cartLine(&item))
	}
	return lines
}

func cartLine(item *model.CartItem) pricing.Line {
	l := pricing.Line{
		UnitPrice:     item.UnitPrice,
		Quantity:      item.Quantity,
		DiscountValue: item.DiscountValue,
	}
	if item.DiscountType != nil {
		l.DiscountType = *item.DiscountType
	}
	return l
}

func productToResponse(p *model.Product, globalThreshold int) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID.String(),
		Barcode:           p.Barcode,
		Name:              p.Name,
		Category:          p.Category,
		UnitPrice:         p.UnitPrice,
		Stock:             p.Stock,
		LowStockThreshold: p.LowStockThreshold,
		DiscountType:      p.DiscountType,
		DiscountValue:     p.DiscountValue,
		Supplier:          p.Supplier,
		ImageURL:          p.ImageURL,
		Status:            p.Status(globalThreshold),
		Active:            p.Active,
		CreatedAt:         p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:     item.ProductID.String(),
			Name:          item.Name,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			DiscountType:  item.DiscountType,
			DiscountValue: item.DiscountValue,
			LineTotal:     item.LineTotal,
		})
	}
	operator := ""
	if s.Operator != nil {
		operator = s.Operator.Name
	}
	return &dto.SaleResponse{
		ID:            s.ID.String(),
		ReceiptNumber: s.ReceiptNumber,
		OperatorID:    s.OperatorID.String(),
		Operator:      operator,
		Items:         items,
		Subtotal:      s.Subtotal,
		TotalDiscount: s.TotalDiscount,
		DeliveryFee:   s.DeliveryFee,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		SyncStatus:    s.SyncStatus,
		CreatedAt:     s.CreatedAt.UTC().Format(time.RFC3339),
	}
}
