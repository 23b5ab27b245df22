package service

import (
	"context"

	"counterpos/internal/dto"
	"counterpos/internal/model"
	"counterpos/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService produces the read-only snapshots the reporting collaborator
// consumes. Nothing here mutates state.
type ReportService interface {
	Summary(ctx context.Context, filter dto.ReportFilter) (*dto.SalesSummaryResponse, error)
	TopProducts(ctx context.Context, filter dto.ReportFilter, limit int) ([]dto.TopProductResponse, error)
	Valuation(ctx context.Context) (*dto.ValuationResponse, error)
}

type reportService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
}

func NewReportService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	settingsRepo repository.SettingsRepository,
) ReportService {
	return &reportService{saleRepo: saleRepo, productRepo: productRepo, settingsRepo: settingsRepo}
}

func (s *reportService) Summary(ctx context.Context, filter dto.ReportFilter) (*dto.SalesSummaryResponse, error) {
	return s.saleRepo.Summary(ctx, filter.From, filter.To)
}

func (s *reportService) TopProducts(ctx context.Context, filter dto.ReportFilter, limit int) ([]dto.TopProductResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.saleRepo.TopProducts(ctx, filter.From, filter.To, limit)
}

// Valuation totals the active catalog at current prices and stock, with
// status counts derived the same way every read site derives them.
func (s *reportService) Valuation(ctx context.Context) (*dto.ValuationResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ValuationResponse{StockValue: decimal.Zero}
	for _, p := range products {
		resp.ProductCount++
		resp.UnitsInStock += int64(p.Stock)
		resp.StockValue = resp.StockValue.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Stock))))
		switch p.Status(settings.LowStockThreshold) {
		case model.StatusOutOfStock:
			resp.OutOfStock++
		case model.StatusLowStock:
			resp.LowStock++
		}
	}
	return resp, nil
}
