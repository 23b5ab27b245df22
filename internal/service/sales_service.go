package service

import (
	"context"
	"errors"

	"counterpos/internal/dto"
	"counterpos/internal/repository"

	"github.com/google/uuid"
)

// SalesService reads the append-only ledger. Sales are never mutated
// through this service.
type SalesService interface {
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
}

type salesService struct {
	repo repository.SaleRepository
}

func NewSalesService(repo repository.SaleRepository) SalesService {
	return &salesService{repo: repo}
}

// List returns a paginated, most-recent-first slice of the ledger.
func (s *salesService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	sales, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for _, sale := range sales {
		data = append(data, *saleToResponse(&sale))
	}
	return &dto.SaleListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *salesService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("sale not found")
	}
	return saleToResponse(sale), nil
}
