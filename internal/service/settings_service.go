package service

import (
	"context"

	"counterpos/internal/dto"
	"counterpos/internal/model"
	"counterpos/internal/repository"
)

// SettingsService reads and replaces the store-wide pricing settings.
// No recompute pass is needed when the global threshold changes: stock
// status is derived at every read site.
type SettingsService interface {
	Get(ctx context.Context) (*dto.SettingsResponse, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo repository.SettingsRepository
}

func NewSettingsService(repo repository.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settingsToResponse(settings), nil
}

func (s *settingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings := &model.StoreSettings{
		ID:                    model.SettingsRowID,
		DeliveryEnabled:       req.DeliveryEnabled,
		DeliveryPrice:         req.DeliveryPrice,
		GlobalDiscountEnabled: req.GlobalDiscountEnabled,
		GlobalDiscountType:    req.GlobalDiscountType,
		GlobalDiscountValue:   req.GlobalDiscountValue,
		LowStockThreshold:     req.LowStockThreshold,
	}
	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settingsToResponse(settings), nil
}

func settingsToResponse(s *model.StoreSettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		DeliveryEnabled:       s.DeliveryEnabled,
		DeliveryPrice:         s.DeliveryPrice,
		GlobalDiscountEnabled: s.GlobalDiscountEnabled,
		GlobalDiscountType:    s.GlobalDiscountType,
		GlobalDiscountValue:   s.GlobalDiscountValue,
		LowStockThreshold:     s.LowStockThreshold,
	}
}
