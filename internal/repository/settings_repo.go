package repository

import (
	"context"

	"counterpos/internal/model"

	"gorm.io/gorm"
)

// SettingsRepository manages the singleton store settings row.
type SettingsRepository interface {
	Get(ctx context.Context) (*model.StoreSettings, error)
	Update(ctx context.Context, s *model.StoreSettings) error
	// ResetTogglesTx turns delivery and global discount off inside the
	// checkout transaction, keeping the numeric values untouched.
	ResetTogglesTx(tx *gorm.DB) error
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context) (*model.StoreSettings, error) {
	var s model.StoreSettings
	err := r.db.WithContext(ctx).First(&s, model.SettingsRowID).Error
	if err == gorm.ErrRecordNotFound {
		// First boot: create the row with defaults.
		s = model.StoreSettings{ID: model.SettingsRowID, GlobalDiscountType: model.DiscountPercentage, LowStockThreshold: 5}
		if createErr := r.db.WithContext(ctx).Create(&s).Error; createErr != nil {
			return nil, createErr
		}
		return &s, nil
	}
	return &s, err
}

func (r *settingsRepo) Update(ctx context.Context, s *model.StoreSettings) error {
	s.ID = model.SettingsRowID
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *settingsRepo) ResetTogglesTx(tx *gorm.DB) error {
	return tx.Model(&model.StoreSettings{}).Where("id = ?", model.SettingsRowID).
		Updates(map[string]interface{}{
			"delivery_enabled":        false,
			"global_discount_enabled": false,
		}).Error
}
