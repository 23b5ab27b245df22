package repository

import (
	"context"

	"counterpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository stores per-operator in-progress transactions. Carts are
// persisted like every other aggregate so a cashier's cart survives a
// restart.
type CartRepository interface {
	ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]model.CartItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.CartItem, error)
	FindByOperatorAndProduct(ctx context.Context, operatorID, productID uuid.UUID) (*model.CartItem, error)
	Create(ctx context.Context, item *model.CartItem) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	ClearTx(tx *gorm.DB, operatorID uuid.UUID) error
	Clear(ctx context.Context, operatorID uuid.UUID) error
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) CartRepository { return &cartRepo{db: db} }

func (r *cartRepo) ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *cartRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	return &item, err
}

func (r *cartRepo) FindByOperatorAndProduct(ctx context.Context, operatorID, productID uuid.UUID) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("operator_id = ? AND product_id = ?", operatorID, productID).
		First(&item).Error
	return &item, err
}

func (r *cartRepo) Create(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *cartRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CartItem{}, id).Error
}

func (r *cartRepo) ClearTx(tx *gorm.DB, operatorID uuid.UUID) error {
	return tx.Where("operator_id = ?", operatorID).Delete(&model.CartItem{}).Error
}

func (r *cartRepo) Clear(ctx context.Context, operatorID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("operator_id = ?", operatorID).Delete(&model.CartItem{}).Error
}
