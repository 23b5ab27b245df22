package repository

import (
	"context"
	"time"

	"counterpos/internal/dto"
	"counterpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRepository is the append-only sales ledger. Completed sales are
// never mutated except for sync bookkeeping.
type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByOfflineID(ctx context.Context, offlineID string) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	NextReceiptNumber(ctx context.Context, tx *gorm.DB) (int, error)

	// Sync bookkeeping — the only writes after creation.
	MarkSynced(ctx context.Context, id uuid.UUID) error
	RecordSyncFailure(ctx context.Context, id uuid.UUID, attempts int, nextRetry time.Time, lastErr string) error
	ListPendingSync(ctx context.Context, due time.Time, limit int) ([]model.Sale, error)

	// Aggregations for the reporting collaborator.
	Summary(ctx context.Context, from, to string) (*dto.SalesSummaryResponse, error)
	TopProducts(ctx context.Context, from, to string, limit int) ([]dto.TopProductResponse, error)

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Preload("Operator").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) FindByOfflineID(ctx context.Context, offlineID string) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Where("offline_id = ?", offlineID).First(&s).Error
	return &s, err
}

func (r *saleRepo) NextReceiptNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence keeps receipt numbers gapless enough and atomic.
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('sales_receipt_number_seq')").Scan(&num).Error
	return num, err
}

// List returns the ledger most-recent-first.
func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.SyncStatus != "" {
		q = q.Where("sync_status = ?", filter.SyncStatus)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").Preload("Operator").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) MarkSynced(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Sale{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"sync_status":     model.SyncSynced,
			"next_sync_at":    nil,
			"last_sync_error": nil,
		}).Error
}

func (r *saleRepo) RecordSyncFailure(ctx context.Context, id uuid.UUID, attempts int, nextRetry time.Time, lastErr string) error {
	return r.db.WithContext(ctx).Model(&model.Sale{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"sync_attempts":   attempts,
			"next_sync_at":    nextRetry,
			"last_sync_error": lastErr,
		}).Error
}

func (r *saleRepo) ListPendingSync(ctx context.Context, due time.Time, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Where("sync_status = ? AND (next_sync_at IS NULL OR next_sync_at <= ?)", model.SyncPending, due).
		Order("created_at ASC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) Summary(ctx context.Context, from, to string) (*dto.SalesSummaryResponse, error) {
	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if from != "" {
		q = q.Where("DATE(created_at) >= ?", from)
	}
	if to != "" {
		q = q.Where("DATE(created_at) <= ?", to)
	}

	var row struct {
		SaleCount     int64
		Revenue       decimal.Decimal
		DiscountGiven decimal.Decimal
		DeliveryFees  decimal.Decimal
		CashTotal     decimal.Decimal
		CardTotal     decimal.Decimal
		PendingSync   int64
	}
	err := q.Select(`
		COUNT(*)                                                   AS sale_count,
		COALESCE(SUM(total), 0)                                    AS revenue,
		COALESCE(SUM(total_discount), 0)                           AS discount_given,
		COALESCE(SUM(delivery_fee), 0)                             AS delivery_fees,
		COALESCE(SUM(total) FILTER (WHERE payment_method = 'cash'), 0) AS cash_total,
		COALESCE(SUM(total) FILTER (WHERE payment_method = 'card'), 0) AS card_total,
		COUNT(*) FILTER (WHERE sync_status = 'pending')            AS pending_sync`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &dto.SalesSummaryResponse{
		From:          from,
		To:            to,
		SaleCount:     row.SaleCount,
		Revenue:       row.Revenue,
		DiscountGiven: row.DiscountGiven,
		DeliveryFees:  row.DeliveryFees,
		CashTotal:     row.CashTotal,
		CardTotal:     row.CardTotal,
		PendingSync:   row.PendingSync,
	}, nil
}

func (r *saleRepo) TopProducts(ctx context.Context, from, to string, limit int) ([]dto.TopProductResponse, error) {
	q := r.db.WithContext(ctx).
		Table("sale_items").
		Joins("JOIN sales ON sales.id = sale_items.sale_id")
	if from != "" {
		q = q.Where("DATE(sales.created_at) >= ?", from)
	}
	if to != "" {
		q = q.Where("DATE(sales.created_at) <= ?", to)
	}

	var rows []struct {
		ProductID uuid.UUID
		Name      string
		Quantity  int64
		Revenue   decimal.Decimal
	}
	err := q.Select(`
		sale_items.product_id           AS product_id,
		MAX(sale_items.name)            AS name,
		SUM(sale_items.quantity)        AS quantity,
		SUM(sale_items.line_total)      AS revenue`).
		Group("sale_items.product_id").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.TopProductResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.TopProductResponse{
			ProductID: row.ProductID.String(),
			Name:      row.Name,
			Quantity:  row.Quantity,
			Revenue:   row.Revenue,
		})
	}
	return out, nil
}
