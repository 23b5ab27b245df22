package service_test

import (
	"context"
	"sync"
	"time"

	"counterpos/internal/dto"
	"counterpos/internal/model"
	"counterpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// The real repositories surface gorm.ErrRecordNotFound; the stubs do the
// same so services can branch on it.
var errNotFound = gorm.ErrRecordNotFound

// stubProductRepo is an in-memory ProductRepository. Guarded by a mutex
// so concurrent checkout tests exercise it safely.
type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
	// findTxErr, when set, is returned by FindByIDTx to simulate a
	// database failure inside a transaction.
	findTxErr error
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode == barcode && p.Active {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if filter.Active != "all" && filter.Active != "false" && !p.Active {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return errNotFound
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Stock += delta
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}

func (r *stubProductRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	injected := r.findTxErr
	r.mu.Unlock()
	if injected != nil {
		return nil, injected
	}
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) DecrementStockClampedTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return errNotFound
	}
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSaleRepo is an in-memory SaleRepository.
type stubSaleRepo struct {
	mu         sync.Mutex
	sales      map[uuid.UUID]*model.Sale
	offlineIdx map[string]*model.Sale
	receiptSeq int
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		sales:      make(map[uuid.UUID]*model.Sale),
		offlineIdx: make(map[string]*model.Sale),
	}
}

func (r *stubSaleRepo) Create(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.sales[s.ID] = s
	if s.OfflineID != nil {
		r.offlineIdx[*s.OfflineID] = s
	}
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindByOfflineID(_ context.Context, offlineID string) (*model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.offlineIdx[offlineID]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) NextReceiptNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receiptSeq++
	return r.receiptSeq, nil
}

func (r *stubSaleRepo) MarkSynced(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return errNotFound
	}
	s.SyncStatus = model.SyncSynced
	return nil
}

func (r *stubSaleRepo) RecordSyncFailure(_ context.Context, id uuid.UUID, attempts int, nextRetry time.Time, lastErr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return errNotFound
	}
	s.SyncAttempts = attempts
	s.NextSyncAt = &nextRetry
	s.LastSyncError = &lastErr
	return nil
}

func (r *stubSaleRepo) ListPendingSync(_ context.Context, due time.Time, limit int) ([]model.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Sale
	for _, s := range r.sales {
		if s.SyncStatus == model.SyncPending && (s.NextSyncAt == nil || !s.NextSyncAt.After(due)) {
			out = append(out, *s)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *stubSaleRepo) Summary(_ context.Context, _, _ string) (*dto.SalesSummaryResponse, error) {
	return &dto.SalesSummaryResponse{}, nil
}

func (r *stubSaleRepo) TopProducts(_ context.Context, _, _ string, _ int) ([]dto.TopProductResponse, error) {
	return nil, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// stubCartRepo is an in-memory CartRepository keyed by operator.
type stubCartRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: make(map[uuid.UUID]*model.CartItem)}
}

func (r *stubCartRepo) ListByOperator(_ context.Context, operatorID uuid.UUID) ([]model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CartItem
	for _, item := range r.items {
		if item.OperatorID == operatorID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *stubCartRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *item
	return &cp, nil
}

func (r *stubCartRepo) FindByOperatorAndProduct(_ context.Context, operatorID, productID uuid.UUID) (*model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.OperatorID == operatorID && item.ProductID == productID {
			cp := *item
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (r *stubCartRepo) Create(_ context.Context, item *model.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *stubCartRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return errNotFound
	}
	item.Quantity = quantity
	return nil
}

func (r *stubCartRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *stubCartRepo) ClearTx(_ *gorm.DB, operatorID uuid.UUID) error {
	return r.Clear(context.Background(), operatorID)
}

func (r *stubCartRepo) Clear(_ context.Context, operatorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, item := range r.items {
		if item.OperatorID == operatorID {
			delete(r.items, id)
		}
	}
	return nil
}

var _ repository.CartRepository = (*stubCartRepo)(nil)

// stubSettingsRepo holds a single settings row.
type stubSettingsRepo struct {
	mu       sync.Mutex
	settings model.StoreSettings
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{
		settings: model.StoreSettings{
			ID:                 model.SettingsRowID,
			GlobalDiscountType: model.DiscountPercentage,
			LowStockThreshold:  5,
		},
	}
}

func (r *stubSettingsRepo) Get(_ context.Context) (*model.StoreSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := r.settings
	return &cp, nil
}

func (r *stubSettingsRepo) Update(_ context.Context, s *model.StoreSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings = *s
	return nil
}

func (r *stubSettingsRepo) ResetTogglesTx(_ *gorm.DB) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings.DeliveryEnabled = false
	r.settings.GlobalDiscountEnabled = false
	return nil
}

var _ repository.SettingsRepository = (*stubSettingsRepo)(nil)

// stubMovementRepo captures created movements for assertion.
type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, _ dto.MovementFilter) ([]model.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.movements, int64(len(r.movements)), nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduct(repo *stubProductRepo, name, barcode string, price float64, stock int) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		Barcode:   barcode,
		Name:      name,
		Category:  "general",
		UnitPrice: decimal.NewFromFloat(price),
		Stock:     stock,
		Active:    true,
	}
	_ = repo.Create(context.Background(), p)
	return p
}

func strPtr(s string) *string { return &s }
