package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"counterpos/internal/dto"
	"counterpos/internal/model"
	"counterpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrBarcodeTaken is returned when creating or re-barcoding a product
// onto a barcode already assigned to another product.
var ErrBarcodeTaken = errors.New("barcode already in use")

// InventoryService is the business logic contract for the catalog.
type InventoryService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// BulkImport upserts by barcode: matches merge fields into the
	// existing product keeping its id, misses insert with a fresh id.
	BulkImport(ctx context.Context, req dto.BulkImportRequest) (*dto.BulkImportResponse, error)
	ImportCSV(ctx context.Context, r io.Reader) (*dto.BulkImportResponse, error)
	ExportCSV(ctx context.Context, w io.Writer) error

	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	Alerts(ctx context.Context) ([]dto.StockAlertResponse, error)
	Movements(ctx context.Context, filter dto.MovementFilter) ([]dto.StockMovementResponse, int64, error)
}

type inventoryService struct {
	repo         repository.ProductRepository
	movementRepo repository.StockMovementRepository
	settingsRepo repository.SettingsRepository
}

func NewInventoryService(
	repo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	settingsRepo repository.SettingsRepository,
) InventoryService {
	return &inventoryService{repo: repo, movementRepo: movementRepo, settingsRepo: settingsRepo}
}

func (s *inventoryService) threshold(ctx context.Context) (int, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return 0, err
	}
	return settings.LowStockThreshold, nil
}

func (s *inventoryService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := s.repo.FindByBarcode(ctx, req.Barcode); err == nil {
		return nil, ErrBarcodeTaken
	}

	p := &model.Product{
		Barcode:           req.Barcode,
		Name:              req.Name,
		Category:          req.Category,
		UnitPrice:         req.UnitPrice,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		Supplier:          req.Supplier,
		ImageURL:          req.ImageURL,
		Active:            true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	threshold, err := s.threshold(ctx)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, threshold), nil
}

func (s *inventoryService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	threshold, err := s.threshold(ctx)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, threshold), nil
}

func (s *inventoryService) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, ErrProductNotFound
	}
	threshold, err := s.threshold(ctx)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, threshold), nil
}

func (s *inventoryService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	threshold, err := s.threshold(ctx)
	if err != nil {
		return nil, err
	}

	// Status is derived from (stock, threshold), so a status filter cannot
	// be pushed into SQL; load the matching set and page in memory.
	if filter.Status != "" {
		all, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		matched := make([]model.Product, 0, len(all))
		for _, p := range all {
			if p.Status(threshold) == filter.Status {
				matched = append(matched, p)
			}
		}
		total := int64(len(matched))
		start := (filter.Page - 1) * filter.Limit
		if start > len(matched) {
			start = len(matched)
		}
		end := start + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		return s.listResponse(matched[start:end], total, filter, threshold), nil
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.listResponse(products, total, filter, threshold), nil
}

func (s *inventoryService) listResponse(products []model.Product, total int64, filter dto.ProductFilter, threshold int) *dto.ProductListResponse {
	data := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, *productToResponse(&p, threshold))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}
}

func (s *inventoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if req.Barcode != p.Barcode {
		if other, err := s.repo.FindByBarcode(ctx, req.Barcode); err == nil && other.ID != id {
			return nil, ErrBarcodeTaken
		}
	}

	p.Barcode = req.Barcode
	p.Name = req.Name
	p.Category = req.Category
	p.UnitPrice = req.UnitPrice
	p.Stock = req.Stock
	p.LowStockThreshold = req.LowStockThreshold
	p.DiscountType = req.DiscountType
	p.DiscountValue = req.DiscountValue
	p.Supplier = req.Supplier
	p.ImageURL = req.ImageURL

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	threshold, err := s.threshold(ctx)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, threshold), nil
}

// Delete removes a product outright. Past sales are unaffected: they hold
// frozen item snapshots, never references into the catalog.
func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *inventoryService) BulkImport(ctx context.Context, req dto.BulkImportRequest) (*dto.BulkImportResponse, error) {
	resp := &dto.BulkImportResponse{}
	for _, incoming := range req.Products {
		existing, err := s.repo.FindByBarcode(ctx, incoming.Barcode)
		if err == nil {
			// Merge fields, preserving the existing identifier.
			stockBefore := existing.Stock
			existing.Name = incoming.Name
			existing.Category = incoming.Category
			existing.UnitPrice = incoming.UnitPrice
			existing.Stock = incoming.Stock
			existing.LowStockThreshold = incoming.LowStockThreshold
			existing.DiscountType = incoming.DiscountType
			existing.DiscountValue = incoming.DiscountValue
			existing.Supplier = incoming.Supplier
			existing.ImageURL = incoming.ImageURL
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("updating %s: %w", incoming.Barcode, err)
			}
			if incoming.Stock != stockBefore {
				if err := s.recordImportMovement(ctx, existing.ID, stockBefore, incoming.Stock); err != nil {
					return nil, err
				}
			}
			resp.Updated++
			continue
		}

		p := &model.Product{
			Barcode:           incoming.Barcode,
			Name:              incoming.Name,
			Category:          incoming.Category,
			UnitPrice:         incoming.UnitPrice,
			Stock:             incoming.Stock,
			LowStockThreshold: incoming.LowStockThreshold,
			DiscountType:      incoming.DiscountType,
			DiscountValue:     incoming.DiscountValue,
			Supplier:          incoming.Supplier,
			ImageURL:          incoming.ImageURL,
			Active:            true,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("creating %s: %w", incoming.Barcode, err)
		}
		if p.Stock > 0 {
			if err := s.recordImportMovement(ctx, p.ID, 0, p.Stock); err != nil {
				return nil, err
			}
		}
		resp.Created++
	}
	return resp, nil
}

func (s *inventoryService) recordImportMovement(ctx context.Context, productID uuid.UUID, before, after int) error {
	return s.movementRepo.Create(ctx, &model.StockMovement{
		ProductID:   productID,
		Type:        model.MovementImport,
		Quantity:    after - before,
		StockBefore: before,
		StockAfter:  after,
		Reason:      "bulk import",
	})
}

// csvHeader is the column order for CSV import and export.
var csvHeader = []string{
	"barcode", "name", "category", "unit_price", "stock",
	"low_stock_threshold", "discount_type", "discount_value", "supplier",
}

func (s *inventoryService) ImportCSV(ctx context.Context, r io.Reader) (*dto.BulkImportResponse, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("empty csv file")
	}
	// Skip a header row if present.
	if records[0][0] == csvHeader[0] {
		records = records[1:]
	}

	req := dto.BulkImportRequest{Products: make([]dto.CreateProductRequest, 0, len(records))}
	for i, rec := range records {
		price, err := decimal.NewFromString(rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad unit_price %q", i+1, rec[3])
		}
		stock, err := strconv.Atoi(rec[4])
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("row %d: bad stock %q", i+1, rec[4])
		}

		p := dto.CreateProductRequest{
			Barcode:   rec[0],
			Name:      rec[1],
			Category:  rec[2],
			UnitPrice: price,
			Stock:     stock,
			Supplier:  rec[8],
		}
		if rec[5] != "" {
			t, err := strconv.Atoi(rec[5])
			if err != nil || t < 0 {
				return nil, fmt.Errorf("row %d: bad low_stock_threshold %q", i+1, rec[5])
			}
			p.LowStockThreshold = &t
		}
		if rec[6] != "" {
			if rec[6] != model.DiscountPercentage && rec[6] != model.DiscountFixed {
				return nil, fmt.Errorf("row %d: bad discount_type %q", i+1, rec[6])
			}
			discType := rec[6]
			p.DiscountType = &discType
			value, err := decimal.NewFromString(rec[7])
			if err != nil {
				return nil, fmt.Errorf("row %d: bad discount_value %q", i+1, rec[7])
			}
			p.DiscountValue = value
		}
		req.Products = append(req.Products, p)
	}

	return s.BulkImport(ctx, req)
}

func (s *inventoryService) ExportCSV(ctx context.Context, w io.Writer) error {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range products {
		threshold := ""
		if p.LowStockThreshold != nil {
			threshold = strconv.Itoa(*p.LowStockThreshold)
		}
		discType := ""
		discValue := ""
		if p.DiscountType != nil {
			discType = *p.DiscountType
			discValue = p.DiscountValue.String()
		}
		row := []string{
			p.Barcode, p.Name, p.Category, p.UnitPrice.String(),
			strconv.Itoa(p.Stock), threshold, discType, discValue, p.Supplier,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (s *inventoryService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if err := s.repo.AdjustStock(ctx, id, req.Delta); err != nil {
		return nil, err
	}

	after := p.Stock + req.Delta
	if after < 0 {
		after = 0
	}
	mov := &model.StockMovement{
		ProductID:   id,
		Type:        model.MovementAdjustment,
		Quantity:    after - p.Stock,
		StockBefore: p.Stock,
		StockAfter:  after,
		Reason:      req.Reason,
	}
	if err := s.movementRepo.Create(ctx, mov); err != nil {
		return nil, err
	}

	p.Stock = after
	threshold, err := s.threshold(ctx)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, threshold), nil
}

// Alerts lists products whose derived status is low or out of stock.
func (s *inventoryService) Alerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	threshold, err := s.threshold(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]dto.StockAlertResponse, 0)
	for _, p := range products {
		status := p.Status(threshold)
		if status == model.StatusInStock {
			continue
		}
		effective := threshold
		if p.LowStockThreshold != nil {
			effective = *p.LowStockThreshold
		}
		alerts = append(alerts, dto.StockAlertResponse{
			ProductID: p.ID.String(),
			Name:      p.Name,
			Barcode:   p.Barcode,
			Stock:     p.Stock,
			Threshold: effective,
			Status:    status,
		})
	}
	return alerts, nil
}

func (s *inventoryService) Movements(ctx context.Context, filter dto.MovementFilter) ([]dto.StockMovementResponse, int64, error) {
	movements, total, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		resp := dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			Type:        m.Type,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			CreatedAt:   m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if m.Product != nil {
			resp.Product = m.Product.Name
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			resp.ReferenceID = &ref
		}
		out = append(out, resp)
	}
	return out, total, nil
}
