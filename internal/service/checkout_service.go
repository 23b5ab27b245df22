package service

import (
	"context"
	"errors"
	"fmt"

	"counterpos/internal/dto"
	"counterpos/internal/model"
	"counterpos/internal/pricing"
	"counterpos/internal/repository"
	"counterpos/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutService commits the operator's cart as a sale.
type CheckoutService interface {
	Commit(ctx context.Context, operatorID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error)
}

type checkoutService struct {
	saleRepo     repository.SaleRepository
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
	movementRepo repository.StockMovementRepository
	dispatcher   *worker.Dispatcher
}

func NewCheckoutService(
	saleRepo repository.SaleRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	settingsRepo repository.SettingsRepository,
	movementRepo repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
) CheckoutService {
	return &checkoutService{
		saleRepo:     saleRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		movementRepo: movementRepo,
		dispatcher:   dispatcher,
	}
}

// Commit performs the atomic cart → sale transition:
//
//  1. snapshot the cart and price it against the current settings
//  2. create the Sale with a fresh id and receipt number
//  3. decrement each product's stock by the sold quantity, clamped at
//     zero, recording a stock movement per product
//  4. clear the cart
//  5. reset the delivery and global-discount toggles (values kept)
//
// All of it runs in one database transaction: either the sale, the
// decrements, the cart clear and the toggle reset all land, or none do.
//
// An empty cart is not an error: Commit returns (nil, nil) and touches
// nothing. A cart quantity exceeding current stock does not fail the sale
// either — the decrement clamps at zero and the shortfall stays visible in
// the movement record.
func (s *checkoutService) Commit(ctx context.Context, operatorID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	// Deduplicate offline replays before doing any work.
	if req.OfflineID != nil {
		if existing, err := s.saleRepo.FindByOfflineID(ctx, *req.OfflineID); err == nil {
			return saleToResponse(existing), nil
		}
	}

	items, err := s.cartRepo.ListByOperator(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	snapshot := pricingSettings(settings)
	totals := pricing.Compute(cartLines(items), snapshot)

	syncStatus := model.SyncSynced
	if req.Offline {
		syncStatus = model.SyncPending
	}

	var sale model.Sale
	txErr := runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		receiptNum, err := s.saleRepo.NextReceiptNumber(ctx, tx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			ReceiptNumber: receiptNum,
			OperatorID:    operatorID,
			Subtotal:      totals.Subtotal,
			TotalDiscount: totals.TotalDiscount,
			DeliveryFee:   totals.DeliveryFee,
			Total:         totals.Total,
			PaymentMethod: req.PaymentMethod,
			SyncStatus:    syncStatus,
			OfflineID:     req.OfflineID,
		}
		for _, item := range items {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:     item.ProductID,
				Name:          item.Name,
				UnitPrice:     item.UnitPrice,
				Quantity:      item.Quantity,
				DiscountType:  item.DiscountType,
				DiscountValue: item.DiscountValue,
				LineTotal:     pricing.LineTotal(cartLine(&item)),
			})
		}

		if err := s.saleRepo.Create(ctx, tx, &sale); err != nil {
			return err
		}

		for _, item := range items {
			product, err := s.productRepo.FindByIDTx(tx, item.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product deleted since it was added to the cart. The sale
				// keeps its frozen snapshot; there is no stock to decrement.
				continue
			}
			if err != nil {
				return fmt.Errorf("loading product %s: %w", item.Name, err)
			}

			// Clamp: a benign race between display and commit must not
			// reject the sale, so the decrement floors at zero.
			applied := item.Quantity
			if applied > product.Stock {
				applied = product.Stock
			}
			if err := s.productRepo.DecrementStockClampedTx(tx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("decrementing stock of %s: %w", item.Name, err)
			}

			saleRef := sale.ID
			mov := &model.StockMovement{
				ProductID:   item.ProductID,
				Type:        model.MovementSale,
				Quantity:    -applied,
				StockBefore: product.Stock,
				StockAfter:  product.Stock - applied,
				Reason:      fmt.Sprintf("Sale #%d", sale.ReceiptNumber),
				ReferenceID: &saleRef,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		if err := s.cartRepo.ClearTx(tx, operatorID); err != nil {
			return err
		}

		// New sale starts undiscounted with no delivery; the numeric
		// values stay so the next toggle-on recalls them.
		return s.settingsRepo.ResetTogglesTx(tx)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort async follow-ups — never fail a committed sale.
	if s.dispatcher != nil {
		if syncStatus == model.SyncPending {
			_ = s.dispatcher.EnqueueSync(ctx, worker.SyncJobPayload{SaleID: sale.ID.String()})
		}
		if req.CustomerEmail != nil && *req.CustomerEmail != "" {
			_ = s.dispatcher.EnqueueReceiptEmail(ctx, worker.ReceiptEmailPayload{
				SaleID: sale.ID.String(),
				Email:  *req.CustomerEmail,
			})
		}
	}

	return saleToResponse(&sale), nil
}
