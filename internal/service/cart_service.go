package service

import (
	"context"
	"errors"
	"fmt"

	"counterpos/internal/dto"
	"counterpos/internal/model"
	"counterpos/internal/pricing"
	"counterpos/internal/repository"

	"github.com/google/uuid"
)

// User-facing cart errors, surfaced as notifications without mutating
// anything.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// CartService manages the operator's in-progress transaction.
type CartService interface {
	Get(ctx context.Context, operatorID uuid.UUID) (*dto.CartResponse, error)
	// AddItem adds a product located by id or barcode; the catalog
	// discount is snapshotted into the line at this moment.
	AddItem(ctx context.Context, operatorID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error)
	// UpdateItem increments or decrements a line's quantity. Decrement at
	// quantity 1 is a silent no-op.
	UpdateItem(ctx context.Context, operatorID, itemID uuid.UUID, op string) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, operatorID, itemID uuid.UUID) (*dto.CartResponse, error)
	Clear(ctx context.Context, operatorID uuid.UUID) error
}

type cartService struct {
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	settingsRepo repository.SettingsRepository,
) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo, settingsRepo: settingsRepo}
}

func (s *cartService) Get(ctx context.Context, operatorID uuid.UUID) (*dto.CartResponse, error) {
	return s.respond(ctx, operatorID)
}

func (s *cartService) AddItem(ctx context.Context, operatorID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	product, err := s.resolveProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	if product.Stock == 0 {
		return nil, ErrOutOfStock
	}

	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}

	if existing, err := s.cartRepo.FindByOperatorAndProduct(ctx, operatorID, product.ID); err == nil {
		if err := s.cartRepo.UpdateQuantity(ctx, existing.ID, existing.Quantity+qty); err != nil {
			return nil, err
		}
		return s.respond(ctx, operatorID)
	}

	item := &model.CartItem{
		OperatorID:    operatorID,
		ProductID:     product.ID,
		Name:          product.Name,
		UnitPrice:     product.UnitPrice,
		Quantity:      qty,
		DiscountType:  product.DiscountType,
		DiscountValue: product.DiscountValue,
	}
	if err := s.cartRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.respond(ctx, operatorID)
}

func (s *cartService) UpdateItem(ctx context.Context, operatorID, itemID uuid.UUID, op string) (*dto.CartResponse, error) {
	item, err := s.ownedItem(ctx, operatorID, itemID)
	if err != nil {
		return nil, err
	}

	switch op {
	case "increment":
		if err := s.cartRepo.UpdateQuantity(ctx, item.ID, item.Quantity+1); err != nil {
			return nil, err
		}
	case "decrement":
		// Quantity floors at 1; removing the line is an explicit delete.
		if item.Quantity > 1 {
			if err := s.cartRepo.UpdateQuantity(ctx, item.ID, item.Quantity-1); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown cart operation %q", op)
	}
	return s.respond(ctx, operatorID)
}

func (s *cartService) RemoveItem(ctx context.Context, operatorID, itemID uuid.UUID) (*dto.CartResponse, error) {
	item, err := s.ownedItem(ctx, operatorID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Delete(ctx, item.ID); err != nil {
		return nil, err
	}
	return s.respond(ctx, operatorID)
}

func (s *cartService) Clear(ctx context.Context, operatorID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, operatorID)
}

func (s *cartService) resolveProduct(ctx context.Context, req dto.AddCartItemRequest) (*model.Product, error) {
	switch {
	case req.ProductID != nil:
		id, err := uuid.Parse(*req.ProductID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		p, err := s.productRepo.FindByID(ctx, id)
		if err != nil || !p.Active {
			return nil, ErrProductNotFound
		}
		return p, nil
	case req.Barcode != nil && *req.Barcode != "":
		p, err := s.productRepo.FindByBarcode(ctx, *req.Barcode)
		if err != nil {
			return nil, ErrProductNotFound
		}
		return p, nil
	default:
		return nil, errors.New("product_id or barcode is required")
	}
}

func (s *cartService) ownedItem(ctx context.Context, operatorID, itemID uuid.UUID) (*model.CartItem, error) {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil || item.OperatorID != operatorID {
		return nil, errors.New("cart item not found")
	}
	return item, nil
}

// respond rebuilds the live-priced cart view: totals are re-derived from
// the lines and the current settings on every read, never cached.
func (s *cartService) respond(ctx context.Context, operatorID uuid.UUID) (*dto.CartResponse, error) {
	items, err := s.cartRepo.ListByOperator(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	totals := pricing.Compute(cartLines(items), pricingSettings(settings))

	resp := &dto.CartResponse{
		Items:          make([]dto.CartItemResponse, 0, len(items)),
		Subtotal:       totals.Subtotal,
		GlobalDiscount: totals.GlobalDiscount,
		TotalDiscount:  totals.TotalDiscount,
		DeliveryFee:    totals.DeliveryFee,
		Total:          totals.Total,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ID:            item.ID.String(),
			ProductID:     item.ProductID.String(),
			Name:          item.Name,
			UnitPrice:     item.UnitPrice,
			Quantity:      item.Quantity,
			DiscountType:  item.DiscountType,
			DiscountValue: item.DiscountValue,
			LineTotal:     pricing.LineTotal(cartLine(&item)),
		})
	}
	return resp, nil
}
