package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"counterpos/internal/dto"
	"counterpos/internal/model"
	"counterpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc      service.CheckoutService
	cartSvc  service.CartService
	sales    *stubSaleRepo
	carts    *stubCartRepo
	products *stubProductRepo
	settings *stubSettingsRepo
	moves    *stubMovementRepo
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		sales:    newStubSaleRepo(),
		carts:    newStubCartRepo(),
		products: newStubProductRepo(),
		settings: newStubSettingsRepo(),
		moves:    &stubMovementRepo{},
	}
	f.svc = service.NewCheckoutService(f.sales, f.carts, f.products, f.settings, f.moves, nil)
	f.cartSvc = service.NewCartService(f.carts, f.products, f.settings)
	return f
}

func (f *checkoutFixture) addToCart(t *testing.T, operatorID uuid.UUID, productID uuid.UUID, qty int) {
	t.Helper()
	idStr := productID.String()
	_, err := f.cartSvc.AddItem(context.Background(), operatorID, dto.AddCartItemRequest{
		ProductID: &idStr,
		Quantity:  qty,
	})
	require.NoError(t, err)
}

func TestCheckoutEmptyCartIsNoOp(t *testing.T) {
	f := newCheckoutFixture()
	operator := uuid.New()

	// toggles on so we can verify nothing resets them
	s, _ := f.settings.Get(context.Background())
	s.DeliveryEnabled = true
	s.GlobalDiscountEnabled = true
	require.NoError(t, f.settings.Update(context.Background(), s))

	resp, err := f.svc.Commit(context.Background(), operator, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})

	require.NoError(t, err)
	assert.Nil(t, resp)

	_, total, _ := f.sales.List(context.Background(), dto.SaleFilter{})
	assert.Zero(t, total)

	after, _ := f.settings.Get(context.Background())
	assert.True(t, after.DeliveryEnabled)
	assert.True(t, after.GlobalDiscountEnabled)
}

func TestCheckoutBasicSale(t *testing.T) {
	f := newCheckoutFixture()
	operator := uuid.New()
	p := seedProduct(f.products, "Milk 1L", "7790001000015", 10, 5)
	f.addToCart(t, operator, p.ID, 2)

	resp, err := f.svc.Commit(context.Background(), operator, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 1, resp.ReceiptNumber)
	assert.Equal(t, model.SyncSynced, resp.SyncStatus)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(20)), "total = %s", resp.Total)

	// stock decremented
	after, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, after.Stock)

	// cart cleared
	items, _ := f.carts.ListByOperator(context.Background(), operator)
	assert.Empty(t, items)

	// one movement for the sold quantity
	moves, _, _ := f.moves.List(context.Background(), dto.MovementFilter{})
	require.Len(t, moves, 1)
	assert.Equal(t, model.MovementSale, moves[0].Type)
	assert.Equal(t, -2, moves[0].Quantity)
	assert.Equal(t, 5, moves[0].StockBefore)
	assert.Equal(t, 3, moves[0].StockAfter)
}

func TestCheckoutAppliesDiscountsThenDelivery(t *testing.T) {
	f := newCheckoutFixture()
	operator := uuid.New()

	p := seedProduct(f.products, "Board game", "7790001000022", 50, 3)
	p.DiscountType = strPtr(model.DiscountPercentage)
	p.DiscountValue = decimal.NewFromInt(20)
	require.NoError(t, f.products.Update(context.Background(), p))

	s, _ := f.settings.Get(context.Background())
	s.GlobalDiscountEnabled = true
	s.GlobalDiscountType = model.DiscountFixed
	s.GlobalDiscountValue = decimal.NewFromInt(10)
	s.DeliveryEnabled = true
	s.DeliveryPrice = decimal.NewFromInt(5)
	require.NoError(t, f.settings.Update(context.Background(), s))

	f.addToCart(t, operator, p.ID, 1)

	resp, err := f.svc.Commit(context.Background(), operator, dto.CheckoutRequest{PaymentMethod: model.PaymentCard})

	require.NoError(t, err)
	require.NotNil(t, resp)
	// 50 − 20% = 40, − 10 global = 30, + 5 delivery = 35
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(40)), "subtotal = %s", resp.Subtotal)
	assert.True(t, resp.TotalDiscount.Equal(decimal.NewFromInt(20)), "total discount = %s", resp.TotalDiscount)
	assert.True(t, resp.DeliveryFee.Equal(decimal.NewFromInt(5)))
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(35)), "total = %s", resp.Total)
}

func TestCheckoutResetsTogglesKeepingValues(t *testing.T) {
	f := newCheckoutFixture()
	operator := uuid.New()
	p := seedProduct(f.products, "Soap", "7790001000039", 3, 10)

	s, _ := f.settings.Get(context.Background())
	s.DeliveryEnabled = true
	s.DeliveryPrice = decimal.NewFromInt(7)
	s.GlobalDiscountEnabled = true
	s.GlobalDiscountType = model.DiscountPercentage
	s.GlobalDiscountValue = decimal.NewFromInt(15)
	require.NoError(t, f.settings.Update(context.Background(), s))

	f.addToCart(t, operator, p.ID, 1)
	_, err := f.svc.Commit(context.Background(), operator, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	require.NoError(t, err)

	after, _ := f.settings.Get(context.Background())
	assert.False(t, after.DeliveryEnabled)
	assert.False(t, after.GlobalDiscountEnabled)
	// numeric values survive the reset
	assert.True(t, after.DeliveryPrice.Equal(decimal.NewFromInt(7)))
	assert.True(t, after.GlobalDiscountValue.Equal(decimal.NewFromInt(15)))
}

func TestCheckoutClampsStockAtZero(t *testing.T) {
	f := newCheckoutFixture()
	operator := uuid.New()
	p := seedProduct(f.products, "Last units", "7790001000046", 8, 2)

	f.addToCart(t, operator, p.ID, 5)

	resp, err := f.svc.Commit(context.Background(), operator, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})

	// Selling more than stock never rejects the sale: the customer is at
	// the counter with the goods.
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(40)), "total = %s", resp.Total)

	after, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 0, after.Stock)

	// the movement records what was actually decremented
	moves, _, _ := f.moves.List(context.Background(), dto.MovementFilter{})
	require.Len(t, moves, 1)
	assert.Equal(t, -2, moves[0].Quantity)
	assert.Equal(t, 0, moves[0].StockAfter)
}

func TestCheckoutOfflineSaleIsPendingAndDeduplicated(t *testing.T) {
	f := newCheckoutFixture()
	operator := uuid.New()
	p := seedProduct(f.products, "Batteries", "7790001000053", 6, 20)
	offlineID := uuid.New().String()

	f.addToCart(t, operator, p.ID, 1)
	first, err := f.svc.Commit(context.Background(), operator, dto.CheckoutRequest{
		PaymentMethod: model.PaymentCash,
		Offline:       true,
		OfflineID:     &offlineID,
	})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, model.SyncPending, first.SyncStatus)

	// Replaying the same offline sale returns the original, sells nothing.
	f.addToCart(t, operator, p.ID, 1)
	second, err := f.svc.Commit(context.Background(), operator, dto.CheckoutRequest{
		PaymentMethod: model.PaymentCash,
		Offline:       true,
		OfflineID:     &offlineID,
	})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ReceiptNumber, second.ReceiptNumber)

	_, total, _ := f.sales.List(context.Background(), dto.SaleFilter{})
	assert.EqualValues(t, 1, total)
}

func TestCheckoutSkipsDecrementForDeletedProduct(t *testing.T) {
	f := newCheckoutFixture()
	operator := uuid.New()
	p := seedProduct(f.products, "Discontinued", "7790001000077", 12, 4)

	f.addToCart(t, operator, p.ID, 1)
	require.NoError(t, f.products.Delete(context.Background(), p.ID))

	resp, err := f.svc.Commit(context.Background(), operator, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})

	// The sale keeps its frozen snapshot; there is just no stock to touch.
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(12)), "total = %s", resp.Total)

	moves, _, _ := f.moves.List(context.Background(), dto.MovementFilter{})
	assert.Empty(t, moves)
}

func TestCheckoutAbortsOnProductLookupFailure(t *testing.T) {
	f := newCheckoutFixture()
	operator := uuid.New()
	p := seedProduct(f.products, "Flaky row", "7790001000084", 9, 4)

	f.addToCart(t, operator, p.ID, 1)
	f.products.findTxErr = errors.New("connection reset by peer")

	resp, err := f.svc.Commit(context.Background(), operator, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})

	// A transient DB failure is not a deleted product: the transaction
	// fails instead of committing a sale with no decrement.
	require.Error(t, err)
	assert.Nil(t, resp)
}

func TestCheckoutConcurrentOversell(t *testing.T) {
	f := newCheckoutFixture()
	p := seedProduct(f.products, "Hot item", "7790001000060", 12, 10)

	const operators = 4
	var wg sync.WaitGroup
	for i := 0; i < operators; i++ {
		operator := uuid.New()
		f.addToCart(t, operator, p.ID, 4)
		wg.Add(1)
		go func(op uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.Commit(context.Background(), op, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
			assert.NoError(t, err)
		}(operator)
	}
	wg.Wait()

	// 16 units sold against 10 in stock: every sale commits, the stock
	// floors at zero instead of going negative. The drift is visible by
	// comparing movements against sale items.
	after, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 0, after.Stock)

	_, total, _ := f.sales.List(context.Background(), dto.SaleFilter{})
	assert.EqualValues(t, operators, total)
}
