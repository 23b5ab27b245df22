// Package pricing implements the checkout pricing rules: per-line catalog
// discounts, cart subtotal, global discount, delivery fee and grand total.
// Everything here is a pure function of its inputs so the engine can be
// exercised in isolation; callers pass an immutable Settings snapshot
// rather than reading shared state.
//
// Order of application is fixed and load-bearing: item discounts first,
// then the global discount against the already-discounted subtotal, then
// the delivery fee, then a floor at zero. TotalDiscount is defined against
// that same order — reordering diverges from charged totals.
package pricing

import "github.com/shopspring/decimal"

// Discount types, shared by catalog (per-line) and global discounts.
const (
	Percentage = "percentage"
	Fixed      = "fixed"
)

// Line is one cart line as seen by the calculator.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
	// DiscountType is Percentage or Fixed; empty means no discount.
	// Fixed is an amount off per unit.
	DiscountType  string
	DiscountValue decimal.Decimal
}

// Settings is the store-wide pricing snapshot in effect for one
// transaction.
type Settings struct {
	DeliveryEnabled bool
	DeliveryPrice   decimal.Decimal

	GlobalDiscountEnabled bool
	GlobalDiscountType    string
	GlobalDiscountValue   decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// LineTotal computes the discounted total for one line.
//
//	no discount (or value ≤ 0):  price × qty
//	percentage d:                max(0, price × qty × (1 − d/100))
//	fixed d (per unit):          max(0, (price − d) × qty)
func LineTotal(l Line) decimal.Decimal {
	qty := decimal.NewFromInt(int64(l.Quantity))
	gross := l.UnitPrice.Mul(qty)
	if l.DiscountValue.LessThanOrEqual(decimal.Zero) {
		return gross
	}
	switch l.DiscountType {
	case Percentage:
		factor := decimal.NewFromInt(1).Sub(l.DiscountValue.Div(hundred))
		total := gross.Mul(factor)
		if total.IsNegative() {
			return decimal.Zero
		}
		return total
	case Fixed:
		total := l.UnitPrice.Sub(l.DiscountValue).Mul(qty)
		if total.IsNegative() {
			return decimal.Zero
		}
		return total
	default:
		return gross
	}
}

// LineGross is the undiscounted price × qty for one line, used for the
// discount breakdown on receipts.
func LineGross(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Subtotal sums the discounted line totals. The discounted view is
// canonical — never the raw price × qty sum.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l))
	}
	return total
}

// GlobalDiscount computes the transaction-level discount applied on top of
// the already item-discounted subtotal. Both forms are capped at the
// subtotal so the discount never takes it below zero.
func GlobalDiscount(subtotal decimal.Decimal, s Settings) decimal.Decimal {
	if !s.GlobalDiscountEnabled || s.GlobalDiscountValue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	switch s.GlobalDiscountType {
	case Percentage:
		discount := subtotal.Mul(s.GlobalDiscountValue.Div(hundred))
		if discount.GreaterThan(subtotal) {
			return subtotal
		}
		return discount
	case Fixed:
		if s.GlobalDiscountValue.GreaterThan(subtotal) {
			return subtotal
		}
		return s.GlobalDiscountValue
	default:
		return decimal.Zero
	}
}

// DeliveryFee is the configured delivery price when delivery is enabled,
// zero otherwise.
func DeliveryFee(s Settings) decimal.Decimal {
	if !s.DeliveryEnabled {
		return decimal.Zero
	}
	return s.DeliveryPrice
}

// Totals is the full priced breakdown of one transaction.
type Totals struct {
	Subtotal       decimal.Decimal
	GlobalDiscount decimal.Decimal
	// TotalDiscount = Σ per-line (gross − discounted) + GlobalDiscount.
	TotalDiscount decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
}

// Compute prices a whole cart against a settings snapshot.
// Total = max(0, subtotal − globalDiscount + deliveryFee).
func Compute(lines []Line, s Settings) Totals {
	subtotal := Subtotal(lines)
	global := GlobalDiscount(subtotal, s)
	fee := DeliveryFee(s)

	itemDiscount := decimal.Zero
	for _, l := range lines {
		itemDiscount = itemDiscount.Add(LineGross(l).Sub(LineTotal(l)))
	}

	total := subtotal.Sub(global).Add(fee)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{
		Subtotal:       subtotal,
		GlobalDiscount: global,
		TotalDiscount:  itemDiscount.Add(global),
		DeliveryFee:    fee,
		Total:          total,
	}
}
