package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotalNoDiscount(t *testing.T) {
	l := Line{UnitPrice: dec("10"), Quantity: 2}
	assert.True(t, dec("20").Equal(LineTotal(l)))
}

func TestLineTotalZeroValueDiscountIgnored(t *testing.T) {
	l := Line{UnitPrice: dec("10"), Quantity: 3, DiscountType: Percentage, DiscountValue: decimal.Zero}
	assert.True(t, dec("30").Equal(LineTotal(l)))

	l.DiscountValue = dec("-5")
	assert.True(t, dec("30").Equal(LineTotal(l)))
}

func TestLineTotalPercentage(t *testing.T) {
	l := Line{UnitPrice: dec("50"), Quantity: 1, DiscountType: Percentage, DiscountValue: dec("20")}
	assert.True(t, dec("40").Equal(LineTotal(l)))

	l = Line{UnitPrice: dec("10"), Quantity: 4, DiscountType: Percentage, DiscountValue: dec("25")}
	assert.True(t, dec("30").Equal(LineTotal(l)))
}

// Percentage discounts are monotonically decreasing in d over [0,100].
func TestLineTotalPercentageMonotonic(t *testing.T) {
	prev := dec("1000000")
	for d := 0; d <= 100; d += 5 {
		l := Line{
			UnitPrice:     dec("13.37"),
			Quantity:      7,
			DiscountType:  Percentage,
			DiscountValue: decimal.NewFromInt(int64(d)),
		}
		total := LineTotal(l)
		assert.True(t, total.LessThanOrEqual(prev), "d=%d: %s > %s", d, total, prev)
		assert.False(t, total.IsNegative())
		prev = total
	}
	assert.True(t, prev.IsZero(), "100%% discount should reach zero")
}

func TestLineTotalFixedPerUnit(t *testing.T) {
	// Fixed discount is per unit: (price − d) × qty.
	l := Line{UnitPrice: dec("10"), Quantity: 3, DiscountType: Fixed, DiscountValue: dec("2")}
	assert.True(t, dec("24").Equal(LineTotal(l)))
}

func TestLineTotalPercentageAboveHundredClampsAtZero(t *testing.T) {
	l := Line{UnitPrice: dec("10"), Quantity: 2, DiscountType: Percentage, DiscountValue: dec("150")}
	assert.True(t, LineTotal(l).IsZero())
	assert.False(t, Subtotal([]Line{l}).IsNegative())
}

func TestLineTotalFixedNeverNegative(t *testing.T) {
	l := Line{UnitPrice: dec("5"), Quantity: 2, DiscountType: Fixed, DiscountValue: dec("8")}
	assert.True(t, LineTotal(l).IsZero())
}

func TestSubtotalIsSumOfDiscountedLines(t *testing.T) {
	lines := []Line{
		{UnitPrice: dec("10"), Quantity: 2},
		{UnitPrice: dec("50"), Quantity: 1, DiscountType: Percentage, DiscountValue: dec("20")},
		{UnitPrice: dec("3"), Quantity: 4, DiscountType: Fixed, DiscountValue: dec("1")},
	}
	// 20 + 40 + 8
	assert.True(t, dec("68").Equal(Subtotal(lines)))
	assert.False(t, Subtotal(lines).IsNegative())
}

func TestGlobalDiscountDisabled(t *testing.T) {
	s := Settings{GlobalDiscountEnabled: false, GlobalDiscountType: Percentage, GlobalDiscountValue: dec("50")}
	assert.True(t, GlobalDiscount(dec("100"), s).IsZero())
}

func TestGlobalDiscountNonPositiveValue(t *testing.T) {
	s := Settings{GlobalDiscountEnabled: true, GlobalDiscountType: Fixed, GlobalDiscountValue: decimal.Zero}
	assert.True(t, GlobalDiscount(dec("100"), s).IsZero())
}

func TestGlobalDiscountPercentage(t *testing.T) {
	s := Settings{GlobalDiscountEnabled: true, GlobalDiscountType: Percentage, GlobalDiscountValue: dec("10")}
	assert.True(t, dec("8").Equal(GlobalDiscount(dec("80"), s)))
}

func TestGlobalDiscountPercentageCappedAtSubtotal(t *testing.T) {
	s := Settings{GlobalDiscountEnabled: true, GlobalDiscountType: Percentage, GlobalDiscountValue: dec("250")}
	assert.True(t, dec("40").Equal(GlobalDiscount(dec("40"), s)))
}

func TestGlobalDiscountFixedCappedAtSubtotal(t *testing.T) {
	s := Settings{GlobalDiscountEnabled: true, GlobalDiscountType: Fixed, GlobalDiscountValue: dec("100")}
	assert.True(t, dec("40").Equal(GlobalDiscount(dec("40"), s)))

	s.GlobalDiscountValue = dec("10")
	assert.True(t, dec("10").Equal(GlobalDiscount(dec("40"), s)))
}

func TestDeliveryFee(t *testing.T) {
	s := Settings{DeliveryEnabled: false, DeliveryPrice: dec("5")}
	assert.True(t, DeliveryFee(s).IsZero())

	s.DeliveryEnabled = true
	assert.True(t, dec("5").Equal(DeliveryFee(s)))
}

// Receipt scenario from the checkout rules: a 20%-off item at 50×1 with a
// global fixed discount of 10 and a delivery fee of 5 charges 35.
func TestComputeDiscountedItemGlobalFixedAndDelivery(t *testing.T) {
	lines := []Line{
		{UnitPrice: dec("50"), Quantity: 1, DiscountType: Percentage, DiscountValue: dec("20")},
	}
	s := Settings{
		DeliveryEnabled:       true,
		DeliveryPrice:         dec("5"),
		GlobalDiscountEnabled: true,
		GlobalDiscountType:    Fixed,
		GlobalDiscountValue:   dec("10"),
	}
	tot := Compute(lines, s)
	assert.True(t, dec("40").Equal(tot.Subtotal))
	assert.True(t, dec("10").Equal(tot.GlobalDiscount))
	// item discount 10 + global 10
	assert.True(t, dec("20").Equal(tot.TotalDiscount))
	assert.True(t, dec("5").Equal(tot.DeliveryFee))
	assert.True(t, dec("35").Equal(tot.Total))
}

func TestComputePlainCart(t *testing.T) {
	lines := []Line{{UnitPrice: dec("10"), Quantity: 2}}
	tot := Compute(lines, Settings{})
	assert.True(t, dec("20").Equal(tot.Subtotal))
	assert.True(t, tot.TotalDiscount.IsZero())
	assert.True(t, dec("20").Equal(tot.Total))
}

func TestComputeTotalFlooredAtZero(t *testing.T) {
	lines := []Line{{UnitPrice: dec("5"), Quantity: 1}}
	s := Settings{
		GlobalDiscountEnabled: true,
		GlobalDiscountType:    Fixed,
		GlobalDiscountValue:   dec("50"),
	}
	tot := Compute(lines, s)
	// fixed global capped at subtotal, so total bottoms out at 0
	assert.True(t, tot.Total.IsZero())
	assert.False(t, tot.Total.IsNegative())
}

func TestComputeGlobalAppliedAfterItemDiscounts(t *testing.T) {
	// 100×1 at 50% off → subtotal 50; global 10% must apply to 50, not 100.
	lines := []Line{
		{UnitPrice: dec("100"), Quantity: 1, DiscountType: Percentage, DiscountValue: dec("50")},
	}
	s := Settings{
		GlobalDiscountEnabled: true,
		GlobalDiscountType:    Percentage,
		GlobalDiscountValue:   dec("10"),
	}
	tot := Compute(lines, s)
	assert.True(t, dec("5").Equal(tot.GlobalDiscount))
	assert.True(t, dec("45").Equal(tot.Total))
	assert.True(t, dec("55").Equal(tot.TotalDiscount))
}

func TestComputeEmptyCart(t *testing.T) {
	tot := Compute(nil, Settings{DeliveryEnabled: true, DeliveryPrice: dec("5")})
	assert.True(t, tot.Subtotal.IsZero())
	// delivery fee still applies arithmetically; the checkout engine
	// refuses empty carts before pricing is ever consulted
	assert.True(t, dec("5").Equal(tot.Total))
}
