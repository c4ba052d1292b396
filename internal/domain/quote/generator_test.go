package quote

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/wheelhouse/internal/domain/car"
	"github.com/xenking/wheelhouse/internal/domain/coupon"
	"github.com/xenking/wheelhouse/internal/domain/pricing"
)

// --- Helpers ---

// March 2026: the 2nd is a Monday; the 6th-8th are weekend nights.
func date(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCar(price string, rules ...pricing.Rule) *car.Car {
	return &car.Car{
		ID:            "sedan-camry",
		Name:          "Toyota Camry",
		Category:      "sedan",
		PricePerNight: dec(price),
		PriceRules:    rules,
	}
}

func testCoupon(code string, discount pricing.Adjustment) *coupon.Coupon {
	return &coupon.Coupon{
		Code:      code,
		Discount:  discount,
		ExpiresAt: date(2).AddDate(1, 0, 0),
		Active:    true,
	}
}

// --- Tests ---

func TestGenerate_PlainStay(t *testing.T) {
	gen := NewGenerator(nil, DefaultTaxRate)

	q, err := gen.Generate(testCar("100"), date(2), date(7), nil)
	require.NoError(t, err)

	assert.Equal(t, "sedan-camry", q.CarID)
	assert.Equal(t, 5, q.Nights)
	assert.True(t, dec("500.00").Equal(q.Subtotal), "subtotal = %s", q.Subtotal)
	assert.True(t, q.LengthDiscount.IsZero())
	assert.True(t, q.CouponDiscount.IsZero())
	assert.True(t, dec("50.00").Equal(q.Taxes), "taxes = %s", q.Taxes)
	assert.True(t, dec("550.00").Equal(q.Total), "total = %s", q.Total)
	assert.Empty(t, q.CouponError)
	assert.Len(t, q.Days, 5)
}

func TestGenerate_BreakdownCheckpoints(t *testing.T) {
	rules := []pricing.Rule{
		pricing.Length{Name: "Weekly discount", MinNights: 7, Adjust: pricing.Percentage(dec("10"))},
	}
	gen := NewGenerator(rules, DefaultTaxRate)
	cpn := testCoupon("SUMMER10", pricing.Percentage(dec("10")))

	// 8 weekday-priced nights at 50: subtotal 400, length -40, coupon -36,
	// tax 10% of 324.
	q, err := gen.Generate(testCar("50"), date(2), date(10), cpn)
	require.NoError(t, err)

	bd := q.Breakdown
	assert.True(t, dec("400.00").Equal(bd.BaseSubtotal), "base = %s", bd.BaseSubtotal)
	assert.True(t, dec("360.00").Equal(bd.AfterLengthDiscount), "after length = %s", bd.AfterLengthDiscount)
	assert.True(t, dec("324.00").Equal(bd.AfterCouponDiscount), "after coupon = %s", bd.AfterCouponDiscount)
	assert.True(t, bd.TaxableAmount.Equal(bd.AfterCouponDiscount))
	assert.True(t, dec("356.40").Equal(bd.FinalTotal), "final = %s", bd.FinalTotal)

	assert.True(t, dec("40.00").Equal(q.LengthDiscount))
	assert.True(t, dec("36.00").Equal(q.CouponDiscount))
	assert.True(t, dec("32.40").Equal(q.Taxes))
	assert.True(t, q.Total.Equal(bd.FinalTotal))
	require.NotNil(t, q.LengthRule)
	assert.Equal(t, "Weekly discount", q.LengthRule.Name)
	assert.Equal(t, "SUMMER10", q.CouponCode)
}

func TestGenerate_CarRulesOverrideDefaults(t *testing.T) {
	defaults := []pricing.Rule{
		pricing.Weekend{Name: "Default weekend", Adjust: pricing.Percentage(dec("50"))},
	}
	gen := NewGenerator(defaults, DefaultTaxRate)

	carRule := pricing.Weekend{Name: "Custom weekend", Adjust: pricing.Percentage(dec("10"))}

	// Friday night only: the car's own rule list fully replaces the default.
	q, err := gen.Generate(testCar("100", carRule), date(6), date(7), nil)
	require.NoError(t, err)

	assert.True(t, dec("110.00").Equal(q.Subtotal), "subtotal = %s", q.Subtotal)
	require.Len(t, q.AppliedRules, 1)
	assert.Equal(t, "Custom weekend", q.AppliedRules[0].RuleName())
}

func TestGenerate_FlatCouponClamped(t *testing.T) {
	gen := NewGenerator(nil, DefaultTaxRate)
	cpn := testCoupon("SAVE50", pricing.Flat(dec("50")))

	// 4 nights at 10: subtotal 40, the flat 50 clamps to 40.
	q, err := gen.Generate(testCar("10"), date(2), date(6), cpn)
	require.NoError(t, err)

	assert.True(t, dec("40.00").Equal(q.CouponDiscount), "discount = %s", q.CouponDiscount)
	assert.True(t, q.Taxes.IsZero())
	assert.True(t, q.Total.IsZero(), "total = %s", q.Total)
}

func TestGenerate_CouponMinNightsNotMet(t *testing.T) {
	gen := NewGenerator(nil, DefaultTaxRate)
	cpn := testCoupon("LONGSTAY", pricing.Percentage(dec("20")))
	cpn.MinNights = 7

	q, err := gen.Generate(testCar("100"), date(2), date(5), cpn)
	require.NoError(t, err, "a short stay must not fail the quote")

	assert.True(t, q.CouponDiscount.IsZero())
	assert.Equal(t, "coupon LONGSTAY requires a minimum of 7 nights", q.CouponError)
	assert.Equal(t, "LONGSTAY", q.CouponCode)
	// The rest of the quote is unaffected.
	assert.True(t, dec("300.00").Equal(q.Subtotal))
	assert.True(t, dec("330.00").Equal(q.Total))
}

func TestGenerate_ZeroPriceCar(t *testing.T) {
	gen := NewGenerator(pricing.DefaultRules(), DefaultTaxRate)

	// An unpriced fleet entry quotes at zero instead of failing.
	q, err := gen.Generate(testCar("0"), date(2), date(5), nil)
	require.NoError(t, err)
	assert.True(t, q.Subtotal.IsZero())
	assert.True(t, q.Total.IsZero())
}

func TestGenerate_InvalidRange(t *testing.T) {
	gen := NewGenerator(nil, DefaultTaxRate)

	_, err := gen.Generate(testCar("100"), date(5), date(5), nil)
	require.ErrorIs(t, err, pricing.ErrInvalidRange)

	_, err = gen.Generate(testCar("100"), date(7), date(5), nil)
	require.ErrorIs(t, err, pricing.ErrInvalidRange)
}

func TestGenerate_Deterministic(t *testing.T) {
	gen := NewGenerator(pricing.DefaultRules(), DefaultTaxRate)
	c := testCar("85")
	cpn := testCoupon("SUMMER10", pricing.Percentage(dec("10")))

	first, err := gen.Generate(c, date(2), date(12), cpn)
	require.NoError(t, err)
	second, err := gen.Generate(c, date(2), date(12), cpn)
	require.NoError(t, err)

	assert.True(t, first.Total.Equal(second.Total))
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.Equal(t, len(first.Days), len(second.Days))
}

func TestCalculateTaxes(t *testing.T) {
	assert.True(t, dec("50.00").Equal(CalculateTaxes(dec("500"), DefaultTaxRate)))
	assert.True(t, dec("32.40").Equal(CalculateTaxes(dec("324"), DefaultTaxRate)))
	assert.True(t, CalculateTaxes(dec("100"), decimal.Zero).IsZero())
	// Rounded half-up to cents.
	assert.True(t, dec("10.01").Equal(CalculateTaxes(dec("100.05"), DefaultTaxRate)))
}
