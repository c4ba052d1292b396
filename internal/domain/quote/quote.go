// Package quote assembles itemized rental quotes from the pricing engine,
// the coupon validator, and the availability check.
package quote

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/wheelhouse/internal/domain/booking"
	"github.com/xenking/wheelhouse/internal/domain/pricing"
)

// Quote is the complete, itemized pricing result for one candidate booking.
// It is constructed fresh per request, never persisted, and never mutated
// after construction.
type Quote struct {
	CarID     string
	StartDate time.Time
	EndDate   time.Time

	BasePrice decimal.Decimal
	Nights    int
	Days      []pricing.NightPrice

	// AppliedRules lists the season/weekend rules that fired on at least one
	// night, deduplicated by name.
	AppliedRules []pricing.Rule

	Subtotal       decimal.Decimal // before any discount
	LengthDiscount decimal.Decimal
	LengthRule     *pricing.Length

	CouponCode     string
	CouponDiscount decimal.Decimal
	// CouponError carries the advisory message when a supplied coupon could
	// not be applied; the quote itself still succeeds.
	CouponError string

	Taxes decimal.Decimal
	Total decimal.Decimal

	Breakdown PriceBreakdown

	// Unavailable flags a date-range conflict with an existing booking.
	// It is computed independently from pricing and merged into the quote.
	Unavailable bool
	Conflicts   []booking.Booking
}

// PriceBreakdown echoes the intermediate subtotals of the quote computation
// for auditability.
type PriceBreakdown struct {
	BaseSubtotal        decimal.Decimal
	AfterLengthDiscount decimal.Decimal
	AfterCouponDiscount decimal.Decimal
	TaxableAmount       decimal.Decimal // always equals AfterCouponDiscount
	FinalTotal          decimal.Decimal
}

// CalculateTaxes returns the tax due on amount at the given rate, rounded to
// 2 decimals.
func CalculateTaxes(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}
