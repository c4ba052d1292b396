package coupon

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Validity reasons, surfaced verbatim to callers.
const (
	ReasonInactive     = "no longer active"
	ReasonExpired      = "expired"
	ReasonUsageReached = "usage limit reached"
)

// Validity is the result of checking a coupon's business rules.
type Validity struct {
	Valid  bool
	Reason string // empty when Valid
}

// MinNightsError indicates the booking is shorter than the coupon's minimum
// stay. Quote generation treats it as non-fatal: the coupon is simply not
// applied and the message is surfaced on the quote.
type MinNightsError struct {
	Code     string
	Required int
	Nights   int
}

func (e *MinNightsError) Error() string {
	return fmt.Sprintf("coupon %s requires a minimum of %d nights", e.Code, e.Required)
}

// IsValid checks the coupon's business rules in order: active flag,
// expiration against now, then the usage cap. It is pure and never mutates
// the usage counter; incrementing usage is the booking flow's job.
func IsValid(c *Coupon, now time.Time) Validity {
	switch {
	case !c.Active:
		return Validity{Reason: ReasonInactive}
	case now.After(c.ExpiresAt):
		return Validity{Reason: ReasonExpired}
	case c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit:
		return Validity{Reason: ReasonUsageReached}
	default:
		return Validity{Valid: true}
	}
}

// ApplyDiscount computes the coupon's discount on the given subtotal,
// clamped so it never exceeds the subtotal. It returns *MinNightsError when
// the stay is shorter than the coupon's minimum. Callers must gate the
// coupon with IsValid first; this function only applies the arithmetic.
func ApplyDiscount(subtotal decimal.Decimal, c *Coupon, nights int) (decimal.Decimal, error) {
	if c.MinNights > 0 && nights < c.MinNights {
		return decimal.Zero, &MinNightsError{Code: c.Code, Required: c.MinNights, Nights: nights}
	}

	amount := c.Discount.DiscountOn(subtotal)
	amount = decimal.Min(amount, subtotal)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return amount.Round(2), nil
}
