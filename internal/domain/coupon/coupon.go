// Package coupon implements promo-code validation and discount calculation
// for rental quotes.
package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/wheelhouse/internal/domain/pricing"
)

// ErrNotFound is returned when a coupon code does not exist.
var ErrNotFound = errors.New("coupon not found")

// Coupon is a caller-supplied promo code granting a discount on the rental
// subtotal, subject to its own validity rules.
type Coupon struct {
	Code       string // canonical upper-case
	Discount   pricing.Adjustment
	ExpiresAt  time.Time
	Active     bool
	UsageLimit int // 0 means unlimited
	UsageCount int
	MinNights  int // 0 means no minimum stay requirement
}

// Validate checks the structural invariants of a coupon at data-entry time.
// The quote path performs no structural validation of its inputs.
func (c *Coupon) Validate() error {
	if c.Code == "" {
		return errors.New("coupon requires a code")
	}
	if err := c.Discount.Validate(); err != nil {
		return errors.Wrapf(err, "coupon %q", c.Code)
	}
	if c.ExpiresAt.IsZero() {
		return errors.Errorf("coupon %q requires an expiration", c.Code)
	}
	if c.UsageLimit < 0 || c.UsageCount < 0 || c.MinNights < 0 {
		return errors.Errorf("coupon %q: negative limits", c.Code)
	}
	return nil
}

// CanonicalCode upper-cases a user-supplied coupon code. Codes are matched
// case-insensitively everywhere.
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Repository provides lookup and mutation of coupons.
type Repository interface {
	// FindByCode looks a coupon up case-insensitively.
	// Returns ErrNotFound when the code does not exist.
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	// IncrementUsage bumps the usage counter after a coupon is consumed by a
	// confirmed booking. Quote generation never calls this.
	IncrementUsage(ctx context.Context, code string) error
	// Upsert inserts or replaces a coupon. Used by seeding and bulk ingest.
	Upsert(ctx context.Context, c *Coupon) error
}
