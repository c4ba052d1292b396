package quote

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/wheelhouse/internal/domain/car"
	"github.com/xenking/wheelhouse/internal/domain/coupon"
	"github.com/xenking/wheelhouse/internal/domain/pricing"
)

// DefaultTaxRate is the fallback tax rate (10%) when no rate is configured.
var DefaultTaxRate = decimal.NewFromFloat(0.10)

// Generator computes quotes. The default rule list and the tax rate are
// fixed at construction time; cars may override the rules per record, the
// tax rate is never per-car.
type Generator struct {
	defaultRules []pricing.Rule
	taxRate      decimal.Decimal
}

// NewGenerator creates a Generator with the given default rule list and tax
// rate. A zero tax rate is taken literally; use DefaultTaxRate for the
// standard 10%.
func NewGenerator(defaultRules []pricing.Rule, taxRate decimal.Decimal) *Generator {
	return &Generator{
		defaultRules: defaultRules,
		taxRate:      taxRate,
	}
}

// Generate computes the itemized quote for renting c over [start, end) with
// an optional coupon. It is a pure computation: no storage access, no
// logging, safe to call concurrently.
//
// A car with no nightly rate quotes at zero rather than failing; that
// permissive default matches how unpriced fleet entries are expected to
// behave. The only fatal failure is pricing.ErrInvalidRange. A coupon that
// misses its minimum-stay requirement is demoted to the CouponError field
// and the quote still succeeds; the caller is expected to have gated coupon
// existence and business validity (coupon.IsValid) beforehand.
//
// Availability is not part of the computation; see Service.
func (g *Generator) Generate(c *car.Car, start, end time.Time, cpn *coupon.Coupon) (*Quote, error) {
	rules := g.defaultRules
	if len(c.PriceRules) > 0 {
		rules = c.PriceRules
	}

	bd, err := pricing.CalculateRentalPrice(c.PricePerNight, start, end, rules)
	if err != nil {
		return nil, errors.Wrap(err, "calculate rental price")
	}

	afterLength := bd.Subtotal.Sub(bd.LengthDiscount)

	couponDiscount := decimal.Zero
	couponCode := ""
	couponErr := ""
	if cpn != nil {
		couponCode = cpn.Code

		d, err := coupon.ApplyDiscount(afterLength, cpn, bd.Nights)
		var minErr *coupon.MinNightsError
		switch {
		case errors.As(err, &minErr):
			couponErr = minErr.Error()
		case err != nil:
			return nil, errors.Wrap(err, "apply coupon discount")
		default:
			couponDiscount = d
		}
	}

	afterCoupon := afterLength.Sub(couponDiscount)
	taxes := CalculateTaxes(afterCoupon, g.taxRate)
	total := afterCoupon.Add(taxes).Round(2)

	return &Quote{
		CarID:          c.ID,
		StartDate:      start,
		EndDate:        end,
		BasePrice:      bd.BasePrice,
		Nights:         bd.Nights,
		Days:           bd.Days,
		AppliedRules:   bd.AppliedRules,
		Subtotal:       bd.Subtotal,
		LengthDiscount: bd.LengthDiscount,
		LengthRule:     bd.LengthRule,
		CouponCode:     couponCode,
		CouponDiscount: couponDiscount,
		CouponError:    couponErr,
		Taxes:          taxes,
		Total:          total,
		Breakdown: PriceBreakdown{
			BaseSubtotal:        bd.Subtotal,
			AfterLengthDiscount: afterLength,
			AfterCouponDiscount: afterCoupon,
			TaxableAmount:       afterCoupon,
			FinalTotal:          total,
		},
	}, nil
}
