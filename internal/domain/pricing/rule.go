// Package pricing implements the nightly-rate rule engine: seasonal and
// weekend surcharges applied per night, plus length-of-stay discounts
// applied to the rental subtotal.
package pricing

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// AdjustmentKind enumerates the two ways a rule changes a price.
type AdjustmentKind string

const (
	// AdjustPercentage scales the price by value percent.
	AdjustPercentage AdjustmentKind = "percentage"
	// AdjustFlat adds a fixed amount to the price.
	AdjustFlat AdjustmentKind = "flat"
)

var hundred = decimal.NewFromInt(100)

// Adjustment is a price modification that is exactly one of percentage or
// flat. Season and weekend percentages are directional (positive means
// surcharge); length rules always take the absolute value as a discount.
type Adjustment struct {
	Kind  AdjustmentKind
	Value decimal.Decimal
}

// Percentage returns a percentage adjustment of v percent.
func Percentage(v decimal.Decimal) Adjustment {
	return Adjustment{Kind: AdjustPercentage, Value: v}
}

// Flat returns a flat adjustment of amount.
func Flat(amount decimal.Decimal) Adjustment {
	return Adjustment{Kind: AdjustFlat, Value: amount}
}

// applyTo returns price modified by the adjustment: percentage multiplies,
// flat adds. The result is not rounded; rounding happens once per night.
func (a Adjustment) applyTo(price decimal.Decimal) decimal.Decimal {
	switch a.Kind {
	case AdjustFlat:
		return price.Add(a.Value)
	default:
		return price.Mul(hundred.Add(a.Value)).Div(hundred)
	}
}

// DiscountOn returns the discount amount the adjustment yields on subtotal.
// Percentage values are taken by absolute value, so a rule stored as -10 or
// 10 both mean "10% off".
func (a Adjustment) DiscountOn(subtotal decimal.Decimal) decimal.Decimal {
	if a.Kind == AdjustFlat {
		return a.Value
	}
	return subtotal.Mul(a.Value.Abs()).Div(hundred)
}

// Validate checks the structural invariants of an adjustment.
func (a Adjustment) Validate() error {
	switch a.Kind {
	case AdjustPercentage, AdjustFlat:
		return nil
	default:
		return errors.Errorf("unsupported adjustment kind: %q", a.Kind)
	}
}

// Rule is a price rule: one of Season, Weekend, or Length. The set of
// variants is closed; rule lists are stored per car or supplied as the
// service-wide defaults.
type Rule interface {
	// RuleName returns the display name, also the deduplication key for the
	// applied-rules listing on a quote.
	RuleName() string
	// Validate checks the structural invariants of the rule.
	Validate() error

	sealedRule()
}

// Season surcharges (or discounts) every night falling inside the inclusive
// [Start, End] calendar window. Multiple season rules stack in list order.
type Season struct {
	Name   string
	Start  time.Time // inclusive, UTC midnight
	End    time.Time // inclusive, UTC midnight
	Adjust Adjustment
}

// Weekend adjusts every night whose calendar day is Friday, Saturday, or
// Sunday. Only the first weekend rule in the list ever applies.
type Weekend struct {
	Name   string
	Adjust Adjustment
}

// Length discounts the rental subtotal once the booking reaches MinNights.
// When several length rules qualify, the one with the largest MinNights wins.
type Length struct {
	Name      string
	MinNights int
	Adjust    Adjustment
}

func (s Season) RuleName() string  { return s.Name }
func (w Weekend) RuleName() string { return w.Name }
func (l Length) RuleName() string  { return l.Name }

func (Season) sealedRule()  {}
func (Weekend) sealedRule() {}
func (Length) sealedRule()  {}

// Validate checks that the season window is well-formed.
func (s Season) Validate() error {
	if s.Name == "" {
		return errors.New("season rule requires a name")
	}
	if s.End.Before(s.Start) {
		return errors.Errorf("season %q: end date before start date", s.Name)
	}
	return s.Adjust.Validate()
}

// Validate checks the weekend rule invariants.
func (w Weekend) Validate() error {
	if w.Name == "" {
		return errors.New("weekend rule requires a name")
	}
	return w.Adjust.Validate()
}

// Validate checks the length rule invariants.
func (l Length) Validate() error {
	if l.Name == "" {
		return errors.New("length rule requires a name")
	}
	if l.MinNights <= 0 {
		return errors.Errorf("length %q: min nights must be greater than 0", l.Name)
	}
	return l.Adjust.Validate()
}

// ValidateRules validates every rule in the list.
func ValidateRules(rules []Rule) error {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRules returns the service-wide rule preset used for cars that do
// not carry a custom rule list.
func DefaultRules() []Rule {
	return []Rule{
		Season{
			Name:   "Summer season",
			Start:  time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
			Adjust: Percentage(decimal.NewFromInt(25)),
		},
		Season{
			Name:   "Winter holidays",
			Start:  time.Date(2026, time.December, 20, 0, 0, 0, 0, time.UTC),
			End:    time.Date(2027, time.January, 5, 0, 0, 0, 0, time.UTC),
			Adjust: Percentage(decimal.NewFromInt(15)),
		},
		Weekend{
			Name:   "Weekend rate",
			Adjust: Percentage(decimal.NewFromInt(15)),
		},
		Length{
			Name:      "Weekly discount",
			MinNights: 7,
			Adjust:    Percentage(decimal.NewFromInt(10)),
		},
		Length{
			Name:      "Monthly discount",
			MinNights: 28,
			Adjust:    Percentage(decimal.NewFromInt(20)),
		},
	}
}
