package pricing

import (
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidRange is returned when the end date is not after the start date,
// so the rental covers zero nights. It is fatal to quote generation.
var ErrInvalidRange = errors.New("end date must be after start date")

// NightPrice is the priced breakdown for a single night of the rental.
type NightPrice struct {
	Date  time.Time
	Price decimal.Decimal
	Rules []Rule // rules that fired for this night, in application order
}

// Breakdown is the result of pricing a full date range.
type Breakdown struct {
	BasePrice      decimal.Decimal
	Nights         int
	Subtotal       decimal.Decimal // before the length discount, rounded
	LengthDiscount decimal.Decimal
	LengthRule     *Length      // the single length rule applied, if any
	Days           []NightPrice // one entry per night
	AppliedRules   []Rule       // season/weekend rules seen across all nights, deduplicated by name
}

// ApplyRules prices a single night. Every season rule containing the date
// applies in list order (stacking on the running price); then, on Friday,
// Saturday, or Sunday, the first weekend rule in the list applies. The final
// price is rounded to 2 decimals. Length rules are ignored here: they act on
// the subtotal, not on individual nights.
func ApplyRules(base decimal.Decimal, date time.Time, rules []Rule) (decimal.Decimal, []Rule) {
	day := midnightUTC(date)
	price := base

	var applied []Rule
	for _, r := range rules {
		s, ok := r.(Season)
		if !ok {
			continue
		}
		if day.Before(midnightUTC(s.Start)) || day.After(midnightUTC(s.End)) {
			continue
		}
		price = s.Adjust.applyTo(price)
		applied = append(applied, s)
	}

	if isWeekend(day) {
		for _, r := range rules {
			w, ok := r.(Weekend)
			if !ok {
				continue
			}
			price = w.Adjust.applyTo(price)
			applied = append(applied, w)
			break // only the first weekend rule ever applies
		}
	}

	return price.Round(2), applied
}

// CalculateRentalPrice prices the whole [start, end) stay night by night and
// applies at most one length-of-stay discount to the accumulated subtotal.
// It returns ErrInvalidRange when the range covers no nights.
func CalculateRentalPrice(base decimal.Decimal, start, end time.Time, rules []Rule) (*Breakdown, error) {
	nights := NightsBetween(start, end)
	if nights <= 0 {
		return nil, ErrInvalidRange
	}

	firstNight := midnightUTC(start)
	days := make([]NightPrice, 0, nights)
	total := decimal.Zero

	var (
		applied []Rule
		seen    = make(map[string]struct{})
	)
	for i := range nights {
		date := firstNight.AddDate(0, 0, i)
		price, nightRules := ApplyRules(base, date, rules)

		total = total.Add(price)
		days = append(days, NightPrice{Date: date, Price: price, Rules: nightRules})

		// First occurrence wins for the display listing; the calculation
		// above still applied every qualifying night.
		for _, r := range nightRules {
			if _, ok := seen[r.RuleName()]; ok {
				continue
			}
			seen[r.RuleName()] = struct{}{}
			applied = append(applied, r)
		}
	}

	lengthRule, discount := lengthDiscount(total, nights, rules)

	return &Breakdown{
		BasePrice:      base,
		Nights:         nights,
		Subtotal:       total.Round(2),
		LengthDiscount: discount.Round(2),
		LengthRule:     lengthRule,
		Days:           days,
		AppliedRules:   applied,
	}, nil
}

// lengthDiscount selects and applies at most one length rule: candidates are
// ordered by descending MinNights so the longest-tenure discount wins, and
// the first rule whose threshold the stay reaches is used.
func lengthDiscount(subtotal decimal.Decimal, nights int, rules []Rule) (*Length, decimal.Decimal) {
	var candidates []Length
	for _, r := range rules {
		if l, ok := r.(Length); ok {
			candidates = append(candidates, l)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].MinNights > candidates[j].MinNights
	})

	for _, l := range candidates {
		if l.MinNights <= nights {
			return &l, l.Adjust.DiscountOn(subtotal)
		}
	}
	return nil, decimal.Zero
}

// NightsBetween returns the number of nights covered by [start, end),
// rounding partial days up: a 3-hour stay spanning midnight counts as one
// night.
func NightsBetween(start, end time.Time) int {
	const day = 24 * time.Hour

	d := end.Sub(start)
	nights := int(d / day)
	if d%day > 0 {
		nights++
	}
	return nights
}

// midnightUTC anchors t to UTC midnight of its calendar day. All rule window
// checks and per-night iteration run on these anchored dates, which keeps
// day arithmetic immune to DST offsets in the caller's zone.
func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isWeekend reports whether the day counts as a weekend night for pricing:
// Friday, Saturday, or Sunday.
func isWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}
