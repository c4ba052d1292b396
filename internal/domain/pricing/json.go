package pricing

import (
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Rule kind tags used on the wire and in the JSONB storage column.
const (
	kindSeason  = "season"
	kindWeekend = "weekend"
	kindLength  = "length"
)

const dateLayout = "2006-01-02"

// ruleEnvelope is the tagged wire form shared by all rule variants.
type ruleEnvelope struct {
	Type       string           `json:"type"`
	Name       string           `json:"name"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Flat       *decimal.Decimal `json:"flat,omitempty"`
	StartDate  string           `json:"startDate,omitempty"`
	EndDate    string           `json:"endDate,omitempty"`
	MinNights  int              `json:"minNights,omitempty"`
}

func (e *ruleEnvelope) setAdjustment(a Adjustment) {
	v := a.Value
	if a.Kind == AdjustFlat {
		e.Flat = &v
	} else {
		e.Percentage = &v
	}
}

func (e ruleEnvelope) adjustment() (Adjustment, error) {
	switch {
	case e.Percentage != nil && e.Flat != nil:
		return Adjustment{}, errors.Errorf("rule %q: percentage and flat are mutually exclusive", e.Name)
	case e.Percentage != nil:
		return Percentage(*e.Percentage), nil
	case e.Flat != nil:
		return Flat(*e.Flat), nil
	default:
		return Adjustment{}, errors.Errorf("rule %q: either percentage or flat is required", e.Name)
	}
}

// MarshalJSON encodes the season rule in tagged envelope form.
func (s Season) MarshalJSON() ([]byte, error) {
	e := ruleEnvelope{
		Type:      kindSeason,
		Name:      s.Name,
		StartDate: s.Start.Format(dateLayout),
		EndDate:   s.End.Format(dateLayout),
	}
	e.setAdjustment(s.Adjust)
	return json.Marshal(e)
}

// MarshalJSON encodes the weekend rule in tagged envelope form.
func (w Weekend) MarshalJSON() ([]byte, error) {
	e := ruleEnvelope{Type: kindWeekend, Name: w.Name}
	e.setAdjustment(w.Adjust)
	return json.Marshal(e)
}

// MarshalJSON encodes the length rule in tagged envelope form.
func (l Length) MarshalJSON() ([]byte, error) {
	e := ruleEnvelope{Type: kindLength, Name: l.Name, MinNights: l.MinNights}
	e.setAdjustment(l.Adjust)
	return json.Marshal(e)
}

// MarshalRules encodes a rule list for storage or transport.
func MarshalRules(rules []Rule) ([]byte, error) {
	return json.Marshal(rules)
}

// UnmarshalRules decodes a tagged rule list, dispatching each element to its
// variant by the "type" tag.
func UnmarshalRules(data []byte) ([]Rule, error) {
	var envelopes []ruleEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, errors.Wrap(err, "decode rule list")
	}

	rules := make([]Rule, 0, len(envelopes))
	for _, e := range envelopes {
		adjust, err := e.adjustment()
		if err != nil {
			return nil, err
		}

		switch e.Type {
		case kindSeason:
			start, err := parseDate(e.StartDate)
			if err != nil {
				return nil, errors.Wrapf(err, "season %q start date", e.Name)
			}
			end, err := parseDate(e.EndDate)
			if err != nil {
				return nil, errors.Wrapf(err, "season %q end date", e.Name)
			}
			rules = append(rules, Season{Name: e.Name, Start: start, End: end, Adjust: adjust})
		case kindWeekend:
			rules = append(rules, Weekend{Name: e.Name, Adjust: adjust})
		case kindLength:
			rules = append(rules, Length{Name: e.Name, MinNights: e.MinNights, Adjust: adjust})
		default:
			return nil, errors.Errorf("unsupported rule type: %q", e.Type)
		}
	}
	return rules, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
