package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/wheelhouse/internal/domain/car"
	"github.com/xenking/wheelhouse/internal/domain/pricing"
	"github.com/xenking/wheelhouse/internal/domain/quote"
)

type quoteRequest struct {
	CarID      string `json:"carId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	CouponCode string `json:"couponCode,omitempty"`
}

type quoteResponse struct {
	CarID     string `json:"carId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	BasePrice float64       `json:"basePrice"`
	Nights    int           `json:"nights"`
	Days      []dayResponse `json:"days"`

	AppliedRules []pricing.Rule `json:"appliedRules"`

	Subtotal       float64      `json:"subtotal"`
	LengthDiscount float64      `json:"lengthDiscount"`
	LengthRule     pricing.Rule `json:"lengthRule,omitempty"`

	CouponCode     string  `json:"couponCode,omitempty"`
	CouponDiscount float64 `json:"couponDiscount"`
	CouponError    string  `json:"couponError,omitempty"`

	Taxes float64 `json:"taxes"`
	Total float64 `json:"total"`

	PriceBreakdown breakdownResponse `json:"priceBreakdown"`

	Unavailable bool               `json:"unavailable"`
	Conflicts   []conflictResponse `json:"conflicts,omitempty"`
}

type dayResponse struct {
	Date  string   `json:"date"`
	Price float64  `json:"price"`
	Rules []string `json:"rules,omitempty"`
}

type breakdownResponse struct {
	BaseSubtotal        float64 `json:"baseSubtotal"`
	AfterLengthDiscount float64 `json:"afterLengthDiscount"`
	AfterCouponDiscount float64 `json:"afterCouponDiscount"`
	TaxableAmount       float64 `json:"taxableAmount"`
	FinalTotal          float64 `json:"finalTotal"`
}

type conflictResponse struct {
	BookingID string `json:"bookingId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// GenerateQuote prices a candidate booking and reports availability.
func (h *Handler) GenerateQuote(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuoteRequest(w, r)
	if !ok {
		return
	}

	q, err := h.quotes.QuoteFor(r.Context(), req)
	if err != nil {
		writeQuoteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domainToQuoteResponse(q))
}

// decodeQuoteRequest decodes and validates the quote payload. On failure it
// writes the error response and returns ok=false.
func decodeQuoteRequest(w http.ResponseWriter, r *http.Request) (quote.Request, bool) {
	var req quoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return quote.Request{}, false
	}
	if req.CarID == "" {
		writeError(w, http.StatusBadRequest, "carId required")
		return quote.Request{}, false
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "startDate must be a calendar date (YYYY-MM-DD)")
		return quote.Request{}, false
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "endDate must be a calendar date (YYYY-MM-DD)")
		return quote.Request{}, false
	}

	return quote.Request{
		CarID:      req.CarID,
		StartDate:  start,
		EndDate:    end,
		CouponCode: req.CouponCode,
	}, true
}

func writeQuoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, car.ErrNotFound):
		writeError(w, http.StatusNotFound, "car not found")
	case errors.Is(err, pricing.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, pricing.ErrInvalidRange.Error())
	default:
		writeError(w, http.StatusInternalServerError, "generate quote")
	}
}

func domainToQuoteResponse(q *quote.Quote) quoteResponse {
	days := make([]dayResponse, len(q.Days))
	for i, d := range q.Days {
		days[i] = dayResponse{
			Date:  formatDate(d.Date),
			Price: d.Price.InexactFloat64(),
			Rules: ruleNames(d.Rules),
		}
	}

	resp := quoteResponse{
		CarID:          q.CarID,
		StartDate:      formatDate(q.StartDate),
		EndDate:        formatDate(q.EndDate),
		BasePrice:      q.BasePrice.InexactFloat64(),
		Nights:         q.Nights,
		Days:           days,
		AppliedRules:   q.AppliedRules,
		Subtotal:       q.Subtotal.InexactFloat64(),
		LengthDiscount: q.LengthDiscount.InexactFloat64(),
		CouponCode:     q.CouponCode,
		CouponDiscount: q.CouponDiscount.InexactFloat64(),
		CouponError:    q.CouponError,
		Taxes:          q.Taxes.InexactFloat64(),
		Total:          q.Total.InexactFloat64(),
		PriceBreakdown: breakdownResponse{
			BaseSubtotal:        q.Breakdown.BaseSubtotal.InexactFloat64(),
			AfterLengthDiscount: q.Breakdown.AfterLengthDiscount.InexactFloat64(),
			AfterCouponDiscount: q.Breakdown.AfterCouponDiscount.InexactFloat64(),
			TaxableAmount:       q.Breakdown.TaxableAmount.InexactFloat64(),
			FinalTotal:          q.Breakdown.FinalTotal.InexactFloat64(),
		},
		Unavailable: q.Unavailable,
	}
	if q.LengthRule != nil {
		resp.LengthRule = *q.LengthRule
	}
	for _, b := range q.Conflicts {
		resp.Conflicts = append(resp.Conflicts, conflictResponse{
			BookingID: b.ID,
			StartDate: formatDate(b.StartDate),
			EndDate:   formatDate(b.EndDate),
		})
	}
	return resp
}

func ruleNames(rules []pricing.Rule) []string {
	if len(rules) == 0 {
		return nil
	}
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.RuleName()
	}
	return names
}
