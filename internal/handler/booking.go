package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/wheelhouse/internal/domain/booking"
	"github.com/xenking/wheelhouse/internal/domain/quote"
)

type bookingRequest struct {
	CarID      string `json:"carId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	CouponCode string `json:"couponCode,omitempty"`
}

type bookingStatusRequest struct {
	Status string `json:"status"`
}

type bookingResponse struct {
	ID         string  `json:"id"`
	CarID      string  `json:"carId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	Status     string  `json:"status"`
	Total      float64 `json:"total"`
	CouponCode string  `json:"couponCode,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

type createBookingResponse struct {
	Booking bookingResponse `json:"booking"`
	Quote   quoteResponse   `json:"quote"`
}

// ListBookings returns all bookings, newest first.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list bookings")
		return
	}

	out := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = domainToBookingResponse(b)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetBooking returns a single booking by ID.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookings.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "get booking")
		return
	}
	writeJSON(w, http.StatusOK, domainToBookingResponse(*b))
}

// CreateBooking quotes the candidate range, rejects date conflicts with 409,
// persists the booking as pending, and consumes the coupon when one was
// applied. The response carries both the booking and its full quote.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CarID == "" {
		writeError(w, http.StatusBadRequest, "carId required")
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "startDate must be a calendar date (YYYY-MM-DD)")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "endDate must be a calendar date (YYYY-MM-DD)")
		return
	}

	ctx := r.Context()
	q, err := h.quotes.QuoteFor(ctx, quote.Request{
		CarID:      req.CarID,
		StartDate:  start,
		EndDate:    end,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		writeQuoteError(w, err)
		return
	}

	if q.Unavailable {
		writeError(w, http.StatusConflict, "car is not available for the requested dates")
		return
	}

	b := &booking.Booking{
		ID:         uuid.New().String(),
		CarID:      q.CarID,
		StartDate:  start,
		EndDate:    end,
		Status:     booking.StatusPending,
		Total:      q.Total,
		CouponCode: q.CouponCode,
	}
	if err := h.bookings.Create(ctx, b); err != nil {
		writeError(w, http.StatusInternalServerError, "create booking")
		return
	}

	// The coupon is consumed only once it backs a real booking; quote
	// generation alone never touches the counter.
	if q.CouponDiscount.IsPositive() {
		if err := h.coupons.IncrementUsage(ctx, q.CouponCode); err != nil {
			writeError(w, http.StatusInternalServerError, "consume coupon")
			return
		}
	}

	writeJSON(w, http.StatusCreated, createBookingResponse{
		Booking: domainToBookingResponse(*b),
		Quote:   domainToQuoteResponse(q),
	})
}

// UpdateBookingStatus transitions a booking between pending, confirmed, and
// canceled.
func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req bookingStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := booking.Status(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "status must be one of pending, confirmed, canceled")
		return
	}

	if err := h.bookings.UpdateStatus(r.Context(), r.PathValue("id"), status); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "update booking status")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteBooking removes a booking.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete booking")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func domainToBookingResponse(b booking.Booking) bookingResponse {
	resp := bookingResponse{
		ID:         b.ID,
		CarID:      b.CarID,
		StartDate:  formatDate(b.StartDate),
		EndDate:    formatDate(b.EndDate),
		Status:     string(b.Status),
		Total:      b.Total.InexactFloat64(),
		CouponCode: b.CouponCode,
	}
	if !b.CreatedAt.IsZero() {
		resp.CreatedAt = b.CreatedAt.UTC().Format(timeLayout)
	}
	return resp
}
