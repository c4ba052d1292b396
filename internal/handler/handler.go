// Package handler implements the HTTP API: fleet and booking CRUD, coupon
// gating, and the quote endpoint.
package handler

import (
	"net/http"

	"github.com/xenking/wheelhouse/internal/domain/booking"
	"github.com/xenking/wheelhouse/internal/domain/car"
	"github.com/xenking/wheelhouse/internal/domain/coupon"
	"github.com/xenking/wheelhouse/internal/domain/quote"
)

// Handler serves the API routes, delegating business logic to the injected
// repositories and the quote service.
type Handler struct {
	cars     car.Repository
	bookings booking.Repository
	coupons  coupon.Repository
	quotes   *quote.Service
	security *Security
}

// NewHandler constructs a Handler with the required domain dependencies.
// The security guard may be nil, in which case mutating routes are open
// (used by unit tests).
func NewHandler(
	cars car.Repository,
	bookings booking.Repository,
	coupons coupon.Repository,
	quotes *quote.Service,
	security *Security,
) *Handler {
	return &Handler{
		cars:     cars,
		bookings: bookings,
		coupons:  coupons,
		quotes:   quotes,
		security: security,
	}
}

// Routes returns the API route table. Read endpoints are public; mutating
// endpoints require an API key.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/cars", h.ListCars)
	mux.HandleFunc("GET /api/cars/{id}", h.GetCar)
	mux.Handle("POST /api/cars", h.guard(h.CreateCar))
	mux.Handle("PUT /api/cars/{id}", h.guard(h.UpdateCar))
	mux.Handle("DELETE /api/cars/{id}", h.guard(h.DeleteCar))

	mux.HandleFunc("GET /api/bookings", h.ListBookings)
	mux.HandleFunc("GET /api/bookings/{id}", h.GetBooking)
	mux.HandleFunc("POST /api/bookings", h.CreateBooking)
	mux.Handle("PATCH /api/bookings/{id}/status", h.guard(h.UpdateBookingStatus))
	mux.Handle("DELETE /api/bookings/{id}", h.guard(h.DeleteBooking))

	mux.HandleFunc("POST /api/quotes", h.GenerateQuote)
	mux.HandleFunc("GET /api/coupons/{code}", h.CheckCoupon)

	return mux
}

func (h *Handler) guard(next http.HandlerFunc) http.Handler {
	if h.security == nil {
		return next
	}
	return h.security.Require(next)
}
