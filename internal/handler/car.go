package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/wheelhouse/internal/domain/car"
	"github.com/xenking/wheelhouse/internal/domain/pricing"
)

type carRequest struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	Rules         json.RawMessage `json:"rules,omitempty"`
}

type carResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	PricePerNight float64         `json:"pricePerNight"`
	Rules         []pricing.Rule  `json:"rules,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	UpdatedAt     string          `json:"updatedAt,omitempty"`
}

// ListCars returns the whole fleet.
func (h *Handler) ListCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.cars.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list cars")
		return
	}

	out := make([]carResponse, len(cars))
	for i, c := range cars {
		out[i] = domainToCarResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCar returns a single car by ID.
func (h *Handler) GetCar(w http.ResponseWriter, r *http.Request) {
	c, err := h.cars.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, car.ErrNotFound) {
			writeError(w, http.StatusNotFound, "car not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "get car")
		return
	}
	writeJSON(w, http.StatusOK, domainToCarResponse(*c))
}

// CreateCar adds a car to the fleet. Price rule payloads are structurally
// validated before persistence.
func (h *Handler) CreateCar(w http.ResponseWriter, r *http.Request) {
	c, ok := h.carFromRequest(w, r)
	if !ok {
		return
	}
	c.ID = uuid.New().String()

	if err := h.cars.Create(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "create car")
		return
	}
	writeJSON(w, http.StatusCreated, domainToCarResponse(*c))
}

// UpdateCar replaces the mutable fields of a car.
func (h *Handler) UpdateCar(w http.ResponseWriter, r *http.Request) {
	c, ok := h.carFromRequest(w, r)
	if !ok {
		return
	}
	c.ID = r.PathValue("id")

	if err := h.cars.Update(r.Context(), c); err != nil {
		if errors.Is(err, car.ErrNotFound) {
			writeError(w, http.StatusNotFound, "car not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "update car")
		return
	}
	writeJSON(w, http.StatusOK, domainToCarResponse(*c))
}

// DeleteCar removes a car from the fleet.
func (h *Handler) DeleteCar(w http.ResponseWriter, r *http.Request) {
	if err := h.cars.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, car.ErrNotFound) {
			writeError(w, http.StatusNotFound, "car not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete car")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// carFromRequest decodes and validates a car payload. On failure it writes
// the error response and returns ok=false.
func (h *Handler) carFromRequest(w http.ResponseWriter, r *http.Request) (*car.Car, bool) {
	var req carRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	var rules []pricing.Rule
	if len(req.Rules) > 0 {
		var err error
		rules, err = pricing.UnmarshalRules(req.Rules)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return nil, false
		}
	}

	c := &car.Car{
		Name:          req.Name,
		Category:      req.Category,
		PricePerNight: req.PricePerNight,
		PriceRules:    rules,
	}
	if err := c.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}
	return c, true
}

func domainToCarResponse(c car.Car) carResponse {
	resp := carResponse{
		ID:            c.ID,
		Name:          c.Name,
		Category:      c.Category,
		PricePerNight: c.PricePerNight.InexactFloat64(),
		Rules:         c.PriceRules,
	}
	if !c.CreatedAt.IsZero() {
		resp.CreatedAt = c.CreatedAt.UTC().Format(timeLayout)
	}
	if !c.UpdatedAt.IsZero() {
		resp.UpdatedAt = c.UpdatedAt.UTC().Format(timeLayout)
	}
	return resp
}
