// Package booking holds the booking entity and the availability check that
// guards new reservations against date-range conflicts.
package booking

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested booking does not exist.
var ErrNotFound = errors.New("booking not found")

// Status enumerates the booking lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCanceled:
		return true
	default:
		return false
	}
}

// Booking is a reservation of one car over an inclusive date range.
type Booking struct {
	ID         string
	CarID      string
	StartDate  time.Time // UTC midnight
	EndDate    time.Time // UTC midnight
	Status     Status
	Total      decimal.Decimal
	CouponCode string
	CreatedAt  time.Time
}

// Repository defines persistence operations for bookings.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context) ([]Booking, error)
	// ListActiveByCar returns the car's pending and confirmed bookings,
	// the input set for the availability check.
	ListActiveByCar(ctx context.Context, carID string) ([]Booking, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}
