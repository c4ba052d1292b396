// Package car holds the rental fleet entity and its repository contract.
package car

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/wheelhouse/internal/domain/pricing"
)

// ErrNotFound is returned when a requested car does not exist.
var ErrNotFound = errors.New("car not found")

// Car is a rentable vehicle. PriceRules, when non-empty, fully replaces the
// service-wide default rule list for this car.
type Car struct {
	ID            string
	Name          string
	Category      string
	PricePerNight decimal.Decimal
	PriceRules    []pricing.Rule
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the structural invariants of a car at data-entry time.
func (c *Car) Validate() error {
	if c.Name == "" {
		return errors.New("car requires a name")
	}
	if c.PricePerNight.IsNegative() {
		return errors.Errorf("car %q: nightly rate must not be negative", c.Name)
	}
	return pricing.ValidateRules(c.PriceRules)
}

// Repository defines persistence operations for the fleet.
type Repository interface {
	List(ctx context.Context) ([]Car, error)
	GetByID(ctx context.Context, id string) (*Car, error)
	Create(ctx context.Context, c *Car) error
	Update(ctx context.Context, c *Car) error
	Delete(ctx context.Context, id string) error
}
