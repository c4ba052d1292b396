package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/wheelhouse/internal/domain/car"
	"github.com/xenking/wheelhouse/internal/domain/pricing"
)

var _ car.Repository = (*CarRepository)(nil)

// CarRepository implements car.Repository backed by PostgreSQL. Per-car
// price rule lists are stored as a tagged JSONB document.
type CarRepository struct {
	pool *pgxpool.Pool
}

// NewCarRepository returns a CarRepository that uses the given pool.
func NewCarRepository(pool *pgxpool.Pool) *CarRepository {
	return &CarRepository{pool: pool}
}

// List returns the whole fleet ordered by ID.
func (r *CarRepository) List(ctx context.Context) ([]car.Car, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category, price_per_night, price_rules, created_at, updated_at
		FROM cars
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing cars: %w", err)
	}
	defer rows.Close()

	var cars []car.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, *c)
	}
	return cars, rows.Err()
}

// GetByID returns a single car by its identifier.
// Returns car.ErrNotFound when no matching car exists.
func (r *CarRepository) GetByID(ctx context.Context, id string) (*car.Car, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, category, price_per_night, price_rules, created_at, updated_at
		FROM cars
		WHERE id = $1`, id)

	c, err := scanCar(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, car.ErrNotFound
		}
		return nil, fmt.Errorf("getting car %q: %w", id, err)
	}
	return c, nil
}

// Create persists a new car.
func (r *CarRepository) Create(ctx context.Context, c *car.Car) error {
	rulesJSON, err := marshalRules(c.PriceRules)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO cars (id, name, category, price_per_night, price_rules)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Category, c.PricePerNight, rulesJSON)
	if err != nil {
		return fmt.Errorf("creating car %q: %w", c.ID, err)
	}
	return nil
}

// Upsert inserts or replaces a car, keyed by ID. Used by the seeding command.
func (r *CarRepository) Upsert(ctx context.Context, c *car.Car) error {
	rulesJSON, err := marshalRules(c.PriceRules)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO cars (id, name, category, price_per_night, price_rules)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			price_per_night = EXCLUDED.price_per_night,
			price_rules = EXCLUDED.price_rules,
			updated_at = now()`,
		c.ID, c.Name, c.Category, c.PricePerNight, rulesJSON)
	if err != nil {
		return fmt.Errorf("upserting car %q: %w", c.ID, err)
	}
	return nil
}

// Update replaces the mutable fields of an existing car.
// Returns car.ErrNotFound when no matching car exists.
func (r *CarRepository) Update(ctx context.Context, c *car.Car) error {
	rulesJSON, err := marshalRules(c.PriceRules)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE cars
		SET name = $2, category = $3, price_per_night = $4, price_rules = $5, updated_at = now()
		WHERE id = $1`,
		c.ID, c.Name, c.Category, c.PricePerNight, rulesJSON)
	if err != nil {
		return fmt.Errorf("updating car %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return car.ErrNotFound
	}
	return nil
}

// Delete removes a car.
// Returns car.ErrNotFound when no matching car exists.
func (r *CarRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting car %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return car.ErrNotFound
	}
	return nil
}

func marshalRules(rules []pricing.Rule) ([]byte, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	data, err := pricing.MarshalRules(rules)
	if err != nil {
		return nil, fmt.Errorf("marshaling price rules: %w", err)
	}
	return data, nil
}

func scanCar(row pgx.Row) (*car.Car, error) {
	var (
		c         car.Car
		price     decimal.Decimal
		rulesJSON []byte
		created   time.Time
		updated   time.Time
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Category, &price, &rulesJSON, &created, &updated); err != nil {
		return nil, err
	}

	c.PricePerNight = price
	c.CreatedAt = created
	c.UpdatedAt = updated

	if len(rulesJSON) > 0 {
		rules, err := pricing.UnmarshalRules(rulesJSON)
		if err != nil {
			return nil, fmt.Errorf("decoding price rules for car %q: %w", c.ID, err)
		}
		c.PriceRules = rules
	}
	return &c, nil
}
