package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/wheelhouse/internal/domain/booking"
)

var _ booking.Repository = (*BookingRepository)(nil)

// BookingRepository implements booking.Repository backed by PostgreSQL.
type BookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository returns a BookingRepository that uses the given pool.
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

const bookingColumns = `id, car_id, start_date, end_date, status, total, coupon_code, created_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bookings (id, car_id, start_date, end_date, status, total, coupon_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.CarID, b.StartDate, b.EndDate, string(b.Status), b.Total, b.CouponCode)
	if err != nil {
		return fmt.Errorf("creating booking %q: %w", b.ID, err)
	}
	return nil
}

// GetByID returns a single booking by its identifier.
// Returns booking.ErrNotFound when no matching booking exists.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, booking.ErrNotFound
		}
		return nil, fmt.Errorf("getting booking %q: %w", id, err)
	}
	return b, nil
}

// List returns all bookings ordered by creation time, newest first.
func (r *BookingRepository) List(ctx context.Context) ([]booking.Booking, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListActiveByCar returns the car's pending and confirmed bookings, the
// input set for the availability check.
func (r *BookingRepository) ListActiveByCar(ctx context.Context, carID string) ([]booking.Booking, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingColumns+` FROM bookings
		WHERE car_id = $1 AND status IN ('pending', 'confirmed')
		ORDER BY start_date`, carID)
	if err != nil {
		return nil, fmt.Errorf("listing bookings for car %q: %w", carID, err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UpdateStatus transitions a booking to the given status.
// Returns booking.ErrNotFound when no matching booking exists.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status booking.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bookings SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("updating booking %q status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// Delete removes a booking.
// Returns booking.ErrNotFound when no matching booking exists.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting booking %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return booking.ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		b      booking.Booking
		status string
	)
	err := row.Scan(&b.ID, &b.CarID, &b.StartDate, &b.EndDate, &status,
		&b.Total, &b.CouponCode, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.Status = booking.Status(status)
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]booking.Booking, error) {
	var bookings []booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
