package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/wheelhouse/internal/domain/coupon"
	"github.com/xenking/wheelhouse/internal/domain/pricing"
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByCode looks a coupon up case-insensitively; codes are stored in
// upper case and the query upper-cases the parameter.
// Returns coupon.ErrNotFound when no matching coupon exists.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var (
		c    coupon.Coupon
		kind string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT code, discount_type, value, expires_at, active, usage_limit, usage_count, min_nights
		FROM coupons
		WHERE code = UPPER($1)`, code).
		Scan(&c.Code, &kind, &c.Discount.Value, &c.ExpiresAt, &c.Active,
			&c.UsageLimit, &c.UsageCount, &c.MinNights)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}

	c.Discount.Kind = pricing.AdjustmentKind(kind)
	return &c, nil
}

// IncrementUsage bumps the usage counter atomically.
// Returns coupon.ErrNotFound when no matching coupon exists.
func (r *CouponRepository) IncrementUsage(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE coupons
		SET usage_count = usage_count + 1
		WHERE code = UPPER($1)`, code)
	if err != nil {
		return fmt.Errorf("incrementing usage for coupon %q: %w", code, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}
	return nil
}

// Upsert inserts or replaces a coupon, keyed by its upper-cased code.
func (r *CouponRepository) Upsert(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO coupons (code, discount_type, value, expires_at, active, usage_limit, usage_count, min_nights)
		VALUES (UPPER($1), $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code) DO UPDATE SET
			discount_type = EXCLUDED.discount_type,
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at,
			active = EXCLUDED.active,
			usage_limit = EXCLUDED.usage_limit,
			min_nights = EXCLUDED.min_nights`,
		c.Code, string(c.Discount.Kind), c.Discount.Value, c.ExpiresAt,
		c.Active, c.UsageLimit, c.UsageCount, c.MinNights)
	if err != nil {
		return fmt.Errorf("upserting coupon %q: %w", c.Code, err)
	}
	return nil
}
