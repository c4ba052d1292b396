package quote

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/wheelhouse/internal/domain/booking"
	"github.com/xenking/wheelhouse/internal/domain/car"
	"github.com/xenking/wheelhouse/internal/domain/coupon"
)

// Request holds the input for a quote: one car, a candidate date range, and
// an optional coupon code.
type Request struct {
	CarID      string
	StartDate  time.Time
	EndDate    time.Time
	CouponCode string
}

// Service fetches the inputs a quote needs and delegates the pure
// computation to the Generator. It owns all storage access so the Generator
// stays side-effect free.
type Service struct {
	cars     car.Repository
	coupons  coupon.Repository
	bookings booking.Repository
	gen      *Generator
	now      func() time.Time
}

// NewService creates a quote Service with the required repositories and
// generator.
func NewService(
	cars car.Repository,
	coupons coupon.Repository,
	bookings booking.Repository,
	gen *Generator,
) *Service {
	return &Service{
		cars:     cars,
		coupons:  coupons,
		bookings: bookings,
		gen:      gen,
		now:      time.Now,
	}
}

// QuoteFor builds the full quote for the request: it resolves the car,
// gates the coupon (an unknown or invalid coupon is advisory, not fatal),
// generates the itemized pricing, and merges the availability check over
// the car's pending and confirmed bookings.
//
// It returns car.ErrNotFound when the car does not exist and
// pricing.ErrInvalidRange when the range covers no nights.
func (s *Service) QuoteFor(ctx context.Context, req Request) (*Quote, error) {
	c, err := s.cars.GetByID(ctx, req.CarID)
	if err != nil {
		if errors.Is(err, car.ErrNotFound) {
			return nil, car.ErrNotFound
		}
		return nil, errors.Wrap(err, "get car")
	}

	cpn, couponErr, err := s.resolveCoupon(ctx, req.CouponCode)
	if err != nil {
		return nil, err
	}

	q, err := s.gen.Generate(c, req.StartDate, req.EndDate, cpn)
	if err != nil {
		return nil, err
	}
	if q.CouponError == "" {
		q.CouponError = couponErr
	}
	if q.CouponCode == "" && req.CouponCode != "" {
		q.CouponCode = coupon.CanonicalCode(req.CouponCode)
	}

	existing, err := s.bookings.ListActiveByCar(ctx, req.CarID)
	if err != nil {
		return nil, errors.Wrap(err, "list bookings")
	}
	q.Conflicts = booking.FindConflicts(req.StartDate, req.EndDate, existing)
	q.Unavailable = len(q.Conflicts) > 0

	return q, nil
}

// resolveCoupon fetches and gates the coupon for the given code. A missing
// or invalid coupon yields a nil coupon plus an advisory message; only
// storage failures are returned as errors.
func (s *Service) resolveCoupon(ctx context.Context, code string) (*coupon.Coupon, string, error) {
	if code == "" {
		return nil, "", nil
	}

	cpn, err := s.coupons.FindByCode(ctx, coupon.CanonicalCode(code))
	if err != nil {
		if errors.Is(err, coupon.ErrNotFound) {
			return nil, "invalid coupon code", nil
		}
		return nil, "", errors.Wrap(err, "lookup coupon")
	}

	if v := coupon.IsValid(cpn, s.now()); !v.Valid {
		return nil, "coupon is " + v.Reason, nil
	}
	return cpn, "", nil
}
