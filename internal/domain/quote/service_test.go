package quote

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/wheelhouse/internal/domain/booking"
	"github.com/xenking/wheelhouse/internal/domain/car"
	"github.com/xenking/wheelhouse/internal/domain/coupon"
	"github.com/xenking/wheelhouse/internal/domain/pricing"
)

// --- Mock implementations ---

type mockCarRepo struct {
	byID   map[string]*car.Car
	getErr error
}

func (m *mockCarRepo) List(_ context.Context) ([]car.Car, error) { return nil, nil }

func (m *mockCarRepo) GetByID(_ context.Context, id string) (*car.Car, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.byID[id]
	if !ok {
		return nil, car.ErrNotFound
	}
	return c, nil
}

func (m *mockCarRepo) Create(_ context.Context, _ *car.Car) error { return nil }
func (m *mockCarRepo) Update(_ context.Context, _ *car.Car) error { return nil }
func (m *mockCarRepo) Delete(_ context.Context, _ string) error   { return nil }

type mockCouponRepo struct {
	byCode  map[string]*coupon.Coupon
	findErr error
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	c, ok := m.byCode[code]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	return c, nil
}

func (m *mockCouponRepo) IncrementUsage(_ context.Context, _ string) error { return nil }
func (m *mockCouponRepo) Upsert(_ context.Context, _ *coupon.Coupon) error { return nil }

type mockBookingRepo struct {
	active  []booking.Booking
	listErr error
}

func (m *mockBookingRepo) Create(_ context.Context, _ *booking.Booking) error { return nil }
func (m *mockBookingRepo) GetByID(_ context.Context, _ string) (*booking.Booking, error) {
	return nil, booking.ErrNotFound
}
func (m *mockBookingRepo) List(_ context.Context) ([]booking.Booking, error) { return nil, nil }

func (m *mockBookingRepo) ListActiveByCar(_ context.Context, _ string) ([]booking.Booking, error) {
	return m.active, m.listErr
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, _ string, _ booking.Status) error {
	return nil
}
func (m *mockBookingRepo) Delete(_ context.Context, _ string) error { return nil }

// --- Helpers ---

func newTestService(cars *mockCarRepo, coupons *mockCouponRepo, bookings *mockBookingRepo) *Service {
	svc := NewService(cars, coupons, bookings, NewGenerator(nil, DefaultTaxRate))
	svc.now = func() time.Time { return date(1) }
	return svc
}

func carRepoWith(cars ...*car.Car) *mockCarRepo {
	byID := make(map[string]*car.Car, len(cars))
	for _, c := range cars {
		byID[c.ID] = c
	}
	return &mockCarRepo{byID: byID}
}

func couponRepoWith(coupons ...*coupon.Coupon) *mockCouponRepo {
	byCode := make(map[string]*coupon.Coupon, len(coupons))
	for _, c := range coupons {
		byCode[c.Code] = c
	}
	return &mockCouponRepo{byCode: byCode}
}

// --- Tests ---

func TestQuoteFor_CarNotFound(t *testing.T) {
	svc := newTestService(carRepoWith(), couponRepoWith(), &mockBookingRepo{})

	_, err := svc.QuoteFor(context.Background(), Request{
		CarID:     "missing",
		StartDate: date(2),
		EndDate:   date(7),
	})
	require.ErrorIs(t, err, car.ErrNotFound)
}

func TestQuoteFor_NoCoupon(t *testing.T) {
	svc := newTestService(carRepoWith(testCar("100")), couponRepoWith(), &mockBookingRepo{})

	q, err := svc.QuoteFor(context.Background(), Request{
		CarID:     "sedan-camry",
		StartDate: date(2),
		EndDate:   date(7),
	})
	require.NoError(t, err)
	assert.True(t, dec("550.00").Equal(q.Total))
	assert.False(t, q.Unavailable)
	assert.Empty(t, q.Conflicts)
}

func TestQuoteFor_ValidCoupon(t *testing.T) {
	cpn := testCoupon("SUMMER10", pricing.Percentage(dec("10")))
	svc := newTestService(carRepoWith(testCar("100")), couponRepoWith(cpn), &mockBookingRepo{})

	// Lookup is case-insensitive via canonicalization.
	q, err := svc.QuoteFor(context.Background(), Request{
		CarID:      "sedan-camry",
		StartDate:  date(2),
		EndDate:    date(7),
		CouponCode: "summer10",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER10", q.CouponCode)
	assert.True(t, dec("50.00").Equal(q.CouponDiscount))
	assert.Empty(t, q.CouponError)
}

func TestQuoteFor_UnknownCouponIsAdvisory(t *testing.T) {
	svc := newTestService(carRepoWith(testCar("100")), couponRepoWith(), &mockBookingRepo{})

	q, err := svc.QuoteFor(context.Background(), Request{
		CarID:      "sedan-camry",
		StartDate:  date(2),
		EndDate:    date(7),
		CouponCode: "bogus",
	})
	require.NoError(t, err, "an unknown coupon must not fail the quote")
	assert.Equal(t, "invalid coupon code", q.CouponError)
	assert.Equal(t, "BOGUS", q.CouponCode)
	assert.True(t, q.CouponDiscount.IsZero())
	assert.True(t, dec("550.00").Equal(q.Total))
}

func TestQuoteFor_ExpiredCouponIsAdvisory(t *testing.T) {
	cpn := testCoupon("OLD", pricing.Percentage(dec("10")))
	cpn.ExpiresAt = date(1).Add(-time.Hour)
	svc := newTestService(carRepoWith(testCar("100")), couponRepoWith(cpn), &mockBookingRepo{})

	q, err := svc.QuoteFor(context.Background(), Request{
		CarID:      "sedan-camry",
		StartDate:  date(2),
		EndDate:    date(7),
		CouponCode: "OLD",
	})
	require.NoError(t, err)
	assert.Equal(t, "coupon is expired", q.CouponError)
	assert.True(t, q.CouponDiscount.IsZero())
}

func TestQuoteFor_CouponLookupFailure(t *testing.T) {
	coupons := &mockCouponRepo{findErr: errors.New("db down")}
	svc := newTestService(carRepoWith(testCar("100")), coupons, &mockBookingRepo{})

	_, err := svc.QuoteFor(context.Background(), Request{
		CarID:      "sedan-camry",
		StartDate:  date(2),
		EndDate:    date(7),
		CouponCode: "SUMMER10",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup coupon")
}

func TestQuoteFor_ConflictsMarkUnavailable(t *testing.T) {
	bookings := &mockBookingRepo{active: []booking.Booking{
		{ID: "b1", CarID: "sedan-camry", StartDate: date(4), EndDate: date(9), Status: booking.StatusConfirmed},
	}}
	svc := newTestService(carRepoWith(testCar("100")), couponRepoWith(), bookings)

	q, err := svc.QuoteFor(context.Background(), Request{
		CarID:     "sedan-camry",
		StartDate: date(2),
		EndDate:   date(7),
	})
	require.NoError(t, err, "quote still computes for an unavailable range")
	assert.True(t, q.Unavailable)
	require.Len(t, q.Conflicts, 1)
	assert.Equal(t, "b1", q.Conflicts[0].ID)
	assert.True(t, dec("550.00").Equal(q.Total))
}

func TestQuoteFor_BookingListFailure(t *testing.T) {
	bookings := &mockBookingRepo{listErr: errors.New("db down")}
	svc := newTestService(carRepoWith(testCar("100")), couponRepoWith(), bookings)

	_, err := svc.QuoteFor(context.Background(), Request{
		CarID:     "sedan-camry",
		StartDate: date(2),
		EndDate:   date(7),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list bookings")
}

func TestQuoteFor_InvalidRange(t *testing.T) {
	svc := newTestService(carRepoWith(testCar("100")), couponRepoWith(), &mockBookingRepo{})

	_, err := svc.QuoteFor(context.Background(), Request{
		CarID:     "sedan-camry",
		StartDate: date(7),
		EndDate:   date(7),
	})
	require.ErrorIs(t, err, pricing.ErrInvalidRange)
}
