package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/wheelhouse/internal/domain/auth"
	"github.com/xenking/wheelhouse/internal/domain/car"
	"github.com/xenking/wheelhouse/internal/domain/coupon"
	"github.com/xenking/wheelhouse/internal/domain/pricing"
	"github.com/xenking/wheelhouse/internal/handler"
	"github.com/xenking/wheelhouse/internal/postgres"
)

type carJSON struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	Rules         json.RawMessage `json:"rules"`
}

func main() {
	var (
		databaseURL  string
		carsFile     string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&carsFile, "cars-file", "db/seed/cars.json", "path to fleet JSON file")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or RENTAL_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or RENTAL_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("RENTAL_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or RENTAL_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("RENTAL_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, carsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, carsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCars(ctx, postgres.NewCarRepository(pool), carsFile); err != nil {
		return errors.Wrap(err, "seed cars")
	}

	if err := seedCoupons(ctx, postgres.NewCouponRepository(pool)); err != nil {
		return errors.Wrap(err, "seed coupons")
	}

	if err := seedAPIKey(ctx, postgres.NewAPIKeyRepository(pool), apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

func seedCars(ctx context.Context, repo *postgres.CarRepository, carsFile string) error {
	slog.Info("reading fleet file", slog.String("path", carsFile))

	data, err := os.ReadFile(carsFile)
	if err != nil {
		return errors.Wrap(err, "read fleet file")
	}

	var cars []carJSON
	if err := json.Unmarshal(data, &cars); err != nil {
		return errors.Wrap(err, "parse fleet JSON")
	}

	slog.Info("upserting cars", slog.Int("count", len(cars)))

	for _, cj := range cars {
		c := car.Car{
			ID:            cj.ID,
			Name:          cj.Name,
			Category:      cj.Category,
			PricePerNight: cj.PricePerNight,
		}
		if len(cj.Rules) > 0 {
			rules, err := pricing.UnmarshalRules(cj.Rules)
			if err != nil {
				return errors.Wrapf(err, "parse rules for car %s", cj.ID)
			}
			c.PriceRules = rules
		}
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "validate car %s", cj.ID)
		}

		if err := repo.Upsert(ctx, &c); err != nil {
			return errors.Wrapf(err, "upsert car %s", cj.ID)
		}

		slog.Info("upserted car", slog.String("id", c.ID), slog.String("name", c.Name))
	}

	return nil
}

func seedCoupons(ctx context.Context, repo *postgres.CouponRepository) error {
	slog.Info("seeding demo coupons")

	expiry := time.Now().AddDate(1, 0, 0)
	coupons := []coupon.Coupon{
		{
			Code:      "SUMMER10",
			Discount:  pricing.Percentage(decimal.NewFromInt(10)),
			ExpiresAt: expiry,
			Active:    true,
		},
		{
			Code:      "SAVE50",
			Discount:  pricing.Flat(decimal.NewFromInt(50)),
			ExpiresAt: expiry,
			Active:    true,
			MinNights: 3,
		},
		{
			Code:       "WELCOME25",
			Discount:   pricing.Percentage(decimal.NewFromInt(25)),
			ExpiresAt:  expiry,
			Active:     true,
			UsageLimit: 100,
		},
	}

	for i := range coupons {
		c := &coupons[i]
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "validate coupon %s", c.Code)
		}
		if err := repo.Upsert(ctx, c); err != nil {
			return errors.Wrapf(err, "upsert coupon %s", c.Code)
		}

		slog.Info("upserted coupon", slog.String("code", c.Code))
	}

	return nil
}

func seedAPIKey(ctx context.Context, repo *postgres.APIKeyRepository, apiKey, pepper string) error {
	slog.Info("seeding default API key")

	if err := repo.UpsertAPIKey(ctx, &auth.APIKeyInfo{
		ID:      "default",
		KeyHash: handler.HashAPIKey(apiKey, []byte(pepper)),
		Name:    "Default test key",
		Scopes:  []string{"manage_fleet", "manage_bookings"},
	}); err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("id", "default"), slog.String("name", "Default test key"))

	return nil
}
