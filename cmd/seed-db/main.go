// Command seed-db loads the built-in storefront catalog into PostgreSQL.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/promo"
	"github.com/xenking/storefront/internal/storage/postgres"
)

func main() {
	var (
		databaseURL string
		promoFile   string
	)
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&promoFile, "promo-file", "", "gzip-compressed CODE,PERCENT file replacing the built-in promo codes")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		if databaseURL == "" {
			return errors.New("database URL is required: set --database-url or DATABASE_URL")
		}
		if err := run(zctx.Base(ctx, lg), databaseURL, promoFile); err != nil {
			return errors.Wrap(err, "seed")
		}
		lg.Info("Seed completed")
		return nil
	})
}

func run(ctx context.Context, databaseURL, promoFile string) error {
	lg := zctx.From(ctx)

	data := catalog.Default()
	if promoFile != "" {
		table, err := promo.FileSource{Path: promoFile}.PromoCodes(ctx)
		if err != nil {
			return errors.Wrap(err, "read promo file")
		}
		lg.Info("Read promo file", zap.String("path", promoFile), zap.Int("codes", len(table)))
		data.Promos = table
	}
	// Reject invalid data before touching the database.
	if _, err := catalog.New(data); err != nil {
		return errors.Wrap(err, "validate catalog")
	}

	lg.Info("Connecting to database")
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	lg.Info("Running migrations")
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	return postgres.Seed(ctx, postgres.NewSource(pool), data)
}
