package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/promo"
	"github.com/xenking/storefront/internal/domain/selection"
	"github.com/xenking/storefront/internal/handler"
	"github.com/xenking/storefront/internal/storage/postgres"
	"github.com/xenking/storefront/internal/view"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

const serviceName = "storefront-api"

// promoOverride replaces the promo codes of a catalog source.
type promoOverride struct {
	catalog.Source
	promos promo.Source
}

func (o promoOverride) PromoCodes(ctx context.Context) (promo.Table, error) {
	return o.promos.PromoCodes(ctx)
}

// openCatalog loads the catalog from PostgreSQL when a database URL is
// configured and from the built-in data otherwise. The returned pool is nil
// in the latter case.
func openCatalog(ctx context.Context, cfg *Config) (*catalog.Provider, *pgxpool.Pool, error) {
	lg := zctx.From(ctx)

	var (
		src  catalog.Source
		pool *pgxpool.Pool
	)
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "run migrations")
		}
		src = postgres.NewSource(pool)
		lg.Info("Using PostgreSQL catalog")
	} else {
		builtin, err := catalog.New(catalog.Default())
		if err != nil {
			return nil, nil, errors.Wrap(err, "built-in catalog")
		}
		src = builtin
		lg.Info("Using built-in catalog")
	}

	if cfg.PromoFile != "" {
		src = promoOverride{Source: src, promos: promo.FileSource{Path: cfg.PromoFile}}
		lg.Info("Using promo code file", zap.String("path", cfg.PromoFile))
	}

	provider, err := catalog.Load(ctx, src)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, nil, errors.Wrap(err, "load catalog")
	}
	return provider, pool, nil
}

// newHTTPHandler builds the API and probe routes behind the middleware chain.
func newHTTPHandler(
	ctx context.Context,
	provider *catalog.Provider,
	healthSvc *health.Health,
	tel httpmiddleware.Telemetry,
	cors CORSConfig,
) (http.Handler, error) {
	table, err := provider.PromoCodes(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "promo codes")
	}
	engine, err := promo.NewEngine(table)
	if err != nil {
		return nil, errors.Wrap(err, "create promo engine")
	}
	store := selection.NewStore(provider, engine)

	views, err := view.NewRouter(ctx, provider, store)
	if err != nil {
		return nil, errors.Wrap(err, "create view router")
	}
	h, err := handler.NewHandler(provider, store, views, tel.MeterProvider())
	if err != nil {
		return nil, errors.Wrap(err, "create handler")
	}

	// Route-aware middleware runs inside chi so the matched pattern is known.
	find := httpmiddleware.ChiRouteFinder
	r := chi.NewRouter()
	r.Use(
		middleware.RealIP,
		httpmiddleware.LogRequests(find),
		httpmiddleware.Labeler(find),
	)
	r.Get("/livez", healthSvc.LiveEndpoint)
	r.Get("/readyz", healthSvc.ReadyEndpoint)
	h.Routes(r)

	return httpmiddleware.Wrap(r,
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.RequestID(),
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cors.Origins,
			AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
			AllowCredentials: cors.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.Instrument(serviceName, tel),
	), nil
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	provider, pool, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}
	lg.Info("Catalog loaded", zap.Int("products", len(provider.Products())))

	healthSvc := health.New()
	if pool != nil {
		healthSvc.Add(health.Readiness, "postgres", 5*time.Second, health.PingCheck(pool))
	}
	healthSvc.Add(health.Readiness, "catalog", time.Second,
		health.NonEmptyCheck("catalog", func() int { return len(provider.Products()) }))
	healthSvc.Add(health.Liveness, "goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)

	httpHandler, err := newHTTPHandler(ctx, provider, healthSvc, m, cfg.CORS)
	if err != nil {
		return err
	}
	healthSvc.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           httpHandler,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	// Graceful shutdown: fail readiness, drain, then stop.
	g.Go(func() error {
		<-gCtx.Done()
		healthSvc.SetReady(false)
		if ctx.Err() != nil {
			lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
			time.Sleep(cfg.Graceful.ReadinessDelay)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		return nil
	})
	return g.Wait()
}
