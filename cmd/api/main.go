package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/zora-fashion/storefront/api"
	"github.com/zora-fashion/storefront/api/routes"
	"github.com/zora-fashion/storefront/internal/cart"
	"github.com/zora-fashion/storefront/internal/catalog"
	"github.com/zora-fashion/storefront/internal/checkout"
	"github.com/zora-fashion/storefront/internal/cron"
	"github.com/zora-fashion/storefront/internal/inquiries"
	"github.com/zora-fashion/storefront/internal/search"
	"github.com/zora-fashion/storefront/pkg/config"
	"github.com/zora-fashion/storefront/pkg/db"
	"github.com/zora-fashion/storefront/pkg/instance"
	"github.com/zora-fashion/storefront/pkg/logger"
	"github.com/zora-fashion/storefront/pkg/metrics"
	"github.com/zora-fashion/storefront/pkg/migrate"
	"github.com/zora-fashion/storefront/pkg/redis"
	"github.com/zora-fashion/storefront/pkg/security"
	"github.com/zora-fashion/storefront/pkg/storage"
	"github.com/zora-fashion/storefront/pkg/storage/memory"
	"github.com/zora-fashion/storefront/pkg/storage/sqlstore"
)

type expiredPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// backend is the opened storage plus what main needs to tear it down and maintain it.
// purger is set for backends without native key expiry; shared marks it as visible to
// other instances, so purging runs under a lock.
type backend struct {
	store   storage.Store
	purger  expiredPurger
	shared  bool
	closers []func() error
}

func (b *backend) Close() error {
	var err error
	for i := len(b.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, b.closers[i]())
	}
	return err
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Instance:    instance.GetID(),
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"port":    cfg.App.Port,
		"storage": cfg.Storage.Backend,
	})

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	store, err := openStorage(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewStorefront(registry)
	jobMetrics := metrics.NewJobMetrics(registry)

	source, err := catalog.LoadStaticSource(cfg.Catalog.FixturePath)
	if err != nil {
		return err
	}
	catalogSvc, err := catalog.NewService(catalog.ServiceParams{Source: source, Metrics: recorder})
	if err != nil {
		return err
	}

	carts, err := cart.NewRegistry(cart.RegistryParams{
		Storage:    store.store,
		SessionTTL: cfg.Storage.SessionTTL,
		Logger:     logg,
		Metrics:    recorder,
	})
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(carts, catalogSvc)
	if err != nil {
		return err
	}

	searchSvc, err := search.NewService(search.ServiceParams{
		Storage:    store.store,
		SessionTTL: cfg.Storage.SessionTTL,
		Catalog:    catalogSvc,
		Logger:     logg,
	})
	if err != nil {
		return err
	}

	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Cart:    cartSvc,
		Delay:   cfg.Checkout.Delay,
		Logger:  logg,
		Metrics: recorder,
	})
	if err != nil {
		return err
	}

	if cfg.Inquiries.FingerprintKey == "" && cfg.App.IsProd() {
		logg.Warn(ctx, config.EnvInquiryFingerprint+" is not set; email fingerprints are unkeyed")
	}
	fingerprints, err := security.NewFingerprinter(cfg.Inquiries.FingerprintKey)
	if err != nil {
		return err
	}
	inquirySvc, err := inquiries.NewService(inquiries.ServiceParams{
		Delay:       cfg.Inquiries.Delay,
		Logger:      logg,
		Fingerprint: fingerprints,
	})
	if err != nil {
		return err
	}

	handler := routes.NewRouter(cfg, logg, routes.Dependencies{
		Storage:      store.store,
		Catalog:      catalogSvc,
		Cart:         cartSvc,
		Search:       searchSvc,
		Checkout:     checkoutSvc,
		Inquiries:    inquirySvc,
		Fingerprints: fingerprints,
		Metrics:      recorder,
		Gatherer:     registry,
	})

	sweepJob, err := cron.NewCartSweepJob(cron.CartSweepJobParams{Logger: logg, Registry: carts, Idle: cfg.Storage.IdleEvict})
	if err != nil {
		return err
	}
	localJobs := cron.NewRegistry(sweepJob)
	if store.purger != nil && !store.shared {
		purgeJob, err := cron.NewKVPurgeJob(cron.KVPurgeJobParams{Logger: logg, Store: store.purger})
		if err != nil {
			return err
		}
		localJobs.Register(purgeJob)
	}
	local, err := cron.NewService(cron.ServiceParams{
		Name:     "local",
		Logger:   logg,
		Registry: localJobs,
		Metrics:  jobMetrics,
		Interval: cfg.Storage.SweepInterval,
	})
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logg.Info(groupCtx, "starting api server")
		return api.Serve(groupCtx, api.NewServer(cfg, handler), cfg.HTTP.ShutdownTimeout, logg)
	})
	group.Go(func() error { return ignoreCanceled(local.Run(groupCtx)) })

	if store.purger != nil && store.shared {
		shared, err := sharedScheduler(cfg, logg, store, jobMetrics)
		if err != nil {
			return err
		}
		group.Go(func() error { return ignoreCanceled(shared.Run(groupCtx)) })
	}

	return group.Wait()
}

// sharedScheduler runs jobs that touch shared state, guarded by a storage lock so one
// instance runs them per cycle.
func sharedScheduler(cfg *config.Config, logg *logger.Logger, store *backend, jobMetrics *metrics.JobMetrics) (*cron.Service, error) {
	purgeJob, err := cron.NewKVPurgeJob(cron.KVPurgeJobParams{Logger: logg, Store: store.purger})
	if err != nil {
		return nil, err
	}
	lock, err := cron.NewStoreLock(store.store, "kv_purge", 2*cfg.Storage.SweepInterval)
	if err != nil {
		return nil, err
	}
	return cron.NewService(cron.ServiceParams{
		Name:     "shared",
		Logger:   logg,
		Registry: cron.NewRegistry(purgeJob),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Storage.SweepInterval,
	})
}

func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, err
		}
		return &backend{store: client, closers: []func() error{client.Close}}, nil

	case config.StorageBackendSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		b := &backend{closers: []func() error{client.Close}}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(err, b.Close())
		}
		sqlStore, err := sqlstore.New(client)
		if err != nil {
			return nil, multierr.Append(err, b.Close())
		}
		b.store, b.purger, b.shared = sqlStore, sqlStore, true
		return b, nil

	default:
		if cfg.App.IsProd() {
			logg.Warn(ctx, "memory storage backend in prod; carts are lost on restart")
		}
		mem := memory.New()
		return &backend{store: mem, purger: mem}, nil
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
