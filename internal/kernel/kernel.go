// Package kernel is the composition root: it builds every long-lived
// component of the storefront once, in dependency order, and tears them
// down again in reverse.
//
//	k, err := kernel.New(ctx, kernel.Options{})
//	if err != nil {
//	    return err
//	}
//	defer k.Close()
//	home := viewmodels.NewHomeViewModel(k.Deps())
package kernel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/viewmodels"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/pkg/crypt"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/mainloop"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/prefs"
	"github.com/shashiranjanraj/storefront/pkg/session"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Options overrides what config would otherwise decide. Zero values fall
// back to config.
type Options struct {
	// DB is an already opened store. Close still closes it.
	DB *gorm.DB
	// SchemaVersion of the tables; a recorded version that differs
	// recreates the store.
	SchemaVersion int
	// Prefs replaces the store picked by config.SessionDriver.
	Prefs prefs.Store
	// Disk replaces the disk picked by config.StorageDefault.
	Disk           storage.Disk
	Workers        int
	Queue          int
	SessionTimeout time.Duration
	Pricing        viewmodels.PricingPolicy
	Hasher         crypt.Hasher
	Now            func() time.Time
}

// Kernel holds the shared components. Fields are read-only after New.
type Kernel struct {
	DB        *gorm.DB
	Bus       *event.Bus
	Loop      *mainloop.Loop
	Pool      *workerpool.Pool
	Hub       *live.Hub
	DAO       *dao.Set
	Repos     *repositories.Set
	Session   *session.Manager
	Disk      storage.Disk
	Migration migration.Result

	opts   Options
	redis  *redis.Client
	cancel context.CancelFunc
	log    *slog.Logger
}

// New builds the kernel. On error everything built so far is released.
func New(ctx context.Context, opts Options) (_ *Kernel, err error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("kernel: config: %w", err)
	}
	opts = withDefaults(opts)

	loopCtx, cancel := context.WithCancel(context.Background())
	k := &Kernel{opts: opts, cancel: cancel, log: logger.With("component", "kernel")}
	defer func() {
		if err != nil {
			_ = k.Close()
		}
	}()

	k.DB = opts.DB
	if k.DB == nil {
		if k.DB, err = database.Connect(); err != nil {
			return nil, fmt.Errorf("kernel: %w", err)
		}
	}

	if k.Migration, err = migrations.Migrate(k.DB, opts.SchemaVersion); err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}

	k.Bus = event.New()
	if err = database.Watch(k.DB, k.Bus); err != nil {
		return nil, fmt.Errorf("kernel: %w", err)
	}

	k.Loop = mainloop.Start(loopCtx)
	k.Pool = workerpool.NewWithQueue(opts.Workers, opts.Queue)
	k.Hub = live.NewHub(k.Bus, k.Loop)

	store := opts.Prefs
	if store == nil {
		if store, err = k.openPrefs(ctx); err != nil {
			return nil, err
		}
	}
	k.Session = session.New(ctx, store, session.Options{
		Timeout: opts.SessionTimeout,
		Now:     opts.Now,
		Poster:  k.Loop,
	})

	k.Disk = opts.Disk
	if k.Disk == nil {
		if k.Disk, err = storage.Open(storage.FromConfig()); err != nil {
			return nil, fmt.Errorf("kernel: %w", err)
		}
	}

	k.DAO = dao.New(k.DB)
	k.Repos = repositories.New(k.DAO, k.Pool, k.Hub)

	k.log.Info("kernel ready",
		"schema", opts.SchemaVersion,
		"recreated", k.Migration.Recreated,
		"workers", opts.Workers,
		"session", config.SessionDriver())
	return k, nil
}

func withDefaults(o Options) Options {
	if o.SchemaVersion <= 0 {
		o.SchemaVersion = config.SchemaVersion()
	}
	if o.Workers <= 0 {
		o.Workers = config.ExecutorWorkers()
	}
	if o.Queue <= 0 {
		o.Queue = config.ExecutorQueue()
	}
	if o.SessionTimeout <= 0 {
		o.SessionTimeout = config.SessionTimeout()
	}
	if o.Pricing == "" {
		o.Pricing = viewmodels.ParsePricingPolicy(config.CheckoutPricePolicy())
	}
	if o.Hasher == nil {
		o.Hasher = crypt.Default
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

func (k *Kernel) openPrefs(ctx context.Context) (prefs.Store, error) {
	switch config.SessionDriver() {
	case "memory":
		return prefs.NewMemory(), nil
	case "redis":
		rdb, err := prefs.Connect(ctx, config.RedisAddr(), config.RedisPassword())
		if err != nil {
			return nil, fmt.Errorf("kernel: session store: %w", err)
		}
		k.redis = rdb
		return prefs.NewRedis(rdb, session.Namespace), nil
	default:
		return prefs.NewDB(k.DB, session.Namespace), nil
	}
}

// Deps is what every view-model is built from.
func (k *Kernel) Deps() viewmodels.Deps {
	return viewmodels.Deps{
		Repos:   k.Repos,
		Session: k.Session,
		Hasher:  k.opts.Hasher,
		Disk:    k.Disk,
		Poster:  k.Loop,
		Pricing: k.opts.Pricing,
		Now:     k.opts.Now,
	}
}

// Ping checks that the store answers.
func (k *Kernel) Ping(ctx context.Context) error {
	sqlDB, err := k.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close rejects new writes, lets queued ones finish, stops the main loop
// and closes the store. It is safe to call more than once.
func (k *Kernel) Close() error {
	if k.Repos != nil {
		k.Repos.Cleanup()
	}
	if k.Pool != nil {
		k.Pool.Shutdown()
	}
	if k.Loop != nil {
		k.Loop.Stop()
	}
	if k.cancel != nil {
		k.cancel()
	}

	var errs []error
	if k.redis != nil {
		errs = append(errs, k.redis.Close())
		k.redis = nil
	}
	if k.DB != nil {
		errs = append(errs, database.Close(k.DB))
		k.DB = nil
	}
	return errors.Join(errs...)
}
