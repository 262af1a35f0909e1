// Package app assembles the process: database, caches, repositories, services
// and the HTTP router, shared by every CLI command.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bizadmin/internal/auth"
	"bizadmin/internal/cache"
	"bizadmin/internal/config"
	"bizadmin/internal/db"
	api "bizadmin/internal/http"
	"bizadmin/internal/http/handlers"
	"bizadmin/internal/jobs"
	"bizadmin/internal/logger"
	"bizadmin/internal/metrics"
	"bizadmin/internal/ratelimit"
	"bizadmin/internal/repositories"
	"bizadmin/internal/services"
	"bizadmin/internal/storage"
	"bizadmin/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Version is stamped at build time with -ldflags "-X bizadmin/internal/app.Version=...".
var Version = "dev"

type App struct {
	Config   *config.Config
	SQL      *sql.DB
	Gorm     *gorm.DB
	Redis    *redis.Client
	Cache    cache.Cache
	Files    storage.Storage
	Metrics  *metrics.Metrics
	Issuer   *auth.Issuer
	Hasher   *auth.PasswordHasher
	Repos    *repositories.Set
	Services *services.Set
	log      *zap.Logger
}

// New connects to the database (and redis when configured) and builds every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, log: logger.Named("app")}

	sqlDB, err := config.ConnectDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	a.SQL = sqlDB

	if a.Gorm, err = db.Open(cfg.Database, sqlDB, logger.Named("gorm")); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Cache.Driver == "redis" {
		if a.Redis, err = cache.NewRedisClient(ctx, cfg.Cache.Redis); err != nil {
			a.Close()
			return nil, err
		}
	}
	if a.Cache, err = cache.New(cfg.Cache, a.Redis); err != nil {
		a.Close()
		return nil, err
	}
	if a.Files, err = storage.New(cfg.Storage); err != nil {
		a.Close()
		return nil, err
	}

	a.Metrics = metrics.New()
	if err := a.Metrics.RegisterDB(sqlDB, cfg.Database.Name); err != nil {
		a.log.Warn("db stats collector not registered", logger.Err(err))
	}

	a.Issuer = auth.NewIssuer(cfg.JWT)
	a.Hasher = auth.NewPasswordHasher(cfg.Auth)
	a.Repos = repositories.NewSet(a.Gorm)
	a.Services = services.NewSet(a.Repos, services.Deps{
		Issuer:       a.Issuer,
		Hasher:       a.Hasher,
		Metrics:      a.Metrics,
		Files:        a.Files,
		MaxLogoBytes: cfg.Storage.MaxUploadBytes,
		RefreshTTL:   cfg.JWT.RefreshTTL,
		DefaultRole:  cfg.Auth.DefaultRole,
	}, services.Options{Cache: a.Cache, CacheTTL: cfg.Cache.TTL})
	return a, nil
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.SQL != nil {
		_ = a.SQL.Close()
	}
}

// authLimiter picks the redis fixed window when redis is available, else in-process buckets.
func (a *App) authLimiter(ctx context.Context) ratelimit.Limiter {
	rl := a.Config.RateLimit
	if a.Redis != nil {
		max := int(rl.RPS * rl.Window.Seconds())
		if max < rl.Burst {
			max = rl.Burst
		}
		return ratelimit.NewRedis(a.Redis, a.Config.Cache.Prefix+":rl", max, rl.Window)
	}
	m := ratelimit.NewMemory(rl.RPS, rl.Burst)
	m.StartCleanup(ctx, 5*time.Minute)
	return m
}

// Router builds the gin engine with every route mounted.
func (a *App) Router(ctx context.Context) (*gin.Engine, error) {
	if a.Config.Server.GinMode != "" {
		gin.SetMode(a.Config.Server.GinMode)
	} else if a.Config.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validation.Register(); err != nil {
		return nil, err
	}
	return api.NewRouter(api.Deps{
		Config:      a.Config,
		Services:    a.Services,
		Issuer:      a.Issuer,
		AuthLimiter: a.authLimiter(ctx),
		Metrics:     a.Metrics,
		System:      handlers.NewSystemHandler(a.Config.App.Name, Version, a.SQL, a.Repos.Users.Count),
	}), nil
}

// Serve runs the HTTP server and, when enabled, the job scheduler until ctx is
// cancelled, then shuts both down within the configured timeout.
func (a *App) Serve(ctx context.Context) error {
	if a.Config.Database.AutoMigrate {
		if err := Migrate(a.Config.Database, func(m *db.Migrator) error { return m.Up() }); err != nil {
			return err
		}
		a.log.Info("migrations applied")
	}

	r, err := a.Router(ctx)
	if err != nil {
		return err
	}
	var sched *jobs.Scheduler
	if a.Config.Jobs.Enabled {
		sched = jobs.NewScheduler(logger.Named("jobs"))
		purge := jobs.TokenPurgeJob(a.Services.Auth, a.Config.Jobs.TokenRetention)
		if err := sched.Add("token-purge", a.Config.Jobs.TokenPurgeSchedule, purge); err != nil {
			return err
		}
	}

	s := a.Config.Server
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           r,
		ReadHeaderTimeout: s.ReadHeaderTimeout,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("http server listening", zap.String("addr", s.Addr), zap.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if sched != nil {
		g.Go(func() error { return sched.Run(gctx) })
	}
	return g.Wait()
}

// PurgeTokens runs one purge pass outside the scheduler.
func (a *App) PurgeTokens(ctx context.Context) (int64, error) {
	return a.Services.Auth.PurgeTokens(ctx, a.Config.Jobs.TokenRetention)
}

// Seed runs the idempotent seeder.
func (a *App) Seed(ctx context.Context, opts services.SeedOptions) (services.SeedReport, error) {
	return services.NewSeeder(a.Repos, a.Hasher).Run(ctx, opts)
}

// Migrate opens a migrator for cfg, runs fn and closes it.
func Migrate(cfg config.DatabaseConfig, fn func(*db.Migrator) error) error {
	m, err := db.NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return fn(m)
}
