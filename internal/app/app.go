package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/auth"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/cache"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/config"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/geocode"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/handlers"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/logging"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/metrics"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/ratelimit"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/repo"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/upload"
	"github.com/vaheaslanyan/hoopscoop-backend/migrations"
)

// Deps are the collaborators the HTTP surface is built on.
type Deps struct {
	Store    repo.Store
	Geocoder geocode.Resolver
	Images   upload.Store
	Tokens   *auth.Tokens
	Limiter  *ratelimit.Limiter
	Log      *logrus.Logger
}

type App struct {
	cfg    config.Config
	db     *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
	stop   chan struct{}
}

// New connects the configured store and cache and builds the router.
func New(cfg config.Config, log *logrus.Logger) (*App, error) {
	a := &App{cfg: cfg, stop: make(chan struct{})}

	var store repo.Store
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		store = repo.NewMemStore()
	default:
		db, err := newPostgres(cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		if err := runMigrations(cfg.Store.DSN); err != nil {
			a.db.Close()
			return nil, err
		}
		store = repo.NewPGStore(db)
	}

	var resolver geocode.Resolver = geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.APIKey, cfg.Geocode.Timeout.Duration())
	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			a.closeStores()
			return nil, err
		}
		a.redis = rdb
		resolver = cache.NewCachedResolver(resolver, cache.NewGeocodeCache(rdb, cfg.Geocode.CacheTTL.Duration()), log)
	} else {
		log.Info("REDIS_ADDR not set, geocode cache disabled")
	}

	images, err := upload.NewDiskStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
	if err != nil {
		a.closeStores()
		return nil, err
	}

	limiter := ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	limiter.StartCleanup(10*time.Minute, a.stop)

	a.router = newRouter(cfg, Deps{
		Store:    store,
		Geocoder: resolver,
		Images:   images,
		Tokens:   auth.NewTokens(cfg.Token.Key, cfg.Token.TTL.Duration()),
		Limiter:  limiter,
		Log:      log,
	})
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Close stops background work and closes the stores. It gives up waiting
// when ctx is done.
func (a *App) Close(ctx context.Context) error {
	close(a.stop)
	done := make(chan struct{})
	go func() {
		a.closeStores()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("close stores: %w", ctx.Err())
	}
}

func (a *App) closeStores() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(dsn string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		logging.Middleware(deps.Log),
		metrics.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders: []string{"Content-Length", "Content-Type"},
			MaxAge:        12 * time.Hour,
		}),
		handlers.ErrorTranslator(deps.Images, deps.Log),
	)

	Setup(r, cfg, deps)
	return r
}
