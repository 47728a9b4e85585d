package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventdesk/internal/shared/config"
	"eventdesk/pkg/cache"
	applog "eventdesk/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown database driver")

// DB holds the preset store and the optional Redis connection. Cache is
// set whenever Redis is.
type DB struct {
	Store *gorm.DB
	Redis *redis.Client
	Cache cache.Service
}

// InitDB opens the preset store, migrates it and connects Redis when
// enabled.
func InitDB(ctx context.Context, cfg *config.Config) (*DB, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s: %w", cfg.Database.Driver, err)
	}
	if err := Migrate(store); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db := &DB{Store: store}
	if !cfg.Redis.Enabled {
		return db, nil
	}

	rdb, err := cache.Connect(ctx, cache.Config{
		Address:  cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	db.Redis = rdb
	db.Cache = cache.NewService(rdb)
	applog.GetDefault().InfoWithContext(ctx, "redis connected", map[string]interface{}{
		"addr": cfg.Redis.Addr,
		"db":   cfg.Redis.DB,
	})
	return db, nil
}

func openStore(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var gormLogger logger.Interface
	if cfg.IsDevelopment() {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	gormConfig := &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt:    true,
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	case DriverPostgres:
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Database.Driver == DriverPostgres {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	applog.GetDefault().InfoWithContext(ctx, "database connected", map[string]interface{}{
		"driver": dialector.Name(),
	})
	return db, nil
}

// Close closes all connections
func (db *DB) Close() error {
	var errs []error

	if db.Store != nil {
		if sqlDB, err := db.Store.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close database: %w", err))
			}
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	return errors.Join(errs...)
}

// HealthCheck pings every open connection
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.Store != nil {
		sqlDB, err := db.Store.DB()
		if err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
	}

	if db.Cache != nil {
		if err := db.Cache.Ping(ctx); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}

	return nil
}

// GetRedisClient returns the Redis client, nil when Redis is disabled.
func (db *DB) GetRedisClient() *redis.Client {
	return db.Redis
}

func (db *DB) GetStore() *gorm.DB {
	return db.Store
}
