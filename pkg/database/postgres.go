package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Payphone-Digital/chirpy/config"
	"github.com/Payphone-Digital/chirpy/internal/constants"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewPostgresDB opens the PostgreSQL database described by cfg and
// configures its connection pool.
func NewPostgresDB(cfg *config.Config) (*gorm.DB, error) {
	return Open(postgres.Open(cfg.DatabaseConnectionString()), cfg)
}

// Open opens dialector with the gorm settings shared by every environment.
// Unique-key violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger.Default.LogMode(logMode(cfg.App.Environment)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func logMode(environment string) gormLogger.LogLevel {
	switch environment {
	case constants.EnvProduction:
		return gormLogger.Silent
	case constants.EnvStaging:
		return gormLogger.Warn
	default:
		return gormLogger.Info
	}
}

// Ping checks the database connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get database instance for closing: %w", err)
		}

		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}
	return nil
}
