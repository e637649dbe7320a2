package database

import (
	"fmt"

	"example.com/agrotrack/services/fleet/config"
	"example.com/agrotrack/services/fleet/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is an interface for database operations
type DB interface {
	DB() (*gorm.DB, error)
	Close() error
}

// GormDatabase implements the DB interface for GORM
type GormDatabase struct {
	db *gorm.DB
}

// Connect establishes a connection to the database
func Connect(cfg config.DatabaseConfig) (DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB instance: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &GormDatabase{db: db}, nil
}

// DB returns the underlying gorm.DB instance
func (d *GormDatabase) DB() (*gorm.DB, error) {
	return d.db, nil
}

// Close closes the database connection
func (d *GormDatabase) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the schema and the work-order sequence.
func Migrate(db DB) error {
	gormDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := models.SetupModels(gormDB); err != nil {
		return fmt.Errorf("failed to migrate table structures: %w", err)
	}

	// The sequence backs work-order identifier allocation and must
	// survive restarts, so it lives outside AutoMigrate.
	if err := gormDB.Exec("CREATE SEQUENCE IF NOT EXISTS work_order_seq START 1").Error; err != nil {
		return fmt.Errorf("failed to create work_order_seq: %w", err)
	}

	return nil
}
