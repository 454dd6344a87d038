package config

import (
	"fmt"

	"github.com/kendall-kelly/restaurant-assistant-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase establishes a connection using the driver selected by DB_DRIVER
func OpenDatabase(cfg *Config, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case DriverMySQL:
		dialector = mysql.Open(cfg.DatabaseURL)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DBDriver == DriverSQLite {
		if err := PrepareSQLite(db); err != nil {
			return nil, err
		}
	}

	log.WithField("driver", cfg.DBDriver).Info("Database connection established successfully")
	return db, nil
}

// PrepareSQLite pins the pool to one connection and turns on foreign key enforcement.
// SQLite only enforces the pragma per connection, and in-memory databases are per connection too.
func PrepareSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
	}
	return nil
}

// Migrate creates or updates every table the API uses, including the join tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.DietaryRestriction{},
		&models.Customer{},
		&models.Reservation{},
		&models.Message{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
