package database

import (
	"errors"
	"fmt"
	"log/slog" // use slog for structured logging

	"shelfhub/internal/config"
	"shelfhub/internal/httpapi/models"
	"shelfhub/internal/middleware/auth"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the Postgres connection, migrates the schema and
// seeds the records the application cannot run without.
func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Verify the connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db, logger); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seed(db, cfg, logger); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	logger.Info("Connected to the database successfully")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func migrate(db *gorm.DB, logger *slog.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Book{},
		&models.BookReservation{},
		&models.Resource{},
		&models.ResourceReservation{},
		&models.BorrowingRules{},
	)
	if err != nil {
		return err
	}

	logger.Info("Database migrations applied successfully")
	return nil
}

// seed creates the primordial admin account and the default borrowing
// rules row when they are missing. Both are create-if-absent: existing
// records are never overwritten.
func seed(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	var admin models.User
	err := db.Where("username = ?", models.PrimordialAdminUsername).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hashed, hashErr := auth.HashPassword(cfg.AdminPassword)
		if hashErr != nil {
			return hashErr
		}
		admin = models.User{
			Username: models.PrimordialAdminUsername,
			Password: hashed,
			Name:     "Administrator",
			Role:     models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		logger.Info("Seeded primordial admin account", "username", admin.Username)
	} else if err != nil {
		return err
	}

	var rules models.BorrowingRules
	err = db.First(&rules).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rules = models.BorrowingRules{
			MaxDays:  models.DefaultMaxDays,
			MaxBooks: models.DefaultMaxBooks,
		}
		if err := db.Create(&rules).Error; err != nil {
			return err
		}
		logger.Info("Seeded default borrowing rules", "max_days", rules.MaxDays, "max_books", rules.MaxBooks)
	} else if err != nil {
		return err
	}

	return nil
}
