package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"region-feedback-server/config"
	"region-feedback-server/logger"
	"region-feedback-server/models"
	"region-feedback-server/utils"
)

// DB is the shared database handle
var DB *gorm.DB

// Initialize connects to the database, runs migrations and seeds the
// bootstrap super-admin.
func Initialize() error {
	db, err := gorm.Open(postgres.Open(config.AppConfig.Database.URL), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db

	if err := Migrate(db); err != nil {
		return err
	}
	if err := SeedSuperAdmin(db); err != nil {
		return err
	}

	logger.Log.Info().Msg("Database initialized")
	return nil
}

// Migrate runs schema migrations for all models
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Region{},
		&models.Admin{},
		&models.User{},
		&models.Rating{},
		&models.Feedback{},
		&models.Log{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedSuperAdmin creates the configured bootstrap super-admin if no account
// with that email exists. Safe to run on every startup.
func SeedSuperAdmin(db *gorm.DB) error {
	cfg := config.AppConfig.Admin

	var existing models.Admin
	err := db.Where("email = ?", cfg.DefaultEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for seed admin: %w", err)
	}

	hash, err := utils.HashPassword(cfg.DefaultPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	admin := models.Admin{
		Fullname:     "Super Admin",
		Email:        cfg.DefaultEmail,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed super admin: %w", err)
	}

	logger.Log.Info().Str("email", admin.Email).Msg("Seeded bootstrap super admin")
	return nil
}
