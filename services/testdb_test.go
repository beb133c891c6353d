package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"region-feedback-server/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.Region{},
		&models.Admin{},
		&models.User{},
		&models.Rating{},
		&models.Feedback{},
		&models.Log{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedRegion(t *testing.T, db *gorm.DB, name string) models.Region {
	t.Helper()
	region := models.Region{Name: name}
	if err := db.Create(&region).Error; err != nil {
		t.Fatalf("seed region: %v", err)
	}
	return region
}

func seedRating(t *testing.T, db *gorm.DB, regionID uint, stars int, at time.Time) models.Rating {
	t.Helper()
	rating := models.Rating{RegionID: regionID, Rating: stars, SubmittedAt: at}
	if err := db.Create(&rating).Error; err != nil {
		t.Fatalf("seed rating: %v", err)
	}
	// AutoCreateTime stamps the insert moment; pin it to the scenario time.
	if err := db.Model(&models.Rating{}).Where("id = ?", rating.ID).
		Update("created_at", at).Error; err != nil {
		t.Fatalf("pin rating time: %v", err)
	}
	rating.CreatedAt = at
	return rating
}
