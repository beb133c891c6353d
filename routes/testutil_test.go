package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"region-feedback-server/config"
	"region-feedback-server/database"
	"region-feedback-server/models"
	"region-feedback-server/utils"
	"region-feedback-server/websocket"
)

func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{
			Secret:        "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
		},
	}

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	database.DB = db

	hub := websocket.NewHub()
	go hub.Run()

	router := gin.New()
	SetupRoutes(router, hub)
	return router
}

func createTestRegion(t *testing.T, name string) models.Region {
	t.Helper()
	region := models.Region{Name: name}
	if err := database.DB.Create(&region).Error; err != nil {
		t.Fatalf("create region: %v", err)
	}
	return region
}

func createTestAdmin(t *testing.T, email string, role models.AdminRole, regions ...models.Region) (models.Admin, string) {
	t.Helper()

	hash, err := utils.HashPassword("Sup3rSecret!Pass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admin := models.Admin{
		Fullname:       "Test Admin",
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		AllowedRegions: regions,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	tokens, err := utils.GenerateTokenPair(&admin)
	if err != nil {
		t.Fatalf("sign tokens: %v", err)
	}
	return admin, tokens.AccessToken
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decodeBody(t, w)["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %s", w.Body.String())
	}
	return data
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}
