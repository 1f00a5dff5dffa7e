package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gosocial-app/backend/auth"
	"github.com/gosocial-app/backend/config"
	"github.com/gosocial-app/backend/models"
	"github.com/gosocial-app/backend/routes"
)

// setupTest builds the real router against a fresh in-memory database.
func setupTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}, &models.Like{}))

	cfg := config.AppConfig{
		AppPort:            "8080",
		GinMode:            "test",
		JWTSecret:          "test-secret",
		TokenExpireMinutes: 60,
		AllowedOrigins:     []string{"*"},
		LogLevel:           "error",
	}
	tokens := auth.NewTokenService(cfg.JWTSecret, time.Hour)

	return routes.SetupRouter(cfg, db, tokens, zap.NewNop()), db
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerUser creates an account through the API and returns its view.
func registerUser(t *testing.T, r *gin.Engine, email, username, password string) map[string]interface{} {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/users", gin.H{
		"email":    email,
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeObject(t, w)
}

// loginUser exchanges credentials for a bearer token.
func loginUser(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeObject(t, w)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createPost creates a post through the API and returns its view.
func createPost(t *testing.T, r *gin.Engine, token, content string) map[string]interface{} {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/posts", gin.H{"content": content}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeObject(t, w)
}
