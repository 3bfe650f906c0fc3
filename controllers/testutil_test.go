package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/blogpost/blogapi/config"
	"github.com/blogpost/blogapi/models"
	"github.com/blogpost/blogapi/routes"
	"github.com/blogpost/blogapi/utils"
)

func TestMain(m *testing.M) {
	// Config is process-cached; pin everything before the first Load.
	os.Setenv("JWT_SECRET", "handler-test-secret")
	os.Setenv("GIN_MODE", "test")
	os.Setenv("RATE_LIMIT_PER_MINUTE", "100000")
	os.Setenv("GIN_PATH", filepath.Join(os.TempDir(), "blogapi_test_access.log"))

	if err := utils.InitLogger(config.AppConfig{LogLevel: "error"}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestServer builds the real router over an in-memory sqlite database.
// The single connection keeps the database alive for the test's duration
// and serializes writes the way a MySQL row lock would.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Like{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return routes.SetupRouter(db), db
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
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

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// registerUser registers an account and returns the issued token.
func registerUser(t *testing.T, r *gin.Engine, username, email, password string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/register", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: missing token in %s", username, w.Body.String())
	}
	return token
}

// createPost creates a post as the token's user and returns its id.
func createPost(t *testing.T, r *gin.Engine, token, title, content string) uint {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/posts", map[string]any{
		"title":   title,
		"content": content,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	post, _ := body["post"].(map[string]any)
	id, _ := post["id"].(float64)
	if id == 0 {
		t.Fatalf("create post: missing id in %s", w.Body.String())
	}
	return uint(id)
}
