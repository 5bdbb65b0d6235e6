package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"course_platform/internal/config"
	"course_platform/internal/db"
	"course_platform/internal/domain"
	"course_platform/internal/utils"
	"course_platform/internal/wallet"
	"course_platform/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

// testEnv bundles everything a handler test needs.
type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	hub    *ws.Hub
}

// newTestEnv builds a full router over an in-memory database. Redis is nil,
// which disables the wallet cache.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(db.Models()...))

	cfg := &config.Config{
		JWTSecret: testSecret,
		UploadDir: t.TempDir(),
	}
	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	router := NewRouter(gdb, nil, cfg, wallet.NewLedger(gdb), hub)
	return &testEnv{db: gdb, router: router, hub: hub}
}

// createUser inserts an account with password "password123" and returns it
// with a valid bearer token.
func (env *testEnv) createUser(t *testing.T, username string, role domain.Role) (*domain.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, env.db.Create(&u).Error)
	token, err := utils.GenerateJWT(u.ID, u.Username, testSecret)
	require.NoError(t, err)
	return &u, token
}

// createCourse inserts a category and a course owned by teacher.
func (env *testEnv) createCourse(t *testing.T, teacher *domain.User, price float64, status domain.CourseStatus) *domain.Course {
	t.Helper()
	cat := domain.Category{Name: "cat-" + t.Name(), IsActive: true}
	require.NoError(t, env.db.Create(&cat).Error)
	course := domain.Course{
		Title:      "Test course",
		CategoryID: cat.ID,
		TeacherID:  teacher.ID,
		Price:      price,
		Status:     status,
	}
	require.NoError(t, env.db.Create(&course).Error)
	return &course
}

// request performs one JSON request against the router.
func (env *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// roleURL and statusURL build the admin user management paths.
func roleURL(id uint) string   { return fmt.Sprintf("/api/v1/auth/users/%d/role", id) }
func statusURL(id uint) string { return fmt.Sprintf("/api/v1/auth/users/%d/status", id) }

// decode parses a JSON response body into a map.
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
