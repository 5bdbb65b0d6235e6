package api

import (
	"net/http"
	"testing"

	"course_platform/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice", "email": "Alice@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Email is stored lowercased and the default role is STUDENT
	var u domain.User
	require.NoError(t, env.db.Where("username = ?", "alice").First(&u).Error)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, domain.RoleStudent, u.Role)
	assert.Empty(t, decode(t, w)["user"].(map[string]any)["password_hash"])

	// Login by username
	w = env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	// Login by email works too
	w = env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong password is rejected
	w = env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The token authenticates /me
	w = env.request(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "alice", me["username"])
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", domain.RoleStudent)

	w := env.request(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice", "email": "other@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginDisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	u, _ := env.createUser(t, "alice", domain.RoleStudent)
	require.NoError(t, env.db.Model(u).Update("is_active", false).Error)

	w := env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice", "password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", domain.RoleStudent)

	w := env.request(t, http.MethodPost, "/api/v1/auth/change-password", token, gin.H{
		"old_password": "wrong", "new_password": "newpass1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/auth/change-password", token, gin.H{
		"old_password": "password123", "new_password": "newpass1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Only the new password logs in now
	w = env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice", "password": "newpass1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.request(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	admin, adminToken := env.createUser(t, "admin", domain.RoleAdmin)
	target, studentToken := env.createUser(t, "bob", domain.RoleStudent)

	// Students cannot reach admin user routes
	w := env.request(t, http.MethodGet, "/api/v1/auth/users", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/auth/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Promote bob to teacher
	w = env.request(t, http.MethodPut, roleURL(target.ID), adminToken, gin.H{"role": "TEACHER"})
	require.Equal(t, http.StatusOK, w.Code)
	var fresh domain.User
	require.NoError(t, env.db.First(&fresh, target.ID).Error)
	assert.Equal(t, domain.RoleTeacher, fresh.Role)

	// Unknown roles are rejected
	w = env.request(t, http.MethodPut, roleURL(target.ID), adminToken, gin.H{"role": "SUPERUSER"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Admins cannot change their own role or status
	w = env.request(t, http.MethodPut, roleURL(admin.ID), adminToken, gin.H{"role": "STUDENT"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.request(t, http.MethodPut, statusURL(admin.ID), adminToken, gin.H{"is_active": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Deactivate bob; his token stops working on user-loading routes
	w = env.request(t, http.MethodPut, statusURL(target.ID), adminToken, gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = env.request(t, http.MethodGet, "/api/v1/auth/me", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
