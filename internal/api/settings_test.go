package api

import (
	"net/http"
	"testing"

	"course_platform/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingDuplicateKeyConflicts(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin", domain.RoleAdmin)

	w := env.request(t, http.MethodPost, "/api/v1/settings", adminToken, gin.H{
		"key": "site_name", "value": "Course Platform",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/settings", adminToken, gin.H{
		"key": "site_name", "value": "Another",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPublicSettingsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin", domain.RoleAdmin)

	w := env.request(t, http.MethodPost, "/api/v1/settings", adminToken, gin.H{
		"key": "site_name", "value": "Course Platform", "is_public": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.request(t, http.MethodPost, "/api/v1/settings", adminToken, gin.H{
		"key": "smtp_password", "value": "hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The public endpoint needs no token and hides non-public rows, values
	// come back JSON-decoded
	w = env.request(t, http.MethodGet, "/api/v1/settings/public", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode(t, w)["settings"].(map[string]any)
	assert.Equal(t, "Course Platform", settings["site_name"])
	_, leaked := settings["smtp_password"]
	assert.False(t, leaked)

	// The admin listing requires the admin role
	w = env.request(t, http.MethodGet, "/api/v1/settings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.request(t, http.MethodGet, "/api/v1/settings", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateAndDeleteSettingByKey(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin", domain.RoleAdmin)

	w := env.request(t, http.MethodPost, "/api/v1/settings", adminToken, gin.H{
		"key": "max_upload", "value": 50,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPut, "/api/v1/settings/max_upload", adminToken, gin.H{"value": 100})
	require.Equal(t, http.StatusOK, w.Code)
	var s domain.SystemSetting
	require.NoError(t, env.db.Where("`key` = ?", "max_upload").First(&s).Error)
	assert.Equal(t, "100", s.Value)

	w = env.request(t, http.MethodDelete, "/api/v1/settings/max_upload", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.request(t, http.MethodDelete, "/api/v1/settings/max_upload", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
