package api

import (
	"encoding/json" // JSON-encoded setting values
	"errors"        // Sentinel error matching
	"net/http"      // HTTP status codes

	"course_platform/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// SettingRequest represents a setting create/update request. Value is an
// arbitrary JSON value; it is stored encoded.
type SettingRequest struct {
	Key         string          `json:"key" binding:"required,max=100"` // Setting key
	Value       json.RawMessage `json:"value" binding:"required"`       // Arbitrary JSON value
	Description string          `json:"description"`
	IsPublic    *bool           `json:"is_public"` // Pointer so false binds
}

// decodeSettingValue turns a stored value back into a JSON value; a raw
// string that fails to parse is returned as-is.
func decodeSettingValue(stored string) any {
	var v any
	if err := json.Unmarshal([]byte(stored), &v); err != nil {
		return stored
	}
	return v
}

// PublicSettingsHandler returns the is_public settings as a decoded key/value
// map; no authentication required.
func PublicSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings []domain.SystemSetting
		if err := db.Where("is_public = ?", true).Find(&settings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
			return
		}
		values := make(map[string]any, len(settings))
		for _, s := range settings {
			values[s.Key] = decodeSettingValue(s.Value)
		}
		c.JSON(http.StatusOK, gin.H{"settings": values})
	}
}

// ListSettingsHandler returns every setting row (admin only)
func ListSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings []domain.SystemSetting
		if err := db.Order("key asc").Find(&settings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": settings})
	}
}

// CreateSettingHandler creates a setting (admin only); duplicate keys conflict
func CreateSettingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SettingRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var existing int64
		db.Model(&domain.SystemSetting{}).Where("`key` = ?", req.Key).Count(&existing)
		if existing > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Setting key already exists"})
			return
		}
		setting := domain.SystemSetting{
			Key:         req.Key,
			Value:       string(req.Value),
			Description: req.Description,
		}
		if req.IsPublic != nil {
			setting.IsPublic = *req.IsPublic
		}
		if err := db.Create(&setting).Error; err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Setting key already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"setting": setting})
	}
}

// UpdateSettingHandler updates a setting by key (admin only)
func UpdateSettingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		var setting domain.SystemSetting
		if err := db.Where("`key` = ?", key).First(&setting).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
			return
		}
		var req struct {
			Value       json.RawMessage `json:"value" binding:"required"`
			Description *string         `json:"description"`
			IsPublic    *bool           `json:"is_public"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		setting.Value = string(req.Value)
		if req.Description != nil {
			setting.Description = *req.Description
		}
		if req.IsPublic != nil {
			setting.IsPublic = *req.IsPublic
		}
		if err := db.Save(&setting).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update setting"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"setting": setting})
	}
}

// BatchUpdateSettingsHandler upserts a map of settings in one call (admin
// only). Existing keys are updated; unknown keys are created as non-public.
func BatchUpdateSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req map[string]json.RawMessage
		if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			for key, value := range req {
				var setting domain.SystemSetting
				err := tx.Where("`key` = ?", key).First(&setting).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					setting = domain.SystemSetting{Key: key, Value: string(value)}
					if err := tx.Create(&setting).Error; err != nil {
						return err
					}
					continue
				}
				if err != nil {
					return err
				}
				if err := tx.Model(&setting).Update("value", string(value)).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Settings updated", "updated": len(req)})
	}
}

// DeleteSettingHandler deletes a setting by key (admin only)
func DeleteSettingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Param("key")
		res := db.Where("`key` = ?", key).Delete(&domain.SystemSetting{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete setting"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Setting not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Setting deleted"})
	}
}
