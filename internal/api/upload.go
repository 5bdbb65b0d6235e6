package api

import (
	"net/http"      // HTTP status codes
	"os"            // Directory creation
	"path/filepath" // Path joining
	"strings"       // Extension handling

	"course_platform/internal/config" // Upload settings

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Stored filename generation
	"github.com/sirupsen/logrus" // Logging library
)

// allowedExt reports whether ext (without dot, lowercase) is in the allow list.
func allowedExt(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// uploadHandler stores one multipart file under UPLOAD_DIR/<kind>/ with a
// uuid filename and returns the stored relative path. The original filename
// is never used on disk.
func uploadHandler(cfg *config.Config, kind string, allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
			return
		}
		if file.Size > cfg.MaxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
			return
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
		if !allowedExt(ext, allowed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
			return
		}
		dir := filepath.Join(cfg.UploadDir, kind)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
			return
		}
		stored := uuid.NewString() + "." + ext
		dst := filepath.Join(dir, stored)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			logrus.Errorf("failed to save upload: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"kind": kind,
			"file": stored,
			"size": file.Size,
		}).Info("File uploaded")
		c.JSON(http.StatusOK, gin.H{
			"url":      "/uploads/" + kind + "/" + stored,
			"filename": stored,
			"size":     file.Size,
		})
	}
}

// UploadImageHandler accepts image uploads
func UploadImageHandler(cfg *config.Config) gin.HandlerFunc {
	return uploadHandler(cfg, "image", cfg.ImageTypes)
}

// UploadVideoHandler accepts video uploads
func UploadVideoHandler(cfg *config.Config) gin.HandlerFunc {
	return uploadHandler(cfg, "video", cfg.VideoTypes)
}
