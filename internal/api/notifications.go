package api

import (
	"net/http" // HTTP status codes
	"time"     // Read timestamps

	"course_platform/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ListNotificationsHandler returns one page of the requesting user's
// notifications, newest first. ?is_read=true|false filters by read state.
func ListNotificationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		page, pageSize := paginationParams(c)
		query := db.Model(&domain.Notification{}).Where("user_id = ?", userID)
		// Optional read-state filter
		if isRead := c.Query("is_read"); isRead != "" {
			query = query.Where("is_read = ?", isRead == "true")
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
			return
		}
		var notifications []domain.Notification
		if err := query.Order("created_at desc, id desc").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&notifications).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"notifications": notifications,
			"page":          page,
			"page_size":     pageSize,
			"total":         total,
			"total_pages":   totalPages(total, pageSize),
		})
	}
}

// UnreadCountHandler returns the requesting user's unread notification count
func UnreadCountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var count int64
		if err := db.Model(&domain.Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"unread_count": count})
	}
}

// ownedNotification loads a notification scoped to the requesting user.
// Someone else's notification id looks exactly like a missing one.
func ownedNotification(c *gin.Context, db *gorm.DB, userID, id uint) (*domain.Notification, bool) {
	var n domain.Notification
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return nil, false
	}
	return &n, true
}

// MarkReadHandler marks one notification read. Idempotent: read_at is set by
// the first call and repeat calls succeed without touching it.
func MarkReadHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		n, ok := ownedNotification(c, db, userID, id)
		if !ok {
			return
		}
		if !n.IsRead {
			now := time.Now()
			if err := db.Model(n).Updates(map[string]any{
				"is_read": true,
				"read_at": now,
			}).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification"})
				return
			}
			n.IsRead = true
			n.ReadAt = &now
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read", "notification": n})
	}
}

// MarkAllReadHandler marks every unread notification of the user read
func MarkAllReadHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		now := time.Now()
		res := db.Model(&domain.Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Updates(map[string]any{"is_read": true, "read_at": now})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": res.RowsAffected})
	}
}

// DeleteNotificationHandler deletes one of the user's notifications
func DeleteNotificationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		n, ok := ownedNotification(c, db, userID, id)
		if !ok {
			return
		}
		if err := db.Delete(n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
	}
}
