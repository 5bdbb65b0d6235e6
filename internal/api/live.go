package api

import (
	"net/http" // HTTP status codes
	"time"     // Transition timestamps

	"course_platform/internal/domain"     // Importing domain models
	"course_platform/internal/middleware" // Current user loading

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Stream key generation
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// LiveRequest represents a live session create/update request
type LiveRequest struct {
	Title         string     `json:"title" binding:"required,max=200"` // Session title
	Description   string     `json:"description"`
	CourseID      *uint      `json:"course_id"` // Optional linked course
	CoverImage    string     `json:"cover_image"`
	ScheduledTime *time.Time `json:"scheduled_time"` // Planned start
}

// streamURLs derives the publisher and viewer endpoints for a fresh stream
// key. The media server is an external collaborator; these are opaque here.
func streamURLs(key string) (push, pull string) {
	push = "rtmp://live.example.com/live/" + key
	pull = "https://live.example.com/live/" + key + ".flv"
	return push, pull
}

// notifyEnrolled fans one notification out to every user enrolled in the
// course. Best effort; a failed insert is logged and skipped.
func notifyEnrolled(db *gorm.DB, courseID uint, build func(userID uint) domain.Notification) {
	var userIDs []uint
	if err := db.Model(&domain.CourseEnrollment{}).
		Where("course_id = ?", courseID).
		Pluck("user_id", &userIDs).Error; err != nil {
		logrus.Errorf("failed to list enrolled users for course %d: %v", courseID, err)
		return
	}
	for _, uid := range userIDs {
		n := build(uid)
		if err := db.Create(&n).Error; err != nil {
			logrus.Errorf("failed to notify user %d: %v", uid, err)
		}
	}
}

// sanitizeLive blanks the publisher endpoint unless the viewer owns the
// session or is an admin. The pull URL is public.
func sanitizeLive(live *domain.Live, viewer *domain.User) {
	if viewer == nil || !viewer.CanManage(live.TeacherID) {
		live.PushURL = ""
	}
}

// CreateLiveHandler schedules a live session owned by the requesting teacher.
// Linking a course fans a LIVE notification out to its enrolled users.
func CreateLiveHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req LiveRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// A linked course must exist
		if req.CourseID != nil {
			var course domain.Course
			if err := db.First(&course, *req.CourseID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Course not found"})
				return
			}
		}
		push, pull := streamURLs(uuid.NewString())
		live := domain.Live{
			Title:         req.Title,
			Description:   req.Description,
			TeacherID:     user.ID,
			CourseID:      req.CourseID,
			CoverImage:    req.CoverImage,
			Status:        domain.LiveScheduled,
			PushURL:       push,
			PullURL:       pull,
			ScheduledTime: req.ScheduledTime,
		}
		if err := db.Create(&live).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create live session"})
			return
		}
		// Fan out to the linked course's students
		if live.CourseID != nil {
			liveID := live.ID
			senderID := user.ID
			notifyEnrolled(db, *live.CourseID, func(uid uint) domain.Notification {
				return domain.Notification{
					UserID:   uid,
					Type:     domain.NotifyLive,
					Title:    "Upcoming live session: " + live.Title,
					Content:  live.Description,
					SenderID: &senderID,
					CourseID: live.CourseID,
					LiveID:   &liveID,
				}
			})
		}
		logrus.WithFields(logrus.Fields{
			"live_id":    live.ID,
			"teacher_id": user.ID,
		}).Info("Live session created")
		c.JSON(http.StatusCreated, gin.H{"live": live})
	}
}

// UpdateLiveHandler updates session metadata; only the owner or an admin may
func UpdateLiveHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var live domain.Live
		if err := db.First(&live, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Live session not found"})
			return
		}
		if user == nil || !user.CanManage(live.TeacherID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not the session owner"})
			return
		}
		var req LiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.CourseID != nil {
			var course domain.Course
			if err := db.First(&course, *req.CourseID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Course not found"})
				return
			}
		}
		live.Title = req.Title
		live.Description = req.Description
		live.CourseID = req.CourseID
		live.CoverImage = req.CoverImage
		live.ScheduledTime = req.ScheduledTime
		if err := db.Save(&live).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update live session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"live": live})
	}
}

// StartLiveHandler transitions SCHEDULED -> LIVING and records the start
// time. Transitions are strictly forward: a LIVING session cannot start
// again and an ENDED session can never restart.
func StartLiveHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var live domain.Live
		if err := db.First(&live, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Live session not found"})
			return
		}
		if user == nil || !user.CanManage(live.TeacherID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not the session owner"})
			return
		}
		switch live.Status {
		case domain.LiveLiving:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Live session already living"})
			return
		case domain.LiveEnded:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Live session already ended"})
			return
		}
		now := time.Now()
		if err := db.Model(&live).Updates(map[string]any{
			"status":     domain.LiveLiving,
			"start_time": now,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start live session"})
			return
		}
		live.Status = domain.LiveLiving
		live.StartTime = &now
		logrus.WithField("live_id", live.ID).Info("Live session started")
		c.JSON(http.StatusOK, gin.H{"live": live})
	}
}

// EndLiveHandler transitions to ENDED and records the end time. Ending twice
// fails; ENDED is terminal.
func EndLiveHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var live domain.Live
		if err := db.First(&live, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Live session not found"})
			return
		}
		if user == nil || !user.CanManage(live.TeacherID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not the session owner"})
			return
		}
		if live.Status == domain.LiveEnded {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Live session already ended"})
			return
		}
		now := time.Now()
		if err := db.Model(&live).Updates(map[string]any{
			"status":   domain.LiveEnded,
			"end_time": now,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end live session"})
			return
		}
		live.Status = domain.LiveEnded
		live.EndTime = &now
		logrus.WithField("live_id", live.ID).Info("Live session ended")
		c.JSON(http.StatusOK, gin.H{"live": live})
	}
}

// ListLivesHandler returns one page of live sessions, optionally filtered by
// status, newest first. Publisher endpoints are blanked for non-owners.
func ListLivesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := paginationParams(c)
		query := db.Model(&domain.Live{})
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count live sessions"})
			return
		}
		var lives []domain.Live
		if err := query.Order("created_at desc, id desc").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&lives).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch live sessions"})
			return
		}
		viewer := middleware.CurrentUser(c)
		for i := range lives {
			sanitizeLive(&lives[i], viewer)
		}
		c.JSON(http.StatusOK, gin.H{
			"lives":       lives,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		})
	}
}

// MyLivesHandler returns the requesting teacher's own sessions, push URLs
// included.
func MyLivesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var lives []domain.Live
		if err := db.Where("teacher_id = ?", user.ID).
			Order("created_at desc, id desc").
			Find(&lives).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch live sessions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lives": lives})
	}
}

// GetLiveHandler returns one session; the push URL is visible only to the
// owner or an admin.
func GetLiveHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var live domain.Live
		if err := db.First(&live, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Live session not found"})
			return
		}
		sanitizeLive(&live, middleware.CurrentUser(c))
		c.JSON(http.StatusOK, gin.H{"live": live})
	}
}

// DeleteLiveHandler deletes a session; blocked while it is LIVING
func DeleteLiveHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var live domain.Live
		if err := db.First(&live, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Live session not found"})
			return
		}
		if user == nil || !user.CanManage(live.TeacherID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not the session owner"})
			return
		}
		if live.Status == domain.LiveLiving {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete a live session that is living"})
			return
		}
		if err := db.Delete(&live).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete live session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Live session deleted"})
	}
}
