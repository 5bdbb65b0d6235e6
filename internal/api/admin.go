package api

import (
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes

	"course_platform/internal/domain"     // Importing domain models
	"course_platform/internal/enrollment" // Enrollment operations
	"course_platform/internal/middleware" // Current user loading

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// AddStudentRequest represents an admin enrollment grant
type AddStudentRequest struct {
	UserID   uint `json:"user_id" binding:"required"`   // Student to enroll
	CourseID uint `json:"course_id" binding:"required"` // Target course
}

// NotificationRequest represents an admin-sent notification
type NotificationRequest struct {
	UserID  uint   `json:"user_id" binding:"required"` // Recipient
	Type    string `json:"type" binding:"required"`    // SYSTEM / COURSE / LIVE / COMMENT
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content"`
	LinkURL string `json:"link_url"`
}

// BroadcastRequest represents an admin notification to every active user
type BroadcastRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content"`
	LinkURL string `json:"link_url"`
}

// AdminAddStudentHandler grants a student access to a course without payment
// and notifies them. Published status is not required for admin grants.
func AdminAddStudentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentUser(c)
		var req AddStudentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var student domain.User
		if err := db.First(&student, req.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		var course domain.Course
		if err := db.First(&course, req.CourseID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		var granted *domain.CourseEnrollment
		err := db.Transaction(func(tx *gorm.DB) error {
			e, err := enrollment.Enroll(tx, student.ID, &course)
			if err != nil {
				return err
			}
			// Tell the student they were enrolled
			n := domain.Notification{
				UserID:   student.ID,
				Type:     domain.NotifyCourse,
				Title:    "You have been enrolled in: " + course.Title,
				Content:  course.Description,
				SenderID: &admin.ID,
				CourseID: &course.ID,
			}
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
			granted = e
			return nil
		})
		if errors.Is(err, enrollment.ErrAlreadyEnrolled) {
			c.JSON(http.StatusConflict, gin.H{"error": "Already enrolled"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add student"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"admin_id":  admin.ID,
			"user_id":   student.ID,
			"course_id": course.ID,
		}).Info("Student added to course")
		c.JSON(http.StatusCreated, gin.H{"message": "Student added", "enrollment": granted})
	}
}

// AdminListEnrollmentsHandler returns one page of a course's enrollments
func AdminListEnrollmentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, ok := idParam(c, "course_id")
		if !ok {
			return
		}
		var course domain.Course
		if err := db.First(&course, courseID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		page, pageSize := paginationParams(c)
		var total int64
		db.Model(&domain.CourseEnrollment{}).Where("course_id = ?", courseID).Count(&total)
		var enrollments []domain.CourseEnrollment
		if err := db.Where("course_id = ?", courseID).
			Preload("User").
			Order("enrollment_date desc, id desc").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&enrollments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments"})
			return
		}
		// Attach the enrolled user to each row
		type item struct {
			domain.CourseEnrollment
			User *domain.User `json:"user"`
		}
		items := make([]item, 0, len(enrollments))
		for _, e := range enrollments {
			items = append(items, item{CourseEnrollment: e, User: e.User})
		}
		c.JSON(http.StatusOK, gin.H{
			"enrollments": items,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		})
	}
}

// AdminRemoveStudentHandler revokes an enrollment by id
func AdminRemoveStudentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		enrollmentID, ok := idParam(c, "enrollment_id")
		if !ok {
			return
		}
		err := enrollment.Remove(db, enrollmentID)
		if errors.Is(err, enrollment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove student"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Student removed"})
	}
}

// AdminSendNotificationHandler sends one notification to one user
func AdminSendNotificationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentUser(c)
		var req NotificationRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !domain.ValidNotificationType(req.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification type"})
			return
		}
		var recipient domain.User
		if err := db.First(&recipient, req.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		n := domain.Notification{
			UserID:   recipient.ID,
			Type:     domain.NotificationType(req.Type),
			Title:    req.Title,
			Content:  req.Content,
			LinkURL:  req.LinkURL,
			SenderID: &admin.ID,
		}
		if err := db.Create(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"notification": n})
	}
}

// AdminBroadcastHandler sends a SYSTEM notification to every active user
func AdminBroadcastHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentUser(c)
		var req BroadcastRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var userIDs []uint
		if err := db.Model(&domain.User{}).
			Where("is_active = ?", true).
			Pluck("id", &userIDs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
			return
		}
		notifications := make([]domain.Notification, 0, len(userIDs))
		for _, uid := range userIDs {
			notifications = append(notifications, domain.Notification{
				UserID:   uid,
				Type:     domain.NotifySystem,
				Title:    req.Title,
				Content:  req.Content,
				LinkURL:  req.LinkURL,
				SenderID: &admin.ID,
			})
		}
		if len(notifications) > 0 {
			if err := db.CreateInBatches(notifications, 200).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to broadcast"})
				return
			}
		}
		logrus.WithFields(logrus.Fields{
			"admin_id":   admin.ID,
			"recipients": len(notifications),
		}).Info("Broadcast notification sent")
		c.JSON(http.StatusCreated, gin.H{"message": "Broadcast sent", "recipients": len(notifications)})
	}
}

// AdminStatsHandler returns platform-wide counters for the dashboard
func AdminStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users, courses, enrollments, lives int64
		db.Model(&domain.User{}).Count(&users)
		db.Model(&domain.Course{}).Count(&courses)
		db.Model(&domain.CourseEnrollment{}).Count(&enrollments)
		db.Model(&domain.Live{}).Count(&lives)
		var revenue struct{ Total float64 }
		// Purchases are stored as negative amounts; revenue is their absolute sum
		db.Model(&domain.Transaction{}).
			Select("COALESCE(-SUM(amount), 0) AS total").
			Where("type = ?", domain.TxPurchase).
			Scan(&revenue)
		c.JSON(http.StatusOK, gin.H{
			"user_count":       users,
			"course_count":     courses,
			"enrollment_count": enrollments,
			"live_count":       lives,
			"total_revenue":    revenue.Total,
		})
	}
}
