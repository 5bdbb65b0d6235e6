package api

import (
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"time"     // Enrollment timestamps

	"course_platform/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// LearningRecordRequest represents a watch-progress report
type LearningRecordRequest struct {
	CourseID     uint `json:"course_id" binding:"required"`  // Course being watched
	SectionID    uint `json:"section_id" binding:"required"` // Section being watched
	Progress     int  `json:"progress" binding:"gte=0"`      // Percentage watched (0-100)
	LastPosition int  `json:"last_position" binding:"gte=0"` // Resume position in seconds
	LearningTime int  `json:"learning_time" binding:"gte=0"` // Seconds watched this report
}

// UpsertLearningRecordHandler records watch progress, one row per
// (user, section). Progress only moves forward; 100 marks completion.
func UpsertLearningRecordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req LearningRecordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Progress > 100 {
			req.Progress = 100
		}
		var section domain.Section
		if err := db.First(&section, req.SectionID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
			return
		}
		var chapter domain.Chapter
		if err := db.First(&chapter, section.ChapterID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
			return
		}
		// The owning course comes from the section's chapter; a mismatched
		// pair would corrupt per-course progress aggregates
		if chapter.CourseID != req.CourseID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Section does not belong to course"})
			return
		}
		var record domain.LearningRecord
		err := db.Transaction(func(tx *gorm.DB) error {
			err := tx.Where("user_id = ? AND section_id = ?", userID, req.SectionID).
				First(&record).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				record = domain.LearningRecord{
					UserID:       userID,
					CourseID:     req.CourseID,
					SectionID:    req.SectionID,
					Progress:     req.Progress,
					LastPosition: req.LastPosition,
					IsCompleted:  req.Progress >= 100,
					LearningTime: req.LearningTime,
				}
				return tx.Create(&record).Error
			}
			if err != nil {
				return err
			}
			// Progress never regresses; position and time always update
			if req.Progress > record.Progress {
				record.Progress = req.Progress
			}
			record.LastPosition = req.LastPosition
			record.LearningTime += req.LearningTime
			if record.Progress >= 100 {
				record.IsCompleted = true
			}
			return tx.Save(&record).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save learning record"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"record": record})
	}
}

// ListLearningRecordsHandler returns the user's records for one course
func ListLearningRecordsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		courseID, ok := idParam(c, "course_id")
		if !ok {
			return
		}
		var records []domain.LearningRecord
		if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).
			Find(&records).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch learning records"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": records})
	}
}

// myCourseItem is one enrolled course with aggregated watch progress.
type myCourseItem struct {
	Course            domain.Course `json:"course"`
	EnrolledAt        time.Time     `json:"enrolled_at"`
	TotalSections     int64         `json:"total_sections"`
	CompletedSections int64         `json:"completed_sections"`
	Progress          int           `json:"progress"` // Completed / total, percent
}

// MyCoursesHandler returns the user's enrolled courses with per-course
// completion progress.
func MyCoursesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var enrollments []domain.CourseEnrollment
		if err := db.Where("user_id = ?", userID).
			Order("enrollment_date desc").
			Find(&enrollments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch enrollments"})
			return
		}
		items := make([]myCourseItem, 0, len(enrollments))
		for _, e := range enrollments {
			var course domain.Course
			if err := db.First(&course, e.CourseID).Error; err != nil {
				continue // Course deleted under the enrollment
			}
			var total int64
			db.Model(&domain.Section{}).
				Joins("JOIN chapters ON chapters.id = sections.chapter_id").
				Where("chapters.course_id = ?", e.CourseID).
				Count(&total)
			var completed int64
			db.Model(&domain.LearningRecord{}).
				Where("user_id = ? AND course_id = ? AND is_completed = ?", userID, e.CourseID, true).
				Count(&completed)
			progress := 0
			if total > 0 {
				progress = int(completed * 100 / total)
			}
			items = append(items, myCourseItem{
				Course:            course,
				EnrolledAt:        e.EnrollmentDate,
				TotalSections:     total,
				CompletedSections: completed,
				Progress:          progress,
			})
		}
		c.JSON(http.StatusOK, gin.H{"courses": items})
	}
}

// LearningStatsHandler returns the user's aggregate learning numbers
func LearningStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var courseCount int64
		db.Model(&domain.CourseEnrollment{}).Where("user_id = ?", userID).Count(&courseCount)
		var completedSections int64
		db.Model(&domain.LearningRecord{}).
			Where("user_id = ? AND is_completed = ?", userID, true).
			Count(&completedSections)
		var totalTime struct{ Total int64 }
		db.Model(&domain.LearningRecord{}).
			Select("COALESCE(SUM(learning_time), 0) AS total").
			Where("user_id = ?", userID).
			Scan(&totalTime)
		var collections int64
		db.Model(&domain.Collection{}).Where("user_id = ?", userID).Count(&collections)
		c.JSON(http.StatusOK, gin.H{
			"course_count":        courseCount,
			"completed_sections":  completedSections,
			"total_learning_time": totalTime.Total,
			"collection_count":    collections,
		})
	}
}

// CollectCourseHandler bookmarks a course for the user
func CollectCourseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		courseID, ok := idParam(c, "course_id")
		if !ok {
			return
		}
		var course domain.Course
		if err := db.First(&course, courseID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		var existing int64
		db.Model(&domain.Collection{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Count(&existing)
		if existing > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Already collected"})
			return
		}
		collection := domain.Collection{UserID: userID, CourseID: courseID}
		if err := db.Create(&collection).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect course"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"collection": collection})
	}
}

// UncollectCourseHandler removes a bookmark
func UncollectCourseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		courseID, ok := idParam(c, "course_id")
		if !ok {
			return
		}
		res := db.Where("user_id = ? AND course_id = ?", userID, courseID).
			Delete(&domain.Collection{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove collection"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Collection removed"})
	}
}

// IsCollectedHandler reports whether the user bookmarked the course
func IsCollectedHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		courseID, ok := idParam(c, "course_id")
		if !ok {
			return
		}
		var count int64
		if err := db.Model(&domain.Collection{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check collection"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"is_collected": count > 0})
	}
}

// ListCollectionsHandler returns the user's bookmarked courses, newest first
func ListCollectionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		page, pageSize := paginationParams(c)
		var total int64
		db.Model(&domain.Collection{}).Where("user_id = ?", userID).Count(&total)
		var collections []domain.Collection
		if err := db.Where("user_id = ?", userID).
			Preload("Course").
			Order("created_at desc, id desc").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&collections).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collections"})
			return
		}
		// Attach the bookmarked course to each entry
		type item struct {
			domain.Collection
			Course *domain.Course `json:"course"`
		}
		items := make([]item, 0, len(collections))
		for _, col := range collections {
			course := col.Course
			items = append(items, item{Collection: col, Course: course})
		}
		c.JSON(http.StatusOK, gin.H{
			"collections": items,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		})
	}
}
