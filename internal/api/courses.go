package api

import (
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes

	"course_platform/internal/domain"     // Importing domain models
	"course_platform/internal/enrollment" // Enrollment operations
	"course_platform/internal/middleware" // Current user loading

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CourseRequest represents a course create/update request
type CourseRequest struct {
	Title         string  `json:"title" binding:"required,max=200"` // Course title
	Description   string  `json:"description"`
	CoverImage    string  `json:"cover_image"`
	CategoryID    uint    `json:"category_id" binding:"required"` // Must reference an existing category
	Price         float64 `json:"price" binding:"gte=0"`
	OriginalPrice float64 `json:"original_price" binding:"gte=0"`
	Status        string  `json:"status"` // DRAFT / PUBLISHED / OFFLINE
	Level         string  `json:"level"`  // BEGINNER / INTERMEDIATE / ADVANCED
	Tags          string  `json:"tags"`
}

// courseListItem is one row of the course list with joined display names.
type courseListItem struct {
	domain.Course
	TeacherName  string `json:"teacher_name"`
	CategoryName string `json:"category_name"`
	ChapterCount int    `json:"chapter_count"`
}

func validCourseStatus(s string) bool {
	switch domain.CourseStatus(s) {
	case domain.CourseDraft, domain.CoursePublished, domain.CourseOffline:
		return true
	}
	return false
}

func validCourseLevel(s string) bool {
	switch domain.CourseLevel(s) {
	case domain.LevelBeginner, domain.LevelIntermediate, domain.LevelAdvanced:
		return true
	}
	return false
}

// CreateCourseHandler creates a course owned by the requesting teacher
func CreateCourseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CourseRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Category must exist before a course can reference it
		var category domain.Category
		if err := db.First(&category, req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		course := domain.Course{
			Title:         req.Title,
			Description:   req.Description,
			CoverImage:    req.CoverImage,
			CategoryID:    req.CategoryID,
			TeacherID:     user.ID,
			Price:         req.Price,
			OriginalPrice: req.OriginalPrice,
			Status:        domain.CourseDraft,
			Level:         domain.LevelBeginner,
			Tags:          req.Tags,
		}
		if req.Status != "" {
			if !validCourseStatus(req.Status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
				return
			}
			course.Status = domain.CourseStatus(req.Status)
		}
		if req.Level != "" {
			if !validCourseLevel(req.Level) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level"})
				return
			}
			course.Level = domain.CourseLevel(req.Level)
		}
		if err := db.Create(&course).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"course": course})
	}
}

// ListCoursesHandler returns one page of courses, newest first, with teacher
// and category names joined in. Status defaults to PUBLISHED when the filter
// is unset so the public catalog never shows drafts.
func ListCoursesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := paginationParams(c)
		query := db.Model(&domain.Course{})
		// Status filter, defaulting to PUBLISHED
		status := c.Query("status")
		if status == "" {
			status = string(domain.CoursePublished)
		}
		if !validCourseStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		query = query.Where("courses.status = ?", status)
		// Optional category filter
		if categoryID := c.Query("category_id"); categoryID != "" {
			query = query.Where("courses.category_id = ?", categoryID)
		}
		// Optional teacher filter
		if teacherID := c.Query("teacher_id"); teacherID != "" {
			query = query.Where("courses.teacher_id = ?", teacherID)
		}
		// Keyword search over title and description
		if keyword := c.Query("keyword"); keyword != "" {
			like := "%" + keyword + "%"
			query = query.Where("courses.title LIKE ? OR courses.description LIKE ?", like, like)
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count courses"})
			return
		}
		var items []courseListItem
		err := query.
			Select("courses.*, users.username AS teacher_name, categories.name AS category_name, " +
				"(SELECT COUNT(*) FROM chapters WHERE chapters.course_id = courses.id) AS chapter_count").
			Joins("LEFT JOIN users ON users.id = courses.teacher_id").
			Joins("LEFT JOIN categories ON categories.id = courses.category_id").
			Order("courses.created_at desc, courses.id desc").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Scan(&items).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch courses"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"courses":     items,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		})
	}
}

// GetCourseHandler returns a single course with its chapters and sections,
// bumping the view counter as a side effect.
func GetCourseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var course domain.Course
		if err := db.Preload("Chapters", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order asc, id asc")
		}).Preload("Chapters.Sections", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order asc, id asc")
		}).First(&course, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		// Every detail view bumps the counter; no uniqueness tracking
		db.Model(&domain.Course{}).Where("id = ?", id).
			Update("view_count", gorm.Expr("view_count + 1"))
		course.ViewCount++
		var teacher domain.User
		db.Select("id, username, full_name, avatar").First(&teacher, course.TeacherID)
		c.JSON(http.StatusOK, gin.H{
			"course":   course,
			"chapters": course.Chapters,
			"teacher":  teacher,
		})
	}
}

// UpdateCourseHandler updates a course; only the owning teacher or an admin may
func UpdateCourseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var course domain.Course
		if err := db.First(&course, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		if user == nil || !user.CanManage(course.TeacherID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not the course owner"})
			return
		}
		var req CourseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.CategoryID != course.CategoryID {
			var category domain.Category
			if err := db.First(&category, req.CategoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
				return
			}
		}
		course.Title = req.Title
		course.Description = req.Description
		course.CoverImage = req.CoverImage
		course.CategoryID = req.CategoryID
		course.Price = req.Price
		course.OriginalPrice = req.OriginalPrice
		course.Tags = req.Tags
		if req.Status != "" {
			if !validCourseStatus(req.Status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
				return
			}
			course.Status = domain.CourseStatus(req.Status)
		}
		if req.Level != "" {
			if !validCourseLevel(req.Level) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level"})
				return
			}
			course.Level = domain.CourseLevel(req.Level)
		}
		if err := db.Save(&course).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update course"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"course": course})
	}
}

// DeleteCourseHandler deletes a course; only the owning teacher or an admin may
func DeleteCourseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var course domain.Course
		if err := db.First(&course, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		if user == nil || !user.CanManage(course.TeacherID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not the course owner"})
			return
		}
		if err := db.Delete(&course).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete course"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
	}
}

// EnrollCourseHandler enrolls the requesting user into a free course
func EnrollCourseHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		courseID, ok := idParam(c, "id")
		if !ok {
			return
		}
		e, err := enrollment.SelfEnroll(db, userID, courseID)
		switch {
		case errors.Is(err, enrollment.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		case errors.Is(err, enrollment.ErrCourseNotPublished):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Course is not published"})
		case errors.Is(err, enrollment.ErrAlreadyEnrolled):
			c.JSON(http.StatusConflict, gin.H{"error": "Already enrolled"})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll"})
		default:
			c.JSON(http.StatusCreated, gin.H{"message": "Enrolled successfully", "enrollment": e})
		}
	}
}

// IsEnrolledHandler reports whether the requesting user is enrolled. Pure
// read, no side effects.
func IsEnrolledHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		courseID, ok := idParam(c, "id")
		if !ok {
			return
		}
		enrolled, err := enrollment.IsEnrolled(db, userID, courseID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check enrollment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"is_enrolled": enrolled})
	}
}
