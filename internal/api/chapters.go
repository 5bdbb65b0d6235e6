package api

import (
	"net/http" // HTTP status codes

	"course_platform/internal/domain"     // Importing domain models
	"course_platform/internal/middleware" // Current user loading

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// ChapterRequest represents a chapter create/update request
type ChapterRequest struct {
	CourseID    uint   `json:"course_id" binding:"required"`     // Owning course
	Title       string `json:"title" binding:"required,max=200"` // Chapter title
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// SectionRequest represents a section create/update request
type SectionRequest struct {
	ChapterID     uint   `json:"chapter_id" binding:"required"`    // Owning chapter
	Title         string `json:"title" binding:"required,max=200"` // Section title
	VideoURL      string `json:"video_url"`
	VideoDuration int    `json:"video_duration"`
	VideoSize     int64  `json:"video_size"`
	VideoFormat   string `json:"video_format"`
	IsFree        *bool  `json:"is_free"` // Pointer so false binds
	SortOrder     int    `json:"sort_order"`
}

// courseForChapter resolves the course owning a chapter id; writes the error
// response itself on failure.
func courseForChapter(c *gin.Context, db *gorm.DB, chapterID uint) (*domain.Course, *domain.Chapter, bool) {
	var chapter domain.Chapter
	if err := db.First(&chapter, chapterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return nil, nil, false
	}
	var course domain.Course
	if err := db.First(&course, chapter.CourseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return nil, nil, false
	}
	return &course, &chapter, true
}

// requireCourseOwner checks that the requesting user owns the course (or is
// an admin); writes the error response itself on failure.
func requireCourseOwner(c *gin.Context, course *domain.Course) bool {
	user := middleware.CurrentUser(c)
	if user == nil || !user.CanManage(course.TeacherID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not the course owner"})
		return false
	}
	return true
}

// ListChaptersHandler returns a course's chapters with nested sections,
// both ordered by sort_order.
func ListChaptersHandler(db *gorm.DB) gin.HandlerFunc {
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
		var chapters []domain.Chapter
		if err := db.Where("course_id = ?", courseID).
			Preload("Sections", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("sort_order asc, id asc")
			}).
			Order("sort_order asc, id asc").
			Find(&chapters).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chapters"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"chapters": chapters})
	}
}

// CreateChapterHandler adds a chapter to a course the user owns
func CreateChapterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChapterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var course domain.Course
		if err := db.First(&course, req.CourseID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		if !requireCourseOwner(c, &course) {
			return
		}
		chapter := domain.Chapter{
			CourseID:    req.CourseID,
			Title:       req.Title,
			Description: req.Description,
			SortOrder:   req.SortOrder,
		}
		if err := db.Create(&chapter).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chapter"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"chapter": chapter})
	}
}

// UpdateChapterHandler updates a chapter on a course the user owns
func UpdateChapterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		course, chapter, ok := courseForChapter(c, db, id)
		if !ok {
			return
		}
		if !requireCourseOwner(c, course) {
			return
		}
		var req ChapterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Chapters stay on their course; course_id in the body is ignored here
		chapter.Title = req.Title
		chapter.Description = req.Description
		chapter.SortOrder = req.SortOrder
		if err := db.Save(chapter).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update chapter"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"chapter": chapter})
	}
}

// DeleteChapterHandler deletes a chapter (and, via FK cascade, its sections)
func DeleteChapterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		course, chapter, ok := courseForChapter(c, db, id)
		if !ok {
			return
		}
		if !requireCourseOwner(c, course) {
			return
		}
		if err := db.Select("Sections").Delete(chapter).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete chapter"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Chapter deleted"})
	}
}

// CreateSectionHandler adds a section to a chapter of a course the user owns
func CreateSectionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SectionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		course, _, ok := courseForChapter(c, db, req.ChapterID)
		if !ok {
			return
		}
		if !requireCourseOwner(c, course) {
			return
		}
		section := domain.Section{
			ChapterID:     req.ChapterID,
			Title:         req.Title,
			VideoURL:      req.VideoURL,
			VideoDuration: req.VideoDuration,
			VideoSize:     req.VideoSize,
			VideoFormat:   req.VideoFormat,
			SortOrder:     req.SortOrder,
		}
		if req.IsFree != nil {
			section.IsFree = *req.IsFree
		}
		if err := db.Create(&section).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create section"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"section": section})
	}
}

// UpdateSectionHandler updates a section of a course the user owns
func UpdateSectionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var section domain.Section
		if err := db.First(&section, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
			return
		}
		course, _, ok := courseForChapter(c, db, section.ChapterID)
		if !ok {
			return
		}
		if !requireCourseOwner(c, course) {
			return
		}
		var req SectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		section.Title = req.Title
		section.VideoURL = req.VideoURL
		section.VideoDuration = req.VideoDuration
		section.VideoSize = req.VideoSize
		section.VideoFormat = req.VideoFormat
		section.SortOrder = req.SortOrder
		if req.IsFree != nil {
			section.IsFree = *req.IsFree
		}
		if err := db.Save(&section).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update section"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"section": section})
	}
}

// DeleteSectionHandler deletes a section of a course the user owns
func DeleteSectionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var section domain.Section
		if err := db.First(&section, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Section not found"})
			return
		}
		course, _, ok := courseForChapter(c, db, section.ChapterID)
		if !ok {
			return
		}
		if !requireCourseOwner(c, course) {
			return
		}
		if err := db.Delete(&section).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete section"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Section deleted"})
	}
}
