package api

import (
	"net/http" // HTTP status codes

	"course_platform/internal/domain"     // Importing domain models
	"course_platform/internal/middleware" // Current user loading

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CommentRequest represents a comment create request
type CommentRequest struct {
	CourseID uint   `json:"course_id" binding:"required"` // Commented course
	ParentID *uint  `json:"parent_id"`                    // Parent comment for replies
	Content  string `json:"content" binding:"required"`   // Comment body
	Rating   *int   `json:"rating"`                       // Optional 1-5 course rating
}

// UpdateCommentRequest represents a comment edit
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"` // Replacement body
}

// recomputeCourseRating rebuilds the course's rating average and count from
// the live (non-deleted) rated comments.
func recomputeCourseRating(tx *gorm.DB, courseID uint) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&domain.Comment{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(rating) AS count").
		Where("course_id = ? AND rating IS NOT NULL AND is_deleted = ?", courseID, false).
		Scan(&stats).Error; err != nil {
		return err
	}
	return tx.Model(&domain.Course{}).Where("id = ?", courseID).
		Updates(map[string]any{"rating": stats.Avg, "rating_count": stats.Count}).Error
}

// CreateCommentHandler posts a comment or reply. A rating (1-5) recomputes
// the course's rating aggregate in the same transaction.
func CreateCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req CommentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}
		var course domain.Course
		if err := db.First(&course, req.CourseID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		// Replies must reference an existing comment on the same course
		if req.ParentID != nil {
			var parent domain.Comment
			if err := db.Where("id = ? AND course_id = ?", *req.ParentID, req.CourseID).
				First(&parent).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment not found"})
				return
			}
		}
		comment := domain.Comment{
			UserID:   userID,
			CourseID: req.CourseID,
			ParentID: req.ParentID,
			Content:  req.Content,
			Rating:   req.Rating,
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&comment).Error; err != nil {
				return err
			}
			if comment.Rating != nil {
				return recomputeCourseRating(tx, req.CourseID)
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"comment": comment})
	}
}

// ListCommentsHandler returns one page of a course's live comments, newest
// first. ?parent_id=N lists a reply thread; top-level comments otherwise.
func ListCommentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		courseID, ok := idParam(c, "course_id")
		if !ok {
			return
		}
		page, pageSize := paginationParams(c)
		query := db.Model(&domain.Comment{}).
			Where("course_id = ? AND is_deleted = ?", courseID, false)
		if pid := c.Query("parent_id"); pid != "" {
			query = query.Where("parent_id = ?", pid)
		} else {
			query = query.Where("parent_id IS NULL")
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count comments"})
			return
		}
		var comments []domain.Comment
		if err := query.Order("created_at desc, id desc").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&comments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"comments":    comments,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		})
	}
}

// UpdateCommentHandler edits a comment's body; only the author may
func UpdateCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var comment domain.Comment
		if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&comment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		if comment.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not the comment author"})
			return
		}
		var req UpdateCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := db.Model(&comment).Update("content", req.Content).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
			return
		}
		comment.Content = req.Content
		c.JSON(http.StatusOK, gin.H{"comment": comment})
	}
}

// DeleteCommentHandler soft deletes a comment so reply threads stay intact.
// The author or an admin may delete; a rated comment recomputes the course
// aggregate.
func DeleteCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var comment domain.Comment
		if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&comment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		if !user.CanManage(comment.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not the comment author"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&comment).Update("is_deleted", true).Error; err != nil {
				return err
			}
			if comment.Rating != nil {
				return recomputeCourseRating(tx, comment.CourseID)
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
	}
}

// LikeCommentHandler bumps a comment's like counter
func LikeCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var comment domain.Comment
		if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&comment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		if err := db.Model(&comment).
			Update("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to like comment"})
			return
		}
		comment.LikeCount++
		c.JSON(http.StatusOK, gin.H{"like_count": comment.LikeCount})
	}
}
