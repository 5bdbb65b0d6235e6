package api

import (
	"net/http" // HTTP status codes

	"course_platform/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CategoryRequest represents a category create/update request
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"` // Category name
	ParentID    *uint  `json:"parent_id"`                       // Optional parent category
	SortOrder   int    `json:"sort_order"`                      // Display order
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"` // Pointer so false binds; nil keeps the default
}

// ListCategoriesHandler returns the active categories ordered by sort_order.
// Pass ?parent_id=N for subcategories; top-level categories otherwise.
func ListCategoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Where("is_active = ?", true)
		if pid := c.Query("parent_id"); pid != "" {
			query = query.Where("parent_id = ?", pid)
		} else {
			query = query.Where("parent_id IS NULL")
		}
		var categories []domain.Category
		if err := query.Order("sort_order asc, id asc").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

// CreateCategoryHandler creates a category (admin only)
func CreateCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// A parent reference must point at an existing category
		if req.ParentID != nil {
			var parent domain.Category
			if err := db.First(&parent, *req.ParentID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category not found"})
				return
			}
		}
		category := domain.Category{
			Name:        req.Name,
			ParentID:    req.ParentID,
			SortOrder:   req.SortOrder,
			Description: req.Description,
			IsActive:    true,
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"category": category})
	}
}

// UpdateCategoryHandler updates a category (admin only)
func UpdateCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var category domain.Category
		if err := db.First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// A category may not become its own parent
		if req.ParentID != nil && *req.ParentID == category.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category cannot be its own parent"})
			return
		}
		category.Name = req.Name
		category.ParentID = req.ParentID
		category.SortOrder = req.SortOrder
		category.Description = req.Description
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}
		if err := db.Save(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category})
	}
}

// DeleteCategoryHandler deletes a category (admin only). Deletion is blocked
// while subcategories or courses still reference it.
func DeleteCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var category domain.Category
		if err := db.First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		var children int64
		db.Model(&domain.Category{}).Where("parent_id = ?", id).Count(&children)
		if children > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category has subcategories"})
			return
		}
		var courses int64
		db.Model(&domain.Course{}).Where("category_id = ?", id).Count(&courses)
		if courses > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category has courses"})
			return
		}
		if err := db.Delete(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
	}
}
