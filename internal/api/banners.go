package api

import (
	"net/http" // HTTP status codes

	"course_platform/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// BannerRequest represents a banner create/update request
type BannerRequest struct {
	Title     string `json:"title" binding:"required,max=200"`     // Banner title
	ImageURL  string `json:"image_url" binding:"required,max=255"` // Carousel image
	LinkURL   string `json:"link_url"`                             // Optional click target
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"` // Pointer so false binds
}

// ListBannersHandler returns the active banners by sort_order; public
func ListBannersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banners []domain.Banner
		if err := db.Where("is_active = ?", true).
			Order("sort_order asc, id asc").
			Find(&banners).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch banners"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"banners": banners})
	}
}

// CreateBannerHandler creates a banner (admin only)
func CreateBannerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BannerRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		banner := domain.Banner{
			Title:     req.Title,
			ImageURL:  req.ImageURL,
			LinkURL:   req.LinkURL,
			SortOrder: req.SortOrder,
			IsActive:  true,
		}
		if req.IsActive != nil {
			banner.IsActive = *req.IsActive
		}
		if err := db.Create(&banner).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create banner"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"banner": banner})
	}
}

// UpdateBannerHandler updates a banner (admin only)
func UpdateBannerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var banner domain.Banner
		if err := db.First(&banner, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
			return
		}
		var req BannerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		banner.Title = req.Title
		banner.ImageURL = req.ImageURL
		banner.LinkURL = req.LinkURL
		banner.SortOrder = req.SortOrder
		if req.IsActive != nil {
			banner.IsActive = *req.IsActive
		}
		if err := db.Save(&banner).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update banner"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"banner": banner})
	}
}

// DeleteBannerHandler deletes a banner (admin only)
func DeleteBannerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		res := db.Delete(&domain.Banner{}, id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete banner"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Banner deleted"})
	}
}
