package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // Header parsing

	"course_platform/internal/domain" // Importing domain models
	"course_platform/internal/utils"  // JWT parsing

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CurrentUserKey is the context key under which LoadUserMiddleware stores
// the authenticated *domain.User.
const CurrentUserKey = "currentUser"

// LoadUserMiddleware resolves the token's user id against the database on
// each request, rejecting unknown or disabled accounts. Downstream handlers
// read the loaded user via CurrentUser.
func LoadUserMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account disabled"})
			return
		}
		c.Set(CurrentUserKey, &user)
		c.Next()
	}
}

// OptionalUserMiddleware loads the account when a valid bearer token is
// present and silently continues otherwise. For routes that are public but
// reveal more to authenticated viewers.
func OptionalUserMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		claims, err := utils.ParseJWT(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			c.Next()
			return
		}
		var user domain.User
		if err := db.First(&user, claims.UserID).Error; err == nil && user.IsActive {
			c.Set("userID", user.ID)
			c.Set(CurrentUserKey, &user)
		}
		c.Next()
	}
}

// CurrentUser returns the user loaded by LoadUserMiddleware, or nil if the
// request was not authenticated.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(CurrentUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

// TeacherOnlyMiddleware allows teachers and administrators through.
func TeacherOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsTeacher() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Teacher or admin access required"})
			return
		}
		c.Next()
	}
}

// AdminOnlyMiddleware allows administrators through.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
