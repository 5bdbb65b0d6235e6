package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"course_platform/internal/domain"     // Importing domain models
	"course_platform/internal/middleware" // Current user loading
	"course_platform/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"` // Unique username
	Email    string `json:"email" binding:"required,email"`           // Unique email
	Password string `json:"password" binding:"required,min=6"`        // Plain password, hashed before storage
	FullName string `json:"full_name"`                                // Optional display name
	Role     string `json:"role"`                                     // Optional role, defaults to STUDENT
}

// LoginRequest represents a login request; the account field accepts either
// the username or the email address.
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username or email
	Password string `json:"password" binding:"required"` // Plain password
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`       // Current password
	NewPassword string `json:"new_password" binding:"required,min=6"` // Replacement password
}

// AuthResponse carries the token plus the authenticated user
type AuthResponse struct {
	Token string       `json:"token"` // JWT token
	User  *domain.User `json:"user"`  // Authenticated user
}

// RegisterHandler creates a new user account
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Default new accounts to STUDENT; anything else must be a known role
		role := domain.RoleStudent
		if req.Role != "" {
			if !domain.ValidRole(req.Role) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
				return
			}
			role = domain.Role(req.Role)
		}
		// Reject duplicate username or email up front for a clean error message
		var count int64
		db.Model(&domain.User{}).
			Where("username = ? OR email = ?", req.Username, strings.ToLower(req.Email)).
			Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already registered"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Username:     req.Username,
			Email:        strings.ToLower(req.Email),
			PasswordHash: string(hash),
			FullName:     req.FullName,
			Role:         role,
			IsActive:     true,
		}
		// Attempt to create the user; the unique indexes back up the check above
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already registered"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"username": user.Username,
			"role":     user.Role,
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user by username or email
		if err := db.Where("username = ? OR email = ?", req.Username, strings.ToLower(req.Username)).
			First(&user).Error; err != nil {
			// Same message for unknown account and wrong password
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Disabled accounts authenticate but may not log in
		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account disabled"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Username, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: &user})
	}
}

// ChangePasswordHandler replaces the authenticated user's password
func ChangePasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ChangePasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The old password must verify before anything changes
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Old password is incorrect"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if err := db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
	}
}

// MeHandler returns the authenticated user's profile
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// ListUsersHandler returns one page of user accounts (admin only)
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := paginationParams(c)
		query := db.Model(&domain.User{})
		// Optional role filter
		if role := c.Query("role"); role != "" {
			if !domain.ValidRole(role) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
				return
			}
			query = query.Where("role = ?", role)
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
			return
		}
		var users []domain.User
		if err := query.Order("id asc").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"users":       users,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		})
	}
}

// UpdateRoleRequest represents an admin role change
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"` // New role, must be a known role
}

// UpdateUserRoleHandler changes another user's role (admin only)
func UpdateUserRoleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentUser(c)
		targetID, ok := idParam(c, "id")
		if !ok {
			return
		}
		// Admins may not change their own role
		if admin != nil && admin.ID == targetID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own role"})
			return
		}
		var req UpdateRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil || !domain.ValidRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		var user domain.User
		if err := db.First(&user, targetID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err := db.Model(&user).Update("role", domain.Role(req.Role)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"admin_id": admin.ID,
			"user_id":  user.ID,
			"role":     req.Role,
		}).Info("User role changed")
		c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user": user})
	}
}

// UpdateStatusRequest represents an admin activate/deactivate change
type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"` // Pointer so false binds
}

// UpdateUserStatusHandler enables or disables another user's account (admin only)
func UpdateUserStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := middleware.CurrentUser(c)
		targetID, ok := idParam(c, "id")
		if !ok {
			return
		}
		// Admins may not disable themselves
		if admin != nil && admin.ID == targetID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot change your own status"})
			return
		}
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User
		if err := db.First(&user, targetID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err := db.Model(&user).Update("is_active", *req.IsActive).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"admin_id":  admin.ID,
			"user_id":   user.ID,
			"is_active": *req.IsActive,
		}).Info("User status changed")
		c.JSON(http.StatusOK, gin.H{"message": "Status updated", "user": user})
	}
}
