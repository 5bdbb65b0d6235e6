package domain

// Role is the closed set of user roles. Every role check in the codebase
// compares against these constants, never against raw strings.
type Role string

const (
	RoleStudent Role = "STUDENT" // Default role for new accounts
	RoleTeacher Role = "TEACHER" // May own courses and live sessions
	RoleAdmin   Role = "ADMIN"   // Full access
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User Model
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`                    // Primary key
	Username     string `gorm:"size:50;unique;not null" json:"username"` // Unique username
	Email        string `gorm:"size:100;unique;not null" json:"email"`   // Unique email
	PasswordHash string `gorm:"size:255;not null" json:"-"`              // bcrypt hash, never serialized
	Role         Role   `gorm:"size:20;default:STUDENT;index" json:"role"`
	Avatar       string `gorm:"size:255" json:"avatar"`
	FullName     string `gorm:"size:100" json:"full_name"`
	Phone        string `gorm:"size:20" json:"phone"`
	IsActive     bool   `gorm:"default:true" json:"is_active"` // Disabled users cannot log in
	Timestamps
}

// IsTeacher reports whether the user may manage catalog/live content at all.
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher || u.Role == RoleAdmin
}

// IsAdmin reports whether the user has the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManage reports whether the user may edit a resource owned by ownerID.
// Owners and admins may; everyone else may not.
func (u *User) CanManage(ownerID uint) bool {
	return u.ID == ownerID || u.Role == RoleAdmin
}
