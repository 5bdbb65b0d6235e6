package domain

// CourseStatus enumerates the lifecycle of a course.
type CourseStatus string

const (
	CourseDraft     CourseStatus = "DRAFT"
	CoursePublished CourseStatus = "PUBLISHED"
	CourseOffline   CourseStatus = "OFFLINE"
)

// CourseLevel enumerates course difficulty.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "BEGINNER"
	LevelIntermediate CourseLevel = "INTERMEDIATE"
	LevelAdvanced     CourseLevel = "ADVANCED"
)

// Course Model. StudentCount is a denormalized counter owned exclusively by
// the enrollment package; no other code path may touch it.
type Course struct {
	ID            uint         `gorm:"primaryKey" json:"id"`           // Primary key
	Title         string       `gorm:"size:200;not null" json:"title"` // Course title
	Description   string       `gorm:"type:text" json:"description"`
	CoverImage    string       `gorm:"size:255" json:"cover_image"`
	CategoryID    uint         `gorm:"not null;index" json:"category_id"` // Category reference
	TeacherID     uint         `gorm:"not null;index" json:"teacher_id"`  // Owning teacher
	Price         float64      `gorm:"type:decimal(10,2);default:0" json:"price"`
	OriginalPrice float64      `gorm:"type:decimal(10,2);default:0" json:"original_price"`
	Status        CourseStatus `gorm:"size:20;default:DRAFT;index" json:"status"`
	Level         CourseLevel  `gorm:"size:20;default:BEGINNER" json:"level"`
	Tags          string       `gorm:"size:255" json:"tags"`
	StudentCount  int          `gorm:"default:0" json:"student_count"` // Cached enrollment count
	Rating        float64      `gorm:"type:decimal(3,2);default:0" json:"rating"`
	RatingCount   int          `gorm:"default:0" json:"rating_count"`
	ViewCount     int          `gorm:"default:0" json:"view_count"`
	Timestamps

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
	Teacher  *User     `gorm:"foreignKey:TeacherID;constraint:OnDelete:RESTRICT" json:"-"`
	Chapters []Chapter `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
