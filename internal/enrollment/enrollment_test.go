package enrollment

import (
	"testing"

	"course_platform/internal/db"
	"course_platform/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(db.Models()...))
	return gdb
}

func seed(t *testing.T, gdb *gorm.DB, status domain.CourseStatus) (*domain.User, *domain.Course) {
	t.Helper()
	student := domain.User{Username: "student", Email: "student@example.com", PasswordHash: "x", Role: domain.RoleStudent, IsActive: true}
	require.NoError(t, gdb.Create(&student).Error)
	teacher := domain.User{Username: "teacher", Email: "teacher@example.com", PasswordHash: "x", Role: domain.RoleTeacher, IsActive: true}
	require.NoError(t, gdb.Create(&teacher).Error)
	cat := domain.Category{Name: "programming", IsActive: true}
	require.NoError(t, gdb.Create(&cat).Error)
	course := domain.Course{Title: "Go basics", CategoryID: cat.ID, TeacherID: teacher.ID, Status: status}
	require.NoError(t, gdb.Create(&course).Error)
	return &student, &course
}

func TestSelfEnrollBumpsCounter(t *testing.T) {
	gdb := newTestDB(t)
	student, course := seed(t, gdb, domain.CoursePublished)

	e, err := SelfEnroll(gdb, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, student.ID, e.UserID)
	assert.Equal(t, course.ID, e.CourseID)
	assert.True(t, e.IsActive)

	var fresh domain.Course
	require.NoError(t, gdb.First(&fresh, course.ID).Error)
	assert.Equal(t, 1, fresh.StudentCount)
}

func TestSelfEnrollRequiresPublishedCourse(t *testing.T) {
	gdb := newTestDB(t)
	student, course := seed(t, gdb, domain.CourseDraft)

	_, err := SelfEnroll(gdb, student.ID, course.ID)
	assert.ErrorIs(t, err, ErrCourseNotPublished)

	// Nothing was written
	enrolled, err := IsEnrolled(gdb, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)
}

func TestSelfEnrollUnknownCourse(t *testing.T) {
	gdb := newTestDB(t)
	student, _ := seed(t, gdb, domain.CoursePublished)

	_, err := SelfEnroll(gdb, student.ID, 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestSelfEnrollTwiceConflicts(t *testing.T) {
	gdb := newTestDB(t)
	student, course := seed(t, gdb, domain.CoursePublished)

	_, err := SelfEnroll(gdb, student.ID, course.ID)
	require.NoError(t, err)
	_, err = SelfEnroll(gdb, student.ID, course.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	// The counter only moved once
	var fresh domain.Course
	require.NoError(t, gdb.First(&fresh, course.ID).Error)
	assert.Equal(t, 1, fresh.StudentCount)
}

func TestRemoveDecrementsCounter(t *testing.T) {
	gdb := newTestDB(t)
	student, course := seed(t, gdb, domain.CoursePublished)

	e, err := SelfEnroll(gdb, student.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, Remove(gdb, e.ID))

	enrolled, err := IsEnrolled(gdb, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	var fresh domain.Course
	require.NoError(t, gdb.First(&fresh, course.ID).Error)
	assert.Equal(t, 0, fresh.StudentCount)
}

func TestRemoveUnknownEnrollment(t *testing.T) {
	gdb := newTestDB(t)
	seed(t, gdb, domain.CoursePublished)

	err := Remove(gdb, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveNeverGoesNegative(t *testing.T) {
	gdb := newTestDB(t)
	student, course := seed(t, gdb, domain.CoursePublished)

	// Counter drifted to zero out of band; removal must not push it below
	e, err := SelfEnroll(gdb, student.ID, course.ID)
	require.NoError(t, err)
	require.NoError(t, gdb.Model(&domain.Course{}).Where("id = ?", course.ID).
		Update("student_count", 0).Error)

	require.NoError(t, Remove(gdb, e.ID))

	var fresh domain.Course
	require.NoError(t, gdb.First(&fresh, course.ID).Error)
	assert.Equal(t, 0, fresh.StudentCount)
}
