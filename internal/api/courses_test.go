package api

import (
	"fmt"
	"net/http"
	"testing"

	"course_platform/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseListDefaultsToPublished(t *testing.T) {
	env := newTestEnv(t)
	teacher, _ := env.createUser(t, "teacher", domain.RoleTeacher)
	env.createCourse(t, teacher, 0, domain.CoursePublished)
	env.createCourse(t, teacher, 0, domain.CourseDraft)

	w := env.request(t, http.MethodGet, "/api/v1/courses", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["total"])

	// An explicit status filter widens the view
	w = env.request(t, http.MethodGet, "/api/v1/courses?status=DRAFT", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])
}

func TestCourseDetailBumpsViewCount(t *testing.T) {
	env := newTestEnv(t)
	teacher, _ := env.createUser(t, "teacher", domain.RoleTeacher)
	course := env.createCourse(t, teacher, 0, domain.CoursePublished)
	path := fmt.Sprintf("/api/v1/courses/%d", course.ID)

	for i := 0; i < 2; i++ {
		w := env.request(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	var fresh domain.Course
	require.NoError(t, env.db.First(&fresh, course.ID).Error)
	assert.Equal(t, 2, fresh.ViewCount)
}

func TestEnrollEndpoint(t *testing.T) {
	env := newTestEnv(t)
	teacher, _ := env.createUser(t, "teacher", domain.RoleTeacher)
	published := env.createCourse(t, teacher, 0, domain.CoursePublished)
	draft := env.createCourse(t, teacher, 0, domain.CourseDraft)
	_, token := env.createUser(t, "alice", domain.RoleStudent)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/enroll", published.ID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/enroll", published.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/enroll", draft.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.request(t, http.MethodPost, "/api/v1/courses/9999/enroll", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// is_enrolled is a pure read
	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/is_enrolled", published.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["is_enrolled"])
	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/courses/%d/is_enrolled", draft.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["is_enrolled"])
}

func TestCourseOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.createUser(t, "owner", domain.RoleTeacher)
	course := env.createCourse(t, owner, 0, domain.CoursePublished)
	_, rivalToken := env.createUser(t, "rival", domain.RoleTeacher)
	_, studentToken := env.createUser(t, "student", domain.RoleStudent)

	update := gin.H{"title": "Hijacked", "category_id": course.CategoryID}
	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/v1/courses/%d", course.ID), rivalToken, update)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Students cannot create courses at all
	w = env.request(t, http.MethodPost, "/api/v1/courses", studentToken, gin.H{
		"title": "Nope", "category_id": course.CategoryID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminAddAndRemoveStudent(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin", domain.RoleAdmin)
	teacher, _ := env.createUser(t, "teacher", domain.RoleTeacher)
	course := env.createCourse(t, teacher, 0, domain.CourseDraft) // Admin grants ignore status
	student, _ := env.createUser(t, "bob", domain.RoleStudent)

	w := env.request(t, http.MethodPost, "/api/v1/admin/add-student", adminToken, gin.H{
		"user_id": student.ID, "course_id": course.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	enrollmentID := uint(decode(t, w)["enrollment"].(map[string]any)["id"].(float64))

	// The grant notified the student
	var n domain.Notification
	require.NoError(t, env.db.Where("user_id = ? AND type = ?", student.ID, domain.NotifyCourse).First(&n).Error)

	// Granting twice conflicts
	w = env.request(t, http.MethodPost, "/api/v1/admin/add-student", adminToken, gin.H{
		"user_id": student.ID, "course_id": course.ID,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Removal clears the row and the counter
	w = env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/remove-student/%d", enrollmentID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fresh domain.Course
	require.NoError(t, env.db.First(&fresh, course.ID).Error)
	assert.Equal(t, 0, fresh.StudentCount)
}
