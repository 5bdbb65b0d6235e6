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

func TestWalletRechargeAndPurchaseFlow(t *testing.T) {
	env := newTestEnv(t)
	teacher, _ := env.createUser(t, "teacher", domain.RoleTeacher)
	course := env.createCourse(t, teacher, 40, domain.CoursePublished)
	_, token := env.createUser(t, "alice", domain.RoleStudent)

	// First wallet read creates it with a zero balance
	w := env.request(t, http.MethodGet, "/api/v1/wallet/my", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	wal := decode(t, w)["wallet"].(map[string]any)
	assert.EqualValues(t, 0, wal["balance"])

	// Purchase with an empty wallet fails without side effects
	w = env.request(t, http.MethodPost, "/api/v1/wallet/purchase-course", token, gin.H{"course_id": course.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/wallet/recharge", token, gin.H{"amount": 100})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/api/v1/wallet/purchase-course", token, gin.H{"course_id": course.ID})
	require.Equal(t, http.StatusOK, w.Code)
	txn := decode(t, w)["transaction"].(map[string]any)
	assert.EqualValues(t, -40, txn["amount"])
	assert.EqualValues(t, 60, txn["balance_after"])

	// Buying again conflicts
	w = env.request(t, http.MethodPost, "/api/v1/wallet/purchase-course", token, gin.H{"course_id": course.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown course is a 404
	w = env.request(t, http.MethodPost, "/api/v1/wallet/purchase-course", token, gin.H{"course_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// History lists the purchase first, then the recharge
	w = env.request(t, http.MethodGet, "/api/v1/wallet/transactions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2, body["total"])
	items := body["transactions"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, string(domain.TxPurchase), items[0].(map[string]any)["type"])
	assert.Equal(t, string(domain.TxRecharge), items[1].(map[string]any)["type"])
}

func TestRechargeRejectsBadAmounts(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "alice", domain.RoleStudent)

	for _, amount := range []float64{0, -5} {
		w := env.request(t, http.MethodPost, "/api/v1/wallet/recharge", token, gin.H{"amount": amount})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestAdminAddBalance(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "admin", domain.RoleAdmin)
	student, studentToken := env.createUser(t, "bob", domain.RoleStudent)
	path := fmt.Sprintf("/api/v1/wallet/admin/add-balance/%d", student.ID)

	// Students cannot adjust balances
	w := env.request(t, http.MethodPost, path, studentToken, gin.H{"amount": 10})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodPost, path, adminToken, gin.H{"amount": 25, "description": "compensation"})
	require.Equal(t, http.StatusOK, w.Code)
	txn := decode(t, w)["transaction"].(map[string]any)
	assert.Equal(t, string(domain.TxAdminAdd), txn["type"])
	assert.EqualValues(t, 25, txn["balance_after"])

	// A debit past zero is rejected
	w = env.request(t, http.MethodPost, path, adminToken, gin.H{"amount": -100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
