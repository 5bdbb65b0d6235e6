package wallet

import (
	"sync"
	"testing"

	"course_platform/internal/db"
	"course_platform/internal/domain"
	"course_platform/internal/enrollment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema. A
// single connection keeps the in-memory store alive and serializes access.
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

func seedUser(t *testing.T, gdb *gorm.DB, username string) *domain.User {
	t.Helper()
	u := domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleStudent,
		IsActive:     true,
	}
	require.NoError(t, gdb.Create(&u).Error)
	return &u
}

func seedCourse(t *testing.T, gdb *gorm.DB, price float64) *domain.Course {
	t.Helper()
	teacher := seedUser(t, gdb, "teacher-"+t.Name())
	cat := domain.Category{Name: "cat-" + t.Name(), IsActive: true}
	require.NoError(t, gdb.Create(&cat).Error)
	course := domain.Course{
		Title:      "Go from scratch",
		CategoryID: cat.ID,
		TeacherID:  teacher.ID,
		Price:      price,
		Status:     domain.CoursePublished,
	}
	require.NoError(t, gdb.Create(&course).Error)
	return &course
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")

	w1, err := ledger.GetOrCreate(user.ID)
	require.NoError(t, err)
	w2, err := ledger.GetOrCreate(user.ID)
	require.NoError(t, err)

	assert.Equal(t, w1.ID, w2.ID)
	assert.Equal(t, 0.0, w1.Balance)

	var count int64
	gdb.Model(&domain.Wallet{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRechargeWritesSnapshotRow(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")

	txn, err := ledger.Recharge(user.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, domain.TxRecharge, txn.Type)
	assert.Equal(t, 0.0, txn.BalanceBefore)
	assert.Equal(t, 50.0, txn.BalanceAfter)

	txn, err = ledger.Recharge(user.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 50.0, txn.BalanceBefore)
	assert.Equal(t, 75.0, txn.BalanceAfter)
	assert.Equal(t, txn.BalanceBefore+txn.Amount, txn.BalanceAfter)

	w, err := ledger.GetOrCreate(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, w.Balance)
}

func TestRechargeRejectsNonPositiveAmount(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")

	for _, amount := range []float64{0, -10} {
		_, err := ledger.Recharge(user.ID, amount)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
	var count int64
	gdb.Model(&domain.Transaction{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPurchaseCourseCommitsAllEffects(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")
	course := seedCourse(t, gdb, 30)

	_, err := ledger.Recharge(user.ID, 100)
	require.NoError(t, err)

	txn, err := ledger.PurchaseCourse(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxPurchase, txn.Type)
	assert.Equal(t, -30.0, txn.Amount)
	assert.Equal(t, 100.0, txn.BalanceBefore)
	assert.Equal(t, 70.0, txn.BalanceAfter)
	require.NotNil(t, txn.CourseID)
	assert.Equal(t, course.ID, *txn.CourseID)

	enrolled, err := enrollment.IsEnrolled(gdb, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	var fresh domain.Course
	require.NoError(t, gdb.First(&fresh, course.ID).Error)
	assert.Equal(t, 1, fresh.StudentCount)
}

func TestPurchaseInsufficientBalanceHasNoEffect(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")
	course := seedCourse(t, gdb, 30)

	_, err := ledger.Recharge(user.ID, 10)
	require.NoError(t, err)

	_, err = ledger.PurchaseCourse(user.ID, course.ID)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Balance untouched, no PURCHASE row, no enrollment, counter unchanged
	w, err := ledger.GetOrCreate(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, w.Balance)

	var purchases int64
	gdb.Model(&domain.Transaction{}).Where("type = ?", domain.TxPurchase).Count(&purchases)
	assert.EqualValues(t, 0, purchases)

	enrolled, err := enrollment.IsEnrolled(gdb, user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	var fresh domain.Course
	require.NoError(t, gdb.First(&fresh, course.ID).Error)
	assert.Equal(t, 0, fresh.StudentCount)
}

func TestPurchaseUnknownCourse(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")

	_, err := ledger.PurchaseCourse(user.ID, 9999)
	assert.ErrorIs(t, err, enrollment.ErrCourseNotFound)
}

func TestPurchaseTwiceConflicts(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")
	course := seedCourse(t, gdb, 30)

	_, err := ledger.Recharge(user.ID, 100)
	require.NoError(t, err)

	_, err = ledger.PurchaseCourse(user.ID, course.ID)
	require.NoError(t, err)
	_, err = ledger.PurchaseCourse(user.ID, course.ID)
	assert.ErrorIs(t, err, enrollment.ErrAlreadyEnrolled)

	// Only the first purchase was charged
	w, err := ledger.GetOrCreate(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, w.Balance)
}

func TestFreeEnrollThenPurchaseConflicts(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")
	course := seedCourse(t, gdb, 0)

	_, err := enrollment.SelfEnroll(gdb, user.ID, course.ID)
	require.NoError(t, err)

	_, err = ledger.PurchaseCourse(user.ID, course.ID)
	assert.ErrorIs(t, err, enrollment.ErrAlreadyEnrolled)
}

func TestAdminAdjustSignedAmounts(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")

	txn, err := ledger.AdminAdjust(user.ID, 40, "promo credit")
	require.NoError(t, err)
	assert.Equal(t, domain.TxAdminAdd, txn.Type)
	assert.Equal(t, 40.0, txn.BalanceAfter)

	// A debit is still ADMIN_ADD, just negative
	txn, err = ledger.AdminAdjust(user.ID, -15, "")
	require.NoError(t, err)
	assert.Equal(t, domain.TxAdminAdd, txn.Type)
	assert.Equal(t, -15.0, txn.Amount)
	assert.Equal(t, 25.0, txn.BalanceAfter)
	assert.Equal(t, "Admin adjustment", txn.Description)

	// A debit may not overdraw the wallet
	_, err = ledger.AdminAdjust(user.ID, -100, "")
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = ledger.AdminAdjust(user.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestConcurrentRechargesLoseNoUpdate(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := ledger.Recharge(user.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	w, err := ledger.GetOrCreate(user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(workers), w.Balance)

	// Every mutation left a snapshot row and the chain is gap-free
	txs, total, err := ledger.Transactions(user.ID, 1, 100)
	require.NoError(t, err)
	assert.EqualValues(t, workers, total)
	for _, txn := range txs {
		assert.Equal(t, txn.BalanceBefore+txn.Amount, txn.BalanceAfter)
	}
}

func TestConcurrentPurchasesLoseNoUpdate(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")
	courseA := seedCourse(t, gdb, 10)
	courseB := domain.Course{
		Title:      "Go in anger",
		CategoryID: courseA.CategoryID,
		TeacherID:  courseA.TeacherID,
		Price:      25,
		Status:     domain.CoursePublished,
	}
	require.NoError(t, gdb.Create(&courseB).Error)

	_, err := ledger.Recharge(user.ID, 100)
	require.NoError(t, err)

	// Purchases race each other and a stream of recharges on one wallet
	const recharges = 10
	var wg sync.WaitGroup
	wg.Add(recharges + 2)
	for i := 0; i < recharges; i++ {
		go func() {
			defer wg.Done()
			_, err := ledger.Recharge(user.ID, 1)
			assert.NoError(t, err)
		}()
	}
	for _, id := range []uint{courseA.ID, courseB.ID} {
		go func(courseID uint) {
			defer wg.Done()
			_, err := ledger.PurchaseCourse(user.ID, courseID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	// 100 + 10*1 - 10 - 25
	w, err := ledger.GetOrCreate(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, w.Balance)

	// Each mutation left a snapshot row and the rows chain without gaps
	txs, total, err := ledger.Transactions(user.ID, 1, 100)
	require.NoError(t, err)
	require.EqualValues(t, recharges+3, total)
	for i, txn := range txs {
		assert.Equal(t, txn.BalanceBefore+txn.Amount, txn.BalanceAfter)
		if i+1 < len(txs) {
			assert.Equal(t, txs[i+1].BalanceAfter, txn.BalanceBefore)
		}
	}

	for _, id := range []uint{courseA.ID, courseB.ID} {
		enrolled, err := enrollment.IsEnrolled(gdb, user.ID, id)
		require.NoError(t, err)
		assert.True(t, enrolled)
	}
}

func TestTransactionsPagination(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewLedger(gdb)
	user := seedUser(t, gdb, "alice")

	for i := 1; i <= 5; i++ {
		_, err := ledger.Recharge(user.ID, float64(i))
		require.NoError(t, err)
	}

	page1, total, err := ledger.Transactions(user.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page1, 2)
	// Newest first
	assert.Equal(t, 5.0, page1[0].Amount)
	assert.Equal(t, 4.0, page1[1].Amount)

	page3, _, err := ledger.Transactions(user.ID, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, 1.0, page3[0].Amount)
}
