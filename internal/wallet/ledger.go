package wallet

import (
	"errors"
	"fmt"
	"sync"

	"course_platform/internal/domain"     // Importing domain models
	"course_platform/internal/enrollment" // Enrollment creation for purchases

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Domain errors surfaced to handlers.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Ledger owns every wallet balance mutation. Each mutation runs under a
// per-user mutex, so a concurrent read-modify-write on the same wallet can
// never lose an update, and inside a single database transaction together
// with the transaction row that documents it.
type Ledger struct {
	db    *gorm.DB
	mu    sync.Mutex           // Guards locks
	locks map[uint]*sync.Mutex // One mutex per wallet owner
}

// NewLedger returns a Ledger backed by db.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, locks: make(map[uint]*sync.Mutex)}
}

// userLock returns the mutex serializing mutations of userID's wallet.
func (l *Ledger) userLock(userID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	return m
}

// getOrCreate loads the user's wallet, creating a zero-balance one if absent.
func getOrCreate(tx *gorm.DB, userID uint) (*domain.Wallet, error) {
	var w domain.Wallet
	err := tx.Where(domain.Wallet{UserID: userID}).FirstOrCreate(&w).Error
	return &w, err
}

// GetOrCreate returns the user's wallet, lazily creating it on first access.
// Idempotent; no error path beyond storage failures.
func (l *Ledger) GetOrCreate(userID uint) (*domain.Wallet, error) {
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return getOrCreate(l.db, userID)
}

// apply mutates the wallet balance by amount and appends the documenting
// transaction row, both inside one database transaction. The caller must
// hold the user lock. Mutations that would leave the balance negative are
// rejected.
func (l *Ledger) apply(userID uint, amount float64, txType domain.TransactionType, description string, courseID *uint) (*domain.Transaction, error) {
	var txn *domain.Transaction
	err := l.db.Transaction(func(tx *gorm.DB) error {
		wallet, err := getOrCreate(tx, userID)
		if err != nil {
			return err
		}
		before := wallet.Balance
		after := before + amount
		if after < 0 {
			return ErrInsufficientBalance
		}
		if err := tx.Model(wallet).Update("balance", after).Error; err != nil {
			return err
		}
		t := domain.Transaction{
			WalletID:      wallet.ID,
			UserID:        userID,
			Type:          txType,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   description,
			CourseID:      courseID,
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		txn = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"type":    txType,
		"amount":  amount,
		"balance": txn.BalanceAfter,
	}).Info("Wallet transaction")
	return txn, nil
}

// Recharge credits the user's own wallet. Amount must be positive.
func (l *Ledger) Recharge(userID uint, amount float64) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return l.apply(userID, amount, domain.TxRecharge, fmt.Sprintf("Recharge %.2f", amount), nil)
}

// AdminAdjust applies an administrator balance adjustment. Negative amounts
// are allowed (an admin debit) but may not overdraw the wallet; the
// transaction type is ADMIN_ADD regardless of sign.
func (l *Ledger) AdminAdjust(userID uint, amount float64, description string) (*domain.Transaction, error) {
	if amount == 0 {
		return nil, ErrInvalidAmount
	}
	if description == "" {
		description = "Admin adjustment"
	}
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return l.apply(userID, amount, domain.TxAdminAdd, description, nil)
}

// PurchaseCourse debits the course price from the user's wallet and grants
// the enrollment. The debit, the PURCHASE transaction row, the enrollment
// row and the student_count bump commit as one atomic unit; any failure
// rolls back all four.
func (l *Ledger) PurchaseCourse(userID, courseID uint) (*domain.Transaction, error) {
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	var txn *domain.Transaction
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var course domain.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return enrollment.ErrCourseNotFound
			}
			return err
		}
		enrolled, err := enrollment.IsEnrolled(tx, userID, courseID)
		if err != nil {
			return err
		}
		if enrolled {
			return enrollment.ErrAlreadyEnrolled
		}
		wallet, err := getOrCreate(tx, userID)
		if err != nil {
			return err
		}
		if wallet.Balance < course.Price {
			return ErrInsufficientBalance
		}
		before := wallet.Balance
		after := before - course.Price
		if err := tx.Model(wallet).Update("balance", after).Error; err != nil {
			return err
		}
		t := domain.Transaction{
			WalletID:      wallet.ID,
			UserID:        userID,
			Type:          domain.TxPurchase,
			Amount:        -course.Price,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   "Course purchase: " + course.Title,
			CourseID:      &course.ID,
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		if _, err := enrollment.Enroll(tx, userID, &course); err != nil {
			return err
		}
		txn = &t
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":   userID,
			"course_id": courseID,
			"error":     err.Error(),
		}).Warn("Course purchase failed")
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"course_id": courseID,
		"amount":    txn.Amount,
		"balance":   txn.BalanceAfter,
	}).Info("Course purchased")
	return txn, nil
}

// Transactions returns one reverse-chronological page of the user's
// transaction history plus the total row count.
func (l *Ledger) Transactions(userID uint, page, pageSize int) ([]domain.Transaction, int64, error) {
	var total int64
	if err := l.db.Model(&domain.Transaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var txs []domain.Transaction
	err := l.db.Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&txs).Error
	return txs, total, err
}
