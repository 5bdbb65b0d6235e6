package api

import (
	"context"  // Context for Redis operations
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTL

	"course_platform/internal/domain"     // Importing domain models
	"course_platform/internal/enrollment" // Enrollment sentinel errors
	"course_platform/internal/utils"      // Cache helpers
	"course_platform/internal/wallet"     // Wallet ledger

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// walletCacheKey is the cache key for a user's wallet snapshot.
func walletCacheKey(userID uint) string {
	return "wallet:user:" + strconv.Itoa(int(userID))
}

// txCachePrefix is the cache key prefix for a user's transaction pages.
func txCachePrefix(userID uint) string {
	return "txhistory:user:" + strconv.Itoa(int(userID))
}

// invalidateWalletCache drops the wallet snapshot and the first transaction
// history pages after a balance change. Simple version: delete the first 5
// pages at the default size.
func invalidateWalletCache(rdb *redis.Client, userID uint) {
	if rdb == nil {
		return
	}
	ctx := context.Background()
	_ = utils.DeleteCache(ctx, rdb, walletCacheKey(userID))
	prefix := txCachePrefix(userID)
	for i := 1; i <= 5; i++ {
		_ = utils.DeleteCache(ctx, rdb, prefix+":page:"+strconv.Itoa(i)+":size:20")
	}
}

// RechargeRequest represents a wallet top-up request
type RechargeRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"` // Credit amount
}

// PurchaseRequest represents a course purchase request
type PurchaseRequest struct {
	CourseID uint `json:"course_id" binding:"required"` // Course to buy
}

// AddBalanceRequest represents an admin balance adjustment
type AddBalanceRequest struct {
	Amount      float64 `json:"amount" binding:"required"` // Signed adjustment, non-zero
	Description string  `json:"description"`               // Optional audit note
}

// GetWalletHandler returns the requesting user's wallet, creating it lazily
// on first access. Reads go through the cache with a 60 second TTL.
func GetWalletHandler(ledger *wallet.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		ctx := context.Background()
		cacheKey := walletCacheKey(userID)
		var cached domain.Wallet
		// Try the cache first
		if rdb != nil {
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"wallet": cached, "cached": true})
				return
			}
		}
		w, err := ledger.GetOrCreate(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wallet"})
			return
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, w, 60*time.Second) // Cache for 60 seconds
		}
		c.JSON(http.StatusOK, gin.H{"wallet": w, "cached": false})
	}
}

// RechargeHandler credits the requesting user's wallet
func RechargeHandler(ledger *wallet.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req RechargeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		txn, err := ledger.Recharge(userID, req.Amount)
		if err != nil {
			if errors.Is(err, wallet.ErrInvalidAmount) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Recharge failed"})
			return
		}
		invalidateWalletCache(rdb, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Recharge successful", "transaction": txn})
	}
}

// PurchaseCourseHandler buys a course with wallet balance. The debit, the
// transaction row and the enrollment commit atomically in the ledger.
func PurchaseCourseHandler(ledger *wallet.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var req PurchaseRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		txn, err := ledger.PurchaseCourse(userID, req.CourseID)
		switch {
		case errors.Is(err, enrollment.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		case errors.Is(err, enrollment.ErrAlreadyEnrolled):
			c.JSON(http.StatusConflict, gin.H{"error": "Already enrolled"})
			return
		case errors.Is(err, wallet.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient balance"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Purchase failed"})
			return
		}
		invalidateWalletCache(rdb, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Purchase successful", "transaction": txn})
	}
}

// GetTransactionsHandler returns one page of the requesting user's
// transaction history, newest first, cached for 60 seconds per page.
func GetTransactionsHandler(ledger *wallet.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		page, pageSize := paginationParams(c)
		ctx := context.Background()
		cacheKey := txCachePrefix(userID) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"`
			Page         int                  `json:"page"`
			PageSize     int                  `json:"page_size"`
			Total        int64                `json:"total"`
			TotalPages   int                  `json:"total_pages"`
		}
		// Try the cache first
		if rdb != nil {
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"transactions": cached.Transactions,
					"page":         cached.Page,
					"page_size":    cached.PageSize,
					"total":        cached.Total,
					"total_pages":  cached.TotalPages,
					"cached":       true,
				})
				return
			}
		}
		txs, total, err := ledger.Transactions(userID, page, pageSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		resp := gin.H{
			"transactions": txs,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  totalPages(total, pageSize),
			"cached":       false,
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache for 60 seconds
		}
		c.JSON(http.StatusOK, resp)
	}
}

// AdminAddBalanceHandler applies an administrator adjustment to another
// user's wallet. The amount is signed; a debit cannot overdraw the wallet.
func AdminAddBalanceHandler(ledger *wallet.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := idParam(c, "user_id")
		if !ok {
			return
		}
		var req AddBalanceRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		txn, err := ledger.AdminAdjust(targetID, req.Amount, req.Description)
		switch {
		case errors.Is(err, wallet.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		case errors.Is(err, wallet.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Adjustment would overdraw wallet"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Adjustment failed"})
			return
		}
		invalidateWalletCache(rdb, targetID)
		c.JSON(http.StatusOK, gin.H{"message": "Balance adjusted", "transaction": txn})
	}
}
