package api

import (
	"course_platform/internal/config"     // Application configuration
	"course_platform/internal/middleware" // Auth middleware
	"course_platform/internal/wallet"     // Wallet ledger
	"course_platform/internal/ws"         // Realtime room broadcaster

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter builds the full route tree. The ledger and hub are shared
// singletons owned by the caller; rdb may be nil in tests, which disables
// the wallet cache.
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config, ledger *wallet.Ledger, hub *ws.Hub) *gin.Engine {
	r := gin.Default() // Gin router instance

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)                  // Token validation
	loadUser := middleware.LoadUserMiddleware(db)                        // Loads the account, rejects disabled ones
	optionalUser := middleware.OptionalUserMiddleware(db, cfg.JWTSecret) // Public routes that reveal more when signed in
	teacherOnly := middleware.TeacherOnlyMiddleware()
	adminOnly := middleware.AdminOnlyMiddleware()

	v1 := r.Group("/api/v1")

	// Auth routes
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", RegisterHandler(db))
	authGroup.POST("/login", LoginHandler(db, cfg.JWTSecret))
	authGroup.POST("/change-password", auth, loadUser, ChangePasswordHandler(db))
	authGroup.GET("/me", auth, loadUser, MeHandler())
	authGroup.GET("/users", auth, loadUser, adminOnly, ListUsersHandler(db))
	authGroup.PUT("/users/:id/role", auth, loadUser, adminOnly, UpdateUserRoleHandler(db))
	authGroup.PUT("/users/:id/status", auth, loadUser, adminOnly, UpdateUserStatusHandler(db))

	// Category routes
	categories := v1.Group("/categories")
	categories.GET("", ListCategoriesHandler(db))
	categories.POST("", auth, loadUser, adminOnly, CreateCategoryHandler(db))
	categories.PUT("/:id", auth, loadUser, adminOnly, UpdateCategoryHandler(db))
	categories.DELETE("/:id", auth, loadUser, adminOnly, DeleteCategoryHandler(db))

	// Course routes
	courses := v1.Group("/courses")
	courses.GET("", ListCoursesHandler(db))
	courses.GET("/:id", GetCourseHandler(db))
	courses.POST("", auth, loadUser, teacherOnly, CreateCourseHandler(db))
	courses.PUT("/:id", auth, loadUser, teacherOnly, UpdateCourseHandler(db))
	courses.DELETE("/:id", auth, loadUser, teacherOnly, DeleteCourseHandler(db))
	courses.POST("/:id/enroll", auth, loadUser, EnrollCourseHandler(db))
	courses.GET("/:id/is_enrolled", auth, IsEnrolledHandler(db))

	// Chapter and section routes
	chapters := v1.Group("/chapters")
	chapters.GET("/course/:course_id", ListChaptersHandler(db))
	chapters.POST("", auth, loadUser, teacherOnly, CreateChapterHandler(db))
	chapters.PUT("/:id", auth, loadUser, teacherOnly, UpdateChapterHandler(db))
	chapters.DELETE("/:id", auth, loadUser, teacherOnly, DeleteChapterHandler(db))
	chapters.POST("/sections", auth, loadUser, teacherOnly, CreateSectionHandler(db))
	chapters.PUT("/sections/:id", auth, loadUser, teacherOnly, UpdateSectionHandler(db))
	chapters.DELETE("/sections/:id", auth, loadUser, teacherOnly, DeleteSectionHandler(db))

	// Comment routes
	comments := v1.Group("/comments")
	comments.GET("/course/:course_id", ListCommentsHandler(db))
	comments.POST("", auth, loadUser, CreateCommentHandler(db))
	comments.PUT("/:id", auth, UpdateCommentHandler(db))
	comments.DELETE("/:id", auth, loadUser, DeleteCommentHandler(db))
	comments.POST("/:id/like", auth, LikeCommentHandler(db))

	// Learning and collection routes
	learning := v1.Group("/learning", auth)
	learning.POST("/records", UpsertLearningRecordHandler(db))
	learning.GET("/records/course/:course_id", ListLearningRecordsHandler(db))
	learning.GET("/my-courses", MyCoursesHandler(db))
	learning.GET("/stats", LearningStatsHandler(db))
	learning.POST("/collections/:course_id", CollectCourseHandler(db))
	learning.DELETE("/collections/:course_id", UncollectCourseHandler(db))
	learning.GET("/collections/:course_id/check", IsCollectedHandler(db))
	learning.GET("/collections", ListCollectionsHandler(db))

	// Wallet routes
	walletGroup := v1.Group("/wallet", auth)
	walletGroup.GET("/my", GetWalletHandler(ledger, rdb))
	walletGroup.POST("/recharge", RechargeHandler(ledger, rdb))
	walletGroup.POST("/purchase-course", PurchaseCourseHandler(ledger, rdb))
	walletGroup.GET("/transactions", GetTransactionsHandler(ledger, rdb))
	walletGroup.POST("/admin/add-balance/:user_id", loadUser, adminOnly, AdminAddBalanceHandler(ledger, rdb))

	// Notification routes
	notifications := v1.Group("/notifications", auth)
	notifications.GET("", ListNotificationsHandler(db))
	notifications.GET("/unread-count", UnreadCountHandler(db))
	notifications.PUT("/:id/read", MarkReadHandler(db))
	notifications.PUT("/read-all", MarkAllReadHandler(db))
	notifications.DELETE("/:id", DeleteNotificationHandler(db))

	// Live session routes
	liveManage := v1.Group("/live-manage")
	liveManage.GET("", optionalUser, ListLivesHandler(db))
	liveManage.GET("/:id", optionalUser, GetLiveHandler(db))
	liveManage.POST("", auth, loadUser, teacherOnly, CreateLiveHandler(db))
	liveManage.PUT("/:id", auth, loadUser, teacherOnly, UpdateLiveHandler(db))
	liveManage.POST("/:id/start", auth, loadUser, teacherOnly, StartLiveHandler(db))
	liveManage.POST("/:id/end", auth, loadUser, teacherOnly, EndLiveHandler(db))
	liveManage.GET("/my/list", auth, loadUser, teacherOnly, MyLivesHandler(db))
	liveManage.DELETE("/:id", auth, loadUser, teacherOnly, DeleteLiveHandler(db))

	// Admin routes
	admin := v1.Group("/admin", auth, loadUser, adminOnly)
	admin.POST("/add-student", AdminAddStudentHandler(db))
	admin.GET("/enrollments/:course_id", AdminListEnrollmentsHandler(db))
	admin.DELETE("/remove-student/:enrollment_id", AdminRemoveStudentHandler(db))
	admin.POST("/notifications/send", AdminSendNotificationHandler(db))
	admin.POST("/notifications/broadcast", AdminBroadcastHandler(db))
	admin.GET("/stats", AdminStatsHandler(db))

	// Banner routes
	banners := v1.Group("/banners")
	banners.GET("", ListBannersHandler(db))
	banners.POST("", auth, loadUser, adminOnly, CreateBannerHandler(db))
	banners.PUT("/:id", auth, loadUser, adminOnly, UpdateBannerHandler(db))
	banners.DELETE("/:id", auth, loadUser, adminOnly, DeleteBannerHandler(db))

	// System setting routes
	settings := v1.Group("/settings")
	settings.GET("/public", PublicSettingsHandler(db))
	settings.GET("", auth, loadUser, adminOnly, ListSettingsHandler(db))
	settings.POST("", auth, loadUser, adminOnly, CreateSettingHandler(db))
	settings.PUT("/batch", auth, loadUser, adminOnly, BatchUpdateSettingsHandler(db))
	settings.PUT("/:key", auth, loadUser, adminOnly, UpdateSettingHandler(db))
	settings.DELETE("/:key", auth, loadUser, adminOnly, DeleteSettingHandler(db))

	// Upload routes
	upload := v1.Group("/upload", auth, loadUser, teacherOnly)
	upload.POST("/image", UploadImageHandler(cfg))
	upload.POST("/video", UploadVideoHandler(cfg))

	// Uploaded files are served statically
	r.Static("/uploads", cfg.UploadDir)

	// Realtime chat rooms
	r.GET("/ws", ws.ServeHandler(hub))

	return r
}
