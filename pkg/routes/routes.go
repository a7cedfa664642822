package pkg

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Piyush6046/InstructoPlus/internal/announcement"
	"github.com/Piyush6046/InstructoPlus/internal/auth"
	"github.com/Piyush6046/InstructoPlus/internal/config"
	"github.com/Piyush6046/InstructoPlus/internal/course"
	"github.com/Piyush6046/InstructoPlus/internal/notification"
	"github.com/Piyush6046/InstructoPlus/internal/payment"
	"github.com/Piyush6046/InstructoPlus/internal/review"
	"github.com/Piyush6046/InstructoPlus/internal/search"
	"github.com/Piyush6046/InstructoPlus/internal/user"
	"github.com/Piyush6046/InstructoPlus/pkg/middleware"
)

var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewMailConfig),
	fx.Provide(config.NewEmailService),
	fx.Provide(config.NewStorageConfig),
	fx.Provide(config.NewStorageService),
	fx.Provide(config.NewRazorpayConfig),
	fx.Provide(config.NewPaymentGateway),
	fx.Provide(config.NewYoutubeConfig),
	fx.Provide(config.NewYoutubeService),
	fx.Provide(config.NewGenAIConfig),
	fx.Provide(config.NewGenAIService),

	fx.Provide(auth.NewUserRepository),
	fx.Provide(course.NewCourseRepository),
	fx.Provide(course.NewLectureRepository),
	fx.Provide(payment.NewEnrollmentStore),
	fx.Provide(announcement.NewAnnouncementRepository),
	fx.Provide(notification.NewNotificationRepository),
	fx.Provide(review.NewReviewRepository),

	fx.Provide(func(mail *config.EmailService) auth.Mailer { return mail }),
	fx.Provide(func(mail *config.EmailService) announcement.Mailer { return mail }),
	fx.Provide(func(repo *notification.NotificationRepository) announcement.NotificationStore { return repo }),

	fx.Provide(auth.NewUserService),
	fx.Provide(user.NewUserService),
	fx.Provide(course.NewCourseService),
	fx.Provide(payment.NewPaymentService),
	fx.Provide(announcement.NewAnnouncementService),
	fx.Provide(notification.NewNotificationService),
	fx.Provide(review.NewReviewService),
	fx.Provide(search.NewSearchService),

	fx.Provide(auth.NewAuthHandler),
	fx.Provide(user.NewUserHandler),
	fx.Provide(course.NewCourseHandler),
	fx.Provide(payment.NewPaymentHandler),
	fx.Provide(announcement.NewAnnouncementHandler),
	fx.Provide(notification.NewNotificationHandler),
	fx.Provide(review.NewReviewHandler),
	fx.Provide(search.NewSearchHandler),

	fx.Invoke(RegisterIndexes),
	fx.Invoke(RegisterRoutes))

func NewEchoServer(lc fx.Lifecycle, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	middleware.SetupMiddleware(e)
	port := ":8080"
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Server starting", zap.String("addr", "http://localhost"+port))
			go func() {
				if err := e.Start(port); err != nil {
					logger.Error("Server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down the server")
			return e.Shutdown(ctx)
		},
	})
	return e
}

// RegisterIndexes ensures the unique indexes backing signup and the
// one-review-per-student rule exist before traffic arrives.
func RegisterIndexes(db *mongo.Database, logger *zap.Logger) {
	config.UniqueEmailIndex(db.Collection("users"), logger)
	config.UniqueReviewIndex(db.Collection("reviews"), logger)
}

func RegisterRoutes(
	e *echo.Echo,
	authHandler *auth.AuthHandler,
	userHandler *user.UserHandler,
	courseHandler *course.CourseHandler,
	paymentHandler *payment.PaymentHandler,
	announcementHandler *announcement.AnnouncementHandler,
	notificationHandler *notification.NotificationHandler,
	reviewHandler *review.ReviewHandler,
	searchHandler *search.SearchHandler,
) {
	authGroup := e.Group("/api/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.POST("/googleauth", authHandler.GoogleAuth)
	authGroup.POST("/sendotp", authHandler.SendOtp)
	authGroup.POST("/verifyotp", authHandler.VerifyOtp)
	authGroup.POST("/resetpassword", authHandler.ResetPassword)

	userGroup := e.Group("/api/user")
	userGroup.Use(middleware.JWTMiddleware)
	userGroup.GET("/getcurrentuser", userHandler.GetCurrentUser)
	userGroup.POST("/updateprofile", userHandler.UpdateProfile)
	userGroup.GET("/:userId", userHandler.GetUserByID)

	courseGroup := e.Group("/api/course")
	courseGroup.GET("/getpublished", courseHandler.GetPublishedCourses)
	courseGroup.POST("/search", searchHandler.SearchCourses)

	courseAuthed := e.Group("/api/course")
	courseAuthed.Use(middleware.JWTMiddleware)
	courseAuthed.POST("/getcreator", courseHandler.GetCreator)
	courseAuthed.GET("/getbycreator/:creatorId", courseHandler.GetCoursesByCreatorID)
	courseAuthed.GET("/getlectures/:courseId", courseHandler.GetCourseLectures)
	courseAuthed.GET("/getcourse/:courseId", courseHandler.GetCourseByID)

	courseEducator := e.Group("/api/course")
	courseEducator.Use(middleware.JWTMiddleware, middleware.CasbinMiddleware)
	courseEducator.POST("/create", courseHandler.CreateCourse)
	courseEducator.GET("/getcreatorcourses", courseHandler.GetCreatorCourses)
	courseEducator.POST("/editcourse/:courseId", courseHandler.EditCourse)
	courseEducator.DELETE("/remove/:courseId", courseHandler.RemoveCourse)
	courseEducator.GET("/enrolledstudents/:courseId", courseHandler.GetEnrolledStudents)
	courseEducator.POST("/createlecture/:courseId", courseHandler.CreateLecture)
	courseEducator.POST("/editlecture/:lectureId", courseHandler.EditLecture)
	courseEducator.DELETE("/removelecture/:lectureId", courseHandler.RemoveLecture)
	courseEducator.POST("/addDocuments/:lectureId", courseHandler.AddDocuments)
	courseEducator.POST("/importyoutube/:courseId", courseHandler.ImportYoutube)

	orderGroup := e.Group("/api/order")
	orderGroup.Use(middleware.JWTMiddleware)
	orderGroup.POST("/razorpay-order", paymentHandler.CreateOrder)
	orderGroup.POST("/verify-payment", paymentHandler.VerifyPayment)
	orderGroup.POST("/verify-free", paymentHandler.VerifyFree)

	announcementGroup := e.Group("/api/announcement")
	announcementGroup.Use(middleware.JWTMiddleware, middleware.CasbinMiddleware)
	announcementGroup.POST("/announcements", announcementHandler.CreateAnnouncement)
	announcementGroup.GET("/announcements", announcementHandler.GetEducatorAnnouncements)
	announcementGroup.GET("/announcements/:id", announcementHandler.GetAnnouncementByID)

	notificationGroup := e.Group("/api/notification")
	notificationGroup.Use(middleware.JWTMiddleware)
	notificationGroup.GET("/notifications", notificationHandler.GetNotifications)
	notificationGroup.GET("/notifications/unread/count", notificationHandler.GetUnreadNotificationCount)
	notificationGroup.PUT("/notifications/:id/read", notificationHandler.MarkNotificationAsRead)

	reviewGroup := e.Group("/api/review")
	reviewGroup.GET("/allReview", reviewHandler.GetAllReviews)
	reviewGroup.GET("/courseReview/:courseId", reviewHandler.GetCourseReviews)
	reviewAuthed := e.Group("/api/review")
	reviewAuthed.Use(middleware.JWTMiddleware)
	reviewAuthed.POST("/givereview", reviewHandler.GiveReview)
}
