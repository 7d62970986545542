package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"project/config"
	"project/controllers"
	"project/middleware"
	"project/services/progress"
	"project/validators"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	storeTimeout := time.Duration(cfg.StoreTimeoutSeconds) * time.Second
	progressService := progress.NewService(
		progress.NewGormStore(db, storeTimeout),
		progress.NewGormCatalog(db, storeTimeout),
	)

	authMiddleware := middleware.AuthMiddleware(cfg)
	teacherMiddleware := middleware.TeacherMiddleware(db, cfg)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Get("/api/user/profile", authMiddleware, authController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, authController.UpdateProfile)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses")
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/", teacherMiddleware, coursesController.CreateCourse)
	courses.Post("/:id/lectures", teacherMiddleware, coursesController.AddLecture)
	courses.Post("/:id/materials", teacherMiddleware, coursesController.AddMaterial)
	courses.Post("/:id/quizzes", teacherMiddleware, coursesController.AddQuiz)

	// Enrollment routes
	enrollmentController := controllers.NewEnrollmentController(db, cfg, progressService)
	enrollments := app.Group("/api/enrollments", authMiddleware)
	enrollments.Post("/", enrollmentController.Enroll)
	enrollments.Get("/student/:studentId", enrollmentController.GetStudentEnrollments)
	enrollments.Get("/course/:courseId", enrollmentController.GetCourseEnrollments)

	// Progress routes
	progressController := controllers.NewProgressController(progressService)
	progressGroup := app.Group("/api/progress", authMiddleware)
	progressGroup.Post("/lecture", validators.CompleteLecture(), progressController.CompleteLecture)
	progressGroup.Post("/material", validators.CompleteMaterial(), progressController.CompleteMaterial)
	progressGroup.Post("/quiz", validators.CompleteQuiz(), progressController.CompleteQuiz)
	progressGroup.Get("/:userId/:courseId", progressController.GetProgress)
}
