package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/wiliammelo/empoweru/clients"
	"github.com/wiliammelo/empoweru/database"
	auth_handlers "github.com/wiliammelo/empoweru/handlers/auth"
	certificate_handlers "github.com/wiliammelo/empoweru/handlers/certificate"
	course_handlers "github.com/wiliammelo/empoweru/handlers/course"
	evaluation_handlers "github.com/wiliammelo/empoweru/handlers/evaluation"
	professor_handlers "github.com/wiliammelo/empoweru/handlers/professor"
	section_handlers "github.com/wiliammelo/empoweru/handlers/section"
	student_handlers "github.com/wiliammelo/empoweru/handlers/student"
	video_handlers "github.com/wiliammelo/empoweru/handlers/video"
	"github.com/wiliammelo/empoweru/model"
	"github.com/wiliammelo/empoweru/services"
	"github.com/wiliammelo/empoweru/utils/auth"
	"github.com/wiliammelo/empoweru/utils/cache"
	"github.com/wiliammelo/empoweru/utils/middleware"
	"github.com/wiliammelo/empoweru/utils/response"
	"gorm.io/gorm"
)

// SetupRoutes wires handlers onto the fiber app. The Redis cache, queue
// dispatcher and file uploader are created by the app bootstrap so their
// lifecycles outlive a route rebuild.
func SetupRoutes(app *fiber.App, store database.Storage, redisCache *cache.RedisCache, dispatcher *clients.Dispatcher, uploader services.FileUploader) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "empoweru-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Services shared across handlers
	videoService := services.NewVideoService(db, uploader)
	certificateService := services.NewCertificateService(db, dispatcher)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection, dispatcher)
	courseHandler := course_handlers.NewCourseHandler(db, videoService)
	sectionHandler := section_handlers.NewSectionHandler(db)
	videoHandler := video_handlers.NewVideoHandler(db, videoService)
	evaluationHandler := evaluation_handlers.NewEvaluationHandler(db)
	certificateHandler := certificate_handlers.NewCertificateHandler(db, certificateService)
	studentHandler := student_handlers.NewStudentHandler(db)
	professorHandler := professor_handlers.NewProfessorHandler(db)

	// Security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", func(c *fiber.Ctx) error {
		if err := store.HealthCheck(); err != nil {
			return response.Error(c, fiber.StatusServiceUnavailable, "Database unreachable", "UNHEALTHY")
		}
		return response.Success(c, fiber.Map{"status": "ok"})
	})

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register/student", authHandler.RegisterStudent)
	authGroup.Post("/register/professor", authHandler.RegisterProfessor)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/logout-all", authMiddleware.Required(), authHandler.LogoutAll)
	authGroup.Get("/me", authMiddleware.Required(), authHandler.GetProfile)

	// Courses
	courses := api.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)                                                                                                  // Public: browse catalog
	courses.Get("/enrolled", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent), courseHandler.MyCourses)                   // Student: my courses
	courses.Get("/:id", authMiddleware.Optional(), courseHandler.GetCourse)                                                                      // Public, enriched for students
	courses.Get("/:id/summary", courseHandler.GetCourseSummary)                                                                                  // Public: aggregates
	courses.Post("/", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleProfessor, model.RoleAdmin), courseHandler.CreateCourse)   // Professor/admin
	courses.Put("/:id", authMiddleware.Required(), courseHandler.UpdateCourse)                                                                   // Owner or admin
	courses.Delete("/:id", authMiddleware.Required(), courseHandler.DeleteCourse)                                                                // Owner or admin
	courses.Post("/:id/enroll", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent), courseHandler.Enroll)                   // Student
	courses.Post("/:id/disenroll", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent), courseHandler.Disenroll)             // Student

	// Sections nested under courses
	courses.Get("/:courseId/sections", sectionHandler.ListSections)
	courses.Post("/:courseId/sections", authMiddleware.Required(), sectionHandler.CreateSection)

	// Student progress and results within a course
	courses.Get("/:courseId/watched", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent), videoHandler.WatchedVideos)
	courses.Get("/:courseId/results", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent), evaluationHandler.MyResults)

	// Certificates
	courses.Get("/:courseId/certificate/eligibility", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent), certificateHandler.CheckEligibility)
	courses.Post("/:courseId/certificate", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent), certificateHandler.RequestCertificate)

	// Sections
	sections := api.Group("/sections")
	sections.Get("/:id", sectionHandler.GetSection)
	sections.Put("/:id", authMiddleware.Required(), sectionHandler.UpdateSection)
	sections.Delete("/:id", authMiddleware.Required(), sectionHandler.DeleteSection)
	sections.Post("/:sectionId/videos", authMiddleware.Required(), videoHandler.UploadVideo)
	sections.Post("/:sectionId/evaluation", authMiddleware.Required(), evaluationHandler.CreateActivity)

	// Videos
	videos := api.Group("/videos")
	videos.Put("/:id", authMiddleware.Required(), videoHandler.UpdateVideo)
	videos.Put("/:id/order", authMiddleware.Required(), videoHandler.ReorderVideo)
	videos.Delete("/:id", authMiddleware.Required(), videoHandler.DeleteVideo)
	videos.Post("/:id/watch", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent), videoHandler.MarkWatched)

	// Evaluations
	evaluations := api.Group("/evaluations")
	evaluations.Get("/:id", authMiddleware.Required(), evaluationHandler.GetActivity)
	evaluations.Delete("/:id", authMiddleware.Required(), evaluationHandler.DeleteActivity)
	evaluations.Post("/:id/submit", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleStudent), evaluationHandler.Submit)

	// Students (admin or self)
	students := api.Group("/students", authMiddleware.Required())
	students.Get("/", authMiddleware.RequireRole(model.RoleAdmin), studentHandler.ListStudents)
	students.Get("/:id", studentHandler.GetStudent)
	students.Put("/:id", studentHandler.UpdateStudent)
	students.Delete("/:id", studentHandler.DeleteStudent)

	// Professors (public listing, protected mutation)
	professors := api.Group("/professors")
	professors.Get("/", professorHandler.ListProfessors)
	professors.Get("/:id", professorHandler.GetProfessor)
	professors.Put("/:id", authMiddleware.Required(), professorHandler.UpdateProfessor)
	professors.Delete("/:id", authMiddleware.RequireAdmin(), professorHandler.DeleteProfessor)
}
