package courseRoutes

import (
	analyticsControllers "credlyse/controllers/analytics"
	courseControllers "credlyse/controllers/course"
	"credlyse/middleware"
	"credlyse/models"
	courseValidators "credlyse/validators/course"
	"time"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Creation and management (creators only)
	courseGroup.Post("/create",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleCreator, models.RoleAdmin),
		middleware.RateLimit(10, time.Minute),
		courseValidators.CreateCourse(),
		courseControllers.CreateCourse)
	courseGroup.Get("/my-created", middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleCreator, models.RoleAdmin),
		courseControllers.GetMyCourses)
	courseGroup.Post("/:courseId/publish", middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleCreator, models.RoleAdmin),
		courseValidators.CourseID(),
		courseControllers.PublishCourse)

	// Quiz generation pipeline (creators only)
	courseGroup.Post("/:courseId/analyze", middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleCreator, models.RoleAdmin),
		middleware.RateLimit(5, time.Minute),
		courseValidators.CourseID(),
		courseControllers.AnalyzeCourse)
	courseGroup.Get("/:courseId/analysis-status", middleware.JWTMiddleware,
		courseValidators.CourseID(),
		courseControllers.GetAnalysisStatus)

	// Creator analytics
	courseGroup.Get("/:courseId/analytics", middleware.JWTMiddleware,
		courseValidators.CourseID(),
		analyticsControllers.GetCourseAnalytics)

	// Browsing (published courses, auth optional)
	courseGroup.Get("/list", middleware.OptionalJWTMiddleware,
		courseValidators.CourseList(),
		courseControllers.GetAllCourses)
	courseGroup.Get("/:courseId", middleware.OptionalJWTMiddleware,
		courseValidators.CourseID(),
		courseControllers.GetCourseDetails)
}
