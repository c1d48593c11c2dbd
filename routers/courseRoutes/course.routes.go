package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/validators/params"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog
	courseGroup.Get("/list", middleware.JWTMiddleware, params.List(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, params.ID("id", "courseID"), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, params.ID("id", "courseID"), controllers.EnrollInCourse)
	courseGroup.Delete("/:id/enroll", middleware.JWTMiddleware, params.ID("id", "courseID"), controllers.DropCourse)

	// Content viewing, enrolled users and staff
	courseGroup.Get("/:id/content", middleware.JWTMiddleware, params.ID("id", "courseID"), controllers.GetCourseContent)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, params.ID("id", "courseID"), controllers.GetUserProgress)

	lectureGroup := app.Group("/lecture")
	lectureGroup.Get("/:id", middleware.JWTMiddleware, params.ID("id", "lectureID"), controllers.GetLecture)
	lectureGroup.Post("/:id/complete", middleware.JWTMiddleware, params.ID("id", "lectureID"), controllers.MarkLectureComplete)

	// User's own enrollments
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
}
