package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"
	"lms/validators/params"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up course authoring routes for instructors
// and admins
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware)

	// Course lifecycle
	adminGroup.Post("/", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Get("/owned", controllers.GetOwnedCourses)
	adminGroup.Patch("/:id", params.ID("id", "courseID"), validators.UpdateCourse(), controllers.UpdateCourse)
	adminGroup.Delete("/:id", params.ID("id", "courseID"), controllers.DeleteCourse)
	adminGroup.Patch("/:id/publish", params.ID("id", "courseID"), params.Publish(), controllers.PublishCourse)

	// Staff management
	adminGroup.Post("/:id/staff", params.ID("id", "courseID"), validators.AssignStaff(), controllers.AssignStaff)
	adminGroup.Delete("/:id/staff/:user_id", params.ID("id", "courseID"), params.ID("user_id", "staffUserID"), controllers.RemoveStaff)

	// Enrollment oversight
	adminGroup.Get("/:id/enrollments", params.ID("id", "courseID"), params.List(), controllers.GetCourseEnrollments)
	adminGroup.Get("/:id/student/:student_id/progress", params.ID("id", "courseID"), params.ID("student_id", "studentID"), controllers.GetStudentProgress)

	// Modules
	adminGroup.Get("/:id/modules", params.ID("id", "courseID"), controllers.ListModules)
	adminGroup.Post("/:id/module", params.ID("id", "courseID"), validators.CreateModule(), controllers.CreateModule)
	adminGroup.Patch("/:id/module/:module_id", params.ID("id", "courseID"), params.ID("module_id", "moduleID"), validators.UpdateModule(), controllers.UpdateModule)
	adminGroup.Delete("/:id/module/:module_id", params.ID("id", "courseID"), params.ID("module_id", "moduleID"), controllers.DeleteModule)

	// Lectures
	adminGroup.Post("/:id/module/:module_id/lecture", params.ID("id", "courseID"), params.ID("module_id", "moduleID"), validators.CreateLecture(), controllers.CreateLecture)

	lectureGroup := app.Group("/admin/lecture", middleware.JWTMiddleware)
	lectureGroup.Patch("/:id", params.ID("id", "lectureID"), validators.UpdateLecture(), controllers.UpdateLecture)
	lectureGroup.Patch("/:id/publish", params.ID("id", "lectureID"), params.Publish(), controllers.PublishLecture)
	lectureGroup.Post("/:id/upload", params.ID("id", "lectureID"), controllers.UploadLectureFile)
	lectureGroup.Delete("/:id", params.ID("id", "lectureID"), controllers.DeleteLecture)

	// Sections
	lectureGroup.Post("/:id/section", params.ID("id", "lectureID"), validators.CreateSection(), controllers.CreateSection)

	sectionGroup := app.Group("/admin/section", middleware.JWTMiddleware)
	sectionGroup.Patch("/:id", params.ID("id", "sectionID"), validators.UpdateSection(), controllers.UpdateSection)
	sectionGroup.Delete("/:id", params.ID("id", "sectionID"), controllers.DeleteSection)
}
