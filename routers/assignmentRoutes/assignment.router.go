package assignmentRoutes

import (
	controllers "lms/controllers/assignment"
	"lms/middleware"
	validators "lms/validators/assignment"
	"lms/validators/params"

	"github.com/gofiber/fiber/v2"
)

func SetupAssignmentRoutes(app *fiber.App) {
	// Course-scoped listing and creation
	courseGroup := app.Group("/course/:id/assignment", middleware.JWTMiddleware, params.ID("id", "courseID"))
	courseGroup.Get("/", controllers.ListAssignments)
	courseGroup.Post("/", validators.CreateAssignment(), controllers.CreateAssignment)

	// Assignment-scoped operations
	assignmentGroup := app.Group("/assignment", middleware.JWTMiddleware)
	assignmentGroup.Patch("/:id", params.ID("id", "assignmentID"), validators.UpdateAssignment(), controllers.UpdateAssignment)
	assignmentGroup.Patch("/:id/publish", params.ID("id", "assignmentID"), params.Publish(), controllers.PublishAssignment)
	assignmentGroup.Delete("/:id", params.ID("id", "assignmentID"), controllers.DeleteAssignment)

	// Submissions
	assignmentGroup.Post("/:id/submit", params.ID("id", "assignmentID"), validators.SubmitAssignment(), controllers.SubmitAssignment)
	assignmentGroup.Get("/:id/submission", params.ID("id", "assignmentID"), controllers.GetMySubmission)
	assignmentGroup.Get("/:id/submissions", params.ID("id", "assignmentID"), controllers.ListSubmissions)

	// Grading
	submissionGroup := app.Group("/submission", middleware.JWTMiddleware)
	submissionGroup.Post("/:id/grade", params.ID("id", "submissionID"), validators.GradeSubmission(), controllers.GradeSubmission)
}
