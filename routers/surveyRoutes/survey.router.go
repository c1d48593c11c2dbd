package surveyRoutes

import (
	controllers "lms/controllers/survey"
	"lms/middleware"
	"lms/validators/params"
	validators "lms/validators/survey"

	"github.com/gofiber/fiber/v2"
)

func SetupSurveyRoutes(app *fiber.App) {
	// Course-scoped listing and creation
	courseGroup := app.Group("/course/:id/survey", middleware.JWTMiddleware, params.ID("id", "courseID"))
	courseGroup.Get("/", controllers.ListSurveys)
	courseGroup.Post("/", validators.CreateSurvey(), controllers.CreateSurvey)

	// Survey-scoped operations
	surveyGroup := app.Group("/survey", middleware.JWTMiddleware)
	surveyGroup.Get("/:id", params.ID("id", "surveyID"), controllers.GetSurvey)
	surveyGroup.Patch("/:id/close", params.ID("id", "surveyID"), controllers.CloseSurvey)
	surveyGroup.Post("/:id/response", params.ID("id", "surveyID"), validators.SubmitResponse(), controllers.SubmitResponse)
	surveyGroup.Get("/:id/results", params.ID("id", "surveyID"), controllers.GetSurveyResults)
}
