package notificationValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func UpdatePreferences() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			EmailEnabled  *bool `json:"email_enabled"`
			GradeAlerts   *bool `json:"grade_alerts"`
			ForumAlerts   *bool `json:"forum_alerts"`
			SurveyAlerts  *bool `json:"survey_alerts"`
			CourseUpdates *bool `json:"course_updates"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.EmailEnabled == nil && reqData.GradeAlerts == nil && reqData.ForumAlerts == nil &&
			reqData.SurveyAlerts == nil && reqData.CourseUpdates == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"preferences": "Provide at least one preference field!",
			})
		}

		c.Locals("validatedPreferences", reqData)
		return c.Next()
	}
}
