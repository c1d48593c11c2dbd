package assignmentValidator

import (
	"strings"
	"time"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string     `json:"title"`
			Instructions string     `json:"instructions"`
			DueDate      *time.Time `json:"due_date"`
			MaxPoints    *int       `json:"max_points"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if reqData.MaxPoints != nil && *reqData.MaxPoints < 1 {
			errors["max_points"] = "Max points must be at least 1!"
		}
		if reqData.DueDate != nil && reqData.DueDate.Before(time.Now()) {
			errors["due_date"] = "Due date must be in the future!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssignment", reqData)
		return c.Next()
	}
}

func UpdateAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string     `json:"title"`
			Instructions string     `json:"instructions"`
			DueDate      *time.Time `json:"due_date"`
			MaxPoints    *int       `json:"max_points"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.MaxPoints != nil && *reqData.MaxPoints < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"max_points": "Max points must be at least 1!",
			})
		}

		c.Locals("validatedAssignmentUpdate", reqData)
		return c.Next()
	}
}

// SubmitAssignment accepts multipart form submissions, so the text body
// rides as a form value next to the optional file part
func SubmitAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TextBody string `json:"text_body"`
		})

		// Multipart submissions carry text_body as a form value
		if form := c.FormValue("text_body"); form != "" {
			reqData.TextBody = form
		} else if err := c.BodyParser(reqData); err != nil && !strings.Contains(c.Get("Content-Type"), "multipart") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

func GradeSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Points   *int   `json:"points"`
			Feedback string `json:"feedback"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Points == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"points": "Points are required!",
			})
		}

		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}
