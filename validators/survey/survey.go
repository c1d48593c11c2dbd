package surveyValidator

import (
	"encoding/json"
	"strings"
	"time"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var questionTypes = map[string]bool{
	"TEXT":   true,
	"SINGLE": true,
	"MULTI":  true,
	"SCALE":  true,
}

func CreateSurvey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string     `json:"title"`
			Description string     `json:"description"`
			ClosesAt    *time.Time `json:"closes_at"`
			Questions   []struct {
				Prompt     string   `json:"prompt"`
				Type       string   `json:"type"`
				Options    []string `json:"options"`
				IsRequired bool     `json:"is_required"`
			} `json:"questions"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required!"
		}
		for _, q := range reqData.Questions {
			if strings.TrimSpace(q.Prompt) == "" {
				errors["questions"] = "Every question needs a prompt!"
				break
			}
			if !questionTypes[q.Type] {
				errors["questions"] = "Question type must be TEXT, SINGLE, MULTI or SCALE!"
				break
			}
			// Choice questions need options to choose from
			if (q.Type == "SINGLE" || q.Type == "MULTI") && len(q.Options) < 2 {
				errors["questions"] = "Choice questions need at least 2 options!"
				break
			}
		}
		if reqData.ClosesAt != nil && reqData.ClosesAt.Before(time.Now()) {
			errors["closes_at"] = "Close time must be in the future!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSurvey", reqData)
		return c.Next()
	}
}

func SubmitResponse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers []struct {
				QuestionID uint            `json:"question_id"`
				Value      json.RawMessage `json:"value"`
			} `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Answers) == 0 {
			errors["answers"] = "At least one answer is required!"
		}
		for _, a := range reqData.Answers {
			if a.QuestionID == 0 {
				errors["answers"] = "Every answer needs a question ID!"
				break
			}
			if len(a.Value) == 0 {
				errors["answers"] = "Every answer needs a value!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedResponse", reqData)
		return c.Next()
	}
}
