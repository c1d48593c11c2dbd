package analyticsValidator

import (
	"time"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var tnaModes = map[string]bool{
	"tna":  true,
	"ftna": true,
	"atna": true,
}

func BuildTNA() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Mode      string     `json:"mode"`
			From      *time.Time `json:"from"`
			To        *time.Time `json:"to"`
			Threshold *float64   `json:"threshold"`
		})

		// An empty body builds the default model over the default window
		if err := c.BodyParser(reqData); err != nil && len(c.Body()) > 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Mode != "" && !tnaModes[reqData.Mode] {
			errors["mode"] = "Mode must be tna, ftna or atna!"
		}
		if reqData.Threshold != nil && (*reqData.Threshold < 0 || *reqData.Threshold >= 1) {
			errors["threshold"] = "Threshold must be between 0 and 1!"
		}
		if reqData.From != nil && reqData.To != nil && reqData.From.After(*reqData.To) {
			errors["from"] = "From must be before to!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTNA", reqData)
		return c.Next()
	}
}
