package superAdminValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var validRoles = map[string]bool{
	"STUDENT":    true,
	"INSTRUCTOR": true,
	"ADMIN":      true,
}

func ChangeRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Role string `json:"role"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if !validRoles[reqData.Role] {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"role": "Role must be STUDENT, INSTRUCTOR or ADMIN!",
			})
		}

		c.Locals("validatedRole", reqData)
		return c.Next()
	}
}

func SetBlocked() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			IsBlocked *bool `json:"is_blocked"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.IsBlocked == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"is_blocked": "is_blocked is required!",
			})
		}

		c.Locals("validatedBlock", reqData)
		return c.Next()
	}
}

func SetMaintenance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			IsActive *bool  `json:"is_active"`
			Message  string `json:"message"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.IsActive == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"is_active": "is_active is required!",
			})
		}

		c.Locals("validatedMaintenance", reqData)
		return c.Next()
	}
}
