package chatbotValidator

import (
	"encoding/json"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateChatbot() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name           string          `json:"name"`
			SystemPrompt   string          `json:"system_prompt"`
			ModelName      string          `json:"model_name"`
			Temperature    *float64        `json:"temperature"`
			ProviderConfig json.RawMessage `json:"provider_config"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}
		if strings.TrimSpace(reqData.SystemPrompt) == "" {
			errors["system_prompt"] = "System prompt is required!"
		}
		if reqData.Temperature != nil && (*reqData.Temperature < 0 || *reqData.Temperature > 2) {
			errors["temperature"] = "Temperature must be between 0 and 2!"
		}
		if len(reqData.ProviderConfig) > 0 && !json.Valid(reqData.ProviderConfig) {
			errors["provider_config"] = "Provider config must be valid JSON!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChatbot", reqData)
		return c.Next()
	}
}

func UpdateChatbot() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name           string          `json:"name"`
			SystemPrompt   string          `json:"system_prompt"`
			ModelName      string          `json:"model_name"`
			Temperature    *float64        `json:"temperature"`
			ProviderConfig json.RawMessage `json:"provider_config"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Temperature != nil && (*reqData.Temperature < 0 || *reqData.Temperature > 2) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"temperature": "Temperature must be between 0 and 2!",
			})
		}

		c.Locals("validatedChatbotUpdate", reqData)
		return c.Next()
	}
}

func StartConversation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title string `json:"title"`
		})

		// Body is optional, a bare POST starts an untitled conversation
		if err := c.BodyParser(reqData); err != nil && len(c.Body()) > 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedConversation", reqData)
		return c.Next()
	}
}

func SendMessage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Body string `json:"body"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Body) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"body": "Message body is required!",
			})
		}
		if len(reqData.Body) > 8000 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"body": "Message body must be at most 8000 characters!",
			})
		}

		c.Locals("validatedMessage", reqData)
		return c.Next()
	}
}
