package controllers

import (
	"encoding/json"

	"lms/database"
	"lms/middleware"
	chatbotModels "lms/models/chatbot"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreateChatbot configures an AI tutor for a course. Staff only.
func CreateChatbot(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if !middleware.CanManageCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	reqData, ok := c.Locals("validatedChatbot").(*struct {
		Name           string          `json:"name"`
		SystemPrompt   string          `json:"system_prompt"`
		ModelName      string          `json:"model_name"`
		Temperature    *float64        `json:"temperature"`
		ProviderConfig json.RawMessage `json:"provider_config"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	bot := chatbotModels.Chatbot{
		CourseID:     courseID,
		CreatedBy:    user.ID,
		Name:         reqData.Name,
		SystemPrompt: reqData.SystemPrompt,
		ModelName:    reqData.ModelName,
		Temperature:  0.7,
	}
	if reqData.Temperature != nil {
		bot.Temperature = *reqData.Temperature
	}
	if len(reqData.ProviderConfig) > 0 {
		bot.ProviderConfig = datatypes.JSON(reqData.ProviderConfig)
	}

	if err := database.Database.Db.Create(&bot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create chatbot!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chatbot created successfully!", bot)
}

// UpdateChatbot updates a chatbot's configuration. Staff only.
func UpdateChatbot(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	chatbotID := c.Locals("chatbotID").(uint)

	var bot chatbotModels.Chatbot
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", chatbotID, false).First(&bot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chatbot not found!", nil)
	}

	if !middleware.CanManageCourse(user, bot.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	reqData, ok := c.Locals("validatedChatbotUpdate").(*struct {
		Name           string          `json:"name"`
		SystemPrompt   string          `json:"system_prompt"`
		ModelName      string          `json:"model_name"`
		Temperature    *float64        `json:"temperature"`
		ProviderConfig json.RawMessage `json:"provider_config"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Name != "" {
		bot.Name = reqData.Name
	}
	if reqData.SystemPrompt != "" {
		bot.SystemPrompt = reqData.SystemPrompt
	}
	if reqData.ModelName != "" {
		bot.ModelName = reqData.ModelName
	}
	if reqData.Temperature != nil {
		bot.Temperature = *reqData.Temperature
	}
	if len(reqData.ProviderConfig) > 0 {
		bot.ProviderConfig = datatypes.JSON(reqData.ProviderConfig)
	}

	if err := database.Database.Db.Save(&bot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update chatbot!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chatbot updated successfully!", bot)
}

// PublishChatbot publishes or unpublishes a chatbot. Staff only.
func PublishChatbot(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	chatbotID := c.Locals("chatbotID").(uint)
	publishStatus := c.Locals("publishStatus").(bool)

	var bot chatbotModels.Chatbot
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", chatbotID, false).First(&bot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chatbot not found!", nil)
	}

	if !middleware.CanManageCourse(user, bot.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	bot.IsPublished = publishStatus
	if err := database.Database.Db.Save(&bot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update chatbot!", nil)
	}

	message := "Chatbot unpublished successfully!"
	if publishStatus {
		message = "Chatbot published successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, bot)
}

// DeleteChatbot soft deletes a chatbot. Staff only.
func DeleteChatbot(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	chatbotID := c.Locals("chatbotID").(uint)

	var bot chatbotModels.Chatbot
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", chatbotID, false).First(&bot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chatbot not found!", nil)
	}

	if !middleware.CanManageCourse(user, bot.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	bot.IsDeleted = true
	if err := database.Database.Db.Save(&bot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete chatbot!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chatbot deleted successfully!", nil)
}

// ListChatbots lists a course's chatbots. Students see only published ones.
func ListChatbots(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if !middleware.CanAccessCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	db := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false)
	if !middleware.CanManageCourse(user, courseID) {
		db = db.Where("is_published = ?", true)
	}

	var bots []chatbotModels.Chatbot
	if err := db.Order("created_at asc").Find(&bots).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch chatbots!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Chatbots fetched successfully!", bots)
}
