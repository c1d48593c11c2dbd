package controllers

import (
	"lms/database"
	"lms/middleware"
	analyticsModels "lms/models/analytics"
	chatbotModels "lms/models/chatbot"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// historyLimit caps how many prior messages are replayed to the provider
const historyLimit = 50

// StartConversation opens a chat session with a published bot
func StartConversation(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	chatbotID := c.Locals("chatbotID").(uint)

	var bot chatbotModels.Chatbot
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_deleted = ?", chatbotID, true, false).First(&bot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chatbot not found!", nil)
	}

	if !middleware.CanAccessCourse(user, bot.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	reqData, _ := c.Locals("validatedConversation").(*struct {
		Title string `json:"title"`
	})

	title := "New conversation"
	if reqData != nil && reqData.Title != "" {
		title = reqData.Title
	}

	conversation := chatbotModels.Conversation{
		ChatbotID: chatbotID,
		UserID:    user.ID,
		Title:     title,
	}
	if err := database.Database.Db.Create(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start conversation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Conversation started successfully!", conversation)
}

// ListConversations lists the user's conversations with a bot
func ListConversations(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	chatbotID := c.Locals("chatbotID").(uint)

	var conversations []chatbotModels.Conversation
	if err := database.Database.Db.Where("chatbot_id = ? AND user_id = ? AND is_deleted = ?", chatbotID, user.ID, false).
		Order("updated_at desc").Find(&conversations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch conversations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversations fetched successfully!", conversations)
}

// GetConversation returns a conversation's message history. Owner only.
func GetConversation(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	conversationID := c.Locals("conversationID").(uint)

	var conversation chatbotModels.Conversation
	if err := database.Database.Db.Where("id = ? AND user_id = ? AND is_deleted = ?", conversationID, user.ID, false).First(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Conversation not found!", nil)
	}

	var messages []chatbotModels.ChatMessage
	database.Database.Db.Where("conversation_id = ? AND is_deleted = ?", conversationID, false).
		Order("created_at asc").Find(&messages)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversation fetched successfully!", fiber.Map{
		"conversation": conversation,
		"messages":     messages,
	})
}

// SendMessage stores the user's message, replays the history to the AI
// provider and stores the assistant reply. The user message is kept even
// when the provider call fails, so a retry picks the thread back up.
func SendMessage(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	conversationID := c.Locals("conversationID").(uint)

	var conversation chatbotModels.Conversation
	if err := database.Database.Db.Where("id = ? AND user_id = ? AND is_deleted = ?", conversationID, user.ID, false).First(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Conversation not found!", nil)
	}

	var bot chatbotModels.Chatbot
	if err := database.Database.Db.Where("id = ? AND is_published = ? AND is_deleted = ?", conversation.ChatbotID, true, false).First(&bot).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Chatbot not found!", nil)
	}

	if !middleware.CanAccessCourse(user, bot.CourseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	reqData, ok := c.Locals("validatedMessage").(*struct {
		Body string `json:"body"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	userMessage := chatbotModels.ChatMessage{
		ConversationID: conversationID,
		Role:           "USER",
		Body:           reqData.Body,
	}
	if err := database.Database.Db.Create(&userMessage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send message!", nil)
	}

	// Replay recent history, oldest first, user message included
	var history []chatbotModels.ChatMessage
	database.Database.Db.Where("conversation_id = ? AND is_deleted = ?", conversationID, false).
		Order("created_at desc").Limit(historyLimit).Find(&history)

	turns := make([]utils.ChatTurn, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		role := "user"
		if history[i].Role == "ASSISTANT" {
			role = "assistant"
		}
		turns = append(turns, utils.ChatTurn{Role: role, Content: history[i].Body})
	}

	reply, err := utils.GetChatCompletion(bot, turns)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "AI provider is unavailable, please try again!", fiber.Map{
			"user_message": userMessage,
		})
	}

	assistantMessage := chatbotModels.ChatMessage{
		ConversationID: conversationID,
		Role:           "ASSISTANT",
		Body:           reply.Content,
		TokenCount:     reply.TokenCount,
	}
	if err := database.Database.Db.Create(&assistantMessage).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store reply!", nil)
	}

	database.Database.Db.Model(&conversation).Update("updated_at", assistantMessage.CreatedAt)

	utils.RecordActivity(user.ID, bot.CourseID, analyticsModels.ActionChatMessage, "conversation", conversationID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Message sent successfully!", fiber.Map{
		"user_message": userMessage,
		"reply":        assistantMessage,
	})
}

// DeleteConversation soft deletes a conversation. Owner only.
func DeleteConversation(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	conversationID := c.Locals("conversationID").(uint)

	var conversation chatbotModels.Conversation
	if err := database.Database.Db.Where("id = ? AND user_id = ? AND is_deleted = ?", conversationID, user.ID, false).First(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Conversation not found!", nil)
	}

	conversation.IsDeleted = true
	if err := database.Database.Db.Save(&conversation).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete conversation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversation deleted successfully!", nil)
}
