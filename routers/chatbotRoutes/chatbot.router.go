package chatbotRoutes

import (
	controllers "lms/controllers/chatbot"
	"lms/middleware"
	validators "lms/validators/chatbot"
	"lms/validators/params"

	"github.com/gofiber/fiber/v2"
)

func SetupChatbotRoutes(app *fiber.App) {
	// Course-scoped listing and creation
	courseGroup := app.Group("/course/:id/chatbot", middleware.JWTMiddleware, params.ID("id", "courseID"))
	courseGroup.Get("/", controllers.ListChatbots)
	courseGroup.Post("/", validators.CreateChatbot(), controllers.CreateChatbot)

	// Bot configuration
	botGroup := app.Group("/chatbot", middleware.JWTMiddleware)
	botGroup.Patch("/:id", params.ID("id", "chatbotID"), validators.UpdateChatbot(), controllers.UpdateChatbot)
	botGroup.Patch("/:id/publish", params.ID("id", "chatbotID"), params.Publish(), controllers.PublishChatbot)
	botGroup.Delete("/:id", params.ID("id", "chatbotID"), controllers.DeleteChatbot)

	// Conversations
	botGroup.Post("/:id/conversation", params.ID("id", "chatbotID"), validators.StartConversation(), controllers.StartConversation)
	botGroup.Get("/:id/conversations", params.ID("id", "chatbotID"), controllers.ListConversations)

	conversationGroup := app.Group("/conversation", middleware.JWTMiddleware)
	conversationGroup.Get("/:id", params.ID("id", "conversationID"), controllers.GetConversation)
	conversationGroup.Post("/:id/message", params.ID("id", "conversationID"), validators.SendMessage(), controllers.SendMessage)
	conversationGroup.Delete("/:id", params.ID("id", "conversationID"), controllers.DeleteConversation)
}
