package notificationRoutes

import (
	controllers "lms/controllers/notification"
	"lms/middleware"
	validators "lms/validators/notification"
	"lms/validators/params"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notification")

	notificationGroup.Get("/list", middleware.JWTMiddleware, controllers.ListNotifications)
	notificationGroup.Patch("/:id/read", middleware.JWTMiddleware, params.ID("id", "notificationID"), controllers.MarkNotificationRead)
	notificationGroup.Patch("/read/all", middleware.JWTMiddleware, controllers.MarkAllNotificationsRead)

	notificationGroup.Get("/preferences", middleware.JWTMiddleware, controllers.GetPreferences)
	notificationGroup.Put("/preferences", middleware.JWTMiddleware, validators.UpdatePreferences(), controllers.UpdatePreferences)

	// Live push channel; the JWT rides in the token query param because the
	// browser WebSocket API cannot set headers
	notificationGroup.Get("/ws", controllers.WebSocketUpgrade, controllers.NotificationSocket)
}
