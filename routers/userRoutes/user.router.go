package userRoutes

import (
	userControllers "lms/controllers/userControllers"
	"lms/middleware"
	"lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userControllers.GetProfile)
	userGroup.Patch("/profile", middleware.JWTMiddleware, userValidator.UpdateProfile(), userControllers.UpdateProfile)
	userGroup.Post("/profile/image", middleware.JWTMiddleware, userControllers.UploadProfileImage)
}
