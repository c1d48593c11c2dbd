package superAdminRoutes

import (
	controllers "lms/controllers/superAdmin"
	"lms/middleware"
	"lms/validators/params"
	validators "lms/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware)

	// User administration
	adminGroup.Get("/users", params.List(), controllers.ListUsers)
	adminGroup.Patch("/user/:id/role", params.ID("id", "targetUserID"), validators.ChangeRole(), controllers.ChangeUserRole)
	adminGroup.Patch("/user/:id/block", params.ID("id", "targetUserID"), validators.SetBlocked(), controllers.SetUserBlocked)
	adminGroup.Delete("/user/:id", params.ID("id", "targetUserID"), controllers.DeleteUser)

	// Maintenance mode
	adminGroup.Get("/maintenance", controllers.GetMaintenanceMode)
	adminGroup.Put("/maintenance", validators.SetMaintenance(), controllers.SetMaintenanceMode)
}
