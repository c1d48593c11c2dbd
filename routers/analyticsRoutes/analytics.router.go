package analyticsRoutes

import (
	controllers "lms/controllers/analytics"
	"lms/middleware"
	validators "lms/validators/analytics"
	"lms/validators/params"

	"github.com/gofiber/fiber/v2"
)

func SetupAnalyticsRoutes(app *fiber.App) {
	// Platform dashboard, admin only
	app.Get("/admin/dashboard", middleware.JWTMiddleware, controllers.GetDashboard)

	// Course-scoped analytics for staff
	courseGroup := app.Group("/course/:id/analytics", middleware.JWTMiddleware, params.ID("id", "courseID"))
	courseGroup.Get("/activity", controllers.GetCourseActivity)
	courseGroup.Post("/tna", validators.BuildTNA(), controllers.BuildTNAModel)
	courseGroup.Get("/tna/snapshots", controllers.ListTNASnapshots)

	snapshotGroup := app.Group("/tna/snapshot", middleware.JWTMiddleware)
	snapshotGroup.Get("/:id", params.ID("id", "snapshotID"), controllers.GetTNASnapshot)
}
