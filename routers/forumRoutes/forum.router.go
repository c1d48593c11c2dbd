package forumRoutes

import (
	controllers "lms/controllers/forum"
	"lms/middleware"
	validators "lms/validators/forum"
	"lms/validators/params"

	"github.com/gofiber/fiber/v2"
)

func SetupForumRoutes(app *fiber.App) {
	// Course-scoped listing and creation
	courseGroup := app.Group("/course/:id/forum", middleware.JWTMiddleware, params.ID("id", "courseID"))
	courseGroup.Get("/", params.List(), controllers.ListThreads)
	courseGroup.Post("/", validators.CreateThread(), controllers.CreateThread)

	// Thread-scoped operations
	threadGroup := app.Group("/thread", middleware.JWTMiddleware)
	threadGroup.Get("/:id", params.ID("id", "threadID"), controllers.GetThread)
	threadGroup.Post("/:id/post", params.ID("id", "threadID"), validators.CreatePost(), controllers.CreatePost)
	threadGroup.Patch("/:id/moderate", params.ID("id", "threadID"), validators.ModerateThread(), controllers.ModerateThread)
	threadGroup.Delete("/:id", params.ID("id", "threadID"), controllers.DeleteThread)

	// Post-scoped operations
	postGroup := app.Group("/post", middleware.JWTMiddleware)
	postGroup.Patch("/:id", params.ID("id", "postID"), validators.UpdatePost(), controllers.UpdatePost)
	postGroup.Delete("/:id", params.ID("id", "postID"), controllers.DeletePost)
}
