package main

import (
	"log"

	"lms/config"
	"lms/database"
	"lms/middleware"
	analyticsRoutes "lms/routers/analyticsRoutes"
	assignmentRoutes "lms/routers/assignmentRoutes"
	authRoutes "lms/routers/authRoutes"
	chatbotRoutes "lms/routers/chatbotRoutes"
	courseRoutes "lms/routers/courseRoutes"
	forumRoutes "lms/routers/forumRoutes"
	notificationRoutes "lms/routers/notificationRoutes"
	superAdminRoutes "lms/routers/superAdmin"
	surveyRoutes "lms/routers/surveyRoutes"
	userRoutes "lms/routers/userRoutes"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Maintenance mode short-circuits everything except admins
	app.Use(middleware.MaintenanceMiddleware)

	// Serve uploaded files
	app.Static("/uploads", config.AppConfig.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	assignmentRoutes.SetupAssignmentRoutes(app)
	surveyRoutes.SetupSurveyRoutes(app)
	forumRoutes.SetupForumRoutes(app)
	chatbotRoutes.SetupChatbotRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	analyticsRoutes.SetupAnalyticsRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)

	utils.InitializeSchedulers()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
