package database

import (
	"fmt"
	"log"
	"os"

	"lms/models"
	analyticsModels "lms/models/analytics"
	assignmentModels "lms/models/assignment"
	chatbotModels "lms/models/chatbot"
	courseModels "lms/models/course"
	forumModels "lms/models/forum"
	notificationModels "lms/models/notification"
	surveyModels "lms/models/survey"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	// Build the PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// Open database connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)   // Maximum open connections
	sqlDB.SetMaxIdleConns(5)    // Maximum idle connections
	sqlDB.SetConnMaxLifetime(0) // No timeout

	// Run database migrations
	RunMigrations(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.LoginTracking{},
		&models.Maintenance{},
		&courseModels.Course{},
		&courseModels.CourseStaff{},
		&courseModels.Module{},
		&courseModels.Lecture{},
		&courseModels.Section{},
		&courseModels.Enrollment{},
		&courseModels.LectureCompletion{},
		&assignmentModels.Assignment{},
		&assignmentModels.Submission{},
		&assignmentModels.Grade{},
		&surveyModels.Survey{},
		&surveyModels.SurveyQuestion{},
		&surveyModels.SurveyResponse{},
		&surveyModels.SurveyAnswer{},
		&forumModels.ForumThread{},
		&forumModels.ForumPost{},
		&chatbotModels.Chatbot{},
		&chatbotModels.Conversation{},
		&chatbotModels.ChatMessage{},
		&notificationModels.Notification{},
		&notificationModels.NotificationPreference{},
		&analyticsModels.ActivityEvent{},
		&analyticsModels.TNASnapshot{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
