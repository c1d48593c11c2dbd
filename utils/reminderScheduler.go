package utils

import (
	"fmt"
	"log"
	"time"

	"lms/database"
	"lms/models"
	assignmentModels "lms/models/assignment"
	courseModels "lms/models/course"
	surveyModels "lms/models/survey"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[LMS-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// InitializeSchedulers starts the periodic jobs: assignment due reminders
// and survey auto-close
func InitializeSchedulers() {
	logScheduler("Initializing schedulers...")

	c := cron.New()

	// Hourly: remind enrolled students about assignments due within 24h
	c.AddFunc("0 * * * *", func() {
		ProcessDueReminders()
	})

	// Every 15 minutes: close surveys past their closes_at
	c.AddFunc("*/15 * * * *", func() {
		CloseExpiredSurveys()
	})

	c.Start()
	logScheduler("Schedulers started")
}

// ProcessDueReminders emails students who have not submitted an assignment
// due within the next 24 hours
func ProcessDueReminders() {
	db := database.Database.Db
	now := time.Now()
	dayFromNow := now.Add(24 * time.Hour)

	var assignments []assignmentModels.Assignment
	if err := db.Where("is_published = ? AND is_deleted = ? AND due_date IS NOT NULL", true, false).
		Where("due_date BETWEEN ? AND ?", now, dayFromNow).
		Find(&assignments).Error; err != nil {
		logScheduler("Error fetching due assignments: " + err.Error())
		return
	}

	logScheduler(fmt.Sprintf("Found %d assignments due within 24h", len(assignments)))

	for _, a := range assignments {
		var course courseModels.Course
		if err := db.Where("id = ? AND is_deleted = ?", a.CourseID, false).First(&course).Error; err != nil {
			continue
		}

		var enrollments []courseModels.Enrollment
		if err := db.Where("course_id = ? AND status != ? AND is_deleted = ?", a.CourseID, "DROPPED", false).
			Find(&enrollments).Error; err != nil {
			continue
		}

		hoursLeft := int(time.Until(*a.DueDate).Hours())

		for _, e := range enrollments {
			// Skip students who already submitted
			var submitted int64
			db.Model(&assignmentModels.Submission{}).
				Where("assignment_id = ? AND user_id = ? AND is_deleted = ?", a.ID, e.UserID, false).
				Count(&submitted)
			if submitted > 0 {
				continue
			}

			var user models.User
			if err := db.Where("id = ? AND is_deleted = ?", e.UserID, false).First(&user).Error; err != nil {
				continue
			}

			SendDueReminderEmail(user.Email, user.Name, a.Title, course.Title, hoursLeft)
			Notify(e.UserID, "ANNOUNCEMENT",
				"Assignment due soon",
				fmt.Sprintf("%s in %s is due in about %d hours.", a.Title, course.Title, hoursLeft),
				a.ID)
		}
	}
}

// CloseExpiredSurveys flips OPEN surveys past their closes_at to CLOSED
func CloseExpiredSurveys() {
	db := database.Database.Db
	now := time.Now()

	var surveys []surveyModels.Survey
	if err := db.Where("status = ? AND is_deleted = ? AND closes_at IS NOT NULL AND closes_at <= ?",
		"OPEN", false, now).Find(&surveys).Error; err != nil {
		logScheduler("Error fetching expiring surveys: " + err.Error())
		return
	}

	for _, s := range surveys {
		s.Status = "CLOSED"
		if err := db.Save(&s).Error; err != nil {
			logScheduler(fmt.Sprintf("Failed to close survey %d: %v", s.ID, err))
			continue
		}
		logScheduler(fmt.Sprintf("Survey %d auto-closed", s.ID))
	}
}
