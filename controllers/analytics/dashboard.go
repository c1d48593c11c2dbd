package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	analyticsModels "lms/models/analytics"
	assignmentModels "lms/models/assignment"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// GetDashboard returns platform-wide totals, weekly enrollment buckets,
// top courses and recent activity. Admin only.
func GetDashboard(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	var totalUsers, totalCourses, totalEnrollments, totalSubmissions int64
	database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("status != ? AND is_deleted = ?", "DROPPED", false).Count(&totalEnrollments)
	database.Database.Db.Model(&assignmentModels.Submission{}).Where("is_deleted = ?", false).Count(&totalSubmissions)

	var activeStudents int64
	database.Database.Db.Model(&models.User{}).
		Where("role = ? AND is_blocked = ? AND is_deleted = ?", "STUDENT", false, false).Count(&activeStudents)

	// Enrollment counts per week for the trailing 12 weeks
	type WeekBucket struct {
		WeekStart   time.Time `json:"week_start"`
		Enrollments int64     `json:"enrollments"`
	}

	weeks := make([]WeekBucket, 0, 12)
	weekStart := now.BeginningOfWeek()
	for i := 11; i >= 0; i-- {
		start := weekStart.AddDate(0, 0, -7*i)
		end := start.AddDate(0, 0, 7)

		var count int64
		database.Database.Db.Model(&courseModels.Enrollment{}).
			Where("created_at >= ? AND created_at < ? AND is_deleted = ?", start, end, false).Count(&count)

		weeks = append(weeks, WeekBucket{WeekStart: start, Enrollments: count})
	}

	// Courses ranked by active enrollment count
	type TopCourse struct {
		CourseID    uint   `json:"course_id"`
		Title       string `json:"title"`
		Enrollments int64  `json:"enrollments"`
	}

	var topCourses []TopCourse
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Select("enrollments.course_id, courses.title, COUNT(enrollments.id) AS enrollments").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.status != ? AND enrollments.is_deleted = ? AND courses.is_deleted = ?", "DROPPED", false, false).
		Group("enrollments.course_id, courses.title").
		Order("enrollments DESC").
		Limit(5).
		Scan(&topCourses)

	// Today's activity volume per action
	type ActionCount struct {
		Action string `json:"action"`
		Count  int64  `json:"count"`
	}

	var todayActivity []ActionCount
	database.Database.Db.Model(&analyticsModels.ActivityEvent{}).
		Select("action, COUNT(id) AS count").
		Where("occurred_at >= ? AND is_deleted = ?", now.BeginningOfDay(), false).
		Group("action").
		Order("count DESC").
		Scan(&todayActivity)

	var recentEvents []analyticsModels.ActivityEvent
	database.Database.Db.Where("is_deleted = ?", false).
		Order("occurred_at desc").Limit(20).Find(&recentEvents)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"totals": fiber.Map{
			"users":       totalUsers,
			"students":    activeStudents,
			"courses":     totalCourses,
			"enrollments": totalEnrollments,
			"submissions": totalSubmissions,
		},
		"weekly_enrollments": weeks,
		"top_courses":        topCourses,
		"today_activity":     todayActivity,
		"recent_events":      recentEvents,
	})
}

// GetCourseActivity returns a per-course activity breakdown for the course
// dashboard. Staff only.
func GetCourseActivity(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if !middleware.CanManageCourse(user, courseID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Course staff only.", nil)
	}

	monthStart := now.BeginningOfMonth()

	type ActionCount struct {
		Action string `json:"action"`
		Count  int64  `json:"count"`
	}

	var monthActivity []ActionCount
	database.Database.Db.Model(&analyticsModels.ActivityEvent{}).
		Select("action, COUNT(id) AS count").
		Where("course_id = ? AND occurred_at >= ? AND is_deleted = ?", courseID, monthStart, false).
		Group("action").
		Order("count DESC").
		Scan(&monthActivity)

	var activeLearners int64
	database.Database.Db.Model(&analyticsModels.ActivityEvent{}).
		Where("course_id = ? AND occurred_at >= ? AND is_deleted = ?", courseID, monthStart, false).
		Distinct("user_id").Count(&activeLearners)

	var enrollmentCount int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND status != ? AND is_deleted = ?", courseID, "DROPPED", false).Count(&enrollmentCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course activity fetched successfully!", fiber.Map{
		"month_start":     monthStart,
		"month_activity":  monthActivity,
		"active_learners": activeLearners,
		"enrollments":     enrollmentCount,
	})
}
